// Command cli runs the bot commands against the terminal, one per line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/keshon/smartcmd/internal/command"
	"github.com/keshon/smartcmd/internal/config"
	"github.com/keshon/smartcmd/internal/console"
	"github.com/keshon/smartcmd/internal/interpret"
	"github.com/keshon/smartcmd/internal/invoke"
	"github.com/keshon/smartcmd/internal/logging"
	"github.com/keshon/smartcmd/internal/middleware"
	v "github.com/keshon/smartcmd/internal/version"
)

func main() {
	config.Load()
	cfg, err := config.New()
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("Invalid configuration")
	}

	log, closer, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("Failed to set up logging")
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx)

	d := invoke.NewDispatcher(interpret.Default(),
		middleware.WithArgumentLimit(cfg.MaxArgumentLen),
		middleware.WithCommandLogger(),
	)
	if err := command.RegisterAll(d); err != nil {
		log.Fatal().Err(err).Msg("Failed to register commands")
	}

	fmt.Printf("%s %s, type help for the commands\n", v.AppName, v.Version)
	if err := console.Serve(ctx, d, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("Reading input failed")
	}
}
