package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/keshon/smartcmd/internal/command"
	"github.com/keshon/smartcmd/internal/config"
	"github.com/keshon/smartcmd/internal/discord"
	"github.com/keshon/smartcmd/internal/interpret"
	"github.com/keshon/smartcmd/internal/invoke"
	"github.com/keshon/smartcmd/internal/logging"
	"github.com/keshon/smartcmd/internal/middleware"
	v "github.com/keshon/smartcmd/internal/version"
)

func main() {
	config.Load()
	cfg, err := config.New()
	if err == nil {
		err = cfg.RequireToken()
	}
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("Invalid configuration")
	}

	log, closer, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("Failed to set up logging")
	}
	defer closer.Close()

	log.Info().Str("version", v.Version).Msgf("Starting %v bot...", v.AppName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := invoke.NewDispatcher(interpret.Default(),
		middleware.WithArgumentLimit(cfg.MaxArgumentLen),
		middleware.WithCommandLogger(),
	)
	if err := command.RegisterAll(d, invoke.WithDiagnoser(discord.LogClosest)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register commands")
	}

	bot := discord.NewBot(cfg, d, log)

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("Received signal, shutting down...")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("Discord bot error")
		}
		cancel()
	}

	log.Info().Msg("Discord bot exited cleanly")
}
