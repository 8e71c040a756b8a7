package main

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/keshon/smartcmd/internal/command"
	"github.com/keshon/smartcmd/internal/config"
	"github.com/keshon/smartcmd/internal/docs"
	"github.com/keshon/smartcmd/internal/interpret"
	"github.com/keshon/smartcmd/internal/invoke"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	config.Load()
	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	d := invoke.NewDispatcher(interpret.Default())
	if err := command.RegisterAll(d); err != nil {
		log.Fatal().Err(err).Msg("Failed to register commands")
	}
	if err := docs.UpdateReadme(d.Commands(), cfg.CommandPrefix, "README.md.tmpl", "README.md"); err != nil {
		log.Fatal().Err(err).Msg("Failed to update README.md")
	}
	log.Info().Msg("README.md updated with current commands")
}
