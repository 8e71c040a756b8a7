package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment.
type Config struct {
	DiscordToken   string `env:"DISCORD_TOKEN"`
	CommandPrefix  string `env:"COMMAND_PREFIX" envDefault:"!"`
	MaxArgumentLen int    `env:"MAX_ARGUMENT_LENGTH" envDefault:"2000"`

	// Replies sent per channel per second, and how many may be sent at once.
	ReplyRate  float64 `env:"REPLY_RATE" envDefault:"1"`
	ReplyBurst int     `env:"REPLY_BURST" envDefault:"3"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

// Load reads an optional .env file into the environment. Variables already set
// win over the file. It reports whether a file was found.
func Load(files ...string) bool {
	return godotenv.Load(files...) == nil
}

// New parses the environment. It does not require a Discord token; use
// RequireToken in binaries that connect.
func New() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RequireToken fails when DISCORD_TOKEN is empty.
func (c *Config) RequireToken() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is not set")
	}
	return nil
}

func (c *Config) validate() error {
	switch {
	case c.CommandPrefix == "":
		return fmt.Errorf("COMMAND_PREFIX must not be empty")
	case c.MaxArgumentLen <= 0:
		return fmt.Errorf("MAX_ARGUMENT_LENGTH must be positive, got %d", c.MaxArgumentLen)
	case c.ReplyRate <= 0:
		return fmt.Errorf("REPLY_RATE must be positive, got %v", c.ReplyRate)
	case c.ReplyBurst <= 0:
		return fmt.Errorf("REPLY_BURST must be positive, got %d", c.ReplyBurst)
	}
	return nil
}
