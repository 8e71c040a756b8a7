package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/keshon/smartcmd/internal/config"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{"DISCORD_TOKEN", "COMMAND_PREFIX", "MAX_ARGUMENT_LENGTH", "REPLY_RATE", "REPLY_BURST", "LOG_LEVEL", "LOG_FILE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	cfg, err := config.New()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CommandPrefix != "!" || cfg.MaxArgumentLen != 2000 || cfg.ReplyRate != 1 || cfg.ReplyBurst != 3 || cfg.LogLevel != "info" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if err := cfg.RequireToken(); err == nil {
		t.Fatal("missing token accepted")
	}
}

func TestOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "abc")
	t.Setenv("COMMAND_PREFIX", "?")
	t.Setenv("MAX_ARGUMENT_LENGTH", "50")
	t.Setenv("REPLY_RATE", "0.5")
	cfg, err := config.New()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DiscordToken != "abc" || cfg.CommandPrefix != "?" || cfg.MaxArgumentLen != 50 || cfg.ReplyRate != 0.5 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if err := cfg.RequireToken(); err != nil {
		t.Fatal(err)
	}
}

func TestInvalid(t *testing.T) {
	tests := map[string]string{
		"MAX_ARGUMENT_LENGTH": "0",
		"REPLY_BURST":         "-1",
		"REPLY_RATE":          "fast",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := config.New(); err == nil {
				t.Fatalf("%s=%s accepted", key, value)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("COMMAND_PREFIX=>>\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("COMMAND_PREFIX", "")
	os.Unsetenv("COMMAND_PREFIX")
	if !config.Load(path) {
		t.Fatal("Load did not find the file")
	}
	cfg, err := config.New()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CommandPrefix != ">>" {
		t.Fatalf("prefix = %q", cfg.CommandPrefix)
	}
	if config.Load(filepath.Join(t.TempDir(), "missing.env")) {
		t.Fatal("Load reported a missing file")
	}
}
