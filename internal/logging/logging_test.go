package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/keshon/smartcmd/internal/logging"
)

func TestConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "bot.log")
	log, closer, err := logging.New(logging.Options{Level: "INFO", File: path, Console: &console, NoColor: true})
	if err != nil {
		t.Fatal(err)
	}
	log.Debug().Msg("hidden")
	log.Info().Str("command", "roll").Msg("Command finished")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	if got := console.String(); !strings.Contains(got, "Command finished") || strings.Contains(got, "hidden") {
		t.Fatalf("console = %q", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("file lines = %q", lines)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatal(err)
	}
	if entry["command"] != "roll" || entry["level"] != "info" || entry["message"] != "Command finished" {
		t.Fatalf("entry = %v", entry)
	}
}

func TestLevel(t *testing.T) {
	if _, _, err := logging.New(logging.Options{Level: "loud"}); err == nil {
		t.Fatal("unknown level accepted")
	}
	var console bytes.Buffer
	log, _, err := logging.New(logging.Options{Console: &console, NoColor: true})
	if err != nil {
		t.Fatal(err)
	}
	log.Debug().Msg("hidden")
	log.Info().Msg("shown")
	if got := console.String(); strings.Contains(got, "hidden") || !strings.Contains(got, "shown") {
		t.Fatalf("console = %q", got)
	}
}
