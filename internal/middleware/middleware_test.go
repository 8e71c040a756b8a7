package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/keshon/smartcmd/internal/middleware"
	"github.com/keshon/smartcmd/pkg/cmd"
	"github.com/rs/zerolog"
)

type probe struct {
	err  error
	runs int
	ctx  context.Context
}

func (p *probe) Name() string        { return "probe" }
func (p *probe) Description() string { return "" }
func (p *probe) Run(ctx context.Context, _ *cmd.Invocation) error {
	p.runs++
	p.ctx = ctx
	return p.err
}

func entries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e map[string]any
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		out = append(out, e)
	}
	return out
}

func TestCommandLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())
	p := &probe{}
	c := cmd.Apply(p, middleware.WithCommandLogger())

	if err := c.Run(ctx, &cmd.Invocation{Name: "pr", Args: "x"}); err != nil {
		t.Fatal(err)
	}
	p.err = errors.New("broken")
	if err := c.Run(ctx, &cmd.Invocation{Name: "probe"}); !errors.Is(err, p.err) {
		t.Fatalf("err = %v", err)
	}

	logs := entries(t, &buf)
	if len(logs) != 2 {
		t.Fatalf("logs = %v", logs)
	}
	if logs[0]["level"] != "info" || logs[0]["command"] != "probe" || logs[0]["alias"] != "pr" {
		t.Fatalf("first = %v", logs[0])
	}
	if logs[1]["level"] != "warn" || logs[1]["error"] != "broken" {
		t.Fatalf("second = %v", logs[1])
	}
	first, _ := logs[0]["invocation"].(string)
	second, _ := logs[1]["invocation"].(string)
	if first == "" || first == second {
		t.Fatalf("invocation ids %q and %q", first, second)
	}

	// the command sees the logger carrying its invocation id
	buf.Reset()
	zerolog.Ctx(p.ctx).Info().Msg("inside")
	if got := entries(t, &buf); len(got) != 1 || got[0]["invocation"] != second {
		t.Fatalf("inner log = %v", got)
	}
}

func TestArgumentLimit(t *testing.T) {
	p := &probe{}
	c := cmd.Apply(p, middleware.WithArgumentLimit(5))

	if err := c.Run(context.Background(), &cmd.Invocation{Args: "héllo"}); err != nil {
		t.Fatalf("5 runes rejected: %v", err)
	}
	if err := c.Run(context.Background(), &cmd.Invocation{Args: "hello!"}); !errors.Is(err, middleware.ErrArgumentTooLong) {
		t.Fatalf("err = %v, want ErrArgumentTooLong", err)
	}
	if p.runs != 1 {
		t.Fatalf("runs = %d", p.runs)
	}
}
