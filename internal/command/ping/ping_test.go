package ping_test

import (
	"context"
	"strings"
	"testing"

	"github.com/keshon/smartcmd/internal/command/ping"
	"github.com/keshon/smartcmd/internal/interpret"
	"github.com/keshon/smartcmd/internal/interpret/interprettest"
)

type editable struct {
	*interprettest.MockContext
	sent  string
	edits []string
}

func (e *editable) ReplyEditable(text string) (func(string) error, error) {
	e.sent = text
	return func(s string) error {
		e.edits = append(e.edits, s)
		return nil
	}, nil
}

func isTook(s string) bool {
	return strings.HasPrefix(s, "pong! took ") && strings.HasSuffix(s, " ms")
}

func TestPingEditsReply(t *testing.T) {
	c, err := ping.New(interpret.Default())
	if err != nil {
		t.Fatal(err)
	}
	ictx := &editable{MockContext: interprettest.NewMockContext()}
	if _, err := c.Invoke(context.Background(), ictx, `anything "goes here`); err != nil {
		t.Fatal(err)
	}
	if ictx.sent != "pong!" || len(ictx.edits) != 1 || !isTook(ictx.edits[0]) {
		t.Fatalf("sent %q, edits %q", ictx.sent, ictx.edits)
	}
	if len(ictx.Replies()) != 0 {
		t.Fatalf("plain replies %q", ictx.Replies())
	}
}

func TestPingPlainContext(t *testing.T) {
	c, err := ping.New(interpret.Default())
	if err != nil {
		t.Fatal(err)
	}
	ictx := interprettest.NewMockContext()
	if _, err := c.Invoke(context.Background(), ictx, ""); err != nil {
		t.Fatal(err)
	}
	got := ictx.Replies()
	if len(got) != 2 || got[0] != "pong!" || !isTook(got[1]) {
		t.Fatalf("replies = %q", got)
	}
	if c.Aliases()[0] != "delay" {
		t.Fatalf("aliases = %v", c.Aliases())
	}
}
