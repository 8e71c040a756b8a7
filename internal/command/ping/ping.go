package ping

import (
	"context"
	"fmt"
	"time"

	"github.com/keshon/smartcmd/internal/binding"
	"github.com/keshon/smartcmd/internal/interpret"
	"github.com/keshon/smartcmd/internal/invoke"
)

// Editor is implemented by contexts whose replies can be changed after they
// were sent.
type Editor interface {
	ReplyEditable(text string) (edit func(string) error, err error)
}

// New builds the ping command. Any text after the name is accepted and
// ignored.
func New(reg *interpret.Registry, opts ...invoke.Option) (*invoke.Command, error) {
	return invoke.NewCommand(reg, invoke.Definition{
		Name:    "ping",
		Aliases: []string{"delay"},
		Doc:     "Check how long a reply takes",
		Overloads: []invoke.Overload{{
			Doc:     "replies and measures the round trip",
			Params:  []binding.Spec{binding.Raw("text")},
			Handler: run,
		}},
	}, opts...)
}

func run(_ context.Context, ictx interpret.Context, _ invoke.Args) error {
	start := time.Now()
	ed, ok := ictx.(Editor)
	if !ok {
		if err := ictx.Reply("pong!"); err != nil {
			return err
		}
		return ictx.Reply(took(start))
	}

	edit, err := ed.ReplyEditable("pong!")
	if err != nil {
		return err
	}
	return edit(took(start))
}

func took(start time.Time) string {
	return fmt.Sprintf("pong! took %d ms", time.Since(start).Milliseconds())
}
