package invoke_test

import (
	"context"
	"errors"
	"testing"

	"github.com/keshon/smartcmd/internal/binding"
	"github.com/keshon/smartcmd/internal/interpret"
	"github.com/keshon/smartcmd/internal/interpret/interprettest"
	"github.com/keshon/smartcmd/internal/invoke"
	"github.com/keshon/smartcmd/pkg/cmd"
)

func TestDispatch(t *testing.T) {
	var seen []string
	observe := func(next cmd.Command) cmd.Command {
		return cmd.Wrap(next, func(ctx context.Context, inv *cmd.Invocation) error {
			seen = append(seen, inv.Name)
			return next.Run(ctx, inv)
		})
	}
	d := invoke.NewDispatcher(interpret.Default(), observe)

	var pinged string
	ping, err := d.Register(invoke.Definition{
		Name:    "ping",
		Aliases: []string{"delay"},
		Overloads: []invoke.Overload{{
			Params: []binding.Spec{binding.Raw("text")},
			Handler: func(_ context.Context, _ interpret.Context, args invoke.Args) error {
				pinged = args.Text(0)
				return nil
			},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}

	out, err := d.Dispatch(context.Background(), interprettest.NewMockContext(), "delay", " now ")
	if err != nil {
		t.Fatal(err)
	}
	if !out.OK() || out.Command != ping || pinged != "now" {
		t.Fatalf("outcome = %+v, pinged %q", out, pinged)
	}
	if len(seen) != 1 || seen[0] != "delay" {
		t.Fatalf("middleware saw %v", seen)
	}

	if _, err := d.Dispatch(context.Background(), interprettest.NewMockContext(), "pong", ""); !errors.Is(err, invoke.ErrUnknownCommand) {
		t.Fatalf("unknown: err = %v", err)
	}

	if _, err := d.Register(invoke.Definition{
		Name:      "delay",
		Overloads: []invoke.Overload{{Handler: func(context.Context, interpret.Context, invoke.Args) error { return nil }}},
	}); !errors.Is(err, cmd.ErrDuplicate) {
		t.Fatalf("duplicate: err = %v", err)
	}
}

func TestDispatchNoMatchOutcome(t *testing.T) {
	d := invoke.NewDispatcher(interpret.Default())
	if _, err := d.Register(invoke.Definition{
		Name: "add",
		Overloads: []invoke.Overload{{
			Params:  []binding.Spec{binding.Simple("a", interpret.Int), binding.Simple("b", interpret.Int)},
			Handler: func(context.Context, interpret.Context, invoke.Args) error { return nil },
		}},
	}); err != nil {
		t.Fatal(err)
	}
	out, err := d.Dispatch(context.Background(), interprettest.NewMockContext(), "ADD", "1 two")
	if !errors.Is(err, invoke.ErrNoMatch) {
		t.Fatalf("err = %v", err)
	}
	if out.OK() || out.Best == nil || out.Best.Index != 1 {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestRunRequiresContext(t *testing.T) {
	c := mustCommand(t, invoke.Definition{
		Name:      "x",
		Overloads: []invoke.Overload{{Handler: func(context.Context, interpret.Context, invoke.Args) error { return nil }}},
	})
	if err := c.Run(context.Background(), &cmd.Invocation{Name: "x", Data: "not a context"}); err == nil {
		t.Fatal("Run accepted invocation data that is not an interpret.Context")
	}
}
