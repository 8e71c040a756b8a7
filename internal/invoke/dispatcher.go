package invoke

import (
	"context"
	"fmt"

	"github.com/keshon/smartcmd/internal/interpret"
	"github.com/keshon/smartcmd/pkg/cmd"
)

// Dispatcher routes invocations by command name. Commands are registered once
// at startup; after that a Dispatcher is safe for concurrent use.
type Dispatcher struct {
	reg        *interpret.Registry
	commands   *cmd.Registry
	middleware []cmd.Middleware
}

// NewDispatcher returns a dispatcher building commands against reg. mws wrap
// every registered command, see cmd.Apply for the order.
func NewDispatcher(reg *interpret.Registry, mws ...cmd.Middleware) *Dispatcher {
	return &Dispatcher{reg: reg, commands: cmd.NewRegistry(), middleware: mws}
}

// Types returns the interpretation registry commands are built against.
func (d *Dispatcher) Types() *interpret.Registry { return d.reg }

// Commands returns the registered commands, wrapped in the middleware.
func (d *Dispatcher) Commands() *cmd.Registry { return d.commands }

// Register builds def and adds it. Any configuration error is returned here.
func (d *Dispatcher) Register(def Definition, opts ...Option) (*Command, error) {
	c, err := NewCommand(d.reg, def, opts...)
	if err != nil {
		return nil, err
	}
	if err := d.Add(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Add registers an already built command.
func (d *Dispatcher) Add(c *Command) error {
	if err := d.commands.Register(cmd.Apply(c, d.middleware...)); err != nil {
		return fmt.Errorf("register %s: %w", c.Name(), err)
	}
	return nil
}

// Dispatch runs the command called name with raw as its argument text. The
// outcome is zero when the middleware stopped the invocation before the
// command ran.
func (d *Dispatcher) Dispatch(ctx context.Context, ictx interpret.Context, name, raw string) (Outcome, error) {
	c := d.commands.Get(name)
	if c == nil {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	rec := &recorder{}
	ctx = context.WithValue(ctx, recorderKey{}, rec)
	err := c.Run(ctx, &cmd.Invocation{Name: name, Args: raw, Data: ictx})
	return rec.out, err
}

type recorderKey struct{}

type recorder struct{ out Outcome }

func record(ctx context.Context, out Outcome) {
	if rec, ok := ctx.Value(recorderKey{}).(*recorder); ok {
		rec.out = out
	}
}
