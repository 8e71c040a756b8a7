package cmd_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/keshon/smartcmd/pkg/cmd"
)

type stub struct {
	name    string
	aliases []string
	ran     *[]string
}

func (s *stub) Name() string        { return s.name }
func (s *stub) Description() string { return "stub " + s.name }
func (s *stub) Aliases() []string   { return s.aliases }
func (s *stub) Run(_ context.Context, inv *cmd.Invocation) error {
	*s.ran = append(*s.ran, s.name+":"+inv.Args)
	return nil
}

func trace(label string, log *[]string) cmd.Middleware {
	return func(next cmd.Command) cmd.Command {
		return cmd.Wrap(next, func(ctx context.Context, inv *cmd.Invocation) error {
			*log = append(*log, label)
			return next.Run(ctx, inv)
		})
	}
}

func TestRegistryAliases(t *testing.T) {
	var ran []string
	r := cmd.NewRegistry()
	ping := &stub{name: "ping", aliases: []string{"delay"}, ran: &ran}
	if err := r.Register(ping); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&stub{name: "roll", ran: &ran}); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"ping", "PING", "delay", "Delay"} {
		if got := r.Get(name); got != ping {
			t.Errorf("Get(%q) = %v", name, got)
		}
	}
	if r.Get("pong") != nil {
		t.Error("Get of unknown name returned a command")
	}

	all := r.GetAll()
	if len(all) != 2 || all[0].Name() != "ping" || all[1].Name() != "roll" {
		t.Fatalf("GetAll = %v", all)
	}
}

func TestRegistryDuplicates(t *testing.T) {
	var ran []string
	r := cmd.NewRegistry()
	if err := r.Register(&stub{name: "ping", aliases: []string{"delay"}, ran: &ran}); err != nil {
		t.Fatal(err)
	}
	for _, c := range []*stub{
		{name: "Ping", ran: &ran},
		{name: "delay", ran: &ran},
		{name: "lag", aliases: []string{"ping"}, ran: &ran},
		{name: "echo", aliases: []string{"say", "say"}, ran: &ran},
	} {
		if err := r.Register(c); !errors.Is(err, cmd.ErrDuplicate) {
			t.Errorf("Register(%s %v): err = %v, want ErrDuplicate", c.name, c.aliases, err)
		}
	}
	// a rejected registration leaves nothing behind
	if r.Get("lag") != nil || r.Get("echo") != nil || r.Get("say") != nil {
		t.Fatal("partial registration")
	}
}

func TestApplyOrderAndRoot(t *testing.T) {
	var log []string
	inner := &stub{name: "roll", aliases: []string{"r"}, ran: &log}
	c := cmd.Apply(inner, trace("inner", &log), trace("outer", &log))

	if err := c.Run(context.Background(), &cmd.Invocation{Name: "roll", Args: "2d6"}); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(log, ","); got != "outer,inner,roll:2d6" {
		t.Fatalf("run order = %s", got)
	}
	if cmd.Root(c) != inner {
		t.Fatal("Root did not reach the inner command")
	}
	if c.Name() != "roll" || c.Description() != "stub roll" {
		t.Fatalf("wrapped identity = %s / %s", c.Name(), c.Description())
	}

	r := cmd.NewRegistry()
	if err := r.Register(c); err != nil {
		t.Fatal(err)
	}
	if r.Get("r") != c {
		t.Fatal("alias of wrapped command not registered")
	}
}
