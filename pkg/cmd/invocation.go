// Package cmd provides a transport-agnostic command core: a command is something
// with a name, description, and Run(ctx, invocation). How it is dispatched
// (Discord messages, CLI lines) is defined by adapters that wrap this.
package cmd

import "context"

// Invocation carries what any command runner can pass: the name the command
// was called by, the argument text after it, and an opaque payload. Adapters
// set Data to their context (e.g. a Discord message context).
type Invocation struct {
	Name string
	Args string
	Data any
}

// Command is the universal contract: identity plus execution. Argument parsing
// and transport details stay in implementations and adapters.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}

// Aliased is implemented by commands reachable under more than one name.
type Aliased interface {
	Aliases() []string
}
