package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrDuplicate is returned by Register when a name or alias is already taken.
var ErrDuplicate = errors.New("command name already registered")

// Registry stores commands by name and alias. It does not perform dispatch;
// each adapter looks up commands and invokes them with its own context.
// Names are case-insensitive.
type Registry struct {
	commands map[string]Command
	aliases  map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		aliases:  make(map[string]string),
	}
}

// Register adds a command under its name and, if the root command is Aliased,
// under its aliases. Nothing is added when any of the names is taken.
func (r *Registry) Register(c Command) error {
	name := strings.ToLower(c.Name())
	names := []string{name}
	if a, ok := Root(c).(Aliased); ok {
		for _, alias := range a.Aliases() {
			names = append(names, strings.ToLower(alias))
		}
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if _, taken := r.lookup(n); taken || seen[n] {
			return fmt.Errorf("%w: %q", ErrDuplicate, n)
		}
		seen[n] = true
	}
	r.commands[name] = c
	for _, alias := range names[1:] {
		r.aliases[alias] = name
	}
	return nil
}

// Get returns the command with the given name or alias, or nil.
func (r *Registry) Get(name string) Command {
	c, _ := r.lookup(strings.ToLower(name))
	return c
}

func (r *Registry) lookup(name string) (Command, bool) {
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	c, ok := r.commands[name]
	return c, ok
}

// GetAll returns all registered commands, sorted by name.
func (r *Registry) GetAll() []Command {
	list := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}
