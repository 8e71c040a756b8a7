// Package command assembles the built-in commands.
package command

import (
	"github.com/keshon/smartcmd/internal/command/help"
	"github.com/keshon/smartcmd/internal/command/ping"
	"github.com/keshon/smartcmd/internal/command/roll"
	"github.com/keshon/smartcmd/internal/invoke"
)

// RegisterAll adds help, ping and roll to d. opts apply to every command.
func RegisterAll(d *invoke.Dispatcher, opts ...invoke.Option) error {
	h, err := help.New(d.Types(), d.Commands(), opts...)
	if err != nil {
		return err
	}
	p, err := ping.New(d.Types(), opts...)
	if err != nil {
		return err
	}
	r, err := roll.New(d.Types(), nil, opts...)
	if err != nil {
		return err
	}
	for _, c := range []*invoke.Command{h, p, r} {
		if err := d.Add(c); err != nil {
			return err
		}
	}
	return nil
}
