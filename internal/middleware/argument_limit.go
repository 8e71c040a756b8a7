package middleware

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/keshon/smartcmd/pkg/cmd"
)

// ErrArgumentTooLong is returned instead of running a command whose argument
// text is longer than the limit.
var ErrArgumentTooLong = errors.New("arguments too long")

// WithArgumentLimit rejects invocations with more than n characters of arguments.
func WithArgumentLimit(n int) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if l := utf8.RuneCountInString(inv.Args); l > n {
				return fmt.Errorf("%s: %w (%d > %d)", c.Name(), ErrArgumentTooLong, l, n)
			}
			return c.Run(ctx, inv)
		})
	}
}
