package middleware

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/keshon/smartcmd/pkg/cmd"
	"github.com/rs/zerolog"
)

// WithCommandLogger gives every invocation its own id, puts a logger carrying
// it into the context and logs how the command ended.
func WithCommandLogger() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			log := zerolog.Ctx(ctx).With().
				Str("invocation", uuid.NewString()).
				Str("command", c.Name()).
				Logger()
			ctx = log.WithContext(ctx)

			start := time.Now()
			err := c.Run(ctx, inv)
			took := time.Since(start)

			if err != nil {
				log.Warn().Err(err).Str("alias", inv.Name).Dur("took", took).Msg("Command failed")
				return err
			}
			log.Info().Str("alias", inv.Name).Dur("took", took).Msg("Command finished")
			return nil
		})
	}
}
