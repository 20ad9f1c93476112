package middleware

import (
	"context"

	"innkeep/internal/app/commands"
	"innkeep/internal/app/outbox"
)

// OutboxFlush gives every command its own event buffer and persists it to the
// durable sink only after the command completes successfully. Buffers are
// per-dispatch, so concurrent commands never see each other's events.
func OutboxFlush(sink outbox.Sink) CommandMiddleware {
	if sink == nil {
		panic("middleware: outbox sink required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			buffer := outbox.NewBuffer(sink)
			ctx = outbox.ContextWithOutbox(ctx, buffer)
			res, err := nextFn(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := buffer.Flush(ctx); err != nil {
				return nil, err
			}
			return res, nil
		})
	}
}
