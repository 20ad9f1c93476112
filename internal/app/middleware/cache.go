package middleware

import (
	"context"
	"log/slog"

	"innkeep/internal/app/cache"
	"innkeep/internal/app/commands"
)

// CacheInvalidating is implemented by commands that mutate state covered by
// cache tags. Tags are invalidated synchronously after the command commits,
// so a single instance stays fresh even without the event pipeline.
type CacheInvalidating interface {
	commands.Command
	InvalidationTags() []string
}

// CacheInvalidation drops the command's cache tags after a successful
// dispatch. Invalidation failures are logged, never surfaced: the cache is a
// read optimization and the write has already committed.
func CacheInvalidation(c cache.Cache, logger *slog.Logger) CommandMiddleware {
	if c == nil {
		panic("middleware: cache required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := nextFn(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if invalidating, ok := cmd.(CacheInvalidating); ok {
				tags := invalidating.InvalidationTags()
				if len(tags) > 0 {
					if err := c.InvalidateTags(ctx, tags...); err != nil && logger != nil {
						logger.Warn("cache invalidation failed", "command", cmd.Key(), "error", err)
					}
				}
			}
			return res, nil
		})
	}
}
