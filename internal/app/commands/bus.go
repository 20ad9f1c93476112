package commands

import (
	"context"
	"sync"
)

// InMemoryBus is a registry-backed synchronous command bus.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string]func(ctx context.Context, cmd Command) (any, error)
}

// NewInMemoryBus builds an empty bus.
func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{handlers: make(map[string]func(ctx context.Context, cmd Command) (any, error))}
}

// Dispatch routes the command to its registered handler.
func (b *InMemoryBus) Dispatch(ctx context.Context, cmd Command) (any, error) {
	b.mu.RLock()
	handle, ok := b.handlers[cmd.Key()]
	b.mu.RUnlock()
	if !ok {
		return nil, ErrHandlerNotFound
	}
	return handle(ctx, cmd)
}

// RegisterHandler binds a typed handler to a command key on the bus.
func RegisterHandler[C Command, R any](bus *InMemoryBus, key string, h Handler[C, R]) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[key] = func(ctx context.Context, cmd Command) (any, error) {
		typed, ok := cmd.(C)
		if !ok {
			return nil, ErrInvalidCommand
		}
		return h.Handle(ctx, typed)
	}
}
