package bus

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"freightdesk/internal/errs"
	"freightdesk/internal/ports"
)

// MemoryBus fans notification changes out to in-process subscribers.
// Handlers run synchronously on the publisher's goroutine and must not block.
type MemoryBus struct {
	origin string

	mu       sync.RWMutex
	nextID   int
	handlers map[int]func(ports.NotificationChange)
}

var _ ports.NotificationBus = (*MemoryBus)(nil)

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		origin:   uuid.NewString(),
		handlers: make(map[int]func(ports.NotificationChange)),
	}
}

// Origin identifies this process on a shared bus.
func (b *MemoryBus) Origin() string {
	return b.origin
}

func (b *MemoryBus) Publish(ctx context.Context, change ports.NotificationChange) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	if change.Origin == "" {
		change.Origin = b.origin
	}
	if change.At.IsZero() {
		change.At = time.Now().UTC()
	}
	b.deliver(change)
	return nil
}

func (b *MemoryBus) Subscribe(handler func(ports.NotificationChange)) (func(), error) {
	if handler == nil {
		return nil, errors.New("handler is required")
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}, nil
}

func (b *MemoryBus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

func (b *MemoryBus) deliver(change ports.NotificationChange) {
	b.mu.RLock()
	snapshot := make([]func(ports.NotificationChange), 0, len(b.handlers))
	for _, handler := range b.handlers {
		snapshot = append(snapshot, handler)
	}
	b.mu.RUnlock()

	for _, handler := range snapshot {
		handler(change)
	}
}
