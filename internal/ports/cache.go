package ports

import (
	"context"
	"time"
)

// Cache is the key/value store behind the local session. A zero ttl keeps
// the entry until it is deleted.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
}
