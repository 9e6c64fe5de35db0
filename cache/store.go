package cache

import (
	"context"
	"time"
)

// Store is the keyed store the manager and tracker persist into. Values are
// opaque byte payloads; expiry is enforced by the store itself at second
// granularity. Implementations wrap connectivity failures in
// ErrStoreUnavailable and report missing keys from Get as ErrNotFound.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// GetMany returns the subset of keys that are present. Absent keys are
	// simply missing from the result map, they are not errors.
	GetMany(ctx context.Context, keys []string) (map[string][]byte, error)

	// SetMany writes all entries with a shared TTL. Implementations may do
	// this non-atomically; callers fall back to per-key Set on failure.
	SetMany(ctx context.Context, entries map[string][]byte, ttl time.Duration) error

	// DeleteByPrefix removes every key starting with prefix. Stores that
	// cannot enumerate keys must return an error rather than silently
	// doing nothing.
	DeleteByPrefix(ctx context.Context, prefix string) error
}
