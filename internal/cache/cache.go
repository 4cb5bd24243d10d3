package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable indicates the cache backend cannot be reached. Callers
// treat cache failures as misses and continue against the upstream.
var ErrUnavailable = errors.New("cache: backend unavailable")

// Store is a string-keyed cache with per-entry TTL. Implementations are
// safe for concurrent use.
type Store interface {
	// Get returns the cached value and whether it was present. A miss is
	// not an error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key for ttl. A non-positive ttl uses the
	// store's default.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
}
