package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process Store backed by go-cache. Used when no Redis
// address is configured and as the backing store in tests.
type Memory struct {
	c *gocache.Cache
}

// NewMemory creates an in-process cache with the given default TTL.
// Expired entries are purged every defaultTTL.
func NewMemory(defaultTTL time.Duration) *Memory {
	if defaultTTL <= 0 {
		defaultTTL = time.Minute
	}
	return &Memory{c: gocache.New(defaultTTL, defaultTTL)}
}

// Get returns the cached value and whether it was present.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, nil
	}
	return s, true, nil
}

// Set stores value under key for ttl.
func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.c.Set(key, value, ttl)
	return nil
}

// Ping always succeeds for the in-process store.
func (m *Memory) Ping(context.Context) error {
	return nil
}

var _ Store = (*Memory)(nil)
