package mocks

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-memory implementation of the cache and locker for testing
type MemoryCache struct {
	mu    sync.RWMutex
	data  map[string]string
	ttls  map[string]time.Duration
	locks map[string]bool

	GetErr error
	SetErr error
	DelErr error

	// For tracking calls in tests
	GetCalls int
	SetCalls int
}

// NewMemoryCache creates a new MemoryCache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data:  make(map[string]string),
		ttls:  make(map[string]time.Duration),
		locks: make(map[string]bool),
	}
}

// Get returns a stored value
func (c *MemoryCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.GetCalls++
	if c.GetErr != nil {
		return "", false, c.GetErr
	}
	val, ok := c.data[key]
	return val, ok, nil
}

// Set stores a value with its ttl
func (c *MemoryCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.SetCalls++
	if c.SetErr != nil {
		return c.SetErr
	}
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}

// Del removes keys
func (c *MemoryCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.DelErr != nil {
		return c.DelErr
	}
	for _, key := range keys {
		delete(c.data, key)
		delete(c.ttls, key)
	}
	return nil
}

// TTL returns the ttl a key was stored with
func (c *MemoryCache) TTL(key string) (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ttl, ok := c.ttls[key]
	return ttl, ok
}

// Has reports whether key is stored
func (c *MemoryCache) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.data[key]
	return ok
}

// AcquireLock takes a lock if free
func (c *MemoryCache) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.locks[lockKey] {
		return false, nil
	}
	c.locks[lockKey] = true
	return true, nil
}

// ReleaseLock frees a lock
func (c *MemoryCache) ReleaseLock(ctx context.Context, lockKey string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.locks, lockKey)
	return nil
}

// Locked reports whether a lock is held
func (c *MemoryCache) Locked(lockKey string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.locks[lockKey]
}
