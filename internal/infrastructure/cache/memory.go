package cache

import (
	"context"
	"sync"
	"time"

	"github.com/macrolens/shelflife/internal/domain"
)

// cacheItem represents a single item in the cache with expiration
type cacheItem struct {
	value      []byte
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory cache with TTL support.
// Expired entries are dropped lazily when read.
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
	now   func() time.Time
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]cacheItem),
		now:  time.Now,
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mutex.RLock()
	item, exists := c.data[key]
	c.mutex.RUnlock()

	if !exists {
		return nil, domain.ErrCacheMiss
	}

	if c.expired(item) {
		c.removeExpired(key)
		return nil, domain.ErrCacheMiss
	}

	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, nil
}

// Set stores a copy of value with the given TTL; a non-positive TTL never expires
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	item := cacheItem{value: stored}
	if ttl > 0 {
		item.expiration = c.now().Add(ttl)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data[key] = item

	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// removeExpired drops key unless a Set replaced it after it was read as expired
func (c *MemoryCache) removeExpired(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if cur, ok := c.data[key]; ok && c.expired(cur) {
		delete(c.data, key)
	}
}

func (c *MemoryCache) expired(item cacheItem) bool {
	return !item.expiration.IsZero() && c.now().After(item.expiration)
}
