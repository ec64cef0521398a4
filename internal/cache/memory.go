package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps entries in process memory
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a memory cache. Entries stored with ttl 0 use
// defaultTTL.
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	val, _, found := c.GetWithExpiration(key)
	return val, found
}

// GetWithExpiration retrieves a value and its expiry. Entries without an
// expiry report the zero time.
func (c *MemoryCache) GetWithExpiration(key string) ([]byte, time.Time, bool) {
	val, exp, found := c.cache.GetWithExpiration(key)
	if !found {
		return nil, time.Time{}, false
	}
	data, ok := val.([]byte)
	if !ok {
		return nil, time.Time{}, false
	}
	return data, exp, true
}

// Set stores a value with the given TTL
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(key, value, ttl)
	return nil
}

// Delete removes a value
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes every value
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}
