package cache

import "time"

// LayeredCache reads through memory to disk and writes to both
type LayeredCache struct {
	memory Cache
	disk   Cache
	now    func() time.Time
}

// NewLayeredCache creates a memory + disk cache
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
		now:    time.Now,
	}
}

// Get retrieves a value, checking memory first
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	val, _, found := c.GetWithExpiration(key)
	return val, found
}

// GetWithExpiration retrieves a value and its expiry. A disk hit is promoted
// to memory for no longer than the disk entry has left.
func (c *LayeredCache) GetWithExpiration(key string) ([]byte, time.Time, bool) {
	if val, exp, found := c.memory.GetWithExpiration(key); found {
		return val, exp, true
	}

	val, exp, found := c.disk.GetWithExpiration(key)
	if !found {
		return nil, time.Time{}, false
	}
	if remaining := exp.Sub(c.now()); remaining > 0 {
		_ = c.memory.Set(key, val, remaining)
	}
	return val, exp, true
}

// Set stores a value in both layers
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}
	return c.disk.Set(key, value, ttl)
}

// Delete removes a value from both layers
func (c *LayeredCache) Delete(key string) error {
	if err := c.memory.Delete(key); err != nil {
		return err
	}
	return c.disk.Delete(key)
}

// Clear empties both layers
func (c *LayeredCache) Clear() error {
	if err := c.memory.Clear(); err != nil {
		return err
	}
	return c.disk.Clear()
}
