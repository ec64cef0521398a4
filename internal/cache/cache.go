package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte store with per-entry expiry
type Cache interface {
	Get(key string) ([]byte, bool)
	// GetWithExpiration also returns when the entry expires
	GetWithExpiration(key string) ([]byte, time.Time, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey derives a file-safe key from a namespace and an identifier
func CacheKey(namespace, id string) string {
	hash := sha256.Sum256([]byte(namespace + "\x00" + id))
	return "ubkifeat-v1-" + namespace + "-" + hex.EncodeToString(hash[:8])
}
