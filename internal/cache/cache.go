// Package cache stores fetched dex pages so repeated scans of the same
// list do not hammer the source wiki. A memory layer fronts a disk layer;
// both sit behind the same small interface.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching fetched pages
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// PageKey generates a cache key for a dex page URL
func PageKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "capturadex:v1:" + hex.EncodeToString(hash[:])
}
