package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a namespace and identifier.
// Namespaces keep transcript and embedding entries from colliding.
func Key(namespace, id string) string {
	hash := sha256.Sum256([]byte(id))
	return "claimsight:v1:" + namespace + ":" + hex.EncodeToString(hash[:])
}
