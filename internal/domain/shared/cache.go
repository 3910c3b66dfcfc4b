package shared

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with TTL expiry. The metrics service keys
// entries by tenant and period; DeleteByPrefix invalidates a whole tenant
// after ingest without enumerating keys.
type Cache interface {
	// Get returns the cached value and whether it was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes a single key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// DeleteByPrefix removes every key with the given prefix.
	DeleteByPrefix(ctx context.Context, prefix string) error
	// Close releases any underlying resources.
	Close() error
}
