// Package cache provides pluggable byte caches for built documents. The
// file backend serves CLI usage, the Redis backend serves the HTTP API,
// and the null backend disables caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with TTL support. A miss is reported via
// the bool, not an error; errors are reserved for backend failures.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
