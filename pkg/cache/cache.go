// Package cache stores intermediate pipeline results: simulated traces,
// layouts and rendered artifacts.
//
// Backends:
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry, the CLI default
//   - [MemoryCache]: in-process, cost-bounded (ristretto), the server default
//   - [RedisCache]: shared across server instances
//
// Keys are produced by a [Keyer] so that every component derives identical
// keys from identical inputs.
package cache

import (
	"context"
	"time"
)

// Cache TTLs per pipeline stage. Simulations are only cached when seeded, so
// every entry is a pure function of its key and the TTLs only bound disk and
// memory use.
const (
	TTLTrace    = 7 * 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
