package cache

import (
	"context"
	"time"
)

type ttlCache struct {
	Cache
	ttl time.Duration
}

// WithTTL returns c with every Set using ttl instead of the caller's value.
// A non-positive ttl returns c unchanged.
func WithTTL(c Cache, ttl time.Duration) Cache {
	if ttl <= 0 {
		return c
	}
	return &ttlCache{Cache: c, ttl: ttl}
}

func (c *ttlCache) Set(ctx context.Context, key string, data []byte, _ time.Duration) error {
	return c.Cache.Set(ctx, key, data, c.ttl)
}
