package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto"
)

// DefaultMemoryBytes bounds a [MemoryCache] created with a zero budget.
const DefaultMemoryBytes = 256 << 20

// MemoryCache is an in-process cache bounded by total value size. Entries are
// admitted and evicted by ristretto's TinyLFU policy, so a Set is not
// guaranteed to be retained.
type MemoryCache struct {
	store  *ristretto.Cache
	closed atomic.Bool
}

// NewMemoryCache returns a cache holding at most maxBytes of values.
func NewMemoryCache(maxBytes int64) (*MemoryCache, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMemoryBytes
	}
	store, err := ristretto.NewCache(&ristretto.Config{
		// About ten counters per expected entry; artifacts average a few KiB.
		NumCounters: max(maxBytes/1024, 1000),
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &MemoryCache{store: store}, nil
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if c.closed.Load() {
		return nil, false, ErrClosed
	}
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false, nil
	}
	data, ok := v.([]byte)
	if !ok {
		c.store.Del(key)
		return nil, false, nil
	}
	return data, true, nil
}

// Set stores a copy of data. Writes are buffered; call [MemoryCache.Wait] to
// make them visible to Get immediately.
func (c *MemoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrClosed
	}
	v := append([]byte(nil), data...)
	cost := int64(len(v)) + int64(len(key))
	if ttl > 0 {
		c.store.SetWithTTL(key, v, cost, ttl)
	} else {
		c.store.Set(key, v, cost)
	}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.store.Del(key)
	return nil
}

// Wait blocks until buffered writes are applied.
func (c *MemoryCache) Wait() { c.store.Wait() }

func (c *MemoryCache) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		c.store.Close()
	}
	return nil
}

var _ Cache = (*MemoryCache)(nil)
