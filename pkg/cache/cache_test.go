package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Hour))
	data, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, data)
	assert.NoError(t, c.Delete(ctx, "key"))
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)

	_, hit, _ := c.Get(ctx, "k")
	require.False(t, hit, "empty cache should miss")
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Hour))

	data, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "v", string(data))

	require.NoError(t, c.Delete(ctx, "k"))
	_, hit, _ = c.Get(ctx, "k")
	assert.False(t, hit, "deleted key should miss")
	assert.NoError(t, c.Delete(ctx, "k"), "deleting a missing key")
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "short", []byte("x"), time.Minute))
	require.NoError(t, c.Set(ctx, "forever", []byte("y"), 0))

	now = now.Add(2 * time.Minute)
	_, hit, _ := c.Get(ctx, "short")
	assert.False(t, hit, "expired entry should miss")
	_, err = os.Stat(c.path("short"))
	assert.True(t, os.IsNotExist(err), "expired entry should be removed")
	_, hit, _ = c.Get(ctx, "forever")
	assert.True(t, hit, "entry without ttl should not expire")
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	path := c.path("k")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, hit, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, hit)
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), 0))
	}
	n, err := c.Clear()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	entries, _ := os.ReadDir(c.Dir())
	assert.Empty(t, entries)
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(1 << 20)
	require.NoError(t, err)
	defer c.Close()

	src := []byte("layout")
	require.NoError(t, c.Set(ctx, "k", src, 0))
	c.Wait()
	src[0] = 'X'

	data, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "layout", string(data), "stored copy")

	require.NoError(t, c.Delete(ctx, "k"))
	c.Wait()
	_, hit, _ = c.Get(ctx, "k")
	assert.False(t, hit, "deleted key should miss")
}

func TestMemoryCacheClosed(t *testing.T) {
	c, err := NewMemoryCache(0)
	require.NoError(t, err)
	require.NoError(t, c.Close())
	assert.NoError(t, c.Close(), "second Close")

	_, _, err = c.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestNewRedisCacheBadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not-a-url")
	assert.Error(t, err)
}

func TestGetOrMiss(t *testing.T) {
	_, err := GetOrMiss(context.Background(), NewNullCache(), "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	assert.Equal(t, h1, Hash([]byte("hello")))
	assert.NotEqual(t, h1, Hash([]byte("world")))
	assert.Len(t, h1, 64)
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	assert.Equal(t, "trace:abc:7", k.TraceKey("abc", 7))
	assert.NotEqual(t, k.TraceKey("abc", 7), k.TraceKey("abc", 8))

	lk1 := k.LayoutKey("h", LayoutKeyOpts{VizType: "lanes"})
	lk2 := k.LayoutKey("h", LayoutKeyOpts{VizType: "tree"})
	assert.NotEqual(t, lk1, lk2)
	assert.Regexp(t, "^layout:", lk1)

	base := ArtifactKeyOpts{Format: "svg", Style: "simple", TimeMode: "ordinal", Scale: 1}
	variants := []ArtifactKeyOpts{
		{Format: "png", Style: "simple", TimeMode: "ordinal", Scale: 1},
		{Format: "svg", Style: "mono", TimeMode: "ordinal", Scale: 1},
		{Format: "svg", Style: "simple", TimeMode: "linear", Scale: 1},
		{Format: "svg", Style: "simple", TimeMode: "ordinal", Scale: 2},
		{Format: "svg", Style: "simple", TimeMode: "ordinal", Scale: 1, NoArrows: true},
	}
	for _, v := range variants {
		assert.NotEqual(t, k.ArtifactKey("h", base), k.ArtifactKey("h", v), "%+v", v)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "server:")
	assert.Equal(t, "server:trace:abc:1", scoped.TraceKey("abc", 1))
	assert.Regexp(t, "^server:layout:", scoped.LayoutKey("h", LayoutKeyOpts{}))
	assert.Regexp(t, "^server:artifact:", scoped.ArtifactKey("h", ArtifactKeyOpts{}))
}

func TestRetryableError(t *testing.T) {
	assert.NoError(t, Retryable(nil))

	base := errors.New("connection reset")
	err := Retryable(base)
	assert.True(t, IsRetryable(err))
	assert.ErrorIs(t, err, base)
	assert.False(t, IsRetryable(base))
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error { calls++; return nil })
	assert.NoError(t, err)
	assert.Equal(t, 1, calls, "success")

	calls = 0
	permanent := errors.New("bad request")
	err = RetryWithBackoff(ctx, func() error { calls++; return permanent })
	assert.Same(t, permanent, err)
	assert.Equal(t, 1, calls, "permanent")

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(errors.New("timeout"))
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls, "transient")

	calls = 0
	err = RetryWithBackoff(ctx, func() error { calls++; return Retryable(errors.New("down")) })
	assert.True(t, IsRetryable(err))
	assert.Equal(t, 3, calls, "exhausted")
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, func() error { return Retryable(errors.New("down")) })
	assert.Equal(t, context.Canceled, err)
}

func TestWithTTL(t *testing.T) {
	ctx := context.Background()
	fc, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	fc.now = func() time.Time { return now }

	c := WithTTL(fc, time.Minute)
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	now = now.Add(2 * time.Minute)
	_, hit, _ := c.Get(ctx, "k")
	assert.False(t, hit, "override ttl should expire the entry")

	assert.True(t, WithTTL(fc, 0) == Cache(fc), "zero ttl returns the cache unchanged")
}
