package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmetrics/backend/internal/infrastructure/config"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "metrics:t1:overview", []byte(`{"revenue":100}`), time.Minute))

	value, found, err := c.Get(ctx, "metrics:t1:overview")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`{"revenue":100}`), value)
}

func TestMemoryCache_GetMissing(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()

	value, found, err := c.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, value)
}

func TestMemoryCache_Expiration(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, found, err := c.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_ZeroTTLNeverExpires(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "forever", []byte("v"), 0))
	time.Sleep(20 * time.Millisecond)

	_, found, err := c.Get(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	_, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_DeleteByPrefix(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "metrics:t1:overview", []byte("a"), time.Minute))
	require.NoError(t, c.Set(ctx, "metrics:t1:trend", []byte("b"), time.Minute))
	require.NoError(t, c.Set(ctx, "metrics:t2:overview", []byte("c"), time.Minute))

	require.NoError(t, c.DeleteByPrefix(ctx, "metrics:t1:"))

	_, found, _ := c.Get(ctx, "metrics:t1:overview")
	assert.False(t, found)
	_, found, _ = c.Get(ctx, "metrics:t1:trend")
	assert.False(t, found)
	_, found, _ = c.Get(ctx, "metrics:t2:overview")
	assert.True(t, found)
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	c := NewMemoryCache()
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestFactory_MemoryBackend(t *testing.T) {
	f := NewFactory()

	store, err := f.CreateCache(config.CacheConfig{Backend: "memory"}, config.RedisConfig{})
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &MemoryCache{}, store)
}

func TestFactory_UnknownBackend(t *testing.T) {
	f := NewFactory()

	_, err := f.CreateCache(config.CacheConfig{Backend: "memcached"}, config.RedisConfig{})
	assert.Error(t, err)
}

func TestFactory_RedisFallback(t *testing.T) {
	f := NewFactory(WithMemoryFallback(true))

	// unreachable Redis should degrade to the in-memory cache
	store, err := f.CreateCache(
		config.CacheConfig{Backend: "redis"},
		config.RedisConfig{Host: "127.0.0.1", Port: 1},
	)
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &MemoryCache{}, store)
}

func TestFactory_RedisNoFallback(t *testing.T) {
	f := NewFactory(WithMemoryFallback(false))

	_, err := f.CreateCache(
		config.CacheConfig{Backend: "redis"},
		config.RedisConfig{Host: "127.0.0.1", Port: 1},
	)
	assert.Error(t, err)
}
