package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrolens/shelflife/internal/domain"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cache, err := NewRedisCache(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	return cache, mr
}

func TestRedisCache_SetAndGet(t *testing.T) {
	cache, mr := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "shelflife:term:milk", []byte(`{"id":"1"}`), time.Hour))

	got, err := cache.Get(ctx, "shelflife:term:milk")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1"}`, string(got))
	assert.True(t, mr.Exists("shelflife:term:milk"))
}

func TestRedisCache_Miss(t *testing.T) {
	cache, _ := newTestRedisCache(t)

	_, err := cache.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_Expiration(t *testing.T) {
	cache, mr := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", []byte("value"), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := cache.Get(ctx, "key")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_Delete(t *testing.T) {
	cache, mr := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", []byte("value"), 0))
	require.NoError(t, cache.Delete(ctx, "key"))

	assert.False(t, mr.Exists("key"))

	_, err := cache.Get(ctx, "key")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestNewRedisCache_Errors(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not a url")
	assert.Error(t, err)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisCache(context.Background(), "redis://"+addr)
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
}
