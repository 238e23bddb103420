package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0, 0)
	defer c.Close()

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "k1", []byte("v1"), time.Minute))
		got, err := c.Get(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), got)
	})

	t.Run("expired entries are misses", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "short", []byte("x"), -time.Second))
		_, err := c.Get(ctx, "short")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("delete pattern", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "posts:reels:a", []byte("1"), time.Minute))
		require.NoError(t, c.Set(ctx, "posts:watch:b", []byte("2"), time.Minute))
		require.NoError(t, c.Set(ctx, "profile:c", []byte("3"), time.Minute))

		require.NoError(t, c.DeletePattern(ctx, "posts:*"))

		_, err := c.Get(ctx, "posts:reels:a")
		assert.ErrorIs(t, err, ErrKeyNotFound)
		_, err = c.Get(ctx, "posts:watch:b")
		assert.ErrorIs(t, err, ErrKeyNotFound)
		_, err = c.Get(ctx, "profile:c")
		assert.NoError(t, err)
	})
}

func TestMemoryCacheEviction(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10, 0)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "a", []byte("12345"), time.Minute))
	require.NoError(t, c.Set(ctx, "b", []byte("12345"), 2*time.Minute))

	_, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.Equal(t, int64(1), c.Stats().Evictions)
}

func TestGenericCacheService(t *testing.T) {
	ctx := context.Background()
	svc := NewGenericCacheService(NewMemoryCache(0, 0), "ff", time.Minute)
	defer svc.Close()

	type page struct {
		Items []string `json:"items"`
		Total int      `json:"total"`
	}

	require.NoError(t, svc.CacheData(ctx, "posts:reels:1", page{Items: []string{"a"}, Total: 1}))

	var got page
	require.NoError(t, svc.GetCached(ctx, "posts:reels:1", &got))
	assert.Equal(t, 1, got.Total)

	require.NoError(t, svc.InvalidatePattern(ctx, "posts:*"))
	assert.ErrorIs(t, svc.GetCached(ctx, "posts:reels:1", &got), ErrKeyNotFound)
}

func TestGenericCacheServiceDisabled(t *testing.T) {
	svc, err := NewFromConfig(platformconfig.CacheConfig{Enabled: false})
	require.NoError(t, err)
	assert.False(t, svc.IsEnabled())
	assert.ErrorIs(t, svc.CacheData(context.Background(), "k", 1), ErrCacheDisabled)

	var nilSvc *GenericCacheService
	assert.False(t, nilSvc.IsEnabled())
	assert.NoError(t, nilSvc.Close())
}

func TestGenerateHashKey(t *testing.T) {
	svc := NewGenericCacheService(nil, "", 0)
	a := svc.GenerateHashKey("reels", map[string]interface{}{"tab": "trending", "page": 1})
	b := svc.GenerateHashKey("reels", map[string]interface{}{"page": 1, "tab": "trending"})
	c := svc.GenerateHashKey("reels", map[string]interface{}{"page": 2, "tab": "trending"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "reels:")
}

func TestNewFromConfigRejectsUnknownBackend(t *testing.T) {
	_, err := NewFromConfig(platformconfig.CacheConfig{Enabled: true, Backend: "etcd"})
	assert.ErrorIs(t, err, ErrInvalidCacheType)
}
