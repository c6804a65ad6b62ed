package cache_test

import (
	"context"
	"testing"
	"time"

	"hwbot/internal/common/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cfg := cache.DefaultRedisConfig()
	cfg.Addr = mr.Addr()
	c, err := cache.NewRedisCacheWithConfig(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCacheGetMissingKey(t *testing.T) {
	c, _ := newTestCache(t)
	val, err := c.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Equal(t, "", val)
}

func TestRedisCacheSetGetDel(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	val, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)
	assert.Equal(t, time.Minute, mr.TTL("k"))

	n, err := c.Exists(ctx, "k", "other")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, c.Del(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestNewRedisCacheRequiresAddr(t *testing.T) {
	_, err := cache.NewRedisCacheWithConfig(&cache.RedisConfig{})
	assert.Error(t, err)

	_, err = cache.NewRedisCacheWithConfig(nil)
	assert.Error(t, err)
}

func TestRedisConfigApplyDefaults(t *testing.T) {
	cfg := &cache.RedisConfig{Addr: "127.0.0.1:6379", PoolSize: 9}
	cfg.ApplyDefaults()
	assert.Equal(t, 9, cfg.PoolSize)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.DialTimeout)
}
