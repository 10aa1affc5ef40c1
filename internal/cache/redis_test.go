package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redisCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client), mr
}

func TestRedisGetSetInvalidate(t *testing.T) {
	ctx := context.Background()
	c, mr := redisCache(t)
	assert.Equal(t, "redis", c.Backend())

	c.SetCached(ctx, DashboardStatsKey, []byte(`{"totalAtenciones":5}`), time.Minute)
	data, ok := c.GetCached(ctx, DashboardStatsKey)
	require.True(t, ok)
	assert.JSONEq(t, `{"totalAtenciones":5}`, string(data))

	mr.FastForward(2 * time.Minute)
	_, ok = c.GetCached(ctx, DashboardStatsKey)
	assert.False(t, ok)

	c.SetCached(ctx, "dashboard:a", []byte("1"), time.Minute)
	c.SetCached(ctx, "other", []byte("2"), time.Minute)
	c.InvalidateDashboard(ctx)
	_, ok = c.GetCached(ctx, "dashboard:a")
	assert.False(t, ok)
	_, ok = c.GetCached(ctx, "other")
	assert.True(t, ok)

	assert.True(t, c.IsHealthy(ctx))
	mr.Close()
	assert.False(t, c.IsHealthy(ctx))
}

func TestLocalFallback(t *testing.T) {
	ctx := context.Background()
	c := New(nil)
	assert.Equal(t, "memory", c.Backend())
	assert.True(t, c.IsHealthy(ctx))

	c.SetCached(ctx, "dashboard:stats", []byte("x"), time.Minute)
	c.SetCached(ctx, "keep", []byte("y"), time.Minute)
	data, ok := c.GetCached(ctx, "dashboard:stats")
	require.True(t, ok)
	assert.Equal(t, "x", string(data))

	c.InvalidateDashboard(ctx)
	_, ok = c.GetCached(ctx, "dashboard:stats")
	assert.False(t, ok)

	c.InvalidateKeys(ctx, "keep")
	_, ok = c.GetCached(ctx, "keep")
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}

func TestGenerationCounter(t *testing.T) {
	ctx := context.Background()
	rc, _ := redisCache(t)
	for name, c := range map[string]*Cache{"memory": New(nil), "redis": rc} {
		t.Run(name, func(t *testing.T) {
			gen, ok := c.Generation(ctx, DashboardGeneration)
			require.True(t, ok)
			assert.Zero(t, gen)

			c.BumpGeneration(ctx, DashboardGeneration)
			c.BumpGeneration(ctx, DashboardGeneration)
			c.InvalidateDashboard(ctx)

			gen, ok = c.Generation(ctx, DashboardGeneration)
			require.True(t, ok)
			assert.Equal(t, int64(2), gen, "survives dashboard invalidation")
		})
	}
}

func TestGenerationUnavailableWhenRedisDown(t *testing.T) {
	c, mr := redisCache(t)
	mr.Close()
	_, ok := c.Generation(context.Background(), DashboardGeneration)
	assert.False(t, ok)
}

func TestConnectFailsWithoutServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	client, err := Connect(addr, "", 0)
	assert.Error(t, err)
	assert.Nil(t, client)
}
