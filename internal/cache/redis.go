package cache

import (
	"context"
	"errors"
	"path"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Dashboard cache keys
const (
	DashboardStatsKey   = "dashboard:stats"
	DashboardPattern    = "dashboard:*"
	// DashboardGeneration versions dashboard entries; kept outside DashboardPattern
	DashboardGeneration = "generation:dashboard"
)

// DefaultTTL bounds staleness if an invalidation is ever missed
const DefaultTTL = 5 * time.Minute

// Cache stores serialized payloads in Redis when one is reachable and in
// process memory otherwise, so callers never branch on availability.
type Cache struct {
	client *redis.Client
	local  *gocache.Cache
}

// Connect opens a Redis client and pings it. On failure the client is closed
// and nil is returned with the error, for graceful degradation.
func Connect(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// New wraps client; a nil client selects the in-process store
func New(client *redis.Client) *Cache {
	return &Cache{
		client: client,
		local:  gocache.New(DefaultTTL, DefaultTTL*2),
	}
}

// Backend names the active store for health output
func (c *Cache) Backend() string {
	if c.client != nil {
		return "redis"
	}
	return "memory"
}

// GetCached returns cached data for a key
func (c *Cache) GetCached(ctx context.Context, key string) ([]byte, bool) {
	if c.client == nil {
		v, ok := c.local.Get(key)
		if !ok {
			return nil, false
		}
		return v.([]byte), true
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func (c *Cache) SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if c.client == nil {
		c.local.Set(key, data, ttl)
		return
	}
	c.client.Set(ctx, key, data, ttl)
}

// InvalidateKeys removes specific cache keys
func (c *Cache) InvalidateKeys(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if c.client == nil {
		for _, k := range keys {
			c.local.Delete(k)
		}
		return
	}
	c.client.Del(ctx, keys...)
}

// InvalidatePattern removes all keys matching a glob pattern
func (c *Cache) InvalidatePattern(ctx context.Context, pattern string) {
	if c.client == nil {
		for k := range c.local.Items() {
			if ok, _ := path.Match(pattern, k); ok {
				c.local.Delete(k)
			}
		}
		return
	}
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		c.client.Del(ctx, keys...)
	}
}

// Generation reads the counter stored under key. A missing counter is 0;
// ok is false when the backend cannot answer.
func (c *Cache) Generation(ctx context.Context, key string) (int64, bool) {
	if c.client == nil {
		v, found := c.local.Get(key)
		if !found {
			return 0, true
		}
		return v.(int64), true
	}
	n, err := c.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		return 0, false
	}
	return n, true
}

// BumpGeneration atomically advances the counter stored under key
func (c *Cache) BumpGeneration(ctx context.Context, key string) {
	if c.client == nil {
		// Add only succeeds for the first caller
		_ = c.local.Add(key, int64(0), gocache.NoExpiration)
		_, _ = c.local.IncrementInt64(key, 1)
		return
	}
	c.client.Incr(ctx, key)
}

// InvalidateDashboard drops every cached dashboard aggregate
func (c *Cache) InvalidateDashboard(ctx context.Context) {
	c.InvalidatePattern(ctx, DashboardPattern)
}

// IsHealthy reports whether the active backend answers
func (c *Cache) IsHealthy(ctx context.Context) bool {
	if c.client == nil {
		return true
	}
	return c.client.Ping(ctx).Err() == nil
}

// Close releases the Redis client if any
func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
