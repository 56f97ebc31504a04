// Package cache is a thin read-through JSON cache over redis, used to keep
// repeated availability lookups off the database. A nil *Cache is a no-op.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a redis client with a fixed TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New returns a Cache, or nil when redis is not configured.
func New(client *redis.Client, ttl time.Duration) *Cache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &Cache{client: client, ttl: ttl}
}

// GetJSON loads key into out. Returns false on miss or any redis error;
// a flaky cache must never fail a request.
func (c *Cache) GetJSON(ctx context.Context, key string, out any) bool {
	if c == nil {
		return false
	}
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), out) == nil
}

// SetJSON stores value under key for the configured TTL. Errors are dropped.
func (c *Cache) SetJSON(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, data, c.ttl).Err()
}
