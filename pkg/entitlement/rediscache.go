package entitlement

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates an entitlement cache backed by Redis, for deployments
// where multiple instances should share resolved feature sets. Redis failures
// degrade to cache misses; the resolver then recomputes from the store, so a
// cache outage affects latency, never correctness.
func NewRedisCache(client *redis.Client, prefix string) Cache {
	if prefix == "" {
		prefix = "entitlement"
	}
	return &redisCache{client: client, prefix: prefix}
}

func (c *redisCache) Get(ctx context.Context, key CacheKey) (FeatureSet, bool) {
	raw, err := c.client.Get(ctx, c.redisKey(key)).Bytes()
	if err != nil {
		return nil, false
	}
	var set FeatureSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, false
	}
	return set, true
}

func (c *redisCache) Set(ctx context.Context, key CacheKey, set FeatureSet, ttl time.Duration) {
	raw, err := json.Marshal(set)
	if err != nil {
		return
	}
	// Redis entries must expire even if version counters stall, so a zero TTL
	// falls back to an hour instead of persisting forever.
	if ttl <= 0 {
		ttl = time.Hour
	}
	_ = c.client.Set(ctx, c.redisKey(key), raw, ttl).Err()
}

func (c *redisCache) Close() error {
	return c.client.Close()
}

func (c *redisCache) redisKey(key CacheKey) string {
	return fmt.Sprintf("%s:%s:%d:%s:%d", c.prefix, key.OrgID, key.SubscriptionVersion, key.UserID, key.OverrideVersion)
}
