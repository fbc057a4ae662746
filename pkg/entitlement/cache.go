package entitlement

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/shiftops/authcore/pkg/cache"
)

// CacheKey identifies one resolved feature set. Resolution is a pure function
// of the underlying rows, so the key carries the version counters bumped by
// every entitlement write: a committed downgrade changes the key and can
// never be served from a stale entry.
type CacheKey struct {
	OrgID               uuid.UUID
	SubscriptionVersion int64
	UserID              uuid.UUID
	OverrideVersion     int64
}

// Cache stores resolved feature sets. Implementations must support concurrent
// reads with short-lived per-entry writes; misses are cheap, so backends may
// drop entries at any time.
type Cache interface {
	// Get retrieves a cached feature set by key.
	Get(ctx context.Context, key CacheKey) (FeatureSet, bool)

	// Set stores a feature set with the given TTL.
	Set(ctx context.Context, key CacheKey, set FeatureSet, ttl time.Duration)

	// Close releases any resources held by the cache.
	Close() error
}

// DefaultCacheSize is the default maximum number of entries for the
// in-process cache.
const DefaultCacheSize = 10000

// cacheShards is the number of independent LRU segments in the in-process
// cache. Each (org, user) pair maps to one shard, so resolutions for
// different tenants never contend on a shared lock.
const cacheShards = 32

type memoryCache struct {
	shards [cacheShards]*cache.LRUCache[CacheKey, FeatureSet]
}

// NewMemoryCache creates an in-process entitlement cache bounded by size.
// The cache is sharded by (org, user) hash: reads and writes only lock the
// shard the pair lands in, never the whole cache. The per-shard capacity
// rounds up, so the effective bound is at least cacheShards entries.
func NewMemoryCache(size int) Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	perShard := size / cacheShards
	if perShard < 1 {
		perShard = 1
	}
	c := &memoryCache{}
	for i := range c.shards {
		c.shards[i] = cache.NewLRUCache[CacheKey, FeatureSet](perShard)
	}
	return c
}

// shard maps a cache key to its segment. Only the identity pair is hashed;
// version counters stay out so all versions of one pair share a shard and
// superseded entries age out of that shard's LRU quickly.
func (c *memoryCache) shard(key CacheKey) *cache.LRUCache[CacheKey, FeatureSet] {
	h := fnv.New32a()
	h.Write(key.OrgID[:])
	h.Write(key.UserID[:])
	return c.shards[h.Sum32()%cacheShards]
}

func (c *memoryCache) Get(ctx context.Context, key CacheKey) (FeatureSet, bool) {
	set, ok := c.shard(key).Get(key)
	if !ok {
		return nil, false
	}
	return set.Clone(), true
}

func (c *memoryCache) Set(ctx context.Context, key CacheKey, set FeatureSet, ttl time.Duration) {
	c.shard(key).PutTTL(key, set.Clone(), ttl)
}

func (c *memoryCache) Close() error {
	for _, shard := range c.shards {
		shard.Clear()
	}
	return nil
}

// noOpCache is a cache that doesn't cache anything.
// Useful for testing or when caching should be disabled.
type noOpCache struct{}

// NewNoOpCache creates a cache that doesn't cache.
func NewNoOpCache() Cache {
	return &noOpCache{}
}

func (n *noOpCache) Get(ctx context.Context, key CacheKey) (FeatureSet, bool) { return nil, false }

func (n *noOpCache) Set(ctx context.Context, key CacheKey, set FeatureSet, ttl time.Duration) {}

func (n *noOpCache) Close() error { return nil }
