// Package cache provides a generic, thread-safe LRU cache with optional
// per-entry TTL, used as the in-process backend for the entitlement cache.
//
// The cache evicts the least recently used items when it reaches its
// configured capacity and drops expired entries lazily on access, keeping
// memory bounded without a background sweeper.
//
// # Usage
//
//	c := cache.NewLRUCache[string, int](100)
//	c.Put("a", 1)
//	c.PutTTL("b", 2, time.Minute)
//
//	v, found := c.Get("a")
//	_, existed := c.Remove("b")
//
// All operations are O(1) and safe for concurrent use; the mutex is held
// only for the duration of a single map/list update, never across I/O.
package cache
