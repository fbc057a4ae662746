package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shiftops/authcore/pkg/cache"
)

func TestLRUCacheBasicOperations(t *testing.T) {
	t.Parallel()

	c := cache.NewLRUCache[string, int](3)

	c.Put("a", 1)
	c.Put("b", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	_, ok = c.Get("missing")
	require.False(t, ok)

	require.Equal(t, 2, c.Len())
}

func TestLRUCacheEviction(t *testing.T) {
	t.Parallel()

	c := cache.NewLRUCache[string, int](2)

	c.Put("a", 1)
	c.Put("b", 2)

	// Touch "a" so "b" becomes least recently used.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Put("c", 3)

	_, ok = c.Get("b")
	require.False(t, ok)
	_, ok = c.Get("a")
	require.True(t, ok)
	_, ok = c.Get("c")
	require.True(t, ok)
}

func TestLRUCacheUpdate(t *testing.T) {
	t.Parallel()

	c := cache.NewLRUCache[string, int](2)

	c.Put("a", 1)
	c.Put("a", 10)

	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 10, v)
	require.Equal(t, 1, c.Len())
}

func TestLRUCacheTTL(t *testing.T) {
	t.Parallel()

	c := cache.NewLRUCache[string, int](10)

	c.PutTTL("short", 1, 10*time.Millisecond)
	c.PutTTL("forever", 2, 0)

	v, ok := c.Get("short")
	require.True(t, ok)
	require.Equal(t, 1, v)

	time.Sleep(25 * time.Millisecond)

	_, ok = c.Get("short")
	require.False(t, ok)
	_, ok = c.Get("forever")
	require.True(t, ok)

	// Updating an entry refreshes its expiry.
	c.PutTTL("short", 3, time.Minute)
	v, ok = c.Get("short")
	require.True(t, ok)
	require.Equal(t, 3, v)
}

func TestLRUCacheRemove(t *testing.T) {
	t.Parallel()

	c := cache.NewLRUCache[string, int](2)

	c.Put("a", 1)

	v, ok := c.Remove("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	_, ok = c.Remove("a")
	require.False(t, ok)
	require.Equal(t, 0, c.Len())
}

func TestLRUCacheEvictCallback(t *testing.T) {
	t.Parallel()

	c := cache.NewLRUCache[string, int](1)

	var evicted []string
	c.SetEvictCallback(func(key string, value int) {
		evicted = append(evicted, key)
	})

	c.Put("a", 1)
	c.Put("b", 2) // evicts "a"
	c.Clear()     // evicts "b"

	require.Equal(t, []string{"a", "b"}, evicted)
}

func TestLRUCachePanicsOnInvalidCapacity(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { cache.NewLRUCache[string, int](0) })
	require.Panics(t, func() { cache.NewLRUCache[string, int](-1) })
}
