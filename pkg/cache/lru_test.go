package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUPutAndGet(t *testing.T) {
	c := NewLRU[string, string](4)

	c.Put("digest:a", "sha256:aaa")
	c.Put("digest:b", "sha256:bbb")

	v, ok := c.Get("digest:a")
	require.True(t, ok)
	assert.Equal(t, "sha256:aaa", v)

	_, ok = c.Get("digest:missing")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[int, int](2)

	c.Put(1, 10)
	c.Put(2, 20)

	// Touch 1 so 2 becomes the eviction candidate.
	_, ok := c.Get(1)
	require.True(t, ok)

	c.Put(3, 30)

	_, ok = c.Get(2)
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok = c.Get(1)
	assert.True(t, ok)
	_, ok = c.Get(3)
	assert.True(t, ok)
}

func TestLRUPutUpdatesExistingKey(t *testing.T) {
	c := NewLRU[string, int](2)

	c.Put("tags", 1)
	c.Put("tags", 2)

	v, ok := c.Get("tags")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())
}

func TestLRUClearDropsEverything(t *testing.T) {
	c := NewLRU[string, string](8)
	c.Put("a", "1")
	c.Put("b", "2")

	c.Clear()

	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)

	// The cache must stay usable after a wholesale reset.
	c.Put("c", "3")
	v, ok := c.Get("c")
	require.True(t, ok)
	assert.Equal(t, "3", v)
}

func TestLRUMinimumCapacity(t *testing.T) {
	c := NewLRU[int, int](0)

	c.Put(1, 10)
	c.Put(2, 20)

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(2)
	assert.True(t, ok)
}

func TestLRUConcurrentAccess(t *testing.T) {
	c := NewLRU[string, int](64)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d", j%16)
				c.Put(key, worker)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 16)
}
