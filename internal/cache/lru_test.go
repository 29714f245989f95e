package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T, size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](size, ttl)
	c.now = clock.Now
	return c, clock
}

func TestLRUCache_GetSet(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 2, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", "1")
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", got)

	c.Set("a", "2")
	got, _ = c.Get("a")
	assert.Equal(t, "2", got)
	assert.Equal(t, 1, c.Size())
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")

	// Touch a so that b becomes the eviction candidate.
	_, _ = c.Get("a")
	c.Set("c", "3")

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Size())
}

func TestLRUCache_Expiry(t *testing.T) {
	t.Parallel()

	c, clock := newTestCache(t, 10, time.Minute)
	c.Set("a", "1")

	clock.Advance(59 * time.Second)
	_, ok := c.Get("a")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestLRUCache_CleanExpired(t *testing.T) {
	t.Parallel()

	c, clock := newTestCache(t, 10, time.Minute)
	c.Set("old1", "1")
	c.Set("old2", "2")
	clock.Advance(30 * time.Second)
	c.Set("fresh", "3")
	clock.Advance(45 * time.Second)

	assert.Equal(t, 2, c.CleanExpired())
	assert.Equal(t, 1, c.Size())
	_, ok := c.Get("fresh")
	assert.True(t, ok)
}

func TestLRUCache_DeletePrefix(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 10, time.Minute)
	c.Set("u1:summary:x", "1")
	c.Set("u1:budget:x", "2")
	c.Set("u2:summary:x", "3")

	assert.Equal(t, 2, c.DeletePrefix("u1:"))
	assert.Equal(t, 1, c.Size())
	_, ok := c.Get("u2:summary:x")
	assert.True(t, ok)

	assert.Equal(t, 0, c.DeletePrefix("u3:"))
	assert.Equal(t, 1, c.Size())
}

func TestLRUCache_SetIfGeneration(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 10, time.Minute)

	before := c.Generation("u1:")
	assert.Equal(t, uint64(0), before)

	// An invalidation between reading the generation and storing the value
	// means the value may predate it.
	c.DeletePrefix("u1:")
	assert.Equal(t, uint64(1), c.Generation("u1:"))
	assert.False(t, c.SetIfGeneration("u1:", before, "u1:summary:x", "stale"))
	_, ok := c.Get("u1:summary:x")
	assert.False(t, ok)

	// Other prefixes are unaffected.
	assert.True(t, c.SetIfGeneration("u2:", c.Generation("u2:"), "u2:summary:x", "fresh"))

	current := c.Generation("u1:")
	assert.True(t, c.SetIfGeneration("u1:", current, "u1:summary:x", "fresh"))
	got, ok := c.Get("u1:summary:x")
	require.True(t, ok)
	assert.Equal(t, "fresh", got)

	disabled := NewLRUCache[string](0, time.Minute)
	assert.False(t, disabled.SetIfGeneration("u1:", 0, "u1:summary:x", "v"))
}

func TestLRUCache_Disabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int
		ttl  time.Duration
	}{
		{name: "zero size", size: 0, ttl: time.Minute},
		{name: "zero ttl", size: 10, ttl: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := NewLRUCache[string](tt.size, tt.ttl)
			c.Set("a", "1")
			_, ok := c.Get("a")
			assert.False(t, ok)
		})
	}
}

func TestLRUCache_Concurrent(t *testing.T) {
	t.Parallel()

	c := NewLRUCache[int](50, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("%d:%d", n, j%20)
				c.Set(key, j)
				_, _ = c.Get(key)
				if j%10 == 0 {
					c.DeletePrefix(fmt.Sprintf("%d:", n))
				}
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Size(), 50)
}
