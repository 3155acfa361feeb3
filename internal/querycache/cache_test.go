package querycache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestCache() (*Cache[[]string], *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New[[]string](DefaultTTL, WithClock(clock.Now)), clock
}

func TestReuseWithinFreshnessWindow(t *testing.T) {
	c, clock := newTestCache()
	key := c.Key("milk")
	c.Put(key, []string{"Buy milk"})

	clock.Advance(4 * time.Second)
	got, ok := c.Get(c.Key("milk"))
	require.True(t, ok)
	assert.Equal(t, []string{"Buy milk"}, got)
}

func TestMissAfterFreshnessWindow(t *testing.T) {
	c, clock := newTestCache()
	c.Put(c.Key("milk"), []string{"Buy milk"})

	clock.Advance(5 * time.Second)
	_, ok := c.Get(c.Key("milk"))
	assert.False(t, ok)
}

func TestKeyedByTerm(t *testing.T) {
	c, _ := newTestCache()
	c.Put(c.Key("milk"), []string{"Buy milk"})

	_, ok := c.Get(c.Key("bread"))
	assert.False(t, ok)
	_, ok = c.Get(c.Key(""))
	assert.False(t, ok)
}

func TestMissAfterInvalidation(t *testing.T) {
	c, _ := newTestCache()
	oldKey := c.Key("")
	c.Put(oldKey, []string{"a"})

	c.Invalidate()
	assert.Equal(t, uint64(1), c.Version())

	_, ok := c.Get(c.Key(""))
	assert.False(t, ok)
	_, ok = c.Get(oldKey)
	assert.False(t, ok)
}

func TestPutForOutdatedVersionIsDropped(t *testing.T) {
	c, _ := newTestCache()
	inFlight := c.Key("")

	c.Invalidate()
	c.Put(inFlight, []string{"stale"})

	_, ok := c.Get(c.Key(""))
	assert.False(t, ok)
}
