package listcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyAndPrefix(t *testing.T) {
	assert.Equal(t, "vehicle_alerts:mine:u7:2", Key("vehicle_alerts", "mine", 7, 2))
	assert.Equal(t, "vehicle_alerts:", Prefix("vehicle_alerts"))

	// Keys are user-scoped: the same page of the same view never collides
	// across two sessions.
	assert.NotEqual(t,
		Key("vehicle_alerts", "mine", 7, 1),
		Key("vehicle_alerts", "mine", 9, 1))
}

func TestGetAfterSet(t *testing.T) {
	c := New(8, time.Minute)

	_, ok := c.Get("vehicle_alerts:all:1")
	assert.False(t, ok)

	c.Set("vehicle_alerts:all:1", "page-one")
	v, ok := c.Get("vehicle_alerts:all:1")
	assert.True(t, ok)
	assert.Equal(t, "page-one", v)

	// Overwrite keeps a single entry
	c.Set("vehicle_alerts:all:1", "page-one-v2")
	v, _ = c.Get("vehicle_alerts:all:1")
	assert.Equal(t, "page-one-v2", v)
	assert.Equal(t, 1, c.Len())
}

func TestClearByPrefix(t *testing.T) {
	c := New(8, time.Minute)
	c.Set(Key("vehicle_alerts", "all", 7, 1), 1)
	c.Set(Key("vehicle_alerts", "mine", 9, 1), 2)
	c.Set(Key("crime_reports", "all", 7, 1), 3)

	dropped := c.ClearByPrefix(Prefix("vehicle_alerts"))
	assert.Equal(t, 2, dropped)

	_, ok := c.Get(Key("vehicle_alerts", "all", 7, 1))
	assert.False(t, ok)
	_, ok = c.Get(Key("vehicle_alerts", "mine", 9, 1))
	assert.False(t, ok)

	// Unrelated table untouched
	v, ok := c.Get(Key("crime_reports", "all", 7, 1))
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestTTLExpiry(t *testing.T) {
	c := New(8, 10*time.Second)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	c.Set("k", "v")

	now = now.Add(9 * time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCapacityEviction(t *testing.T) {
	c := New(3, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Set("d", 4) // evicts oldest ("a")

	assert.Equal(t, 3, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
	v, ok := c.Get("d")
	assert.True(t, ok)
	assert.Equal(t, 4, v)
}

func TestDefaults(t *testing.T) {
	c := New(0, 0)
	assert.Equal(t, DefaultCapacity, c.capacity)
	assert.Equal(t, DefaultTTL, c.ttl)
}
