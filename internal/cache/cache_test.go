package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fyrsmithlabs/braindump/internal/extraction"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)}
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

func result(title string) *extraction.Result {
	return &extraction.Result{
		Tasks: []extraction.Task{{ID: "id-" + title, Title: title}},
		Usage: &extraction.Usage{TotalTokens: 77},
	}
}

func TestCache_SetAndGet(t *testing.T) {
	c := New(Config{TTL: time.Minute, MaxEntries: 10})

	c.Set("k", result("call mom"))

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "call mom", got.Tasks[0].Title)
	assert.Equal(t, 77, got.Usage.TotalTokens)
}

func TestCache_GetMissing(t *testing.T) {
	c := New(Config{TTL: time.Minute, MaxEntries: 10})

	_, ok := c.Get("nope")
	assert.False(t, ok)
}

func TestCache_TTLBoundary(t *testing.T) {
	clock := newFakeClock()
	ttl := 10 * time.Minute
	c := New(Config{TTL: ttl, MaxEntries: 10}, WithClock(clock.Now))

	c.Set("k", result("x"))

	clock.Advance(ttl - time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok, "entry should be served just before the TTL")

	clock.Advance(2 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok, "entry should be expired just after the TTL")
	assert.Equal(t, 0, c.Len(), "expired entry should be removed on lookup")
}

func TestCache_ExactlyAtTTLIsExpired(t *testing.T) {
	clock := newFakeClock()
	c := New(Config{TTL: time.Minute, MaxEntries: 10}, WithClock(clock.Now))

	c.Set("k", result("x"))
	clock.Advance(time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCache_GetDoesNotRefresh(t *testing.T) {
	clock := newFakeClock()
	c := New(Config{TTL: time.Minute, MaxEntries: 10}, WithClock(clock.Now))

	c.Set("k", result("x"))
	clock.Advance(40 * time.Second)
	_, ok := c.Get("k")
	require.True(t, ok)

	clock.Advance(40 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok, "reads must not extend an entry's lifetime")
}

func TestCache_EvictsFirstInserted(t *testing.T) {
	c := New(Config{TTL: time.Hour, MaxEntries: 3})

	c.Set("a", result("a"))
	c.Set("b", result("b"))
	c.Set("c", result("c"))

	// Reading "a" must not protect it: eviction follows insertion order.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("d", result("d"))

	assert.Equal(t, 3, c.Len())
	_, ok = c.Get("a")
	assert.False(t, ok, "oldest inserted entry should be evicted")
	for _, k := range []string{"b", "c", "d"} {
		_, ok := c.Get(k)
		assert.True(t, ok, "entry %q should survive", k)
	}
}

func TestCache_ResetMovesToNewest(t *testing.T) {
	c := New(Config{TTL: time.Hour, MaxEntries: 2})

	c.Set("a", result("a1"))
	c.Set("b", result("b"))
	c.Set("a", result("a2"))
	c.Set("c", result("c"))

	_, ok := c.Get("b")
	assert.False(t, ok, "b is now the oldest and should be evicted")

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a2", got.Tasks[0].Title)
}

func TestCache_ResetRestartsTTL(t *testing.T) {
	clock := newFakeClock()
	c := New(Config{TTL: time.Minute, MaxEntries: 10}, WithClock(clock.Now))

	c.Set("k", result("old"))
	clock.Advance(50 * time.Second)
	c.Set("k", result("new"))
	clock.Advance(50 * time.Second)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", got.Tasks[0].Title)
}

func TestCache_DisabledConfigs(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero ttl", Config{TTL: 0, MaxEntries: 10}},
		{"zero capacity", Config{TTL: time.Minute, MaxEntries: 0}},
		{"both zero", Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.cfg)
			c.Set("k", result("x"))
			assert.Equal(t, 0, c.Len())
			_, ok := c.Get("k")
			assert.False(t, ok)
		})
	}
}

func TestCache_Clear(t *testing.T) {
	c := New(Config{TTL: time.Hour, MaxEntries: 10})
	c.Set("a", result("a"))
	c.Set("b", result("b"))

	c.Clear()

	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("c", result("c"))
	assert.Equal(t, 1, c.Len(), "cache should be usable after Clear")
}

func TestCache_StoresCopies(t *testing.T) {
	c := New(Config{TTL: time.Hour, MaxEntries: 10})
	orig := result("original")

	c.Set("k", orig)
	orig.Tasks[0].Title = "mutated after set"

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "original", got.Tasks[0].Title)

	got.Tasks[0].Title = "mutated after get"
	again, _ := c.Get("k")
	assert.Equal(t, "original", again.Tasks[0].Title)
}

func TestCache_IgnoresNilResult(t *testing.T) {
	c := New(Config{TTL: time.Hour, MaxEntries: 10})
	c.Set("k", nil)
	assert.Equal(t, 0, c.Len())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(Config{TTL: time.Hour, MaxEntries: 50})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k-%d-%d", id, j%10)
				c.Set(key, result(key))
				c.Get(key)
				if j%25 == 0 {
					c.Len()
				}
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 50)
}

func TestCache_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	c := New(Config{TTL: time.Hour, MaxEntries: 2}, WithMetrics(m))

	c.Set("a", result("a"))
	c.Set("b", result("b"))
	c.Set("c", result("c"))
	c.Get("c")
	c.Get("a")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HitsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MissesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EvictionsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Size))

	c.Clear()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Size))
}

func TestDefaultMetrics_Singleton(t *testing.T) {
	assert.Same(t, DefaultMetrics(), DefaultMetrics())
}
