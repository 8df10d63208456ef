package lru

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func at(d time.Duration) time.Time { return t0.Add(d) }

func TestCache_New(t *testing.T) {
	tests := map[string]struct {
		max         int
		expectError bool
	}{
		"valid capacity":    {max: 5},
		"capacity one":      {max: 1},
		"zero capacity":     {max: 0, expectError: true},
		"negative capacity": {max: -3, expectError: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r := require.New(t)

			c, err := New(Opts[string, int]{Max: tc.max})
			if tc.expectError {
				r.ErrorIs(err, ErrInvalidCapacity)
				r.Nil(c)
			} else {
				r.NoError(err)
				r.NotNil(c)
				r.Equal(tc.max, c.Cap())
				r.Equal(0, c.Len())
			}
		})
	}
}

func TestCache_New_NegativeTTL(t *testing.T) {
	r := require.New(t)

	c, err := New(Opts[string, int]{Max: 2, TTL: -time.Second})
	r.NoError(err)
	r.Equal(time.Duration(0), c.TTL())

	c.SetAt("a", 1, t0)
	_, ok := c.GetAt("a", at(24*time.Hour))
	r.True(ok, "negative TTL must behave like disabled expiry")
}

func TestCache_MustNew(t *testing.T) {
	r := require.New(t)

	r.NotNil(MustNew(Opts[string, int]{Max: 1}))
	r.Panics(func() { MustNew(Opts[string, int]{Max: 0}) })
}

func TestCache_GetSet(t *testing.T) {
	tests := map[string]struct {
		ops  func(c *Cache[string, int])
		want map[string]int
		gone []string
	}{
		"basic set and get": {
			ops: func(c *Cache[string, int]) {
				c.Set("a", 1)
				c.Set("b", 2)
			},
			want: map[string]int{"a": 1, "b": 2},
		},
		"overwrite value": {
			ops: func(c *Cache[string, int]) {
				c.Set("a", 1)
				c.Set("a", 5)
			},
			want: map[string]int{"a": 5},
		},
		"evicts least recently used": {
			// capacity 2: inserting "c" pushes out "a"
			ops: func(c *Cache[string, int]) {
				c.Set("a", 1)
				c.Set("b", 2)
				c.Set("c", 3)
			},
			want: map[string]int{"b": 2, "c": 3},
			gone: []string{"a"},
		},
		"get refreshes recency": {
			ops: func(c *Cache[string, int]) {
				c.Set("a", 1)
				c.Set("b", 2)
				c.Get("a")
				c.Set("c", 3)
			},
			want: map[string]int{"a": 1, "c": 3},
			gone: []string{"b"},
		},
		"update refreshes recency": {
			ops: func(c *Cache[string, int]) {
				c.Set("a", 1)
				c.Set("b", 2)
				c.Set("a", 10)
				c.Set("c", 3)
			},
			want: map[string]int{"a": 10, "c": 3},
			gone: []string{"b"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r := require.New(t)

			c := MustNew(Opts[string, int]{Max: 2})
			tc.ops(c)

			for _, key := range tc.gone {
				_, ok := c.Get(key)
				r.False(ok, "key %q should have been evicted", key)
			}
			for key, want := range tc.want {
				got, ok := c.Get(key)
				r.True(ok, "key %q should be present", key)
				r.Equal(want, got)
			}
		})
	}
}

func TestCache_CapacityInvariant(t *testing.T) {
	r := require.New(t)

	const max = 8
	evictions := 0
	c := MustNew(Opts[int, int]{
		Max: max,
		OnEvict: func(key, value int, reason EvictReason) {
			r.Equal(ReasonCapacity, reason)
			evictions++
		},
	})

	for i := 0; i < 100; i++ {
		c.Set(i, i)
		r.LessOrEqual(c.Len(), max, "size must never exceed capacity")
	}

	r.Equal(max, c.Len())
	r.Equal(100-max, evictions, "each overflowing insert evicts exactly once")

	// the survivors are the most recently inserted keys
	for i := 100 - max; i < 100; i++ {
		_, ok := c.Get(i)
		r.True(ok)
	}
}

func TestCache_TTL(t *testing.T) {
	const ttl = 100 * time.Millisecond

	tests := map[string]struct {
		queryAt time.Time
		present bool
	}{
		"before expiry":    {queryAt: at(50 * time.Millisecond), present: true},
		"exactly at ttl":   {queryAt: at(ttl), present: true},
		"just past ttl":    {queryAt: at(ttl + time.Nanosecond), present: false},
		"long after write": {queryAt: at(150 * time.Millisecond), present: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r := require.New(t)

			c := MustNew(Opts[string, int]{Max: 2, TTL: ttl})
			c.SetAt("a", 1, t0)

			v, ok := c.GetAt("a", tc.queryAt)
			r.Equal(tc.present, ok)
			if tc.present {
				r.Equal(1, v)
			} else {
				r.Equal(0, c.Len(), "expired entry is removed on access")
			}
		})
	}
}

func TestCache_TTLDisabled(t *testing.T) {
	r := require.New(t)

	c := MustNew(Opts[string, int]{Max: 2})
	c.SetAt("a", 1, t0)

	_, ok := c.GetAt("a", at(1000*time.Hour))
	r.True(ok, "TTL 0 disables time-based expiry")
}

func TestCache_UpdateRefreshesWriteTime(t *testing.T) {
	r := require.New(t)

	c := MustNew(Opts[string, int]{Max: 2, TTL: 100 * time.Millisecond})
	c.SetAt("a", 1, t0)
	c.SetAt("a", 2, at(50*time.Millisecond))

	// 120ms after the original write, 70ms after the rewrite
	v, ok := c.GetAt("a", at(120*time.Millisecond))
	r.True(ok)
	r.Equal(2, v)

	_, ok = c.GetAt("a", at(151*time.Millisecond))
	r.False(ok, "expiry is relative to the rewrite")
}

func TestCache_Has(t *testing.T) {
	r := require.New(t)

	c := MustNew(Opts[string, int]{Max: 2})
	c.Set("a", 1)
	c.Set("b", 2)

	r.True(c.Has("a"))
	r.False(c.Has("nope"))
	r.Equal(uint64(0), c.Hits(), "Has must not count hits")
	r.Equal(uint64(0), c.Misses(), "Has must not count misses")

	// Has does not promote: "a" is still least recently used
	c.Set("c", 3)
	r.False(c.Has("a"))
	r.True(c.Has("b"))
}

func TestCache_HasRemovesExpired(t *testing.T) {
	r := require.New(t)

	c := MustNew(Opts[string, int]{Max: 2, TTL: 100 * time.Millisecond})
	c.SetAt("a", 1, t0)

	r.False(c.HasAt("a", at(200*time.Millisecond)))
	r.Equal(0, c.Len(), "expired entry is removed by Has")
	r.Equal(uint64(0), c.Misses(), "Has must not count the expiry as a miss")
}

func TestCache_Peek(t *testing.T) {
	r := require.New(t)

	c := MustNew(Opts[string, int]{Max: 2, TTL: 100 * time.Millisecond})
	c.SetAt("a", 1, t0)
	c.SetAt("b", 2, t0)

	v, ok := c.PeekAt("a", t0)
	r.True(ok)
	r.Equal(1, v)
	r.Equal(uint64(0), c.Hits(), "Peek must not count lookups")

	// Peek did not promote "a"; inserting "c" still evicts it
	c.SetAt("c", 3, t0)
	r.False(c.HasAt("a", t0))

	// expired entries report absent but stay resident
	_, ok = c.PeekAt("b", at(200*time.Millisecond))
	r.False(ok)
	r.Equal(2, c.Len())
}

func TestCache_Remove(t *testing.T) {
	r := require.New(t)

	c := MustNew(Opts[string, int]{Max: 4})
	c.Set("a", 1)
	c.Get("a")
	c.Get("nope")

	r.True(c.Remove("a"))
	r.Equal(0, c.Len())

	// removing an absent key is a no-op
	hits, misses := c.Hits(), c.Misses()
	r.False(c.Remove("a"))
	r.Equal(0, c.Len())
	r.Equal(hits, c.Hits())
	r.Equal(misses, c.Misses())
}

func TestCache_HitRate(t *testing.T) {
	r := require.New(t)

	c := MustNew(Opts[string, int]{Max: 4, TTL: 100 * time.Millisecond})
	r.Equal(float64(0), c.HitRate(), "no lookups yet")

	c.SetAt("a", 1, t0)
	c.GetAt("a", t0)    // hit
	c.GetAt("a", t0)    // hit
	c.GetAt("nope", t0) // miss

	// an expired lookup counts as a miss
	c.GetAt("a", at(200*time.Millisecond))

	r.Equal(uint64(2), c.Hits())
	r.Equal(uint64(2), c.Misses())
	r.Equal(0.5, c.HitRate())
}

func TestCache_Clear(t *testing.T) {
	r := require.New(t)

	cleared := 0
	c := MustNew(Opts[string, int]{
		Max: 4,
		OnEvict: func(key string, value int, reason EvictReason) {
			r.Equal(ReasonCleared, reason)
			cleared++
		},
	})

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Get("nope")
	r.NotZero(c.HitRate())

	c.Clear()

	r.Equal(0, c.Len())
	r.Equal(float64(0), c.HitRate(), "Clear resets the counters")
	r.Equal(2, cleared)
	r.Equal(2, c.Stats().Pooled, "cleared nodes go back to the pool")

	_, ok := c.Get("a")
	r.False(ok)
}

func TestCache_SweepExpired(t *testing.T) {
	r := require.New(t)

	const ttl = 100 * time.Millisecond
	c := MustNew(Opts[string, int]{Max: 8, TTL: ttl})

	c.SetAt("old1", 1, t0)
	c.SetAt("old2", 2, at(10*time.Millisecond))
	c.SetAt("new1", 3, at(90*time.Millisecond))
	c.SetAt("new2", 4, at(95*time.Millisecond))

	// at t0+150ms: old1, old2 expired; new1, new2 live
	removed := c.SweepExpiredAt(at(150 * time.Millisecond))
	r.Equal(2, removed)
	r.Equal(2, c.Len())
	r.True(c.HasAt("new1", at(150*time.Millisecond)))
	r.True(c.HasAt("new2", at(150*time.Millisecond)))

	// nothing left to sweep
	r.Equal(0, c.SweepExpiredAt(at(150*time.Millisecond)))
}

func TestCache_SweepExpired_TTLDisabled(t *testing.T) {
	r := require.New(t)

	c := MustNew(Opts[string, int]{Max: 4})
	c.SetAt("a", 1, t0)

	r.Equal(0, c.SweepExpiredAt(at(1000*time.Hour)))
	r.Equal(1, c.Len())
}

func TestCache_SweepExpired_StopsAtFirstLive(t *testing.T) {
	r := require.New(t)

	const ttl = 100 * time.Millisecond
	c := MustNew(Opts[string, int]{Max: 8, TTL: ttl})

	// "stale" is written first, then promoted to the head by a read. Its
	// write time stays t0, so at t0+150ms it is expired, but the sweep
	// stops at the live tail entry before reaching it.
	c.SetAt("stale", 1, t0)
	c.SetAt("fresh", 2, at(80*time.Millisecond))
	c.GetAt("stale", at(90*time.Millisecond)) // promote without rewriting

	removed := c.SweepExpiredAt(at(150 * time.Millisecond))
	r.Equal(0, removed, "sweep stops at the first live entry from the tail")
	r.Equal(2, c.Len())

	// the read path still catches the survivor
	_, ok := c.GetAt("stale", at(150*time.Millisecond))
	r.False(ok)
	r.Equal(1, c.Len())
}

func TestCache_Keys(t *testing.T) {
	r := require.New(t)

	c := MustNew(Opts[string, int]{Max: 4})
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Get("a")

	r.Equal([]string{"a", "c", "b"}, c.Keys(), "most recently used first")
}

func TestCache_OnEvictReasons(t *testing.T) {
	r := require.New(t)

	reasons := make(map[string]EvictReason)
	c := MustNew(Opts[string, int]{
		Max: 2,
		TTL: 100 * time.Millisecond,
		OnEvict: func(key string, value int, reason EvictReason) {
			reasons[key] = reason
		},
	})

	c.SetAt("a", 1, t0)
	c.SetAt("b", 2, t0)
	c.SetAt("c", 3, t0) // evicts "a"
	c.Remove("b")
	c.GetAt("c", at(200*time.Millisecond)) // expired
	c.SetAt("d", 4, at(200*time.Millisecond))
	c.Clear()

	r.Equal(ReasonCapacity, reasons["a"])
	r.Equal(ReasonRemoved, reasons["b"])
	r.Equal(ReasonExpired, reasons["c"])
	r.Equal(ReasonCleared, reasons["d"])
}

func TestCache_Stats(t *testing.T) {
	r := require.New(t)

	c := MustNew(Opts[string, int]{Max: 2})
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3) // evict -> one pooled node
	c.Get("b")
	c.Get("nope")

	s := c.Stats()
	r.Equal(uint64(1), s.Hits)
	r.Equal(uint64(1), s.Misses)
	r.Equal(2, s.Len)
	r.Equal(2, s.Cap)
	r.Equal(1, s.Pooled)
	r.Equal(0.5, s.HitRate())

	r.Equal(float64(0), Stats{}.HitRate())
}

func TestCache_Clock(t *testing.T) {
	r := require.New(t)

	now := t0
	c := MustNew(Opts[string, int]{
		Max:   2,
		TTL:   100 * time.Millisecond,
		Clock: func() time.Time { return now },
	})

	c.Set("a", 1)

	now = at(50 * time.Millisecond)
	_, ok := c.Get("a")
	r.True(ok)

	now = at(200 * time.Millisecond)
	_, ok = c.Get("a")
	r.False(ok)
}

func TestCache_EvictReasonString(t *testing.T) {
	r := require.New(t)

	r.Equal("capacity", ReasonCapacity.String())
	r.Equal("expired", ReasonExpired.String())
	r.Equal("removed", ReasonRemoved.String())
	r.Equal("cleared", ReasonCleared.String())
	r.Equal("unknown", EvictReason(99).String())
}

func BenchmarkCache_SetChurn(b *testing.B) {
	c := MustNew(Opts[int, int]{Max: 1024})
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		c.Set(i, i)
	}
}

func BenchmarkCache_GetHit(b *testing.B) {
	c := MustNew(Opts[int, int]{Max: 1024})
	for i := 0; i < 1024; i++ {
		c.Set(i, i)
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		c.Get(i % 1024)
	}
}
