package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/codewandler/cachr-go/core/lru"
)

func newTestLRU(t *testing.T, opts LRUOpts) *LRU {
	t.Helper()
	l, err := NewLRU(opts)
	if err != nil {
		t.Fatalf("NewLRU: %v", err)
	}
	t.Cleanup(l.Close)
	return l
}

func TestLRU_Basic(t *testing.T) {
	l := newTestLRU(t, LRUOpts{Size: 2})

	l.Set("a", 1)
	l.Set("b", 2)

	val, ok := l.Get("a")
	if !ok || val != 1 {
		t.Errorf("expected a=1, got %v, %v", val, ok)
	}

	l.Set("c", 3) // should evict "b"

	_, ok = l.Get("b")
	if ok {
		t.Errorf("expected b to be evicted")
	}

	val, ok = l.Get("c")
	if !ok || val != 3 {
		t.Errorf("expected c=3, got %v, %v", val, ok)
	}
}

func TestLRU_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := NewLRU(LRUOpts{Size: size})
		if !errors.Is(err, lru.ErrInvalidCapacity) {
			t.Errorf("size %d: expected ErrInvalidCapacity, got %v", size, err)
		}
	}
}

func TestLRU_Update(t *testing.T) {
	l := newTestLRU(t, LRUOpts{Size: 2})

	l.Set("a", 1)
	l.Set("a", 2)

	val, ok := l.Get("a")
	if !ok || val != 2 {
		t.Errorf("expected a=2, got %v, %v", val, ok)
	}
	if n := l.Len(); n != 1 {
		t.Errorf("expected len 1, got %d", n)
	}
}

func TestLRU_Promotion(t *testing.T) {
	l := newTestLRU(t, LRUOpts{Size: 2})

	l.Set("a", 1)
	l.Set("b", 2)

	// Promote "a"
	l.Get("a")

	l.Set("c", 3) // should evict "b" because "a" was promoted

	_, ok := l.Get("b")
	if ok {
		t.Errorf("expected b to be evicted")
	}

	_, ok = l.Get("a")
	if !ok {
		t.Errorf("expected a to be present")
	}
}

func TestLRU_Has(t *testing.T) {
	l := newTestLRU(t, LRUOpts{Size: 2})

	l.Set("a", 1)
	if !l.Has("a") {
		t.Errorf("expected a to be present")
	}
	if l.Has("b") {
		t.Errorf("expected b to be absent")
	}
	if rate := l.HitRate(); rate != 0 {
		t.Errorf("Has must not count lookups, hit rate = %v", rate)
	}
}

func TestLRU_Remove(t *testing.T) {
	l := newTestLRU(t, LRUOpts{Size: 2})

	l.Set("a", 1)
	l.Set("b", 2)

	l.Remove("a")

	_, ok := l.Get("a")
	if ok {
		t.Errorf("expected a to be removed")
	}

	val, ok := l.Get("b")
	if !ok || val != 2 {
		t.Errorf("expected b=2, got %v, %v", val, ok)
	}

	// Removing a non-existent key should not panic
	l.Remove("nonexistent")
}

func TestLRU_TTL(t *testing.T) {
	now := time.Now()
	l := newTestLRU(t, LRUOpts{
		Size:  2,
		TTL:   50 * time.Millisecond,
		Clock: func() time.Time { return now },
	})

	l.Set("a", 1)

	now = now.Add(30 * time.Millisecond)
	val, ok := l.Get("a")
	if !ok || val != 1 {
		t.Errorf("expected a=1 before expiry, got %v, %v", val, ok)
	}

	now = now.Add(30 * time.Millisecond)
	_, ok = l.Get("a")
	if ok {
		t.Errorf("expected a to be expired")
	}
}

func TestLRU_TTL_Update(t *testing.T) {
	now := time.Now()
	l := newTestLRU(t, LRUOpts{
		Size:  2,
		TTL:   50 * time.Millisecond,
		Clock: func() time.Time { return now },
	})

	l.Set("a", 1)

	now = now.Add(30 * time.Millisecond)
	l.Set("a", 2) // refreshes the write time

	now = now.Add(30 * time.Millisecond)
	val, ok := l.Get("a")
	if !ok || val != 2 {
		t.Errorf("expected a=2 after TTL refresh, got %v, %v", val, ok)
	}
}

func TestLRU_HitRate(t *testing.T) {
	l := newTestLRU(t, LRUOpts{Size: 2})

	if rate := l.HitRate(); rate != 0 {
		t.Errorf("expected 0 hit rate before lookups, got %v", rate)
	}

	l.Set("a", 1)
	l.Get("a")    // hit
	l.Get("a")    // hit
	l.Get("nope") // miss

	if rate := l.HitRate(); rate < 0.66 || rate > 0.67 {
		t.Errorf("expected hit rate 2/3, got %v", rate)
	}

	s := l.Stats()
	if s.Hits != 2 || s.Misses != 1 {
		t.Errorf("expected 2 hits / 1 miss, got %+v", s)
	}
}

func TestLRU_Clear(t *testing.T) {
	l := newTestLRU(t, LRUOpts{Size: 4})

	l.Set("a", 1)
	l.Set("b", 2)
	l.Get("a")

	l.Clear()

	if n := l.Len(); n != 0 {
		t.Errorf("expected empty cache, got len %d", n)
	}
	if rate := l.HitRate(); rate != 0 {
		t.Errorf("expected hit rate reset to 0, got %v", rate)
	}
	_, ok := l.Get("a")
	if ok {
		t.Errorf("expected a to be gone after clear")
	}
}

func TestLRU_Concurrent(t *testing.T) {
	l := newTestLRU(t, LRUOpts{Size: 100})

	const workers = 10
	const ops = 1000

	done := make(chan bool)
	for i := 0; i < workers; i++ {
		go func(workerID int) {
			for j := 0; j < ops; j++ {
				l.Set("key", j)
				l.Get("key")
				l.Has("key")
			}
			done <- true
		}(i)
	}

	for i := 0; i < workers; i++ {
		<-done
	}
}

func TestLRU_Close(t *testing.T) {
	l, err := NewLRU(LRUOpts{Size: 2, TTL: time.Minute, AutoSweep: true})
	if err != nil {
		t.Fatalf("NewLRU: %v", err)
	}

	l.Set("a", 1)
	l.Close()

	if l.Sweeper().Running() {
		t.Errorf("expected sweeper stopped after Close")
	}
	_, ok := l.Get("a")
	if ok {
		t.Errorf("expected empty cache after Close")
	}

	// Operations after Close should not panic
	l.Set("b", 2)
	l.Remove("b")
	l.Close()
}

func TestLRU_DefaultName(t *testing.T) {
	l := newTestLRU(t, LRUOpts{Size: 2})
	if l.Name() == "" {
		t.Errorf("expected a generated cache name")
	}

	named := newTestLRU(t, LRUOpts{Size: 2, Name: "sessions"})
	if named.Name() != "sessions" {
		t.Errorf("expected explicit name, got %q", named.Name())
	}
}
