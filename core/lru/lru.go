package lru

import (
	"fmt"
	"time"
)

// Opts configures a Cache.
type Opts[K comparable, V any] struct {
	// Max bounds the number of resident entries. Required, must be positive.
	Max int

	// TTL expires an entry once this much time has passed since its last
	// write. 0 disables time-based expiry. Negative values are treated as 0.
	TTL time.Duration

	// Clock overrides the time source used by Get, Set, Has, Peek and
	// SweepExpired. Defaults to time.Now. The *At variants bypass it.
	Clock func() time.Time

	// OnEvict, when set, observes every entry leaving the cache.
	OnEvict EvictFunc[K, V]
}

// Cache is a bounded LRU cache with optional TTL expiry and node pooling.
// Lookups, writes and removals are O(1) amortized.
//
// A Cache must be created with New or MustNew; the zero value is not ready
// for use. It is not internally synchronized: confine an instance to one
// goroutine or serialize access externally. The cache package provides a
// mutex-guarded front with background sweeping on top of this type.
type Cache[K comparable, V any] struct {
	max     int
	ttl     time.Duration
	now     func() time.Time
	onEvict EvictFunc[K, V]

	items map[K]*node[K, V]
	head  *node[K, V] // most recently used
	tail  *node[K, V] // least recently used

	hits   uint64
	misses uint64

	pool pool[K, V]
}

// New creates a Cache. It fails when opts.Max is not positive; construction
// is the only failing operation in this package.
func New[K comparable, V any](opts Opts[K, V]) (*Cache[K, V], error) {
	if opts.Max <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, opts.Max)
	}
	if opts.TTL < 0 {
		opts.TTL = 0
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Cache[K, V]{
		max:     opts.Max,
		ttl:     opts.TTL,
		now:     opts.Clock,
		onEvict: opts.OnEvict,
		items:   make(map[K]*node[K, V], opts.Max),
	}, nil
}

// MustNew is New, panicking on error.
func MustNew[K comparable, V any](opts Opts[K, V]) *Cache[K, V] {
	c, err := New(opts)
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns the live value stored under key and promotes the entry to most
// recently used. Absent and expired keys count as misses; an expired entry
// is removed on the spot.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.GetAt(key, c.now())
}

// GetAt is Get with an explicit timestamp for the expiry check.
func (c *Cache[K, V]) GetAt(key K, now time.Time) (V, bool) {
	var zero V

	nd, ok := c.items[key]
	if !ok {
		c.misses++
		return zero, false
	}
	if c.expired(nd, now) {
		c.evict(nd, ReasonExpired)
		c.misses++
		return zero, false
	}

	c.hits++
	c.moveToFront(nd)
	return nd.value, true
}

// Set stores value under key and marks the entry most recently used. An
// existing key has its value and write time rewritten in place. Inserting a
// new key into a full cache evicts the least recently used entry, exactly
// one per call.
func (c *Cache[K, V]) Set(key K, value V) {
	c.SetAt(key, value, c.now())
}

// SetAt is Set with an explicit write timestamp.
func (c *Cache[K, V]) SetAt(key K, value V, now time.Time) {
	if nd, ok := c.items[key]; ok {
		// Write time and recency move together; SweepExpiredAt's early
		// stop depends on this pairing.
		nd.value = value
		nd.createdAt = now
		c.moveToFront(nd)
		return
	}

	nd := c.pool.acquire(key, value, now)
	c.items[key] = nd
	c.pushFront(nd)

	if len(c.items) > c.max {
		c.evict(c.tail, ReasonCapacity)
	}
}

// Has reports whether key is resident and live. Unlike Get it touches
// neither the hit/miss counters nor the entry's recency; its only side
// effect is removing the entry when it turns out expired.
func (c *Cache[K, V]) Has(key K) bool {
	return c.HasAt(key, c.now())
}

// HasAt is Has with an explicit timestamp for the expiry check.
func (c *Cache[K, V]) HasAt(key K, now time.Time) bool {
	nd, ok := c.items[key]
	if !ok {
		return false
	}
	if c.expired(nd, now) {
		c.evict(nd, ReasonExpired)
		return false
	}
	return true
}

// Peek returns the value under key without promoting the entry and without
// touching the hit/miss counters. An expired entry reports absent but stays
// resident until an expiry-checking operation or a sweep removes it.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	return c.PeekAt(key, c.now())
}

// PeekAt is Peek with an explicit timestamp for the expiry check.
func (c *Cache[K, V]) PeekAt(key K, now time.Time) (V, bool) {
	var zero V

	nd, ok := c.items[key]
	if !ok || c.expired(nd, now) {
		return zero, false
	}
	return nd.value, true
}

// Remove deletes key and reports whether it was resident. Removing an absent
// key is a no-op and touches no counters.
func (c *Cache[K, V]) Remove(key K) bool {
	nd, ok := c.items[key]
	if !ok {
		return false
	}
	c.evict(nd, ReasonRemoved)
	return true
}

// Clear releases every resident entry back to the pool and resets the
// hit/miss counters. The pool keeps its free list; DiscardPool drops that
// too.
func (c *Cache[K, V]) Clear() {
	for c.tail != nil {
		c.evict(c.tail, ReasonCleared)
	}
	c.hits = 0
	c.misses = 0
}

// SweepExpired removes expired entries, scanning from the least recently
// used end of the list and stopping at the first live entry. An entry
// promoted by reads after its last write can outlive a sweep; it still
// reports absent and is removed on access. Returns the number of entries
// removed, always 0 while TTL is disabled.
func (c *Cache[K, V]) SweepExpired() int {
	return c.SweepExpiredAt(c.now())
}

// SweepExpiredAt is SweepExpired with an explicit timestamp.
func (c *Cache[K, V]) SweepExpiredAt(now time.Time) int {
	if c.ttl <= 0 {
		return 0
	}

	removed := 0
	for c.tail != nil && c.expired(c.tail, now) {
		c.evict(c.tail, ReasonExpired)
		removed++
	}
	return removed
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int { return len(c.items) }

// Cap returns the capacity the cache was created with.
func (c *Cache[K, V]) Cap() int { return c.max }

// TTL returns the configured time-to-live; 0 means entries never expire.
func (c *Cache[K, V]) TTL() time.Duration { return c.ttl }

// Keys returns the resident keys ordered from most to least recently used.
func (c *Cache[K, V]) Keys() []K {
	keys := make([]K, 0, len(c.items))
	for nd := c.head; nd != nil; nd = nd.next {
		keys = append(keys, nd.key)
	}
	return keys
}

// Hits returns the number of lookups answered from the cache since the last
// Clear.
func (c *Cache[K, V]) Hits() uint64 { return c.hits }

// Misses returns the number of lookups that found nothing live since the
// last Clear.
func (c *Cache[K, V]) Misses() uint64 { return c.misses }

// HitRate returns hits/(hits+misses), or 0 before the first lookup.
func (c *Cache[K, V]) HitRate() float64 {
	return c.Stats().HitRate()
}

// Stats returns a point-in-time snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Hits:   c.hits,
		Misses: c.misses,
		Len:    len(c.items),
		Cap:    c.max,
		Pooled: c.pool.size(),
	}
}

// DiscardPool drops the node free list so pooled nodes can be collected.
// Resident entries are unaffected.
func (c *Cache[K, V]) DiscardPool() {
	c.pool.clear()
}

func (c *Cache[K, V]) expired(nd *node[K, V], now time.Time) bool {
	return c.ttl > 0 && now.Sub(nd.createdAt) > c.ttl
}

// evict detaches nd from the index and the list, fires the eviction
// callback, and returns the node to the pool. nd must be resident.
func (c *Cache[K, V]) evict(nd *node[K, V], reason EvictReason) {
	delete(c.items, nd.key)
	c.unlink(nd)
	if c.onEvict != nil {
		c.onEvict(nd.key, nd.value, reason)
	}
	c.pool.release(nd)
}

// pushFront makes nd the head of the recency list.
func (c *Cache[K, V]) pushFront(nd *node[K, V]) {
	nd.prev = nil
	nd.next = c.head
	if c.head != nil {
		c.head.prev = nd
	}
	c.head = nd
	if c.tail == nil {
		c.tail = nd
	}
}

// unlink removes nd from the recency list.
func (c *Cache[K, V]) unlink(nd *node[K, V]) {
	if nd.prev != nil {
		nd.prev.next = nd.next
	} else {
		c.head = nd.next
	}
	if nd.next != nil {
		nd.next.prev = nd.prev
	} else {
		c.tail = nd.prev
	}
	nd.prev = nil
	nd.next = nil
}

func (c *Cache[K, V]) moveToFront(nd *node[K, V]) {
	if c.head == nd {
		return
	}
	c.unlink(nd)
	c.pushFront(nd)
}
