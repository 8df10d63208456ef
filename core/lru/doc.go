// Package lru implements a bounded LRU cache with optional TTL expiry and
// node pooling.
//
// The cache pairs a hash index with an intrusive doubly linked list kept in
// recency order, giving O(1) amortized Get/Set/Remove/Has. Evicted and
// removed entries return their list nodes to an instance-scoped free list,
// so a cache running at capacity stops allocating per insert.
//
//	c, err := lru.New(lru.Opts[string, int]{Max: 128})
//	if err != nil {
//	    return err
//	}
//	c.Set("a", 1)
//	if v, ok := c.Get("a"); ok {
//	    // use v
//	}
//
// # Expiry
//
// A non-zero Opts.TTL expires entries that amount of time after their last
// write. Expired entries are removed lazily when Get/Has touch them, or in
// batch via [Cache.SweepExpired], which scans from the least recently used
// end and stops at the first live entry.
//
//	c := lru.MustNew(lru.Opts[string, string]{Max: 1024, TTL: 5 * time.Minute})
//
// # Deterministic time
//
// Every time-dependent operation has an *At variant taking an explicit
// timestamp, and Opts.Clock overrides the time source of the plain forms:
//
//	c.SetAt("a", "v", t0)
//	_, ok := c.GetAt("a", t0.Add(150*time.Millisecond)) // expired when TTL <= 150ms
//
// # Concurrency
//
// A Cache is not safe for concurrent use. Confine it to one goroutine or
// guard it externally; the cache package builds a mutex-guarded front with a
// background sweeper on top of this type.
package lru
