// Package cache provides concurrency-safe key-value caches with LRU
// eviction, TTL expiry and background sweeping, built on the unsynchronized
// core in core/lru.
//
// The package defines two interfaces:
//
//   - [Cache]: Untyped cache storing values as any
//   - [TypedCache]: Generic type-safe wrapper via [NewTyped]
//
// # Implementations
//
// [LRU] guards one core cache with a mutex and owns an optional background
// [Sweeper]:
//
//	c, err := cache.NewLRU(cache.LRUOpts{
//	    Size:      10_000,
//	    TTL:       5 * time.Minute,
//	    AutoSweep: true,
//	})
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	c.Set("key", value)
//	if val, ok := c.Get("key"); ok {
//	    // use val
//	}
//
// [Sharded] splits the keyspace over several LRUs to spread lock contention;
// [Nop] caches nothing.
//
// # Expiry
//
// A non-zero TTL expires entries that long after their last write. Expired
// entries are dropped lazily on access, or eagerly by the sweeper, which
// ticks on its own goroutine and funnels the eviction work through the cache
// mutex. Clear stops a running sweeper; [LRU.Sweeper] gives manual control:
//
//	c.Sweeper().Restart(30 * time.Second)
//
// # Type-Safe Usage
//
// Use [NewTyped] for compile-time type safety:
//
//	users := cache.NewTyped[*User](c)
//	users.Set("user:123", user)
//	if user, ok := users.Get("user:123"); ok {
//	    // user is *User, no type assertion needed
//	}
//
// # Observability
//
// Hit/miss rates, evictions by reason and sweep activity are reported
// through the [Metrics] interface; adapters/prometheus implements it.
package cache
