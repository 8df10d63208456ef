// Package memo caches function results in a [cache.Cache].
//
// A memoized function derives a cache key from its arguments, answers
// repeated calls from the cache, and collapses concurrent calls for the same
// missing key into a single execution (single-flight). The wrapper treats
// the cache purely as a key-value store: bounding, expiry and eviction stay
// the cache's business, so memoized entries age out under the cache's LRU
// and TTL rules like any other entry.
//
//	c, _ := cache.NewLRU(cache.LRUOpts{Size: 1024, TTL: time.Minute})
//	lookup := memo.Memoize(c, expensiveLookup)
//
//	v, err := lookup("item-42") // first call computes
//	v, err = lookup("item-42")  // answered from the cache
//
// # Keys
//
// Keys have the form "<namespace>/<digest>": arguments are encoded
// deterministically, hashed, and prefixed with the namespace. The namespace
// defaults to the name of the result type, so wrappers returning different
// types never collide on a shared cache. Two memoized functions returning
// the SAME type on the same cache do collide; give them distinct namespaces:
//
//	squares := memo.Memoize(c, square, memo.WithNamespace("square"))
//	cubes := memo.Memoize(c, cube, memo.WithNamespace("cube"))
//
// The digest comes from the argument's JSON encoding (string arguments hash
// their raw bytes), so the encoding must be value-faithful: two arguments
// that differ only in state the encoding drops, such as unexported struct
// fields, would share a key and a result. Argument types that encode with
// no fields at all are rejected with ErrKeyEncoding instead of silently
// serving one argument's result for another.
//
// # Errors
//
// By default a failed computation stores nothing; the error is returned and
// the next call retries. WithErrCaching(true) stores the error under the key
// instead, so repeated calls fail fast until the entry is evicted or
// expires.
package memo
