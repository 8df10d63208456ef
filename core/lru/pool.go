package lru

import "time"

// node is one entry in the intrusive doubly linked recency list. The cache
// exclusively owns prev/next; a node is either resident (reachable from the
// index and the list) or pooled with all fields cleared.
type node[K comparable, V any] struct {
	key       K
	value     V
	createdAt time.Time // last write, drives TTL expiry
	prev      *node[K, V]
	next      *node[K, V]
}

// pool is an instance-scoped free list of detached nodes. Reusing nodes keeps
// steady-state churn (insert plus evict at capacity) allocation-free.
//
// The pool holds only detached nodes and performs no reachability checks:
// callers must unlink a node before releasing it, and release it at most
// once. Like the cache that owns it, the pool is not safe for concurrent
// use. It has no capacity bound.
type pool[K comparable, V any] struct {
	free []*node[K, V]
}

// acquire returns a node carrying the given fields, reusing a pooled node
// when one is available. It never fails.
func (p *pool[K, V]) acquire(key K, value V, createdAt time.Time) *node[K, V] {
	if n := len(p.free); n > 0 {
		nd := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		nd.key = key
		nd.value = value
		nd.createdAt = createdAt
		return nd
	}
	return &node[K, V]{key: key, value: value, createdAt: createdAt}
}

// release zeroes key, value, createdAt and the links, then appends the node
// to the free list. Clearing happens here rather than in acquire so that a
// pooled node retains no payload references.
func (p *pool[K, V]) release(nd *node[K, V]) {
	var (
		zeroK K
		zeroV V
	)
	nd.key = zeroK
	nd.value = zeroV
	nd.createdAt = time.Time{}
	nd.prev = nil
	nd.next = nil
	p.free = append(p.free, nd)
}

// clear discards the free list. Nodes resident in the cache are unaffected.
func (p *pool[K, V]) clear() {
	p.free = nil
}

// size reports the number of pooled nodes.
func (p *pool[K, V]) size() int {
	return len(p.free)
}
