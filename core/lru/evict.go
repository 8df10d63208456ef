package lru

// EvictReason tells an eviction callback why an entry left the cache.
type EvictReason int

const (
	// ReasonCapacity marks eviction of the least recently used entry to make
	// room for a new key.
	ReasonCapacity EvictReason = iota
	// ReasonExpired marks removal of an entry whose TTL elapsed.
	ReasonExpired
	// ReasonRemoved marks an explicit Remove.
	ReasonRemoved
	// ReasonCleared marks removal via Clear.
	ReasonCleared
)

func (r EvictReason) String() string {
	switch r {
	case ReasonCapacity:
		return "capacity"
	case ReasonExpired:
		return "expired"
	case ReasonRemoved:
		return "removed"
	case ReasonCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// EvictFunc observes entries leaving the cache. It is called after the entry
// has been detached, synchronously inside the operation that triggered the
// eviction, and must not call back into the cache.
type EvictFunc[K comparable, V any] func(key K, value V, reason EvictReason)
