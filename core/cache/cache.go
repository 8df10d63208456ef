package cache

// Cache is the contract collaborators program against. Implementations
// decide bounding, expiry and synchronization; callers treat the cache as an
// opaque key-value store that may forget entries at any time.
type Cache interface {
	// Get returns the live value stored under key.
	Get(key string) (any, bool)
	// Set stores val under key.
	Set(key string, val any)
	// Has reports presence without counting as a lookup and without
	// refreshing recency.
	Has(key string) bool
	// Remove deletes key. Removing an absent key is a no-op.
	Remove(key string)
	// Clear empties the cache.
	Clear()
}

// TypedCache is a type-safe view over a Cache.
type TypedCache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, val T)
	Has(key string) bool
	Remove(key string)
	Clear()
}

type typedCache[T any] struct {
	c Cache
}

// NewTyped wraps c in a TypedCache. Values of a different type stored under
// the same key report as absent.
func NewTyped[T any](c Cache) TypedCache[T] { return &typedCache[T]{c: c} }

func (t *typedCache[T]) Get(key string) (out T, ok bool) {
	var v any
	v, ok = t.c.Get(key)
	if !ok {
		return out, false
	}

	if out, ok = v.(T); !ok {
		return out, false
	}
	return
}

func (t *typedCache[T]) Set(key string, val T) {
	t.c.Set(key, val)
}

func (t *typedCache[T]) Has(key string) bool {
	return t.c.Has(key)
}

func (t *typedCache[T]) Remove(key string) {
	t.c.Remove(key)
}

func (t *typedCache[T]) Clear() {
	t.c.Clear()
}

var _ TypedCache[any] = (*typedCache[any])(nil)
