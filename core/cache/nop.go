package cache

// Nop is a Cache that stores nothing; every lookup misses. Useful for
// disabling caching without touching call sites.
type Nop struct{}

func NewNop() *Nop {
	return &Nop{}
}

func (n *Nop) Get(key string) (any, bool) {
	return nil, false
}

func (n *Nop) Set(key string, val any) {
}

func (n *Nop) Has(key string) bool {
	return false
}

func (n *Nop) Remove(key string) {
}

func (n *Nop) Clear() {
}

var _ Cache = (*Nop)(nil)
