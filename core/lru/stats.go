package lru

// Stats is a snapshot of a cache's counters.
type Stats struct {
	Hits   uint64
	Misses uint64
	Len    int
	Cap    int
	Pooled int // nodes waiting on the free list
}

// HitRate returns hits/(hits+misses), or 0 when the snapshot saw no lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
