package cache

import (
	"fmt"
	"log/slog"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/codewandler/cachr-go/core/lru"
	"github.com/codewandler/cachr-go/internal/shard"
)

const defaultShards = 8

// Sharder picks the shard that owns a key. Implementations must be
// deterministic and pure: the same key always maps to the same index in
// [0, Shards).
type Sharder interface {
	GetShardForKey(key string) int
}

// ShardedOpts configures a Sharded cache.
type ShardedOpts struct {
	// Shards is the number of independent segments. Defaults to 8 and is
	// clamped so every shard holds at least one entry.
	Shards int

	// Size bounds the number of resident entries across all shards. The
	// capacity is split evenly, remainder to the first shards. Required,
	// must be positive.
	Size int

	// TTL, AutoSweep and SweepInterval apply to every shard; with AutoSweep
	// each shard runs its own sweeper.
	TTL           time.Duration
	AutoSweep     bool
	SweepInterval time.Duration

	Name    string
	Log     *slog.Logger
	Metrics Metrics
	Clock   func() time.Time

	// Sharder maps keys to shard indexes. Defaults to FNV-1a distribution
	// over Shards.
	Sharder Sharder
}

// Sharded fronts several independently locked LRUs so concurrent callers on
// different keys rarely contend on the same mutex. Keys map to shards by
// hash; the capacity bound and LRU ordering hold per shard, not globally.
type Sharded struct {
	name    string
	shards  []*LRU
	sharder Sharder
}

// NewSharded creates a Sharded cache.
func NewSharded(opts ShardedOpts) (*Sharded, error) {
	if opts.Name == "" {
		opts.Name = fmt.Sprintf("cache-%s", gonanoid.Must(6))
	}
	if opts.Size <= 0 {
		return nil, fmt.Errorf("cache %s: %w: %d", opts.Name, lru.ErrInvalidCapacity, opts.Size)
	}
	if opts.Shards <= 0 {
		opts.Shards = defaultShards
	}
	if opts.Shards > opts.Size {
		opts.Shards = opts.Size
	}
	if opts.Sharder == nil {
		opts.Sharder = shard.Distributed(opts.Shards)
	}

	s := &Sharded{
		name:    opts.Name,
		shards:  make([]*LRU, opts.Shards),
		sharder: opts.Sharder,
	}

	base, rem := opts.Size/opts.Shards, opts.Size%opts.Shards
	for i := range s.shards {
		size := base
		if i < rem {
			size++
		}

		l, err := NewLRU(LRUOpts{
			Size:          size,
			TTL:           opts.TTL,
			AutoSweep:     opts.AutoSweep,
			SweepInterval: opts.SweepInterval,
			Name:          fmt.Sprintf("%s-%d", opts.Name, i),
			Log:           opts.Log,
			Metrics:       opts.Metrics,
			Clock:         opts.Clock,
		})
		if err != nil {
			for _, prev := range s.shards[:i] {
				prev.Close()
			}
			return nil, err
		}
		s.shards[i] = l
	}

	return s, nil
}

func (s *Sharded) shardFor(key string) *LRU {
	return s.shards[s.sharder.GetShardForKey(key)]
}

func (s *Sharded) Get(key string) (any, bool) {
	return s.shardFor(key).Get(key)
}

func (s *Sharded) Set(key string, val any) {
	s.shardFor(key).Set(key, val)
}

func (s *Sharded) Has(key string) bool {
	return s.shardFor(key).Has(key)
}

func (s *Sharded) Remove(key string) {
	s.shardFor(key).Remove(key)
}

// Clear empties every shard and stops their sweepers.
func (s *Sharded) Clear() {
	for _, l := range s.shards {
		l.Clear()
	}
}

// SweepExpired sweeps every shard and returns the total number of entries
// removed.
func (s *Sharded) SweepExpired() int {
	total := 0
	for _, l := range s.shards {
		total += l.SweepExpired()
	}
	return total
}

// Len returns the number of resident entries across all shards.
func (s *Sharded) Len() int {
	n := 0
	for _, l := range s.shards {
		n += l.Len()
	}
	return n
}

// Stats aggregates the counters of all shards.
func (s *Sharded) Stats() lru.Stats {
	var agg lru.Stats
	for _, l := range s.shards {
		st := l.Stats()
		agg.Hits += st.Hits
		agg.Misses += st.Misses
		agg.Len += st.Len
		agg.Cap += st.Cap
		agg.Pooled += st.Pooled
	}
	return agg
}

// HitRate returns the hit rate aggregated across all shards.
func (s *Sharded) HitRate() float64 {
	return s.Stats().HitRate()
}

// Name returns the instance name; shards log and report as "<name>-<i>".
func (s *Sharded) Name() string { return s.name }

// Close closes every shard.
func (s *Sharded) Close() {
	for _, l := range s.shards {
		l.Close()
	}
}

var _ Cache = (*Sharded)(nil)
