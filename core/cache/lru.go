package cache

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/codewandler/cachr-go/core/lru"
)

const defaultSweepInterval = time.Minute

// LRUOpts configures an LRU.
type LRUOpts struct {
	// Size bounds the number of resident entries. Required, must be positive.
	Size int

	// TTL expires entries this long after their last write. 0 disables
	// time-based expiry.
	TTL time.Duration

	// AutoSweep starts a background sweeper that periodically removes
	// expired entries. Requires a TTL.
	AutoSweep bool

	// SweepInterval is the sweeper tick period. Defaults to one minute.
	SweepInterval time.Duration

	// Name identifies the cache in logs and metrics. Defaults to
	// "cache-<id>".
	Name string

	// Log defaults to slog.Default().
	Log *slog.Logger

	// Metrics defaults to NopMetrics().
	Metrics Metrics

	// Clock overrides the time source, mainly for tests.
	Clock func() time.Time
}

// LRU is a concurrency-safe LRU cache with optional TTL expiry and
// background sweeping. Every operation serializes on one mutex; the sweeper
// goroutine runs its evictions through the same mutex, so sweeps never race
// caller mutations.
type LRU struct {
	name    string
	log     *slog.Logger
	metrics Metrics

	mu sync.Mutex
	c  *lru.Cache[string, any]

	sweeper *Sweeper
}

// NewLRU creates an LRU. It fails when Size is not positive or when
// AutoSweep is requested without a TTL.
func NewLRU(opts LRUOpts) (*LRU, error) {
	if opts.Name == "" {
		opts.Name = fmt.Sprintf("cache-%s", gonanoid.Must(6))
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = NopMetrics()
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = defaultSweepInterval
	}

	l := &LRU{
		name:    opts.Name,
		log:     opts.Log.With(slog.String("cache", opts.Name)),
		metrics: opts.Metrics,
	}

	core, err := lru.New(lru.Opts[string, any]{
		Max:     opts.Size,
		TTL:     opts.TTL,
		Clock:   opts.Clock,
		OnEvict: l.onEvict,
	})
	if err != nil {
		return nil, fmt.Errorf("cache %s: %w", opts.Name, err)
	}
	l.c = core

	l.sweeper = newSweeper(opts.SweepInterval, l.log, l.sweepLocked)
	l.sweeper.disabled = opts.TTL <= 0

	if opts.AutoSweep {
		if err := l.sweeper.Start(); err != nil {
			return nil, fmt.Errorf("cache %s: %w", opts.Name, err)
		}
	}

	return l, nil
}

// Get returns the live value stored under key, promoting the entry to most
// recently used.
func (l *LRU) Get(key string) (any, bool) {
	l.mu.Lock()
	v, ok := l.c.Get(key)
	l.mu.Unlock()

	if ok {
		l.metrics.Hit(l.name)
	} else {
		l.metrics.Miss(l.name)
	}
	return v, ok
}

// Set stores val under key and marks the entry most recently used.
func (l *LRU) Set(key string, val any) {
	l.mu.Lock()
	l.c.Set(key, val)
	n := l.c.Len()
	l.mu.Unlock()

	l.metrics.Resident(l.name, n)
}

// Has reports whether key is resident and live, without counting as a lookup
// and without refreshing recency.
func (l *LRU) Has(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.Has(key)
}

// Remove deletes key. Removing an absent key is a no-op.
func (l *LRU) Remove(key string) {
	l.mu.Lock()
	l.c.Remove(key)
	n := l.c.Len()
	l.mu.Unlock()

	l.metrics.Resident(l.name, n)
}

// Clear empties the cache, resets the hit/miss counters and stops a running
// background sweeper. The sweeper stays stopped until explicitly restarted.
func (l *LRU) Clear() {
	l.sweeper.Stop()

	l.mu.Lock()
	l.c.Clear()
	l.mu.Unlock()

	l.metrics.Resident(l.name, 0)
	l.log.Debug("cache cleared")
}

// SweepExpired removes expired entries and returns how many were removed.
// The background sweeper calls this on every tick; it is also safe to call
// manually at any time.
func (l *LRU) SweepExpired() int {
	return l.sweepLocked()
}

// sweepLocked runs one sweep under the cache mutex and reports the outcome
// to metrics.
func (l *LRU) sweepLocked() int {
	timer := l.metrics.SweepDuration(l.name)

	l.mu.Lock()
	removed := l.c.SweepExpired()
	n := l.c.Len()
	l.mu.Unlock()

	timer.ObserveDuration()
	l.metrics.SweptEntries(l.name, removed)
	l.metrics.Resident(l.name, n)

	if removed > 0 {
		l.log.Debug("swept expired entries",
			slog.Int("removed", removed),
			slog.Int("resident", n),
		)
	}
	return removed
}

// Sweeper exposes the background sweeper for lifecycle control.
func (l *LRU) Sweeper() *Sweeper { return l.sweeper }

// Len returns the number of resident entries.
func (l *LRU) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.Len()
}

// HitRate returns hits/(hits+misses) since the last Clear, 0 before the
// first lookup.
func (l *LRU) HitRate() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.HitRate()
}

// Stats returns a snapshot of the cache counters.
func (l *LRU) Stats() lru.Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.Stats()
}

// Name returns the instance name used in logs and metrics.
func (l *LRU) Name() string { return l.name }

// Close stops the sweeper and drops all entries including the pooled nodes.
// The cache stays usable afterwards; Close exists so callers can release
// memory deterministically.
func (l *LRU) Close() {
	l.Clear()

	l.mu.Lock()
	l.c.DiscardPool()
	l.mu.Unlock()
}

// onEvict runs inside the core while the cache mutex is held.
func (l *LRU) onEvict(_ string, _ any, reason lru.EvictReason) {
	l.metrics.Eviction(l.name, reason.String())
}

var _ Cache = (*LRU)(nil)
