package cache

import "github.com/codewandler/cachr-go/core/metrics"

// Metrics observes cache behavior. Implementations must be safe for
// concurrent use; Eviction is called while the cache mutex is held and must
// not block. See adapters/prometheus for a real backend.
type Metrics interface {
	// Hit records a lookup answered from the cache.
	Hit(cache string)
	// Miss records a lookup that found nothing live.
	Miss(cache string)
	// Eviction records an entry leaving the cache. reason is one of
	// "capacity", "expired", "removed", "cleared".
	Eviction(cache, reason string)
	// SweepDuration times one expiry sweep.
	SweepDuration(cache string) metrics.Timer
	// SweptEntries records how many entries a sweep removed.
	SweptEntries(cache string, count int)
	// Resident tracks the number of resident entries as of the last write,
	// removal or sweep.
	Resident(cache string, n int)
}

// nopMetrics is a no-op implementation of Metrics.
type nopMetrics struct{}

func (nopMetrics) Hit(string)                         {}
func (nopMetrics) Miss(string)                        {}
func (nopMetrics) Eviction(string, string)            {}
func (nopMetrics) SweepDuration(string) metrics.Timer { return metrics.NopTimer() }
func (nopMetrics) SweptEntries(string, int)           {}
func (nopMetrics) Resident(string, int)               {}

// NopMetrics returns a Metrics implementation that records nothing.
func NopMetrics() Metrics { return nopMetrics{} }

var _ Metrics = nopMetrics{}
