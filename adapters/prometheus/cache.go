package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewandler/cachr-go/core/cache"
	"github.com/codewandler/cachr-go/core/metrics"
)

// cacheMetrics implements cache.Metrics using Prometheus.
type cacheMetrics struct {
	hits          *prometheus.CounterVec
	misses        *prometheus.CounterVec
	evictions     *prometheus.CounterVec
	sweepDuration *prometheus.HistogramVec
	sweptEntries  *prometheus.CounterVec
	resident      *prometheus.GaugeVec
}

// NewCacheMetrics creates a new Prometheus implementation of cache.Metrics.
// All series carry a "cache" label with the instance name, so several caches
// can share one registry.
func NewCacheMetrics(reg prometheus.Registerer) cache.Metrics {
	m := &cacheMetrics{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cachr_cache_hits_total",
			Help: "Total number of lookups answered from the cache",
		}, []string{"cache"}),

		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cachr_cache_misses_total",
			Help: "Total number of lookups that found nothing live",
		}, []string{"cache"}),

		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cachr_cache_evictions_total",
			Help: "Total number of entries removed, by reason",
		}, []string{"cache", "reason"}),

		sweepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cachr_cache_sweep_duration_seconds",
			Help:    "Expiry sweep latency in seconds",
			Buckets: defaultBuckets,
		}, []string{"cache"}),

		sweptEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cachr_cache_swept_entries_total",
			Help: "Total number of expired entries removed by sweeps",
		}, []string{"cache"}),

		resident: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cachr_cache_resident_entries",
			Help: "Number of resident entries as of the last mutation",
		}, []string{"cache"}),
	}

	reg.MustRegister(
		m.hits,
		m.misses,
		m.evictions,
		m.sweepDuration,
		m.sweptEntries,
		m.resident,
	)

	return m
}

func (m *cacheMetrics) Hit(cache string) {
	m.hits.WithLabelValues(cache).Inc()
}

func (m *cacheMetrics) Miss(cache string) {
	m.misses.WithLabelValues(cache).Inc()
}

func (m *cacheMetrics) Eviction(cache, reason string) {
	m.evictions.WithLabelValues(cache, reason).Inc()
}

func (m *cacheMetrics) SweepDuration(cache string) metrics.Timer {
	return newTimer(m.sweepDuration.WithLabelValues(cache))
}

func (m *cacheMetrics) SweptEntries(cache string, count int) {
	m.sweptEntries.WithLabelValues(cache).Add(float64(count))
}

func (m *cacheMetrics) Resident(cache string, n int) {
	m.resident.WithLabelValues(cache).Set(float64(n))
}

var _ cache.Metrics = (*cacheMetrics)(nil)
