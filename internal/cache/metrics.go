package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	defaultMetrics *Metrics
	metricsOnce    sync.Once
)

// Metrics holds Prometheus metrics for the result cache.
type Metrics struct {
	HitsTotal      prometheus.Counter
	MissesTotal    prometheus.Counter
	EvictionsTotal prometheus.Counter
	Size           prometheus.Gauge
}

// DefaultMetrics registers the cache metrics with the default Prometheus
// registry. Registration happens once per process.
//
// Metrics:
//   - braindump_cache_hits_total - lookups answered from the cache
//   - braindump_cache_misses_total - lookups that found nothing or an expired entry
//   - braindump_cache_evictions_total - entries dropped to make room
//   - braindump_cache_size - entries currently stored
func DefaultMetrics() *Metrics {
	metricsOnce.Do(func() {
		defaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// NewMetrics registers the cache metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HitsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "braindump_cache_hits_total",
			Help: "Total number of extraction cache hits",
		}),
		MissesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "braindump_cache_misses_total",
			Help: "Total number of extraction cache misses",
		}),
		EvictionsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "braindump_cache_evictions_total",
			Help: "Total number of entries evicted at capacity",
		}),
		Size: f.NewGauge(prometheus.GaugeOpts{
			Name: "braindump_cache_size",
			Help: "Current number of entries in the extraction cache",
		}),
	}
}

// The helpers below accept a nil receiver so an uninstrumented cache needs
// no checks at the call site.

func (m *Metrics) hit() {
	if m != nil {
		m.HitsTotal.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.MissesTotal.Inc()
	}
}

func (m *Metrics) eviction() {
	if m != nil {
		m.EvictionsTotal.Inc()
	}
}

func (m *Metrics) setSize(n int) {
	if m != nil {
		m.Size.Set(float64(n))
	}
}
