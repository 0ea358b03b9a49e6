package braindump

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const outcomeOK = "ok"

// Metrics counts backend round trips.
type Metrics struct {
	RequestsTotal *prometheus.CounterVec
	TokensTotal   *prometheus.CounterVec
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns metrics registered with the default registerer.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		defaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// NewMetrics registers backend metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "braindump_backend_requests_total",
			Help: "Backend requests by outcome (ok or error kind).",
		}, []string{"backend", "outcome"}),
		TokensTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "braindump_backend_tokens_total",
			Help: "Tokens consumed as reported by the backend.",
		}, []string{"backend"}),
	}
}

func (m *Metrics) record(backend, outcome string, tokens int) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(backend, outcome).Inc()
	if tokens > 0 {
		m.TokensTotal.WithLabelValues(backend).Add(float64(tokens))
	}
}
