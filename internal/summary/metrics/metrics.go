// Package metrics holds Prometheus metrics for the summary tables endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks summary request outcomes and latency.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration prometheus.Histogram
}

// New creates and registers all summary metrics.
func New() *Metrics {
	return &Metrics{
		Requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "awardsreport_summary_requests_total",
			Help: "Summary table requests by outcome.",
		}, []string{"outcome"}),
		Duration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "awardsreport_summary_request_duration_seconds",
			Help:    "End to end summary table request duration.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Observe records one completed request.
func (m *Metrics) Observe(outcome string, d time.Duration) {
	m.Requests.WithLabelValues(outcome).Inc()
	m.Duration.Observe(d.Seconds())
}
