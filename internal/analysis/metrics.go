package analysis

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts analyses by status and records solver wall time.
type Metrics struct {
	registry *prometheus.Registry
	runs     *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics registers the analysis metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "opsrun_analyses_total",
			Help: "Solver runs by outcome.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "opsrun_analysis_duration_seconds",
			Help:    "Wall time of solver runs.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
	}
	m.registry.MustRegister(m.runs, m.duration)
	for _, s := range []Status{Succeeded, Failed, Errored} {
		m.runs.WithLabelValues(s.String())
	}
	return m
}

// Registry exposes the registry for serving or gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observe(s Status, d time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(s.String()).Inc()
	if d > 0 {
		m.duration.Observe(d.Seconds())
	}
}

// WriteTextfile writes the metrics in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
