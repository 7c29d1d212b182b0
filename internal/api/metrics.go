package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors the server exports. One set per
// process; the registry is the default one promhttp serves.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	AnalysisRuns    *prometheus.CounterVec
	AnalysisRows    prometheus.Counter
}

// NewMetrics registers the server's collectors with the default registry
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers the collectors with a caller-supplied registry
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "marketpulse_http_requests_total",
			Help: "HTTP requests by method, route pattern and status class.",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketpulse_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		AnalysisRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "marketpulse_analysis_runs_total",
			Help: "Pipeline runs by outcome (ok or error diagnostics present).",
		}, []string{"outcome"}),
		AnalysisRows: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketpulse_analysis_rows_selected_total",
			Help: "Rows selected across all pipeline runs.",
		}),
	}
}

// ObserveRun records one pipeline run outcome
func (m *Metrics) ObserveRun(hadErrors bool, selectedRows int) {
	outcome := "ok"
	if hadErrors {
		outcome = "error"
	}
	m.AnalysisRuns.WithLabelValues(outcome).Inc()
	m.AnalysisRows.Add(float64(selectedRows))
}
