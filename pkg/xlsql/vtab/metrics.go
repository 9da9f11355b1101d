package vtab

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for the filters counter.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds all Prometheus metrics for gated tables.
type Metrics struct {
	Filters          *prometheus.CounterVec
	FilterDuration   *prometheus.HistogramVec
	RowsMaterialized *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics with the provided registry.
// A nil registry leaves the metrics unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	filters := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "xlsql_filters_total",
		Help: "Total Filter calls per table and outcome",
	}, []string{"table", "outcome"})

	filterDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "xlsql_filter_duration_seconds",
		Help:    "Time spent decoding and materializing a result set",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	}, []string{"table"})

	rowsMaterialized := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "xlsql_rows_materialized_total",
		Help: "Total rows materialized per table",
	}, []string{"table"})

	if reg != nil {
		reg.MustRegister(filters, filterDuration, rowsMaterialized)
	}

	return &Metrics{
		Filters:          filters,
		FilterDuration:   filterDuration,
		RowsMaterialized: rowsMaterialized,
	}
}
