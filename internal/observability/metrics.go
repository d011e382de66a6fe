package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for a tracker run.
type Metrics struct {
	RowsLoaded   prometheus.Counter
	RowsDropped  prometheus.Counter
	RowsDeduped  prometheus.Counter
	ValuesFilled prometheus.Counter
	RowsSelected prometheus.Counter

	ChartsRendered prometheus.Counter
	ChartsSkipped  prometheus.Counter

	FetchRequests *prometheus.CounterVec // labels: outcome={success,error}
	FetchDuration prometheus.Histogram

	PipelineRunning prometheus.Gauge
}

// NewMetrics creates and registers all tracker metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsLoaded,
		m.RowsDropped,
		m.RowsDeduped,
		m.ValuesFilled,
		m.RowsSelected,
		m.ChartsRendered,
		m.ChartsSkipped,
		m.FetchRequests,
		m.FetchDuration,
		m.PipelineRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covid_tracker",
			Name:      "rows_loaded_total",
			Help:      "Rows parsed from the source CSV.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covid_tracker",
			Name:      "rows_dropped_total",
			Help:      "Rows removed during cleaning (missing keys, aggregates, empty under drop policy).",
		}),
		RowsDeduped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covid_tracker",
			Name:      "rows_deduped_total",
			Help:      "Duplicate (iso_code, date) rows collapsed during cleaning.",
		}),
		ValuesFilled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covid_tracker",
			Name:      "values_filled_total",
			Help:      "Missing metric cells repaired by the fill policy.",
		}),
		RowsSelected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covid_tracker",
			Name:      "rows_selected_total",
			Help:      "Rows remaining after the country and date-range filter.",
		}),
		ChartsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covid_tracker",
			Name:      "charts_rendered_total",
			Help:      "Chart image files written.",
		}),
		ChartsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covid_tracker",
			Name:      "charts_skipped_total",
			Help:      "Charts skipped because their input series was empty.",
		}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covid_tracker",
			Name:      "fetch_requests_total",
			Help:      "Remote CSV fetch attempts by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "covid_tracker",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of the remote CSV download.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covid_tracker",
			Name:      "pipeline_running",
			Help:      "1 while the run is in progress, 0 when finished.",
		}),
	}
}
