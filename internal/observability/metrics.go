package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// DOPE merge engine.
type Metrics struct {
	SessionsAssembled prometheus.Counter
	Reassemblies      prometheus.Counter
	ShotsMatched      prometheus.Counter
	ShotsUnmatched    prometheus.Counter
	StagingActive     prometheus.Gauge

	// Save path metrics.
	Saves              *prometheus.CounterVec // labels: outcome={created,updated,error}
	SaveDuration       prometheus.Histogram
	DetailRowsReplaced prometheus.Counter
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.SessionsAssembled,
		m.Reassemblies,
		m.ShotsMatched,
		m.ShotsUnmatched,
		m.StagingActive,
		m.Saves,
		m.SaveDuration,
		m.DetailRowsReplaced,
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
		SessionsAssembled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dopebook",
			Name:      "sessions_assembled_total",
			Help:      "Total staging sessions begun from a chronograph session.",
		}),
		Reassemblies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dopebook",
			Name:      "reassemblies_total",
			Help:      "Total source-selection changes that re-ran the merge.",
		}),
		ShotsMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dopebook",
			Name:      "shots_matched_total",
			Help:      "Shots that received an in-tolerance weather reading.",
		}),
		ShotsUnmatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dopebook",
			Name:      "shots_unmatched_total",
			Help:      "Shots merged with no weather reading inside the tolerance window.",
		}),
		StagingActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dopebook",
			Name:      "staging_sessions_active",
			Help:      "Staging sessions currently held in memory.",
		}),
		Saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dopebook",
			Name:      "saves_total",
			Help:      "Save attempts by outcome.",
		}, []string{"outcome"}),
		SaveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dopebook",
			Name:      "save_duration_seconds",
			Help:      "Duration of a complete resolve-upsert-replace save.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		DetailRowsReplaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dopebook",
			Name:      "detail_rows_replaced_total",
			Help:      "Shot detail rows written by save operations.",
		}),
	}
}
