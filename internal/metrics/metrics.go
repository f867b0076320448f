package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector bundles the engine and API metrics.
type Collector struct {
	// API metrics
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec

	// Baseline run metrics
	RunsTotal           *prometheus.CounterVec
	RunDuration         prometheus.Histogram
	CandidatesPerRun    prometheus.Histogram
	SufficiencyFailures *prometheus.CounterVec
	SelectedForm        *prometheus.CounterVec
}

// NewCollector registers the metric set under the given namespace using the
// default prometheus registry.
func NewCollector(namespace string) *Collector {
	return &Collector{
		APIRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total API requests by endpoint, method, and status",
			},
			[]string{"endpoint", "method", "status"},
		),
		APIRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint"},
		),
		RunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Baseline runs by outcome (selected, no_qualifying_model, insufficient_data, error)",
			},
			[]string{"outcome"},
		),
		RunDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "End-to-end baseline run duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
			},
		),
		CandidatesPerRun: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "candidates_per_run",
				Help:      "Number of candidate models fitted per run",
				Buckets:   []float64{1, 10, 50, 100, 500, 1000, 2500, 5000},
			},
		),
		SufficiencyFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sufficiency_failures_total",
				Help:      "Sufficiency disqualifications by check code",
			},
			[]string{"code"},
		),
		SelectedForm: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "selected_form_total",
				Help:      "Winning model form across runs",
			},
			[]string{"form"},
		),
	}
}
