package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, path, and status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptune_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "path", "status"})

	// RequestDuration tracks end-to-end HTTP latency per route.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "promptune_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	// OptimizeDuration tracks backend generation latency per tone.
	OptimizeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "promptune_optimize_duration_seconds",
		Help:    "Time spent waiting on the inference backend.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"tone"})

	// OptimizeErrors counts failed optimizations by error kind.
	OptimizeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptune_optimize_errors_total",
		Help: "Failed optimizations by kind (invalid_input, unreachable, backend).",
	}, []string{"kind"})

	// InputChars tracks the distribution of prompt lengths.
	InputChars = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "promptune_input_chars",
		Help:    "Number of characters in the prompt to optimize.",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})

	// BackendAvailable is 1 when the last readiness check reached the backend
	// and found the model installed.
	BackendAvailable = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "promptune_backend_available",
		Help: "Whether the inference backend is ready (1) or not (0).",
	}, []string{"model"})
)
