// Package metrics exposes Prometheus instrumentation for the generation
// pipeline. Metrics are registered once at package load; handlers and the
// coordinator record through the helper functions rather than touching
// collectors directly.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ProjectsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "genforge_projects_submitted_total",
			Help: "Total number of generation requests accepted",
		},
	)
	StatusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genforge_status_transitions_total",
			Help: "Number of project status transitions",
		},
		[]string{"from", "to"},
	)
	GenerationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "genforge_generation_duration_seconds",
			Help:    "Histogram of end-to-end generation durations in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1s..512s
		},
	)
	GenerationOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genforge_generation_outcomes_total",
			Help: "Generation outcomes by kind",
		},
		[]string{"kind"}, // kind: success|degraded|failure
	)
	BackendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genforge_backend_requests_total",
			Help: "Backend calls by backend name and result",
		},
		[]string{"backend", "result"},
	)
	FallbacksServed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "genforge_fallbacks_served_total",
			Help: "Number of degraded results served with fallback artifacts",
		},
	)
	StuckGenerating = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "genforge_stuck_generating",
			Help: "Projects observed in generating past the staleness threshold",
		},
	)
	TerminalWriteRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "genforge_terminal_write_retries_total",
			Help: "Retried terminal store writes after transient store failures",
		},
	)
	TerminalWriteAbandoned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "genforge_terminal_write_abandoned_total",
			Help: "Terminal store writes abandoned after exhausting retries",
		},
	)
	Errors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genforge_errors_total",
			Help: "Errors encountered in components",
		},
		[]string{"component", "type"},
	)
)

func init() {
	prometheus.MustRegister(
		ProjectsSubmitted,
		StatusTransitions,
		GenerationDurationSeconds,
		GenerationOutcomes,
		BackendRequests,
		FallbacksServed,
		StuckGenerating,
		TerminalWriteRetries,
		TerminalWriteAbandoned,
		Errors,
	)
}

func IncProjectsSubmitted() {
	ProjectsSubmitted.Inc()
}

func IncStatusTransition(from, to string) {
	StatusTransitions.WithLabelValues(from, to).Inc()
}

func ObserveGenerationDuration(d time.Duration) {
	GenerationDurationSeconds.Observe(d.Seconds())
}

func IncGenerationOutcome(kind string) {
	GenerationOutcomes.WithLabelValues(kind).Inc()
}

func IncBackendRequest(backend, result string) {
	BackendRequests.WithLabelValues(backend, result).Inc()
}

func IncFallbackServed() {
	FallbacksServed.Inc()
}

func SetStuckGenerating(n int) {
	StuckGenerating.Set(float64(n))
}

func IncTerminalWriteRetry() {
	TerminalWriteRetries.Inc()
}

func IncTerminalWriteAbandoned() {
	TerminalWriteAbandoned.Inc()
}

func IncError(component, typ string) {
	Errors.WithLabelValues(component, typ).Inc()
}
