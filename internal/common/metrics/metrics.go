// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

var (
	CompletionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_completion_requests_total",
			Help: "Completion calls by provider, mode and outcome",
		},
		[]string{"provider", "mode", "status"},
	)

	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_completion_duration_seconds",
			Help:    "Latency of completion calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"provider", "mode"},
	)

	GuardRegenerations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_guard_regenerations_total",
			Help: "Answers regenerated because they deflected instead of using the context",
		},
	)

	RetrievalFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_retrieval_failures_total",
			Help: "Record kind searches that failed during retrieval",
		},
		[]string{"kind"},
	)

	RetrievedItems = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_retrieved_items",
			Help:    "Items returned per record kind",
			Buckets: []float64{0, 1, 2, 3, 5, 10},
		},
		[]string{"kind", "mode"},
	)

	StructuredFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_structured_fallbacks_total",
			Help: "Structured generations that fell back to defaults after invalid model output",
		},
		[]string{"operation"},
	)
)
