// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuestionsRouted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokemon_questions_routed_total",
			Help: "Questions dispatched, by the handler category that answered them",
		},
		[]string{"category"},
	)

	RouterFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokemon_router_fallbacks_total",
			Help: "Questions redirected to the research handler, by reason",
		},
		[]string{"reason"},
	)

	RouteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pokemon_route_duration_seconds",
			Help:    "End to end question routing duration",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"category"},
	)

	PokeAPIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokeapi_requests_total",
			Help: "Knowledge source lookups by outcome",
		},
		[]string{"status"},
	)

	PokeAPIDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pokeapi_request_duration_seconds",
			Help:    "Knowledge source lookup duration",
			Buckets: prometheus.DefBuckets,
		},
	)

	LLMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Language model calls by provider, model and status",
		},
		[]string{"provider", "model", "status"},
	)

	LLMDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "Language model call duration",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"provider", "model"},
	)

	BattleVerdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokemon_battle_verdicts_total",
			Help: "Battle predictions by outcome (decided or undetermined)",
		},
		[]string{"outcome"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP API requests by route and status code",
		},
		[]string{"method", "route", "status"},
	)

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
