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

	CandidatesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "testcases_candidates_total",
			Help: "Candidate records seen by the validator, by outcome",
		},
		[]string{"outcome"},
	)

	RiskCategoryAssigned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "testcases_risk_category_total",
			Help: "Scored test cases by risk category",
		},
		[]string{"category"},
	)

	RiskScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "testcases_risk_score",
			Help:    "Distribution of computed risk scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	ExportsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "testcases_exports_total",
			Help: "Export file writes by format and status",
		},
		[]string{"format", "status"},
	)

	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "testcases_pipeline_runs_total",
			Help: "Pipeline runs by final status",
		},
		[]string{"status"},
	)
)

// ObserveJob records the outcome of one worker job.
func ObserveJob(taskType, errorCode string, seconds float64) {
	WorkerJobDuration.WithLabelValues(taskType).Observe(seconds)
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		return
	}
	WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
}
