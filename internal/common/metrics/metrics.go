// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRunsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_completed_total",
			Help: "Total number of question pipelines completed",
		},
		[]string{"category"},
	)

	PipelineRunsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_failed_total",
			Help: "Total number of question pipelines failed",
		},
		[]string{"stage", "error_code"},
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_stage_duration_seconds",
			Help: "Duration of each pipeline stage in seconds",
		},
		[]string{"stage"},
	)

	AnswersByConfidence = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "answers_by_confidence_total",
			Help: "Synthesized answers partitioned by confidence grade",
		},
		[]string{"confidence"},
	)

	EnhancementOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "answer_enhancement_outcomes_total",
			Help: "Answer enhancement attempts by outcome (applied or skipped)",
		},
		[]string{"outcome"},
	)
)
