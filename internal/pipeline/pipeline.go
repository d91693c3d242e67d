// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"storefront-insights/internal/agent/intent"
	"storefront-insights/internal/agent/planner"
	"storefront-insights/internal/agent/queryplan"
	"storefront-insights/internal/answer"
	"storefront-insights/internal/common/apperrors"
	"storefront-insights/internal/common/logger"
	"storefront-insights/internal/common/metrics"
	"storefront-insights/internal/common/observability"
	"storefront-insights/internal/models"
	"storefront-insights/internal/store"
)

// Stage names a pipeline state. Transitions run strictly forward;
// any stage can move to Failed.
type Stage string

const (
	StageClassifying         Stage = "classifying"
	StagePlanning            Stage = "planning"
	StageQueryGenerating     Stage = "query_generating"
	StageValidatingExecuting Stage = "validating_executing"
	StageFormatting          Stage = "formatting"
)

// AlertPublisher raises out-of-band stockout alerts. Optional.
type AlertPublisher interface {
	PublishStockouts(ctx context.Context, risks []models.RiskRow) error
}

// QueryGenerator renders an intent and plan into query text.
type QueryGenerator interface {
	Generate(intent models.Intent, plan models.Plan) string
}

// QueryValidator statically checks query text before execution.
type QueryValidator interface {
	Validate(query string) models.Validation
}

// Pipeline sequences classification, planning, query generation,
// validation, execution and answer synthesis for one question at a time.
// It holds no per-request state.
type Pipeline struct {
	classifier  intent.Classifier
	generator   QueryGenerator
	validator   QueryValidator
	executor    store.Executor
	synthesizer *answer.Synthesizer
	alerts      AlertPublisher
	obs         *observability.Observability
	logger      logger.Logger
}

// Options carries the optional collaborators.
type Options struct {
	Alerts        AlertPublisher
	Observability *observability.Observability
}

// New wires a pipeline from its stage collaborators.
func New(classifier intent.Classifier, executor store.Executor, synthesizer *answer.Synthesizer, log logger.Logger, opts Options) *Pipeline {
	return &Pipeline{
		classifier:  classifier,
		generator:   queryplan.NewGenerator(),
		validator:   queryplan.NewValidator(),
		executor:    executor,
		synthesizer: synthesizer,
		alerts:      opts.Alerts,
		obs:         opts.Observability,
		logger:      log.With(map[string]interface{}{"component": "pipeline"}),
	}
}

// Run answers one question. The returned error is always a
// *apperrors.PipelineError.
func (p *Pipeline) Run(ctx context.Context, question string) (*models.QueryResponse, error) {
	start := time.Now()
	requestID := uuid.NewString()
	log := p.logger.With(map[string]interface{}{"requestId": requestID})

	log.Info("answering question", map[string]interface{}{"question": question})

	// Classifying
	stageStart := time.Now()
	classified, err := p.classifier.Classify(ctx, question)
	p.observeStage(StageClassifying, stageStart)
	if err != nil {
		return nil, p.fail(ctx, log, StageClassifying, apperrors.NewClassificationFailed(err), start)
	}
	log.Info("intent classified", map[string]interface{}{"category": string(classified.Category)})

	// Planning
	stageStart = time.Now()
	plan := planner.Plan(classified)
	p.observeStage(StagePlanning, stageStart)
	log.Info("data sources planned", map[string]interface{}{"dataSources": plan.DataSources})

	// QueryGenerating
	stageStart = time.Now()
	query := p.generator.Generate(classified, plan)
	p.observeStage(StageQueryGenerating, stageStart)
	log.Debug("query generated", map[string]interface{}{"query": query})

	// ValidatingExecuting
	stageStart = time.Now()
	validation := p.validator.Validate(query)
	if !validation.Passed {
		p.observeStage(StageValidatingExecuting, stageStart)
		return nil, p.fail(ctx, log, StageValidatingExecuting, apperrors.NewQueryValidationRejected(validation.Reason), start)
	}

	result, err := p.executor.Execute(ctx, query, classified)
	p.observeStage(StageValidatingExecuting, stageStart)
	if err != nil {
		return nil, p.fail(ctx, log, StageValidatingExecuting, apperrors.NewExecutionFailed(err), start)
	}
	log.Info("query executed", map[string]interface{}{"rows": result.RowCount()})

	if p.alerts != nil && result.Kind == models.ResultStockoutRisks {
		// Best effort, same swallow policy as enhancement.
		if err := p.alerts.PublishStockouts(ctx, result.Risks); err != nil {
			log.Warn("stockout alerts not delivered", map[string]interface{}{"error": err.Error()})
		}
	}

	// Formatting
	stageStart = time.Now()
	answerResult, enhanced := p.synthesizer.Format(ctx, question, classified, result)
	p.observeStage(StageFormatting, stageStart)

	processing := time.Since(start)
	completeness := 0.0
	if result.RowCount() > 0 {
		completeness = 1.0
	}

	response := &models.QueryResponse{
		Question:    question,
		Answer:      answerResult.Text,
		Confidence:  answerResult.Confidence,
		Query:       query,
		DataSources: plan.DataSources,
		Enhanced:    enhanced,
		Metadata: models.ResponseMetadata{
			RequestID:    requestID,
			Category:     classified.Category,
			Metrics:      classified.Metrics,
			Entities:     classified.Entities,
			TimePeriod:   classified.TimePeriod,
			Plan:         plan,
			Validation:   validation,
			RowsReturned: result.RowCount(),
			Completeness: completeness,
			ProcessingMs: processing.Milliseconds(),
			Timestamp:    time.Now().UTC(),
		},
	}

	metrics.PipelineRunsCompleted.WithLabelValues(string(classified.Category)).Inc()
	if p.obs != nil {
		p.obs.RecordRun(ctx, "completed")
		p.obs.RecordRunDuration(ctx, processing, "completed")
	}

	log.Info("question answered", map[string]interface{}{
		"confidence":   string(answerResult.Confidence),
		"processingMs": processing.Milliseconds(),
	})
	return response, nil
}

func (p *Pipeline) fail(ctx context.Context, log logger.Logger, stage Stage, perr *apperrors.PipelineError, start time.Time) error {
	perr.Stage = string(stage)

	metrics.PipelineRunsFailed.WithLabelValues(string(stage), string(perr.Code)).Inc()
	if p.obs != nil {
		p.obs.RecordRun(ctx, "failed")
		p.obs.RecordRunDuration(ctx, time.Since(start), "failed")
	}

	log.Error("pipeline failed", map[string]interface{}{
		"stage":      string(stage),
		"code":       string(perr.Code),
		"details":    perr.Details,
		"userFacing": perr.UserFacing,
	})
	return perr
}

func (p *Pipeline) observeStage(stage Stage, start time.Time) {
	metrics.PipelineStageDuration.WithLabelValues(string(stage)).Observe(time.Since(start).Seconds())
}
