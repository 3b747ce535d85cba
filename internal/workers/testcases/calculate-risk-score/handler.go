// internal/workers/testcases/calculate-risk-score/handler.go
package calculateriskscore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"testcase-ranker/internal/common/errors"
	"testcase-ranker/internal/common/logger"
	"testcase-ranker/internal/common/metrics"
	"testcase-ranker/internal/models"
	"testcase-ranker/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = registry.TaskCalculateRiskScore
)

type Handler struct {
	config     *Config
	scorer     *Scorer
	logger     logger.Logger
	errHandler *errors.ErrorHandler
	activity   *registry.Activity
}

// NewHandler fails with a CONFIGURATION_INVALID error when the scoring tables
// are incomplete, so a misconfigured worker never starts.
func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	scorer, err := NewScorer(config.Scoring)
	if err != nil {
		return nil, err
	}
	activity, _ := registry.Default().Find(TaskType)
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		scorer:     scorer,
		logger:     l,
		errHandler: errors.NewErrorHandler(l),
		activity:   activity,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	if err := h.activity.ValidateInput(job.Variables); err != nil {
		h.fail(ctx, client, job, errors.NewInvalidInputError(err.Error()), start)
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(ctx, client, job, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)), start)
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, err, start)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.ObserveJob(TaskType, "", time.Since(start).Seconds())
}

// Execute scores the accepted test cases. Array position is the accepted
// order, since the input index does not travel in job variables.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	for i := range input.TestCases {
		input.TestCases[i].InputIndex = i
	}

	scored := h.scorer.ScoreAll(input.TestCases)

	var summary models.RiskSummary
	for _, sc := range scored {
		summary.Add(sc.RiskCategory)
		metrics.RiskScore.Observe(sc.RiskScore)
		metrics.RiskCategoryAssigned.WithLabelValues(string(sc.RiskCategory)).Inc()
	}

	h.logger.Info("risk scores calculated", map[string]interface{}{
		"count":    len(scored),
		"critical": summary.Critical,
		"high":     summary.High,
		"medium":   summary.Medium,
		"low":      summary.Low,
	})

	return &Output{
		ScoredTestCases: scored,
		RiskSummary:     summary,
	}, nil
}

// Scorer exposes the configured scorer.
func (h *Handler) Scorer() *Scorer {
	return h.scorer
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	code := string(errors.ErrCodeInternal)
	if stdErr, ok := errors.AsStandardError(err); ok {
		code = string(stdErr.Code)
	}
	metrics.ObserveJob(TaskType, code, time.Since(start).Seconds())
	h.errHandler.HandleJobError(ctx, client, job, err)
}
