// internal/workers/testcases/order-execution/handler.go
package orderexecution

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"testcase-ranker/internal/common/errors"
	"testcase-ranker/internal/common/logger"
	"testcase-ranker/internal/common/metrics"
	"testcase-ranker/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = registry.TaskOrderExecution
)

type Handler struct {
	config     *Config
	logger     logger.Logger
	errHandler *errors.ErrorHandler
	activity   *registry.Activity
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	activity, _ := registry.Default().Find(TaskType)
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		logger:     l,
		errHandler: errors.NewErrorHandler(l),
		activity:   activity,
	}
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

// Execute orders the scored test cases. The accepted position is recovered
// from the TC-### sequence, falling back to array position.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	for i := range input.ScoredTestCases {
		input.ScoredTestCases[i].InputIndex = acceptedIndex(input.ScoredTestCases[i].TestID, i)
	}

	ordered := Order(input.ScoredTestCases)

	if len(ordered) > 0 {
		h.logger.Info("execution order assigned", map[string]interface{}{
			"count":     len(ordered),
			"firstId":   ordered[0].TestID,
			"topScore":  ordered[0].RiskScore,
			"lastScore": ordered[len(ordered)-1].RiskScore,
		})
	}

	return &Output{OrderedTestCases: ordered}, nil
}

func acceptedIndex(testID string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimPrefix(testID, "TC-"))
	if err != nil || n < 1 {
		return fallback
	}
	return n - 1
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
