// internal/workers/testcases/validate-test-cases/handler.go
package validatetestcases

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"testcase-ranker/internal/common/errors"
	"testcase-ranker/internal/common/logger"
	"testcase-ranker/internal/common/metrics"
	"testcase-ranker/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = registry.TaskValidateTestCases
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

// Execute validates the candidates in input. An upstream failure signal or an
// empty candidate list yields an UPSTREAM_FAILURE error.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.UpstreamError != "" {
		return nil, errors.NewUpstreamFailureError("parser", fmt.Errorf("%s", input.UpstreamError))
	}
	if len(input.Candidates) == 0 {
		return nil, errors.NewUpstreamFailureError("parser", nil)
	}

	res := Validate(input.Candidates, h.config.options())

	metrics.CandidatesProcessed.WithLabelValues("accepted").Add(float64(len(res.Accepted)))
	metrics.CandidatesProcessed.WithLabelValues("rejected").Add(float64(len(res.Rejected)))

	for _, r := range res.Rejected {
		h.logger.Warn("candidate rejected", map[string]interface{}{
			"index":  r.Index,
			"title":  r.Title,
			"reason": r.Reason,
		})
	}

	h.logger.Info("candidates validated", map[string]interface{}{
		"accepted": len(res.Accepted),
		"rejected": len(res.Rejected),
	})

	return &Output{
		Status:        StatusSuccess,
		TestCases:     res.Accepted,
		Rejections:    res.Rejected,
		AcceptedCount: len(res.Accepted),
		RejectedCount: len(res.Rejected),
	}, nil
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
