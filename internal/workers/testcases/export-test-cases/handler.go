// internal/workers/testcases/export-test-cases/handler.go
package exporttestcases

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
	TaskType = registry.TaskExportTestCases
)

type Handler struct {
	config     *Config
	logger     logger.Logger
	errHandler *errors.ErrorHandler
	activity   *registry.Activity
	now        func() time.Time
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	activity, _ := registry.Default().Find(TaskType)
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		logger:     l,
		errHandler: errors.NewErrorHandler(l),
		activity:   activity,
		now:        time.Now,
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

// Execute builds the export document and writes it. The job may override the
// configured output directory and base name.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	outputDir := h.config.OutputDir
	if input.OutputDir != "" {
		outputDir = input.OutputDir
	}
	baseName := h.config.BaseName
	if input.BaseName != "" {
		baseName = input.BaseName
	}

	doc := BuildDocument(input.OrderedTestCases, input.Rejections, BuildOptions{
		RunID:       input.RunID,
		GeneratedBy: h.config.GeneratedBy,
		Now:         h.now(),
	})

	files, err := NewExporter(outputDir, baseName, h.config.Formats, h.logger).Export(ctx, doc)
	if err != nil {
		return nil, err
	}

	h.logger.Info("test cases exported", map[string]interface{}{
		"testCases":  doc.Metadata.TotalTestCases,
		"rejections": doc.Metadata.TotalRejected,
		"files":      len(files),
	})

	return &Output{Files: files, Metadata: doc.Metadata}, nil
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
