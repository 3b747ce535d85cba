// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"time"

	"testcase-ranker/internal/common/aws"
	"testcase-ranker/internal/common/config"
	"testcase-ranker/internal/common/errors"
	"testcase-ranker/internal/common/logger"
	"testcase-ranker/internal/common/metrics"
	"testcase-ranker/internal/common/observability"
	"testcase-ranker/internal/models"
	"testcase-ranker/internal/source"
	calculateriskscore "testcase-ranker/internal/workers/testcases/calculate-risk-score"
	exporttestcases "testcase-ranker/internal/workers/testcases/export-test-cases"
	orderexecution "testcase-ranker/internal/workers/testcases/order-execution"
	validatetestcases "testcase-ranker/internal/workers/testcases/validate-test-cases"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const (
	StatusSuccess = validatetestcases.StatusSuccess
	StatusNoInput = validatetestcases.StatusNoInput
)

// Notifier announces a finished export.
type Notifier interface {
	Notify(ctx context.Context, ev aws.ExportEvent) error
}

type Options struct {
	Validation  validatetestcases.Options
	Scoring     config.ScoringConfig
	OutputDir   string // empty disables writing
	BaseName    string
	Formats     []exporttestcases.Format
	GeneratedBy string
}

// Result holds everything one run produced.
type Result struct {
	RunID      string
	Status     string
	Document   *models.Document
	Rejections []models.Rejection // includes the raw records
	Files      []exporttestcases.ExportResult
	Err        error
}

// Pipeline runs validate, score, order and export in process. It holds only
// immutable configuration and may serve concurrent runs.
type Pipeline struct {
	opts     Options
	scorer   *calculateriskscore.Scorer
	notifier Notifier
	obs      *observability.Observability
	logger   logger.Logger
	now      func() time.Time
}

type Option func(*Pipeline)

func WithNotifier(n Notifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

func WithObservability(o *observability.Observability) Option {
	return func(p *Pipeline) { p.obs = o }
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New validates the scoring configuration and builds a pipeline.
func New(opts Options, log logger.Logger, options ...Option) (*Pipeline, error) {
	scorer, err := calculateriskscore.NewScorer(opts.Scoring)
	if err != nil {
		return nil, err
	}
	p := &Pipeline{
		opts:   opts,
		scorer: scorer,
		logger: log,
		now:    time.Now,
	}
	for _, o := range options {
		o(p)
	}
	return p, nil
}

// OptionsFromConfig maps the loaded configuration onto pipeline options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	formats, err := exporttestcases.ParseFormats(cfg.Export.Formats)
	if err != nil {
		return Options{}, errors.NewConfigurationError("export.formats", err.Error())
	}
	return Options{
		Validation:  validatetestcases.Options{DeriveComplexityFromSteps: cfg.Validation.DeriveComplexityFromSteps},
		Scoring:     cfg.Scoring,
		OutputDir:   cfg.Export.OutputDir,
		BaseName:    cfg.Export.BaseName,
		Formats:     formats,
		GeneratedBy: cfg.Export.GeneratedBy,
	}, nil
}

// Run fetches candidates from src and processes them. A source failure is
// reported through Result.Status and Result.Err, not the error return.
func (p *Pipeline) Run(ctx context.Context, src source.CandidateSource) (*Result, error) {
	runID := uuid.New().String()
	start := time.Now()

	ctx, span := p.obs.StartSpan(ctx, "pipeline.run", attribute.String("runId", runID))
	defer span.End()

	log := p.logger.WithFields(map[string]interface{}{"runId": runID})

	fetchCtx, fetchSpan := p.obs.StartSpan(ctx, "pipeline.fetch", attribute.String("source", src.Name()))
	candidates, err := src.Fetch(fetchCtx)
	fetchSpan.End()
	if err != nil {
		if !errors.IsCode(err, errors.ErrCodeUpstreamFailure) {
			err = errors.NewUpstreamFailureError(src.Name(), err)
		}
		log.Warn("no input from source", map[string]interface{}{
			"source": src.Name(),
			"error":  err,
		})
		res := &Result{RunID: runID, Status: StatusNoInput, Err: err}
		p.finish(ctx, start, res, nil)
		return res, nil
	}

	res, err := p.process(ctx, runID, candidates, log)
	p.finish(ctx, start, res, err)
	return res, err
}

// Process runs the stages over an in-memory candidate batch.
func (p *Pipeline) Process(ctx context.Context, candidates []models.Candidate) (*Result, error) {
	runID := uuid.New().String()
	start := time.Now()
	ctx, span := p.obs.StartSpan(ctx, "pipeline.run", attribute.String("runId", runID))
	defer span.End()

	res, err := p.process(ctx, runID, candidates, p.logger.WithFields(map[string]interface{}{"runId": runID}))
	p.finish(ctx, start, res, err)
	return res, err
}

func (p *Pipeline) process(ctx context.Context, runID string, candidates []models.Candidate, log logger.Logger) (*Result, error) {
	if len(candidates) == 0 {
		err := errors.NewUpstreamFailureError("parser", nil)
		log.Warn("no candidates to process", nil)
		return &Result{RunID: runID, Status: StatusNoInput, Err: err}, nil
	}

	var validated validatetestcases.Result
	p.stage(ctx, "validate", func() {
		validated = validatetestcases.Validate(candidates, p.opts.Validation)
	})
	metrics.CandidatesProcessed.WithLabelValues("accepted").Add(float64(len(validated.Accepted)))
	metrics.CandidatesProcessed.WithLabelValues("rejected").Add(float64(len(validated.Rejected)))
	for _, r := range validated.Rejected {
		log.Warn("candidate rejected", map[string]interface{}{
			"index":  r.Index,
			"title":  r.Title,
			"reason": r.Reason,
		})
	}

	var scored []models.ScoredTestCase
	p.stage(ctx, "score", func() {
		scored = p.scorer.ScoreAll(validated.Accepted)
	})
	for _, tc := range scored {
		metrics.RiskScore.Observe(tc.RiskScore)
		metrics.RiskCategoryAssigned.WithLabelValues(string(tc.RiskCategory)).Inc()
	}

	var ordered []models.ScoredTestCase
	p.stage(ctx, "order", func() {
		ordered = orderexecution.Order(scored)
	})

	doc := exporttestcases.BuildDocument(ordered, validated.Rejected, exporttestcases.BuildOptions{
		RunID:       runID,
		GeneratedBy: p.opts.GeneratedBy,
		Now:         p.now(),
	})
	if got := doc.Metadata.TotalTestCases + doc.Metadata.TotalRejected; got != len(candidates) {
		return nil, errors.NewInternalError(fmt.Errorf("accounted for %d of %d candidates", got, len(candidates)))
	}

	res := &Result{
		RunID:      runID,
		Status:     StatusSuccess,
		Document:   &doc,
		Rejections: validated.Rejected,
	}

	log.Info("test cases ranked", map[string]interface{}{
		"accepted": doc.Metadata.TotalTestCases,
		"rejected": doc.Metadata.TotalRejected,
		"critical": doc.Metadata.RiskSummary.Critical,
		"high":     doc.Metadata.RiskSummary.High,
		"medium":   doc.Metadata.RiskSummary.Medium,
		"low":      doc.Metadata.RiskSummary.Low,
	})

	if p.opts.OutputDir == "" {
		return res, nil
	}

	var exportErr error
	p.stage(ctx, "export", func() {
		exporter := exporttestcases.NewExporter(p.opts.OutputDir, p.opts.BaseName, p.opts.Formats, log)
		res.Files, exportErr = exporter.Export(ctx, doc)
	})
	if exportErr != nil {
		res.Err = exportErr
		log.Error("export failed", map[string]interface{}{"error": exportErr})
		return res, exportErr
	}

	p.notify(ctx, res, log)
	return res, nil
}

// notify is best effort; failures are logged only.
func (p *Pipeline) notify(ctx context.Context, res *Result, log logger.Logger) {
	if p.notifier == nil || len(res.Files) == 0 {
		return
	}
	paths := make([]string, len(res.Files))
	for i, f := range res.Files {
		paths[i] = f.Path
	}
	err := p.notifier.Notify(ctx, aws.ExportEvent{
		RunID:    res.RunID,
		Metadata: res.Document.Metadata,
		Files:    paths,
	})
	if err != nil {
		log.Warn("export notification failed", map[string]interface{}{"error": err})
	}
}

func (p *Pipeline) stage(ctx context.Context, name string, fn func()) {
	start := time.Now()
	_, span := p.obs.StartSpan(ctx, "pipeline."+name)
	fn()
	span.End()
	p.obs.RecordStage(ctx, name, time.Since(start))
}

func (p *Pipeline) finish(ctx context.Context, start time.Time, res *Result, err error) {
	status := "failed"
	if err == nil && res != nil {
		status = res.Status
	}
	metrics.PipelineRuns.WithLabelValues(status).Inc()
	p.obs.RecordRun(ctx, time.Since(start), status)
}
