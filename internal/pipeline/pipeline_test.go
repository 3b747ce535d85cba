// internal/pipeline/pipeline_test.go
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"testcase-ranker/internal/common/aws"
	"testcase-ranker/internal/common/config"
	"testcase-ranker/internal/common/errors"
	"testcase-ranker/internal/common/logger"
	"testcase-ranker/internal/models"
	exporttestcases "testcase-ranker/internal/workers/testcases/export-test-cases"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	candidates []models.Candidate
	err        error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Fetch(ctx context.Context) ([]models.Candidate, error) {
	return s.candidates, s.err
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []aws.ExportEvent
	err    error
}

func (n *recordingNotifier) Notify(ctx context.Context, ev aws.ExportEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return n.err
}

var fixedNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func candidate(title, priority, testType string, components []interface{}, complexity float64) models.Candidate {
	return models.Candidate{
		"title":           title,
		"test_steps":      []interface{}{"step one"},
		"expected_result": "works",
		"priority":        priority,
		"test_type":       testType,
		"components":      components,
		"complexity":      complexity,
	}
}

func scenario() []models.Candidate {
	return []models.Candidate{
		candidate("C1", "Critical", "Security", []interface{}{"auth", "db"}, 5),
		candidate("C2", "Low", "Functional", []interface{}{}, 1),
		candidate("C3", "High", "Performance", []interface{}{"api"}, 3),
	}
}

func newPipeline(t *testing.T, outputDir string, options ...Option) *Pipeline {
	t.Helper()
	opts := Options{
		Scoring:   config.DefaultScoringConfig(),
		OutputDir: outputDir,
		BaseName:  "testcases_final",
		Formats:   []exporttestcases.Format{exporttestcases.FormatJSON, exporttestcases.FormatYAML},
	}
	p, err := New(opts, logger.NewTestLogger(t), append([]Option{WithClock(func() time.Time { return fixedNow })}, options...)...)
	require.NoError(t, err)
	return p
}

func titles(doc *models.Document) []string {
	out := make([]string, len(doc.TestCases))
	for i, tc := range doc.TestCases {
		out[i] = tc.Title
	}
	return out
}

func TestPipeline_Run(t *testing.T) {
	dir := t.TempDir()
	notifier := &recordingNotifier{}
	p := newPipeline(t, dir, WithNotifier(notifier))

	res, err := p.Run(context.Background(), &stubSource{candidates: scenario()})
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, res.Status)
	assert.NoError(t, res.Err)
	assert.NotEmpty(t, res.RunID)

	doc := res.Document
	require.NotNil(t, doc)
	assert.Equal(t, []string{"C1", "C3", "C2"}, titles(doc))
	assert.Equal(t, []float64{88, 64.5, 22}, []float64{doc.TestCases[0].RiskScore, doc.TestCases[1].RiskScore, doc.TestCases[2].RiskScore})
	assert.Equal(t, []string{"TC-001", "TC-003", "TC-002"}, []string{doc.TestCases[0].TestID, doc.TestCases[1].TestID, doc.TestCases[2].TestID})
	assert.Equal(t, models.RiskSummary{Critical: 1, High: 1, Low: 1}, doc.Metadata.RiskSummary)
	assert.Equal(t, res.RunID, doc.Metadata.RunID)
	assert.Equal(t, "2026-10-17T09:30:00Z", doc.Metadata.ExportDate)

	require.Len(t, res.Files, 2)
	for _, f := range res.Files {
		read, _, err := exporttestcases.ReadDocument(f.Path)
		require.NoError(t, err)
		assert.Equal(t, *doc, *read)
	}

	require.Len(t, notifier.events, 1)
	assert.Equal(t, res.RunID, notifier.events[0].RunID)
	assert.Equal(t, []string{res.Files[0].Path, res.Files[1].Path}, notifier.events[0].Files)
}

func TestPipeline_Run_SourceFailure(t *testing.T) {
	dir := t.TempDir()
	notifier := &recordingNotifier{}
	p := newPipeline(t, dir, WithNotifier(notifier))

	tests := []struct {
		name string
		src  *stubSource
	}{
		{"source error", &stubSource{err: fmt.Errorf("parser crashed")}},
		{"upstream failure passes through", &stubSource{err: errors.NewUpstreamFailureError("genai", fmt.Errorf("quota"))}},
		{"no candidates", &stubSource{candidates: []models.Candidate{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.Run(context.Background(), tt.src)
			require.NoError(t, err)

			assert.Equal(t, StatusNoInput, res.Status)
			assert.Nil(t, res.Document)
			assert.True(t, errors.IsCode(res.Err, errors.ErrCodeUpstreamFailure))
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is written without input")
	assert.Empty(t, notifier.events)
}

func TestPipeline_Process_AllRejected(t *testing.T) {
	p := newPipeline(t, "")

	res, err := p.Process(context.Background(), []models.Candidate{
		{"title": "", "test_steps": []interface{}{"s"}, "expected_result": "r"},
		{"title": "no steps", "expected_result": "r"},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, res.Status)
	assert.Empty(t, res.Document.TestCases)
	assert.Equal(t, 2, res.Document.Metadata.TotalRejected)
	require.Len(t, res.Rejections, 2)
	assert.NotNil(t, res.Rejections[0].Record, "result keeps the raw record")
	assert.Nil(t, res.Document.Rejections[0].Record)
	assert.Empty(t, res.Files)
}

func TestPipeline_Process_AccountsForEveryCandidate(t *testing.T) {
	p := newPipeline(t, "")

	var batch []models.Candidate
	for i := 0; i < 40; i++ {
		c := candidate(fmt.Sprintf("case %d", i), "High", "Integration", []interface{}{"api"}, float64(i%5+1))
		switch i % 7 {
		case 0:
			c["title"] = "   "
		case 3:
			delete(c, "expected_result")
		case 5:
			c["priority"] = "urgent"
		}
		batch = append(batch, c)
	}

	res, err := p.Process(context.Background(), batch)
	require.NoError(t, err)

	m := res.Document.Metadata
	assert.Equal(t, len(batch), m.TotalTestCases+m.TotalRejected)
	assert.Equal(t, m.TotalTestCases, m.RiskSummary.Total())
	for i, tc := range res.Document.TestCases {
		assert.Equal(t, i+1, tc.ExecutionOrder)
	}
}

func TestPipeline_NotificationFailureDoesNotFailRun(t *testing.T) {
	notifier := &recordingNotifier{err: errors.NewNotificationSendFailedError("sns", fmt.Errorf("denied"))}
	p := newPipeline(t, t.TempDir(), WithNotifier(notifier))

	res, err := p.Run(context.Background(), &stubSource{candidates: scenario()})

	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.NoError(t, res.Err)
	assert.Len(t, notifier.events, 1)
}

func TestPipeline_ExportFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	notifier := &recordingNotifier{}
	p := newPipeline(t, filepath.Join(blocker, "out"), WithNotifier(notifier))

	res, err := p.Run(context.Background(), &stubSource{candidates: scenario()})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeExportFailed))
	require.NotNil(t, res)
	assert.Equal(t, err, res.Err)
	assert.Empty(t, notifier.events)
}

func TestPipeline_ConcurrentRunsAreIndependent(t *testing.T) {
	p := newPipeline(t, "")

	var wg sync.WaitGroup
	results := make([]*Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			batch := scenario()[:i%3+1]
			res, err := p.Process(context.Background(), batch)
			if assert.NoError(t, err) {
				results[i] = res
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i, res := range results {
		require.NotNil(t, res)
		assert.Len(t, res.Document.TestCases, i%3+1)
		assert.False(t, seen[res.RunID])
		seen[res.RunID] = true
	}
}

func TestNew_InvalidScoring(t *testing.T) {
	scoring := config.DefaultScoringConfig()
	scoring.Thresholds.High = 90

	_, err := New(Options{Scoring: scoring}, logger.NewNoOpLogger())

	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigurationInvalid))
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Export.Formats = []string{"yml"}
	cfg.Validation.DeriveComplexityFromSteps = true

	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, []exporttestcases.Format{exporttestcases.FormatYAML}, opts.Formats)
	assert.True(t, opts.Validation.DeriveComplexityFromSteps)
	assert.Equal(t, "data/outputs", opts.OutputDir)

	cfg.Export.Formats = []string{"csv"}
	_, err = OptionsFromConfig(cfg)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigurationInvalid))
}
