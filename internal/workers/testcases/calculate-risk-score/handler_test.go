// internal/workers/testcases/calculate-risk-score/handler_test.go
package calculateriskscore

import (
	"context"
	"testing"
	"time"

	"testcase-ranker/internal/common/config"
	"testcase-ranker/internal/common/errors"
	"testcase-ranker/internal/common/logger"
	"testcase-ranker/internal/models"
	"testcase-ranker/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
		Scoring: config.DefaultScoringConfig(),
	}
}

func TestNewHandler_InvalidScoringConfig(t *testing.T) {
	cfg := createTestConfig()
	delete(cfg.Scoring.TestTypeScores, string(models.TestTypeSecurity))

	h, err := NewHandler(cfg, logger.NewTestLogger(t))

	assert.Nil(t, h)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigurationInvalid))
	assert.Contains(t, err.Error(), "Security")
}

func TestHandler_Execute(t *testing.T) {
	h, err := NewHandler(createTestConfig(), logger.NewTestLogger(t))
	require.NoError(t, err)

	input := &Input{TestCases: []models.TestCase{
		testCase(models.PriorityCritical, models.TestTypeSecurity, []string{"auth", "db"}, 5),
		testCase(models.PriorityLow, models.TestTypeFunctional, []string{}, 1),
		testCase(models.PriorityHigh, models.TestTypePerformance, []string{"api"}, 3),
	}}

	output, err := h.Execute(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, output.ScoredTestCases, 3)
	assert.Equal(t, []float64{88.0, 22.0, 64.5}, []float64{
		output.ScoredTestCases[0].RiskScore,
		output.ScoredTestCases[1].RiskScore,
		output.ScoredTestCases[2].RiskScore,
	})
	assert.Equal(t, models.RiskSummary{Critical: 1, High: 1, Low: 1}, output.RiskSummary)
	assert.Equal(t, 1, output.ScoredTestCases[1].InputIndex)

	activity, ok := registry.Default().Find(TaskType)
	require.True(t, ok)
	assert.NoError(t, activity.ValidateOutput(output))
}

func TestHandler_ExecuteEmpty(t *testing.T) {
	h, err := NewHandler(createTestConfig(), logger.NewNoOpLogger())
	require.NoError(t, err)

	output, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.Empty(t, output.ScoredTestCases)
	assert.Equal(t, 0, output.RiskSummary.Total())
}
