// internal/workers/testcases/order-execution/orderer_test.go
package orderexecution

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"testcase-ranker/internal/common/config"
	"testcase-ranker/internal/common/logger"
	"testcase-ranker/internal/models"
	calculateriskscore "testcase-ranker/internal/workers/testcases/calculate-risk-score"
	validatetestcases "testcase-ranker/internal/workers/testcases/validate-test-cases"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(id string, score float64, index int) models.ScoredTestCase {
	return models.ScoredTestCase{TestID: id, Title: id, RiskScore: score, InputIndex: index}
}

func ids(cases []models.ScoredTestCase) []string {
	out := make([]string, len(cases))
	for i, c := range cases {
		out[i] = c.TestID
	}
	return out
}

func TestOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    []models.ScoredTestCase
		expected []string
	}{
		{
			name:     "empty",
			input:    nil,
			expected: []string{},
		},
		{
			name:     "descending score",
			input:    []models.ScoredTestCase{scored("a", 10, 0), scored("b", 90, 1), scored("c", 50, 2)},
			expected: []string{"b", "c", "a"},
		},
		{
			name:     "ties keep input order",
			input:    []models.ScoredTestCase{scored("a", 50, 0), scored("b", 70, 1), scored("c", 50, 2), scored("d", 50, 3)},
			expected: []string{"b", "a", "c", "d"},
		},
		{
			name:     "ties resolved by input index not slice position",
			input:    []models.ScoredTestCase{scored("late", 50, 5), scored("early", 50, 1)},
			expected: []string{"early", "late"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Order(tt.input)

			assert.Equal(t, tt.expected, ids(out))
			for i, c := range out {
				assert.Equal(t, i+1, c.ExecutionOrder)
			}
			assert.True(t, IsOrdered(out))
		})
	}
}

func TestOrder_DoesNotMutateInput(t *testing.T) {
	input := []models.ScoredTestCase{scored("a", 10, 0), scored("b", 90, 1)}

	out := Order(input)

	assert.Equal(t, "a", input[0].TestID)
	assert.Zero(t, input[0].ExecutionOrder)
	assert.Equal(t, 10.0, out[1].RiskScore)
}

func TestOrder_PermutationAndDeterminism(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	input := make([]models.ScoredTestCase, 200)
	for i := range input {
		score := float64(rng.Intn(20)) * 5
		input[i] = scored(fmt.Sprintf("TC-%03d", i+1), score, i)
	}

	first := Order(input)
	second := Order(input)

	assert.Equal(t, first, second)
	assert.True(t, IsOrdered(first))

	seen := make(map[int]bool, len(first))
	for _, c := range first {
		assert.False(t, seen[c.ExecutionOrder], "duplicate order %d", c.ExecutionOrder)
		seen[c.ExecutionOrder] = true
		assert.GreaterOrEqual(t, c.ExecutionOrder, 1)
		assert.LessOrEqual(t, c.ExecutionOrder, len(first))
	}
}

func TestIsOrdered(t *testing.T) {
	bad := []models.ScoredTestCase{scored("a", 10, 0), scored("b", 90, 1)}
	bad[0].ExecutionOrder, bad[1].ExecutionOrder = 1, 2
	assert.False(t, IsOrdered(bad))

	gap := Order([]models.ScoredTestCase{scored("a", 10, 0), scored("b", 90, 1)})
	gap[1].ExecutionOrder = 3
	assert.False(t, IsOrdered(gap))
}

func TestStages_ThreeCandidateScenario(t *testing.T) {
	candidates := []models.Candidate{
		{"title": "C1", "test_steps": []interface{}{"s"}, "expected_result": "r", "priority": "Critical", "test_type": "Security", "components": []interface{}{"auth", "db"}, "complexity": float64(5)},
		{"title": "C2", "test_steps": []interface{}{"s"}, "expected_result": "r", "priority": "Low", "test_type": "Functional", "components": []interface{}{}, "complexity": float64(1)},
		{"title": "C3", "test_steps": []interface{}{"s"}, "expected_result": "r", "priority": "High", "test_type": "Performance", "components": []interface{}{"api"}, "complexity": float64(3)},
	}

	validated := validatetestcases.Validate(candidates, validatetestcases.Options{})
	require.Len(t, validated.Accepted, 3)

	scorer, err := calculateriskscore.NewScorer(config.DefaultScoringConfig())
	require.NoError(t, err)
	ordered := Order(scorer.ScoreAll(validated.Accepted))

	byTitle := make(map[string]models.ScoredTestCase)
	for _, c := range ordered {
		byTitle[c.Title] = c
	}
	assert.Equal(t, []int{1, 3, 2}, []int{
		byTitle["C1"].ExecutionOrder,
		byTitle["C2"].ExecutionOrder,
		byTitle["C3"].ExecutionOrder,
	})
	assert.Equal(t, models.RiskCritical, byTitle["C1"].RiskCategory)
	assert.Equal(t, models.RiskLow, byTitle["C2"].RiskCategory)
	assert.Equal(t, "TC-002", byTitle["C2"].TestID)
}

func TestHandler_Execute_RecoversInputIndexFromTestID(t *testing.T) {
	h := NewHandler(&Config{Timeout: 5 * time.Second}, logger.NewTestLogger(t))

	// Arrives shuffled; TC numbering is the accepted order.
	input := &Input{ScoredTestCases: []models.ScoredTestCase{
		scored("TC-003", 50, 0),
		scored("TC-001", 50, 0),
		scored("TC-002", 70, 0),
	}}

	output, err := h.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, []string{"TC-002", "TC-001", "TC-003"}, ids(output.OrderedTestCases))
}

func TestAcceptedIndex(t *testing.T) {
	assert.Equal(t, 0, acceptedIndex("TC-001", 9))
	assert.Equal(t, 41, acceptedIndex("TC-042", 9))
	assert.Equal(t, 9, acceptedIndex("custom", 9))
	assert.Equal(t, 9, acceptedIndex("TC-000", 9))
}
