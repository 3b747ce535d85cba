// internal/workers/testcases/calculate-risk-score/models.go
package calculateriskscore

import "testcase-ranker/internal/models"

type Input struct {
	TestCases []models.TestCase `json:"testCases"`
}

type Output struct {
	ScoredTestCases []models.ScoredTestCase `json:"scoredTestCases"`
	RiskSummary     models.RiskSummary      `json:"riskSummary"`
}
