// internal/workers/testcases/order-execution/models.go
package orderexecution

import "testcase-ranker/internal/models"

type Input struct {
	ScoredTestCases []models.ScoredTestCase `json:"scoredTestCases"`
}

type Output struct {
	OrderedTestCases []models.ScoredTestCase `json:"orderedTestCases"`
}
