// internal/workers/testcases/validate-test-cases/models.go
package validatetestcases

import "testcase-ranker/internal/models"

const (
	StatusSuccess = "success"
	StatusNoInput = "no_input"
)

type Input struct {
	Candidates []models.Candidate `json:"candidates"`
	// UpstreamError is set by the parser task when it produced nothing usable.
	UpstreamError string `json:"upstreamError,omitempty"`
}

type Output struct {
	Status        string             `json:"status"`
	TestCases     []models.TestCase  `json:"testCases"`
	Rejections    []models.Rejection `json:"rejections"`
	AcceptedCount int                `json:"acceptedCount"`
	RejectedCount int                `json:"rejectedCount"`
}
