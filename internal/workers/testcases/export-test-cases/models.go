// internal/workers/testcases/export-test-cases/models.go
package exporttestcases

import "testcase-ranker/internal/models"

type Input struct {
	OrderedTestCases []models.ScoredTestCase `json:"orderedTestCases"`
	Rejections       []models.Rejection      `json:"rejections,omitempty"`
	RunID            string                  `json:"runId,omitempty"`
	OutputDir        string                  `json:"outputDir,omitempty"`
	BaseName         string                  `json:"baseName,omitempty"`
}

type Output struct {
	Files    []ExportResult  `json:"files"`
	Metadata models.Metadata `json:"metadata"`
}
