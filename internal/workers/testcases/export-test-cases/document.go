// internal/workers/testcases/export-test-cases/document.go
package exporttestcases

import (
	"time"

	"testcase-ranker/internal/models"
)

// BuildOptions carries the run-level metadata stamped into a document.
type BuildOptions struct {
	RunID       string
	GeneratedBy string
	Now         time.Time
}

// BuildDocument assembles the canonical export from ordered test cases and
// the validator's rejections. Fields that do not travel in the encodings
// are cleared so that a decoded document compares equal to the original.
func BuildDocument(ordered []models.ScoredTestCase, rejections []models.Rejection, opts BuildOptions) models.Document {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	generatedBy := opts.GeneratedBy
	if generatedBy == "" {
		generatedBy = models.GeneratedBy
	}

	doc := models.Document{
		Metadata: models.Metadata{
			ExportDate:     now.UTC().Format(time.RFC3339),
			RunID:          opts.RunID,
			TotalTestCases: len(ordered),
			TotalRejected:  len(rejections),
			GeneratedBy:    generatedBy,
		},
		TestCases:  make([]models.ScoredTestCase, len(ordered)),
		Rejections: make([]models.Rejection, len(rejections)),
	}

	for i, tc := range ordered {
		tc.InputIndex = 0
		tc.TestSteps = append([]string{}, tc.TestSteps...)
		tc.Components = append([]string{}, tc.Components...)
		doc.TestCases[i] = tc
		doc.Metadata.RiskSummary.Add(tc.RiskCategory)
		doc.Metadata.PrioritySummary.Add(tc.Priority)
	}

	for i, r := range rejections {
		doc.Rejections[i] = models.Rejection{Index: r.Index, Title: r.Title, Reason: r.Reason}
	}

	return doc
}
