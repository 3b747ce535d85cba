// internal/report/report_test.go
package report

import (
	"strings"
	"testing"

	"testcase-ranker/internal/models"

	"github.com/stretchr/testify/assert"
)

func sampleDocument() models.Document {
	return models.Document{
		Metadata: models.Metadata{
			TotalTestCases: 3,
			TotalRejected:  1,
			RiskSummary:    models.RiskSummary{Critical: 1, High: 1, Low: 1},
		},
		TestCases: []models.ScoredTestCase{
			{TestID: "TC-001", Title: "Login rejects tampered token", RiskScore: 88, RiskCategory: models.RiskCritical, Priority: models.PriorityCritical, TestType: models.TestTypeSecurity, ExecutionOrder: 1},
			{TestID: "TC-003", Title: "Search under load", RiskScore: 64.5, RiskCategory: models.RiskHigh, Priority: models.PriorityHigh, TestType: models.TestTypePerformance, ExecutionOrder: 2},
			{TestID: "TC-002", Title: "Footer links render", RiskScore: 22, RiskCategory: models.RiskLow, Priority: models.PriorityLow, TestType: models.TestTypeFunctional, ExecutionOrder: 3},
		},
		Rejections: []models.Rejection{{Index: 3, Reason: "title is empty"}},
	}
}

func TestRender(t *testing.T) {
	out := Render(sampleDocument())

	assert.Contains(t, out, "Prioritized Test Order")
	assert.Contains(t, out, "TC-001")
	assert.Contains(t, out, "88.0")
	assert.Contains(t, out, "64.5")
	assert.Contains(t, out, "33.3%")
	assert.Contains(t, out, "0.0%")
	assert.Contains(t, out, "(untitled)")
	assert.Contains(t, out, "title is empty")

	assert.Less(t, strings.Index(out, "TC-001"), strings.Index(out, "TC-003"))
	assert.Less(t, strings.Index(out, "TC-003"), strings.Index(out, "TC-002"))
}

func TestRender_Empty(t *testing.T) {
	out := Render(models.Document{})

	assert.Contains(t, out, "no test cases accepted")
	assert.NotContains(t, out, "Rejected")
}

func TestFiles(t *testing.T) {
	out := Files([]string{"out/a.json", "out/a.yaml"}, []int64{2048, 512})

	assert.Contains(t, out, "out/a.json")
	assert.Contains(t, out, "2.0 KB")
	assert.Contains(t, out, "0.5 KB")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
