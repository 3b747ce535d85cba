// internal/models/testcase.go
package models

import "strings"

// Priority is the author-assigned urgency of a test case.
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// Priorities lists every supported priority, lowest first.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// TestType is the category of behaviour a test case exercises.
type TestType string

const (
	TestTypeFunctional    TestType = "Functional"
	TestTypeRegression    TestType = "Regression"
	TestTypeIntegration   TestType = "Integration"
	TestTypeEdgeCase      TestType = "Edge-Case"
	TestTypeSecurity      TestType = "Security"
	TestTypePerformance   TestType = "Performance"
	TestTypeErrorHandling TestType = "Error Handling"
	TestTypeUIUX          TestType = "UI/UX"
)

// TestTypes lists every supported test type.
var TestTypes = []TestType{
	TestTypeFunctional,
	TestTypeRegression,
	TestTypeIntegration,
	TestTypeEdgeCase,
	TestTypeSecurity,
	TestTypePerformance,
	TestTypeErrorHandling,
	TestTypeUIUX,
}

// RiskCategory is the severity bucket derived from a risk score.
type RiskCategory string

const (
	RiskCritical RiskCategory = "CRITICAL"
	RiskHigh     RiskCategory = "HIGH"
	RiskMedium   RiskCategory = "MEDIUM"
	RiskLow      RiskCategory = "LOW"
)

// RiskCategories lists every category, most severe first.
var RiskCategories = []RiskCategory{RiskCritical, RiskHigh, RiskMedium, RiskLow}

const (
	MinComplexity     = 1
	MaxComplexity     = 5
	DefaultComplexity = 3
)

// Candidate is an unvalidated record as produced by the upstream parser.
type Candidate map[string]interface{}

// TestCase is a candidate that passed validation. All enum fields hold
// canonical labels and Components is deduplicated and lower-cased.
type TestCase struct {
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	Preconditions  string   `json:"preconditions,omitempty" yaml:"preconditions,omitempty"`
	TestSteps      []string `json:"test_steps" yaml:"test_steps"`
	ExpectedResult string   `json:"expected_result" yaml:"expected_result"`
	TestType       TestType `json:"test_type" yaml:"test_type"`
	Priority       Priority `json:"priority" yaml:"priority"`
	Components     []string `json:"components" yaml:"components"`
	Complexity     int      `json:"complexity" yaml:"complexity"`

	// InputIndex is the 0-based position among accepted records.
	InputIndex int `json:"-" yaml:"-"`
}

// ScoredTestCase is a TestCase with its derived ranking fields.
type ScoredTestCase struct {
	TestID         string       `json:"test_id" yaml:"test_id"`
	Title          string       `json:"title" yaml:"title"`
	Description    string       `json:"description,omitempty" yaml:"description,omitempty"`
	Preconditions  string       `json:"preconditions,omitempty" yaml:"preconditions,omitempty"`
	TestSteps      []string     `json:"test_steps" yaml:"test_steps"`
	ExpectedResult string       `json:"expected_result" yaml:"expected_result"`
	TestType       TestType     `json:"test_type" yaml:"test_type"`
	Priority       Priority     `json:"priority" yaml:"priority"`
	Components     []string     `json:"components" yaml:"components"`
	Complexity     int          `json:"complexity" yaml:"complexity"`
	RiskScore      float64      `json:"risk_score" yaml:"risk_score"`
	RiskCategory   RiskCategory `json:"risk_category" yaml:"risk_category"`
	ExecutionOrder int          `json:"execution_order" yaml:"execution_order"`

	InputIndex int `json:"-" yaml:"-"`
}

// NewScoredTestCase copies tc into a ScoredTestCase without ranking fields.
func NewScoredTestCase(tc TestCase) ScoredTestCase {
	return ScoredTestCase{
		Title:          tc.Title,
		Description:    tc.Description,
		Preconditions:  tc.Preconditions,
		TestSteps:      append([]string(nil), tc.TestSteps...),
		ExpectedResult: tc.ExpectedResult,
		TestType:       tc.TestType,
		Priority:       tc.Priority,
		Components:     append([]string{}, tc.Components...),
		Complexity:     tc.Complexity,
		InputIndex:     tc.InputIndex,
	}
}

// Rejection records a candidate that failed structural validation.
type Rejection struct {
	Index  int       `json:"index" yaml:"index"`
	Title  string    `json:"title,omitempty" yaml:"title,omitempty"`
	Reason string    `json:"reason" yaml:"reason"`
	Record Candidate `json:"-" yaml:"-"`
}

// ParsePriority resolves s case-insensitively against the known labels.
func ParsePriority(s string) (Priority, bool) {
	key := enumKey(s)
	for _, p := range Priorities {
		if enumKey(string(p)) == key {
			return p, true
		}
	}
	return "", false
}

// ParseTestType resolves s against the known labels, ignoring case and
// separators so "edge case", "Edge-Case" and "EDGE_CASE" all match.
func ParseTestType(s string) (TestType, bool) {
	key := enumKey(s)
	if key == "" {
		return "", false
	}
	for _, tt := range TestTypes {
		if enumKey(string(tt)) == key {
			return tt, true
		}
	}
	return "", false
}

// ParseRiskCategory resolves s case-insensitively.
func ParseRiskCategory(s string) (RiskCategory, bool) {
	key := enumKey(s)
	for _, c := range RiskCategories {
		if enumKey(string(c)) == key {
			return c, true
		}
	}
	return "", false
}

func enumKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
