// internal/models/document.go
package models

// GeneratedBy is stamped into every exported document.
const GeneratedBy = "AI Test Case Generator"

// Document is the canonical export. JSON and YAML are two encodings of it.
type Document struct {
	Metadata   Metadata         `json:"metadata" yaml:"metadata"`
	TestCases  []ScoredTestCase `json:"test_cases" yaml:"test_cases"`
	Rejections []Rejection      `json:"rejections" yaml:"rejections"`
}

type Metadata struct {
	ExportDate      string          `json:"export_date" yaml:"export_date"`
	RunID           string          `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	TotalTestCases  int             `json:"total_test_cases" yaml:"total_test_cases"`
	TotalRejected   int             `json:"total_rejected" yaml:"total_rejected"`
	RiskSummary     RiskSummary     `json:"risk_summary" yaml:"risk_summary"`
	PrioritySummary PrioritySummary `json:"priority_summary" yaml:"priority_summary"`
	GeneratedBy     string          `json:"generated_by" yaml:"generated_by"`
}

type RiskSummary struct {
	Critical int `json:"critical" yaml:"critical"`
	High     int `json:"high" yaml:"high"`
	Medium   int `json:"medium" yaml:"medium"`
	Low      int `json:"low" yaml:"low"`
}

// Add counts one test case in category c.
func (s *RiskSummary) Add(c RiskCategory) {
	switch c {
	case RiskCritical:
		s.Critical++
	case RiskHigh:
		s.High++
	case RiskMedium:
		s.Medium++
	case RiskLow:
		s.Low++
	}
}

// Count returns the number of test cases in category c.
func (s RiskSummary) Count(c RiskCategory) int {
	switch c {
	case RiskCritical:
		return s.Critical
	case RiskHigh:
		return s.High
	case RiskMedium:
		return s.Medium
	case RiskLow:
		return s.Low
	}
	return 0
}

func (s RiskSummary) Total() int {
	return s.Critical + s.High + s.Medium + s.Low
}

type PrioritySummary struct {
	Critical int `json:"critical" yaml:"critical"`
	High     int `json:"high" yaml:"high"`
	Medium   int `json:"medium" yaml:"medium"`
	Low      int `json:"low" yaml:"low"`
}

// Add counts one test case with priority p.
func (s *PrioritySummary) Add(p Priority) {
	switch p {
	case PriorityCritical:
		s.Critical++
	case PriorityHigh:
		s.High++
	case PriorityMedium:
		s.Medium++
	case PriorityLow:
		s.Low++
	}
}

func (s PrioritySummary) Total() int {
	return s.Critical + s.High + s.Medium + s.Low
}
