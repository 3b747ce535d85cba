// internal/workers/testcases/validate-test-cases/validator.go
package validatetestcases

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"testcase-ranker/internal/models"
)

// Result is the two-way split of a candidate batch.
type Result struct {
	Accepted []models.TestCase
	Rejected []models.Rejection
}

// Options tunes normalization.
type Options struct {
	// DeriveComplexityFromSteps fills an absent complexity from the number of
	// steps instead of using the default.
	DeriveComplexityFromSteps bool
}

var complexityLabels = map[string]int{
	"trivial":     1,
	"verylow":     1,
	"simple":      2,
	"low":         2,
	"medium":      3,
	"moderate":    3,
	"high":        4,
	"complex":     4,
	"veryhigh":    5,
	"verycomplex": 5,
}

// Validate normalizes each candidate and splits the batch into accepted and
// rejected records. It never fails: malformed records are rejected with a
// reason and unknown enum values fall back to their defaults.
func Validate(candidates []models.Candidate, opts Options) Result {
	res := Result{
		Accepted: make([]models.TestCase, 0, len(candidates)),
		Rejected: make([]models.Rejection, 0),
	}

	for i, rec := range candidates {
		tc, reasons := normalize(rec, opts)
		if len(reasons) > 0 {
			res.Rejected = append(res.Rejected, models.Rejection{
				Index:  i,
				Title:  tc.Title,
				Reason: strings.Join(reasons, "; "),
				Record: rec,
			})
			continue
		}
		tc.InputIndex = len(res.Accepted)
		res.Accepted = append(res.Accepted, tc)
	}

	return res
}

func normalize(rec models.Candidate, opts Options) (models.TestCase, []string) {
	var reasons []string

	tc := models.TestCase{
		Title:          text(rec["title"]),
		Description:    text(rec["description"]),
		Preconditions:  joinedText(rec["preconditions"]),
		TestSteps:      steps(rec["test_steps"]),
		ExpectedResult: text(rec["expected_result"]),
		Components:     components(rec["components"]),
	}

	if rec == nil {
		return tc, []string{"record is empty"}
	}
	if tc.Title == "" {
		reasons = append(reasons, "title is missing or empty")
	}
	if len(tc.TestSteps) == 0 {
		reasons = append(reasons, "test_steps is missing or has no steps")
	}
	if tc.ExpectedResult == "" {
		reasons = append(reasons, "expected_result is missing or empty")
	}

	tc.Priority = models.PriorityMedium
	if p, ok := models.ParsePriority(text(rec["priority"])); ok {
		tc.Priority = p
	}

	tc.TestType = models.TestTypeFunctional
	if tt, ok := models.ParseTestType(text(rec["test_type"])); ok {
		tc.TestType = tt
	}

	raw, present := rec["complexity"]
	switch {
	case present && raw != nil:
		tc.Complexity = complexity(raw)
	case opts.DeriveComplexityFromSteps:
		tc.Complexity = ComplexityFromSteps(len(tc.TestSteps))
	default:
		tc.Complexity = models.DefaultComplexity
	}

	return tc, reasons
}

// ComplexityFromSteps maps a step count onto the 1-5 rating.
func ComplexityFromSteps(n int) int {
	switch {
	case n >= 8:
		return 5
	case n >= 5:
		return 4
	case n >= 3:
		return 2
	default:
		return 1
	}
}

// text returns v as a trimmed string. Scalars are formatted; anything else
// yields "".
func text(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64, float32, int, int64, int32, bool:
		return fmt.Sprint(t)
	default:
		return ""
	}
}

func joinedText(v interface{}) string {
	if items, ok := v.([]interface{}); ok {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			if s := text(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	}
	return text(v)
}

func steps(v interface{}) []string {
	var out []string
	switch t := v.(type) {
	case []interface{}:
		for _, item := range t {
			if s := text(item); s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, item := range t {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func components(v interface{}) []string {
	var raw []string
	switch t := v.(type) {
	case []interface{}:
		for _, item := range t {
			raw = append(raw, text(item))
		}
	case []string:
		raw = t
	case string:
		raw = strings.Split(t, ",")
	}

	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, c := range raw {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// complexity accepts an integral 1-5 number (or numeric string) or a
// descriptive label. Anything else falls back to the default rating.
func complexity(v interface{}) int {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return models.DefaultComplexity
		}
		f = n
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			f = n
			break
		}
		if c, ok := complexityLabels[strings.ToLower(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s))]; ok {
			return c
		}
		return models.DefaultComplexity
	default:
		return models.DefaultComplexity
	}

	if f != math.Trunc(f) || f < models.MinComplexity || f > models.MaxComplexity {
		return models.DefaultComplexity
	}
	return int(f)
}
