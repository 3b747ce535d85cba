// internal/workers/testcases/order-execution/orderer.go
package orderexecution

import (
	"sort"

	"testcase-ranker/internal/models"
)

// Order returns a copy of cases sorted by risk score descending, ties broken
// by accepted input order, with ExecutionOrder set to 1..N. Scores and
// categories are left untouched.
func Order(cases []models.ScoredTestCase) []models.ScoredTestCase {
	out := make([]models.ScoredTestCase, len(cases))
	copy(out, cases)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RiskScore != out[j].RiskScore {
			return out[i].RiskScore > out[j].RiskScore
		}
		return out[i].InputIndex < out[j].InputIndex
	})

	for i := range out {
		out[i].ExecutionOrder = i + 1
	}
	return out
}

// IsOrdered reports whether cases satisfy the ordering produced by Order.
func IsOrdered(cases []models.ScoredTestCase) bool {
	for i := range cases {
		if cases[i].ExecutionOrder != i+1 {
			return false
		}
		if i == 0 {
			continue
		}
		prev, cur := cases[i-1], cases[i]
		if prev.RiskScore < cur.RiskScore {
			return false
		}
		if prev.RiskScore == cur.RiskScore && prev.InputIndex > cur.InputIndex {
			return false
		}
	}
	return true
}
