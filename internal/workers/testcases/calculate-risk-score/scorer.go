// internal/workers/testcases/calculate-risk-score/scorer.go
package calculateriskscore

import (
	"fmt"
	"math"

	"testcase-ranker/internal/common/config"
	"testcase-ranker/internal/models"
)

// Breakdown holds the four weighted inputs of a risk score, each in [0,100].
type Breakdown struct {
	Priority   float64 `json:"priority"`
	TestType   float64 `json:"testType"`
	Components float64 `json:"components"`
	Complexity float64 `json:"complexity"`
}

// Scorer computes risk scores from a validated ScoringConfig. It holds no
// mutable state and is safe for concurrent use.
type Scorer struct {
	weights         config.ScoringWeights
	priority        map[models.Priority]float64
	testType        map[models.TestType]float64
	componentPoints float64
	thresholds      config.CategoryThresholds
}

// NewScorer validates cfg and resolves its tables.
func NewScorer(cfg config.ScoringConfig) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	priority, err := cfg.PriorityTable()
	if err != nil {
		return nil, err
	}
	testType, err := cfg.TestTypeTable()
	if err != nil {
		return nil, err
	}
	return &Scorer{
		weights:         cfg.Weights,
		priority:        priority,
		testType:        testType,
		componentPoints: cfg.ComponentPoints,
		thresholds:      cfg.Thresholds,
	}, nil
}

// Breakdown returns the sub-scores for tc.
func (s *Scorer) Breakdown(tc models.TestCase) Breakdown {
	complexity := tc.Complexity
	if complexity < models.MinComplexity || complexity > models.MaxComplexity {
		complexity = models.DefaultComplexity
	}
	return Breakdown{
		Priority:   s.priority[tc.Priority],
		TestType:   s.testType[tc.TestType],
		Components: math.Min(100, s.componentPoints*float64(len(tc.Components))),
		Complexity: float64(complexity-models.MinComplexity) / float64(models.MaxComplexity-models.MinComplexity) * 100,
	}
}

// Score returns the weighted risk score of tc rounded to one decimal.
func (s *Scorer) Score(tc models.TestCase) float64 {
	b := s.Breakdown(tc)
	raw := s.weights.Priority*b.Priority +
		s.weights.TestType*b.TestType +
		s.weights.Components*b.Components +
		s.weights.Complexity*b.Complexity
	return roundScore(math.Max(0, math.Min(100, raw)))
}

// Categorize maps a score onto its bucket. Each lower bound is inclusive.
func (s *Scorer) Categorize(score float64) models.RiskCategory {
	switch {
	case score >= s.thresholds.Critical:
		return models.RiskCritical
	case score >= s.thresholds.High:
		return models.RiskHigh
	case score >= s.thresholds.Medium:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// ScoreAll scores cases in accepted order and assigns TC-### ids. The
// returned values carry no execution order yet.
func (s *Scorer) ScoreAll(cases []models.TestCase) []models.ScoredTestCase {
	out := make([]models.ScoredTestCase, len(cases))
	for i, tc := range cases {
		sc := models.NewScoredTestCase(tc)
		sc.TestID = TestID(i + 1)
		sc.RiskScore = s.Score(tc)
		sc.RiskCategory = s.Categorize(sc.RiskScore)
		out[i] = sc
	}
	return out
}

// TestID formats the n-th (1-based) test id.
func TestID(n int) string {
	return fmt.Sprintf("TC-%03d", n)
}

// roundScore rounds to one decimal, first snapping float noise so that a true
// x.x5 is not rounded down.
func roundScore(v float64) float64 {
	return math.Round(math.Round(v*1e6)/1e5) / 10
}
