// internal/common/config/scoring.go
package config

import (
	"fmt"
	"math"
	"sort"

	"testcase-ranker/internal/common/errors"
	"testcase-ranker/internal/models"
)

const weightSumTolerance = 1e-6

// ScoringConfig is the tunable surface of the risk scorer. Map keys are
// matched against enum labels case-insensitively, since viper lowercases them.
type ScoringConfig struct {
	Weights         ScoringWeights     `mapstructure:"weights"`
	PriorityScores  map[string]float64 `mapstructure:"priority_scores"`
	TestTypeScores  map[string]float64 `mapstructure:"test_type_scores"`
	ComponentPoints float64            `mapstructure:"component_points"`
	Thresholds      CategoryThresholds `mapstructure:"thresholds"`
}

type ScoringWeights struct {
	Priority   float64 `mapstructure:"priority"`
	TestType   float64 `mapstructure:"test_type"`
	Components float64 `mapstructure:"components"`
	Complexity float64 `mapstructure:"complexity"`
}

func (w ScoringWeights) Sum() float64 {
	return w.Priority + w.TestType + w.Components + w.Complexity
}

func (w ScoringWeights) isZero() bool {
	return w == ScoringWeights{}
}

// CategoryThresholds are the inclusive lower bounds of each category.
type CategoryThresholds struct {
	Critical float64 `mapstructure:"critical"`
	High     float64 `mapstructure:"high"`
	Medium   float64 `mapstructure:"medium"`
	Low      float64 `mapstructure:"low"`
}

func (t CategoryThresholds) isZero() bool {
	return t == CategoryThresholds{}
}

// DefaultScoringConfig returns the stock weights and tables.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Weights: ScoringWeights{
			Priority:   0.40,
			TestType:   0.30,
			Components: 0.20,
			Complexity: 0.10,
		},
		PriorityScores: map[string]float64{
			string(models.PriorityLow):      25,
			string(models.PriorityMedium):   50,
			string(models.PriorityHigh):     75,
			string(models.PriorityCritical): 100,
		},
		TestTypeScores: map[string]float64{
			string(models.TestTypeSecurity):      100,
			string(models.TestTypeEdgeCase):      90,
			string(models.TestTypePerformance):   85,
			string(models.TestTypeIntegration):   70,
			string(models.TestTypeErrorHandling): 65,
			string(models.TestTypeRegression):    55,
			string(models.TestTypeUIUX):          45,
			string(models.TestTypeFunctional):    40,
		},
		ComponentPoints: 20,
		Thresholds: CategoryThresholds{
			Critical: 80,
			High:     60,
			Medium:   40,
			Low:      0,
		},
	}
}

// applyScoringDefaults fills sections left out of the config file.
func applyScoringDefaults(s *ScoringConfig) {
	def := DefaultScoringConfig()
	if s.Weights.isZero() {
		s.Weights = def.Weights
	}
	if len(s.PriorityScores) == 0 {
		s.PriorityScores = def.PriorityScores
	}
	if len(s.TestTypeScores) == 0 {
		s.TestTypeScores = def.TestTypeScores
	}
	if s.ComponentPoints == 0 {
		s.ComponentPoints = def.ComponentPoints
	}
	if s.Thresholds.isZero() {
		s.Thresholds = def.Thresholds
	}
}

// Validate checks that the scoring tables are complete and consistent.
// It returns a CONFIGURATION_INVALID StandardError naming the offending key.
func (s ScoringConfig) Validate() error {
	w := s.Weights
	for name, v := range map[string]float64{
		"priority":   w.Priority,
		"test_type":  w.TestType,
		"components": w.Components,
		"complexity": w.Complexity,
	} {
		if v < 0 || math.IsNaN(v) {
			return errors.NewConfigurationError("scoring.weights."+name, fmt.Sprintf("weight must be non-negative, got %v", v))
		}
	}
	if math.Abs(w.Sum()-1.0) > weightSumTolerance {
		return errors.NewConfigurationError("scoring.weights", fmt.Sprintf("weights must sum to 1.0, got %.6f", w.Sum()))
	}

	if _, err := s.PriorityTable(); err != nil {
		return err
	}
	if _, err := s.TestTypeTable(); err != nil {
		return err
	}

	if s.ComponentPoints <= 0 || math.IsNaN(s.ComponentPoints) {
		return errors.NewConfigurationError("scoring.component_points", fmt.Sprintf("saturation constant must be > 0, got %v", s.ComponentPoints))
	}

	t := s.Thresholds
	if t.Low != 0 {
		return errors.NewConfigurationError("scoring.thresholds.low", fmt.Sprintf("lowest boundary must be 0, got %v", t.Low))
	}
	if !(t.Low < t.Medium && t.Medium < t.High && t.High < t.Critical) {
		return errors.NewConfigurationError("scoring.thresholds", fmt.Sprintf(
			"boundaries must increase strictly (low=%v medium=%v high=%v critical=%v)", t.Low, t.Medium, t.High, t.Critical))
	}
	if t.Critical > 100 {
		return errors.NewConfigurationError("scoring.thresholds.critical", fmt.Sprintf("boundary must be <= 100, got %v", t.Critical))
	}

	return nil
}

// PriorityTable resolves PriorityScores into a table covering every priority.
func (s ScoringConfig) PriorityTable() (map[models.Priority]float64, error) {
	table := make(map[models.Priority]float64, len(models.Priorities))
	for _, key := range sortedKeys(s.PriorityScores) {
		p, ok := models.ParsePriority(key)
		if !ok {
			return nil, errors.NewConfigurationError("scoring.priority_scores."+key, "unknown priority")
		}
		if _, dup := table[p]; dup {
			return nil, errors.NewConfigurationError("scoring.priority_scores."+key, fmt.Sprintf("duplicate entry for priority %q", p))
		}
		if err := checkSubScore("scoring.priority_scores."+key, s.PriorityScores[key]); err != nil {
			return nil, err
		}
		table[p] = s.PriorityScores[key]
	}
	for _, p := range models.Priorities {
		if _, ok := table[p]; !ok {
			return nil, errors.NewConfigurationError("scoring.priority_scores", fmt.Sprintf("missing score for priority %q", p))
		}
	}
	return table, nil
}

// TestTypeTable resolves TestTypeScores into a table covering every test type.
func (s ScoringConfig) TestTypeTable() (map[models.TestType]float64, error) {
	table := make(map[models.TestType]float64, len(models.TestTypes))
	for _, key := range sortedKeys(s.TestTypeScores) {
		tt, ok := models.ParseTestType(key)
		if !ok {
			return nil, errors.NewConfigurationError("scoring.test_type_scores."+key, "unknown test type")
		}
		if _, dup := table[tt]; dup {
			return nil, errors.NewConfigurationError("scoring.test_type_scores."+key, fmt.Sprintf("duplicate entry for test type %q", tt))
		}
		if err := checkSubScore("scoring.test_type_scores."+key, s.TestTypeScores[key]); err != nil {
			return nil, err
		}
		table[tt] = s.TestTypeScores[key]
	}
	for _, tt := range models.TestTypes {
		if _, ok := table[tt]; !ok {
			return nil, errors.NewConfigurationError("scoring.test_type_scores", fmt.Sprintf("missing score for test type %q", tt))
		}
	}
	return table, nil
}

func checkSubScore(field string, v float64) error {
	if v < 0 || v > 100 || math.IsNaN(v) {
		return errors.NewConfigurationError(field, fmt.Sprintf("score must be within [0,100], got %v", v))
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
