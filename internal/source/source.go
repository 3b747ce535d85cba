// internal/source/source.go
package source

import (
	"context"
	"fmt"
	"time"

	"testcase-ranker/internal/common/config"
	"testcase-ranker/internal/common/logger"
	"testcase-ranker/internal/models"
)

// CandidateSource yields the raw candidate records for one run. An error
// means the upstream parser produced no usable input.
type CandidateSource interface {
	Name() string
	Fetch(ctx context.Context) ([]models.Candidate, error)
}

// candidateEnvelope is the parser output shape: {"test_cases": [...]}.
type candidateEnvelope struct {
	TestCases []models.Candidate `json:"test_cases" yaml:"test_cases"`
}

// New builds the source selected by cfg.Source. path, when non-empty,
// overrides the configured input path.
func New(cfg *config.Config, path string, log logger.Logger) (CandidateSource, error) {
	if path == "" {
		path = cfg.Source.Path
	}
	switch cfg.Source.Type {
	case "", config.SourceTypeFile:
		return NewFileSource(path, log), nil
	case config.SourceTypeGenAI:
		g := cfg.Source.GenAI
		return NewGenAISource(GenAIOptions{
			BaseURL:      g.BaseURL,
			APIKey:       g.APIKey,
			Provider:     g.Provider,
			Model:        g.Model,
			Timeout:      time.Duration(g.Timeout) * time.Millisecond,
			DocumentPath: path,
		}, log), nil
	}
	return nil, fmt.Errorf("unknown source type %q", cfg.Source.Type)
}
