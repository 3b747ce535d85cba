// internal/workers/testcases/calculate-risk-score/config.go
package calculateriskscore

import (
	"time"

	"testcase-ranker/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	Scoring config.ScoringConfig
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		Scoring: cfg.Scoring,
	}
}
