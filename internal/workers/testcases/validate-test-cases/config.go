// internal/workers/testcases/validate-test-cases/config.go
package validatetestcases

import (
	"time"

	"testcase-ranker/internal/common/config"
)

type Config struct {
	Timeout                   time.Duration
	DeriveComplexityFromSteps bool
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout:                   config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		DeriveComplexityFromSteps: cfg.Validation.DeriveComplexityFromSteps,
	}
}

func (c *Config) options() Options {
	return Options{DeriveComplexityFromSteps: c.DeriveComplexityFromSteps}
}
