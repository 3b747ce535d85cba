// internal/workers/testcases/export-test-cases/config.go
package exporttestcases

import (
	"time"

	"testcase-ranker/internal/common/config"
)

type Config struct {
	Timeout     time.Duration
	OutputDir   string
	BaseName    string
	Formats     []Format
	GeneratedBy string
}

// LoadConfig reads the export section. Format names have already been
// checked by config validation.
func LoadConfig(cfg *config.Config) (*Config, error) {
	formats, err := ParseFormats(cfg.Export.Formats)
	if err != nil {
		return nil, err
	}
	return &Config{
		Timeout:     config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		OutputDir:   cfg.Export.OutputDir,
		BaseName:    cfg.Export.BaseName,
		Formats:     formats,
		GeneratedBy: cfg.Export.GeneratedBy,
	}, nil
}
