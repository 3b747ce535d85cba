// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Scoring       ScoringConfig           `mapstructure:"scoring"`
	Validation    ValidationConfig        `mapstructure:"validation"`
	Export        ExportConfig            `mapstructure:"export"`
	Source        SourceConfig            `mapstructure:"source"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Metrics       MetricsConfig           `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// --- Pipeline Configuration ---

// ValidationConfig controls candidate normalization.
type ValidationConfig struct {
	// DeriveComplexityFromSteps fills a missing complexity from the step count.
	DeriveComplexityFromSteps bool `mapstructure:"derive_complexity_from_steps"`
}

// ExportConfig holds settings for the export-test-cases stage.
type ExportConfig struct {
	OutputDir   string   `mapstructure:"output_dir"`
	BaseName    string   `mapstructure:"base_name"`
	Formats     []string `mapstructure:"formats"`
	GeneratedBy string   `mapstructure:"generated_by"`
}

// SourceConfig selects where candidate records come from.
type SourceConfig struct {
	Type  string `mapstructure:"type"` // file | genai
	Path  string `mapstructure:"path"`
	GenAI struct {
		BaseURL  string `mapstructure:"base_url"`
		APIKey   string `mapstructure:"api_key"`
		Provider string `mapstructure:"provider"`
		Model    string `mapstructure:"model"`
		Timeout  int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"genai"`
}

// NotificationConfig holds settings for the export-completed notifier.
type NotificationConfig struct {
	Email struct {
		Enabled   bool     `mapstructure:"enabled"`
		FromEmail string   `mapstructure:"from_email"`
		To        []string `mapstructure:"to"`
	} `mapstructure:"email"`
	SNS struct {
		Enabled  bool   `mapstructure:"enabled"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// MetricsConfig holds settings for the health/metrics server.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

const (
	SourceTypeFile  = "file"
	SourceTypeGenAI = "genai"

	FormatJSON = "json"
	FormatYAML = "yaml"
)
