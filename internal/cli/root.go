// internal/cli/root.go
package cli

import (
	"github.com/spf13/cobra"

	"testcase-ranker/internal/common/config"
	"testcase-ranker/internal/common/logger"
)

type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCommand builds the testcase-ranker command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "testcase-ranker",
		Short: "Validate, risk-score and order generated QA test cases",
		Long: `testcase-ranker takes test case candidates produced by an upstream parser,
rejects malformed records, assigns every accepted case a weighted risk score
and category, orders them for execution and exports the result as JSON and YAML.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to config file (default: configs/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format (json or console)")

	cmd.AddCommand(
		newRunCommand(opts),
		newConfigCommand(opts),
		newInspectCommand(opts),
	)

	return cmd
}

func (o *globalOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFromFile(o.configPath)
	}
	return config.Load()
}

// newLogger writes to stderr so stdout stays free for reports.
func (o *globalOptions) newLogger(cfg *config.Config) logger.Logger {
	level := cfg.Logging.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	format := cfg.Logging.Format
	if o.logFormat != "" {
		format = o.logFormat
	}
	return logger.NewZapAdapter(logger.NewWithOutput(level, format, "stderr"))
}
