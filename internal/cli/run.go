// internal/cli/run.go
package cli

import (
	"fmt"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"testcase-ranker/internal/common/aws"
	"testcase-ranker/internal/common/observability"
	"testcase-ranker/internal/pipeline"
	"testcase-ranker/internal/report"
	"testcase-ranker/internal/source"
)

type runOptions struct {
	input      string
	sourceType string
	outputDir  string
	baseName   string
	formats    []string
	quiet      bool
}

func newRunCommand(global *globalOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Rank a batch of test case candidates and export the result",
		Example: `  # Rank the parser output with default settings
  testcase-ranker run --input data/outputs/testcases.json

  # Write YAML only, under a custom name
  testcase-ranker run --input cases.yaml --format yaml --basename nightly`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Candidate file, or document text for the genai source")
	cmd.Flags().StringVar(&opts.sourceType, "source", "", "Candidate source (file or genai)")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Directory for exported files")
	cmd.Flags().StringVar(&opts.baseName, "basename", "", "Base name of exported files")
	cmd.Flags().StringSliceVar(&opts.formats, "format", nil, "Export formats (json,yaml)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Do not print the ranking report")

	return cmd
}

func runPipeline(cmd *cobra.Command, global *globalOptions, opts *runOptions) error {
	cfg, err := global.loadConfig()
	if err != nil {
		return err
	}
	if opts.sourceType != "" {
		cfg.Source.Type = opts.sourceType
	}
	if opts.outputDir != "" {
		cfg.Export.OutputDir = opts.outputDir
	}
	if opts.baseName != "" {
		cfg.Export.BaseName = opts.baseName
	}
	if len(opts.formats) > 0 {
		cfg.Export.Formats = opts.formats
	}

	log := global.newLogger(cfg)
	ctx := cmd.Context()

	src, err := source.New(cfg, opts.input, log)
	if err != nil {
		return err
	}

	pipelineOpts, err := pipeline.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	obs := observability.NewWithRegisterer("testcase-ranker", promclient.NewRegistry())
	defer obs.Shutdown()

	options := []pipeline.Option{pipeline.WithObservability(obs)}
	notifier, err := aws.NewExportNotifier(ctx, cfg.Notifications, log)
	if err != nil {
		log.Warn("export notifications disabled", map[string]interface{}{"error": err})
	} else if notifier != nil {
		options = append(options, pipeline.WithNotifier(notifier))
	}

	p, err := pipeline.New(pipelineOpts, log, options...)
	if err != nil {
		return err
	}

	res, err := p.Run(ctx, src)
	if err != nil {
		return err
	}
	if res.Status == pipeline.StatusNoInput {
		return fmt.Errorf("no input: %w", res.Err)
	}

	if opts.quiet {
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, report.Render(*res.Document))
	if len(res.Files) > 0 {
		paths := make([]string, len(res.Files))
		sizes := make([]int64, len(res.Files))
		for i, f := range res.Files {
			paths[i] = f.Path
			sizes[i] = f.SizeBytes
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, report.Files(paths, sizes))
	}
	return nil
}
