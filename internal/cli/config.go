// internal/cli/config.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"testcase-ranker/internal/common/config"
	"testcase-ranker/internal/models"
)

func newConfigCommand(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a configuration file and print the effective scoring model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				global.configPath = args[0]
			}
			cfg, err := global.loadConfig()
			if err != nil {
				return err
			}
			printScoring(cmd, cfg.Scoring)
			return nil
		},
	})

	return cmd
}

func printScoring(cmd *cobra.Command, s config.ScoringConfig) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "configuration OK")

	w := s.Weights
	fmt.Fprintf(out, "\nweights: priority=%.2f test_type=%.2f components=%.2f complexity=%.2f\n",
		w.Priority, w.TestType, w.Components, w.Complexity)

	priorities, _ := s.PriorityTable()
	fmt.Fprintln(out, "\npriority scores:")
	for _, p := range models.Priorities {
		fmt.Fprintf(out, "  %-15s %5.1f\n", p, priorities[p])
	}

	types, _ := s.TestTypeTable()
	fmt.Fprintln(out, "\ntest type scores:")
	for _, tt := range models.TestTypes {
		fmt.Fprintf(out, "  %-15s %5.1f\n", tt, types[tt])
	}

	t := s.Thresholds
	fmt.Fprintf(out, "\ncomponent points: %.1f\n", s.ComponentPoints)
	fmt.Fprintf(out, "thresholds: critical>=%.1f high>=%.1f medium>=%.1f\n", t.Critical, t.High, t.Medium)
}
