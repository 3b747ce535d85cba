// internal/cli/inspect.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"testcase-ranker/internal/common/errors"
	"testcase-ranker/internal/common/validation"
	"testcase-ranker/internal/report"
	exporttestcases "testcase-ranker/internal/workers/testcases/export-test-cases"
)

func newInspectCommand(_ *globalOptions) *cobra.Command {
	var convert string

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Check an exported document and print its ranking",
		Example: `  testcase-ranker inspect data/outputs/testcases_final.json
  testcase-ranker inspect data/outputs/testcases_final.json --convert copy.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := exporttestcases.ReadDocument(args[0])
			if err != nil {
				return err
			}

			res, err := validation.ValidateDocument(doc)
			if err != nil {
				return err
			}
			if err := res.Err(); err != nil {
				return errors.NewInvalidInputError(fmt.Sprintf("%s: %v", args[0], err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, report.Render(*doc))

			if convert == "" {
				return nil
			}
			f, err := exporttestcases.FormatFromPath(convert)
			if err != nil {
				return err
			}
			data, err := exporttestcases.Encode(*doc, f)
			if err != nil {
				return err
			}
			if err := exporttestcases.WriteFileAtomic(convert, data); err != nil {
				return errors.NewExportFailedError(convert, err)
			}
			fmt.Fprintf(out, "\nwrote %s\n", convert)
			return nil
		},
	}

	cmd.Flags().StringVar(&convert, "convert", "", "Re-encode the document to this path (format from extension)")

	return cmd
}
