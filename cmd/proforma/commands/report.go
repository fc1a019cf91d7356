package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"proforma_engine/pkg/core/engine"
	"proforma_engine/pkg/core/report"
)

func reportCmd(s *session) *cobra.Command {
	var (
		asHTML bool
		out    string
		opts   report.Options
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a Markdown or HTML investment memo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.calc.Analyze(commandContext(cmd), s.pf, engine.SensitivityAxes{})
			if err != nil {
				return err
			}

			var doc string
			if asHTML {
				doc, err = report.HTML(s.pf, a, opts)
			} else {
				doc, err = report.Markdown(s.pf, a, opts)
			}
			if err != nil {
				return err
			}

			if out == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), doc)
				return err
			}
			if err := os.WriteFile(out, []byte(doc), 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			logf(cmd, "[REPORT] Wrote %s (%d bytes)", out, len(doc))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "render HTML instead of Markdown")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to a file instead of stdout")
	cmd.Flags().StringVar(&opts.Title, "title", "", "heading (default the project name)")
	cmd.Flags().BoolVar(&opts.CashFlows, "cash-flows", false, "include the monthly cash-flow table")
	return cmd
}
