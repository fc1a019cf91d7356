package commands

import (
	"github.com/spf13/cobra"

	"proforma_engine/pkg/core/engine"
	"proforma_engine/pkg/core/proforma"
)

func analyzeCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Run every calculation and print one JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.calc.Analyze(commandContext(cmd), s.pf, engine.SensitivityAxes{})
			if err != nil {
				return err
			}
			if proforma.HasErrors(a.Issues) {
				logf(cmd, "[VALIDATE] %d issue(s) found; results may be unreliable", len(a.Issues))
			}
			return s.emit(cmd, a)
		},
	}
}
