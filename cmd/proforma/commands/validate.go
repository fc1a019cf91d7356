package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"proforma_engine/pkg/core/proforma"
)

type validation struct {
	Valid  bool             `json:"valid"`
	Issues []proforma.Issue `json:"issues"`
}

func validateCmd(s *session) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Report problems in a pro forma",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			issues := proforma.Validate(s.pf)
			for _, i := range issues {
				logf(cmd, "[VALIDATE] %s", i)
			}

			res := validation{Valid: !proforma.HasErrors(issues), Issues: issues}
			if res.Issues == nil {
				res.Issues = []proforma.Issue{}
			}
			if err := s.emit(cmd, res); err != nil {
				return err
			}
			if strict && !res.Valid {
				return fmt.Errorf("pro forma %q has validation errors", s.pf.Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any error is found")
	return cmd
}
