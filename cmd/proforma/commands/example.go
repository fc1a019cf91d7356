package commands

import (
	"github.com/spf13/cobra"

	"proforma_engine/pkg/core/proforma"
)

func exampleCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Print the built-in sample pro forma",
		Long:  "Print the built-in sample pro forma as a plain JSON document, suitable as a starting point for --file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.writeJSON(cmd, proforma.Example())
		},
	}
}
