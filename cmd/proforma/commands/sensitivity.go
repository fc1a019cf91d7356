package commands

import (
	"github.com/spf13/cobra"

	"proforma_engine/pkg/core/engine"
)

func sensitivityCmd(s *session) *cobra.Command {
	var axes engine.SensitivityAxes

	cmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "Run what-if scenarios over sale price, hard costs and timeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := s.calc.Sensitivity(commandContext(cmd), s.pf, axes)
			if err != nil {
				return err
			}
			logf(cmd, "[SENSITIVITY] %d one-way scenarios, %d matrix cells",
				len(res.SalePriceSensitivity)+len(res.CostSensitivity)+len(res.TimelineSensitivity),
				len(res.TwoVarMatrix))
			return s.emit(cmd, res)
		},
	}
	cmd.Flags().Float64SliceVar(&axes.SalePriceDeltas, "sale", nil, "sale price deltas as fractions (default from config)")
	cmd.Flags().Float64SliceVar(&axes.CostDeltas, "cost", nil, "hard cost deltas as fractions (default from config)")
	cmd.Flags().IntSliceVar(&axes.TimelineDeltas, "timeline", nil, "timeline deltas in months (default from config)")
	return cmd
}
