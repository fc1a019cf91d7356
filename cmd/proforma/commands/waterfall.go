package commands

import (
	"github.com/spf13/cobra"
)

func waterfallCmd(s *session) *cobra.Command {
	var netProfit float64

	cmd := &cobra.Command{
		Use:   "waterfall",
		Short: "Distribute proceeds between investor and sponsor",
		Long: "Run the distribution waterfall. Net profit defaults to the metrics\n" +
			"estimate; --net-profit overrides it.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("net-profit") {
				netProfit = s.calc.Metrics(s.pf).NetProfit
			}
			res := s.calc.Waterfall(s.pf, netProfit)
			logf(cmd, "[WATERFALL] %.2f available: investor %.2f, sponsor %.2f",
				res.TotalAvailable, res.TotalToInvestor, res.TotalToSponsor)
			return s.emit(cmd, res)
		},
	}
	cmd.Flags().Float64Var(&netProfit, "net-profit", 0, "net profit to distribute on top of equity")
	return cmd
}
