package commands

import (
	"github.com/spf13/cobra"
)

func metricsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Compute headline profitability and return metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := s.calc.Metrics(s.pf)
			logf(cmd, "[PROFORMA] %s: net profit %.2f, project IRR %.2f%%, multiple %.2fx",
				s.pf.Name, m.NetProfit, m.ProjectIRR*100, m.EquityMultiple)
			if !m.IRRConverged && m.ProjectMonths > 0 && m.TotalEquity > 0 {
				logf(cmd, "[IRR] Solver did not converge; reporting last estimate")
			}
			return s.emit(cmd, m)
		},
	}
}
