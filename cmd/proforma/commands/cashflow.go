package commands

import (
	"github.com/spf13/cobra"

	"proforma_engine/pkg/core/engine"
)

type cashFlowOutput struct {
	Summary engine.CashFlowSummary  `json:"summary"`
	Periods []engine.CashFlowPeriod `json:"periods,omitempty"`
}

func cashflowCmd(s *session) *cobra.Command {
	var summaryOnly bool

	cmd := &cobra.Command{
		Use:   "cashflow",
		Short: "Simulate monthly sources and uses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			periods := s.calc.CashFlows(s.pf)
			out := cashFlowOutput{Summary: s.calc.SummarizeCashFlows(periods)}
			if !summaryOnly {
				out.Periods = periods
			}
			logf(cmd, "[CASHFLOW] %d months, peak loan %.2f, equity IRR %.2f%%",
				out.Summary.Months, out.Summary.PeakLoanBalance, out.Summary.EquityIRR*100)
			return s.emit(cmd, out)
		},
	}
	cmd.Flags().BoolVar(&summaryOnly, "summary", false, "omit the monthly periods")
	return cmd
}
