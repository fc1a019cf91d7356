package commands

import (
	"github.com/spf13/cobra"

	"proforma_engine/pkg/core/engine"
	"proforma_engine/pkg/core/finance"
	"proforma_engine/pkg/core/proforma"
)

func amortizeCmd(s *session) *cobra.Command {
	var loan proforma.Loan

	cmd := &cobra.Command{
		Use:   "amortize",
		Short: "Print loan amortization schedules",
		Long: "Print the amortization schedule of every loan in the pro forma, or of a\n" +
			"single loan described by --principal, --rate, --term and --io.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("principal") {
				schedules, err := s.calc.LoanSchedules(s.pf)
				if err != nil {
					return err
				}
				return s.emit(cmd, schedules)
			}

			rows, err := finance.Amortize(loan.Principal, loan.AnnualRate, loan.TermMonths, loan.IOMonths)
			if err != nil {
				return err
			}
			loan.Name = "ad hoc"
			return s.emit(cmd, []engine.LoanSchedule{{
				Loan:    loan,
				Rows:    rows,
				Summary: finance.SummarizeSchedule(rows),
			}})
		},
	}
	cmd.Flags().Float64Var(&loan.Principal, "principal", 0, "loan principal")
	cmd.Flags().Float64Var(&loan.AnnualRate, "rate", 0, "annual rate as a fraction (0.085 = 8.5%)")
	cmd.Flags().IntVar(&loan.TermMonths, "term", 0, "term in months")
	cmd.Flags().IntVar(&loan.IOMonths, "io", 0, "interest-only months")
	return cmd
}
