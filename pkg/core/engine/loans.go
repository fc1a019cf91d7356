package engine

import (
	"fmt"

	"proforma_engine/pkg/core/finance"
	"proforma_engine/pkg/core/proforma"
)

// LoanSchedule is the amortization schedule of one loan.
type LoanSchedule struct {
	Loan    proforma.Loan             `json:"loan"`
	Rows    []finance.AmortizationRow `json:"rows"`
	Summary finance.ScheduleSummary   `json:"summary"`
}

// LoanSchedules amortizes every loan of p in order. The first invalid loan
// aborts with an error wrapping finance.ErrInvalidLoan.
func (c *Calculator) LoanSchedules(p *proforma.ProForma) ([]LoanSchedule, error) {
	schedules := make([]LoanSchedule, 0, len(p.SourcesOfFunds.Loans))
	for i, loan := range p.SourcesOfFunds.Loans {
		rows, err := finance.Amortize(loan.Principal, loan.AnnualRate, loan.TermMonths, loan.IOMonths)
		if err != nil {
			return nil, fmt.Errorf("loan %d (%s): %w", i, loan.Name, err)
		}
		schedules = append(schedules, LoanSchedule{
			Loan:    loan,
			Rows:    rows,
			Summary: finance.SummarizeSchedule(rows),
		})
	}
	return schedules, nil
}
