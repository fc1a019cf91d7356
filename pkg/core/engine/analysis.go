package engine

import (
	"context"
	"fmt"

	"proforma_engine/pkg/core/proforma"
)

// Analysis is every engine output for one pro forma snapshot.
type Analysis struct {
	Issues      []proforma.Issue  `json:"issues,omitempty"`
	Metrics     ProjectMetrics    `json:"metrics"`
	CashFlows   []CashFlowPeriod  `json:"cashFlows"`
	CashSummary CashFlowSummary   `json:"cashFlowSummary"`
	Loans       []LoanSchedule    `json:"loans,omitempty"`
	Waterfall   WaterfallResult   `json:"waterfall"`
	Sensitivity SensitivityResult `json:"sensitivity"`
}

// Analyze validates p and runs the full engine on it. Validation findings
// are attached rather than returned as an error; loan schedules are skipped
// when a loan is invalid, since that is already reported as an issue.
func (c *Calculator) Analyze(ctx context.Context, p *proforma.ProForma, axes SensitivityAxes) (*Analysis, error) {
	a := &Analysis{
		Issues:  proforma.Validate(p),
		Metrics: c.Metrics(p),
	}
	a.CashFlows = c.CashFlows(p)
	a.CashSummary = c.SummarizeCashFlows(a.CashFlows)
	a.Waterfall = c.Waterfall(p, a.Metrics.NetProfit)

	if loans, err := c.LoanSchedules(p); err == nil {
		a.Loans = loans
	}

	sens, err := c.Sensitivity(ctx, p, axes)
	if err != nil {
		return nil, fmt.Errorf("analyze %q: %w", p.Name, err)
	}
	a.Sensitivity = sens
	return a, nil
}
