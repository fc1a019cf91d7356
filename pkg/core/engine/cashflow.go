package engine

import (
	"math"

	"proforma_engine/pkg/core/finance"
	"proforma_engine/pkg/core/proforma"
)

// CashFlowPeriod is one simulated month of sources and uses.
type CashFlowPeriod struct {
	Month int `json:"month"`

	// Sources
	EquityContribution float64 `json:"equityContribution"`
	DebtDraw           float64 `json:"debtDraw"`
	SaleProceeds       float64 `json:"saleProceeds"`

	// Uses
	LandPayment          float64 `json:"landPayment"`
	HardCostPayment      float64 `json:"hardCostPayment"`
	SoftCostPayment      float64 `json:"softCostPayment"`
	FinancingCostPayment float64 `json:"financingCostPayment"`
	InterestPayment      float64 `json:"interestPayment"`
	LoanPayoff           float64 `json:"loanPayoff"`
	EquityReturned       float64 `json:"equityReturned"`
	Distributions        float64 `json:"distributions"`

	// Running balances
	NetFlow        float64 `json:"netFlow"`
	CumulativeFlow float64 `json:"cumulativeFlow"`
	LoanBalance    float64 `json:"loanBalance"`
	EquityDeployed float64 `json:"equityDeployed"`
}

// TotalSources sums the period's sources.
func (cf CashFlowPeriod) TotalSources() float64 {
	return cf.EquityContribution + cf.DebtDraw + cf.SaleProceeds
}

// TotalUses sums the period's uses.
func (cf CashFlowPeriod) TotalUses() float64 {
	return cf.LandPayment + cf.HardCostPayment + cf.SoftCostPayment + cf.FinancingCostPayment +
		cf.InterestPayment + cf.LoanPayoff + cf.EquityReturned + cf.Distributions
}

// costWeight is the cumulative share of hard costs spent by fraction t of
// the construction period.
func costWeight(curve CostCurve, t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	if curve == CurveLinear {
		return t
	}
	return 3*t*t - 2*t*t*t
}

// CashFlows simulates sources and uses month by month over the project.
//
// Month 1 pays land and loan origination fees and receives the full equity
// commitment. The budgeted financing-cost line is not paid as a lump: the
// simulation replaces it with the fees and the interest actually accrued.
// Hard costs follow the configured cost curve over the construction period;
// soft costs are spread evenly across it. Interest accrues monthly on the
// opening loan balance at the primary loan's rate.
// Each month's uses are paid from equity cash on hand first, then drawn
// from debt up to the total loan commitment; any remaining gap is extra
// equity. The final month receives net sale proceeds, pays the loan off,
// returns equity and distributes the remainder.
func (c *Calculator) CashFlows(p *proforma.ProForma) []CashFlowPeriod {
	months := p.ProjectMonths()
	if months <= 0 {
		return nil
	}
	construction := p.Assumptions.ConstructionMonths
	if construction <= 0 || construction > months {
		construction = months
	}

	hardTotal := p.UsesOfFunds.HardCosts.Amount()
	softMonthly := p.UsesOfFunds.SoftCosts.Amount() / float64(construction)
	commitment := p.TotalDebt()
	var fees float64
	for _, loan := range p.SourcesOfFunds.Loans {
		fees += loan.OriginationFee()
	}
	var monthlyRate float64
	if loan, ok := p.PrimaryLoan(); ok {
		monthlyRate = loan.AnnualRate / 12
	}

	periods := make([]CashFlowPeriod, 0, months)
	var (
		cash        float64 // running cash on hand
		balance     float64 // loan balance
		drawn       float64 // cumulative draws against commitment
		outstanding float64 // equity contributed and not yet returned
	)

	for month := 1; month <= months; month++ {
		cf := CashFlowPeriod{Month: month}

		if month == 1 {
			cf.LandPayment = p.UsesOfFunds.LandAcquisition
			cf.FinancingCostPayment = fees
			cf.EquityContribution = p.TotalEquity()
		}
		if month <= construction {
			t0 := float64(month-1) / float64(construction)
			t1 := float64(month) / float64(construction)
			cf.HardCostPayment = hardTotal * (costWeight(c.cfg.CostCurve, t1) - costWeight(c.cfg.CostCurve, t0))
			cf.SoftCostPayment = softMonthly
		}
		cf.InterestPayment = balance * monthlyRate

		// Fund this month's needs: equity on hand, then debt, then extra equity.
		need := cf.LandPayment + cf.FinancingCostPayment + cf.HardCostPayment + cf.SoftCostPayment + cf.InterestPayment
		available := cash + cf.EquityContribution
		if shortfall := need - available; shortfall > 0 {
			cf.DebtDraw = math.Min(shortfall, math.Max(0, commitment-drawn))
			cf.EquityContribution += shortfall - cf.DebtDraw
		}
		drawn += cf.DebtDraw
		balance += cf.DebtDraw
		outstanding += cf.EquityContribution

		var settled bool
		if month == months {
			cf.SaleProceeds = p.NetRevenue()
			cf.LoanPayoff = balance
			balance = 0

			exitCash := cash + cf.TotalSources() - cf.TotalUses()
			if exitCash > 0 {
				cf.EquityReturned = math.Min(exitCash, outstanding)
				cf.Distributions = exitCash - cf.EquityReturned
				outstanding -= cf.EquityReturned
				settled = true
			}
		}

		cf.NetFlow = cf.TotalSources() - cf.TotalUses()
		cash += cf.NetFlow
		if settled {
			// Everything left was paid out; clear float residue.
			cash = 0
		}
		cf.CumulativeFlow = cash
		cf.LoanBalance = balance
		cf.EquityDeployed = outstanding

		periods = append(periods, cf)
	}

	return periods
}

// CashFlowSummary aggregates a simulated schedule.
type CashFlowSummary struct {
	Months                 int     `json:"months"`
	PeakLoanBalance        float64 `json:"peakLoanBalance"`
	TotalDebtDrawn         float64 `json:"totalDebtDrawn"`
	TotalInterest          float64 `json:"totalInterest"`
	TotalEquityContributed float64 `json:"totalEquityContributed"`
	TotalEquityReturned    float64 `json:"totalEquityReturned"`
	TotalDistributions     float64 `json:"totalDistributions"`
	EquityProfit           float64 `json:"equityProfit"`
	EquityMultiple         float64 `json:"equityMultiple"`
	MonthlyEquityIRR       float64 `json:"monthlyEquityIrr"`
	EquityIRR              float64 `json:"equityIrr"`
}

// SummarizeCashFlows totals a schedule and computes the period-accurate
// equity IRR from its monthly equity flows.
func (c *Calculator) SummarizeCashFlows(periods []CashFlowPeriod) CashFlowSummary {
	s := CashFlowSummary{Months: len(periods)}
	if len(periods) == 0 {
		return s
	}

	// Index 0 is the close, index m is the end of month m.
	equityFlows := make([]float64, len(periods)+1)
	for i, cf := range periods {
		s.PeakLoanBalance = math.Max(s.PeakLoanBalance, cf.LoanBalance+cf.LoanPayoff)
		s.TotalDebtDrawn += cf.DebtDraw
		s.TotalInterest += cf.InterestPayment
		s.TotalEquityContributed += cf.EquityContribution
		s.TotalEquityReturned += cf.EquityReturned
		s.TotalDistributions += cf.Distributions

		equityFlows[i] -= cf.EquityContribution
		equityFlows[i+1] += cf.EquityReturned + cf.Distributions
	}

	received := s.TotalEquityReturned + s.TotalDistributions
	s.EquityProfit = received - s.TotalEquityContributed
	s.EquityMultiple = safeDiv(received, s.TotalEquityContributed)

	if s.TotalEquityContributed > 0 {
		res := c.cfg.Solver.IRR(equityFlows, c.cfg.IRRGuess)
		s.MonthlyEquityIRR = res.Rate
		s.EquityIRR = finance.AnnualizeMonthlyRate(res.Rate)
	}
	return s
}
