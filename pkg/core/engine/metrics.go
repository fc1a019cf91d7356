// Package engine computes derived results from a proforma.ProForma:
// headline metrics, a monthly cash-flow simulation, sensitivity grids and
// the investor/sponsor waterfall.
//
// Every entry point is a pure function of its inputs. The engine never
// mutates the ProForma it is given; what-if scenarios work on clones.
package engine

import (
	"proforma_engine/pkg/core/finance"
	"proforma_engine/pkg/core/proforma"
)

// Calculator runs the engine with a fixed Config. The zero value is not
// usable; build one with New or use Default.
type Calculator struct {
	cfg Config
}

// New returns a Calculator; zero fields in cfg take their defaults.
func New(cfg Config) *Calculator {
	return &Calculator{cfg: cfg.withDefaults()}
}

// Default returns a Calculator with DefaultConfig.
func Default() *Calculator {
	return New(DefaultConfig())
}

// Config returns the effective configuration.
func (c *Calculator) Config() Config {
	return c.cfg
}

// ProjectMetrics is the flat headline metrics record for a pro forma.
type ProjectMetrics struct {
	TotalCosts     float64 `json:"totalCosts"`
	GrossRevenue   float64 `json:"totalRevenue"`
	TotalSaleCosts float64 `json:"totalSaleCosts"`
	NetRevenue     float64 `json:"netRevenue"`

	GrossProfit float64 `json:"grossProfit"`
	GrossMargin float64 `json:"grossMargin"`
	NetProfit   float64 `json:"netProfit"`
	NetMargin   float64 `json:"netMargin"`

	TotalDebt     float64 `json:"totalDebt"`
	TotalEquity   float64 `json:"totalEquity"`
	LoanToCost    float64 `json:"loanToCost"`
	TotalInterest float64 `json:"totalInterest"`
	TotalLoanFees float64 `json:"totalLoanFees"`

	MonthlyIRR     float64 `json:"monthlyIrr"`
	ProjectIRR     float64 `json:"projectIrr"`
	IRRConverged   bool    `json:"irrConverged"`
	EquityMultiple float64 `json:"equityMultiple"`
	CashOnCash     float64 `json:"cashOnCash"`
	NPV            float64 `json:"npv"`

	ProfitPerUnit     float64 `json:"profitPerUnit"`
	CostPerUnit       float64 `json:"costPerUnit"`
	RevenuePerUnit    float64 `json:"revenuePerUnit"`
	CostPerSquareFoot float64 `json:"costPerSquareFoot"`

	ProjectMonths int `json:"projectMonths"`
}

// Metrics aggregates a pro forma's costs, financing and revenue into
// profitability metrics. Missing fields count as zero and every ratio with
// a zero denominator reports 0.
func (c *Calculator) Metrics(p *proforma.ProForma) ProjectMetrics {
	m := ProjectMetrics{
		TotalCosts:     p.ProjectCost(),
		GrossRevenue:   p.GrossRevenue(),
		TotalSaleCosts: p.RevenueProjections.SaleCosts.Total(),
		NetRevenue:     p.NetRevenue(),
		TotalDebt:      p.TotalDebt(),
		TotalEquity:    p.TotalEquity(),
		ProjectMonths:  p.ProjectMonths(),
	}

	// 1. Profitability before financing
	m.GrossProfit = m.NetRevenue - m.TotalCosts
	m.GrossMargin = safeDiv(m.GrossProfit, m.GrossRevenue)
	m.LoanToCost = safeDiv(m.TotalDebt, m.TotalCosts)

	// 2. Financing cost estimate
	// Interest uses average utilization (DrawFactor) rather than a full
	// amortization run; CashFlows gives the month-accurate figure.
	years := float64(m.ProjectMonths) / 12
	for _, loan := range p.SourcesOfFunds.Loans {
		m.TotalInterest += loan.Principal * loan.AnnualRate * c.cfg.DrawFactor * years
		m.TotalLoanFees += loan.OriginationFee()
	}

	m.NetProfit = m.GrossProfit - (m.TotalInterest + m.TotalLoanFees)
	m.NetMargin = safeDiv(m.NetProfit, m.GrossRevenue)

	// 3. Equity returns
	m.EquityMultiple = safeDiv(m.TotalEquity+m.NetProfit, m.TotalEquity)
	m.CashOnCash = safeDiv(m.NetProfit, m.TotalEquity)

	if series := equitySeries(m.TotalEquity, m.NetProfit, m.ProjectMonths); series != nil {
		res := c.cfg.Solver.IRR(series, c.cfg.IRRGuess)
		m.MonthlyIRR = res.Rate
		m.ProjectIRR = finance.AnnualizeMonthlyRate(res.Rate)
		m.IRRConverged = res.Converged
		if npv, err := finance.NPV(series, c.cfg.DiscountRate/12); err == nil {
			m.NPV = npv
		}
	}

	// 4. Per-unit
	units := float64(p.Assumptions.Units)
	m.ProfitPerUnit = safeDiv(m.NetProfit, units)
	m.CostPerUnit = safeDiv(m.TotalCosts, units)
	m.RevenuePerUnit = safeDiv(m.GrossRevenue, units)
	m.CostPerSquareFoot = safeDiv(m.TotalCosts, p.Assumptions.SquareFootage)

	return m
}

// equitySeries is the synthetic monthly equity series used for the
// project-level IRR: equity out at month 0, equity plus net profit back at
// the final month, nothing in between. Returns nil when no IRR is defined.
func equitySeries(equity, netProfit float64, months int) []float64 {
	if equity <= 0 || months <= 0 {
		return nil
	}
	series := make([]float64, months+1)
	series[0] = -equity
	series[months] = equity + netProfit
	return series
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
