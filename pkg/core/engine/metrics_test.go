package engine

import (
	"math"
	"reflect"
	"testing"

	"proforma_engine/pkg/core/finance"
	"proforma_engine/pkg/core/proforma"
)

func near(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: expected %f, got %f", label, want, got)
	}
}

func TestMetrics_Example(t *testing.T) {
	m := Default().Metrics(proforma.Example())

	near(t, "TotalCosts", m.TotalCosts, 604618, 1e-9)
	near(t, "GrossRevenue", m.GrossRevenue, 750000, 1e-9)
	near(t, "NetRevenue", m.NetRevenue, 697500, 1e-9)
	near(t, "GrossProfit", m.GrossProfit, 92882, 1e-9)
	near(t, "GrossMargin", m.GrossMargin, 0.123842667, 1e-8)
	near(t, "TotalDebt", m.TotalDebt, 453464, 1e-9)
	near(t, "TotalEquity", m.TotalEquity, 151154, 1e-9)
	near(t, "LoanToCost", m.LoanToCost, 0.750000827, 1e-8)

	// 453,464 × 8.5% × 0.6 × 18/12
	near(t, "TotalInterest", m.TotalInterest, 34689.996, 1e-6)
	near(t, "TotalLoanFees", m.TotalLoanFees, 4534.64, 1e-6)
	near(t, "NetProfit", m.NetProfit, 53657.364, 1e-6)
	near(t, "NetMargin", m.NetMargin, 0.071543152, 1e-8)

	near(t, "EquityMultiple", m.EquityMultiple, 1.354984744, 1e-8)
	near(t, "CashOnCash", m.CashOnCash, 0.354984744, 1e-8)

	wantMonthly := math.Pow(m.EquityMultiple, 1.0/18) - 1
	near(t, "MonthlyIRR", m.MonthlyIRR, wantMonthly, 1e-7)
	near(t, "ProjectIRR", m.ProjectIRR, finance.AnnualizeMonthlyRate(wantMonthly), 1e-6)
	if !m.IRRConverged {
		t.Errorf("expected IRR to converge")
	}

	series := make([]float64, 19)
	series[0] = -151154
	series[18] = 151154 + m.NetProfit
	wantNPV, _ := finance.NPV(series, 0.10/12)
	near(t, "NPV", m.NPV, wantNPV, 1e-6)

	near(t, "ProfitPerUnit", m.ProfitPerUnit, m.NetProfit, 1e-9)
	near(t, "CostPerUnit", m.CostPerUnit, 604618, 1e-9)
	near(t, "RevenuePerUnit", m.RevenuePerUnit, 750000, 1e-9)
	near(t, "CostPerSquareFoot", m.CostPerSquareFoot, 604618.0/2400, 1e-9)
}

func TestMetrics_Idempotent(t *testing.T) {
	p := proforma.Example()
	calc := Default()

	first := calc.Metrics(p)
	second := calc.Metrics(p)
	if first != second {
		t.Errorf("metrics differ between calls:\n%+v\n%+v", first, second)
	}
	if !reflect.DeepEqual(p, proforma.Example()) {
		t.Errorf("Metrics mutated its input")
	}
}

func TestMetrics_EmptyDraftHasNoNaN(t *testing.T) {
	m := Default().Metrics(&proforma.ProForma{})

	v := reflect.ValueOf(m)
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() != reflect.Float64 {
			continue
		}
		x := f.Float()
		if math.IsNaN(x) || math.IsInf(x, 0) {
			t.Errorf("%s is %v", v.Type().Field(i).Name, x)
		}
		if x != 0 {
			t.Errorf("%s expected 0 for an empty draft, got %f", v.Type().Field(i).Name, x)
		}
	}
}

func TestMetrics_ZeroDenominators(t *testing.T) {
	p := proforma.Example()
	p.Assumptions.Units = 0
	p.Assumptions.SquareFootage = 0
	p.SourcesOfFunds.Equity = proforma.Equity{}

	m := Default().Metrics(p)
	for name, v := range map[string]float64{
		"ProfitPerUnit":     m.ProfitPerUnit,
		"CostPerUnit":       m.CostPerUnit,
		"RevenuePerUnit":    m.RevenuePerUnit,
		"CostPerSquareFoot": m.CostPerSquareFoot,
		"EquityMultiple":    m.EquityMultiple,
		"CashOnCash":        m.CashOnCash,
		"ProjectIRR":        m.ProjectIRR,
	} {
		if v != 0 {
			t.Errorf("%s expected 0, got %f", name, v)
		}
	}
}

func TestMetrics_NetRevenueFromSaleCosts(t *testing.T) {
	p := proforma.Example()
	p.RevenueProjections.NetProceeds = 0

	m := Default().Metrics(p)
	near(t, "NetRevenue", m.NetRevenue, 750000-52500, 1e-9)
}

func TestMetrics_HoldStrategyUsesRentalRevenue(t *testing.T) {
	p := proforma.Example()
	p.Strategy = proforma.StrategyHold
	p.RevenueProjections = proforma.RevenueProjections{RentalRevenue: 820000}

	m := Default().Metrics(p)
	near(t, "GrossRevenue", m.GrossRevenue, 820000, 1e-9)
	near(t, "NetRevenue", m.NetRevenue, 820000, 1e-9)
}

func TestMetrics_DrawFactorIsConfigurable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DrawFactor = 1.0

	m := New(cfg).Metrics(proforma.Example())
	near(t, "TotalInterest", m.TotalInterest, 453464*0.085*1.5, 1e-6)
}

func TestMetrics_TotalCostFallsBackToComponents(t *testing.T) {
	p := proforma.Example()
	p.UsesOfFunds.TotalProjectCost = 0

	m := Default().Metrics(p)
	near(t, "TotalCosts", m.TotalCosts, 604618, 1e-6)
}
