package engine

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"proforma_engine/pkg/core/proforma"
)

func TestSensitivity_SalePriceMonotonic(t *testing.T) {
	res, err := Default().Sensitivity(context.Background(), proforma.Example(), SensitivityAxes{})
	if err != nil {
		t.Fatalf("Sensitivity failed: %v", err)
	}

	rows := res.SalePriceSensitivity
	if len(rows) != 5 {
		t.Fatalf("expected 5 sale price rows, got %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].GrossProfit <= rows[i-1].GrossProfit {
			t.Errorf("gross profit not increasing at %s: %f <= %f", rows[i].Label, rows[i].GrossProfit, rows[i-1].GrossProfit)
		}
		if rows[i].ProjectIRR <= rows[i-1].ProjectIRR {
			t.Errorf("IRR not increasing at %s: %f <= %f", rows[i].Label, rows[i].ProjectIRR, rows[i-1].ProjectIRR)
		}
	}
}

func TestSensitivity_CostAndTimelineReduceReturns(t *testing.T) {
	res, err := Default().Sensitivity(context.Background(), proforma.Example(), SensitivityAxes{})
	if err != nil {
		t.Fatalf("Sensitivity failed: %v", err)
	}

	for i := 1; i < len(res.CostSensitivity); i++ {
		if res.CostSensitivity[i].NetProfit >= res.CostSensitivity[i-1].NetProfit {
			t.Errorf("higher hard costs should lower net profit (%s)", res.CostSensitivity[i].Label)
		}
	}
	for i := 1; i < len(res.TimelineSensitivity); i++ {
		if res.TimelineSensitivity[i].NetProfit >= res.TimelineSensitivity[i-1].NetProfit {
			t.Errorf("longer timeline should lower net profit (%s)", res.TimelineSensitivity[i].Label)
		}
	}
}

func TestSensitivity_ZeroDeltaMatchesBaseline(t *testing.T) {
	res, err := Default().Sensitivity(context.Background(), proforma.Example(), SensitivityAxes{})
	if err != nil {
		t.Fatalf("Sensitivity failed: %v", err)
	}

	for _, rows := range [][]SensitivityRow{res.SalePriceSensitivity, res.CostSensitivity, res.TimelineSensitivity} {
		for _, r := range rows {
			if r.Delta != 0 {
				continue
			}
			near(t, string(r.Axis)+" profit change", r.ProfitChange, 0, 1e-6)
			near(t, string(r.Axis)+" IRR change", r.IRRChange, 0, 1e-9)
		}
	}
	near(t, "baseline net profit", res.Baseline.NetProfit, 53657.364, 1e-6)
}

func TestSensitivity_SuppliedNetProceeds(t *testing.T) {
	p := proforma.Example()
	p.Assumptions.BrokerCommissionPercent = 0
	p.Assumptions.SellerClosingCostPercent = 0
	p.RevenueProjections.SaleCosts = proforma.SaleCosts{}
	p.RevenueProjections.NetProceeds = 697500

	res, err := Default().Sensitivity(context.Background(), p, SensitivityAxes{SalePriceDeltas: []float64{-0.05, 0, 0.05}})
	if err != nil {
		t.Fatalf("Sensitivity failed: %v", err)
	}

	near(t, "baseline gross profit", res.Baseline.GrossProfit, 92882, 1e-6)
	rows := res.SalePriceSensitivity
	near(t, "-5% profit change", rows[0].ProfitChange, -34875, 1e-6)
	near(t, "0% profit change", rows[1].ProfitChange, 0, 1e-6)
	near(t, "+5% profit change", rows[2].ProfitChange, 34875, 1e-6)
}

func TestSensitivity_LeavesInputUntouched(t *testing.T) {
	p := proforma.Example()
	if _, err := Default().Sensitivity(context.Background(), p, SensitivityAxes{}); err != nil {
		t.Fatalf("Sensitivity failed: %v", err)
	}
	if !reflect.DeepEqual(p, proforma.Example()) {
		t.Errorf("Sensitivity mutated its input")
	}
}

func TestSensitivity_MatrixOrder(t *testing.T) {
	axes := SensitivityAxes{
		SalePriceDeltas: []float64{-0.1, 0.1},
		CostDeltas:      []float64{-0.05, 0, 0.05},
		TimelineDeltas:  []int{0},
	}
	res, err := Default().Sensitivity(context.Background(), proforma.Example(), axes)
	if err != nil {
		t.Fatalf("Sensitivity failed: %v", err)
	}

	if len(res.TwoVarMatrix) != 6 {
		t.Fatalf("expected 6 cells, got %d", len(res.TwoVarMatrix))
	}
	for i, sd := range axes.SalePriceDeltas {
		for j, cd := range axes.CostDeltas {
			cell := res.TwoVarMatrix[i*3+j]
			if cell.SalePriceDelta != sd || cell.CostDelta != cd {
				t.Errorf("cell %d: expected (%v, %v), got (%v, %v)", i*3+j, sd, cd, cell.SalePriceDelta, cell.CostDelta)
			}
		}
	}

	// Higher cost at a fixed price lowers profit.
	if res.TwoVarMatrix[0].GrossProfit <= res.TwoVarMatrix[2].GrossProfit {
		t.Errorf("expected profit to fall across the cost axis")
	}
	// Higher price at a fixed cost raises profit.
	if res.TwoVarMatrix[4].GrossProfit <= res.TwoVarMatrix[1].GrossProfit {
		t.Errorf("expected profit to rise across the price axis")
	}
}

func TestSensitivity_DeterministicScenarioIDs(t *testing.T) {
	calc := Default()
	a, err := calc.Sensitivity(context.Background(), proforma.Example(), SensitivityAxes{})
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	b, err := calc.Sensitivity(context.Background(), proforma.Example(), SensitivityAxes{})
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Errorf("repeated runs differ")
	}

	seen := map[string]bool{}
	for _, rows := range [][]SensitivityRow{a.SalePriceSensitivity, a.CostSensitivity, a.TimelineSensitivity} {
		for _, r := range rows {
			if seen[r.ScenarioID] {
				t.Errorf("duplicate scenario id %s (%s %s)", r.ScenarioID, r.Axis, r.Label)
			}
			seen[r.ScenarioID] = true
		}
	}
	for _, c := range a.TwoVarMatrix {
		if seen[c.ScenarioID] {
			t.Errorf("duplicate matrix id %s", c.ScenarioID)
		}
		seen[c.ScenarioID] = true
	}
}

func TestSensitivity_Labels(t *testing.T) {
	axes := SensitivityAxes{
		SalePriceDeltas: []float64{-0.05},
		CostDeltas:      []float64{0.1},
		TimelineDeltas:  []int{3},
	}
	res, err := Default().Sensitivity(context.Background(), proforma.Example(), axes)
	if err != nil {
		t.Fatalf("Sensitivity failed: %v", err)
	}

	tests := []struct {
		got, want string
	}{
		{res.SalePriceSensitivity[0].Label, "-5.0%"},
		{res.CostSensitivity[0].Label, "+10.0%"},
		{res.TimelineSensitivity[0].Label, "+3 mo"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("expected label %q, got %q", tt.want, tt.got)
		}
	}
}

func TestSensitivity_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Default().Sensitivity(ctx, proforma.Example(), SensitivityAxes{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
