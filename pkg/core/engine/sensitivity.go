package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"proforma_engine/pkg/core/proforma"
)

// Axis names a sensitivity dimension.
type Axis string

const (
	AxisSalePrice Axis = "sale_price"
	AxisCost      Axis = "hard_cost"
	AxisTimeline  Axis = "timeline"
)

// scenarioNamespace scopes scenario ids so the same axis/delta pair always
// maps to the same UUID.
var scenarioNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("proforma_engine/sensitivity"))

// SensitivityAxes lists the perturbations to run. Sale price and cost
// deltas are relative (0.05 = +5%); timeline deltas are whole months.
type SensitivityAxes struct {
	SalePriceDeltas []float64 `yaml:"sale_price_deltas" json:"salePriceDeltas"`
	CostDeltas      []float64 `yaml:"cost_deltas" json:"costDeltas"`
	TimelineDeltas  []int     `yaml:"timeline_deltas" json:"timelineDeltas"`
}

func (a SensitivityAxes) orDefaults(d SensitivityAxes) SensitivityAxes {
	if len(a.SalePriceDeltas) == 0 {
		a.SalePriceDeltas = d.SalePriceDeltas
	}
	if len(a.CostDeltas) == 0 {
		a.CostDeltas = d.CostDeltas
	}
	if len(a.TimelineDeltas) == 0 {
		a.TimelineDeltas = d.TimelineDeltas
	}
	return a
}

// SensitivityRow is one scenario of a one-dimensional table.
type SensitivityRow struct {
	ScenarioID     string  `json:"scenarioId"`
	Axis           Axis    `json:"axis"`
	Delta          float64 `json:"delta"`
	Label          string  `json:"label"`
	GrossProfit    float64 `json:"grossProfit"`
	NetProfit      float64 `json:"netProfit"`
	NetMargin      float64 `json:"netMargin"`
	ProjectIRR     float64 `json:"projectIrr"`
	EquityMultiple float64 `json:"equityMultiple"`

	// Changes against the unperturbed baseline.
	ProfitChange float64 `json:"profitChange"`
	IRRChange    float64 `json:"irrChange"`
}

// MatrixCell is one sale-price × cost combination.
type MatrixCell struct {
	ScenarioID     string  `json:"scenarioId"`
	SalePriceDelta float64 `json:"salePriceDelta"`
	CostDelta      float64 `json:"costDelta"`
	EquityIRR      float64 `json:"equityIrr"`
	EquityMultiple float64 `json:"equityMultiple"`
	GrossProfit    float64 `json:"grossProfit"`
}

// SensitivityResult bundles all sensitivity tables.
type SensitivityResult struct {
	Baseline             ProjectMetrics   `json:"baseline"`
	SalePriceSensitivity []SensitivityRow `json:"salePriceSensitivity"`
	CostSensitivity      []SensitivityRow `json:"costSensitivity"`
	TimelineSensitivity  []SensitivityRow `json:"timelineSensitivity"`
	TwoVarMatrix         []MatrixCell     `json:"twoVarMatrix"`
}

// Sensitivity perturbs p along sale price, hard cost and timeline, and over
// the sale-price × cost grid, recomputing metrics for every scenario.
//
// Each scenario is built from its own clone of p (see proforma.Adjust*), so
// scenarios run concurrently, bounded by Config.Concurrency. Output order
// follows the axes as given. Empty axes use the configured defaults.
func (c *Calculator) Sensitivity(ctx context.Context, p *proforma.ProForma, axes SensitivityAxes) (SensitivityResult, error) {
	axes = axes.orDefaults(c.cfg.Sensitivity)
	baseline := c.Metrics(p)

	res := SensitivityResult{
		Baseline:             baseline,
		SalePriceSensitivity: make([]SensitivityRow, len(axes.SalePriceDeltas)),
		CostSensitivity:      make([]SensitivityRow, len(axes.CostDeltas)),
		TimelineSensitivity:  make([]SensitivityRow, len(axes.TimelineDeltas)),
		TwoVarMatrix:         make([]MatrixCell, len(axes.SalePriceDeltas)*len(axes.CostDeltas)),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Concurrency)

	// Each goroutine writes only its own index.
	run := func(fn func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}

	for i, d := range axes.SalePriceDeltas {
		run(func() {
			m := c.Metrics(proforma.AdjustSalePrice(p, d))
			res.SalePriceSensitivity[i] = newRow(AxisSalePrice, d, percentLabel(d), m, baseline)
		})
	}
	for i, d := range axes.CostDeltas {
		run(func() {
			m := c.Metrics(proforma.AdjustHardCosts(p, d))
			res.CostSensitivity[i] = newRow(AxisCost, d, percentLabel(d), m, baseline)
		})
	}
	for i, d := range axes.TimelineDeltas {
		run(func() {
			m := c.Metrics(proforma.AdjustTimeline(p, d))
			res.TimelineSensitivity[i] = newRow(AxisTimeline, float64(d), fmt.Sprintf("%+d mo", d), m, baseline)
		})
	}
	for i, sd := range axes.SalePriceDeltas {
		for j, cd := range axes.CostDeltas {
			idx := i*len(axes.CostDeltas) + j
			run(func() {
				m := c.Metrics(proforma.AdjustHardCosts(proforma.AdjustSalePrice(p, sd), cd))
				res.TwoVarMatrix[idx] = MatrixCell{
					ScenarioID:     scenarioID(fmt.Sprintf("matrix:%v:%v", sd, cd)),
					SalePriceDelta: sd,
					CostDelta:      cd,
					EquityIRR:      m.ProjectIRR,
					EquityMultiple: m.EquityMultiple,
					GrossProfit:    m.GrossProfit,
				}
			})
		}
	}

	if err := g.Wait(); err != nil {
		return SensitivityResult{}, fmt.Errorf("sensitivity: %w", err)
	}
	return res, nil
}

func newRow(axis Axis, delta float64, label string, m, baseline ProjectMetrics) SensitivityRow {
	return SensitivityRow{
		ScenarioID:     scenarioID(fmt.Sprintf("%s:%v", axis, delta)),
		Axis:           axis,
		Delta:          delta,
		Label:          label,
		GrossProfit:    m.GrossProfit,
		NetProfit:      m.NetProfit,
		NetMargin:      m.NetMargin,
		ProjectIRR:     m.ProjectIRR,
		EquityMultiple: m.EquityMultiple,
		ProfitChange:   m.NetProfit - baseline.NetProfit,
		IRRChange:      m.ProjectIRR - baseline.ProjectIRR,
	}
}

func scenarioID(key string) string {
	return uuid.NewSHA1(scenarioNamespace, []byte(key)).String()
}

func percentLabel(d float64) string {
	return fmt.Sprintf("%+.1f%%", d*100)
}
