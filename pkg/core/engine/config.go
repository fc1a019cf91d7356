package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"proforma_engine/pkg/core/finance"
)

// CostCurve selects how hard costs are spread over construction.
type CostCurve string

const (
	// CurveSCurve is the smoothstep weight 3t²-2t³: slow start, peak spend
	// mid-build, slow finish.
	CurveSCurve CostCurve = "s-curve"
	CurveLinear CostCurve = "linear"
)

// Config holds the engine's tunable constants. Zero values fall back to
// DefaultConfig, so a partial YAML file only overrides what it names.
type Config struct {
	// DrawFactor approximates average loan utilization under an S-curve draw
	// when estimating interest without a full cash-flow run.
	DrawFactor float64 `yaml:"draw_factor"`

	// DiscountRate is the annual rate for the headline NPV.
	DiscountRate float64 `yaml:"discount_rate"`

	// IRRGuess seeds the Newton-Raphson solver (periodic rate).
	IRRGuess float64 `yaml:"irr_guess"`

	CostCurve   CostCurve            `yaml:"cost_curve"`
	Solver      finance.SolverConfig `yaml:"solver"`
	Sensitivity SensitivityAxes      `yaml:"sensitivity"`
	Concurrency int                  `yaml:"concurrency"`
}

// DefaultConfig returns the production settings.
func DefaultConfig() Config {
	return Config{
		DrawFactor:   0.6,
		DiscountRate: 0.10,
		IRRGuess:     finance.DefaultGuess,
		CostCurve:    CurveSCurve,
		Solver:       finance.DefaultSolverConfig(),
		Sensitivity: SensitivityAxes{
			SalePriceDeltas: []float64{-0.10, -0.05, 0, 0.05, 0.10},
			CostDeltas:      []float64{-0.10, -0.05, 0, 0.05, 0.10},
			TimelineDeltas:  []int{-3, 0, 3, 6},
		},
		Concurrency: 8,
	}
}

// withDefaults fills zero-valued fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.DrawFactor <= 0 {
		c.DrawFactor = d.DrawFactor
	}
	if c.DiscountRate == 0 {
		c.DiscountRate = d.DiscountRate
	}
	if c.IRRGuess == 0 {
		c.IRRGuess = d.IRRGuess
	}
	if c.CostCurve == "" {
		c.CostCurve = d.CostCurve
	}
	if c.Solver.MaxIterations == 0 && c.Solver.Tolerance == 0 {
		debug := c.Solver.Debug
		c.Solver = d.Solver
		c.Solver.Debug = debug
	}
	c.Sensitivity = c.Sensitivity.orDefaults(d.Sensitivity)
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	return c
}

// LoadConfig reads a YAML config file. Missing keys keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read engine config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML config bytes and validates the result.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse engine config: %w", err)
	}
	cfg = cfg.withDefaults()

	switch cfg.CostCurve {
	case CurveSCurve, CurveLinear:
	default:
		return Config{}, fmt.Errorf("parse engine config: unknown cost_curve %q", cfg.CostCurve)
	}
	if cfg.DiscountRate <= -1 {
		return Config{}, fmt.Errorf("parse engine config: discount_rate %v must be above -1", cfg.DiscountRate)
	}
	return cfg, nil
}
