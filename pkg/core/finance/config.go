// Package finance holds the numeric primitives of the pro forma engine:
// loan amortization, IRR root-finding and NPV discounting.
// Every function here is pure and safe for concurrent use.
package finance

// SolverConfig holds the Newton-Raphson settings used by the IRR solver.
// These used to be literals inside the iteration loop; keeping them here lets
// tests force slow or failed convergence deterministically.
type SolverConfig struct {
	// MaxIterations caps the Newton-Raphson loop.
	MaxIterations int `yaml:"max_iterations" json:"maxIterations"`

	// Tolerance is the convergence threshold on successive rate updates.
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`

	// DerivativeThreshold stops the iteration when |NPV'(r)| falls below it.
	// The last rate is returned rather than dividing by a near-zero slope.
	DerivativeThreshold float64 `yaml:"derivative_threshold" json:"derivativeThreshold"`

	// BisectionFallback enables a bracketed bisection search when Newton
	// fails to converge. Bisection only runs if NPV changes sign inside
	// [BracketLow, BracketHigh].
	BisectionFallback bool    `yaml:"bisection_fallback" json:"bisectionFallback"`
	BracketLow        float64 `yaml:"bracket_low" json:"bracketLow"`
	BracketHigh       float64 `yaml:"bracket_high" json:"bracketHigh"`

	// Debug prints non-convergence diagnostics to stderr.
	Debug bool `yaml:"debug" json:"debug"`
}

// DefaultGuess is the starting rate for Newton-Raphson.
const DefaultGuess = 0.1

// DefaultSolverConfig returns the production solver settings.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		MaxIterations:       200,
		Tolerance:           1e-5,
		DerivativeThreshold: 1e-10,
		BisectionFallback:   true,
		BracketLow:          -0.99,
		BracketHigh:         10.0,
	}
}

// withDefaults fills zero-valued numeric fields from DefaultSolverConfig.
// Boolean switches are left as given.
func (c SolverConfig) withDefaults() SolverConfig {
	d := DefaultSolverConfig()
	if c.MaxIterations <= 0 {
		c.MaxIterations = d.MaxIterations
	}
	if c.Tolerance <= 0 {
		c.Tolerance = d.Tolerance
	}
	if c.DerivativeThreshold <= 0 {
		c.DerivativeThreshold = d.DerivativeThreshold
	}
	if c.BracketLow == 0 && c.BracketHigh == 0 {
		c.BracketLow = d.BracketLow
		c.BracketHigh = d.BracketHigh
	}
	return c
}
