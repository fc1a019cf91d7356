package finance

import (
	"errors"
	"fmt"
	"math"
	"os"
)

// ErrInvalidRate is returned when a discount rate makes 1+rate non-positive.
var ErrInvalidRate = errors.New("invalid discount rate")

// SolveMethod names the algorithm that produced an IRR.
type SolveMethod string

const (
	MethodNewton    SolveMethod = "newton"
	MethodBisection SolveMethod = "bisection"
)

// IRRResult is the outcome of an IRR solve. Rate is periodic: a monthly
// series yields a monthly rate, see AnnualizeMonthlyRate.
type IRRResult struct {
	Rate       float64     `json:"rate"`
	Iterations int         `json:"iterations"`
	Converged  bool        `json:"converged"`
	Method     SolveMethod `json:"method"`
}

// bisectionIterations bounds the fallback search; 200 halvings of a
// bracket of width ~11 is far below float64 resolution.
const bisectionIterations = 200

// polishSteps are extra Newton steps taken after the tolerance is met.
const polishSteps = 2

// NPV discounts cashFlows at a fixed per-period rate. Period 0 is undiscounted.
func NPV(cashFlows []float64, rate float64) (float64, error) {
	if rate <= -1 {
		return 0, fmt.Errorf("%w: %v (1+rate must be positive)", ErrInvalidRate, rate)
	}
	return npv(cashFlows, rate), nil
}

func npv(cashFlows []float64, rate float64) float64 {
	var total float64
	for t, cf := range cashFlows {
		total += cf / math.Pow(1+rate, float64(t))
	}
	return total
}

// npvAndDerivative returns NPV(r) and dNPV/dr = -Σ t·CF_t/(1+r)^(t+1).
func npvAndDerivative(cashFlows []float64, rate float64) (float64, float64) {
	var value, deriv float64
	for t, cf := range cashFlows {
		ft := float64(t)
		value += cf / math.Pow(1+rate, ft)
		deriv -= ft * cf / math.Pow(1+rate, ft+1)
	}
	return value, deriv
}

// IRR solves with DefaultSolverConfig from DefaultGuess and returns the rate.
func IRR(cashFlows []float64) float64 {
	return DefaultSolverConfig().IRR(cashFlows, DefaultGuess).Rate
}

// IRR finds the periodic rate at which NPV(cashFlows) is zero.
//
// Newton-Raphson runs first. If it stalls on a flat derivative or exhausts
// MaxIterations, the last rate is kept; with BisectionFallback set, a
// bracketed bisection is attempted before giving up. Series with more than
// one sign change may have several roots and the one found depends on guess.
func (c SolverConfig) IRR(cashFlows []float64, guess float64) IRRResult {
	c = c.withDefaults()

	res := c.newton(cashFlows, guess)
	if res.Converged && isFinite(res.Rate) {
		return res
	}

	if c.Debug {
		fmt.Fprintf(os.Stderr, "[IRR] newton did not converge after %d iterations (last rate %v)\n", res.Iterations, res.Rate)
	}

	if c.BisectionFallback {
		if rate, ok := c.bisect(cashFlows); ok {
			return IRRResult{Rate: rate, Iterations: res.Iterations, Converged: true, Method: MethodBisection}
		}
		if c.Debug {
			fmt.Fprintf(os.Stderr, "[IRR] no sign change in [%v, %v]; keeping newton rate\n", c.BracketLow, c.BracketHigh)
		}
	}

	if !isFinite(res.Rate) {
		res.Rate = guess
	}
	return res
}

func (c SolverConfig) newton(cashFlows []float64, guess float64) IRRResult {
	rate := guess
	for i := 1; i <= c.MaxIterations; i++ {
		value, deriv := npvAndDerivative(cashFlows, rate)
		if !isFinite(value) || !isFinite(deriv) {
			return IRRResult{Rate: rate, Iterations: i, Method: MethodNewton}
		}
		if math.Abs(deriv) < c.DerivativeThreshold {
			return IRRResult{Rate: rate, Iterations: i, Method: MethodNewton}
		}

		next := nextRate(rate, value/deriv)
		if math.Abs(next-rate) < c.Tolerance {
			return IRRResult{Rate: c.polish(cashFlows, next), Iterations: i, Converged: true, Method: MethodNewton}
		}
		rate = next
	}
	return IRRResult{Rate: rate, Iterations: c.MaxIterations, Method: MethodNewton}
}

// nextRate applies a Newton step, halving toward -1 instead of crossing it.
func nextRate(rate, step float64) float64 {
	next := rate - step
	if next <= -1 {
		next = (rate - 1) / 2
	}
	return next
}

func (c SolverConfig) polish(cashFlows []float64, rate float64) float64 {
	for i := 0; i < polishSteps; i++ {
		value, deriv := npvAndDerivative(cashFlows, rate)
		if math.Abs(deriv) < c.DerivativeThreshold {
			break
		}
		next := nextRate(rate, value/deriv)
		if !isFinite(next) {
			break
		}
		rate = next
	}
	return rate
}

func (c SolverConfig) bisect(cashFlows []float64) (float64, bool) {
	lo, hi := c.BracketLow, c.BracketHigh
	if lo <= -1 || hi <= lo {
		return 0, false
	}
	fLo := npv(cashFlows, lo)
	fHi := npv(cashFlows, hi)
	if !isFinite(fLo) || !isFinite(fHi) || fLo*fHi >= 0 {
		return 0, false
	}

	for i := 0; i < bisectionIterations; i++ {
		mid := (lo + hi) / 2
		fMid := npv(cashFlows, mid)
		if fMid == 0 || (hi-lo)/2 < 1e-12 {
			return mid, true
		}
		if math.Signbit(fMid) == math.Signbit(fLo) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, true
}

// AnnualizeMonthlyRate compounds a monthly rate to an annual one.
func AnnualizeMonthlyRate(monthly float64) float64 {
	return math.Pow(1+monthly, 12) - 1
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
