package finance

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidLoan is returned when a loan cannot be amortized as configured.
var ErrInvalidLoan = errors.New("invalid loan configuration")

// AmortizationRow is one month of a loan schedule.
type AmortizationRow struct {
	Month     int     `json:"month"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// ScheduleSummary aggregates an amortization schedule.
type ScheduleSummary struct {
	TotalPayments  float64 `json:"totalPayments"`
	TotalInterest  float64 `json:"totalInterest"`
	TotalPrincipal float64 `json:"totalPrincipal"`
	EndingBalance  float64 `json:"endingBalance"`
}

// Amortize builds a month-by-month schedule for a single loan.
//
// Months 1..ioMonths pay interest only. After that the payment is the annuity
// payment over the months still remaining, recomputed every month, so the
// final period always retires the balance. When ioMonths == termMonths the
// balance never amortizes and payoff is left to the caller.
func Amortize(principal, annualRate float64, termMonths, ioMonths int) ([]AmortizationRow, error) {
	if principal <= 0 {
		return nil, fmt.Errorf("%w: principal must be positive, got %v", ErrInvalidLoan, principal)
	}
	if annualRate < 0 {
		return nil, fmt.Errorf("%w: annual rate must be non-negative, got %v", ErrInvalidLoan, annualRate)
	}
	if termMonths <= 0 {
		return nil, fmt.Errorf("%w: term must be positive, got %d", ErrInvalidLoan, termMonths)
	}
	if ioMonths < 0 || ioMonths > termMonths {
		return nil, fmt.Errorf("%w: interest-only months %d outside [0, %d]", ErrInvalidLoan, ioMonths, termMonths)
	}

	monthlyRate := annualRate / 12
	balance := principal
	rows := make([]AmortizationRow, 0, termMonths)

	for month := 1; month <= termMonths; month++ {
		interest := balance * monthlyRate

		if month <= ioMonths {
			rows = append(rows, AmortizationRow{
				Month:    month,
				Payment:  interest,
				Interest: interest,
				Balance:  balance,
			})
			continue
		}

		remaining := termMonths - month + 1
		payment := annuityPayment(balance, monthlyRate, remaining)

		principalPaid := payment - interest
		if principalPaid > balance {
			principalPaid = balance
			payment = principalPaid + interest
		}
		balance -= principalPaid
		if month == termMonths {
			balance = 0
		}

		rows = append(rows, AmortizationRow{
			Month:     month,
			Payment:   payment,
			Principal: principalPaid,
			Interest:  interest,
			Balance:   balance,
		})
	}

	return rows, nil
}

// annuityPayment is the level payment that retires balance over n months.
func annuityPayment(balance, monthlyRate float64, n int) float64 {
	if n <= 0 {
		return balance
	}
	if monthlyRate == 0 {
		return balance / float64(n)
	}
	return balance * monthlyRate / (1 - math.Pow(1+monthlyRate, -float64(n)))
}

// SummarizeSchedule totals a schedule produced by Amortize.
func SummarizeSchedule(rows []AmortizationRow) ScheduleSummary {
	var s ScheduleSummary
	for _, r := range rows {
		s.TotalPayments += r.Payment
		s.TotalInterest += r.Interest
		s.TotalPrincipal += r.Principal
	}
	if len(rows) > 0 {
		s.EndingBalance = rows[len(rows)-1].Balance
	}
	return s
}
