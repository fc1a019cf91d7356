package engine

import (
	"errors"
	"strings"
	"testing"

	"proforma_engine/pkg/core/finance"
	"proforma_engine/pkg/core/proforma"
)

func TestLoanSchedules_Example(t *testing.T) {
	schedules, err := Default().LoanSchedules(proforma.Example())
	if err != nil {
		t.Fatalf("LoanSchedules failed: %v", err)
	}
	if len(schedules) != 1 {
		t.Fatalf("expected 1 schedule, got %d", len(schedules))
	}

	s := schedules[0]
	if len(s.Rows) != 18 {
		t.Errorf("expected 18 rows, got %d", len(s.Rows))
	}
	// Interest-only for the whole term: principal is repaid from the sale.
	if s.Summary.EndingBalance != 453464 {
		t.Errorf("expected balance outstanding at maturity, got %f", s.Summary.EndingBalance)
	}
	if s.Summary.TotalPrincipal != 0 {
		t.Errorf("expected no amortization, got %f", s.Summary.TotalPrincipal)
	}
	near(t, "interest", s.Summary.TotalInterest, 453464*0.085/12*18, 1e-4)
}

func TestLoanSchedules_InvalidLoan(t *testing.T) {
	p := proforma.Example()
	p.SourcesOfFunds.Loans = append(p.SourcesOfFunds.Loans, proforma.Loan{Name: "mezz", Principal: 50000, AnnualRate: 0.12})

	_, err := Default().LoanSchedules(p)
	if !errors.Is(err, finance.ErrInvalidLoan) {
		t.Fatalf("expected ErrInvalidLoan, got %v", err)
	}
	if want := "loan 1 (mezz)"; err != nil && !strings.Contains(err.Error(), want) {
		t.Errorf("expected error to name %q, got %v", want, err)
	}
}

func TestLoanSchedules_NoLoans(t *testing.T) {
	p := proforma.Example()
	p.SourcesOfFunds.Loans = nil

	schedules, err := Default().LoanSchedules(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(schedules) != 0 {
		t.Errorf("expected no schedules, got %d", len(schedules))
	}
}
