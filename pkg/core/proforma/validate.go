package proforma

import (
	"fmt"
	"math"
)

// Severity grades a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single validation finding.
type Issue struct {
	Field    string   `json:"field"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s: %s", i.Severity, i.Field, i.Message)
}

// costTolerance is the dollar slack allowed between TotalProjectCost and
// the sum of its components.
const costTolerance = 0.5

// Validate checks a pro forma for problems a user should see before its
// results are presented. The calculators never call it: they default
// missing values to zero so drafts can still be modeled.
func Validate(p *ProForma) []Issue {
	var issues []Issue
	var add addFunc = func(sev Severity, field, format string, args ...interface{}) {
		issues = append(issues, Issue{Field: field, Severity: sev, Message: fmt.Sprintf(format, args...)})
	}

	// 1. Timeline
	a := p.Assumptions
	if a.Units <= 0 {
		add(SeverityWarning, "assumptions.units", "no units set; per-unit metrics will be 0")
	}
	if p.ProjectMonths() <= 0 {
		add(SeverityWarning, "assumptions.totalProjectMonths", "no project duration; IRR and cash flows cannot be computed")
	}
	if a.TotalProjectMonths > 0 && a.ConstructionMonths > a.TotalProjectMonths {
		add(SeverityWarning, "assumptions.constructionMonths", "construction (%d months) runs past project end (%d months)", a.ConstructionMonths, a.TotalProjectMonths)
	}
	checkMoney(add, []moneyField{{"assumptions.squareFootage", a.SquareFootage}})
	checkRate(add, "assumptions.brokerCommissionPercent", a.BrokerCommissionPercent)
	checkRate(add, "assumptions.sellerClosingCostPercent", a.SellerClosingCostPercent)

	// 2. Uses of funds
	u := p.UsesOfFunds
	checkMoney(add, []moneyField{
		{"usesOfFunds.landAcquisition", u.LandAcquisition},
		{"usesOfFunds.hardCosts.subtotal", u.HardCosts.Subtotal},
		{"usesOfFunds.hardCosts.total", u.HardCosts.Total},
		{"usesOfFunds.softCosts.subtotal", u.SoftCosts.Subtotal},
		{"usesOfFunds.softCosts.total", u.SoftCosts.Total},
		{"usesOfFunds.financingCosts", u.FinancingCosts},
		{"usesOfFunds.totalProjectCost", u.TotalProjectCost},
	})
	checkBreakdown(add, "usesOfFunds.hardCosts", u.HardCosts)
	checkBreakdown(add, "usesOfFunds.softCosts", u.SoftCosts)
	checkRate(add, "usesOfFunds.hardCosts.contingencyPercent", u.HardCosts.ContingencyPercent)
	checkRate(add, "usesOfFunds.softCosts.contingencyPercent", u.SoftCosts.ContingencyPercent)
	if u.TotalProjectCost > 0 {
		if computed := p.ComputedTotalCost(); math.Abs(computed-u.TotalProjectCost) > costTolerance {
			add(SeverityWarning, "usesOfFunds.totalProjectCost", "%.2f does not match its components (%.2f)", u.TotalProjectCost, computed)
		}
	}

	// 3. Loans
	for i, l := range p.SourcesOfFunds.Loans {
		field := fmt.Sprintf("sourcesOfFunds.loans[%d]", i)
		checkMoney(add, []moneyField{{field + ".principal", l.Principal}})
		if l.TermMonths <= 0 {
			add(SeverityError, field+".termMonths", "must be positive, got %d", l.TermMonths)
		}
		if l.IOMonths < 0 || l.IOMonths > l.TermMonths {
			add(SeverityError, field+".ioMonths", "%d interest-only months exceed the %d month term", l.IOMonths, l.TermMonths)
		}
		checkRate(add, field+".annualRate", l.AnnualRate)
		checkRate(add, field+".originationFeePercent", l.OriginationFeePercent)
	}

	// 4. Equity
	e := p.SourcesOfFunds.Equity
	checkMoney(add, []moneyField{
		{"sourcesOfFunds.equity.totalEquityRequired", e.TotalRequired},
		{"sourcesOfFunds.equity.investorEquity", e.InvestorEquity},
		{"sourcesOfFunds.equity.sponsorEquity", e.SponsorEquity},
	})
	if e.TotalRequired > 0 && e.InvestorEquity+e.SponsorEquity > 0 {
		if sum := e.InvestorEquity + e.SponsorEquity; math.Abs(sum-e.TotalRequired) > costTolerance {
			add(SeverityWarning, "sourcesOfFunds.equity", "investor + sponsor equity (%.2f) does not equal total required (%.2f)", sum, e.TotalRequired)
		}
	}
	checkRate(add, "sourcesOfFunds.equity.preferredReturn", e.PreferredReturn)
	for i, tier := range e.PromoteTiers {
		checkRate(add, fmt.Sprintf("sourcesOfFunds.equity.promoteTiers[%d].hurdleRate", i), tier.HurdleRate)
		if tier.SponsorSplit < 0 || tier.SponsorSplit > 1 {
			add(SeverityError, fmt.Sprintf("sourcesOfFunds.equity.promoteTiers[%d].sponsorSplit", i), "must be a fraction in [0, 1], got %v", tier.SponsorSplit)
		}
	}

	// 5. Revenue
	rev := p.RevenueProjections
	checkMoney(add, []moneyField{
		{"revenueProjections.grossSalePrice", rev.GrossSalePrice},
		{"revenueProjections.rentalRevenue", rev.RentalRevenue},
		{"revenueProjections.saleCosts.commission", rev.SaleCosts.Commission},
		{"revenueProjections.saleCosts.closingCosts", rev.SaleCosts.ClosingCosts},
		{"revenueProjections.saleCosts.concessions", rev.SaleCosts.Concessions},
		{"revenueProjections.saleCosts.warranty", rev.SaleCosts.Warranty},
		{"revenueProjections.netProceeds", rev.NetProceeds},
	})
	if rev.GrossSalePrice >= 0 && rev.RentalRevenue >= 0 && p.GrossRevenue() == 0 {
		add(SeverityWarning, "revenueProjections.grossSalePrice", "no revenue projected")
	}

	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

type addFunc func(sev Severity, field, format string, args ...interface{})

type moneyField struct {
	name  string
	value float64
}

func checkMoney(add addFunc, fields []moneyField) {
	for _, f := range fields {
		if f.value < 0 {
			add(SeverityError, f.name, "must be non-negative, got %.2f", f.value)
		}
	}
}

func checkBreakdown(add addFunc, prefix string, b CostBucket) {
	for i, line := range b.Breakdown {
		checkMoney(add, []moneyField{{fmt.Sprintf("%s.breakdown[%d].amount", prefix, i), line.Amount}})
	}
}

// checkRate rejects negative rates and warns on values that look like
// whole percentages (8.5 instead of 0.085).
func checkRate(add addFunc, field string, v float64) {
	if v < 0 {
		add(SeverityError, field, "must be non-negative, got %v", v)
		return
	}
	if v > 1 {
		add(SeverityWarning, field, "%v looks like a percentage; rates are fractions (0.085 = 8.5%%)", v)
	}
}
