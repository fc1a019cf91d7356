// Package proforma defines the Pro Forma value object consumed by the
// modeling engine: project assumptions, uses and sources of funds, and
// revenue projections.
//
// A ProForma is treated as an immutable snapshot. Code that needs a
// "what-if" variant must go through Clone or one of the Adjust functions,
// which always return an independent copy.
package proforma

// Strategy is the exit strategy of the project.
type Strategy string

const (
	StrategySell Strategy = "sell"
	StrategyHold Strategy = "hold"
)

// =============================================================================
// PRO FORMA
// =============================================================================

// ProForma is a projected financial model for a real-estate project.
type ProForma struct {
	ID                 string             `json:"id,omitempty"`
	Name               string             `json:"name,omitempty"`
	Strategy           Strategy           `json:"strategy,omitempty"`
	Assumptions        Assumptions        `json:"assumptions"`
	UsesOfFunds        UsesOfFunds        `json:"usesOfFunds"`
	SourcesOfFunds     SourcesOfFunds     `json:"sourcesOfFunds"`
	RevenueProjections RevenueProjections `json:"revenueProjections"`
}

// Assumptions are project-level scalars.
type Assumptions struct {
	Units                    int     `json:"units"`
	SquareFootage            float64 `json:"squareFootage"`
	ConstructionMonths       int     `json:"constructionMonths"`
	TotalProjectMonths       int     `json:"totalProjectMonths"`
	BrokerCommissionPercent  float64 `json:"brokerCommissionPercent"`
	SellerClosingCostPercent float64 `json:"sellerClosingCostPercent"`
}

// =============================================================================
// USES OF FUNDS
// =============================================================================

// UsesOfFunds lists where project capital goes.
type UsesOfFunds struct {
	LandAcquisition  float64    `json:"landAcquisition"`
	HardCosts        CostBucket `json:"hardCosts"`
	SoftCosts        CostBucket `json:"softCosts"`
	FinancingCosts   float64    `json:"financingCosts"`
	TotalProjectCost float64    `json:"totalProjectCost"`
}

// CostLine is one item of a cost breakdown.
type CostLine struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// CostBucket is a hard- or soft-cost group with optional line items and a
// contingency applied on top of the base.
type CostBucket struct {
	Breakdown          []CostLine `json:"breakdown,omitempty"`
	Subtotal           float64    `json:"subtotal"`
	ContingencyPercent float64    `json:"contingencyPercent"`
	Total              float64    `json:"total"`
}

// Base is Subtotal, or the sum of Breakdown when no subtotal was supplied.
func (b CostBucket) Base() float64 {
	if b.Subtotal > 0 {
		return b.Subtotal
	}
	var sum float64
	for _, line := range b.Breakdown {
		sum += line.Amount
	}
	return sum
}

// Contingency is the contingency dollar amount on top of Base.
func (b CostBucket) Contingency() float64 {
	return b.Base() * b.ContingencyPercent
}

// Amount is the bucket total including contingency. A bucket that only
// carries Total (no base, no lines) reports Total as given.
func (b CostBucket) Amount() float64 {
	base := b.Base()
	if base > 0 {
		return base * (1 + b.ContingencyPercent)
	}
	return b.Total
}

// =============================================================================
// SOURCES OF FUNDS
// =============================================================================

// SourcesOfFunds is the debt and equity stack.
type SourcesOfFunds struct {
	Loans  []Loan `json:"loans"`
	Equity Equity `json:"equity"`
}

// Loan is a single debt facility. Rates are fractions (0.085 = 8.5%).
type Loan struct {
	Name                  string  `json:"name,omitempty"`
	Principal             float64 `json:"principal"`
	AnnualRate            float64 `json:"annualRate"`
	TermMonths            int     `json:"termMonths"`
	IOMonths              int     `json:"ioMonths"`
	OriginationFeePercent float64 `json:"originationFeePercent"`
}

// OriginationFee is the up-front fee in dollars.
func (l Loan) OriginationFee() float64 {
	return l.Principal * l.OriginationFeePercent
}

// Equity is the equity structure and its promote.
type Equity struct {
	TotalRequired   float64       `json:"totalEquityRequired"`
	InvestorEquity  float64       `json:"investorEquity"`
	SponsorEquity   float64       `json:"sponsorEquity"`
	PreferredReturn float64       `json:"preferredReturn"`
	PromoteTiers    []PromoteTier `json:"promoteTiers,omitempty"`
}

// PromoteTier is a profit-split tier. SponsorSplit is the sponsor's fraction.
type PromoteTier struct {
	HurdleRate   float64 `json:"hurdleRate"`
	SponsorSplit float64 `json:"sponsorSplit"`
}

// InvestorShare is the investor fraction of contributed equity. With no
// split recorded the investor is treated as the sole contributor.
func (e Equity) InvestorShare() float64 {
	sum := e.InvestorEquity + e.SponsorEquity
	if sum <= 0 {
		return 1
	}
	return e.InvestorEquity / sum
}

// =============================================================================
// REVENUE
// =============================================================================

// RevenueProjections describe the exit.
type RevenueProjections struct {
	GrossSalePrice float64   `json:"grossSalePrice"`
	RentalRevenue  float64   `json:"rentalRevenue,omitempty"`
	SaleCosts      SaleCosts `json:"saleCosts"`
	NetProceeds    float64   `json:"netProceeds"`
}

// SaleCosts are the costs of selling.
type SaleCosts struct {
	Commission   float64 `json:"commission"`
	ClosingCosts float64 `json:"closingCosts"`
	Concessions  float64 `json:"concessions"`
	Warranty     float64 `json:"warranty"`
}

// Total sums all sale-cost components.
func (s SaleCosts) Total() float64 {
	return s.Commission + s.ClosingCosts + s.Concessions + s.Warranty
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// GrossRevenue is the sale price, or rental revenue for hold strategies
// that carry no sale price.
func (p *ProForma) GrossRevenue() float64 {
	if p.RevenueProjections.GrossSalePrice > 0 {
		return p.RevenueProjections.GrossSalePrice
	}
	return p.RevenueProjections.RentalRevenue
}

// NetRevenue uses NetProceeds when supplied, otherwise gross revenue less
// sale costs.
func (p *ProForma) NetRevenue() float64 {
	if p.RevenueProjections.NetProceeds > 0 {
		return p.RevenueProjections.NetProceeds
	}
	return p.GrossRevenue() - p.RevenueProjections.SaleCosts.Total()
}

// ComputedTotalCost sums land, hard and soft costs (with contingency) and
// financing costs.
func (p *ProForma) ComputedTotalCost() float64 {
	u := p.UsesOfFunds
	return u.LandAcquisition + u.HardCosts.Amount() + u.SoftCosts.Amount() + u.FinancingCosts
}

// ProjectCost is TotalProjectCost when supplied, otherwise the computed sum.
func (p *ProForma) ProjectCost() float64 {
	if p.UsesOfFunds.TotalProjectCost > 0 {
		return p.UsesOfFunds.TotalProjectCost
	}
	return p.ComputedTotalCost()
}

// TotalDebt sums loan principal.
func (p *ProForma) TotalDebt() float64 {
	var total float64
	for _, l := range p.SourcesOfFunds.Loans {
		total += l.Principal
	}
	return total
}

// TotalEquity is the required equity, falling back to the investor and
// sponsor contributions.
func (p *ProForma) TotalEquity() float64 {
	e := p.SourcesOfFunds.Equity
	if e.TotalRequired > 0 {
		return e.TotalRequired
	}
	return e.InvestorEquity + e.SponsorEquity
}

// ProjectMonths is the total project duration, falling back to the
// construction period.
func (p *ProForma) ProjectMonths() int {
	if p.Assumptions.TotalProjectMonths > 0 {
		return p.Assumptions.TotalProjectMonths
	}
	return p.Assumptions.ConstructionMonths
}

// PrimaryLoan returns the first loan, if any.
func (p *ProForma) PrimaryLoan() (Loan, bool) {
	if len(p.SourcesOfFunds.Loans) == 0 {
		return Loan{}, false
	}
	return p.SourcesOfFunds.Loans[0], true
}
