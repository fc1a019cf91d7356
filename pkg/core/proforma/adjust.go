package proforma

// Clone returns a deep copy. Slices are copied element by element so the
// clone shares no backing arrays with p. New reference-typed fields must be
// added here.
func (p *ProForma) Clone() *ProForma {
	if p == nil {
		return nil
	}
	c := *p
	c.UsesOfFunds.HardCosts = p.UsesOfFunds.HardCosts.clone()
	c.UsesOfFunds.SoftCosts = p.UsesOfFunds.SoftCosts.clone()
	if p.SourcesOfFunds.Loans != nil {
		c.SourcesOfFunds.Loans = append([]Loan(nil), p.SourcesOfFunds.Loans...)
	}
	if p.SourcesOfFunds.Equity.PromoteTiers != nil {
		c.SourcesOfFunds.Equity.PromoteTiers = append([]PromoteTier(nil), p.SourcesOfFunds.Equity.PromoteTiers...)
	}
	return &c
}

func (b CostBucket) clone() CostBucket {
	if b.Breakdown != nil {
		b.Breakdown = append([]CostLine(nil), b.Breakdown...)
	}
	return b
}

// Recalculate re-derives dependent totals in place: bucket totals, sale
// costs driven by percentage assumptions, net proceeds and total project
// cost. Only call it on a copy you own.
func (p *ProForma) Recalculate() {
	p.recalculateCosts()
	p.recalculateProceeds()
}

func (p *ProForma) recalculateCosts() {
	for _, b := range []*CostBucket{&p.UsesOfFunds.HardCosts, &p.UsesOfFunds.SoftCosts} {
		if b.Base() > 0 {
			b.Total = b.Amount()
		}
	}
	p.UsesOfFunds.TotalProjectCost = p.ComputedTotalCost()
}

func (p *ProForma) recalculateProceeds() {
	rev := &p.RevenueProjections
	price := rev.GrossSalePrice
	if price <= 0 {
		return
	}
	p.recalculateSaleCosts()
	rev.NetProceeds = price - rev.SaleCosts.Total()
}

// recalculateSaleCosts re-derives commission and closing costs from their
// percentage assumptions, when set.
func (p *ProForma) recalculateSaleCosts() {
	rev := &p.RevenueProjections
	if p.Assumptions.BrokerCommissionPercent > 0 {
		rev.SaleCosts.Commission = rev.GrossSalePrice * p.Assumptions.BrokerCommissionPercent
	}
	if p.Assumptions.SellerClosingCostPercent > 0 {
		rev.SaleCosts.ClosingCosts = rev.GrossSalePrice * p.Assumptions.SellerClosingCostPercent
	}
}

// impliedSaleCosts is the part of gross less net proceeds that no sale-cost
// component accounts for. It is 0 when NetProceeds is not supplied.
func (p *ProForma) impliedSaleCosts() float64 {
	rev := p.RevenueProjections
	if rev.NetProceeds <= 0 || rev.GrossSalePrice <= 0 {
		return 0
	}
	return rev.GrossSalePrice - rev.NetProceeds - rev.SaleCosts.Total()
}

// =============================================================================
// ADJUSTERS (copy-on-perturb)
// =============================================================================

// AdjustSalePrice returns a copy with the sale price scaled by (1+delta).
// Commission and closing costs follow the price: re-derived from their
// percentage assumptions when set, scaled proportionally otherwise.
// Sale costs implied by supplied net proceeds (gross - net beyond the
// listed components) scale with the price too, so a zero delta leaves net
// proceeds unchanged.
func AdjustSalePrice(p *ProForma, delta float64) *ProForma {
	c := p.Clone()
	factor := 1 + delta
	rev := &c.RevenueProjections

	if rev.GrossSalePrice > 0 {
		implied := c.impliedSaleCosts()
		rev.GrossSalePrice *= factor
		if c.Assumptions.BrokerCommissionPercent == 0 {
			rev.SaleCosts.Commission *= factor
		}
		if c.Assumptions.SellerClosingCostPercent == 0 {
			rev.SaleCosts.ClosingCosts *= factor
		}
		c.recalculateSaleCosts()
		rev.NetProceeds = rev.GrossSalePrice - rev.SaleCosts.Total() - implied*factor
	} else {
		rev.RentalRevenue *= factor
		if rev.NetProceeds > 0 {
			rev.NetProceeds *= factor
		}
	}
	return c
}

// AdjustHardCosts returns a copy with hard costs scaled by (1+delta) and
// total project cost recomputed. Financing is left unchanged, so the extra
// cost lands on the equity's return.
func AdjustHardCosts(p *ProForma, delta float64) *ProForma {
	c := p.Clone()
	factor := 1 + delta
	hc := &c.UsesOfFunds.HardCosts

	hc.Subtotal *= factor
	hc.Total *= factor
	for i := range hc.Breakdown {
		hc.Breakdown[i].Amount *= factor
	}

	c.recalculateCosts()
	return c
}

// AdjustTimeline returns a copy with the total and construction durations
// shifted by deltaMonths, each floored at one month.
func AdjustTimeline(p *ProForma, deltaMonths int) *ProForma {
	c := p.Clone()
	a := &c.Assumptions

	if a.TotalProjectMonths > 0 {
		a.TotalProjectMonths = max(1, a.TotalProjectMonths+deltaMonths)
	}
	if a.ConstructionMonths > 0 {
		a.ConstructionMonths = max(1, a.ConstructionMonths+deltaMonths)
	}
	return c
}
