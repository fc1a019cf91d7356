package proforma

// Example returns a complete single-unit build-to-sell pro forma. It backs
// the CLI's template output and is the reference model in tests.
//
// Cost stack: land 120,000 + hard 399,000 (380,000 + 5%) + soft 45,000 +
// financing 40,618 = 604,618, funded 75% by a 453,464 interest-only
// construction loan and 151,154 of equity split 90/10.
func Example() *ProForma {
	return &ProForma{
		ID:       "example-infill-home",
		Name:     "Example infill home",
		Strategy: StrategySell,
		Assumptions: Assumptions{
			Units:                    1,
			SquareFootage:            2400,
			ConstructionMonths:       12,
			TotalProjectMonths:       18,
			BrokerCommissionPercent:  0.05,
			SellerClosingCostPercent: 0.01,
		},
		UsesOfFunds: UsesOfFunds{
			LandAcquisition: 120000,
			HardCosts: CostBucket{
				Breakdown: []CostLine{
					{Label: "Sitework", Amount: 45000},
					{Label: "Vertical construction", Amount: 290000},
					{Label: "Finishes", Amount: 45000},
				},
				Subtotal:           380000,
				ContingencyPercent: 0.05,
				Total:              399000,
			},
			SoftCosts: CostBucket{
				Subtotal: 45000,
				Total:    45000,
			},
			FinancingCosts:   40618,
			TotalProjectCost: 604618,
		},
		SourcesOfFunds: SourcesOfFunds{
			Loans: []Loan{{
				Name:                  "Construction loan",
				Principal:             453464,
				AnnualRate:            0.085,
				TermMonths:            18,
				IOMonths:              18,
				OriginationFeePercent: 0.01,
			}},
			Equity: Equity{
				TotalRequired:   151154,
				InvestorEquity:  136038.6,
				SponsorEquity:   15115.4,
				PreferredReturn: 0.08,
				PromoteTiers: []PromoteTier{
					{HurdleRate: 0.12, SponsorSplit: 0.30},
				},
			},
		},
		RevenueProjections: RevenueProjections{
			GrossSalePrice: 750000,
			SaleCosts: SaleCosts{
				Commission:   37500,
				ClosingCosts: 7500,
				Concessions:  5000,
				Warranty:     2500,
			},
			NetProceeds: 697500,
		},
	}
}
