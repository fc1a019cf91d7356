package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"proforma_engine/pkg/core/proforma"
)

// WaterfallTier is one step of the distribution waterfall.
type WaterfallTier struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	ToInvestor float64 `json:"investorShare"`
	ToSponsor  float64 `json:"sponsorShare"`
}

// WaterfallResult is the full distribution of a project's proceeds.
type WaterfallResult struct {
	Tiers            []WaterfallTier `json:"tiers"`
	TotalToInvestor  float64         `json:"totalToInvestor"`
	TotalToSponsor   float64         `json:"totalToSponsor"`
	InvestorMultiple float64         `json:"investorMultiple"`
	SponsorMultiple  float64         `json:"sponsorMultiple"`
	TotalAvailable   float64         `json:"totalAvailable"`
}

// Waterfall distributes equity plus netProfit between investor and sponsor:
//
//  1. Return of capital, pro rata, up to total equity.
//  2. Preferred return: PreferredReturn × equity × project years, simple
//     interest, pro rata.
//  3. Promote tiers in order. A tier takes the whole remaining pool and
//     splits it SponsorSplit to the sponsor, the rest to the investor, so
//     only the first tier with funds left pays out.
//  4. With no promote tiers, any residual is split pro rata.
//
// The walk stops as soon as the pool is empty. Pool arithmetic is decimal
// and the sponsor's share of each tier is the remainder of the investor's,
// so the totals always add up to TotalAvailable.
func (c *Calculator) Waterfall(p *proforma.ProForma, netProfit float64) WaterfallResult {
	eq := p.SourcesOfFunds.Equity
	totalEquity := decimal.NewFromFloat(p.TotalEquity())
	investorShare := decimal.NewFromFloat(eq.InvestorShare())

	pool := totalEquity.Add(decimal.NewFromFloat(netProfit))
	if pool.IsNegative() {
		pool = decimal.Zero
	}
	res := WaterfallResult{TotalAvailable: pool.InexactFloat64()}

	var toInvestor, toSponsor decimal.Decimal
	pay := func(name string, amount, sponsorFraction decimal.Decimal) {
		amount = decimal.Min(amount, pool)
		if !amount.IsPositive() {
			return
		}
		sponsor := amount.Mul(sponsorFraction)
		investor := amount.Sub(sponsor)
		pool = pool.Sub(amount)
		toInvestor = toInvestor.Add(investor)
		toSponsor = toSponsor.Add(sponsor)
		res.Tiers = append(res.Tiers, WaterfallTier{
			Name:       name,
			Amount:     amount.InexactFloat64(),
			ToInvestor: investor.InexactFloat64(),
			ToSponsor:  sponsor.InexactFloat64(),
		})
	}
	sponsorProRata := decimal.NewFromInt(1).Sub(investorShare)

	// 1. Return of capital
	pay("Return of Capital", totalEquity, sponsorProRata)

	// 2. Preferred return
	years := decimal.NewFromInt(int64(p.ProjectMonths())).Div(decimal.NewFromInt(12))
	pref := decimal.NewFromFloat(eq.PreferredReturn).Mul(totalEquity).Mul(years)
	pay("Preferred Return", pref, sponsorProRata)

	// 3. Promote tiers
	for i, tier := range eq.PromoteTiers {
		if !pool.IsPositive() {
			break
		}
		name := fmt.Sprintf("Promote Tier %d (%.1f%% hurdle)", i+1, tier.HurdleRate*100)
		pay(name, pool, decimal.NewFromFloat(tier.SponsorSplit))
	}

	// 4. Residual
	if len(eq.PromoteTiers) == 0 && pool.IsPositive() {
		pay("Residual Split", pool, sponsorProRata)
	}

	res.TotalToInvestor = toInvestor.InexactFloat64()
	res.TotalToSponsor = toSponsor.InexactFloat64()
	// Multiples are on the equity attributed to each side, which is all of
	// it for the investor when no split is recorded.
	res.InvestorMultiple = safeDiv(res.TotalToInvestor, totalEquity.Mul(investorShare).InexactFloat64())
	res.SponsorMultiple = safeDiv(res.TotalToSponsor, totalEquity.Mul(sponsorProRata).InexactFloat64())
	return res
}
