// Package report renders an engine.Analysis as a Markdown investment memo,
// optionally converted to HTML.
package report

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"proforma_engine/pkg/core/engine"
	"proforma_engine/pkg/core/proforma"
	"proforma_engine/pkg/core/utils"
)

// ErrTableMismatch means a rendered table did not parse back as a table.
var ErrTableMismatch = errors.New("rendered table count mismatch")

// Options controls which sections are rendered.
type Options struct {
	// Title overrides the pro forma name as the heading.
	Title string

	// CashFlows appends the full monthly cash-flow table.
	CashFlows bool
}

// Markdown renders the memo. Every table written is parsed back with the
// GFM parser; a mismatch returns ErrTableMismatch.
func Markdown(p *proforma.ProForma, a *engine.Analysis, opts Options) (string, error) {
	w := &writer{}

	title := opts.Title
	if title == "" {
		title = p.Name
	}
	if title == "" {
		title = "Pro Forma"
	}
	w.line("# %s", escape(title))
	w.line("")
	w.line("Strategy: **%s** · %d months (%d construction) · %d units · %s sf",
		strategyName(p.Strategy), p.ProjectMonths(), p.Assumptions.ConstructionMonths,
		p.Assumptions.Units, number(p.Assumptions.SquareFootage))
	w.line("")

	writeIssues(w, a.Issues)
	writeSourcesAndUses(w, p)
	writeReturns(w, a.Metrics)
	writeCashSummary(w, a.CashSummary)
	writeWaterfall(w, a.Waterfall)
	writeLoans(w, a.Loans)
	writeSensitivity(w, a.Sensitivity)
	if opts.CashFlows {
		writeCashFlows(w, a.CashFlows)
	}

	md := w.String()
	if got := utils.CountTables(md); got != w.tables {
		return "", fmt.Errorf("%w: wrote %d, parsed %d", ErrTableMismatch, w.tables, got)
	}
	return md, nil
}

// HTML renders the memo as a standalone HTML document.
func HTML(p *proforma.ProForma, a *engine.Analysis, opts Options) (string, error) {
	md, err := Markdown(p, a, opts)
	if err != nil {
		return "", err
	}
	body, err := utils.RenderHTML(md)
	if err != nil {
		return "", err
	}

	want := utils.CountTables(md)
	tables, err := ParseTables(body)
	if err != nil {
		return "", err
	}
	if len(tables) != want {
		return "", fmt.Errorf("%w: markdown has %d, html has %d", ErrTableMismatch, want, len(tables))
	}

	title := opts.Title
	if title == "" {
		title = p.Name
	}
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(title))
	sb.WriteString("</head>\n<body>\n")
	sb.WriteString(body)
	sb.WriteString("</body>\n</html>\n")
	return sb.String(), nil
}

// =============================================================================
// SECTIONS
// =============================================================================

func writeIssues(w *writer, issues []proforma.Issue) {
	if len(issues) == 0 {
		return
	}
	w.line("## Validation")
	w.line("")
	for _, i := range issues {
		w.line("- **%s** `%s`: %s", i.Severity, i.Field, escape(i.Message))
	}
	w.line("")
}

func writeSourcesAndUses(w *writer, p *proforma.ProForma) {
	u := p.UsesOfFunds
	w.line("## Sources & Uses")
	w.line("")

	rows := [][]string{
		{"Land acquisition", usd(u.LandAcquisition)},
		{"Hard costs", usd(u.HardCosts.Amount())},
		{"Soft costs", usd(u.SoftCosts.Amount())},
		{"Financing costs", usd(u.FinancingCosts)},
		{"**Total project cost**", "**" + usd(p.ProjectCost()) + "**"},
	}
	for _, l := range p.SourcesOfFunds.Loans {
		rows = append(rows, []string{"Loan: " + escape(l.Name), usd(l.Principal)})
	}
	rows = append(rows,
		[]string{"Equity", usd(p.TotalEquity())},
		[]string{"**Total sources**", "**" + usd(p.TotalDebt()+p.TotalEquity()) + "**"},
	)
	w.table([]string{"Item", "Amount"}, []bool{false, true}, rows)
}

func writeReturns(w *writer, m engine.ProjectMetrics) {
	w.line("## Returns")
	w.line("")
	w.table([]string{"Metric", "Value"}, []bool{false, true}, [][]string{
		{"Gross revenue", usd(m.GrossRevenue)},
		{"Net revenue", usd(m.NetRevenue)},
		{"Gross profit", usd(m.GrossProfit)},
		{"Gross margin", percent(m.GrossMargin)},
		{"Estimated interest", usd(m.TotalInterest)},
		{"Loan fees", usd(m.TotalLoanFees)},
		{"Net profit", usd(m.NetProfit)},
		{"Net margin", percent(m.NetMargin)},
		{"Loan to cost", percent(m.LoanToCost)},
		{"Project IRR", percent(m.ProjectIRR)},
		{"Equity multiple", multiple(m.EquityMultiple)},
		{"Cash on cash", percent(m.CashOnCash)},
		{"NPV", usd(m.NPV)},
		{"Cost per sf", usd(m.CostPerSquareFoot)},
		{"Profit per unit", usd(m.ProfitPerUnit)},
	})
	if !m.IRRConverged && m.ProjectIRR != 0 {
		w.line("> IRR did not converge; the figure above is the solver's last estimate.")
		w.line("")
	}
}

func writeCashSummary(w *writer, s engine.CashFlowSummary) {
	if s.Months == 0 {
		return
	}
	w.line("## Cash Flow Summary")
	w.line("")
	w.table([]string{"Measure", "Value"}, []bool{false, true}, [][]string{
		{"Peak loan balance", usd(s.PeakLoanBalance)},
		{"Debt drawn", usd(s.TotalDebtDrawn)},
		{"Interest paid", usd(s.TotalInterest)},
		{"Equity contributed", usd(s.TotalEquityContributed)},
		{"Equity returned", usd(s.TotalEquityReturned)},
		{"Distributions", usd(s.TotalDistributions)},
		{"Equity multiple", multiple(s.EquityMultiple)},
		{"Equity IRR", percent(s.EquityIRR)},
	})
}

func writeWaterfall(w *writer, wf engine.WaterfallResult) {
	w.line("## Distribution Waterfall")
	w.line("")
	if len(wf.Tiers) == 0 {
		w.line("Nothing to distribute.")
		w.line("")
		return
	}

	rows := make([][]string, 0, len(wf.Tiers)+1)
	for _, t := range wf.Tiers {
		rows = append(rows, []string{escape(t.Name), usd(t.Amount), usd(t.ToInvestor), usd(t.ToSponsor)})
	}
	rows = append(rows, []string{"**Total**", "**" + usd(wf.TotalAvailable) + "**",
		"**" + usd(wf.TotalToInvestor) + "**", "**" + usd(wf.TotalToSponsor) + "**"})
	w.table([]string{"Tier", "Amount", "Investor", "Sponsor"}, []bool{false, true, true, true}, rows)
	w.line("Investor multiple %s, sponsor multiple %s.", multiple(wf.InvestorMultiple), multiple(wf.SponsorMultiple))
	w.line("")
}

func writeLoans(w *writer, loans []engine.LoanSchedule) {
	if len(loans) == 0 {
		return
	}
	w.line("## Loans")
	w.line("")
	rows := make([][]string, 0, len(loans))
	for _, l := range loans {
		rows = append(rows, []string{
			escape(l.Loan.Name),
			usd(l.Loan.Principal),
			percent(l.Loan.AnnualRate),
			fmt.Sprintf("%d / %d IO", l.Loan.TermMonths, l.Loan.IOMonths),
			usd(l.Summary.TotalInterest),
			usd(l.Summary.EndingBalance),
		})
	}
	w.table([]string{"Loan", "Principal", "Rate", "Term", "Interest", "Balance at maturity"},
		[]bool{false, true, true, true, true, true}, rows)
}

func writeSensitivity(w *writer, s engine.SensitivityResult) {
	w.line("## Sensitivity")
	w.line("")

	oneWay := func(heading string, rows []engine.SensitivityRow) {
		if len(rows) == 0 {
			return
		}
		w.line("### %s", heading)
		w.line("")
		out := make([][]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, []string{
				r.Label,
				usd(r.NetProfit),
				usd(r.ProfitChange),
				percent(r.ProjectIRR),
				multiple(r.EquityMultiple),
			})
		}
		w.table([]string{"Change", "Net profit", "vs. base", "IRR", "Multiple"},
			[]bool{false, true, true, true, true}, out)
	}
	oneWay("Sale price", s.SalePriceSensitivity)
	oneWay("Hard costs", s.CostSensitivity)
	oneWay("Timeline", s.TimelineSensitivity)

	if len(s.TwoVarMatrix) == 0 {
		return
	}

	// Cells are row-major: sale price outer, cost inner.
	var costs []float64
	for _, c := range s.TwoVarMatrix {
		if c.SalePriceDelta != s.TwoVarMatrix[0].SalePriceDelta {
			break
		}
		costs = append(costs, c.CostDelta)
	}
	headers := []string{"Sale / Cost"}
	align := []bool{false}
	for _, cd := range costs {
		headers = append(headers, signedPercent(cd))
		align = append(align, true)
	}
	var rows [][]string
	for i := 0; i < len(s.TwoVarMatrix); i += len(costs) {
		row := []string{signedPercent(s.TwoVarMatrix[i].SalePriceDelta)}
		for _, c := range s.TwoVarMatrix[i : i+len(costs)] {
			row = append(row, percent(c.EquityIRR))
		}
		rows = append(rows, row)
	}
	w.line("### Project IRR: sale price × hard costs")
	w.line("")
	w.table(headers, align, rows)
}

func writeCashFlows(w *writer, periods []engine.CashFlowPeriod) {
	if len(periods) == 0 {
		return
	}
	w.line("## Monthly Cash Flows")
	w.line("")
	rows := make([][]string, 0, len(periods))
	for _, cf := range periods {
		costs := cf.LandPayment + cf.HardCostPayment + cf.SoftCostPayment + cf.FinancingCostPayment
		rows = append(rows, []string{
			fmt.Sprintf("%d", cf.Month),
			usd(cf.EquityContribution),
			usd(cf.DebtDraw),
			usd(costs),
			usd(cf.InterestPayment),
			usd(cf.SaleProceeds),
			usd(cf.EquityReturned + cf.Distributions),
			usd(cf.LoanBalance),
		})
	}
	w.table([]string{"Month", "Equity", "Draw", "Costs", "Interest", "Sale", "To equity", "Loan balance"},
		[]bool{true, true, true, true, true, true, true, true}, rows)
}

func strategyName(s proforma.Strategy) string {
	if s == "" {
		return string(proforma.StrategySell)
	}
	return string(s)
}
