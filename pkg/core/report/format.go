package report

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// writer accumulates Markdown and counts the tables it emits.
type writer struct {
	sb     strings.Builder
	tables int
}

func (w *writer) line(format string, args ...interface{}) {
	fmt.Fprintf(&w.sb, format, args...)
	w.sb.WriteByte('\n')
}

// table writes a GFM table followed by a blank line. rightAlign marks
// numeric columns. Tables without rows are skipped.
func (w *writer) table(headers []string, rightAlign []bool, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	w.sb.WriteString("| " + strings.Join(headers, " | ") + " |\n")

	delims := make([]string, len(headers))
	for i := range headers {
		delims[i] = "---"
		if i < len(rightAlign) && rightAlign[i] {
			delims[i] = "---:"
		}
	}
	w.sb.WriteString("| " + strings.Join(delims, " | ") + " |\n")

	for _, row := range rows {
		w.sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	w.sb.WriteByte('\n')
	w.tables++
}

func (w *writer) String() string {
	return w.sb.String()
}

// usd formats a dollar amount with cents and thousands separators.
func usd(v float64) string {
	cents := decimal.NewFromFloat(v).Round(2).Shift(2).IntPart()
	return money.New(cents, money.USD).Display()
}

// plain formats whole quantities with thousands separators and no symbol.
var plain = money.NewFormatter(0, ".", ",", "", "1")

func number(v float64) string {
	return plain.Format(decimal.NewFromFloat(v).Round(0).IntPart())
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

func signedPercent(v float64) string {
	return fmt.Sprintf("%+.1f%%", v*100)
}

func multiple(v float64) string {
	return fmt.Sprintf("%.2fx", v)
}

// escape keeps free text from breaking table cells.
func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
