package report

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Table is one HTML table read back from a rendered report.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Cell returns the value in the row whose first cell equals label, at the
// given column. ok is false when no such row or column exists.
func (t Table) Cell(label string, col int) (string, bool) {
	for _, row := range t.Rows {
		if len(row) > col && len(row) > 0 && row[0] == label {
			return row[col], true
		}
	}
	return "", false
}

// ParseTables extracts every table in an HTML document, in document order.
func ParseTables(htmlDoc string) ([]Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlDoc))
	if err != nil {
		return nil, fmt.Errorf("parse report html: %w", err)
	}

	var tables []Table
	doc.Find("table").Each(func(_ int, s *goquery.Selection) {
		var t Table
		s.Find("thead th").Each(func(_ int, th *goquery.Selection) {
			t.Headers = append(t.Headers, strings.TrimSpace(th.Text()))
		})
		s.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
			var row []string
			tr.Find("td").Each(func(_ int, td *goquery.Selection) {
				row = append(row, strings.TrimSpace(td.Text()))
			})
			t.Rows = append(t.Rows, row)
		})
		tables = append(tables, t)
	})
	return tables, nil
}
