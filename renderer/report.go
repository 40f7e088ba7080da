package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/finance"
	"github.com/etnz/finance/book"
	md "github.com/nao1215/markdown"
)

func categoryTable(doc *md.Markdown, totals []finance.CategoryTotal) {
	rows := make([][]string, 0, len(totals))
	for _, ct := range totals {
		rows = append(rows, []string{cell(ct.Category), money(ct.Total)})
	}
	doc.Table(md.TableSet{Header: []string{"Category", "Total"}, Rows: rows})
}

// ReportMarkdown renders the breakdown of a period.
func ReportMarkdown(r book.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Report: %s", periodTitle(r.Range)))
	doc.PlainText(fmt.Sprintf("Total savings: %s", money(r.Savings)))

	doc.H2("Expenses by category")
	if len(r.Expenses) == 0 {
		doc.PlainText("No expenses.")
	} else {
		categoryTable(doc, r.Expenses)
	}

	doc.H2("Income by category")
	if len(r.Incomes) == 0 {
		doc.PlainText("No income.")
	} else {
		categoryTable(doc, r.Incomes)
	}

	doc.H2("Daily trend")
	if len(r.Trend) == 0 {
		doc.PlainText("No activity.")
		return doc.String()
	}
	rows := make([][]string, 0, len(r.Trend))
	for _, p := range r.Trend {
		rows = append(rows, []string{p.Day, money(p.Income), money(p.Expense), money(p.Saving)})
	}
	doc.Table(md.TableSet{
		Header: []string{"Day", "Income", "Expenses", "Savings"},
		Rows:   rows,
	})
	return doc.String()
}
