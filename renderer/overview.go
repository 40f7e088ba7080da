// Package renderer turns the views of a finance book into markdown documents.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/finance"
	"github.com/etnz/finance/book"
	"github.com/etnz/finance/date"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// money formats amounts of the default currency.
func money(d decimal.Decimal) string { return finance.FormatMoney(d, finance.DefaultCurrency) }

func periodTitle(r date.Range) string {
	if r.Period == date.All {
		return "All-Time"
	}
	return fmt.Sprintf("%s %s", r.Period.ToDateName(), r.Identifier())
}

// OverviewMarkdown renders the dashboard of a period.
func OverviewMarkdown(o book.Overview) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Overview: %s", periodTitle(o.Range)))
	s := o.Summary
	doc.Table(md.TableSet{
		Header: []string{"Figure", "Amount"},
		Rows: [][]string{
			{"Income", money(s.Income)},
			{"Expenses", money(s.Expense)},
			{"Savings", money(s.Saving)},
			{"Asset purchases", money(o.AssetPurchases)},
			{"Balance", money(s.Balance)},
			{"Net worth change", money(s.NetWorthDelta)},
			{"Portfolio value", money(o.PortfolioValue)},
			{"Net worth", money(o.NetWorth)},
		},
	})
	doc.PlainText(fmt.Sprintf("%d transactions, %d holdings.", o.Summary.Count, o.Holdings))
	return doc.String()
}
