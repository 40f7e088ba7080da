package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/finance"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

func percent(num, den decimal.Decimal) string {
	if den.IsZero() {
		return "-"
	}
	return num.Div(den).Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// HoldingsMarkdown renders the portfolio.
func HoldingsMarkdown(hs []finance.Holding) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Holdings")
	if len(hs) == 0 {
		doc.PlainText("No holdings.")
		return doc.String()
	}

	rows := make([][]string, 0, len(hs)+1)
	cost, pl := decimal.Zero, decimal.Zero
	for _, h := range hs {
		price := "-"
		if h.CurrentPrice.Valid {
			price = finance.FormatMoney(h.CurrentPrice.Decimal, h.Currency)
		}
		rows = append(rows, []string{
			cell(h.Label()),
			h.Category,
			h.Quantity.String(),
			finance.FormatMoney(h.AvgCost, h.Currency),
			price,
			finance.FormatMoney(h.Value(), h.Currency),
			finance.FormatMoney(h.PL(), h.Currency),
			percent(h.PL(), h.Cost()),
			h.ID,
		})
		cost = cost.Add(h.Cost())
		pl = pl.Add(h.PL())
	}
	total := finance.PortfolioValue(hs)
	rows = append(rows, []string{"**Total**", "", "", "", "", money(total), money(pl), percent(pl, cost), ""})

	doc.Table(md.TableSet{
		Header: []string{"Holding", "Category", "Quantity", "Avg cost", "Price", "Value", "P/L", "P/L %", "ID"},
		Rows:   rows,
	})
	doc.PlainText(fmt.Sprintf("Holdings without a price are valued at their average cost. Updated %s.", latest(hs)))
	return doc.String()
}

func latest(hs []finance.Holding) finance.Timestamp {
	var t finance.Timestamp
	for _, h := range hs {
		t = max(t, h.UpdatedAt)
	}
	return t
}
