package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/etnz/finance"
	"github.com/etnz/finance/book"
	md "github.com/nao1215/markdown"
)

// cell makes s safe inside a table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.Join(strings.Fields(s), " ")
}

// TransactionsMarkdown renders a page of the transaction list.
func TransactionsMarkdown(p book.Page) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Transactions")
	if p.Total == 0 {
		doc.PlainText("No transactions yet.")
		return doc.String()
	}

	rows := make([][]string, 0, len(p.Transactions))
	for _, tx := range p.Transactions {
		signed := tx.Amount
		if tx.Kind.Outflow() {
			signed = signed.Neg()
		}
		rows = append(rows, []string{
			tx.Date.String(),
			string(tx.Kind),
			cell(tx.Category),
			cell(tx.Note),
			finance.FormatMoney(signed, tx.Currency),
			tx.ID,
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Date", "Kind", "Category", "Note", "Amount", "ID"},
		Rows:   rows,
	})
	doc.PlainText(fmt.Sprintf("Page %d of %d, %d transactions.", p.Number+1, p.Pages, p.Total))
	return doc.String()
}
