package book

import (
	"context"
	"io"

	"github.com/etnz/finance"
	"github.com/etnz/finance/date"
	"github.com/shopspring/decimal"
)

// Overview is the dashboard of a period.
type Overview struct {
	Range          date.Range
	Summary        finance.Summary
	PortfolioValue decimal.Decimal
	NetWorth       decimal.Decimal
	// AssetPurchases is the amount spent buying holdings during the period.
	AssetPurchases decimal.Decimal
	Holdings       int
}

// Overview summarizes the current period p.
func (b *Book) Overview(ctx context.Context, p date.Period) (Overview, error) {
	txs, err := b.transactionsByDate(ctx)
	if err != nil {
		return Overview{}, err
	}
	hs, err := b.Holdings(ctx)
	if err != nil {
		return Overview{}, err
	}
	now := b.now()
	s := finance.SummarizeAt(txs, p, now)
	pv := finance.PortfolioValue(hs)
	return Overview{
		Range:          date.NewRange(p, now),
		Summary:        s,
		PortfolioValue: pv,
		NetWorth:       finance.NetWorth(s, pv),
		AssetPurchases: finance.SumByKind(finance.FilterByPeriod(txs, p, now), finance.Asset),
		Holdings:       len(hs),
	}, nil
}

// Report is the breakdown of a period.
type Report struct {
	Range    date.Range
	Expenses []finance.CategoryTotal
	Incomes  []finance.CategoryTotal
	Trend    []finance.TrendPoint
	Savings  decimal.Decimal // all time saving total
}

// Report breaks down the current period p by category and by day.
func (b *Book) Report(ctx context.Context, p date.Period) (Report, error) {
	txs, err := b.transactionsByDate(ctx)
	if err != nil {
		return Report{}, err
	}
	now := b.now()
	in := finance.FilterByPeriod(txs, p, now)
	return Report{
		Range:    date.NewRange(p, now),
		Expenses: finance.ByCategory(in, finance.Expense),
		Incomes:  finance.ByCategory(in, finance.Income),
		Trend:    finance.DailyTrend(in),
		Savings:  finance.SavingsTotal(txs),
	}, nil
}

// Export writes all transactions, oldest first, in format f.
func (b *Book) Export(ctx context.Context, w io.Writer, f finance.Format) error {
	txs, err := b.transactionsByDate(ctx)
	if err != nil {
		return err
	}
	return finance.Export(w, txs, f)
}

// Import reads transactions in JSON or CSV and upserts them.
// Nothing is written unless every record is valid.
func (b *Book) Import(ctx context.Context, r io.Reader) (int, error) {
	txs, err := finance.Import(r)
	if err != nil {
		return 0, err
	}
	if len(txs) == 0 {
		return 0, nil
	}
	if err := b.transactions.Put(ctx, txs...); err != nil {
		return 0, err
	}
	b.log.WithField("count", len(txs)).Info("transactions imported")
	return len(txs), nil
}
