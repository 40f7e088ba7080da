package finance

import (
	"cmp"
	"slices"
	"time"

	"github.com/etnz/finance/date"
	"github.com/shopspring/decimal"
)

// Summary aggregates the transactions of a period.
type Summary struct {
	Period  date.Period
	Income  decimal.Decimal
	Expense decimal.Decimal
	Saving  decimal.Decimal
	Asset   decimal.Decimal

	// Balance is Income - Expense - Saving - Asset.
	Balance decimal.Decimal
	// NetWorthDelta is Saving + Asset - Expense: income is not part of it.
	NetWorthDelta decimal.Decimal
	Count         int
}

// Summarize aggregates the transactions of the current period p.
func Summarize(txs []Transaction, p date.Period) Summary {
	return SummarizeAt(txs, p, time.Now())
}

// SummarizeAt aggregates the transactions of period p containing now.
//
// A transaction dated exactly at the start of the period is excluded, unless p
// is date.All which includes every transaction whatever its date.
func SummarizeAt(txs []Transaction, p date.Period, now time.Time) Summary {
	s := Summary{
		Period:  p,
		Income:  decimal.Zero,
		Expense: decimal.Zero,
		Saving:  decimal.Zero,
		Asset:   decimal.Zero,
	}
	r := date.NewRange(p, now)
	for _, tx := range txs {
		if !r.Contains(tx.Time()) {
			continue
		}
		s.Count++
		switch tx.Kind {
		case Income:
			s.Income = s.Income.Add(tx.Amount)
		case Expense:
			s.Expense = s.Expense.Add(tx.Amount)
		case Saving:
			s.Saving = s.Saving.Add(tx.Amount)
		case Asset:
			s.Asset = s.Asset.Add(tx.Amount)
		}
	}
	s.Balance = s.Income.Sub(s.Expense).Sub(s.Saving).Sub(s.Asset)
	s.NetWorthDelta = s.Saving.Add(s.Asset).Sub(s.Expense)
	return s
}

// NetWorth is the cash balance plus the portfolio value plus the saving total.
func NetWorth(s Summary, portfolioValue decimal.Decimal) decimal.Decimal {
	return s.Balance.Add(portfolioValue).Add(s.Saving)
}

// FilterByPeriod returns the transactions of period p containing now, with the same boundary as SummarizeAt.
func FilterByPeriod(txs []Transaction, p date.Period, now time.Time) []Transaction {
	r := date.NewRange(p, now)
	var in []Transaction
	for _, tx := range txs {
		if r.Contains(tx.Time()) {
			in = append(in, tx)
		}
	}
	return in
}

// SumByKind sums the amounts of the transactions of kind k.
func SumByKind(txs []Transaction, k Kind) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Kind == k {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// CategoryTotal is the sum of amounts of one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// ByCategory sums the transactions of kind k per category, largest first.
func ByCategory(txs []Transaction, k Kind) []CategoryTotal {
	index := make(map[string]int)
	var totals []CategoryTotal
	for _, tx := range txs {
		if tx.Kind != k {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(totals)
			index[tx.Category] = i
			totals = append(totals, CategoryTotal{Category: tx.Category, Total: decimal.Zero})
		}
		totals[i].Total = totals[i].Total.Add(tx.Amount)
	}
	slices.SortFunc(totals, func(a, b CategoryTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return totals
}

// TrendPoint holds the income, expense and saving flows of a single day.
type TrendPoint struct {
	Day     string // YYYY-MM-DD, in UTC
	Income  decimal.Decimal
	Expense decimal.Decimal
	Saving  decimal.Decimal
}

// DailyTrend buckets income, expense and saving flows per UTC calendar day, oldest first.
// Asset purchases are not part of the trend.
func DailyTrend(txs []Transaction) []TrendPoint {
	index := make(map[string]int)
	var points []TrendPoint
	for _, tx := range txs {
		if tx.Kind == Asset {
			continue
		}
		day := tx.Time().UTC().Format("2006-01-02")
		i, ok := index[day]
		if !ok {
			i = len(points)
			index[day] = i
			points = append(points, TrendPoint{Day: day, Income: decimal.Zero, Expense: decimal.Zero, Saving: decimal.Zero})
		}
		p := &points[i]
		switch tx.Kind {
		case Income:
			p.Income = p.Income.Add(tx.Amount)
		case Expense:
			p.Expense = p.Expense.Add(tx.Amount)
		case Saving:
			p.Saving = p.Saving.Add(tx.Amount)
		}
	}
	slices.SortFunc(points, func(a, b TrendPoint) int { return cmp.Compare(a.Day, b.Day) })
	return points
}
