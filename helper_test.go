package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// dec is a helper for tests to create a decimal from a string constant.
func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ms is a helper for tests to create a Timestamp from a UTC date.
func ms(year int, month time.Month, day, hour int) Timestamp {
	return At(time.Date(year, month, day, hour, 0, 0, 0, time.UTC))
}

// newTx is a helper for tests to create a transaction with default labels.
func newTx(id string, k Kind, amount float64, on Timestamp) Transaction {
	return Transaction{ID: id, Kind: k, Amount: D(amount), Currency: "GBP", Category: DefaultCategory, Date: on}
}
