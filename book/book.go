// Package book is the application layer of the finance tracker.
//
// A Book reads snapshots of the transactions and holdings collections, hands them
// to the finance core, and commits the records it produces.
package book

import (
	"context"
	"fmt"
	"time"

	"github.com/etnz/finance"
	"github.com/etnz/finance/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DefaultPageSize is the number of transactions per page.
const DefaultPageSize = 20

// Book operates on a pair of collections.
type Book struct {
	transactions store.Collection[finance.Transaction]
	holdings     store.Collection[finance.Holding]
	log          logrus.FieldLogger

	now   func() time.Time
	newID func() string
}

// New returns a Book over the two collections.
func New(transactions store.Collection[finance.Transaction], holdings store.Collection[finance.Holding], log logrus.FieldLogger) *Book {
	return &Book{
		transactions: transactions,
		holdings:     holdings,
		log:          log,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

func (b *Book) timestamp() finance.Timestamp { return finance.At(b.now()) }

// transactionsByDate returns all transactions, oldest first.
func (b *Book) transactionsByDate(ctx context.Context) ([]finance.Transaction, error) {
	txs, err := b.transactions.Scan(ctx, store.Query{OrderBy: "date"})
	if err != nil {
		return nil, fmt.Errorf("could not read transactions: %w", err)
	}
	return txs, nil
}

// Entry is a transaction as typed by the user.
type Entry struct {
	Kind     finance.Kind
	Amount   decimal.Decimal
	Currency string
	Category string
	Note     string
	Date     time.Time // zero means now
}

// Record validates and adds a new transaction.
func (b *Book) Record(ctx context.Context, e Entry) (finance.Transaction, error) {
	date := b.timestamp()
	if !e.Date.IsZero() {
		date = finance.At(e.Date)
	}
	tx, err := finance.Transaction{
		ID:       b.newID(),
		Kind:     e.Kind,
		Amount:   e.Amount,
		Currency: e.Currency,
		Category: e.Category,
		Note:     e.Note,
		Date:     date,
	}.Validate()
	if err != nil {
		return finance.Transaction{}, err
	}
	if err := b.transactions.Add(ctx, tx); err != nil {
		return finance.Transaction{}, err
	}
	b.log.WithFields(logrus.Fields{"id": tx.ID, "kind": tx.Kind, "amount": tx.Amount}).Debug("transaction recorded")
	return tx, nil
}

// Withdraw moves amount from savings back to cash.
func (b *Book) Withdraw(ctx context.Context, amount decimal.Decimal, currency string) ([2]finance.Transaction, error) {
	txs, err := b.transactionsByDate(ctx)
	if err != nil {
		return [2]finance.Transaction{}, err
	}
	if currency == "" {
		currency = finance.DefaultCurrency
	}
	pair, err := finance.Withdraw(txs, amount, currency, b.newID(), b.newID(), b.timestamp())
	if err != nil {
		return pair, err
	}
	if err := b.transactions.Put(ctx, pair[:]...); err != nil {
		return pair, err
	}
	b.log.WithField("amount", amount).Debug("withdrawn from savings")
	return pair, nil
}

// DeleteTransaction removes a transaction. A missing id is not an error.
func (b *Book) DeleteTransaction(ctx context.Context, id string) error {
	return b.transactions.Delete(ctx, id)
}

// Page is a slice of the transaction list, newest first.
type Page struct {
	Transactions []finance.Transaction
	Number       int // 0-based
	Pages        int
	Total        int
}

// Page returns the page number n of size transactions, newest first.
// n is clamped to the existing pages. A size of 0 means DefaultPageSize.
func (b *Book) Page(ctx context.Context, n, size int) (Page, error) {
	if size <= 0 {
		size = DefaultPageSize
	}
	total, err := b.transactions.Count(ctx)
	if err != nil {
		return Page{}, err
	}
	pages := max(1, (total+size-1)/size)
	n = min(max(n, 0), pages-1)
	txs, err := b.transactions.Scan(ctx, store.Query{OrderBy: "date", Reverse: true, Offset: n * size, Limit: size})
	if err != nil {
		return Page{}, err
	}
	return Page{Transactions: txs, Number: n, Pages: pages, Total: total}, nil
}

// OnChange calls f after every change to either collection.
func (b *Book) OnChange(f func(store.Event)) (cancel func()) {
	c1 := b.transactions.Subscribe(f)
	c2 := b.holdings.Subscribe(f)
	return func() {
		c1()
		c2()
	}
}
