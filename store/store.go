// Package store implements the persistence collaborator of the finance tracker:
// a collection store offering create, read, update, delete and range scans
// ordered by an indexed field, and notifying subscribers of every change.
//
// The finance core never calls a store. The book package fetches snapshots from
// it and commits the records produced by the core.
package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"

	"github.com/etnz/finance"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned by Update when the record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrExists is returned by Add when a record with the same key exists.
	ErrExists = errors.New("record already exists")
)

// Record is a stored value identified by a key.
type Record interface {
	Key() string
}

// Query selects a page of a collection ordered by an indexed field.
// The key breaks ties. A zero Limit means no limit.
type Query struct {
	OrderBy string
	Reverse bool
	Offset  int
	Limit   int
}

// Collection is a set of records of the same type.
type Collection[T Record] interface {
	// Add creates a record, failing with ErrExists if the key is taken.
	Add(ctx context.Context, v T) error
	// Put creates or replaces all records at once.
	Put(ctx context.Context, vs ...T) error
	// Update applies f to the record with key id and stores the result.
	Update(ctx context.Context, id string, f func(*T) error) error
	// Delete removes records. Missing keys are ignored.
	Delete(ctx context.Context, ids ...string) error
	// Get returns the record with key id, if any.
	Get(ctx context.Context, id string) (v T, ok bool, err error)
	// Count returns the number of records.
	Count(ctx context.Context) (int, error)
	// Scan returns the records selected by q.
	Scan(ctx context.Context, q Query) ([]T, error)
	// Subscribe registers f to be called after every committed change.
	Subscribe(f func(Event)) (cancel func())
}

// IndexType is the storage type of an indexed field.
type IndexType int

const (
	Text IndexType = iota
	Integer
	Number
)

// Index is a field a collection can be ordered by.
// Value returns a string for Text, an int64 for Integer and a decimal.Decimal for Number.
type Index[T Record] struct {
	Field string
	Type  IndexType
	Value func(T) any
}

// Schema describes a collection.
type Schema[T Record] struct {
	Name    string
	Indexes []Index[T]
	// Natural is the field records are listed by when no order is requested.
	Natural string
}

// Index returns the index on field.
func (s Schema[T]) Index(field string) (Index[T], error) {
	for _, ix := range s.Indexes {
		if ix.Field == field {
			return ix, nil
		}
	}
	return Index[T]{}, fmt.Errorf("collection %q has no index on %q", s.Name, field)
}

// Compare orders a and b by field, then by key.
func (s Schema[T]) Compare(field string) (func(a, b T) int, error) {
	if field == "" || field == "id" {
		return func(a, b T) int { return cmp.Compare(a.Key(), b.Key()) }, nil
	}
	ix, err := s.Index(field)
	if err != nil {
		return nil, err
	}
	return func(a, b T) int {
		if c := compareValues(ix.Value(a), ix.Value(b)); c != 0 {
			return c
		}
		return cmp.Compare(a.Key(), b.Key())
	}, nil
}

func compareValues(a, b any) int {
	switch x := a.(type) {
	case string:
		return cmp.Compare(x, b.(string))
	case int64:
		return cmp.Compare(x, b.(int64))
	case decimal.Decimal:
		return x.Cmp(b.(decimal.Decimal))
	default:
		panic(fmt.Sprintf("unsupported index value %T", a))
	}
}

// Transactions is the schema of the transactions collection.
var Transactions = Schema[finance.Transaction]{
	Name:    "transactions",
	Natural: "date",
	Indexes: []Index[finance.Transaction]{
		{Field: "kind", Type: Text, Value: func(t finance.Transaction) any { return string(t.Kind) }},
		{Field: "amount", Type: Number, Value: func(t finance.Transaction) any { return t.Amount }},
		{Field: "date", Type: Integer, Value: func(t finance.Transaction) any { return int64(t.Date) }},
		{Field: "category", Type: Text, Value: func(t finance.Transaction) any { return t.Category }},
	},
}

// Holdings is the schema of the holdings collection.
var Holdings = Schema[finance.Holding]{
	Name:    "holdings",
	Natural: "name",
	Indexes: []Index[finance.Holding]{
		{Field: "name", Type: Text, Value: func(h finance.Holding) any { return h.Name }},
		{Field: "symbol", Type: Text, Value: func(h finance.Holding) any { return h.Symbol }},
		{Field: "category", Type: Text, Value: func(h finance.Holding) any { return h.Category }},
	},
}

// Page applies the Offset and Limit of q to sorted.
func Page[T any](sorted []T, q Query) []T {
	if q.Offset >= len(sorted) {
		return []T{}
	}
	sorted = sorted[max(q.Offset, 0):]
	if q.Limit > 0 && q.Limit < len(sorted) {
		sorted = sorted[:q.Limit]
	}
	return sorted
}
