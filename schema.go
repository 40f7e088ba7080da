package finance

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	minInstant = decimal.NewFromInt(math.MinInt64)
	maxInstant = decimal.NewFromInt(math.MaxInt64)
)

// Fields is a candidate record as decoded from JSON or assembled from a CSV row.
//
// Numbers may be json.Number, float64, integers or decimal.Decimal.
// A nil value is treated as an absent field.
type Fields map[string]any

// fieldReader extracts typed values from Fields, recording issues as it goes.
// On failure it returns the zero value so that parsing continues and every issue is reported.
type fieldReader struct {
	fields Fields
	err    *ValidationError
}

func newFieldReader(record string, f Fields) fieldReader {
	return fieldReader{fields: f, err: &ValidationError{Record: record}}
}

func (r fieldReader) get(name string) (any, bool) {
	v, ok := r.fields[name]
	return v, ok && v != nil
}

// str reads a string field. A missing required field is an issue.
func (r fieldReader) str(name string, required bool) string {
	v, ok := r.get(name)
	if !ok {
		if required {
			r.err.add(name, "required")
		}
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.err.add(name, "expected string, got %s", typeName(v))
		return ""
	}
	return s
}

// number reads a required numeric field.
func (r fieldReader) number(name string) decimal.Decimal {
	v, ok := r.get(name)
	if !ok {
		r.err.add(name, "required")
		return decimal.Zero
	}
	d, ok := toDecimal(v)
	if !ok {
		r.err.add(name, "expected number, got %s", typeName(v))
		return decimal.Zero
	}
	return d
}

// optionalNumber reads a numeric field that may be absent.
func (r fieldReader) optionalNumber(name string) decimal.NullDecimal {
	if _, ok := r.get(name); !ok {
		return decimal.NullDecimal{}
	}
	d := r.number(name)
	return decimal.NullDecimal{Decimal: d, Valid: !r.err.Has(name)}
}

// instant reads a required epoch millisecond field.
func (r fieldReader) instant(name string) Timestamp {
	d := r.number(name)
	if r.err.Has(name) {
		return 0
	}
	if !d.IsInteger() {
		r.err.add(name, "expected epoch milliseconds, got %s", d)
		return 0
	}
	if d.LessThan(minInstant) || d.GreaterThan(maxInstant) {
		r.err.add(name, "epoch milliseconds out of range, got %s", d)
		return 0
	}
	return Timestamp(d.IntPart())
}

// nonNegative records an issue if d is negative and field has no issue yet.
func nonNegative(e *ValidationError, field string, d decimal.Decimal) {
	if d.IsNegative() && !e.Has(field) {
		e.add(field, "must be non-negative, got %s", d)
	}
}

// ParseTransaction validates f and returns the normalized Transaction.
//
// Missing currency and category default to "GBP" and "general".
// id and date are never generated: callers must provide them.
func ParseTransaction(f Fields) (Transaction, error) {
	return parseTransaction(f, false)
}

// parseTransaction is ParseTransaction, except that with backup set a saving in
// the withdrawal category may carry the negative amount written by Withdraw.
func parseTransaction(f Fields, backup bool) (Transaction, error) {
	r := newFieldReader("transaction", f)
	t := Transaction{
		ID:       r.str("id", true),
		Kind:     Kind(r.str("kind", true)),
		Amount:   r.number("amount"),
		Currency: r.str("currency", false),
		Category: r.str("category", false),
		Note:     r.str("note", false),
		Date:     r.instant("date"),
	}
	if backup && t.IsWithdrawal() {
		t.checkIdentity(r.err)
	} else {
		t.check(r.err)
	}
	if err := r.err.orNil(); err != nil {
		return Transaction{}, err
	}
	return t.normalized(), nil
}

// ParseHolding validates f and returns the normalized Holding.
//
// Missing currency and category default to "GBP" and "other".
func ParseHolding(f Fields) (Holding, error) {
	r := newFieldReader("holding", f)
	h := Holding{
		ID:           r.str("id", true),
		Name:         r.str("name", true),
		Symbol:       r.str("symbol", false),
		Category:     r.str("category", false),
		Quantity:     r.number("quantity"),
		AvgCost:      r.number("avgCost"),
		Currency:     r.str("currency", false),
		CurrentPrice: r.optionalNumber("currentPrice"),
		UpdatedAt:    r.instant("updatedAt"),
	}
	h.check(r.err)
	if err := r.err.orNil(); err != nil {
		return Holding{}, err
	}
	return h.normalized(), nil
}
