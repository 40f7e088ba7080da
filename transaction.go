package finance

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an atomic money movement. Its direction is encoded by its Kind.
type Transaction struct {
	ID       string
	Kind     Kind
	Amount   decimal.Decimal // non-negative, except for saving adjustments
	Currency string          // display label, never converted
	Category string
	Note     string
	Date     Timestamp
}

// DefaultCategory is the category of a transaction that does not name one.
const DefaultCategory = "general"

// WithdrawalCategory is the category of the saving adjustment written by Withdraw.
const WithdrawalCategory = "withdrawal"

// NewAdjustment returns a signed saving transaction.
//
// It is the only way to build a transaction with a negative amount: a negative
// adjustment withdraws from the savings total. It is not subject to Validate.
func NewAdjustment(id string, amount decimal.Decimal, currency, category, note string, date Timestamp) Transaction {
	return Transaction{
		ID:       id,
		Kind:     Saving,
		Amount:   amount,
		Currency: currency,
		Category: category,
		Note:     note,
		Date:     date,
	}.normalized()
}

// Validate checks a user entered transaction and returns a copy with defaults applied.
func (t Transaction) Validate() (Transaction, error) {
	e := &ValidationError{Record: "transaction"}
	t.check(e)
	if err := e.orNil(); err != nil {
		return t, err
	}
	return t.normalized(), nil
}

// check records the constraint violations of t in e, skipping fields that already have an issue.
func (t Transaction) check(e *ValidationError) {
	t.checkIdentity(e)
	nonNegative(e, "amount", t.Amount)
}

func (t Transaction) checkIdentity(e *ValidationError) {
	if t.ID == "" && !e.Has("id") {
		e.add("id", "required")
	}
	if _, err := ParseKind(string(t.Kind)); err != nil && !e.Has("kind") {
		e.add("kind", "%v", err)
	}
}

// IsWithdrawal reports whether t is a saving adjustment written by Withdraw.
func (t Transaction) IsWithdrawal() bool {
	return t.Kind == Saving && t.Category == WithdrawalCategory
}

func (t Transaction) normalized() Transaction {
	if t.Currency == "" {
		t.Currency = DefaultCurrency
	}
	if t.Category == "" {
		t.Category = DefaultCategory
	}
	return t
}

// Time returns the transaction instant.
func (t Transaction) Time() time.Time { return t.Date.Time() }

// Equal reports whether t and o are the same record, field for field.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID && t.Kind == o.Kind && t.Amount.Equal(o.Amount) &&
		t.Currency == o.Currency && t.Category == o.Category && t.Note == o.Note && t.Date == o.Date
}

// Key returns the record identifier.
func (t Transaction) Key() string { return t.ID }

// MarshalJSON writes exactly the seven fields, in the export column order.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("kind", t.Kind)
	w.Append("amount", t.Amount)
	w.Append("currency", t.Currency)
	w.Append("category", t.Category)
	w.Append("note", t.Note)
	w.Append("date", t.Date)
	return w.MarshalJSON()
}

// UnmarshalJSON decodes a stored transaction.
//
// It checks the structure only: stored records may be signed adjustments.
// Untrusted input goes through ParseTransaction instead.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID       string          `json:"id"`
		Kind     Kind            `json:"kind"`
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
		Category string          `json:"category"`
		Note     string          `json:"note"`
		Date     Timestamp       `json:"date"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = Transaction(temp).normalized()
	return nil
}
