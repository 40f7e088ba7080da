package finance

import (
	"encoding/json"
	"fmt"
)

// Kind is the closed category of a transaction.
type Kind string

// Transaction kinds. No other value is valid.
const (
	Income  Kind = "income"
	Expense Kind = "expense"
	Saving  Kind = "saving"
	Asset   Kind = "asset"
)

// Kinds lists every valid kind.
var Kinds = []Kind{Income, Expense, Saving, Asset}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case Income, Expense, Saving, Asset:
		return k, nil
	default:
		return "", fmt.Errorf("unknown kind %q, want one of income, expense, saving, asset", s)
	}
}

// Outflow reports whether the kind is deducted from the cash balance.
func (k Kind) Outflow() bool { return k == Expense || k == Saving || k == Asset }

// UnmarshalJSON rejects any value outside the closed set.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = v
	return nil
}
