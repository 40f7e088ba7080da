package finance

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseTransaction(t *testing.T) {
	got, err := ParseTransaction(Fields{
		"id":     "t1",
		"kind":   "expense",
		"amount": json.Number("12.50"),
		"date":   json.Number("1700000000000"),
	})
	if err != nil {
		t.Fatalf("ParseTransaction() error = %v", err)
	}
	want := Transaction{ID: "t1", Kind: Expense, Amount: dec("12.5"), Currency: "GBP", Category: "general", Date: 1700000000000}
	if !got.Equal(want) {
		t.Errorf("ParseTransaction() = %+v, want %+v", got, want)
	}
}

func TestParseTransaction_Invalid(t *testing.T) {
	valid := func() Fields {
		return Fields{"id": "t1", "kind": "income", "amount": 10.0, "date": int64(1)}
	}
	testCases := []struct {
		name   string
		edit   func(Fields)
		fields []string
	}{
		{"unknown kind", func(f Fields) { f["kind"] = "unknown" }, []string{"kind"}},
		{"kind is not a string", func(f Fields) { f["kind"] = 3.0 }, []string{"kind"}},
		{"negative amount", func(f Fields) { f["amount"] = -1.0 }, []string{"amount"}},
		{"amount is a string", func(f Fields) { f["amount"] = "ten" }, []string{"amount"}},
		{"missing id", func(f Fields) { delete(f, "id") }, []string{"id"}},
		{"empty id", func(f Fields) { f["id"] = "" }, []string{"id"}},
		{"missing date", func(f Fields) { delete(f, "date") }, []string{"date"}},
		{"fractional date", func(f Fields) { f["date"] = 1.5 }, []string{"date"}},
		{"date beyond int64", func(f Fields) { f["date"] = json.Number("1e30") }, []string{"date"}},
		{"date below int64", func(f Fields) { f["date"] = json.Number("-9223372036854775809") }, []string{"date"}},
		{"currency is not a string", func(f Fields) { f["currency"] = true }, []string{"currency"}},
		{"several fields", func(f Fields) { f["kind"] = "gift"; f["amount"] = -3.0 }, []string{"kind", "amount"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := valid()
			tc.edit(f)
			_, err := ParseTransaction(f)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("ParseTransaction() error = %v, want a *ValidationError", err)
			}
			if len(verr.Issues) != len(tc.fields) {
				t.Errorf("ParseTransaction() issues = %v, want issues on %v", verr.Issues, tc.fields)
			}
			for _, field := range tc.fields {
				if !verr.Has(field) {
					t.Errorf("ParseTransaction() issues = %v, want an issue on %q", verr.Issues, field)
				}
			}
		})
	}
}

func TestParseTransaction_NullIsAbsent(t *testing.T) {
	got, err := ParseTransaction(Fields{"id": "t1", "kind": "saving", "amount": 0.0, "date": int64(0), "currency": nil, "note": nil})
	if err != nil {
		t.Fatalf("ParseTransaction() error = %v", err)
	}
	if got.Currency != "GBP" || got.Note != "" {
		t.Errorf("ParseTransaction() = %+v, want default currency and no note", got)
	}
}

func TestParseHolding(t *testing.T) {
	got, err := ParseHolding(Fields{
		"id":        "h1",
		"name":      "Bitcoin",
		"symbol":    "BTC",
		"quantity":  json.Number("0.5"),
		"avgCost":   json.Number("30000"),
		"updatedAt": json.Number("1700000000000"),
	})
	if err != nil {
		t.Fatalf("ParseHolding() error = %v", err)
	}
	if got.Category != "other" || got.Currency != "GBP" {
		t.Errorf("ParseHolding() = %+v, want category other and currency GBP", got)
	}
	if got.CurrentPrice.Valid {
		t.Errorf("ParseHolding() CurrentPrice = %v, want absent", got.CurrentPrice)
	}
	if !got.Quantity.Equal(dec("0.5")) || !got.AvgCost.Equal(dec("30000")) {
		t.Errorf("ParseHolding() = %+v", got)
	}
}

func TestParseHolding_Invalid(t *testing.T) {
	testCases := []struct {
		name  string
		f     Fields
		field string
	}{
		{"empty name", Fields{"id": "h1", "name": "", "quantity": 1.0, "avgCost": 1.0, "updatedAt": 1.0}, "name"},
		{"negative quantity", Fields{"id": "h1", "name": "x", "quantity": -1.0, "avgCost": 1.0, "updatedAt": 1.0}, "quantity"},
		{"negative cost", Fields{"id": "h1", "name": "x", "quantity": 1.0, "avgCost": -1.0, "updatedAt": 1.0}, "avgCost"},
		{"negative price", Fields{"id": "h1", "name": "x", "quantity": 1.0, "avgCost": 1.0, "currentPrice": -2.0, "updatedAt": 1.0}, "currentPrice"},
		{"missing updatedAt", Fields{"id": "h1", "name": "x", "quantity": 1.0, "avgCost": 1.0}, "updatedAt"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseHolding(tc.f)
			var verr *ValidationError
			if !errors.As(err, &verr) || !verr.Has(tc.field) {
				t.Errorf("ParseHolding() error = %v, want an issue on %q", err, tc.field)
			}
		})
	}
}

func TestTransaction_Validate(t *testing.T) {
	tx, err := Transaction{ID: "t1", Kind: Income, Amount: D(5)}.Validate()
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if tx.Currency != "GBP" || tx.Category != "general" {
		t.Errorf("Validate() = %+v, want defaults applied", tx)
	}

	if _, err := (Transaction{ID: "t1", Kind: Saving, Amount: D(-5)}).Validate(); err == nil {
		t.Errorf("Validate() of a negative amount: want error")
	}
}

func TestNewAdjustment(t *testing.T) {
	adj := NewAdjustment("a1", D(-50), "", "withdrawal", "", 1)
	if adj.Kind != Saving || !adj.Amount.Equal(D(-50)) || adj.Currency != "GBP" {
		t.Errorf("NewAdjustment() = %+v", adj)
	}
}

func TestTransaction_JSON(t *testing.T) {
	tx := Transaction{ID: "t1", Kind: Saving, Amount: dec("-12.5"), Currency: "EUR", Category: "withdrawal", Date: 42}
	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"id":"t1","kind":"saving","amount":-12.5,"currency":"EUR","category":"withdrawal","note":"","date":42}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	var got Transaction
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !got.Equal(tx) {
		t.Errorf("Unmarshal() = %+v, want %+v", got, tx)
	}

	if err := json.Unmarshal([]byte(`{"id":"t1","kind":"gift"}`), &got); err == nil {
		t.Errorf("Unmarshal() of an unknown kind: want error")
	}
}
