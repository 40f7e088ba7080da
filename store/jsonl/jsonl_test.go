package jsonl

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/finance"
	"github.com/etnz/finance/store"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	log, hook := test.NewNullLogger()

	db, err := Open(dir, log)
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	if hook.LastEntry() == nil || hook.LastEntry().Level != logrus.WarnLevel {
		t.Errorf("Open() on a missing folder should warn")
	}

	err = db.Transactions.Put(ctx,
		finance.Transaction{ID: "b", Kind: finance.Expense, Amount: finance.D(12.5), Currency: "GBP", Category: "food", Date: 2000},
		finance.Transaction{ID: "a", Kind: finance.Income, Amount: finance.D(100), Currency: "GBP", Category: "salary", Note: "june", Date: 1000},
	)
	if err != nil {
		t.Fatalf("Put() unexpected error: %v", err)
	}
	err = db.Holdings.Add(ctx, finance.Holding{ID: "h", Name: "Apple", Symbol: "AAPL", Category: "stock", Quantity: finance.D(2), AvgCost: finance.D(150), Currency: "USD"})
	if err != nil {
		t.Fatalf("Add() unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "transactions.jsonl"))
	if err != nil {
		t.Fatalf("transactions file not written: %v", err)
	}
	want := `{"id":"a","kind":"income","amount":100,"currency":"GBP","category":"salary","note":"june","date":1000}
{"id":"b","kind":"expense","amount":12.5,"currency":"GBP","category":"food","note":"","date":2000}
`
	if string(data) != want {
		t.Errorf("transactions file:\n%s\nwant:\n%s", data, want)
	}

	reopened, err := Open(dir, log)
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	got, _, _ := reopened.Transactions.Get(ctx, "b")
	if !got.Amount.Equal(finance.D(12.5)) || got.Category != "food" {
		t.Errorf("reloaded transaction = %+v", got)
	}
	h, ok, _ := reopened.Holdings.Get(ctx, "h")
	if !ok || h.Symbol != "AAPL" || !h.Quantity.Equal(finance.D(2)) {
		t.Errorf("reloaded holding = %+v, %v", h, ok)
	}

	if err := reopened.Transactions.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	data, _ = os.ReadFile(filepath.Join(dir, "transactions.jsonl"))
	if len(data) != 0 {
		t.Errorf("transactions file after deleting all = %q, want empty", data)
	}
}

func TestDecode(t *testing.T) {
	input := "{\"id\":\"h1\",\"name\":\"Gold\",\"category\":\"gold\",\"quantity\":1,\"avgCost\":1800,\"currency\":\"GBP\",\"updatedAt\":5}\n\n" +
		"{\"id\":\"h2\",\"name\":\"Cash\",\"category\":\"cash\",\"quantity\":3,\"avgCost\":1,\"currency\":\"GBP\",\"currentPrice\":1,\"updatedAt\":6}\n"
	got, err := Decode[finance.Holding](strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Gold" || !got[1].CurrentPrice.Valid {
		t.Errorf("Decode() = %+v", got)
	}

	_, err = Decode[finance.Holding](strings.NewReader("{\"id\":\"h1\"}\nnot json\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Decode() error = %v, want a line 2 error", err)
	}
}

var _ store.Collection[finance.Holding] = (*store.Memory[finance.Holding])(nil)
