package finance

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func sampleTransactions() []Transaction {
	return []Transaction{
		{ID: "a", Kind: Income, Amount: dec("2500"), Currency: "GBP", Category: "salary", Note: "March", Date: 1740819600000},
		{ID: "b", Kind: Expense, Amount: dec("12.34"), Currency: "EUR", Category: "food", Note: "lunch, with \"Bob\"", Date: 1740906000000},
		{ID: "c", Kind: Saving, Amount: dec("0.5"), Currency: "GBP", Category: "pension", Note: "line one\nline two", Date: 0},
		{ID: "d", Kind: Asset, Amount: dec("1000"), Currency: "USD", Category: "asset:Apple", Date: 1740992400000},
	}
}

func equalTransactions(t *testing.T, got, want []Transaction) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d transactions, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("transaction %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	for _, f := range []Format{JSON, CSV} {
		t.Run(string(f), func(t *testing.T) {
			var sb strings.Builder
			if err := Export(&sb, sampleTransactions(), f); err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			got, err := Import(strings.NewReader(sb.String()))
			if err != nil {
				t.Fatalf("Import() error = %v\n%s", err, sb.String())
			}
			equalTransactions(t, got, sampleTransactions())
		})
	}
}

func TestExportImport_Withdrawal(t *testing.T) {
	pair, err := Withdraw(sampleTransactions(), dec("0.25"), "GBP", "w1", "w2", 1741000000000)
	if err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	want := append(sampleTransactions(), pair[0], pair[1])
	for _, f := range []Format{JSON, CSV} {
		t.Run(string(f), func(t *testing.T) {
			var sb strings.Builder
			if err := Export(&sb, want, f); err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			got, err := Import(strings.NewReader(sb.String()))
			if err != nil {
				t.Fatalf("Import() error = %v\n%s", err, sb.String())
			}
			equalTransactions(t, got, want)
		})
	}
}

func TestExportCSV(t *testing.T) {
	var sb strings.Builder
	if err := ExportCSV(&sb, sampleTransactions()[:2]); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	want := `id,kind,amount,currency,category,note,date
a,income,2500,GBP,salary,March,1740819600000
b,expense,12.34,EUR,food,"lunch, with ""Bob""",1740906000000
`
	if got := sb.String(); got != want {
		t.Errorf("ExportCSV() = \n%s\nwant\n%s", got, want)
	}
}

func TestExportJSON(t *testing.T) {
	var sb strings.Builder
	if err := ExportJSON(&sb, sampleTransactions()[3:]); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}
	want := `[
  {
    "id": "d",
    "kind": "asset",
    "amount": 1000,
    "currency": "USD",
    "category": "asset:Apple",
    "note": "",
    "date": 1740992400000
  }
]
`
	if got := sb.String(); got != want {
		t.Errorf("ExportJSON() = \n%s\nwant\n%s", got, want)
	}

	sb.Reset()
	if err := ExportJSON(&sb, nil); err != nil {
		t.Fatalf("ExportJSON(nil) error = %v", err)
	}
	if got := sb.String(); got != "[]\n" {
		t.Errorf("ExportJSON(nil) = %q, want %q", got, "[]\n")
	}
}

func TestImport_JSONInvalidElement(t *testing.T) {
	in := `[
  {"id":"a","kind":"income","amount":10,"date":1},
  {"id":"b","kind":"unknown","amount":10,"date":1}
]`
	got, err := Import(strings.NewReader(in))
	if got != nil {
		t.Errorf("Import() = %v, want no transaction", got)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || !verr.Has("kind") {
		t.Errorf("Import() error = %v, want a *ValidationError on kind", err)
	}
}

func TestImport_JSONNotAnObject(t *testing.T) {
	_, err := Import(strings.NewReader(`[{"id":"a","kind":"income","amount":10,"date":1}, 3]`))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Import() error = %v, want a *ValidationError", err)
	}
}

func TestImport_JSONDefaults(t *testing.T) {
	got, err := Import(strings.NewReader(`[{"id":"a","kind":"expense","amount":3.2,"date":5}]`))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	want := []Transaction{{ID: "a", Kind: Expense, Amount: dec("3.2"), Currency: "GBP", Category: "general", Date: 5}}
	equalTransactions(t, got, want)
}

func TestImport_CSVColumnOrder(t *testing.T) {
	in := "date,amount,kind,id\r\n\r\n10,1.5,income,x\r\n20,,expense,y\r\n"
	got, err := Import(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	want := []Transaction{
		{ID: "x", Kind: Income, Amount: dec("1.5"), Currency: "GBP", Category: "general", Date: 10},
		{ID: "y", Kind: Expense, Amount: dec("0"), Currency: "GBP", Category: "general", Date: 20},
	}
	equalTransactions(t, got, want)
}

func TestImport_CSVInvalidRow(t *testing.T) {
	testCases := []struct {
		name  string
		in    string
		field string
	}{
		{"unknown kind", "id,kind,amount,date\na,income,1,1\nb,gift,1,1\n", "kind"},
		{"negative amount", "id,kind,amount,date\na,income,-1,1\n", "amount"},
		{"negative saving outside withdrawals", "id,kind,amount,category,date\na,saving,-1,pension,1\n", "amount"},
		{"negative withdrawal income", "id,kind,amount,category,date\na,income,-1,withdrawal,1\n", "amount"},
		{"amount not a number", "id,kind,amount,date\na,income,ten,1\n", "amount"},
		{"missing id column", "kind,amount,date\nincome,1,1\n", "id"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Import(strings.NewReader(tc.in))
			if got != nil {
				t.Errorf("Import() = %v, want no transaction", got)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || !verr.Has(tc.field) {
				t.Errorf("Import() error = %v, want an issue on %q", err, tc.field)
			}
		})
	}
}

func TestImport_Empty(t *testing.T) {
	got, err := Import(strings.NewReader("\n\n"))
	if err != nil || len(got) != 0 {
		t.Errorf("Import() = %v, %v, want no transaction and no error", got, err)
	}
}

func TestParseCSV(t *testing.T) {
	in := "a,\"b,c\",\"d \"\"e\"\"\"\n\n\"multi\nline\",x\r\nlast"
	got := parseCSV(in)
	want := []csvRecord{
		{line: 1, fields: []string{"a", "b,c", `d "e"`}},
		{line: 3, fields: []string{"multi\nline", "x"}},
		{line: 5, fields: []string{"last"}},
	}
	if len(got) != len(want) {
		t.Fatalf("parseCSV() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i].line != want[i].line || strings.Join(got[i].fields, "|") != strings.Join(want[i].fields, "|") || len(got[i].fields) != len(want[i].fields) {
			t.Errorf("parseCSV()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExportFilename(t *testing.T) {
	now := time.UnixMilli(1740819600123)
	if got, want := ExportFilename(CSV, now), "finance-export-1740819600123.csv"; got != want {
		t.Errorf("ExportFilename() = %q, want %q", got, want)
	}
}
