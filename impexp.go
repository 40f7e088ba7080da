package finance

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// this file contains functions to handle the backup format.
// Transactions can be exported as an indented JSON array or as CSV, and both are accepted on import.

// Format is a backup file format.
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
)

// ParseFormat returns the Format named s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case JSON, CSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q, want json or csv", s)
	}
}

// ExportFilename returns a file name embedding the export instant.
func ExportFilename(f Format, now time.Time) string {
	return fmt.Sprintf("finance-export-%d.%s", now.UnixMilli(), f)
}

// Export writes txs to w in format f.
func Export(w io.Writer, txs []Transaction, f Format) error {
	switch f {
	case JSON:
		return ExportJSON(w, txs)
	case CSV:
		return ExportCSV(w, txs)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// ExportJSON writes txs as an indented JSON array.
func ExportJSON(w io.Writer, txs []Transaction) error {
	if txs == nil {
		txs = []Transaction{}
	}
	data, err := json.MarshalIndent(txs, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal transactions: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("cannot write JSON export: %w", err)
	}
	return nil
}

// ExportCSV writes txs as CSV with the header id,kind,amount,currency,category,note,date.
func ExportCSV(w io.Writer, txs []Transaction) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(csvColumns, ","))
	bw.WriteByte('\n')
	for _, tx := range txs {
		row := []string{
			tx.ID,
			string(tx.Kind),
			tx.Amount.String(),
			tx.Currency,
			tx.Category,
			tx.Note,
			strconv.FormatInt(int64(tx.Date), 10),
		}
		for i, v := range row {
			row[i] = csvEscape(v)
		}
		bw.WriteString(strings.Join(row, ","))
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("cannot write CSV export: %w", err)
	}
	return nil
}

// Import reads a backup file in either format.
func Import(r io.Reader) ([]Transaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read import: %w", err)
	}
	return ImportBytes(data)
}

// ImportBytes parses a backup file in either format.
//
// The payload is parsed as JSON first. If it is an array, every element is
// validated. Otherwise it is parsed as CSV whose header names the columns in any order.
// Any invalid element or row fails the whole import: no transaction is returned.
// Rows are validated like user entries, except that withdrawal adjustments keep
// their negative amount so that an export can always be imported back.
func ImportBytes(data []byte) ([]Transaction, error) {
	if elements, ok := decodeJSONArray(data); ok {
		txs := make([]Transaction, 0, len(elements))
		for i, e := range elements {
			f, ok := e.(map[string]any)
			if !ok {
				err := &ValidationError{Record: "transaction", Issues: []Issue{{Field: "", Message: "expected object, got " + typeName(e)}}}
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			tx, err := parseTransaction(f, true)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			txs = append(txs, tx)
		}
		return txs, nil
	}
	return importCSV(string(data))
}

// decodeJSONArray returns the elements of data if it is a JSON array.
// Numbers are kept as json.Number so that amounts stay exact.
func decodeJSONArray(data []byte) ([]any, bool) {
	if !json.Valid(data) {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	elements, ok := v.([]any)
	return elements, ok
}

func importCSV(text string) ([]Transaction, error) {
	records := parseCSV(text)
	if len(records) == 0 {
		return []Transaction{}, nil
	}

	cols := make(map[string]int)
	for i, name := range records[0].fields {
		name = strings.TrimSpace(name)
		if _, ok := cols[name]; !ok {
			cols[name] = i
		}
	}

	txs := make([]Transaction, 0, len(records)-1)
	for _, rec := range records[1:] {
		cell := func(name string) (string, bool) {
			i, ok := cols[name]
			if !ok || i >= len(rec.fields) {
				return "", false
			}
			return rec.fields[i], true
		}
		number := func(name string) any {
			v, _ := cell(name)
			v = strings.TrimSpace(v)
			if v == "" {
				return decimal.Zero
			}
			d, err := decimal.NewFromString(v)
			if err != nil {
				return v
			}
			return d
		}

		f := Fields{
			"amount": number("amount"),
			"date":   number("date"),
		}
		for _, name := range []string{"id", "kind", "currency", "category"} {
			v, _ := cell(name)
			f[name] = v
		}
		if v, _ := cell("note"); v != "" {
			f["note"] = v
		}

		tx, err := parseTransaction(f, true)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", rec.line, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
