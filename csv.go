package finance

import (
	"strings"
)

// csvColumns is the export column order.
var csvColumns = []string{"id", "kind", "amount", "currency", "category", "note", "date"}

// csvEscape quotes s if it contains a comma, a double quote or a newline, doubling inner quotes.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// csvRecord is a tokenized CSV record and the line it starts on.
type csvRecord struct {
	line   int
	fields []string
}

// parseCSV tokenizes text into records.
//
// Commas separate fields and line breaks (LF or CRLF) separate records, except
// inside double quotes where they are literal. Inside quotes a doubled quote is
// a literal quote. Empty lines are skipped. An unterminated quote runs to the end of text.
func parseCSV(text string) []csvRecord {
	var (
		records []csvRecord
		fields  []string
		cur     strings.Builder
		inQ     bool
		empty   = true // no character read for the current record
		line    = 1
		start   = 1
	)
	endRecord := func() {
		if !empty {
			records = append(records, csvRecord{line: start, fields: append(fields, cur.String())})
		}
		fields, empty = nil, true
		cur.Reset()
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\n' {
			line++
		}
		if inQ {
			switch {
			case c == '"' && i+1 < len(text) && text[i+1] == '"':
				cur.WriteByte('"')
				i++
			case c == '"':
				inQ = false
			default:
				cur.WriteByte(c)
			}
			continue
		}
		switch {
		case c == '\r' && i+1 < len(text) && text[i+1] == '\n':
			// the '\n' ends the record.
		case c == '\n':
			endRecord()
			start = line
		case c == ',':
			fields = append(fields, cur.String())
			cur.Reset()
			empty = false
		case c == '"':
			inQ = true
			empty = false
		default:
			cur.WriteByte(c)
			empty = false
		}
	}
	endRecord()
	return records
}
