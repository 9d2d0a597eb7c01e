// Package csvio parses and renders the comma-separated files exchanged with
// the enrichment service. Parsing is total: any input degrades to best-effort
// field splitting instead of an error, and quoted fields may span multiple
// lines, which a line-split parser cannot handle.
package csvio

import (
	"strings"

	"github.com/calebhart/enrichflow/internal/model"
)

// Parse turns raw CSV text into a structured table. The first record is the
// header; records consisting of only empty fields are dropped as blank lines.
// Individual fields are trimmed of surrounding whitespace.
func Parse(text string) *model.ParsedTable {
	records := scan(text)
	if len(records) == 0 {
		return &model.ParsedTable{}
	}

	columns := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return &model.ParsedTable{Columns: columns, Rows: rows}
}

// scan is a single left-to-right pass over the input. A double quote toggles
// quoted mode unless doubled inside quotes, in which case it emits one literal
// quote. Commas and line terminators inside quotes are data; outside quotes
// they end the field or record. \r\n and bare \r both terminate records.
// Trailing data without a final terminator still yields a final record.
func scan(text string) [][]string {
	var (
		records  [][]string
		record   []string
		field    strings.Builder
		inQuotes bool
	)

	flushField := func() {
		record = append(record, strings.TrimSpace(field.String()))
		field.Reset()
	}
	flushRecord := func() {
		flushField()
		for _, f := range record {
			if f != "" {
				records = append(records, record)
				break
			}
		}
		record = nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(text) && text[i+1] == '"' {
				field.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			flushField()
		case (c == '\n' || c == '\r') && !inQuotes:
			if c == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			flushRecord()
		default:
			field.WriteByte(c)
		}
	}
	flushRecord()

	return records
}

// ToCSV renders a header and rows back to CSV text, quoting any field that
// contains a comma, quote, or line terminator and doubling embedded quotes.
// For tables whose values are free of leading/trailing whitespace and raw \r,
// Parse(ToCSV(t.Columns, t.Rows)) reproduces t exactly.
func ToCSV(columns []string, rows []map[string]string) string {
	var b strings.Builder

	for i, col := range columns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escape(col))
	}
	for _, row := range rows {
		b.WriteByte('\n')
		for i, col := range columns {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escape(row[col]))
		}
	}

	return b.String()
}

func escape(value string) string {
	if strings.ContainsAny(value, ",\"\n\r") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}
