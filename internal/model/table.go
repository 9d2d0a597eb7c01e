// Package model defines the core data types shared across the enrichment workflow.
package model

// ParsedTable is the structured form of a CSV file: an ordered header and one
// map per data row. Column names appear in first-occurrence order and are kept
// verbatim, including duplicates; row maps are keyed by column name, so for a
// duplicated header the rightmost column's value wins.
//
// A ParsedTable is built once per uploaded file or downloaded result and is
// never mutated afterwards.
type ParsedTable struct {
	Columns []string
	Rows    []map[string]string
}

// RowCount returns the number of data rows (the header is not counted).
func (t *ParsedTable) RowCount() int {
	return len(t.Rows)
}

// Empty reports whether the table has no header and no rows.
func (t *ParsedTable) Empty() bool {
	return len(t.Columns) == 0 && len(t.Rows) == 0
}
