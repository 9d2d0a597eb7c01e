package model

// InvalidRow records why a table row was excluded from submission.
type InvalidRow struct {
	Reason string
	Row    int
}

// ValidationPartition classifies every row of a table exactly once: valid,
// invalid, or duplicate. Classification is order-dependent: rows are processed
// in table order and the first occurrence of a composite key is the valid one.
type ValidationPartition struct {
	// ValidKeys holds the deduplicated composite keys in first-seen order.
	ValidKeys []string
	// ValidRows holds the table indices of the rows behind ValidKeys,
	// in the same order.
	ValidRows []int
	// InvalidRows lists rows carrying no non-empty mapped value.
	InvalidRows []InvalidRow
	// DuplicateKeys lists the composite key of each later repeat, in table order.
	DuplicateKeys []string
	// DuplicateRows holds the table indices of the duplicate rows.
	DuplicateRows []int
	// Total is the number of rows classified.
	Total int
}

// Balanced reports whether every row was classified exactly once.
func (p *ValidationPartition) Balanced() bool {
	return len(p.ValidKeys)+len(p.InvalidRows)+len(p.DuplicateKeys) == p.Total
}
