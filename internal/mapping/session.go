package mapping

import (
	"fmt"

	"github.com/calebhart/enrichflow/internal/common"
	"github.com/calebhart/enrichflow/internal/model"
)

// DefaultSampleLimit is how many preview values each mapping carries.
const DefaultSampleLimit = 3

// NewMappings builds one ColumnMapping per table column with an auto-detected
// target. Detected columns start enabled; undetected columns start disabled
// with no target. Each mapping carries up to sampleLimit non-empty preview
// values taken from the first rows.
func NewMappings(table *model.ParsedTable, sampleLimit int) []model.ColumnMapping {
	if sampleLimit <= 0 {
		sampleLimit = DefaultSampleLimit
	}

	mappings := make([]model.ColumnMapping, 0, len(table.Columns))
	for _, col := range table.Columns {
		target := AutoDetect(col)
		mappings = append(mappings, model.ColumnMapping{
			CSVColumn:    col,
			TargetField:  target,
			Enabled:      target != "",
			SampleValues: sampleValues(table, col, sampleLimit),
		})
	}
	return mappings
}

func sampleValues(table *model.ParsedTable, column string, limit int) []string {
	var samples []string
	for _, row := range table.Rows {
		if v := row[column]; v != "" {
			samples = append(samples, v)
			if len(samples) == limit {
				break
			}
		}
	}
	return samples
}

// SetTarget reassigns a column's target field. Assigning a field auto-enables
// the mapping; assigning the empty target auto-disables it. Each column's
// mapping is independent: two columns may target the same field.
func SetTarget(mappings []model.ColumnMapping, csvColumn string, target model.InputField) error {
	if target != "" && !target.Valid() {
		return fmt.Errorf("%w %q", common.ErrUnknownField, target)
	}
	m := find(mappings, csvColumn)
	if m == nil {
		return fmt.Errorf("%w %q", common.ErrUnknownColumn, csvColumn)
	}
	m.TargetField = target
	m.Enabled = target != ""
	return nil
}

// SetEnabled toggles a column's participation in matching. Enabling a column
// with no target is a no-op for submission purposes but is rejected here to
// keep sessions unambiguous.
func SetEnabled(mappings []model.ColumnMapping, csvColumn string, enabled bool) error {
	m := find(mappings, csvColumn)
	if m == nil {
		return fmt.Errorf("%w %q", common.ErrUnknownColumn, csvColumn)
	}
	if enabled && m.TargetField == "" {
		return fmt.Errorf("column %q has no target field to enable", csvColumn)
	}
	m.Enabled = enabled
	return nil
}

// Active returns the mappings that participate in matching, in column order.
func Active(mappings []model.ColumnMapping) []model.ColumnMapping {
	var active []model.ColumnMapping
	for _, m := range mappings {
		if m.Active() {
			active = append(active, m)
		}
	}
	return active
}

func find(mappings []model.ColumnMapping, csvColumn string) *model.ColumnMapping {
	for i := range mappings {
		if mappings[i].CSVColumn == csvColumn {
			return &mappings[i]
		}
	}
	return nil
}
