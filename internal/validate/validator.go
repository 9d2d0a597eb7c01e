// Package validate classifies table rows ahead of job submission: a row is
// valid when at least one enabled mapped value is non-empty and its composite
// key has not been seen before.
package validate

import (
	"strings"

	"github.com/calebhart/enrichflow/internal/model"
)

// keyDelimiter joins mapped values into a composite key. Values are trimmed
// and case-folded first, so a pipe cannot collide with field content the
// service would match on.
const keyDelimiter = "|"

// ReasonNoMappedValues marks rows with nothing to match on.
const ReasonNoMappedValues = "no mapped values"

// Validate partitions the table's rows into valid, invalid, and duplicate.
// Rows are processed in table order and the first occurrence of a composite
// key wins as valid; later identical rows are duplicates. The match operator
// does not participate in key construction, it only travels to the request.
func Validate(table *model.ParsedTable, mappings []model.ColumnMapping, _ model.MatchOperator) *model.ValidationPartition {
	var active []model.ColumnMapping
	for _, m := range mappings {
		if m.Active() {
			active = append(active, m)
		}
	}

	part := &model.ValidationPartition{Total: len(table.Rows)}
	seen := make(map[string]struct{}, len(table.Rows))

	for idx, row := range table.Rows {
		values := make([]string, 0, len(active))
		nonEmpty := false
		for _, m := range active {
			v := strings.ToLower(strings.TrimSpace(row[m.CSVColumn]))
			if v != "" {
				nonEmpty = true
			}
			values = append(values, v)
		}

		if !nonEmpty {
			part.InvalidRows = append(part.InvalidRows, model.InvalidRow{
				Row:    idx,
				Reason: ReasonNoMappedValues,
			})
			continue
		}

		key := strings.Join(values, keyDelimiter)
		if _, dup := seen[key]; dup {
			part.DuplicateKeys = append(part.DuplicateKeys, key)
			part.DuplicateRows = append(part.DuplicateRows, idx)
			continue
		}
		seen[key] = struct{}{}
		part.ValidKeys = append(part.ValidKeys, key)
		part.ValidRows = append(part.ValidRows, idx)
	}

	return part
}
