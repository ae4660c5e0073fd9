// =============================================================================
// Rebate CSV Formatter - Row Expansion
// =============================================================================
//
// This module holds the central algorithm: splitting each validated,
// date-normalized table into the two-row-type layout.
//
// EXPANSION RULES:
//   - Exactly one Header row per distinct Rebate Name value. The first row
//     seen for a name supplies the carried fields (notably Level); every
//     column prefixed "Lumpsum - " is blanked in the Header.
//   - Every input row becomes exactly one Lumpsum row, verbatim.
//   - The empty string is a valid Rebate Name; all rows with an empty name
//     group under one Header.
//
// The pass is a single scan with a seen-set keyed by Rebate Name, so the
// first-occurrence-wins rule never depends on any prior sort.
//
// =============================================================================

package formatter

import "github.com/ginjaninja78/rebate-csv-formatter/internal/types"

// =============================================================================
// EXPANSION STATS
// =============================================================================

// ExpandStats carries the row counts produced by one expansion.
type ExpandStats struct {
	// InputRows is the number of data rows scanned.
	InputRows int

	// DistinctRebates is the number of unique Rebate Name values seen.
	DistinctRebates int

	// HeaderCount is the number of Header rows emitted.
	// Equals DistinctRebates by construction.
	HeaderCount int

	// LumpsumCount is the number of Lumpsum rows emitted.
	// Equals InputRows by construction.
	LumpsumCount int

	// OutputRows is HeaderCount + LumpsumCount.
	OutputRows int
}

// =============================================================================
// EXPANSION
// =============================================================================

// Expand derives the unordered Header/Lumpsum row set from a table.
// The result is unsorted; SortDerived establishes the output order.
func Expand(table *types.Table) ([]types.DerivedRow, ExpandStats) {
	derived := make([]types.DerivedRow, 0, len(table.Rows)*2)
	seen := make(map[string]bool)

	for _, row := range table.Rows {
		name := row[types.RebateNameColumn]

		if !seen[name] {
			seen[name] = true
			derived = append(derived, types.DerivedRow{
				Kind:   types.Header,
				Fields: headerFields(row, table.Columns),
			})
		}

		derived = append(derived, types.DerivedRow{
			Kind:   types.Lumpsum,
			Fields: row,
		})
	}

	stats := ExpandStats{
		InputRows:       len(table.Rows),
		DistinctRebates: len(seen),
		HeaderCount:     len(seen),
		LumpsumCount:    len(table.Rows),
	}
	stats.OutputRows = stats.HeaderCount + stats.LumpsumCount

	return derived, stats
}

// headerFields copies the carried fields for a Header row from the first
// row seen for its Rebate Name, blanking every lumpsum-specific column.
func headerFields(row map[string]string, columns []string) map[string]string {
	fields := make(map[string]string, len(columns))
	for _, col := range columns {
		if types.IsLumpsumColumn(col) {
			fields[col] = ""
		} else {
			fields[col] = row[col]
		}
	}
	return fields
}
