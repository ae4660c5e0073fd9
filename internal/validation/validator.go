// =============================================================================
// Rebate CSV Formatter - Column Validation
// =============================================================================
//
// This module confirms that a parsed table carries every required column
// before any transformation runs. Validation is structural only: it compares
// column names, never data, and it has no side effects.
//
// VALIDATION STRATEGY:
//   - Exact-string, case-sensitive match on column names
//   - All missing names are collected and reported together, sorted, so the
//     operator can fix the file in one pass
//   - A failure aborts processing for that file only; sibling files in the
//     same batch are unaffected
//
// =============================================================================

package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ginjaninja78/rebate-csv-formatter/internal/types"
)

// =============================================================================
// ERROR TYPE
// =============================================================================

// MissingColumnsError reports required columns absent from an input file.
type MissingColumnsError struct {
	// File is the input file name.
	File string

	// Columns lists the missing required column names, sorted.
	Columns []string
}

// Error implements the error interface.
func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("file %s is missing required columns: %s",
		e.File, strings.Join(e.Columns, ", "))
}

// Kind returns the stable error kind used in failure payloads.
func (e *MissingColumnsError) Kind() string {
	return "missing_columns"
}

// =============================================================================
// VALIDATION FUNCTIONS
// =============================================================================

// ValidateColumns checks that every required column is present in the
// table's column-name sequence. It returns *MissingColumnsError naming the
// sorted missing columns, or nil when the table is complete.
func ValidateColumns(table *types.Table) error {
	missing := MissingColumns(table.Columns)
	if len(missing) == 0 {
		return nil
	}

	return &MissingColumnsError{
		File:    table.SourceFile,
		Columns: missing,
	}
}

// MissingColumns returns the required column names absent from columns,
// sorted. An empty result means the column set is complete.
func MissingColumns(columns []string) []string {
	present := make(map[string]bool, len(columns))
	for _, name := range columns {
		present[name] = true
	}

	var missing []string
	for _, required := range types.RequiredColumns {
		if !present[required] {
			missing = append(missing, required)
		}
	}

	sort.Strings(missing)
	return missing
}
