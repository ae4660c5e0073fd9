// =============================================================================
// Rebate CSV Formatter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser
//   - validation
//   - formatter
//   - csvwriter
//
// =============================================================================

package types

import "strings"

// =============================================================================
// COLUMN CONSTANTS
// =============================================================================

// RebateNameColumn is the grouping key for header/lumpsum splitting.
const RebateNameColumn = "Rebate Name"

// LevelColumn carries the row kind ("Header" / "Lumpsum") in the output.
// This is the column the downstream accounting import reads the row type
// from, so the original Level value is overwritten on serialization.
const LevelColumn = "Level"

// LumpsumPrefix identifies lumpsum-specific columns. Every column whose
// name starts with this prefix is blanked in a Header row.
const LumpsumPrefix = "Lumpsum - "

// RequiredColumns is the fixed set of column names that must be present in
// an input file before any transformation runs. Comparison is exact and
// case-sensitive.
var RequiredColumns = []string{
	"Rebate Name",
	"Level",
	"Lumpsum - Fee Type",
	"Lumpsum - Amount",
	"Lumpsum - Branch",
	"Lumpsum - Lumpsum Date",
	"Lumpsum - Pay Date",
}

// DateColumns are the columns normalized to MM/DD/YYYY.
var DateColumns = []string{
	"Lumpsum - Lumpsum Date",
	"Lumpsum - Pay Date",
}

// IsLumpsumColumn reports whether a column name is lumpsum-specific.
func IsLumpsumColumn(name string) bool {
	return strings.HasPrefix(name, LumpsumPrefix)
}

// =============================================================================
// TABLE
// =============================================================================

// Table represents one parsed CSV file: an ordered column-name list and the
// data rows sharing it.
type Table struct {
	// Columns contains the column names in their original file order.
	Columns []string

	// Rows contains the data rows as maps of column name -> value.
	// Every row has exactly one value per declared column; a missing cell
	// is the empty string, never absent.
	Rows []map[string]string

	// SourceFile is the original file name, used in results and logs.
	SourceFile string
}

// RowCount returns the number of data rows (excluding the header).
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// Empty reports whether the table has no data rows. A header-only file is
// processed to an empty output, not rejected.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// =============================================================================
// DERIVED ROWS
// =============================================================================

// RowKind distinguishes the two output row types.
type RowKind int

const (
	// Header is the synthesized summary row, one per distinct Rebate Name.
	Header RowKind = iota

	// Lumpsum is an original data row, retagged.
	Lumpsum
)

// String returns the kind as it appears in the Level column of the output.
func (k RowKind) String() string {
	if k == Header {
		return "Header"
	}
	return "Lumpsum"
}

// KindFromLevel maps a Level cell value back to a RowKind. The second return
// is false for values that are neither "Header" nor "Lumpsum".
func KindFromLevel(value string) (RowKind, bool) {
	switch value {
	case "Header":
		return Header, true
	case "Lumpsum":
		return Lumpsum, true
	}
	return Lumpsum, false
}

// DerivedRow is a row tagged with its output kind. Fields hold the cell
// values keyed by column name; for Header rows every lumpsum column is the
// empty string.
type DerivedRow struct {
	Kind   RowKind
	Fields map[string]string
}

// RebateName returns the grouping key of the row.
func (r *DerivedRow) RebateName() string {
	return r.Fields[RebateNameColumn]
}
