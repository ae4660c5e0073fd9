// =============================================================================
// Rebate CSV Formatter - Formatter Errors
// =============================================================================
//
// Error types raised by the transformation stages. Each carries enough
// context (file, row, column, value) for the operator to locate and fix the
// offending cell, and a stable Kind string used in per-file failure payloads.
//
// =============================================================================

package formatter

import "fmt"

// InvalidDateError reports a non-empty date cell that matched none of the
// accepted input formats. By default it is fatal to the single file; in
// lenient mode the cell is blanked instead and this error is never raised.
type InvalidDateError struct {
	// File is the input file name.
	File string

	// Row is the 1-based data row number (the header row is not counted).
	Row int

	// Column is the date-bearing column name.
	Column string

	// Value is the cell content that failed to parse.
	Value string
}

// Error implements the error interface.
func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("file %s row %d column %q: cannot parse date value %q",
		e.File, e.Row, e.Column, e.Value)
}

// Kind returns the stable error kind used in failure payloads.
func (e *InvalidDateError) Kind() string {
	return "invalid_date"
}
