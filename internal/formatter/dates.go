// =============================================================================
// Rebate CSV Formatter - Date Normalization
// =============================================================================
//
// This module rewrites the two lumpsum date columns to the canonical
// MM/DD/YYYY display format the downstream accounting import expects.
//
// POLICY:
//   - Empty cells stay empty; they are not an error
//   - A non-empty cell that matches none of the accepted formats fails the
//     file with InvalidDateError, unless lenient mode is configured, in
//     which case the cell is blanked instead
//   - Normalization is idempotent: a value already in MM/DD/YYYY form
//     normalizes to itself
//
// The accepted format set mirrors what supplier exports have been seen to
// produce. Layouts use Go's non-padded numeric verbs ("1/2/2006"), which
// accept both padded and unpadded month/day values.
//
// =============================================================================

package formatter

import (
	"strings"
	"time"

	"github.com/ginjaninja78/rebate-csv-formatter/internal/types"
)

// OutputDateFormat is the canonical display format for date columns.
const OutputDateFormat = "01/02/2006"

// acceptedDateFormats are tried in order against each non-empty date cell.
var acceptedDateFormats = []string{
	"1/2/2006",
	"2006-1-2",
	"2006/1/2",
	"1-2-2006",
	"20060102",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-1-2 15:04:05",
	"1/2/2006 15:04:05",
}

// NormalizeDate parses a single cell value against the accepted formats and
// returns it rewritten as MM/DD/YYYY. The second return is false when the
// value matched no format. Empty input normalizes to empty.
func NormalizeDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", true
	}

	for _, layout := range acceptedDateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(OutputDateFormat), true
		}
	}

	return value, false
}

// NormalizeDates rewrites every date-bearing column of the table in place.
//
// With lenient false (the default), the first unparsable cell fails the
// whole file with *InvalidDateError carrying the row and column. With
// lenient true the cell is blanked and processing continues; the switch is
// the single configured policy, never mixed per cell.
func NormalizeDates(table *types.Table, lenient bool) error {
	present := make([]string, 0, len(types.DateColumns))
	for _, col := range types.DateColumns {
		for _, name := range table.Columns {
			if name == col {
				present = append(present, col)
				break
			}
		}
	}

	for i, row := range table.Rows {
		for _, col := range present {
			normalized, ok := NormalizeDate(row[col])
			if !ok {
				if lenient {
					row[col] = ""
					continue
				}
				return &InvalidDateError{
					File:   table.SourceFile,
					Row:    i + 1,
					Column: col,
					Value:  row[col],
				}
			}
			row[col] = normalized
		}
	}

	return nil
}
