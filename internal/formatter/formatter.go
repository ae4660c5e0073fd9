// =============================================================================
// Rebate CSV Formatter - Per-File Pipeline
// =============================================================================
//
// This module orchestrates the transformation stages for a single parsed
// table, in the fixed order:
//
//   validate columns -> normalize dates -> expand rows -> sort -> serialize
//
// Each file's pipeline is a pure computation over its own table with no
// shared mutable state, so any number of files can run concurrently. The
// batch orchestrator handles parsing, timing, storage and result assembly
// around this pipeline.
//
// =============================================================================

package formatter

import (
	"github.com/ginjaninja78/rebate-csv-formatter/internal/csvwriter"
	"github.com/ginjaninja78/rebate-csv-formatter/internal/types"
	"github.com/ginjaninja78/rebate-csv-formatter/internal/validation"
)

// =============================================================================
// OPTIONS AND OUTPUT
// =============================================================================

// Options configures a per-file pipeline run.
type Options struct {
	// LenientDates blanks unparsable date cells instead of failing the
	// file. Off by default: a row that cannot be normalized invalidates
	// the file's output.
	LenientDates bool
}

// Output is the product of one successful pipeline run.
type Output struct {
	// Data is the serialized CSV, ready to hand to storage.
	Data []byte

	// Stats carries the row counts for the per-file result.
	Stats ExpandStats
}

// =============================================================================
// PIPELINE
// =============================================================================

// Run executes the transformation pipeline over a parsed table.
//
// A table with zero data rows is not an error: it produces an output with
// just the header row (or zero bytes when the file had no header at all)
// and all counts zero. Column validation is skipped for a wholly empty file
// since there is no column set to check.
func Run(table *types.Table, opts Options) (*Output, error) {
	// Wholly empty file: nothing to validate, nothing to transform.
	if len(table.Columns) == 0 && table.Empty() {
		return &Output{Data: []byte{}}, nil
	}

	if err := validation.ValidateColumns(table); err != nil {
		return nil, err
	}

	if err := NormalizeDates(table, opts.LenientDates); err != nil {
		return nil, err
	}

	derived, stats := Expand(table)
	SortDerived(derived)

	data, err := csvwriter.Serialize(table.Columns, derived)
	if err != nil {
		return nil, err
	}

	return &Output{Data: data, Stats: stats}, nil
}
