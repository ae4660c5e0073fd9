// =============================================================================
// Rebate CSV Formatter - Output Sort
// =============================================================================
//
// Total order over derived rows: Rebate Name ascending, then Header before
// Lumpsum within the same name. Name comparison is ordinal (byte-wise), not
// locale-aware and not case-insensitive, so output order is reproducible on
// every platform. The sort is stable: multiple Lumpsum rows sharing a name
// keep their relative input order.
//
// =============================================================================

package formatter

import (
	"sort"

	"github.com/ginjaninja78/rebate-csv-formatter/internal/types"
)

// SortDerived orders the expanded row set in place.
func SortDerived(rows []types.DerivedRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].RebateName(), rows[j].RebateName()
		if a != b {
			return a < b
		}
		return rows[i].Kind < rows[j].Kind
	})
}
