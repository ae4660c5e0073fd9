// =============================================================================
// Rebate CSV Formatter - CSV Writer Module
// =============================================================================
//
// This module renders the sorted derived row set back to delimited text.
//
// OUTPUT CONTRACT:
//   - Column order is preserved from the input table
//   - The Level column carries the row kind: "Header" for synthesized
//     summary rows, "Lumpsum" for retagged data rows
//   - Standard CSV quoting (RFC 4180): fields containing the delimiter,
//     quotes, newlines or leading whitespace are quoted
//   - Serialization is round-trip stable: re-parsing the output and
//     re-serializing it yields byte-identical text
//
// =============================================================================

package csvwriter

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/ginjaninja78/rebate-csv-formatter/internal/types"
)

// Serialize renders the derived rows as CSV bytes under the given column
// order. An empty column list yields zero bytes; columns with no rows yield
// the header row only.
func Serialize(columns []string, rows []types.DerivedRow) ([]byte, error) {
	if len(columns) == 0 {
		return []byte{}, nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			if col == types.LevelColumn {
				record[i] = row.Kind.String()
			} else {
				record[i] = row.Fields[col]
			}
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV output: %w", err)
	}

	return buf.Bytes(), nil
}
