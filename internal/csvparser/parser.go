// =============================================================================
// Rebate CSV Formatter - CSV Parser Module
// =============================================================================
//
// This module parses supplier-billing CSV files into the Table structure the
// rest of the pipeline works on. The input contract is fixed:
//   - UTF-8, comma-delimited
//   - first row is the column header
//   - quoted fields with standard CSV escaping
//
// Every data row is materialized as a map of column name -> value with
// exactly one value per declared column; cells missing at the end of a short
// row become the empty string. Rows that are entirely empty are skipped.
//
// A file with no rows at all (zero bytes) parses to an empty Table rather
// than an error; downstream stages turn it into an empty output with all
// counts zero.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/rebate-csv-formatter/internal/types"
)

// =============================================================================
// ERROR TYPE
// =============================================================================

// MalformedCsvError reports a file the CSV reader could not decode. The
// underlying reader error is preserved for the per-file failure payload.
type MalformedCsvError struct {
	// File is the input file name.
	File string

	// Err is the underlying error from the CSV reader.
	Err error
}

// Error implements the error interface.
func (e *MalformedCsvError) Error() string {
	return fmt.Sprintf("malformed CSV in %s: %v", e.File, e.Err)
}

// Unwrap exposes the reader error to errors.Is / errors.As.
func (e *MalformedCsvError) Unwrap() error {
	return e.Err
}

// Kind returns the stable error kind used in failure payloads.
func (e *MalformedCsvError) Kind() string {
	return "malformed_csv"
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads comma-delimited data from r and returns the parsed Table.
// name is the original file name, carried through to results and errors.
//
// Parse never fails on an empty input or a header-only input; it fails with
// *MalformedCsvError when the CSV structure itself cannot be decoded.
func Parse(r io.Reader, name string) (*types.Table, error) {
	csvReader := csv.NewReader(bufio.NewReader(r))

	// The pipeline tolerates short and long rows; width is reconciled
	// against the header below.
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, &MalformedCsvError{File: name, Err: err}
	}

	// Zero rows: no header, no data. Processed to an empty output.
	if len(allRows) == 0 {
		return &types.Table{SourceFile: name}, nil
	}

	headers := cleanHeaders(allRows[0])

	table := &types.Table{
		Columns:    headers,
		Rows:       extractDataRows(allRows[1:], headers),
		SourceFile: name,
	}

	return table, nil
}

// ParseFile opens and parses a CSV file from disk. Used by the CLI process
// command; the HTTP path parses the uploaded bytes directly.
func ParseFile(path string) (*types.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file, filepath.Base(path))
}

// cleanHeaders trims whitespace from header cells and names any empty
// header by its 1-based position so every column stays addressable.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// extractDataRows converts raw rows to maps keyed by header name. Cells
// beyond the header width are dropped; cells missing from short rows are
// filled with the empty string.
func extractDataRows(raw [][]string, headers []string) []map[string]string {
	dataRows := make([]map[string]string, 0, len(raw))

	for _, row := range raw {
		if isRowEmpty(row) {
			continue
		}

		rowMap := make(map[string]string, len(headers))
		for colIndex, header := range headers {
			if colIndex < len(row) {
				rowMap[header] = strings.TrimSpace(row[colIndex])
			} else {
				rowMap[header] = ""
			}
		}

		dataRows = append(dataRows, rowMap)
	}

	return dataRows
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
