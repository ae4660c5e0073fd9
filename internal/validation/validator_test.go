package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/rebate-csv-formatter/internal/types"
)

func fullColumnSet() []string {
	return append([]string{}, types.RequiredColumns...)
}

func TestValidateColumns(t *testing.T) {
	t.Run("complete column set passes", func(t *testing.T) {
		table := &types.Table{Columns: fullColumnSet(), SourceFile: "ok.csv"}

		assert.NoError(t, ValidateColumns(table))
	})

	t.Run("extra columns are allowed", func(t *testing.T) {
		table := &types.Table{
			Columns:    append(fullColumnSet(), "Region", "Notes"),
			SourceFile: "extra.csv",
		}

		assert.NoError(t, ValidateColumns(table))
	})

	t.Run("missing Lumpsum - Amount is named exactly", func(t *testing.T) {
		var columns []string
		for _, c := range types.RequiredColumns {
			if c != "Lumpsum - Amount" {
				columns = append(columns, c)
			}
		}
		table := &types.Table{Columns: columns, SourceFile: "bad.csv"}

		err := ValidateColumns(table)

		var missingErr *MissingColumnsError
		assert.True(t, errors.As(err, &missingErr))
		assert.Equal(t, []string{"Lumpsum - Amount"}, missingErr.Columns)
		assert.Equal(t, "missing_columns", missingErr.Kind())
		assert.Contains(t, missingErr.Error(), "bad.csv")
	})

	t.Run("all missing columns are reported sorted", func(t *testing.T) {
		table := &types.Table{Columns: []string{"Unrelated"}, SourceFile: "none.csv"}

		err := ValidateColumns(table)

		var missingErr *MissingColumnsError
		assert.True(t, errors.As(err, &missingErr))
		assert.Equal(t, []string{
			"Level",
			"Lumpsum - Amount",
			"Lumpsum - Branch",
			"Lumpsum - Fee Type",
			"Lumpsum - Lumpsum Date",
			"Lumpsum - Pay Date",
			"Rebate Name",
		}, missingErr.Columns)
	})

	t.Run("comparison is case-sensitive", func(t *testing.T) {
		columns := fullColumnSet()
		columns[0] = "rebate name"
		table := &types.Table{Columns: columns, SourceFile: "case.csv"}

		err := ValidateColumns(table)

		var missingErr *MissingColumnsError
		assert.True(t, errors.As(err, &missingErr))
		assert.Equal(t, []string{"Rebate Name"}, missingErr.Columns)
	})
}
