package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/rebate-csv-formatter/internal/types"
)

func derivedRow(kind types.RowKind, name, marker string) types.DerivedRow {
	return types.DerivedRow{
		Kind: kind,
		Fields: map[string]string{
			"Rebate Name":      name,
			"Lumpsum - Amount": marker,
		},
	}
}

func TestSortDerived(t *testing.T) {
	t.Run("orders by rebate name then header before lumpsum", func(t *testing.T) {
		rows := []types.DerivedRow{
			derivedRow(types.Lumpsum, "B", "b1"),
			derivedRow(types.Lumpsum, "A", "a1"),
			derivedRow(types.Header, "B", ""),
			derivedRow(types.Header, "A", ""),
			derivedRow(types.Lumpsum, "A", "a2"),
		}

		SortDerived(rows)

		assert.Equal(t, types.Header, rows[0].Kind)
		assert.Equal(t, "A", rows[0].RebateName())
		assert.Equal(t, "a1", rows[1].Fields["Lumpsum - Amount"])
		assert.Equal(t, "a2", rows[2].Fields["Lumpsum - Amount"])
		assert.Equal(t, types.Header, rows[3].Kind)
		assert.Equal(t, "B", rows[3].RebateName())
		assert.Equal(t, types.Lumpsum, rows[4].Kind)
	})

	t.Run("lumpsum ties keep input order", func(t *testing.T) {
		rows := []types.DerivedRow{
			derivedRow(types.Lumpsum, "A", "1"),
			derivedRow(types.Lumpsum, "A", "2"),
			derivedRow(types.Lumpsum, "A", "3"),
			derivedRow(types.Header, "A", ""),
		}

		SortDerived(rows)

		assert.Equal(t, types.Header, rows[0].Kind)
		for i, want := range []string{"1", "2", "3"} {
			assert.Equal(t, want, rows[i+1].Fields["Lumpsum - Amount"])
		}
	})

	t.Run("comparison is ordinal not case-insensitive", func(t *testing.T) {
		rows := []types.DerivedRow{
			derivedRow(types.Header, "apple", ""),
			derivedRow(types.Header, "Banana", ""),
		}

		SortDerived(rows)

		// 'B' (0x42) sorts before 'a' (0x61) byte-wise.
		assert.Equal(t, "Banana", rows[0].RebateName())
		assert.Equal(t, "apple", rows[1].RebateName())
	})

	t.Run("empty name sorts first", func(t *testing.T) {
		rows := []types.DerivedRow{
			derivedRow(types.Header, "A", ""),
			derivedRow(types.Header, "", ""),
		}

		SortDerived(rows)

		assert.Equal(t, "", rows[0].RebateName())
	})
}
