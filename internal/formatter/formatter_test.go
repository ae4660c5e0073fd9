package formatter

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/rebate-csv-formatter/internal/csvparser"
	"github.com/ginjaninja78/rebate-csv-formatter/internal/validation"
)

const sampleHeader = "Rebate Name,Level,Lumpsum - Fee Type,Lumpsum - Amount,Lumpsum - Branch,Lumpsum - Lumpsum Date,Lumpsum - Pay Date"

func TestRun(t *testing.T) {
	t.Run("A B A scenario produces the documented layout", func(t *testing.T) {
		raw := sampleHeader + "\n" +
			"A,1,Flat,100.00,North,3/1/2025,3/15/2025\n" +
			"B,2,Flat,200.00,South,3/2/2025,3/16/2025\n" +
			"A,1,Tiered,300.00,East,3/3/2025,3/17/2025\n"
		table, err := csvparser.Parse(strings.NewReader(raw), "sample.csv")
		assert.NoError(t, err)

		output, err := Run(table, Options{})

		assert.NoError(t, err)
		assert.Equal(t, 2, output.Stats.DistinctRebates)
		assert.Equal(t, 2, output.Stats.HeaderCount)
		assert.Equal(t, 3, output.Stats.LumpsumCount)
		assert.Equal(t, 5, output.Stats.OutputRows)

		lines := strings.Split(strings.TrimRight(string(output.Data), "\n"), "\n")
		assert.Len(t, lines, 6)
		assert.Equal(t, sampleHeader, lines[0])
		assert.Equal(t, "A,Header,,,,,", lines[1])
		assert.Equal(t, "A,Lumpsum,Flat,100.00,North,03/01/2025,03/15/2025", lines[2])
		assert.Equal(t, "A,Lumpsum,Tiered,300.00,East,03/03/2025,03/17/2025", lines[3])
		assert.Equal(t, "B,Header,,,,,", lines[4])
		assert.Equal(t, "B,Lumpsum,Flat,200.00,South,03/02/2025,03/16/2025", lines[5])
	})

	t.Run("missing required column aborts the file", func(t *testing.T) {
		raw := "Rebate Name,Level\nA,1\n"
		table, err := csvparser.Parse(strings.NewReader(raw), "missing.csv")
		assert.NoError(t, err)

		_, err = Run(table, Options{})

		var missingErr *validation.MissingColumnsError
		assert.True(t, errors.As(err, &missingErr))
	})

	t.Run("invalid date aborts the file by default", func(t *testing.T) {
		raw := sampleHeader + "\nA,1,Flat,100.00,North,not-a-date,3/15/2025\n"
		table, err := csvparser.Parse(strings.NewReader(raw), "baddate.csv")
		assert.NoError(t, err)

		_, err = Run(table, Options{})

		var dateErr *InvalidDateError
		assert.True(t, errors.As(err, &dateErr))
		assert.Equal(t, 1, dateErr.Row)
	})

	t.Run("lenient mode blanks the bad cell and succeeds", func(t *testing.T) {
		raw := sampleHeader + "\nA,1,Flat,100.00,North,not-a-date,3/15/2025\n"
		table, err := csvparser.Parse(strings.NewReader(raw), "baddate.csv")
		assert.NoError(t, err)

		output, err := Run(table, Options{LenientDates: true})

		assert.NoError(t, err)
		assert.Contains(t, string(output.Data), "A,Lumpsum,Flat,100.00,North,,03/15/2025")
	})

	t.Run("header-only file yields header-only output and zero counts", func(t *testing.T) {
		table, err := csvparser.Parse(strings.NewReader(sampleHeader+"\n"), "empty.csv")
		assert.NoError(t, err)

		output, err := Run(table, Options{})

		assert.NoError(t, err)
		assert.Equal(t, 0, output.Stats.OutputRows)
		assert.Equal(t, sampleHeader+"\n", string(output.Data))
	})

	t.Run("zero-byte file yields empty output", func(t *testing.T) {
		table, err := csvparser.Parse(strings.NewReader(""), "blank.csv")
		assert.NoError(t, err)

		output, err := Run(table, Options{})

		assert.NoError(t, err)
		assert.Empty(t, output.Data)
		assert.Equal(t, 0, output.Stats.OutputRows)
	})
}
