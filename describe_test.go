package sheetjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeWorkbook(t *testing.T) {
	opts := NewOptionSet("", WithSheetName("teams"), WithColumn(1, ColumnSpec{Format: Decimal(1), Default: 0.0}))
	d, err := DescribeWorkbook(memoryPeople(), opts)
	require.NoError(t, err)

	require.Len(t, d.Sheets, 2)
	people, teams := d.Sheets[0], d.Sheets[1]
	assert.False(t, people.Selected)
	assert.True(t, teams.Selected)
	assert.Equal(t, 5, people.NumRows)
	assert.Equal(t, 4, people.NumCols)

	assert.Equal(t, FormatInteger, people.Columns[1].Format.Kind, "overrides skip unselected sheets")
	assert.Equal(t, FormatDateTime, people.Columns[3].Format.Kind)
	assert.Equal(t, "D", people.Columns[3].Letter)

	assert.Equal(t, Decimal(1), teams.Columns[1].Format)
	assert.Equal(t, 0.0, teams.Columns[1].Default)
}

func TestDescribe_CSV(t *testing.T) {
	path := writeFile(t, "people.csv", "name,joined\nAda,2024-01-01\n")
	d, err := Describe(path)
	require.NoError(t, err)
	assert.Equal(t, "people.csv", d.Filename)

	out := d.String()
	assert.Contains(t, out, "Source: people.csv (csv)")
	assert.Contains(t, out, "[0] single *: 1 rows x 2 cols")
	assert.Contains(t, out, `B "joined" date`)
}

func TestDescribe_Errors(t *testing.T) {
	_, err := Describe("")
	assert.Equal(t, CodeNoFilepath, Code(err))

	_, err = DescribeWorkbook(memoryPeople(), NewOptionSet("", WithSheetIndex(9)))
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestDescribeWorkbook_NumRowsMatchesConversion(t *testing.T) {
	wb := NewMemoryWorkbook("list.csv", []string{"single"}, map[string][][]RawCell{
		"single": TextRows(
			[]string{"id"},
			[]string{"1"},
			[]string{""},
			[]string{"3"},
			[]string{""},
			[]string{""},
		),
	})
	d, err := DescribeWorkbook(wb, NewOptionSet(""))
	require.NoError(t, err)
	assert.Equal(t, 3, d.Sheets[0].NumRows, "trailing blank rows are not counted")

	d, err = DescribeWorkbook(wb, NewOptionSet("", WithMaxRows(2)))
	require.NoError(t, err)
	assert.Equal(t, 2, d.Sheets[0].NumRows)
}
