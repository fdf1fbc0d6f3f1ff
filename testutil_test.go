package sheetjson

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeFile writes content to name inside a fresh temp dir and returns the path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// createPeopleWorkbook saves a two-sheet workbook:
//
//	People: Name | Age | Active | Joined (date style) | Score
//	Teams:  Team | Size
func createPeopleWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := "People"
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)

	rows := [][]any{
		{"Name", "Age", "Active", "Joined", "Score"},
		{"Ada", 36, true, 45292, 9.5},
		{"Grace", 45, false, 45293, 7.25},
		{"Linus", 28, true, 45294, 8},
	}
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SetCellStyle(sheet, "D2", "D4", dateStyle))

	_, err = f.NewSheet("Teams")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Teams", "A1", &[]any{"Team", "Size"}))
	require.NoError(t, f.SetSheetRow("Teams", "A2", &[]any{"Core", 4}))

	path := filepath.Join(t.TempDir(), "people.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// memoryPeople returns an in-memory workbook with sheets People and Teams.
func memoryPeople() Workbook {
	return NewMemoryWorkbook("people.xlsx", []string{"People", "Teams"}, map[string][][]RawCell{
		"People": {
			{TextCell("Name"), TextCell("Age"), TextCell("Active"), TextCell("Joined")},
			{TextCell("Ada"), NumberCell(36), BoolCell(true), SerialDateCell(45292)},
			{TextCell("Grace"), NumberCell(45), BoolCell(false), SerialDateCell(45293)},
			{TextCell("Linus"), NumberCell(28), BoolCell(true), SerialDateCell(45294)},
			{TextCell("Ken"), NumberCell(52), BoolCell(false), SerialDateCell(45295)},
			{TextCell("Barbara"), NumberCell(61), BoolCell(true), SerialDateCell(45296)},
		},
		"Teams": {
			{TextCell("Team"), TextCell("Size")},
			{TextCell("Core"), NumberCell(4)},
			{TextCell("Infra"), NumberCell(3)},
		},
	})
}
