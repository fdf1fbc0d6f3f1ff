package sheetjson

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowOf(kv ...any) Row {
	row := NewRow(len(kv) / 2)
	for i := 0; i+1 < len(kv); i += 2 {
		row.Set(kv[i].(string), kv[i+1])
	}
	return row
}

func TestResultSet_DocumentShape(t *testing.T) {
	rs := &ResultSet{
		Filename:  "people.csv",
		Extension: "csv",
		Sheet:     SheetRef{Name: "single", Index: 0},
		Sheets:    []string{"single"},
		Keys:      []string{"name", "age"},
		NumRows:   1,
		Data:      []Row{rowOf("name", "Ada", "age", int64(36))},
	}
	b, err := json.Marshal(rs)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"filename": "people.csv",
		"extension": "csv",
		"sheet": {"key": "single", "index": 0},
		"sheets": ["single"],
		"keys": ["name", "age"],
		"num_rows": 1,
		"data": [{"name": "Ada", "age": 36}],
		"out_ref": null
	}`, string(b))
	assert.Contains(t, string(b), `{"name":"Ada","age":36}`)
}

func TestResultSet_OutRef(t *testing.T) {
	ref := "b7c0f1"
	rs := &ResultSet{Data: []Row{}, OutRef: &ref, NumRows: 12}
	b, err := json.Marshal(rs)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"out_ref":"b7c0f1"`)
	assert.Contains(t, string(b), `"data":[]`)
}

func TestResultSet_WriteLines(t *testing.T) {
	rs := &ResultSet{
		Sheet: SheetRef{Name: "People"},
		Data:  []Row{rowOf("a", int64(1)), rowOf("a", int64(2))},
	}
	var buf bytes.Buffer
	require.NoError(t, rs.WriteLines(&buf, false))
	assert.Equal(t, "{\"a\":1}\n{\"a\":2}\n", buf.String())

	buf.Reset()
	require.NoError(t, rs.WriteLines(&buf, true))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `{"sheet":"People","data":{"a":1}}`, lines[0])
}

func TestResultSet_LinesKeepMarkup(t *testing.T) {
	rs := &ResultSet{
		Sheet: SheetRef{Name: "<Q&A>"},
		Data:  []Row{rowOf("html", "<b>R&D</b>"), rowOf("html", "a > b")},
	}
	var buf bytes.Buffer
	require.NoError(t, rs.WriteLines(&buf, true))
	lines, err := rs.ToOutputLines(true)
	require.NoError(t, err)

	assert.Equal(t, strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n"), lines)
	assert.Equal(t, `{"sheet":"<Q&A>","data":{"html":"<b>R&D</b>"}}`, lines[0])
}

func TestResultSet_ToOutputLinesWithGroups(t *testing.T) {
	rs := &ResultSet{
		Sheet: SheetRef{Name: "People"},
		Data:  []Row{rowOf("n", "Ada"), rowOf("team", "Core"), rowOf("team", "Infra")},
		Groups: []SheetGroup{
			{Sheet: SheetRef{Name: "People", Index: 0}, NumRows: 1, Offset: 0},
			{Sheet: SheetRef{Name: "Teams", Index: 1}, NumRows: 2, Offset: 1},
		},
	}
	lines, err := rs.ToOutputLines(true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		`{"sheet":"People","data":{"n":"Ada"}}`,
		`{"sheet":"Teams","data":{"team":"Core"}}`,
		`{"sheet":"Teams","data":{"team":"Infra"}}`,
	}, lines)

	assert.Len(t, rs.GroupRows(rs.Groups[1]), 2)
	assert.Nil(t, rs.GroupRows(SheetGroup{Offset: 5, NumRows: 1}))
}

func TestResultSet_WriteShape(t *testing.T) {
	rs := &ResultSet{Data: []Row{rowOf("a", true)}}
	var doc, lines bytes.Buffer
	require.NoError(t, rs.Write(&doc, OutputDocument, false))
	require.NoError(t, rs.Write(&lines, OutputLines, false))
	assert.True(t, strings.HasPrefix(doc.String(), `{"filename"`))
	assert.Equal(t, "{\"a\":true}\n", lines.String())
}
