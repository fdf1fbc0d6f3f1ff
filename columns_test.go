package sheetjson

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const columnsYAML = `
headers: [id]
columns:
  - index: 0
    format: integer
  - index: 1
    rename: full_name
  - key: active
    format: truthy(oui,non)
    default: false
  - key: ratio
    format: d2
    decimal_comma: true
`

func TestLoadColumnSpecs(t *testing.T) {
	cf, err := LoadColumnSpecs(strings.NewReader(columnsYAML))
	require.NoError(t, err)
	require.Len(t, cf.Columns, 4)

	opts := NewOptionSet("x.csv", WithColumnSpecs(cf))
	assert.Equal(t, []string{"id"}, opts.Headers)
	assert.Equal(t, FormatInteger, opts.Columns[0].Format.Kind)
	assert.Equal(t, "full_name", opts.Columns[1].Key)
	assert.Equal(t, FormatAuto, opts.Columns[1].Format.Kind)
	assert.Equal(t, TruthyPair("oui", "non"), opts.ColumnsByKey["active"].Format)
	assert.Equal(t, false, opts.ColumnsByKey["active"].Default)
	require.NotNil(t, opts.ColumnsByKey["ratio"].DecimalComma)
	assert.True(t, *opts.ColumnsByKey["ratio"].DecimalComma)
}

func TestLoadColumnSpecs_JSON(t *testing.T) {
	cf, err := LoadColumnSpecs(strings.NewReader(`{"columns": [{"index": 2, "format": "dt"}]}`))
	require.NoError(t, err)
	opts := NewOptionSet("", WithColumnSpecs(cf))
	assert.Equal(t, FormatDateTime, opts.Columns[2].Format.Kind)
}

func TestLoadColumnSpecs_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown field":  "columns:\n  - index: 0\n    colour: red\n",
		"unknown format": "columns:\n  - index: 0\n    format: money\n",
		"no address":     "columns:\n  - format: integer\n",
		"negative index": "columns:\n  - index: -1\n",
		"malformed yaml": "columns: [\n",
	}
	for name, in := range tests {
		_, err := LoadColumnSpecs(strings.NewReader(in))
		assert.Error(t, err, name)
	}

	cf, err := LoadColumnSpecs(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, cf.Columns)
}

func TestProcess_WithColumnFile(t *testing.T) {
	data := writeFile(t, "survey.csv", "code,name,active,ratio\n007,Bond,Oui,\"0,5\"\n")
	spec := writeFile(t, "columns.yaml", columnsYAML)

	cf, err := LoadColumnSpecsFile(spec)
	require.NoError(t, err)
	rs, err := Process(context.Background(), NewOptionSet(data, WithColumnSpecs(cf)))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "full_name", "active", "ratio"}, rs.Keys)
	assert.Equal(t, map[string]any{"id": int64(7), "full_name": "Bond", "active": true, "ratio": 0.5}, rs.Data[0].Map())
}

func TestProcess_ColumnFileRenameByKey(t *testing.T) {
	data := writeFile(t, "grades.csv", "name,grade\nAda,91\n")
	cf, err := LoadColumnSpecs(strings.NewReader("columns:\n  - key: grade\n    rename: score\n    format: integer\n"))
	require.NoError(t, err)
	assert.Equal(t, "score", NewOptionSet("", WithColumnSpecs(cf)).ColumnsByKey["grade"].Key)

	rs, err := Process(context.Background(), NewOptionSet(data, WithColumnSpecs(cf)))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "score"}, rs.Keys)
	assert.Equal(t, map[string]any{"name": "Ada", "score": int64(91)}, rs.Data[0].Map())

	issues, err := Validate(data, WithColumnSpecs(cf))
	require.NoError(t, err)
	assert.Empty(t, issues, "a renamed key still matches its column")
}
