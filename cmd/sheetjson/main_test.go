package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

const peopleCSV = "Name,Age,Member,Joined\nAda,36,yes,2024-01-01\nGrace,45,no,2024-02-15\n"

func TestRun_ConvertDocument(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)
	code, out, _ := runCLI(t, path, "--max", "1")
	require.Equal(t, 0, code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "people.csv", doc["filename"])
	assert.Equal(t, float64(1), doc["num_rows"])
	assert.Nil(t, doc["out_ref"])
	assert.Equal(t, []any{"Name", "Age", "Member", "Joined"}, doc["keys"])
}

func TestRun_ConvertLinesWithKeys(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)
	code, out, _ := runCLI(t, path, "--lines", "--keys", "name,,member", "--filter", "Age > 40")
	require.Equal(t, 0, code)
	assert.Equal(t, `{"name":"Grace","Age":45,"member":false,"Joined":"2024-02-15"}`+"\n", out)
}

func TestRun_ConvertToFileAndOutDir(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)
	outPath := filepath.Join(t.TempDir(), "out.json")
	dir := filepath.Join(t.TempDir(), "rows")

	code, out, _ := runCLI(t, path, "--out-dir", dir, "-o", outPath)
	require.Equal(t, 0, code)
	assert.Empty(t, out)

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var doc struct {
		NumRows int    `json:"num_rows"`
		OutRef  string `json:"out_ref"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, 2, doc.NumRows)
	assert.Equal(t, dir, filepath.Dir(doc.OutRef))

	lines, err := os.ReadFile(doc.OutRef)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(lines), "\n"))
}

func TestRun_EngineErrorPrintsKey(t *testing.T) {
	code, out, _ := runCLI(t, filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Equal(t, 1, code)
	assert.JSONEq(t, `{"error":true,"key":"file_unavailable"}`, out)

	code, out, _ = runCLI(t, writeFile(t, "people.csv", peopleCSV), "--filter", "age >")
	assert.Equal(t, 1, code)
	assert.JSONEq(t, `{"error":true,"key":"invalid_filter"}`, out)
}

func TestRun_UsageErrors(t *testing.T) {
	code, _, errOut := runCLI(t)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "accepts 1 arg")

	code, _, errOut = runCLI(t, writeFile(t, "people.csv", peopleCSV), "--key-style", "roman")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "roman")
}

func TestRun_BadConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	code, _, errOut := runCLI(t, "anything.csv")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "LOG_LEVEL")
}

func TestRun_BadServerConfigOnlyStopsServe(t *testing.T) {
	t.Setenv("SERVER_PORT", "eighty")
	path := writeFile(t, "people.csv", peopleCSV)

	code, out, _ := runCLI(t, path, "--lines")
	require.Equal(t, 0, code)
	assert.Contains(t, out, `"Name":"Ada"`)

	code, _, errOut := runCLI(t, "serve")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "SERVER_PORT")
}

func TestRun_Describe(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)
	code, out, _ := runCLI(t, "describe", path, "--date-only")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Source: people.csv (csv)")
	assert.Contains(t, out, `B "Age" integer`)
	assert.Contains(t, out, `C "Member" truthy`)

	code, out, _ = runCLI(t, "describe", path, "--json")
	require.Equal(t, 0, code)
	var d map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, "csv", d["extension"])
}

func TestRun_Validate(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)
	code, out, _ := runCLI(t, "validate", path)
	assert.Equal(t, 0, code)
	assert.Equal(t, "OK\n", out)

	code, out, _ = runCLI(t, "validate", path, "--header-row", "9")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "[ERROR] header_row")
}

func TestSplitKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "", "c"}, splitKeys(" a ,, c"))
}
