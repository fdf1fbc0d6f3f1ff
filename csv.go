package sheetjson

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// utf8BOM is stripped from the start of delimited input.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// csvSheetName names the single implicit sheet of a CSV/TSV source.
const csvSheetName = "single"

// csvWorkbook is a CSV or TSV source decoded into memory.
type csvWorkbook struct {
	filename  string
	extension string
	grid      *memoryGrid
}

func (w *csvWorkbook) Filename() string     { return w.filename }
func (w *csvWorkbook) Extension() string    { return w.extension }
func (w *csvWorkbook) SheetNames() []string { return []string{csvSheetName} }
func (w *csvWorkbook) Flat() bool           { return true }

func (w *csvWorkbook) Sheet(index int) (Grid, error) {
	if index != 0 {
		return nil, newError(SheetNotFound, CodeSheetNotFound, nil)
	}
	return w.grid, nil
}

// OpenCSV decodes the CSV or TSV file at path. A .gz, .bz2, .xz or .zst
// suffix is decompressed first. enc names the text encoding; empty means UTF-8.
func OpenCSV(path, enc string) (Workbook, error) {
	ext, compression := sourceExtension(path)
	code := CodeUnreadableCSV
	if ext == "tsv" {
		code = CodeUnreadableTSV
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, newError(SourceUnavailable, CodeFileUnavailable, err)
	}
	defer f.Close()

	r, err := decompress(f, compression)
	if err != nil {
		return nil, newError(SourceUnavailable, code, err)
	}
	defer r.Close()

	wb, err := ReadCSV(r, filepath.Base(path), ext == "tsv", enc)
	if err != nil {
		return nil, newError(SourceUnavailable, code, err)
	}
	return wb, nil
}

// ReadCSV decodes delimited text from r. tsv selects a tab delimiter.
func ReadCSV(r io.Reader, filename string, tsv bool, enc string) (Workbook, error) {
	decoded, err := decodeText(r, enc)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(decoded)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	if tsv {
		cr.Comma = '\t'
	}

	var rows [][]RawCell
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record %d: %w", len(rows)+1, err)
		}
		row := make([]RawCell, len(record))
		for i, field := range record {
			row[i] = TextCell(strings.ToValidUTF8(field, "\uFFFD"))
		}
		rows = append(rows, row)
	}

	ext := "csv"
	if tsv {
		ext = "tsv"
	}
	return &csvWorkbook{filename: filename, extension: ext, grid: newMemoryGrid(rows)}, nil
}

// decodeText converts r from the named encoding to UTF-8 and skips a UTF-8 BOM.
func decodeText(r io.Reader, name string) (io.Reader, error) {
	var enc encoding.Encoding
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-")) {
	case "", "utf-8", "utf8":
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		enc = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		enc = charmap.Windows1252
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	if enc != nil {
		return enc.NewDecoder().Reader(r), nil
	}

	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br, nil
}
