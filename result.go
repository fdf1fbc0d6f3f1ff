package sheetjson

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// SheetRef identifies a worksheet.
type SheetRef struct {
	Name  string `json:"key"`
	Index int    `json:"index"`
}

// SheetGroup describes the rows one worksheet contributed in preview mode.
// Its rows are Data[Offset : Offset+NumRows].
type SheetGroup struct {
	Sheet   SheetRef `json:"sheet"`
	Keys    []string `json:"keys"`
	NumRows int      `json:"num_rows"`
	Offset  int      `json:"offset"`
}

// ResultSet is the outcome of processing one source.
type ResultSet struct {
	Filename  string       `json:"filename"`
	Extension string       `json:"extension"`
	Sheet     SheetRef     `json:"sheet"`
	Sheets    []string     `json:"sheets"`
	Keys      []string     `json:"keys"`
	NumRows   int          `json:"num_rows"`
	Data      []Row        `json:"data"`
	Groups    []SheetGroup `json:"groups,omitempty"`
	OutRef    *string      `json:"out_ref"`
}

// GroupRows returns the rows of group g.
func (rs *ResultSet) GroupRows(g SheetGroup) []Row {
	end := min(g.Offset+g.NumRows, len(rs.Data))
	if g.Offset < 0 || g.Offset >= end {
		return nil
	}
	return rs.Data[g.Offset:end]
}

// sheetOf returns the worksheet a data row came from.
func (rs *ResultSet) sheetOf(i int) SheetRef {
	for _, g := range rs.Groups {
		if i >= g.Offset && i < g.Offset+g.NumRows {
			return g.Sheet
		}
	}
	return rs.Sheet
}

// WriteLines writes one JSON object per row. With wrap each line is
// {"sheet": name, "data": row}.
func (rs *ResultSet) WriteLines(w io.Writer, wrap bool) error {
	bw := bufio.NewWriter(w)
	enc := newEncoder(bw)
	for i := range rs.Data {
		if err := enc.Encode(rs.line(i, wrap)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ToOutputLines returns each row serialized independently, byte for byte
// the lines WriteLines produces.
func (rs *ResultSet) ToOutputLines(wrap bool) ([]string, error) {
	lines := make([]string, 0, len(rs.Data))
	var buf bytes.Buffer
	enc := newEncoder(&buf)
	for i := range rs.Data {
		buf.Reset()
		if err := enc.Encode(rs.line(i, wrap)); err != nil {
			return nil, err
		}
		lines = append(lines, strings.TrimSuffix(buf.String(), "\n"))
	}
	return lines, nil
}

// Write renders rs in the given output shape.
func (rs *ResultSet) Write(w io.Writer, shape OutputShape, wrap bool) error {
	if shape == OutputLines {
		return rs.WriteLines(w, wrap)
	}
	return newEncoder(w).Encode(rs)
}

// newEncoder returns a JSON encoder that leaves <, > and & unescaped.
func newEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}

func (rs *ResultSet) line(i int, wrap bool) any {
	if wrap {
		return wrappedRow{Sheet: rs.sheetOf(i).Name, Data: rs.Data[i]}
	}
	return rs.Data[i]
}

type wrappedRow struct {
	Sheet string `json:"sheet"`
	Data  Row    `json:"data"`
}
