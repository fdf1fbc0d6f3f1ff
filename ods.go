package sheetjson

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	nsOffice = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
	nsTable  = "urn:oasis:names:tc:opendocument:xmlns:table:1.0"
	nsText   = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
)

// OpenODS opens an ods file and decodes every worksheet.
func OpenODS(path string) (Workbook, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, newError(SourceUnavailable, CodeCannotOpen, fmt.Errorf("open workbook %q: %w", path, err))
	}
	defer zr.Close()

	f, err := zr.Open("content.xml")
	if err != nil {
		return nil, newError(SourceUnavailable, CodeCannotOpen, fmt.Errorf("open workbook %q: %w", path, err))
	}
	defer f.Close()

	names, sheets, err := parseODSContent(f)
	if err != nil {
		return nil, newError(SourceUnavailable, CodeCannotOpen, fmt.Errorf("read workbook %q: %w", path, err))
	}
	out := &memoryWorkbook{filename: filepath.Base(path), extension: "ods", names: names}
	for _, rows := range sheets {
		out.sheets = append(out.sheets, newMemoryGrid(rows))
	}
	return out, nil
}

// odsCell accumulates one table:table-cell element.
type odsCell struct {
	typ, value string
	repeat     int
	paragraphs int
	text       strings.Builder
}

// parseODSContent streams content.xml. Repeated blank rows and cells are
// only materialized when content follows them.
func parseODSContent(r io.Reader) ([]string, [][][]RawCell, error) {
	dec := xml.NewDecoder(r)
	var (
		names       []string
		sheets      [][][]RawCell
		rows        [][]RawCell
		row         []RawCell
		blankRows   int
		blankCells  int
		rowRepeat   int
		cell        *odsCell
		inParagraph int
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Space == nsTable && t.Name.Local == "table":
				names = append(names, xmlAttr(t, nsTable, "name"))
				rows, blankRows = nil, 0
			case t.Name.Space == nsTable && t.Name.Local == "table-row":
				row, blankCells = nil, 0
				rowRepeat = repeatAttr(t, "number-rows-repeated")
			case t.Name.Space == nsTable && (t.Name.Local == "table-cell" || t.Name.Local == "covered-table-cell"):
				cell = &odsCell{
					typ:    xmlAttr(t, nsOffice, "value-type"),
					repeat: repeatAttr(t, "number-columns-repeated"),
				}
				cell.value = odsValueAttr(t, cell.typ)
			case t.Name.Space == nsOffice && t.Name.Local == "annotation":
				if err := dec.Skip(); err != nil {
					return nil, nil, err
				}
			case cell != nil && t.Name.Space == nsText:
				switch t.Name.Local {
				case "p", "h":
					if cell.paragraphs > 0 {
						cell.text.WriteByte('\n')
					}
					cell.paragraphs++
					inParagraph++
				case "s":
					cell.text.WriteString(strings.Repeat(" ", repeatAttrNS(t, nsText, "c")))
				case "tab":
					cell.text.WriteByte('\t')
				case "line-break":
					cell.text.WriteByte('\n')
				}
			}
		case xml.CharData:
			if cell != nil && inParagraph > 0 {
				cell.text.Write(t)
			}
		case xml.EndElement:
			switch {
			case cell != nil && t.Name.Space == nsText && (t.Name.Local == "p" || t.Name.Local == "h"):
				inParagraph--
			case cell != nil && t.Name.Space == nsTable && (t.Name.Local == "table-cell" || t.Name.Local == "covered-table-cell"):
				c := cell.raw()
				if c.IsBlank() {
					blankCells += cell.repeat
				} else {
					for ; blankCells > 0; blankCells-- {
						row = append(row, BlankCell())
					}
					for range cell.repeat {
						row = append(row, c)
					}
				}
				cell, inParagraph = nil, 0
			case t.Name.Space == nsTable && t.Name.Local == "table-row":
				if len(row) == 0 {
					blankRows += rowRepeat
					continue
				}
				for ; blankRows > 0; blankRows-- {
					rows = append(rows, nil)
				}
				for range rowRepeat {
					rows = append(rows, row)
				}
			case t.Name.Space == nsTable && t.Name.Local == "table":
				sheets = append(sheets, rows)
			}
		}
	}
	if len(names) != len(sheets) {
		return nil, nil, errors.New("unterminated table")
	}
	return names, sheets, nil
}

var odsDuration = regexp.MustCompile(`^-?P(?:(\d+)D)?T(?:(\d+)H)?(?:(\d+)M)?(?:([\d.]+)S)?$`)

// raw converts the accumulated cell into a RawCell. Typed values that fail to
// parse fall back to the displayed text.
func (c *odsCell) raw() RawCell {
	switch c.typ {
	case "float", "percentage", "currency":
		if f, err := strconv.ParseFloat(c.value, 64); err == nil {
			return NumberCell(f)
		}
	case "boolean":
		if b, err := strconv.ParseBool(c.value); err == nil {
			return BoolCell(b)
		}
	case "date":
		for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02"} {
			if t, err := time.Parse(layout, c.value); err == nil {
				return DateCell(t)
			}
		}
	case "time":
		if m := odsDuration.FindStringSubmatch(c.value); m != nil {
			var days float64
			for i, unit := range []float64{1, 24, 24 * 60, 24 * 60 * 60} {
				if m[i+1] != "" {
					n, _ := strconv.ParseFloat(m[i+1], 64)
					days += n / unit
				}
			}
			return SerialDateCell(days)
		}
	case "string":
		if c.paragraphs == 0 && c.value != "" {
			return TextCell(c.value)
		}
	}
	if c.text.Len() == 0 {
		return BlankCell()
	}
	return TextCell(c.text.String())
}

// odsValueAttr returns the office attribute carrying the typed value.
func odsValueAttr(t xml.StartElement, typ string) string {
	switch typ {
	case "boolean":
		return xmlAttr(t, nsOffice, "boolean-value")
	case "date":
		return xmlAttr(t, nsOffice, "date-value")
	case "time":
		return xmlAttr(t, nsOffice, "time-value")
	case "string":
		return xmlAttr(t, nsOffice, "string-value")
	default:
		return xmlAttr(t, nsOffice, "value")
	}
}

func xmlAttr(t xml.StartElement, space, local string) string {
	for _, a := range t.Attr {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func repeatAttr(t xml.StartElement, local string) int {
	return repeatAttrNS(t, nsTable, local)
}

func repeatAttrNS(t xml.StartElement, space, local string) int {
	n, err := strconv.Atoi(xmlAttr(t, space, local))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
