package sheetjson

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"

	// Serial 60 is 1900-02-29, a day that never existed.
	phantomLeapSerial = 60
	// Serials beyond 9999-12-31 are not dates.
	maxSerial = 2958465
)

// excelEpoch is day 0 of the 1900 date system; serial 1 is 1900-01-01.
var excelEpoch = time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC)

var isoDateRegex = regexp.MustCompile(
	`^(\d{4})[-/](\d{1,2})(?:[-/](\d{1,2}))?` +
		`(?:[T ](\d{1,2}):(\d{2})(?::(\d{2}))?(?:\.\d+)?)?` +
		`\s*(?:Z|[+-]\d{2}:?\d{2})?$`)

// isoDate is a calendar value parsed from text.
type isoDate struct {
	t       time.Time
	hasDay  bool
	hasTime bool
}

// parseISODate parses ISO-like text: 2001-09-23, 2001-9-23, 2001/09/23,
// 2001-09, 2001-09-23T10:30, 2001-09-23 10:30:05. Zone suffixes are ignored.
func parseISODate(s string) (isoDate, bool) {
	m := isoDateRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return isoDate{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day := 1
	if m[3] != "" {
		day, _ = strconv.Atoi(m[3])
	}
	if month < 1 || month > 12 || day < 1 || day > daysIn(year, time.Month(month)) {
		return isoDate{}, false
	}

	var hour, minute, sec int
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		minute, _ = strconv.Atoi(m[5])
		if m[6] != "" {
			sec, _ = strconv.Atoi(m[6])
		}
		if hour > 23 || minute > 59 || sec > 59 {
			return isoDate{}, false
		}
	}
	return isoDate{
		t:       time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.UTC),
		hasDay:  m[3] != "",
		hasTime: m[4] != "",
	}, true
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// formatSerial renders a 1900-system day serial. Serial 60 renders as the
// phantom 1900-02-29 and every later serial is shifted back one day.
func formatSerial(serial float64, withTime bool) (string, bool) {
	if math.IsNaN(serial) || serial < 0 || serial >= maxSerial+1 {
		return "", false
	}
	days := math.Floor(serial)
	secs := int(math.Round((serial - days) * 86400))
	if secs >= 86400 {
		days++
		secs = 0
	}
	clock := time.Duration(secs) * time.Second

	if int(days) == phantomLeapSerial {
		if !withTime {
			return "1900-02-29", true
		}
		// 1900-02-28 with the same clock, relabelled.
		t := excelEpoch.AddDate(0, 0, phantomLeapSerial-1).Add(clock)
		return "1900-02-29" + t.Format("T15:04:05"), true
	}

	offset := int(days)
	if offset > phantomLeapSerial {
		offset--
	}
	t := excelEpoch.AddDate(0, 0, offset).Add(clock)
	if withTime {
		return t.Format(dateTimeLayout), true
	}
	return t.Format(dateLayout), true
}

// formatTime renders an already-typed date or date-time.
func formatTime(t time.Time, withTime bool) string {
	if withTime {
		return t.Format(dateTimeLayout)
	}
	return t.Format(dateLayout)
}

// formatDateCell renders a CellDate value.
func formatDateCell(c RawCell, withTime bool) (string, bool) {
	if c.Kind != CellDate {
		return "", false
	}
	if c.Serial {
		return formatSerial(c.Number, withTime)
	}
	return formatTime(c.Time, withTime), true
}

// castDate resolves a cell of any kind to a date string. Numbers are
// serials; text is ISO-like first and a numeric serial second.
func castDate(c RawCell, withTime bool) (string, bool) {
	switch c.Kind {
	case CellDate:
		return formatDateCell(c, withTime)
	case CellNumber:
		return formatSerial(c.Number, withTime)
	case CellText:
		text := strings.TrimSpace(c.Text)
		if d, ok := parseISODate(text); ok {
			return formatTime(d.t, withTime), true
		}
		if f, ok := parseNumericText(text, false); ok {
			return formatSerial(f, withTime)
		}
	}
	return "", false
}
