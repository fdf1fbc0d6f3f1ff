package sheetjson

import (
	"math"
	"strconv"
)

// Cast converts one raw cell with its column's resolved format. It never
// fails: blank, unparseable or mismatched cells yield the column default,
// or nil when none is configured.
func Cast(cell RawCell, col ResolvedColumn) any {
	if cell.IsBlank() {
		return col.Default
	}
	if v, ok := castValue(cell, col); ok {
		return v
	}
	return col.Default
}

func castValue(cell RawCell, col ResolvedColumn) (any, bool) {
	f := col.Format
	switch f.Kind {
	case FormatAuto, FormatString:
		return cell.String(), true
	case FormatInteger:
		n, ok := castNumber(cell, col.DecimalComma)
		if !ok || math.Abs(n) >= 1<<63 {
			return nil, false
		}
		return int64(roundHalfAway(n, 0)), true
	case FormatFloat:
		return castNumber(cell, col.DecimalComma)
	case FormatDecimal:
		n, ok := castNumber(cell, col.DecimalComma)
		if !ok {
			return nil, false
		}
		return roundHalfAway(n, f.Places), true
	case FormatBoolean:
		return castBoolean(cell)
	case FormatTruthy:
		return castTruthy(cell, truthyToken)
	case FormatTruthyCustom:
		return castTruthy(cell, func(s string) (bool, bool) {
			return customTruthy(s, f.TrueLabel, f.FalseLabel)
		})
	case FormatDate:
		return castDate(cell, false)
	case FormatDateTime:
		return castDate(cell, true)
	default:
		return nil, false
	}
}

// castNumber reads a number from any cell kind. Text yields its first
// embedded number; booleans are 1 or 0; serial dates yield the serial.
func castNumber(cell RawCell, decimalComma bool) (float64, bool) {
	switch cell.Kind {
	case CellNumber:
		if math.IsNaN(cell.Number) || math.IsInf(cell.Number, 0) {
			return 0, false
		}
		return cell.Number, true
	case CellText:
		return firstNumber(cell.Text, decimalComma)
	case CellBool:
		if cell.Bool {
			return 1, true
		}
		return 0, true
	case CellDate:
		if cell.Serial {
			return cell.Number, true
		}
	}
	return 0, false
}

func castBoolean(cell RawCell) (any, bool) {
	switch cell.Kind {
	case CellBool:
		return cell.Bool, true
	case CellNumber:
		return cell.Number >= 1, true
	case CellText:
		return boolToken(cell.Text)
	}
	return nil, false
}

func castTruthy(cell RawCell, match func(string) (bool, bool)) (any, bool) {
	switch cell.Kind {
	case CellBool:
		return cell.Bool, true
	case CellNumber:
		return match(strconv.FormatFloat(cell.Number, 'f', -1, 64))
	case CellText:
		return match(cell.Text)
	}
	return nil, false
}
