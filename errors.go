package sheetjson

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind classifies an engine error.
type Kind int

const (
	SourceUnavailable Kind = iota + 1
	SheetNotFound
	CallbackFailed
	InvalidOption
)

// String returns a human-readable name for the Kind.
func (k Kind) String() string {
	switch k {
	case SourceUnavailable:
		return "SourceUnavailable"
	case SheetNotFound:
		return "SheetNotFound"
	case CallbackFailed:
		return "CallbackFailed"
	case InvalidOption:
		return "InvalidOption"
	default:
		return "Unknown"
	}
}

// Sentinels matched by errors.Is against any *Error of the same Kind.
var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrSheetNotFound     = errors.New("sheet not found")
	ErrCallbackFailed    = errors.New("row callback failed")
	ErrInvalidOption     = errors.New("invalid option")
)

// Machine-readable error codes.
const (
	CodeNoFilepath        = "no_filepath_specified"
	CodeFileUnavailable   = "file_unavailable"
	CodeUnsupportedFormat = "unsupported_format"
	CodeCannotOpen        = "cannot_open_workbook"
	CodeUnreadableCSV     = "unreadable_csv_file"
	CodeUnreadableTSV     = "unreadable_tsv_file"
	CodeSheetNotFound     = "sheet_not_found"
	CodeNoSheets          = "workbook_with_no_sheets"
	CodeCallbackFailed    = "callback_failed"
	CodeInvalidFilter     = "invalid_filter"
	CodeMissingSink       = "missing_row_sink"
	CodeUnknown           = "unknown_error"
)

// Error is an engine error carrying a Kind and a short machine-readable code.
type Error struct {
	Kind Kind
	Code string
	Err  error // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.Code, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s (%s)", e.Code, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrSourceUnavailable:
		return e.Kind == SourceUnavailable
	case ErrSheetNotFound:
		return e.Kind == SheetNotFound
	case ErrCallbackFailed:
		return e.Kind == CallbackFailed
	case ErrInvalidOption:
		return e.Kind == InvalidOption
	}
	return false
}

func newError(kind Kind, code string, err error) *Error {
	return &Error{Kind: kind, Code: code, Err: err}
}

// Code returns the machine-readable code of err, or "unknown_error".
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// ErrorJSON renders err as {"error":true,"key":"<code>"}.
func ErrorJSON(err error) []byte {
	b, _ := json.Marshal(struct {
		Error bool   `json:"error"`
		Key   string `json:"key"`
	}{true, Code(err)})
	return b
}
