package sheetjson

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// KeyStyle selects how keys are synthesized for columns without a header.
type KeyStyle int

const (
	KeyStyleA1       KeyStyle = iota // A, B, ... Z, AA
	KeyStyleNumbered                 // C00, C01, ...
)

// String returns the name accepted by ParseKeyStyle.
func (k KeyStyle) String() string {
	if k == KeyStyleNumbered {
		return "c01"
	}
	return "a1"
}

// ParseKeyStyle parses "a1" or "c01" (also "numbered", "c").
func ParseKeyStyle(s string) (KeyStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "a1", "a", "letters":
		return KeyStyleA1, nil
	case "c01", "c", "numbered", "n":
		return KeyStyleNumbered, nil
	}
	return KeyStyleA1, fmt.Errorf("unknown key style %q", s)
}

// ReadMode selects how rows are delivered.
type ReadMode int

const (
	ReadImmediate ReadMode = iota // accumulate rows in the ResultSet
	ReadDeferred                  // push rows to a RowSink
	ReadPreview                   // read every worksheet, capped per sheet
)

// OutputShape selects how a ResultSet is rendered.
type OutputShape int

const (
	OutputDocument OutputShape = iota
	OutputLines
)

const (
	DefaultMaxRows    = 10000
	DefaultSampleSize = 100
)

// ColumnSpec overrides the key, format or default of one column.
type ColumnSpec struct {
	Key     string
	Format  Format
	Default any // JSON scalar used for blank or unparseable cells

	// DecimalComma overrides OptionSet.DecimalComma for this column when set.
	DecimalComma *bool
}

// OptionSet is the configuration snapshot consumed by Process. It is never
// mutated once processing begins; use With to derive a modified copy.
type OptionSet struct {
	Path       string
	SheetName  string
	SheetIndex int // > 0 overrides SheetName
	HeaderRow  int
	OmitHeader bool
	MaxRows    int // 0 means DefaultMaxRows
	KeyStyle   KeyStyle

	Headers      []string
	Columns      map[int]ColumnSpec
	ColumnsByKey map[string]ColumnSpec

	Output   OutputShape
	ReadMode ReadMode

	DateOnly     bool
	DecimalComma bool
	SampleSize   int // 0 means DefaultSampleSize
	Filter       string
	Encoding     string
	Logger       *slog.Logger
}

// Option configures an OptionSet.
type Option func(*OptionSet)

// NewOptionSet builds an OptionSet for the source at path.
func NewOptionSet(path string, opts ...Option) OptionSet {
	o := OptionSet{Path: path}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// With returns a copy of o with opts applied. Maps and slices are cloned so
// the receiver stays unchanged.
func (o OptionSet) With(opts ...Option) OptionSet {
	c := o
	c.Headers = slices.Clone(o.Headers)
	c.Columns = maps.Clone(o.Columns)
	c.ColumnsByKey = maps.Clone(o.ColumnsByKey)
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithSheetName selects a worksheet by name. Matching ignores case, whitespace and punctuation.
func WithSheetName(name string) Option {
	return func(o *OptionSet) { o.SheetName = name }
}

// WithSheetIndex selects a worksheet by zero-based index. Index 0 defers to WithSheetName.
func WithSheetIndex(index int) Option {
	return func(o *OptionSet) { o.SheetIndex = index }
}

// WithHeaderRow sets the zero-based header row (default: 0).
func WithHeaderRow(row int) Option {
	return func(o *OptionSet) { o.HeaderRow = row }
}

// WithOmitHeader treats the header row position as data and synthesizes keys.
func WithOmitHeader(omit bool) Option {
	return func(o *OptionSet) { o.OmitHeader = omit }
}

// WithMaxRows caps the number of emitted rows per sheet (default: 10000).
func WithMaxRows(n int) Option {
	return func(o *OptionSet) { o.MaxRows = n }
}

// WithKeyStyle sets the synthesized key style.
func WithKeyStyle(style KeyStyle) Option {
	return func(o *OptionSet) { o.KeyStyle = style }
}

// WithHeaders overrides column keys by position.
func WithHeaders(headers ...string) Option {
	return func(o *OptionSet) { o.Headers = headers }
}

// WithColumn sets the override spec for the column at index.
func WithColumn(index int, spec ColumnSpec) Option {
	return func(o *OptionSet) {
		if o.Columns == nil {
			o.Columns = make(map[int]ColumnSpec)
		}
		o.Columns[index] = spec
	}
}

// WithColumnKey sets the override spec for the column resolving to key.
func WithColumnKey(key string, spec ColumnSpec) Option {
	return func(o *OptionSet) {
		if o.ColumnsByKey == nil {
			o.ColumnsByKey = make(map[string]ColumnSpec)
		}
		o.ColumnsByKey[key] = spec
	}
}

// WithColumns sets override specs for consecutive columns starting at 0.
func WithColumns(specs ...ColumnSpec) Option {
	return func(o *OptionSet) {
		for i, spec := range specs {
			WithColumn(i, spec)(o)
		}
	}
}

// WithOutput sets the output shape.
func WithOutput(shape OutputShape) Option {
	return func(o *OptionSet) { o.Output = shape }
}

// WithReadMode sets the read mode.
func WithReadMode(mode ReadMode) Option {
	return func(o *OptionSet) { o.ReadMode = mode }
}

// WithPreview reads every worksheet.
func WithPreview() Option {
	return WithReadMode(ReadPreview)
}

// WithDateOnly infers Date rather than DateTime for native date cells.
func WithDateOnly(dateOnly bool) Option {
	return func(o *OptionSet) { o.DateOnly = dateOnly }
}

// WithDecimalComma reads a lone comma as the decimal separator.
func WithDecimalComma(enabled bool) Option {
	return func(o *OptionSet) { o.DecimalComma = enabled }
}

// WithSampleSize sets how many data rows are sampled per column for inference.
func WithSampleSize(n int) Option {
	return func(o *OptionSet) { o.SampleSize = n }
}

// WithFilter keeps only rows for which the boolean expression holds.
// Row values are addressed by key.
func WithFilter(expression string) Option {
	return func(o *OptionSet) { o.Filter = expression }
}

// WithEncoding sets the text encoding of CSV/TSV input ("utf-8", "latin1", "windows-1252").
func WithEncoding(name string) Option {
	return func(o *OptionSet) { o.Encoding = name }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *OptionSet) { o.Logger = l }
}

func (o OptionSet) maxRows() int {
	if o.MaxRows <= 0 {
		return DefaultMaxRows
	}
	return o.MaxRows
}

func (o OptionSet) sampleSize() int {
	if o.SampleSize <= 0 {
		return DefaultSampleSize
	}
	return o.SampleSize
}

func (o OptionSet) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o OptionSet) headerRow() int {
	return max(o.HeaderRow, 0)
}

// columnSpec looks up an override by index first, then by resolved key.
func (o OptionSet) columnSpec(index int, key string) (ColumnSpec, bool) {
	if spec, ok := o.Columns[index]; ok {
		return spec, true
	}
	spec, ok := o.ColumnsByKey[key]
	return spec, ok
}

// withoutOverrides drops per-column overrides, used for secondary preview sheets.
func (o OptionSet) withoutOverrides() OptionSet {
	c := o
	c.Headers = nil
	c.Columns = nil
	c.ColumnsByKey = nil
	return c
}
