package sheetjson

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ColumnFile is the on-disk form of column overrides:
//
//	headers: [id, name]
//	columns:
//	  - index: 0
//	    format: integer
//	  - key: active
//	    format: truthy(oui,non)
//	    default: false
type ColumnFile struct {
	Headers []string          `yaml:"headers"`
	Columns []ColumnFileEntry `yaml:"columns"`
}

// ColumnFileEntry addresses one column by index or by key.
type ColumnFileEntry struct {
	Index        *int   `yaml:"index"`
	Key          string `yaml:"key"`
	Rename       string `yaml:"rename"`
	Format       Format `yaml:"format"`
	Default      any    `yaml:"default"`
	DecimalComma *bool  `yaml:"decimal_comma"`
}

// LoadColumnSpecs decodes a column file. JSON is accepted as a YAML subset.
func LoadColumnSpecs(r io.Reader) (*ColumnFile, error) {
	var cf ColumnFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cf); err != nil {
		if err == io.EOF {
			return &cf, nil
		}
		return nil, fmt.Errorf("decode column specs: %w", err)
	}
	for i, c := range cf.Columns {
		if c.Index == nil && c.Key == "" {
			return nil, fmt.Errorf("column entry %d: index or key is required", i)
		}
		if c.Index != nil && *c.Index < 0 {
			return nil, fmt.Errorf("column entry %d: negative index %d", i, *c.Index)
		}
	}
	return &cf, nil
}

// LoadColumnSpecsFile reads a column file from path.
func LoadColumnSpecsFile(path string) (*ColumnFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open column specs %q: %w", path, err)
	}
	defer f.Close()
	return LoadColumnSpecs(f)
}

// Options converts the file into options. An entry with an index becomes a
// positional override whose key is Rename (or Key); a key-only entry
// matches the resolved key and renames it when Rename is set.
func (cf *ColumnFile) Options() []Option {
	var opts []Option
	if len(cf.Headers) > 0 {
		opts = append(opts, WithHeaders(cf.Headers...))
	}
	for _, c := range cf.Columns {
		spec := ColumnSpec{Format: c.Format, Default: c.Default, DecimalComma: c.DecimalComma}
		if c.Index != nil {
			spec.Key = c.Rename
			if spec.Key == "" {
				spec.Key = c.Key
			}
			opts = append(opts, WithColumn(*c.Index, spec))
			continue
		}
		spec.Key = c.Rename
		opts = append(opts, WithColumnKey(c.Key, spec))
	}
	return opts
}

// WithColumnSpecs applies a decoded column file.
func WithColumnSpecs(cf *ColumnFile) Option {
	return func(o *OptionSet) {
		for _, opt := range cf.Options() {
			opt(o)
		}
	}
}
