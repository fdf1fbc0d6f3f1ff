// Package sink provides row sinks for deferred conversions: a JSON-lines file
// and a PostgreSQL jsonb table. Each sink reports a reference that ends up in
// the result's out_ref.
package sink

import (
	"context"

	"github.com/javajack/sheetjson"
)

// Sink receives rows one at a time in source order.
type Sink interface {
	Save(ctx context.Context, row sheetjson.Row) error
	// Ref identifies where the rows went: a file path or an import id.
	Ref() string
	Close() error
}

// RowSink adapts s to the callback ProcessDeferred expects.
func RowSink(s Sink) sheetjson.RowSink {
	return s.Save
}

// Run converts opts.Path in deferred mode into s and closes it. The returned
// result carries s.Ref() as out_ref.
func Run(ctx context.Context, opts sheetjson.OptionSet, s Sink) (*sheetjson.ResultSet, error) {
	ref := s.Ref()
	rs, err := sheetjson.ProcessDeferred(ctx, opts, RowSink(s), &ref)
	if cerr := s.Close(); err == nil && cerr != nil {
		return rs, cerr
	}
	return rs, err
}
