package sink

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/javajack/sheetjson"
)

// LinesSink writes one JSON object per row.
type LinesSink struct {
	bw    *bufio.Writer
	enc   *json.Encoder
	ref   string
	close func() error
}

// NewLinesSink writes rows to w. ref is reported as-is.
func NewLinesSink(w io.Writer, ref string) *LinesSink {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	return &LinesSink{bw: bw, enc: enc, ref: ref, close: func() error { return nil }}
}

// CreateLinesFile creates <uuid>.jsonl inside dir and returns a sink writing
// to it. The file path is the sink's reference.
func CreateLinesFile(dir string) (*LinesSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, uuid.NewString()+".jsonl")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create lines file: %w", err)
	}
	s := NewLinesSink(f, path)
	s.close = f.Close
	return s, nil
}

// Save encodes row on its own line.
func (s *LinesSink) Save(ctx context.Context, row sheetjson.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.enc.Encode(row)
}

// Ref returns the reference given at construction.
func (s *LinesSink) Ref() string { return s.ref }

// Close flushes buffered lines and closes the underlying file, if any.
func (s *LinesSink) Close() error {
	ferr := s.bw.Flush()
	cerr := s.close()
	if ferr != nil {
		return ferr
	}
	return cerr
}
