package sheetjson

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// decompressors open compressed CSV/TSV streams, keyed by file suffix.
var decompressors = map[string]func(io.Reader) (io.ReadCloser, error){
	"gz": func(r io.Reader) (io.ReadCloser, error) {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gz, nil
	},
	"bz2": func(r io.Reader) (io.ReadCloser, error) {
		return io.NopCloser(bzip2.NewReader(r)), nil
	},
	"xz": func(r io.Reader) (io.ReadCloser, error) {
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return io.NopCloser(xr), nil
	},
	"zst": func(r io.Reader) (io.ReadCloser, error) {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return dec.IOReadCloser(), nil
	},
}

// decompress wraps r for the given compression suffix. An empty suffix
// returns r unchanged.
func decompress(r io.Reader, compression string) (io.ReadCloser, error) {
	if compression == "" {
		return io.NopCloser(r), nil
	}
	open, ok := decompressors[compression]
	if !ok {
		return nil, fmt.Errorf("unsupported compression %q", compression)
	}
	return open(r)
}
