package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/javajack/sheetjson"
	"github.com/javajack/sheetjson/internal/logging"
	"github.com/javajack/sheetjson/internal/sink"
)

// Error keys for failures that happen before the engine runs.
const (
	keyNoFile         = "no_file_uploaded"
	keyFileTooLarge   = "file_too_large"
	keyInvalidRequest = "invalid_request"
	keyNoOutDir       = "deferred_output_disabled"
)

type errorBody struct {
	Error   bool   `json:"error"`
	Key     string `json:"key"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleConvert converts the multipart "file" field. Conversion options come
// from the query string.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := s.queryOptions(q)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{true, keyInvalidRequest, err.Error()})
		return
	}
	path, cleanup, ok := s.receiveUpload(w, r)
	if !ok {
		return
	}
	defer cleanup()

	log := logging.WithFields(r.Context(), "file", filepath.Base(path))
	o := sheetjson.NewOptionSet(path, append(opts, sheetjson.WithLogger(log))...)

	if flag(q, "deferred") {
		s.convertDeferred(w, r, o)
		return
	}

	rs, err := sheetjson.Process(r.Context(), o)
	if err != nil {
		s.respondEngineError(w, r, err)
		return
	}
	log.Info("converted", "sheet", rs.Sheet.Name, "rows", rs.NumRows)

	if o.Output == sheetjson.OutputLines {
		w.Header().Set("Content-Type", "application/x-ndjson")
		if err := rs.WriteLines(w, flag(q, "wrap")); err != nil {
			log.Error("write lines", "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

// convertDeferred streams rows into a JSON-lines file under the configured
// output directory and answers with the result metadata only.
func (s *Server) convertDeferred(w http.ResponseWriter, r *http.Request, o sheetjson.OptionSet) {
	if s.cfg.Convert.OutDir == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{true, keyNoOutDir, "server has no output directory"})
		return
	}
	ls, err := sink.CreateLinesFile(s.cfg.Convert.OutDir)
	if err != nil {
		logging.FromContext(r.Context()).Error("create lines file", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: true, Key: sheetjson.CodeUnknown})
		return
	}
	rs, err := sink.Run(r.Context(), o, ls)
	if err != nil {
		s.respondEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	opts, err := s.queryOptions(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{true, keyInvalidRequest, err.Error()})
		return
	}
	path, cleanup, ok := s.receiveUpload(w, r)
	if !ok {
		return
	}
	defer cleanup()

	d, err := sheetjson.Describe(path, opts...)
	if err != nil {
		s.respondEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// receiveUpload stores the multipart "file" field in a temp dir under its
// original base name, so the engine sees the real filename and extension.
func (s *Server) receiveUpload(w http.ResponseWriter, r *http.Request) (string, func(), bool) {
	maxSize := s.cfg.Server.MaxFileSize
	if r.ContentLength > maxSize {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: true, Key: keyFileTooLarge})
		return "", nil, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: true, Key: keyFileTooLarge})
			return "", nil, false
		}
		writeJSON(w, http.StatusBadRequest, errorBody{true, keyInvalidRequest, "invalid multipart form"})
		return "", nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: true, Key: keyNoFile})
		return "", nil, false
	}
	defer file.Close()

	dir, err := os.MkdirTemp("", "sheetjson-upload-")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: true, Key: sheetjson.CodeUnknown})
		return "", nil, false
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	name := filepath.Base(header.Filename)
	if name == "." || name == string(filepath.Separator) {
		name = "upload"
	}
	path := filepath.Join(dir, name)
	out, err := os.Create(path)
	if err == nil {
		_, err = io.Copy(out, file)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		cleanup()
		logging.FromContext(r.Context()).Error("store upload", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: true, Key: sheetjson.CodeUnknown})
		return "", nil, false
	}
	return path, cleanup, true
}

func (s *Server) respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, sheetjson.ErrInvalidOption):
		status = http.StatusBadRequest
	case errors.Is(err, sheetjson.ErrSourceUnavailable), errors.Is(err, sheetjson.ErrSheetNotFound):
		status = http.StatusUnprocessableEntity
	}
	logging.FromContext(r.Context()).Warn("conversion failed", "code", sheetjson.Code(err), "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(sheetjson.ErrorJSON(err))
}

// queryOptions maps query parameters onto options, after the configured
// defaults.
func (s *Server) queryOptions(q url.Values) ([]sheetjson.Option, error) {
	opts := append([]sheetjson.Option(nil), s.defaults...)

	ints := []struct {
		name  string
		apply func(int) sheetjson.Option
	}{
		{"index", sheetjson.WithSheetIndex},
		{"max", sheetjson.WithMaxRows},
		{"header_row", sheetjson.WithHeaderRow},
		{"sample", sheetjson.WithSampleSize},
	}
	for _, p := range ints {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%s must be a non-negative integer", p.name)
		}
		opts = append(opts, p.apply(n))
	}

	if v := q.Get("sheet"); v != "" {
		opts = append(opts, sheetjson.WithSheetName(v))
	}
	if v := q.Get("key_style"); v != "" {
		style, err := sheetjson.ParseKeyStyle(v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sheetjson.WithKeyStyle(style))
	}
	if v := q.Get("filter"); v != "" {
		opts = append(opts, sheetjson.WithFilter(v))
	}
	if v := q.Get("encoding"); v != "" {
		opts = append(opts, sheetjson.WithEncoding(v))
	}
	if flag(q, "omit_header") {
		opts = append(opts, sheetjson.WithOmitHeader(true))
	}
	if flag(q, "decimal_comma") {
		opts = append(opts, sheetjson.WithDecimalComma(true))
	}
	if flag(q, "date_only") {
		opts = append(opts, sheetjson.WithDateOnly(true))
	}
	if flag(q, "lines") {
		opts = append(opts, sheetjson.WithOutput(sheetjson.OutputLines))
	}
	if flag(q, "preview") {
		opts = append(opts, sheetjson.WithPreview())
	}
	return opts, nil
}

// flag reports whether a query parameter is present and truthy; a bare
// "?lines" counts.
func flag(q url.Values, name string) bool {
	if !q.Has(name) {
		return false
	}
	v := q.Get(name)
	if v == "" {
		return true
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
