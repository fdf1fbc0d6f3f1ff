package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/javajack/sheetjson"
	"github.com/javajack/sheetjson/internal/config"
	"github.com/javajack/sheetjson/internal/sink"
)

// convertFlags mirror the engine options.
type convertFlags struct {
	sheet        string
	index        int
	maxRows      int
	headerRow    int
	omitHeader   bool
	keys         string
	columns      string
	keyStyle     string
	dateOnly     bool
	decimalComma bool
	sample       int
	filter       string
	encoding     string

	lines   bool
	wrap    bool
	preview bool
	output  string
	outDir  string
	pg      bool
	pgTable string
}

func (f *convertFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.sheet, "sheet", "", "Worksheet name (case, spaces and punctuation ignored)")
	fs.IntVar(&f.index, "index", 0, "Worksheet index; takes precedence over --sheet when > 0")
	fs.IntVar(&f.maxRows, "max", 0, "Maximum rows to emit (default from SHEETJSON_MAX_ROWS)")
	fs.IntVar(&f.headerRow, "header-row", 0, "Zero-based header row")
	fs.BoolVar(&f.omitHeader, "omit-header", false, "Treat every row as data and synthesize keys")
	fs.StringVar(&f.keys, "keys", "", "Comma-separated column keys overriding the header")
	fs.StringVar(&f.columns, "columns", "", "YAML or JSON file with per-column key, format and default")
	fs.StringVar(&f.keyStyle, "key-style", "", "Synthesized key style: a1 or c01")
	fs.BoolVar(&f.dateOnly, "date-only", false, "Render inferred date columns without time")
	fs.BoolVar(&f.decimalComma, "decimal-comma", false, "Read 1.234,5 style numbers")
	fs.IntVar(&f.sample, "sample", 0, "Rows sampled for format inference")
	fs.StringVar(&f.filter, "filter", "", "Keep rows matching this expression, e.g. 'age > 30'")
	fs.StringVar(&f.encoding, "encoding", "", "CSV text encoding: utf-8, latin1, windows-1252")
}

func (f *convertFlags) registerOutput(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.BoolVar(&f.lines, "lines", false, "Print one JSON object per row")
	fs.BoolVar(&f.wrap, "wrap", false, "With --lines, wrap rows as {\"sheet\":...,\"data\":...}")
	fs.BoolVar(&f.preview, "preview", false, "Read every worksheet, each capped at --max")
	fs.StringVarP(&f.output, "output", "o", "", "Write output to a file instead of stdout")
	fs.StringVar(&f.outDir, "out-dir", "", "Stream rows to <uuid>.jsonl in this directory")
	fs.BoolVar(&f.pg, "pg", false, "Stream rows into the DATABASE_URL table")
	fs.StringVar(&f.pgTable, "pg-table", "", "Target table for --pg (default from DATABASE_TABLE)")
}

// options layers explicitly set flags over the configured defaults.
func (f *convertFlags) options(cmd *cobra.Command, cfg *config.Config) ([]sheetjson.Option, error) {
	opts := cfg.ConvertOptions()
	changed := cmd.Flags().Changed

	if f.columns != "" {
		cf, err := sheetjson.LoadColumnSpecsFile(f.columns)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sheetjson.WithColumnSpecs(cf))
	}
	if changed("sheet") {
		opts = append(opts, sheetjson.WithSheetName(f.sheet))
	}
	if changed("index") {
		opts = append(opts, sheetjson.WithSheetIndex(f.index))
	}
	if changed("max") {
		opts = append(opts, sheetjson.WithMaxRows(f.maxRows))
	}
	if changed("header-row") {
		opts = append(opts, sheetjson.WithHeaderRow(f.headerRow))
	}
	if changed("omit-header") {
		opts = append(opts, sheetjson.WithOmitHeader(f.omitHeader))
	}
	if f.keys != "" {
		opts = append(opts, sheetjson.WithHeaders(splitKeys(f.keys)...))
	}
	if changed("key-style") {
		style, err := sheetjson.ParseKeyStyle(f.keyStyle)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sheetjson.WithKeyStyle(style))
	}
	if changed("date-only") {
		opts = append(opts, sheetjson.WithDateOnly(f.dateOnly))
	}
	if changed("decimal-comma") {
		opts = append(opts, sheetjson.WithDecimalComma(f.decimalComma))
	}
	if changed("sample") {
		opts = append(opts, sheetjson.WithSampleSize(f.sample))
	}
	if f.filter != "" {
		opts = append(opts, sheetjson.WithFilter(f.filter))
	}
	if changed("encoding") {
		opts = append(opts, sheetjson.WithEncoding(f.encoding))
	}
	if f.lines {
		opts = append(opts, sheetjson.WithOutput(sheetjson.OutputLines))
	}
	if f.preview {
		opts = append(opts, sheetjson.WithPreview())
	}
	return append(opts, sheetjson.WithLogger(slog.Default())), nil
}

// splitKeys splits a comma list, keeping empty entries so positions hold.
func splitKeys(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func runConvert(ctx context.Context, cmd *cobra.Command, cfg *config.Config, f *convertFlags, path string, stdout io.Writer) error {
	opts, err := f.options(cmd, cfg)
	if err != nil {
		return err
	}
	o := sheetjson.NewOptionSet(path, opts...)

	w := stdout
	if f.output != "" {
		file, err := os.Create(f.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close()
		w = file
	}

	var rs *sheetjson.ResultSet
	switch {
	case f.pg:
		rs, err = convertToPostgres(ctx, cfg, f, o)
	case f.outDir != "":
		var ls *sink.LinesSink
		if ls, err = sink.CreateLinesFile(f.outDir); err != nil {
			return err
		}
		rs, err = sink.Run(ctx, o, ls)
	default:
		rs, err = sheetjson.Process(ctx, o)
	}
	if err != nil {
		return err
	}
	slog.Debug("converted", "file", rs.Filename, "sheet", rs.Sheet.Name, "rows", rs.NumRows)
	return rs.Write(w, o.Output, f.wrap)
}

func convertToPostgres(ctx context.Context, cfg *config.Config, f *convertFlags, o sheetjson.OptionSet) (*sheetjson.ResultSet, error) {
	if err := cfg.ValidateDatabase(); err != nil {
		return nil, fmt.Errorf("--pg: %w", err)
	}
	table := cfg.Database.Table
	if f.pgTable != "" {
		table = f.pgTable
	}

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	ps := sink.NewPostgresSink(pool, table)
	if err := ps.EnsureTable(ctx); err != nil {
		return nil, err
	}
	rs, err := sink.Run(ctx, o, ps)
	if err != nil {
		return nil, err
	}
	slog.Info("rows stored", "table", table, "import_id", ps.Ref(), "rows", ps.Rows())
	return rs, nil
}
