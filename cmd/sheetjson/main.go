// Command sheetjson converts spreadsheet and CSV files to JSON.
//
//	sheetjson people.xlsx --sheet People --max 50
//	sheetjson orders.csv.gz --lines --filter 'amount > 100'
//	sheetjson describe people.xlsx
//	sheetjson serve
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/javajack/sheetjson"
	"github.com/javajack/sheetjson/internal/config"
	"github.com/javajack/sheetjson/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code. Conversion errors
// are printed to stdout as {"error":true,"key":...}.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// A missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	root := newRootCmd(cfg, stdout, stderr)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	err = root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var e *sheetjson.Error
	if errors.As(err, &e) {
		fmt.Fprintln(stdout, string(sheetjson.ErrorJSON(err)))
		return 1
	}
	fmt.Fprintln(stderr, "Error:", err)
	return 1
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	logLevel  string
	logFormat string
}

func newRootCmd(cfg *config.Config, stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}
	cf := &convertFlags{}

	root := &cobra.Command{
		Use:   "sheetjson [path]",
		Short: "Convert spreadsheets and CSV files to JSON",
		Long: `sheetjson reads one worksheet of an xlsx/xlsm/xltx/xltm, xlsb, xls or ods
workbook or a CSV/TSV file (optionally gz, bz2, xz or zst compressed),
resolves a key and a value format for every column and prints the rows as JSON.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level, format := cfg.Logging.Level, cfg.Logging.Format
			if cmd.Flags().Changed("log-level") {
				level = g.logLevel
			}
			if cmd.Flags().Changed("log-format") {
				format = g.logFormat
			}
			logging.Setup(level, format, stderr)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), cmd, cfg, cf, args[0], stdout)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "Log format: text, json")
	cf.register(root)
	cf.registerOutput(root)

	root.AddCommand(newServeCmd(cfg))
	root.AddCommand(newDescribeCmd(cfg, stdout))
	root.AddCommand(newValidateCmd(cfg, stdout))
	return root
}
