package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/javajack/sheetjson"
	"github.com/javajack/sheetjson/internal/config"
)

func newDescribeCmd(cfg *config.Config, stdout io.Writer) *cobra.Command {
	f := &convertFlags{}
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "describe [path]",
		Short: "Show the resolved keys and formats of every worksheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd, cfg)
			if err != nil {
				return err
			}
			d, err := sheetjson.Describe(args[0], opts...)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(d)
			}
			_, err = io.WriteString(stdout, d.String())
			return err
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the description as JSON")
	return cmd
}

func newValidateCmd(cfg *config.Config, stdout io.Writer) *cobra.Command {
	f := &convertFlags{}
	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Check options against a source without converting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd, cfg)
			if err != nil {
				return err
			}
			issues, err := sheetjson.Validate(args[0], opts...)
			for _, issue := range issues {
				fmt.Fprintln(stdout, issue.String())
			}
			if err != nil {
				return err
			}
			if sheetjson.HasErrors(issues) {
				return fmt.Errorf("%d issue(s) found", len(issues))
			}
			if len(issues) == 0 {
				fmt.Fprintln(stdout, "OK")
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}
