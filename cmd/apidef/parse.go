package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"apidef/internal/diagfmt"
	"apidef/internal/driver"
	"apidef/internal/source"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] file.api",
		Short: "Parse a schema file and print its document",
		Long: `Parse runs the full pipeline on one file and prints the resulting
document as a tree (pretty) or as JSON together with its diagnostics`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	s, err := newSession(cmd, filePath)
	if err != nil {
		return err
	}
	opts, err := s.driverOptions()
	if err != nil {
		return err
	}

	fs := source.NewFileSet()
	id, err := fs.Load(filePath)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", filePath, err)
	}
	res, err := driver.Compile(cmd.Context(), fs, id, opts)
	if err != nil {
		return err
	}
	defer s.printTimings(cmd)

	if format == "json" {
		if err := diagfmt.DocumentJSON(cmd.OutOrStdout(), res.Document, id, res.Bag.Items(), fs); err != nil {
			return err
		}
	} else {
		if res.Bag.Len() > 0 {
			popts := diagfmt.PrettyOpts{Color: s.colorErr(), Context: 1, ShowNotes: true}
			if err := diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, fs, popts); err != nil {
				return err
			}
		}
		if res.Document != nil {
			if err := diagfmt.FormatDocumentPretty(cmd.OutOrStdout(), res.Document, fs); err != nil {
				return err
			}
		}
	}
	if res.HasErrors() {
		return exitError{code: 1}
	}
	return nil
}
