package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"apidef/internal/diag"
	"apidef/internal/diagfmt"
	"apidef/internal/format"
	"apidef/internal/source"
)

func newFmtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt [flags] <file.api> [file.api...]",
		Short: "Print schema files in canonical form",
		Long: `Fmt re-prints schema files canonically. Without --write or --check the
result goes to stdout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runFmt,
	}
	cmd.Flags().Bool("write", false, "rewrite files in place")
	cmd.Flags().Bool("check", false, "list files that are not formatted and exit 1")
	cmd.Flags().Int("indent", 4, "indent width in spaces")
	cmd.Flags().Bool("tabs", false, "indent with tabs")
	cmd.Flags().Bool("drop-comments", false, "drop plain and floating comments")
	return cmd
}

type fmtOptions struct {
	write  bool
	check  bool
	format format.Options
}

func readFmtOptions(cmd *cobra.Command) (fmtOptions, error) {
	var (
		opts fmtOptions
		err  error
	)
	flags := cmd.Flags()
	if opts.write, err = flags.GetBool("write"); err != nil {
		return opts, err
	}
	if opts.check, err = flags.GetBool("check"); err != nil {
		return opts, err
	}
	if opts.write && opts.check {
		return opts, fmt.Errorf("fmt: --write cannot be used with --check")
	}
	if opts.format.IndentWidth, err = flags.GetInt("indent"); err != nil {
		return opts, err
	}
	if opts.format.IndentWidth < 1 || opts.format.IndentWidth > 16 {
		return opts, fmt.Errorf("fmt: --indent must be between 1 and 16")
	}
	if opts.format.UseTabs, err = flags.GetBool("tabs"); err != nil {
		return opts, err
	}
	if opts.format.DropComments, err = flags.GetBool("drop-comments"); err != nil {
		return opts, err
	}
	return opts, nil
}

func runFmt(cmd *cobra.Command, args []string) error {
	fopts, err := readFmtOptions(cmd)
	if err != nil {
		return err
	}
	globals, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}

	fs := source.NewFileSet()
	var hasErrors, hasChanges bool
	for _, path := range args {
		id, err := fs.Load(path)
		if err != nil {
			hasErrors = true
			printLoadError(cmd.ErrOrStderr(), useColor(globals.color, os.Stderr), err)
			continue
		}
		file := fs.Get(id)
		bag := diag.NewBag(globals.maxDiagnostics)
		formatted, err := format.File(file, fopts.format, bag)
		if err != nil {
			hasErrors = true
			if errors.Is(err, format.ErrNotParsed) {
				perr := diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{
					Color:     useColor(globals.color, os.Stderr),
					ShowNotes: true,
				})
				if perr != nil {
					return perr
				}
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "fmt: %s: %v\n", path, err)
			continue
		}

		changed := !bytes.Equal(formatted, file.Content)
		switch {
		case fopts.check:
			if changed {
				hasChanges = true
				if !globals.quiet {
					fmt.Fprintln(cmd.OutOrStdout(), path)
				}
			}
		case fopts.write:
			if !changed {
				continue
			}
			if err := writeFormatted(path, formatted); err != nil {
				return err
			}
			if !globals.quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "reformatted %s\n", path)
			}
		default:
			if _, err := cmd.OutOrStdout().Write(formatted); err != nil {
				return err
			}
		}
	}

	if hasErrors || hasChanges {
		return exitError{code: 1}
	}
	return nil
}

// writeFormatted replaces path keeping its permissions.
func writeFormatted(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("fmt: write %s: %w", path, err)
	}
	return nil
}
