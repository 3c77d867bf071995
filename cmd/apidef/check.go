package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"apidef/internal/diag"
	"apidef/internal/diagfmt"
	"apidef/internal/driver"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <file.api|directory> [file.api...]",
		Short: "Validate schema files and report diagnostics",
		Long: `Check runs lexing, parsing and validation on schema files or on every
*.api file within a directory. "mod" imports resolve between the files of
one run. The exit status is 1 when any file has errors.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	cmd.Flags().Bool("with-notes", true, "include diagnostic notes in output")
	cmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	cmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	cmd.Flags().Int("context", 0, "source lines of context around each diagnostic")
	cmd.Flags().String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
	cmd.Flags().Bool("watch", false, "re-run when schema files change")
	cmd.Flags().Duration("debounce", 250*time.Millisecond, "quiet period before a watch re-run")
	return cmd
}

type checkOptions struct {
	format           string
	withNotes        bool
	suggest          bool
	warningsAsErrors bool
	context          int
	pathMode         diagfmt.PathMode
	watch            bool
	debounce         time.Duration
}

func readCheckOptions(cmd *cobra.Command) (checkOptions, error) {
	var (
		opts checkOptions
		err  error
	)
	flags := cmd.Flags()
	if opts.format, err = flags.GetString("format"); err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch opts.format {
	case "pretty", "json", "short":
	default:
		return opts, fmt.Errorf("unknown format: %s", opts.format)
	}
	if opts.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return opts, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if opts.suggest, err = flags.GetBool("suggest"); err != nil {
		return opts, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if opts.warningsAsErrors, err = flags.GetBool("warnings-as-errors"); err != nil {
		return opts, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if opts.context, err = flags.GetInt("context"); err != nil {
		return opts, fmt.Errorf("failed to get context flag: %w", err)
	}
	if opts.context < 0 || opts.context > 10 {
		return opts, fmt.Errorf("--context must be between 0 and 10")
	}
	pathMode, err := flags.GetString("path-mode")
	if err != nil {
		return opts, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	opts.pathMode = diagfmt.ParsePathMode(pathMode)
	if opts.watch, err = flags.GetBool("watch"); err != nil {
		return opts, fmt.Errorf("failed to get watch flag: %w", err)
	}
	if opts.debounce, err = flags.GetDuration("debounce"); err != nil {
		return opts, fmt.Errorf("failed to get debounce flag: %w", err)
	}
	return opts, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	copts, err := readCheckOptions(cmd)
	if err != nil {
		return err
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

	s, err := newSession(cmd, args[0])
	if err != nil {
		return err
	}
	if s.config.Check.WarningsAsErrors {
		copts.warningsAsErrors = true
	}
	opts, err := s.driverOptions()
	if err != nil {
		return err
	}

	failed, err := checkOnce(cmd, s, copts, opts, args)
	if err != nil {
		return err
	}
	if copts.watch {
		fmt.Fprintf(cmd.ErrOrStderr(), "watching %s (ctrl-c to stop)\n", strings.Join(args, " "))
		return watchSchemas(cmd.Context(), args, copts.debounce, func(changed []string) {
			if !s.globals.quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "\nchanged: %s\n", strings.Join(changed, ", "))
			}
			if _, err := checkOnce(cmd, s, copts, opts, args); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "check: %v\n", err)
			}
		})
	}
	if failed {
		return exitError{code: 1}
	}
	return nil
}

// checkTargets expands directories into their schema files.
func checkTargets(args []string) (files []string, dir string, err error) {
	if len(args) == 1 {
		info, err := os.Stat(args[0])
		if err != nil {
			return nil, "", err
		}
		if info.IsDir() {
			files, err := driver.ListSchemaFiles(args[0])
			return files, args[0], err
		}
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, "", err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		sub, err := driver.ListSchemaFiles(arg)
		if err != nil {
			return nil, "", err
		}
		files = append(files, sub...)
	}
	return files, "", nil
}

// checkOnce runs one batch and prints its report. failed follows the exit
// status rules: errors, or warnings under warnings-as-errors.
func checkOnce(cmd *cobra.Command, s *session, copts checkOptions, opts driver.Options, args []string) (failed bool, err error) {
	files, dir, err := checkTargets(args)
	if err != nil {
		return false, err
	}
	run := func(ctx context.Context, opts driver.Options) (*driver.Batch, error) {
		if dir != "" {
			return driver.CompileDir(ctx, dir, opts)
		}
		return driver.CompileFiles(ctx, files, opts)
	}

	var batch *driver.Batch
	if copts.format == "pretty" && !s.globals.quiet && len(files) > 1 && shouldUseTUI(s.globals.ui, os.Stderr) {
		batch, err = runCheckWithUI(cmd.Context(), cmd.ErrOrStderr(), "checking", files, opts, run)
	} else {
		batch, err = run(cmd.Context(), opts)
	}
	if err != nil {
		return false, err
	}
	if err := printReport(cmd, s, copts, batch); err != nil {
		return false, err
	}
	s.printTimings(cmd)

	warnings := batch.Count(diag.SevWarning) > 0
	return batch.HasErrors() || (copts.warningsAsErrors && warnings), nil
}

// mergedBag collects the diagnostics of every file in result order.
func mergedBag(batch *driver.Batch) *diag.Bag {
	all := diag.NewBag(0)
	for _, res := range batch.Results {
		all.Merge(res.Bag)
	}
	return all
}

func printReport(cmd *cobra.Command, s *session, copts checkOptions, batch *driver.Batch) error {
	out := cmd.OutOrStdout()
	for _, res := range batch.Results {
		if res.LoadErr != nil {
			printLoadError(cmd.ErrOrStderr(), s.colorErr(), res.LoadErr)
		}
	}
	all := mergedBag(batch)

	switch copts.format {
	case "json":
		return diagfmt.JSON(out, all, batch.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         copts.pathMode,
			IncludeNotes:     copts.withNotes,
			IncludeFixes:     copts.suggest,
		})
	case "short":
		if all.Len() > 0 {
			if _, err := fmt.Fprintln(out, diag.FormatShort(all.Items(), batch.FileSet, copts.withNotes)); err != nil {
				return err
			}
		}
	default:
		err := diagfmt.Pretty(out, all, batch.FileSet, diagfmt.PrettyOpts{
			Color:     s.colorOut(),
			Context:   int8(copts.context),
			PathMode:  copts.pathMode,
			ShowNotes: copts.withNotes,
			ShowFixes: copts.suggest,
		})
		if err != nil {
			return err
		}
	}
	if !s.globals.quiet && copts.format != "json" {
		printSummary(cmd.ErrOrStderr(), s.colorErr(), batch)
	}
	return nil
}

func printLoadError(w io.Writer, colored bool, err error) {
	red := color.New(color.FgRed, color.Bold)
	if colored {
		red.EnableColor()
	} else {
		red.DisableColor()
	}
	fmt.Fprintf(w, "%s %v\n", red.Sprint("error:"), err)
}

// printSummary writes "checked N files: E errors, W warnings" with the
// counts colored when they are non-zero.
func printSummary(w io.Writer, colored bool, batch *driver.Batch) {
	errs := batch.Count(diag.SevError)
	warns := batch.Count(diag.SevWarning)
	cached := 0
	for _, res := range batch.Results {
		if res.LoadErr != nil {
			errs++
		}
		if res.Cached {
			cached++
		}
	}
	paint := func(n int, attr color.Attribute, word string) string {
		s := fmt.Sprintf("%d %s", n, plural(n, word))
		c := color.New(attr, color.Bold)
		if colored && n > 0 {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.Sprint(s)
	}
	line := fmt.Sprintf("checked %d %s: %s, %s", len(batch.Results), plural(len(batch.Results), "file"),
		paint(errs, color.FgRed, "error"), paint(warns, color.FgYellow, "warning"))
	if cached > 0 {
		line += fmt.Sprintf(" (%d cached)", cached)
	}
	fmt.Fprintln(w, line)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// displayPaths matches the FileSet spelling of paths for the progress UI.
func displayPaths(files []string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = filepath.ToSlash(filepath.Clean(f))
	}
	return out
}
