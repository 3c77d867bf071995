package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"apidef/internal/diag"
	"apidef/internal/driver"
	"apidef/internal/fix"
)

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [flags] <file.api|directory> [file.api...]",
		Short: "Apply suggested fixes to schema files",
		Long: `Fix checks the inputs and applies the fixes attached to their diagnostics.
By default only the first fix is applied.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runFix,
	}
	cmd.Flags().Bool("all", false, "apply every non-conflicting fix")
	cmd.Flags().String("code", "", "apply fixes of one diagnostic code (e.g. SEM3023)")
	cmd.Flags().Bool("dry-run", false, "print fixed files to stdout instead of writing them")
	return cmd
}

func runFix(cmd *cobra.Command, args []string) error {
	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	code, err := cmd.Flags().GetString("code")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	if applyAll && code != "" {
		return fmt.Errorf("fix: --all cannot be combined with --code")
	}
	opts := fix.ApplyOptions{Mode: fix.ApplyModeOnce}
	switch {
	case code != "":
		opts = fix.ApplyOptions{Mode: fix.ApplyModeCode, TargetCode: code}
	case applyAll:
		opts.Mode = fix.ApplyModeAll
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
	dopts, err := s.driverOptions()
	if err != nil {
		return err
	}
	// правки считаются от текущего содержимого, кэш не нужен
	dopts.Cache = nil

	files, dir, err := checkTargets(args)
	if err != nil {
		return err
	}
	var batch *driver.Batch
	if dir != "" {
		batch, err = driver.CompileDir(cmd.Context(), dir, dopts)
	} else {
		batch, err = driver.CompileFiles(cmd.Context(), files, dopts)
	}
	if err != nil {
		return err
	}

	var diagnostics []diag.Diagnostic
	for _, r := range batch.Results {
		if r.Bag != nil {
			r.Bag.Sort()
			diagnostics = append(diagnostics, r.Bag.Items()...)
		}
	}
	res, applyErr := fix.Apply(batch.FileSet, diagnostics, opts)
	if errors.Is(applyErr, fix.ErrNoFixes) {
		printFixResult(cmd.ErrOrStderr(), res, s.globals.quiet)
		fmt.Fprintln(cmd.ErrOrStderr(), "no applicable fixes found")
		return exitError{code: 1}
	}
	if applyErr != nil {
		return applyErr
	}

	if dryRun {
		for _, ch := range res.FileChanges {
			if len(res.FileChanges) > 1 {
				fmt.Fprintf(cmd.OutOrStdout(), "==> %s <==\n", ch.Path)
			}
			if _, err := cmd.OutOrStdout().Write(ch.Content); err != nil {
				return err
			}
		}
	} else if err := res.Write(batch.FileSet); err != nil {
		return err
	}
	printFixResult(cmd.ErrOrStderr(), res, s.globals.quiet)
	return nil
}

func printFixResult(w io.Writer, res *fix.ApplyResult, quiet bool) {
	if res == nil || quiet {
		return
	}
	if len(res.Applied) > 0 {
		fmt.Fprintf(w, "applied %d fix(es):\n", len(res.Applied))
		for _, item := range res.Applied {
			fmt.Fprintf(w, "  %s [%s] %s (%d %s)\n", item.Title, item.Code.ID(), item.PrimaryPath,
				item.EditCount, plural(item.EditCount, "edit"))
		}
	}
	for _, skip := range res.Skipped {
		if skip.Title != "" {
			fmt.Fprintf(w, "  skipped %s [%s]: %s\n", skip.Title, skip.ID, skip.Reason)
		} else {
			fmt.Fprintf(w, "  skipped [%s]: %s\n", skip.ID, skip.Reason)
		}
	}
}
