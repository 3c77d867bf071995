package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"apidef/internal/driver"
	"apidef/internal/observ"
	"apidef/internal/project"
)

// globalOptions mirrors the persistent flags.
type globalOptions struct {
	color          string
	quiet          bool
	timings        bool
	maxDiagnostics int
	jobs           int
	noCache        bool
	ui             uiMode
}

func readGlobalOptions(cmd *cobra.Command) (globalOptions, error) {
	flags := cmd.Root().PersistentFlags()
	var (
		opts globalOptions
		err  error
	)
	if opts.color, err = flags.GetString("color"); err != nil {
		return opts, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch opts.color {
	case "auto", "on", "off":
	default:
		return opts, fmt.Errorf("invalid --color value %q (expected auto|on|off)", opts.color)
	}
	if opts.quiet, err = flags.GetBool("quiet"); err != nil {
		return opts, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if opts.timings, err = flags.GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if opts.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if opts.jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if opts.noCache, err = flags.GetBool("no-cache"); err != nil {
		return opts, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return opts, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if opts.ui, err = readUIMode(uiValue); err != nil {
		return opts, err
	}
	return opts, nil
}

// session is what a command needs to run the pipeline: flags merged over
// apidef.toml.
type session struct {
	globals globalOptions
	config  project.Config
	timer   *observ.Timer
}

func newSession(cmd *cobra.Command, target string) (*session, error) {
	globals, err := readGlobalOptions(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := project.Discover(target)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	s := &session{globals: globals, config: cfg}
	if globals.timings {
		s.timer = observ.NewTimer()
	}
	return s, nil
}

func (s *session) maxDiagnostics() int {
	if s.globals.maxDiagnostics > 0 {
		return s.globals.maxDiagnostics
	}
	return s.config.Check.MaxDiagnostics
}

func (s *session) colorOut() bool { return useColor(s.globals.color, os.Stdout) }
func (s *session) colorErr() bool { return useColor(s.globals.color, os.Stderr) }

// driverOptions builds pipeline options; the cache directory is resolved
// against the config file.
func (s *session) driverOptions() (driver.Options, error) {
	registry, err := s.config.Registry()
	if err != nil {
		return driver.Options{}, err
	}
	opts := driver.Options{
		MaxDiagnostics: s.maxDiagnostics(),
		Registry:       registry,
		Jobs:           s.globals.jobs,
		Timer:          s.timer,
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	if s.config.Cache.Enabled && !s.globals.noCache {
		dir := s.config.Cache.Dir
		if s.config.Path != "" && dir != "" && !filepath.IsAbs(dir) {
			dir = filepath.Join(filepath.Dir(s.config.Path), dir)
		}
		cache, err := driver.OpenDiskCache(dir)
		if err != nil {
			return driver.Options{}, err
		}
		opts.Cache = cache
		opts.CacheSalt = s.config.Digest()
	}
	return opts, nil
}

// printTimings writes the timer summary to stderr when --timings is set.
func (s *session) printTimings(cmd *cobra.Command) {
	if s.timer == nil {
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), s.timer.Summary())
}
