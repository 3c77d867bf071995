// Package version holds build metadata for the apidef CLI.
// The variables are set at build time via -ldflags.
package version

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with major, minor and patch in separate colors.
// A version that is not major.minor.patch comes back unchanged.
func Colored(enabled bool) string {
	core, suffix := Version, ""
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core, suffix = core[:i], core[i:]
	}
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version
	}
	paint := func(c *color.Color, s string) string {
		if !enabled {
			return s
		}
		c.EnableColor()
		return c.Sprint(s)
	}
	return paint(majorColor, parts[0]) + "." + paint(minorColor, parts[1]) + "." + paint(patchColor, parts[2]) + suffix
}

// Write prints the version block shown by "apidef version".
func Write(w io.Writer, colored bool) error {
	if _, err := fmt.Fprintf(w, "apidef %s\n", Colored(colored)); err != nil {
		return err
	}
	if GitCommit != "" {
		line := "commit: " + GitCommit
		if GitMessage != "" {
			line += " (" + GitMessage + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if BuildDate != "" {
		if _, err := fmt.Fprintln(w, "built:  "+BuildDate); err != nil {
			return err
		}
	}
	return nil
}
