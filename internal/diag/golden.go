package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"apidef/internal/source"
)

type shortLine struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShort renders diagnostics one per line as
// "severity CODE path:line:col message", sorted by location.
// Notes become extra "note" lines when includeNotes is set.
// The output is stable and is what golden tests compare against.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	lines := make([]shortLine, 0, len(diags))
	for i := range diags {
		lines = appendShort(lines, &diags[i], fs, includeNotes)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		li, lj := lines[i], lines[j]
		if li.Path != lj.Path {
			return li.Path < lj.Path
		}
		if li.Line != lj.Line {
			return li.Line < lj.Line
		}
		if li.Column != lj.Column {
			return li.Column < lj.Column
		}
		if li.Severity != lj.Severity {
			return li.Severity < lj.Severity
		}
		if li.Code != lj.Code {
			return li.Code < lj.Code
		}
		return li.Message < lj.Message
	})

	var b strings.Builder
	for i, l := range lines {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", l.Severity, l.Code, l.Path, l.Line, l.Column, l.Message)
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func appendShort(out []shortLine, d *Diagnostic, fs *source.FileSet, includeNotes bool) []shortLine {
	if loc, ok := resolveSpan(fs, d.Primary); ok {
		out = append(out, shortLine{
			Severity: d.Severity.Label(),
			Code:     d.Code.ID(),
			Path:     loc.Path,
			Line:     loc.Line,
			Column:   loc.Column,
			Message:  sanitizeMessage(d.Message),
		})
	}
	if !includeNotes {
		return out
	}
	for _, note := range d.Notes {
		nloc, ok := resolveSpan(fs, note.Span)
		if !ok {
			continue
		}
		out = append(out, shortLine{
			Severity: "note",
			Code:     d.Code.ID(),
			Path:     nloc.Path,
			Line:     nloc.Line,
			Column:   nloc.Column,
			Message:  sanitizeMessage(note.Msg),
		})
	}
	return out
}

// Render formats one diagnostic anchored to its source position:
// "path:line:col: severity CODE: message", followed by one indented
// line per note.
func (d Diagnostic) Render(fs *source.FileSet) string {
	var b strings.Builder
	loc, _ := resolveSpan(fs, d.Primary)
	fmt.Fprintf(&b, "%s:%d:%d: %s %s: %s", loc.Path, loc.Line, loc.Column, d.Severity.Label(), d.Code.ID(), sanitizeMessage(d.Message))
	for _, n := range d.Notes {
		nloc, _ := resolveSpan(fs, n.Span)
		fmt.Fprintf(&b, "\n  %s:%d:%d: note: %s", nloc.Path, nloc.Line, nloc.Column, sanitizeMessage(n.Msg))
	}
	return b.String()
}

type resolvedSpan struct {
	Path   string
	Line   uint32
	Column uint32
}

func resolveSpan(fs *source.FileSet, span source.Span) (loc resolvedSpan, ok bool) {
	if fs == nil || int(span.File) >= fs.Len() {
		return resolvedSpan{Path: "?"}, false
	}
	file := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	return resolvedSpan{
		Path:   normalizePath(file.FormatPath("relative", fs.BaseDir())),
		Line:   start.Line,
		Column: start.Col,
	}, true
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
