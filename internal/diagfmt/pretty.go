package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"apidef/internal/diag"
	"apidef/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, fix, path, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgBlue, color.Bold),
		note:   color.New(color.FgCyan),
		fix:    color.New(color.FgGreen),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.fix, p.path, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Порядок как в bag.Items(); сортировку делает вызывающий.
//
//	<path>:<line>:<col>: <sev> <CODE>: <message>
//	  NN | source line
//	     | ^~~~
//
// затем notes и fixes, если включены.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := prettyOne(w, &d, fs, opts, pal); err != nil {
			return err
		}
	}
	if dropped := bag.Dropped(); dropped > 0 {
		_, err := fmt.Fprintf(w, "\n... %d more diagnostics not shown\n", dropped)
		return err
	}
	return nil
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) error {
	var sb strings.Builder
	sev := pal.severity(d.Severity)
	sb.WriteString(pal.path.Sprint(location(fs, d.Primary, opts.PathMode)))
	sb.WriteString(": ")
	sb.WriteString(sev.Sprintf("%s %s", d.Severity.Label(), d.Code.ID()))
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	sb.WriteByte('\n')
	writeSnippet(&sb, fs, d.Primary, opts, pal, pal.caret)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(&sb, "  %s %s: %s\n", pal.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
		}
	}
	if opts.ShowFixes {
		for _, f := range d.Fixes {
			fmt.Fprintf(&sb, "  %s %s\n", pal.fix.Sprint("fix:"), f.Title)
			for _, e := range f.Edits {
				old := ""
				if fs != nil {
					old = fs.Text(e.Span)
				}
				fmt.Fprintf(&sb, "    %s: %q -> %q\n", location(fs, e.Span, opts.PathMode), old, e.NewText)
			}
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	if fs == nil || fs.Get(sp.File) == nil {
		return fmt.Sprintf("<unknown>:%d", sp.Start)
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(fs, sp.File, mode), start.Line, start.Col)
}

// writeSnippet prints the primary line with a caret underline and
// opts.Context lines around it.
func writeSnippet(sb *strings.Builder, fs *source.FileSet, sp source.Span, opts PrettyOpts, pal palette, mark *color.Color) {
	if fs == nil {
		return
	}
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	ctx := uint32(max(opts.Context, 0))
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := start.Line + ctx
	lastLine := uint32(len(f.LineIdx) + 1)
	if last > lastLine {
		last = lastLine
	}
	gw := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := expandTabs(f.GetLine(ln))
		if opts.Width > 0 {
			text = clip(text, int(opts.Width))
		}
		fmt.Fprintf(sb, "%s %s\n", pal.gutter.Sprintf("%*d |", gw+1, ln), text)
		if ln != start.Line {
			continue
		}
		raw := f.GetLine(ln)
		from := int(start.Col) - 1
		to := len(raw)
		if end.Line == start.Line {
			to = int(end.Col) - 1
		}
		from = min(max(from, 0), len(raw))
		to = min(max(to, from), len(raw))
		pad := runewidth.StringWidth(expandTabs(raw[:from]))
		n := max(runewidth.StringWidth(expandTabs(raw[from:to])), 1)
		underline := "^" + strings.Repeat("~", n-1)
		fmt.Fprintf(sb, "%s %s%s\n", pal.gutter.Sprintf("%*s |", gw+1, ""), strings.Repeat(" ", pad), mark.Sprint(underline))
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func clip(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
