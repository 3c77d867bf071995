package format

import "strings"

// Writer accumulates formatted output and emits canonical indentation.
type Writer struct {
	opt         Options
	buf         []byte
	indentLevel int
	atLineStart bool
}

// NewWriter creates a new formatting writer.
func NewWriter(opt Options) *Writer {
	return &Writer{
		opt:         opt.withDefaults(),
		buf:         make([]byte, 0, 1024),
		atLineStart: true,
	}
}

// Bytes returns the accumulated formatted output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	if w.opt.UseTabs {
		for i, n := 0, w.indentLevel; i < n; i++ {
			w.buf = append(w.buf, '\t')
		}
	} else {
		for i, n := 0, w.indentLevel*w.opt.IndentWidth; i < n; i++ {
			w.buf = append(w.buf, ' ')
		}
	}
	w.atLineStart = false
}

// WriteString writes s, indenting first when at the start of a line.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	w.buf = append(w.buf, s...)
	w.atLineStart = s[len(s)-1] == '\n'
}

// Line writes the parts followed by a newline.
func (w *Writer) Line(parts ...string) {
	w.WriteString(strings.Join(parts, ""))
	w.Newline()
}

// Newline ends the current line.
func (w *Writer) Newline() {
	w.buf = append(w.buf, '\n')
	w.atLineStart = true
}

// BlankLine makes sure the output ends with exactly one empty line,
// unless nothing has been written yet.
func (w *Writer) BlankLine() {
	n := len(w.buf)
	if n == 0 {
		return
	}
	if w.buf[n-1] != '\n' {
		w.Newline()
		n++
	}
	if n >= 2 && w.buf[n-2] == '\n' {
		return
	}
	w.Newline()
}

// IndentPush increases the indentation level.
func (w *Writer) IndentPush() {
	w.indentLevel++
}

// IndentPop decreases the indentation level.
func (w *Writer) IndentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}
