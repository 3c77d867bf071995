package diag

import (
	"apidef/internal/source"
)

// Note is a secondary location attached to a diagnostic, e.g. "first declared here".
type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit replaces the text under Span with NewText.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix is a machine-applicable suggestion.
type Fix struct {
	Title string
	Edits []FixEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

// IsError reports whether the diagnostic blocks code generation.
func (d Diagnostic) IsError() bool {
	return d.Severity >= SevError
}
