package ast

import (
	"fmt"
	"strings"

	"apidef/internal/source"
)

// Attribute is one "#[name]" or "#[name(args)]" entry. Args keep the source
// spelling of each argument, string literals included with their quotes.
type Attribute struct {
	Name      string      `json:"name"`
	Args      []string    `json:"args,omitempty"`
	HasParens bool        `json:"parens,omitempty"`
	NameSpan  source.Span `json:"name_span"`
	Span      source.Span `json:"span"`

	// Removal deletes the attribute along with its separator, or the whole
	// "#[...]" list when it is the only entry.
	Removal source.Span `json:"-"`
}

func (a Attribute) String() string {
	if !a.HasParens {
		return a.Name
	}
	return a.Name + "(" + strings.Join(a.Args, ", ") + ")"
}

func findAttr(attrs []Attribute, name string) (Attribute, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// FindAttr returns the first attribute with the given name.
func FindAttr(attrs []Attribute, name string) (Attribute, bool) {
	return findAttr(attrs, name)
}

type LiteralKind uint8

const (
	LitInvalid LiteralKind = iota
	LitInt
	LitFloat
	LitString
	LitIdent
)

var literalKindNames = [...]string{
	LitInvalid: "invalid",
	LitInt:     "int",
	LitFloat:   "float",
	LitString:  "string",
	LitIdent:   "ident",
}

func (k LiteralKind) String() string {
	if int(k) < len(literalKindNames) {
		return literalKindNames[k]
	}
	return fmt.Sprintf("LiteralKind(%d)", k)
}

func (k LiteralKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *LiteralKind) UnmarshalText(b []byte) error {
	for i, name := range literalKindNames {
		if name == string(b) {
			*k = LiteralKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown literal kind %q", b)
}

// Literal is a default value or const initializer, kept as written.
type Literal struct {
	Kind LiteralKind `json:"kind"`
	Text string      `json:"text"`
	Span source.Span `json:"span"`
}

// DocComment is a run of "///" lines. Lines are verbatim after the marker.
type DocComment struct {
	Lines []string    `json:"lines"`
	Span  source.Span `json:"span"`
}

// Text joins the lines with one leading space removed from each.
func (d *DocComment) Text() string {
	if d == nil {
		return ""
	}
	parts := make([]string, len(d.Lines))
	for i, l := range d.Lines {
		parts[i] = strings.TrimPrefix(l, " ")
	}
	return strings.Join(parts, "\n")
}
