package ast

import "apidef/internal/source"

// Document is the root of one schema file.
type Document struct {
	File     source.FileID `json:"file"`
	Decls    []*Decl       `json:"decls"`
	Comments []Comment     `json:"comments,omitempty"`
	Mods     []ModRef      `json:"mods,omitempty"`
}

// Lookup returns the first declaration with the given name.
func (d *Document) Lookup(name string) *Decl {
	if d == nil {
		return nil
	}
	for _, decl := range d.Decls {
		if decl.Name == name {
			return decl
		}
	}
	return nil
}

// Names returns declaration names in source order.
func (d *Document) Names() []string {
	if d == nil {
		return nil
	}
	out := make([]string, 0, len(d.Decls))
	for _, decl := range d.Decls {
		out = append(out, decl.Name)
	}
	return out
}

type CommentKind uint8

const (
	// CommentFloatingDoc is a run of "///" lines that attached to nothing.
	CommentFloatingDoc CommentKind = iota + 1
	CommentLine
	CommentBlock
)

func (k CommentKind) String() string {
	switch k {
	case CommentFloatingDoc:
		return "doc"
	case CommentLine:
		return "line"
	case CommentBlock:
		return "block"
	default:
		return "comment"
	}
}

// Comment is source commentary kept on the document rather than on a declaration.
// For doc runs Lines holds one entry per "///" line, verbatim after the marker;
// for plain comments it holds the full comment text.
type Comment struct {
	Kind  CommentKind `json:"kind"`
	Lines []string    `json:"lines"`
	Span  source.Span `json:"span"`
}

// ModRef is a "mod name" import.
type ModRef struct {
	Name string      `json:"name"`
	Span source.Span `json:"span"`
}
