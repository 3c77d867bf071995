// Package testkit holds checks shared by tests of several packages.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"apidef/internal/ast"
	"apidef/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a built
// document:
// 1) every non-empty span points into sf and lies within its content
// 2) declarations do not overlap and appear in source order
// 3) names and members lie inside their declaration
func CheckSpanInvariants(doc *ast.Document, sf *source.File) error {
	if doc == nil || sf == nil {
		return fmt.Errorf("nil document or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var bad error
	ast.VisitSpans(doc, func(sp *source.Span) {
		if bad != nil || (sp.Start == 0 && sp.End == 0) {
			return
		}
		switch {
		case sp.File != sf.ID:
			bad = fmt.Errorf("span %v points to file %d, want %d", *sp, sp.File, sf.ID)
		case sp.End < sp.Start:
			bad = fmt.Errorf("inverted span %v", *sp)
		case sp.End > lenContent:
			bad = fmt.Errorf("span end beyond content: %d > %d", sp.End, lenContent)
		}
	})
	if bad != nil {
		return bad
	}

	var prevEnd uint32
	for i, d := range doc.Decls {
		if d.Span.End <= d.Span.Start {
			return fmt.Errorf("empty span for declaration %q", d.Name)
		}
		if i > 0 && d.Span.Start < prevEnd {
			return fmt.Errorf("declaration %q at %d overlaps the previous one ending at %d", d.Name, d.Span.Start, prevEnd)
		}
		prevEnd = d.Span.End
		inside := func(what string, sp source.Span) error {
			if sp.Start == 0 && sp.End == 0 {
				return nil
			}
			if sp.Start < d.Span.Start || sp.End > d.Span.End {
				return fmt.Errorf("%s span %v escapes declaration %q %v", what, sp, d.Name, d.Span)
			}
			return nil
		}
		if err := inside("name", d.NameSpan); err != nil {
			return err
		}
		if s := d.Struct; s != nil {
			for _, f := range s.Fields {
				if err := inside("field "+f.Name, f.Span); err != nil {
					return err
				}
			}
			for _, m := range s.Methods {
				if err := inside("method "+m.Name, m.Span); err != nil {
					return err
				}
			}
		}
		if e := d.Enum; e != nil {
			for _, en := range e.Entries {
				if err := inside("entry "+en.Name, en.Span); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
