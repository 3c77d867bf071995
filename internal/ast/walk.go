package ast

import "apidef/internal/source"

// TypeUse describes where a TypeRef appears.
type TypeUse uint8

const (
	UseField TypeUse = iota + 1
	UseParam
	UseReturn
	UseAlias
)

// TypeSite is a top-level type reference together with its owner.
type TypeSite struct {
	Decl   *Decl
	Method *Method // nil outside methods
	Use    TypeUse
	Type   *TypeRef
}

// ForEachTypeRef calls fn for every top-level TypeRef of the document in source order.
// Nested Elem levels are not visited separately.
func ForEachTypeRef(doc *Document, fn func(TypeSite)) {
	if doc == nil {
		return
	}
	params := func(d *Decl, m *Method, ps []*Param) {
		for _, p := range ps {
			if p.Type != nil {
				fn(TypeSite{Decl: d, Method: m, Use: UseParam, Type: p.Type})
			}
		}
	}
	for _, d := range doc.Decls {
		switch {
		case d.Struct != nil:
			for _, f := range d.Struct.Fields {
				if f.Type != nil {
					fn(TypeSite{Decl: d, Use: UseField, Type: f.Type})
				}
			}
			for _, m := range d.Struct.Methods {
				params(d, m, m.Params)
				if m.Return != nil {
					fn(TypeSite{Decl: d, Method: m, Use: UseReturn, Type: m.Return})
				}
			}
		case d.Alias != nil:
			if d.Alias.Type != nil {
				fn(TypeSite{Decl: d, Use: UseAlias, Type: d.Alias.Type})
			}
		case d.Callback != nil:
			params(d, nil, d.Callback.Params)
			if d.Callback.Return != nil {
				fn(TypeSite{Decl: d, Use: UseReturn, Type: d.Callback.Return})
			}
		}
	}
}

// VisitSpans calls fn with a pointer to every span stored in the document,
// so callers can rebase or clear them in place.
func VisitSpans(doc *Document, fn func(*source.Span)) {
	if doc == nil {
		return
	}
	for i := range doc.Comments {
		fn(&doc.Comments[i].Span)
	}
	for i := range doc.Mods {
		fn(&doc.Mods[i].Span)
	}
	for _, d := range doc.Decls {
		fn(&d.NameSpan)
		fn(&d.Span)
		visitDoc(d.Doc, fn)
		visitAttrs(d.Attrs, fn)
		if s := d.Struct; s != nil {
			for _, f := range s.Fields {
				fn(&f.NameSpan)
				fn(&f.Span)
				visitDoc(f.Doc, fn)
				visitAttrs(f.Attrs, fn)
				visitType(f.Type, fn)
				visitLit(f.Default, fn)
			}
			for _, m := range s.Methods {
				fn(&m.NameSpan)
				fn(&m.Span)
				fn(&m.ReturnSpan)
				fn(&m.ReturnCut)
				visitDoc(m.Doc, fn)
				visitAttrs(m.Attrs, fn)
				visitParams(m.Params, fn)
				visitType(m.Return, fn)
			}
		}
		if e := d.Enum; e != nil {
			for _, en := range e.Entries {
				fn(&en.NameSpan)
				fn(&en.Span)
				visitDoc(en.Doc, fn)
			}
		}
		if a := d.Alias; a != nil {
			visitType(a.Type, fn)
		}
		if cb := d.Callback; cb != nil {
			fn(&cb.ReturnSpan)
			fn(&cb.ReturnCut)
			visitParams(cb.Params, fn)
			visitType(cb.Return, fn)
		}
		if c := d.Const; c != nil {
			fn(&c.Value.Span)
		}
	}
}

func visitDoc(dc *DocComment, fn func(*source.Span)) {
	if dc != nil {
		fn(&dc.Span)
	}
}

func visitAttrs(attrs []Attribute, fn func(*source.Span)) {
	for i := range attrs {
		fn(&attrs[i].NameSpan)
		fn(&attrs[i].Span)
		fn(&attrs[i].Removal)
	}
}

func visitParams(ps []*Param, fn func(*source.Span)) {
	for _, p := range ps {
		fn(&p.NameSpan)
		fn(&p.Span)
		visitType(p.Type, fn)
		visitLit(p.Default, fn)
	}
}

func visitType(t *TypeRef, fn func(*source.Span)) {
	for ; t != nil; t = t.Elem {
		fn(&t.Span)
	}
}

func visitLit(l *Literal, fn func(*source.Span)) {
	if l != nil {
		fn(&l.Span)
	}
}

// ZeroSpans clears every span in the document. Used to compare documents
// parsed from different text.
func ZeroSpans(doc *Document) {
	VisitSpans(doc, func(sp *source.Span) { *sp = source.Span{} })
	if doc != nil {
		doc.File = 0
	}
}
