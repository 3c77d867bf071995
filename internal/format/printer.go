// Package format prints an ast.Document back as canonical schema text.
//
// The output re-parses to the same Document (spans aside): doc lines are
// kept verbatim, floating comments stay where they were relative to
// declarations and members, and attribute shorthand is printed expanded.
//
// Назначение: `apidef fmt` и проверка round-trip.
// Не делает: сохранения исходных пробелов и написания чисел.
package format

import (
	"fmt"
	"sort"
	"strings"

	"apidef/internal/ast"
)

type Options struct {
	IndentWidth  int
	UseTabs      bool
	DropComments bool // floating and plain comments; doc comments on declarations are always kept
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 4
	}
	return o
}

type lastEmit uint8

const (
	emitNothing lastEmit = iota
	emitItem
	emitMod
	emitFloatingDoc
	emitComment
)

type printer struct {
	w        *Writer
	opt      Options
	comments []ast.Comment
	next     int // first comment not yet printed
	last     lastEmit
}

// Document renders doc as canonical text.
func Document(doc *ast.Document, opt Options) []byte {
	opt = opt.withDefaults()
	p := &printer{w: NewWriter(opt), opt: opt}
	if doc == nil {
		return p.w.Bytes()
	}
	if !opt.DropComments {
		p.comments = append([]ast.Comment(nil), doc.Comments...)
		sort.SliceStable(p.comments, func(i, j int) bool {
			return p.comments[i].Span.Start < p.comments[j].Span.Start
		})
	}
	p.printFile(doc)
	return p.w.Bytes()
}

type topItem struct {
	start uint32
	decl  *ast.Decl
	mod   *ast.ModRef
}

func (p *printer) printFile(doc *ast.Document) {
	items := make([]topItem, 0, len(doc.Mods)+len(doc.Decls))
	for i := range doc.Mods {
		items = append(items, topItem{start: doc.Mods[i].Span.Start, mod: &doc.Mods[i]})
	}
	for _, d := range doc.Decls {
		items = append(items, topItem{start: d.Span.Start, decl: d})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].start < items[j].start })

	for _, it := range items {
		p.commentsBefore(it.start, true)
		if it.mod != nil {
			if p.last != emitMod && p.last != emitComment {
				p.w.BlankLine()
			}
			p.w.Line("mod ", it.mod.Name)
			p.last = emitMod
			continue
		}
		p.commentsBefore(headerEnd(it.decl), true)
		if p.last != emitComment {
			p.w.BlankLine()
		}
		p.printDecl(it.decl)
		p.last = emitItem
	}
	p.commentsBefore(^uint32(0), true)
}

// commentsBefore prints every pending comment that starts before off.
func (p *printer) commentsBefore(off uint32, top bool) {
	for p.next < len(p.comments) && p.comments[p.next].Span.Start < off {
		c := p.comments[p.next]
		p.next++
		switch c.Kind {
		case ast.CommentFloatingDoc:
			if top || p.last == emitFloatingDoc {
				p.w.BlankLine()
			}
			for _, l := range c.Lines {
				p.w.Line("///", l)
			}
			p.last = emitFloatingDoc
		default:
			if top && p.last != emitComment || p.last == emitFloatingDoc {
				p.w.BlankLine()
			}
			p.w.Line(strings.Join(c.Lines, "\n"))
			p.last = emitComment
		}
	}
}

// afterFloating separates a floating doc run from whatever follows it.
func (p *printer) afterFloating() {
	if p.last == emitFloatingDoc {
		p.w.BlankLine()
	}
}

func (p *printer) printDoc(dc *ast.DocComment) {
	if dc == nil {
		return
	}
	for _, l := range dc.Lines {
		p.w.Line("///", l)
	}
}

func (p *printer) printAttrs(attrs []ast.Attribute) {
	if len(attrs) == 0 {
		return
	}
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = a.String()
	}
	p.w.Line("#[", strings.Join(parts, ", "), "]")
}

func (p *printer) printDecl(d *ast.Decl) {
	p.printDoc(d.Doc)
	p.printAttrs(d.Attrs)
	switch d.Kind {
	case ast.DeclStruct, ast.DeclUnion:
		p.printStruct(d)
	case ast.DeclEnum:
		p.printEnum(d)
	case ast.DeclAlias:
		p.w.Line("type ", d.Name, ": ", typeString(d.Alias.Type))
	case ast.DeclConst:
		p.w.Line("const ", d.Name, " = ", d.Const.Value.Text)
	case ast.DeclCallback:
		p.w.Line("callback ", d.Name, signature(d.Callback.Params, d.Callback.Return))
	}
}

// headerEnd bounds the comments hoisted above a declaration: everything
// written inside it, except a body, which places its own.
func headerEnd(d *ast.Decl) uint32 {
	switch d.Kind {
	case ast.DeclStruct, ast.DeclUnion, ast.DeclEnum:
		return d.NameSpan.End
	}
	return d.Span.End
}

type member struct {
	start  uint32
	end    uint32
	field  *ast.Field
	method *ast.Method
}

func (p *printer) printStruct(d *ast.Decl) {
	members := make([]member, 0, len(d.Struct.Fields)+len(d.Struct.Methods))
	for _, f := range d.Struct.Fields {
		members = append(members, member{start: f.Span.Start, end: f.Span.End, field: f})
	}
	for _, m := range d.Struct.Methods {
		members = append(members, member{start: m.Span.Start, end: m.Span.End, method: m})
	}
	sort.SliceStable(members, func(i, j int) bool { return members[i].start < members[j].start })

	p.openBody(d)
	for _, m := range members {
		// комментарии внутри члена поднимаются над ним
		p.commentsBefore(m.end, false)
		p.afterFloating()
		if m.field != nil {
			f := m.field
			p.printDoc(f.Doc)
			p.printAttrs(f.Attrs)
			line := f.Name + ": " + typeString(f.Type)
			if f.Default != nil {
				line += " = " + f.Default.Text
			}
			p.w.Line(line, ",")
		} else {
			mt := m.method
			p.printDoc(mt.Doc)
			p.printAttrs(mt.Attrs)
			p.w.Line(qualifier(mt), mt.Name, signature(mt.Params, mt.Return))
		}
		p.last = emitItem
	}
	p.closeBody(d)
}

func (p *printer) printEnum(d *ast.Decl) {
	p.openBody(d)
	for _, e := range d.Enum.Entries {
		p.commentsBefore(e.Span.End, false)
		p.afterFloating()
		p.printDoc(e.Doc)
		if e.Explicit {
			p.w.Line(e.Name, " = ", enumValue(e.Value, d.Enum.Flavor), ",")
		} else {
			p.w.Line(e.Name, ",")
		}
		p.last = emitItem
	}
	p.closeBody(d)
}

func (p *printer) openBody(d *ast.Decl) {
	p.w.WriteString(d.Kind.String() + " " + d.Name + " {")
	p.w.Newline()
	p.w.IndentPush()
	p.last = emitNothing
}

func (p *printer) closeBody(d *ast.Decl) {
	p.commentsBefore(d.Span.End, false)
	p.w.IndentPop()
	if p.last == emitNothing {
		// empty body stays on one line
		p.w.buf = p.w.buf[:len(p.w.buf)-1]
		p.w.atLineStart = false
	}
	p.w.Line("}")
}

func qualifier(m *ast.Method) string {
	switch {
	case m.IsManual:
		return "[manual] "
	case m.IsStatic:
		return "[static] "
	default:
		return ""
	}
}

func signature(params []*ast.Param, ret *ast.TypeRef) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, prm := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(prm.Name)
		sb.WriteString(": ")
		sb.WriteString(typeString(prm.Type))
		if prm.Default != nil {
			sb.WriteString(" = ")
			sb.WriteString(prm.Default.Text)
		}
	}
	sb.WriteByte(')')
	if ret != nil {
		sb.WriteString(" -> ")
		sb.WriteString(typeString(ret))
	}
	return sb.String()
}

func typeString(t *ast.TypeRef) string {
	if t == nil {
		return "void"
	}
	return t.String()
}

// enumValue prints flag values in hex so combinations stay readable.
func enumValue(v uint64, flavor ast.EnumFlavor) string {
	if flavor == ast.EnumBitflags && v > 9 {
		return fmt.Sprintf("0x%X", v)
	}
	return fmt.Sprintf("%d", v)
}
