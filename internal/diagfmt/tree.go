package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"apidef/internal/ast"
	"apidef/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

func (n *treeNode) add(format string, args ...any) *treeNode {
	child := &treeNode{label: fmt.Sprintf(format, args...)}
	n.children = append(n.children, child)
	return child
}

func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil && fs.Get(span.File) != nil {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}

// FormatDocumentPretty prints doc as an indented tree:
//
//	image.api
//	├─ struct ImageInfo (1:1-4:2)
//	│  ├─ doc: "Describes an image."
//	│  └─ field width: u32
//	...
func FormatDocumentPretty(w io.Writer, doc *ast.Document, fs *source.FileSet) error {
	if doc == nil {
		_, err := io.WriteString(w, "<no document>\n")
		return err
	}
	root := &treeNode{label: "Document"}
	if p := formatPath(fs, doc.File, PathModeAuto); p != "" {
		root.label = p
	}
	for _, m := range doc.Mods {
		root.add("mod %s (%s)", m.Name, formatSpan(m.Span, fs))
	}
	for _, d := range doc.Decls {
		root.children = append(root.children, declNode(d, fs))
	}
	for _, c := range doc.Comments {
		root.add("%s comment, %d line(s) (%s)", c.Kind, len(c.Lines), formatSpan(c.Span, fs))
	}

	var sb strings.Builder
	sb.WriteString(root.label)
	sb.WriteByte('\n')
	writeChildren(&sb, root, "")
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeChildren(sb *strings.Builder, n *treeNode, prefix string) {
	for i, c := range n.children {
		branch, next := "├─ ", "│  "
		if i == len(n.children)-1 {
			branch, next = "└─ ", "   "
		}
		sb.WriteString(prefix)
		sb.WriteString(branch)
		sb.WriteString(c.label)
		sb.WriteByte('\n')
		writeChildren(sb, c, prefix+next)
	}
}

func declNode(d *ast.Decl, fs *source.FileSet) *treeNode {
	n := &treeNode{label: fmt.Sprintf("%s %s (%s)", d.Kind, d.Name, formatSpan(d.Span, fs))}
	addDoc(n, d.Doc)
	addAttrs(n, d.Attrs)
	switch d.Kind {
	case ast.DeclStruct, ast.DeclUnion:
		for _, f := range d.Struct.Fields {
			fn := n.add("field %s: %s%s", f.Name, f.Type, defaultSuffix(f.Default))
			addDoc(fn, f.Doc)
			addAttrs(fn, f.Attrs)
		}
		for _, m := range d.Struct.Methods {
			mn := n.add("method %s%s%s", qualifierLabel(m), m.Name, signatureLabel(m.Params, m.Return))
			addDoc(mn, m.Doc)
			addAttrs(mn, m.Attrs)
		}
	case ast.DeclEnum:
		n.add("flavor: %s", d.Enum.Flavor)
		for _, e := range d.Enum.Entries {
			en := n.add("%s = %d", e.Name, e.Value)
			if !e.Explicit {
				en.label += " (auto)"
			}
			addDoc(en, e.Doc)
		}
	case ast.DeclAlias:
		n.add("type: %s", d.Alias.Type)
	case ast.DeclCallback:
		n.add("signature: %s", signatureLabel(d.Callback.Params, d.Callback.Return))
	case ast.DeclConst:
		n.add("value: %s (%s)", d.Const.Value.Text, d.Const.Value.Kind)
	}
	return n
}

func addDoc(n *treeNode, dc *ast.DocComment) {
	if dc == nil {
		return
	}
	n.add("doc: %q", dc.Text())
}

func addAttrs(n *treeNode, attrs []ast.Attribute) {
	for _, a := range attrs {
		n.add("#[%s]", a.String())
	}
}

func defaultSuffix(l *ast.Literal) string {
	if l == nil {
		return ""
	}
	return " = " + l.Text
}

func qualifierLabel(m *ast.Method) string {
	switch {
	case m.IsManual:
		return "[manual] "
	case m.IsStatic:
		return "[static] "
	}
	return ""
}

func signatureLabel(params []*ast.Param, ret *ast.TypeRef) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + ": " + p.Type.String() + defaultSuffix(p.Default)
	}
	s := "(" + strings.Join(parts, ", ") + ")"
	if ret != nil {
		s += " -> " + ret.String()
	}
	return s
}
