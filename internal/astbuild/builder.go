// Package astbuild lowers a concrete parse tree into an ast.Document.
//
// The builder never fails. It attaches doc comments, expands attribute
// shorthand, resolves primitive names, numbers enum entries and classifies
// enums. Oddities it can recover from are reported as warnings.
package astbuild

import (
	"sort"

	"apidef/internal/ast"
	"apidef/internal/cst"
	"apidef/internal/diag"
	"apidef/internal/source"
	"apidef/internal/token"
)

type Options struct {
	Reporter diag.Reporter
}

type builder struct {
	opts Options
	doc  *ast.Document
	seen map[uint32]struct{} // tokens whose leading trivia is already handled
}

// Build converts tree into a Document. A nil tree yields nil.
func Build(tree *cst.File, opts Options) *ast.Document {
	if tree == nil {
		return nil
	}
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	b := &builder{
		opts: opts,
		seen: make(map[uint32]struct{}, len(tree.Commented)),
		doc: &ast.Document{
			File:  tree.Span.File,
			Decls: make([]*ast.Decl, 0, len(tree.Items)),
		},
	}
	for _, item := range tree.Items {
		if item.Kind == cst.ItemMod {
			b.leadingComments(item.FirstToken())
			b.doc.Mods = append(b.doc.Mods, ast.ModRef{Name: item.Name.Text, Span: item.Name.Span})
			continue
		}
		b.doc.Decls = append(b.doc.Decls, b.buildItem(item))
	}
	b.danglingDocs(tree.EOF)
	b.strayComments(tree.Commented)
	sort.SliceStable(b.doc.Comments, func(i, j int) bool {
		return b.doc.Comments[i].Span.Start < b.doc.Comments[j].Span.Start
	})
	return b.doc
}

func (b *builder) buildItem(item *cst.Item) *ast.Decl {
	decl := &ast.Decl{
		Name:     item.Name.Text,
		NameSpan: item.Name.Span,
		Span:     item.FirstToken().Span.Cover(item.Span),
		Doc:      b.headerDoc(itemHeader(item)),
		Attrs:    b.attributes(item.Attrs, itemHeader(item)),
	}
	switch item.Kind {
	case cst.ItemStruct, cst.ItemUnion:
		decl.Kind = ast.DeclStruct
		if item.Kind == cst.ItemUnion {
			decl.Kind = ast.DeclUnion
		}
		decl.Struct = b.structBody(item)
	case cst.ItemEnum:
		decl.Kind = ast.DeclEnum
		decl.Enum = b.enumBody(item, decl.HasAttr("bitflags"))
	case cst.ItemAlias:
		decl.Kind = ast.DeclAlias
		decl.Alias = &ast.AliasDecl{Type: b.typeRef(item.Type)}
	case cst.ItemConst:
		decl.Kind = ast.DeclConst
		decl.Const = &ast.ConstDecl{}
		if item.Value != nil {
			decl.Const.Value = *b.literal(item.Value)
		}
	case cst.ItemCallback:
		decl.Kind = ast.DeclCallback
		cb := &ast.CallbackDecl{}
		if item.Sig != nil {
			cb.Params = b.params(item.Sig.Params)
			cb.Return, cb.ReturnSpan, cb.ReturnCut = b.returnType(item.Sig)
		}
		decl.Callback = cb
	}
	return decl
}

// itemHeader lists the tokens in front of the item name, in order.
func itemHeader(item *cst.Item) []token.Token {
	out := make([]token.Token, 0, len(item.Attrs)+1)
	for _, al := range item.Attrs {
		out = append(out, al.Open)
	}
	return append(out, item.Keyword)
}

func memberHeader(m *cst.Member) []token.Token {
	out := make([]token.Token, 0, len(m.Attrs)+2)
	for _, al := range m.Attrs {
		out = append(out, al.Open)
	}
	if m.Qualifier != nil {
		out = append(out, *m.Qualifier)
	}
	return append(out, m.Name)
}

func (b *builder) structBody(item *cst.Item) *ast.StructDecl {
	body := &ast.StructDecl{}
	for _, m := range item.Members {
		if m.IsMethod() {
			body.Methods = append(body.Methods, b.method(m))
		} else {
			body.Fields = append(body.Fields, b.field(m))
		}
	}
	b.danglingDocs(item.RBrace)
	return body
}

func (b *builder) field(m *cst.Member) *ast.Field {
	f := &ast.Field{
		Name:     m.Name.Text,
		NameSpan: m.Name.Span,
		Type:     b.typeRef(m.Type),
		Doc:      b.headerDoc(memberHeader(m)),
		Attrs:    b.attributes(m.Attrs, memberHeader(m)),
		Span:     m.Span,
	}
	if m.Default != nil {
		f.Default = b.literal(m.Default)
	}
	return f
}

func (b *builder) method(m *cst.Member) *ast.Method {
	meth := &ast.Method{
		Name:     m.Name.Text,
		NameSpan: m.Name.Span,
		Doc:      b.headerDoc(memberHeader(m)),
		Attrs:    b.attributes(m.Attrs, memberHeader(m)),
		Span:     m.Span,
	}
	if m.Qualifier != nil {
		switch m.Qualifier.Kind {
		case token.StaticQual:
			meth.IsStatic = true
		case token.ManualQual:
			meth.IsManual = true
			meth.IsStatic = true
		}
	}
	meth.Params = b.params(m.Sig.Params)
	meth.Return, meth.ReturnSpan, meth.ReturnCut = b.returnType(m.Sig)
	return meth
}

func (b *builder) params(ps []*cst.Param) []*ast.Param {
	if len(ps) == 0 {
		return nil
	}
	out := make([]*ast.Param, 0, len(ps))
	for _, p := range ps {
		param := &ast.Param{
			Name:     p.Name.Text,
			NameSpan: p.Name.Span,
			Type:     b.typeRef(p.Type),
			Span:     p.Span,
		}
		if p.Default != nil {
			param.Default = b.literal(p.Default)
		}
		out = append(out, param)
	}
	return out
}

// returnType also yields the span a fix deletes to drop the return type:
// the arrow through the type plus the spaces before the arrow on the same line.
func (b *builder) returnType(sig *cst.Signature) (*ast.TypeRef, source.Span, source.Span) {
	if sig.Arrow == nil || sig.Return == nil {
		return nil, source.Span{}, source.Span{}
	}
	sp := sig.Arrow.Span.Cover(sig.Return.Span)
	cut := sp
	if lead := sig.Arrow.Leading; len(lead) == 1 && lead[0].Kind == token.TriviaSpace {
		cut.Start = lead[0].Span.Start
	}
	return b.typeRef(sig.Return), sp, cut
}

func enumHeader(e *cst.EnumEntry) []token.Token {
	return []token.Token{e.Name}
}
