package astbuild

import (
	"fmt"

	"apidef/internal/ast"
	"apidef/internal/cst"
	"apidef/internal/diag"
	"apidef/internal/source"
	"apidef/internal/token"
)

func (b *builder) typeRef(t *cst.Type) *ast.TypeRef {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case cst.TypeName:
		if prim, ok := ast.LookupPrimitive(t.Tok.Text); ok {
			return ast.NewPrimitive(prim, t.Span)
		}
		return ast.NewNamed(t.Tok.Text, t.Span)
	case cst.TypePointer:
		// bare '*' is a mutable pointer
		return ast.NewPointer(t.Tok.Kind != token.PtrConst, b.typeRef(t.Elem), t.Span)
	case cst.TypeArray:
		length := ""
		if t.Len != nil {
			length = t.Len.Text
		}
		return ast.NewArray(b.typeRef(t.Elem), length, t.Span)
	case cst.TypeOptional:
		return ast.NewOptional(b.typeRef(t.Elem), t.Span)
	}
	return &ast.TypeRef{Kind: ast.TypeInvalid, Span: t.Span}
}

func (b *builder) literal(tok *token.Token) *ast.Literal {
	lit := &ast.Literal{Text: tok.Text, Span: tok.Span}
	switch tok.Kind {
	case token.IntLit:
		lit.Kind = ast.LitInt
	case token.FloatLit:
		lit.Kind = ast.LitFloat
	case token.StringLit:
		lit.Kind = ast.LitString
	case token.Ident:
		lit.Kind = ast.LitIdent
	}
	return lit
}

// attributes flattens the "#[...]" lists of one declaration.
// "attributes(A, B)" is shorthand for "A, B".
// header is the declaration's header token list: header[i+1] follows lists[i].
func (b *builder) attributes(lists []*cst.AttrList, header []token.Token) []ast.Attribute {
	var out []ast.Attribute
	for i, al := range lists {
		var next token.Token
		if i+1 < len(header) {
			next = header[i+1]
		}
		for j, e := range al.Entries {
			if e.LParen != nil && len(e.Args) == 0 {
				diag.ReportWarning(b.opts.Reporter, diag.SynEmptyAttrArgs, e.Span,
					fmt.Sprintf("empty attribute argument list in '%s()'", e.Name.Text)).
					WithFix("remove the parentheses", diag.FixEdit{
						Span: e.LParen.Span.Cover(e.Span.ZeroideToEnd()),
					}).
					Emit()
			}
			entryCut := entryRemoval(al, j, next)
			if e.Name.Text == "attributes" && e.LParen != nil {
				for k, arg := range e.Args {
					cut := entryCut
					if len(e.Args) > 1 {
						cut = siblingRemoval(e.Args, k)
					}
					out = append(out, ast.Attribute{Name: arg.Text, NameSpan: arg.Span, Span: arg.Span, Removal: cut})
				}
				continue
			}
			attr := ast.Attribute{
				Name:      e.Name.Text,
				NameSpan:  e.Name.Span,
				Span:      e.Span,
				HasParens: e.LParen != nil,
				Removal:   entryCut,
			}
			if len(e.Args) > 0 {
				attr.Args = make([]string, 0, len(e.Args))
				for _, arg := range e.Args {
					attr.Args = append(attr.Args, arg.Text)
				}
			}
			out = append(out, attr)
		}
	}
	return out
}

// entryRemoval is the span that deletes entry i of al without breaking the list.
func entryRemoval(al *cst.AttrList, i int, next token.Token) source.Span {
	if len(al.Entries) == 1 {
		return listRemoval(al, next)
	}
	cur := al.Entries[i].Span
	if i+1 < len(al.Entries) {
		return source.Span{File: cur.File, Start: cur.Start, End: commentStart(al.Entries[i+1].Name)}
	}
	return source.Span{File: cur.File, Start: al.Entries[i-1].Span.End, End: cur.End}
}

// siblingRemoval cuts item i of a comma separated run: up to the next item,
// or back to the previous one for the last. Comments in front of the next
// item stay.
func siblingRemoval(items []token.Token, i int) source.Span {
	cur := items[i].Span
	if i+1 < len(items) {
		return source.Span{File: cur.File, Start: cur.Start, End: commentStart(items[i+1])}
	}
	return source.Span{File: cur.File, Start: items[i-1].Span.End, End: cur.End}
}

func commentStart(tok token.Token) uint32 {
	for _, tv := range tok.Leading {
		switch tv.Kind {
		case token.TriviaLineComment, token.TriviaBlockComment, token.TriviaDocLine:
			return tv.Span.Start
		}
	}
	return tok.Span.Start
}

// listRemoval deletes a whole "#[...]" list. On a line of its own the line
// goes too; inline, the blank after ']' does.
func listRemoval(al *cst.AttrList, next token.Token) source.Span {
	sp := al.Open.Span.Cover(al.Close.Span)
	lead := al.Open.Leading
	ownLine := sp.Start == 0
	if n := len(lead); n > 0 {
		last := lead[n-1]
		switch {
		case last.Kind == token.TriviaNewline:
			ownLine = true
		case last.Kind == token.TriviaSpace && ((n == 1 && last.Span.Start == 0) || (n > 1 && lead[n-2].Kind == token.TriviaNewline)):
			ownLine = true
			sp.Start = last.Span.Start
		}
	}
	end := sp.End
	for _, tv := range next.Leading {
		if tv.Span.Start != end {
			break
		}
		if tv.Kind == token.TriviaSpace {
			end = tv.Span.End
			continue
		}
		if tv.Kind == token.TriviaNewline && ownLine {
			end = tv.Span.Start + 1 // только первый перевод строки
		}
		break
	}
	sp.End = end
	return sp
}
