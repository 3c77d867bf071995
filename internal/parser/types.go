package parser

import (
	"apidef/internal/cst"
	"apidef/internal/token"
)

// parseType распознаёт полный тип:
//
//	Type := Core '?'?
//	Core := ('*const' | '*mut' | '*') Core
//	      | '[' Type (';' (IntLit | Ident))? ']'
//	      | Ident
//
// A pointer qualifier binds to the Core right after it, the brackets wrap
// their element, and '?' applies last, outermost: "*const X?" is
// Optional(Pointer(X)).
func (p *Parser) parseType() (*cst.Type, bool) {
	core, ok := p.parseTypeCore()
	if !ok {
		return nil, false
	}
	if q, ok := p.eat(token.Question); ok {
		return &cst.Type{Kind: cst.TypeOptional, Tok: *q, Elem: core, Span: core.Span.Cover(q.Span)}, true
	}
	return core, true
}

func (p *Parser) parseTypeCore() (*cst.Type, bool) {
	tok := p.peek()
	switch {
	case tok.IsPointerQual():
		p.advance()
		elem, ok := p.parseTypeCore()
		if !ok {
			return nil, false
		}
		return &cst.Type{Kind: cst.TypePointer, Tok: tok, Elem: elem, Span: tok.Span.Cover(elem.Span)}, true

	case tok.Kind == token.LBracket:
		p.advance()
		elem, ok := p.parseType()
		if !ok {
			return nil, false
		}
		arr := &cst.Type{Kind: cst.TypeArray, Tok: tok, Elem: elem}
		if _, ok := p.eat(token.Semicolon); ok {
			switch p.peek().Kind {
			case token.IntLit, token.Ident:
				n := p.advance()
				arr.Len = &n
			default:
				return nil, p.fail("array length")
			}
		}
		closeTok, ok := p.expect(token.RBracket)
		if !ok {
			return nil, false
		}
		arr.Close = &closeTok
		arr.Span = tok.Span.Cover(closeTok.Span)
		return arr, true

	case tok.Kind == token.Ident:
		p.advance()
		return &cst.Type{Kind: cst.TypeName, Tok: tok, Span: tok.Span}, true

	default:
		return nil, p.fail("type")
	}
}
