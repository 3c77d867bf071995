package parser

import (
	"apidef/internal/cst"
	"apidef/internal/source"
	"apidef/internal/token"
)

// parseMember:
//
//	AttrList* Qualifier Name Signature           method, static or manual
//	AttrList* Name Signature                     method
//	AttrList* Name ':' Type ('=' Literal)?       field
//
// The name commits the member; one token after it decides which.
func (p *Parser) parseMember() (*cst.Member, bool) {
	attrs, ok := p.parseAttrLists()
	if !ok {
		return nil, false
	}
	m := &cst.Member{Attrs: attrs}

	if p.peek().IsQualifier() {
		q := p.advance()
		m.Qualifier = &q
	} else if !p.peek().IsNameLike() {
		if len(attrs) > 0 {
			return nil, p.fail("'[static]'", "'[manual]'", "name")
		}
		return nil, p.fail("'#['", "'[static]'", "'[manual]'", "name", "'}'")
	}

	name, ok := p.expectName()
	if !ok {
		return nil, false
	}
	m.Name = name
	start := m.FirstToken().Span

	switch {
	case p.at(token.LParen):
		sig, ok := p.parseSignature()
		if !ok {
			return nil, false
		}
		m.Sig = sig
		m.Span = start.Cover(sigEnd(sig))
	case p.at(token.Colon) && m.Qualifier == nil:
		colon := p.advance()
		m.Colon = &colon
		typ, ok := p.parseType()
		if !ok {
			return nil, false
		}
		m.Type = typ
		m.Span = start.Cover(typ.Span)
		if _, ok := p.eat(token.Assign); ok {
			def, ok := p.parseLiteral()
			if !ok {
				return nil, false
			}
			m.Default = &def
			m.Span = m.Span.Cover(def.Span)
		}
	case m.Qualifier != nil:
		return nil, p.fail("'('")
	default:
		return nil, p.fail("'('", "':'")
	}
	return m, true
}

// Signature := '(' (Param (',' Param)* ','?)? ')' ('->' Type)?
func (p *Parser) parseSignature() (*cst.Signature, bool) {
	lparen, ok := p.expect(token.LParen)
	if !ok {
		return nil, false
	}
	sig := &cst.Signature{LParen: lparen}
	for !p.at(token.RParen) {
		param, ok := p.parseParam()
		if !ok {
			return nil, false
		}
		sig.Params = append(sig.Params, param)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	rparen, ok := p.expect(token.RParen)
	if !ok {
		return nil, false
	}
	sig.RParen = rparen
	if arrow, ok := p.eat(token.Arrow); ok {
		sig.Arrow = arrow
		ret, ok := p.parseType()
		if !ok {
			return nil, false
		}
		sig.Return = ret
	}
	return sig, true
}

// Param := Name ':' Type ('=' Literal)?
func (p *Parser) parseParam() (*cst.Param, bool) {
	if !p.peek().IsNameLike() {
		return nil, p.fail("name", "')'")
	}
	name := p.advance()
	if _, ok := p.expect(token.Colon); !ok {
		return nil, false
	}
	typ, ok := p.parseType()
	if !ok {
		return nil, false
	}
	param := &cst.Param{Name: name, Type: typ, Span: name.Span.Cover(typ.Span)}
	if _, ok := p.eat(token.Assign); ok {
		def, ok := p.parseLiteral()
		if !ok {
			return nil, false
		}
		param.Default = &def
		param.Span = param.Span.Cover(def.Span)
	}
	return param, true
}

func sigEnd(sig *cst.Signature) source.Span {
	if sig.Return != nil {
		return sig.Return.Span
	}
	return sig.RParen.Span
}
