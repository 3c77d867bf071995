package parser

import (
	"apidef/internal/cst"
	"apidef/internal/token"
)

// struct Name { (Member ','?)* }
func (p *Parser) parseStruct() (*cst.Item, bool) {
	item := &cst.Item{Kind: cst.ItemStruct, Keyword: p.advance()}
	if !p.parseItemName(item) || !p.parseBody(item, p.parseMember) {
		return nil, false
	}
	return item, true
}

// union Name { (Field ','?)* }
func (p *Parser) parseUnion() (*cst.Item, bool) {
	item := &cst.Item{Kind: cst.ItemUnion, Keyword: p.advance()}
	if !p.parseItemName(item) || !p.parseBody(item, p.parseMember) {
		return nil, false
	}
	return item, true
}

// enum Name { (Name ('=' IntLit)? ','?)* }
func (p *Parser) parseEnum() (*cst.Item, bool) {
	item := &cst.Item{Kind: cst.ItemEnum, Keyword: p.advance()}
	if !p.parseItemName(item) {
		return nil, false
	}
	lbrace, ok := p.expect(token.LBrace)
	if !ok {
		return nil, false
	}
	item.LBrace = lbrace
	for !p.at(token.RBrace) {
		if !p.peek().IsNameLike() {
			return nil, p.fail("name", "'}'")
		}
		name := p.advance()
		entry := &cst.EnumEntry{Name: name, Span: name.Span}
		if _, ok := p.eat(token.Assign); ok {
			value, ok := p.expect(token.IntLit)
			if !ok {
				return nil, false
			}
			entry.Value = &value
			entry.Span = entry.Span.Cover(value.Span)
		}
		item.Entries = append(item.Entries, entry)
		p.eat(token.Comma)
	}
	item.RBrace = p.advance()
	item.Span = item.Keyword.Span.Cover(item.RBrace.Span)
	return item, true
}

// type Name: Type
func (p *Parser) parseAlias() (*cst.Item, bool) {
	item := &cst.Item{Kind: cst.ItemAlias, Keyword: p.advance()}
	if !p.parseItemName(item) {
		return nil, false
	}
	if _, ok := p.expect(token.Colon); !ok {
		return nil, false
	}
	typ, ok := p.parseType()
	if !ok {
		return nil, false
	}
	item.Type = typ
	item.Span = item.Keyword.Span.Cover(typ.Span)
	return item, true
}

// const NAME = Literal
func (p *Parser) parseConst() (*cst.Item, bool) {
	item := &cst.Item{Kind: cst.ItemConst, Keyword: p.advance()}
	if !p.parseItemName(item) {
		return nil, false
	}
	if _, ok := p.expect(token.Assign); !ok {
		return nil, false
	}
	value, ok := p.parseLiteral()
	if !ok {
		return nil, false
	}
	item.Value = &value
	item.Span = item.Keyword.Span.Cover(value.Span)
	return item, true
}

// callback Name(params) -> Ret
func (p *Parser) parseCallback() (*cst.Item, bool) {
	item := &cst.Item{Kind: cst.ItemCallback, Keyword: p.advance()}
	if !p.parseItemName(item) {
		return nil, false
	}
	sig, ok := p.parseSignature()
	if !ok {
		return nil, false
	}
	item.Sig = sig
	item.Span = item.Keyword.Span.Cover(sigEnd(sig))
	return item, true
}

// mod name
func (p *Parser) parseMod() (*cst.Item, bool) {
	item := &cst.Item{Kind: cst.ItemMod, Keyword: p.advance()}
	if !p.parseItemName(item) {
		return nil, false
	}
	item.Span = item.Keyword.Span.Cover(item.Name.Span)
	return item, true
}

// Top-level names must be identifiers; keywords are reserved there.
func (p *Parser) parseItemName(item *cst.Item) bool {
	name, ok := p.expect(token.Ident)
	if !ok {
		return false
	}
	item.Name = name
	item.Span = item.Keyword.Span.Cover(name.Span)
	return true
}

// parseBody reads "{ member* }" with optional separating commas.
func (p *Parser) parseBody(item *cst.Item, member func() (*cst.Member, bool)) bool {
	lbrace, ok := p.expect(token.LBrace)
	if !ok {
		return false
	}
	item.LBrace = lbrace
	for !p.at(token.RBrace) {
		m, ok := member()
		if !ok {
			return false
		}
		item.Members = append(item.Members, m)
		p.eat(token.Comma)
	}
	item.RBrace = p.advance()
	item.Span = item.Keyword.Span.Cover(item.RBrace.Span)
	return true
}

// Literal := IntLit | FloatLit | StringLit | Ident
func (p *Parser) parseLiteral() (token.Token, bool) {
	switch p.peek().Kind {
	case token.IntLit, token.FloatLit, token.StringLit, token.Ident:
		return p.advance(), true
	default:
		return token.Token{}, p.fail("literal")
	}
}
