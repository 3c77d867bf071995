package parser

import (
	"apidef/internal/cst"
	"apidef/internal/token"
)

// parseAttrLists reads zero or more "#[entry, entry(args)]" groups.
func (p *Parser) parseAttrLists() ([]*cst.AttrList, bool) {
	var lists []*cst.AttrList
	for p.at(token.HashBracket) {
		list, ok := p.parseAttrList()
		if !ok {
			return nil, false
		}
		lists = append(lists, list)
	}
	return lists, true
}

func (p *Parser) parseAttrList() (*cst.AttrList, bool) {
	list := &cst.AttrList{Open: p.advance()}
	for {
		entry, ok := p.parseAttrEntry()
		if !ok {
			return nil, false
		}
		list.Entries = append(list.Entries, entry)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
		// trailing comma
		if p.at(token.RBracket) {
			break
		}
	}
	closeTok, ok := p.expect(token.RBracket)
	if !ok {
		return nil, false
	}
	list.Close = closeTok
	return list, true
}

func (p *Parser) parseAttrEntry() (*cst.AttrEntry, bool) {
	name, ok := p.expect(token.Ident)
	if !ok {
		return nil, false
	}
	entry := &cst.AttrEntry{Name: name, Span: name.Span}
	lparen, ok := p.eat(token.LParen)
	if !ok {
		return entry, true
	}
	entry.LParen = lparen
	for !p.at(token.RParen) {
		switch p.peek().Kind {
		case token.Ident, token.IntLit, token.StringLit:
			entry.Args = append(entry.Args, p.advance())
		default:
			return nil, p.fail("identifier", "integer literal", "string literal", "')'")
		}
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	rparen, ok := p.expect(token.RParen)
	if !ok {
		return nil, false
	}
	entry.Span = entry.Span.Cover(rparen.Span)
	return entry, true
}
