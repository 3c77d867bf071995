package parser

import (
	"apidef/internal/cst"
	"apidef/internal/diag"
	"apidef/internal/lexer"
	"apidef/internal/source"
	"apidef/internal/token"
)

type Options struct {
	Reporter diag.Reporter
}

type Result struct {
	File *cst.File    // nil when Err is set
	Err  *SyntaxError // first mismatch, if any
}

// Parser: состояние парсера на один файл.
type Parser struct {
	lx       *lexer.Lexer
	opts     Options
	lastSpan source.Span // span последнего съеденного токена
	err      *SyntaxError

	// токены с комментариями в leading trivia
	commented []token.Token
}

// Parse reads the whole token stream of lx. The lexer is consumed from its
// current position; callers that already drained it must Reset it first.
func Parse(lx *lexer.Lexer, opts Options) Result {
	p := Parser{lx: lx, opts: opts}
	file, ok := p.parseFile()
	if !ok {
		return Result{Err: p.err}
	}
	return Result{File: file}
}

// parseFile: основной цикл верхнего уровня, parseItem до EOF.
func (p *Parser) parseFile() (*cst.File, bool) {
	file := &cst.File{}
	start := p.peek().Span
	for !p.at(token.EOF) {
		item, ok := p.parseItem()
		if !ok {
			return nil, false
		}
		file.Items = append(file.Items, item)
	}
	file.EOF = p.advance()
	file.Span = start.Cover(file.EOF.Span)
	file.Commented = p.commented
	return file, true
}

var itemStarts = []string{"'#['", "'struct'", "'union'", "'enum'", "'type'", "'const'", "'callback'", "'mod'"}

// parseItem dispatches on the first token after any attribute lists.
func (p *Parser) parseItem() (*cst.Item, bool) {
	attrs, ok := p.parseAttrLists()
	if !ok {
		return nil, false
	}

	var item *cst.Item
	switch p.peek().Kind {
	case token.KwStruct:
		item, ok = p.parseStruct()
	case token.KwUnion:
		item, ok = p.parseUnion()
	case token.KwEnum:
		item, ok = p.parseEnum()
	case token.KwType:
		item, ok = p.parseAlias()
	case token.KwConst:
		item, ok = p.parseConst()
	case token.KwCallback:
		item, ok = p.parseCallback()
	case token.KwMod:
		item, ok = p.parseMod()
	default:
		expected := itemStarts
		if len(attrs) > 0 {
			expected = itemStarts[1:]
		}
		return nil, p.fail(expected...)
	}
	if !ok {
		return nil, false
	}
	item.Attrs = attrs
	if len(attrs) > 0 {
		item.Span = attrs[0].Open.Span.Cover(item.Span)
	}
	return item, true
}
