package parser

import (
	"apidef/internal/diag"
	"apidef/internal/source"
	"apidef/internal/token"
)

func (p *Parser) peek() token.Token {
	return p.lx.Peek()
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

// advance: съедает следующий токен и обновляет lastSpan.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	if hasComment(tok.Leading) {
		p.commented = append(p.commented, tok)
	}
	return tok
}

func hasComment(leading []token.Trivia) bool {
	for _, tv := range leading {
		switch tv.Kind {
		case token.TriviaLineComment, token.TriviaBlockComment, token.TriviaDocLine:
			return true
		}
	}
	return false
}

// eat consumes the next token when it has kind k.
func (p *Parser) eat(k token.Kind) (*token.Token, bool) {
	if !p.at(k) {
		return nil, false
	}
	tok := p.advance()
	return &tok, true
}

// expect: ожидаем конкретный токен; otherwise the parse fails.
func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, p.fail(k.Describe())
}

// expectName accepts an identifier or a keyword used as a member-level name.
func (p *Parser) expectName() (token.Token, bool) {
	if p.peek().IsNameLike() {
		return p.advance(), true
	}
	return token.Token{}, p.fail("name")
}

// diagnosticSpan points past the last consumed token when the offending token
// is EOF, so "expected '}'" lands at the end of the last line rather than
// after trailing comments.
func (p *Parser) diagnosticSpan(found token.Token) source.Span {
	if found.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return found.Span
}

// fail records the first mismatch and reports it. It always returns false so
// rules can write "return nil, p.fail(...)".
func (p *Parser) fail(expected ...string) bool {
	if p.err != nil {
		return false
	}
	found := p.peek()
	p.err = &SyntaxError{
		Expected: expected,
		Found:    found,
		Span:     p.diagnosticSpan(found),
	}
	if found.Kind != token.Invalid && p.opts.Reporter != nil {
		p.opts.Reporter.Report(diag.SynUnexpectedToken, diag.SevError, p.err.Span, p.err.Error(), nil, nil)
	}
	return false
}
