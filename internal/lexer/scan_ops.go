package lexer

import (
	"fmt"

	"apidef/internal/diag"
	"apidef/internal/token"
)

// scanOperatorOrPunct handles punctuation, glued qualifiers and pointer forms.
// Longer forms are tried first: "[static]" before "[", "*const" before "*".
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: k, Span: sp, Text: lx.text(sp)}
	}

	switch lx.cursor.Peek() {
	case '[':
		if lx.tryWord("[static]", false) {
			return emit(token.StaticQual)
		}
		if lx.tryWord("[manual]", false) {
			return emit(token.ManualQual)
		}
		lx.cursor.Bump()
		return emit(token.LBracket)
	case '*':
		if lx.tryWord("*const", true) {
			return emit(token.PtrConst)
		}
		if lx.tryWord("*mut", true) {
			return emit(token.PtrMut)
		}
		lx.cursor.Bump()
		return emit(token.Star)
	case '#':
		if lx.try2('#', '[') {
			return emit(token.HashBracket)
		}
	case '-':
		if lx.try2('-', '>') {
			return emit(token.Arrow)
		}
	case ']':
		lx.cursor.Bump()
		return emit(token.RBracket)
	case '{':
		lx.cursor.Bump()
		return emit(token.LBrace)
	case '}':
		lx.cursor.Bump()
		return emit(token.RBrace)
	case '(':
		lx.cursor.Bump()
		return emit(token.LParen)
	case ')':
		lx.cursor.Bump()
		return emit(token.RParen)
	case ':':
		lx.cursor.Bump()
		return emit(token.Colon)
	case ';':
		lx.cursor.Bump()
		return emit(token.Semicolon)
	case ',':
		lx.cursor.Bump()
		return emit(token.Comma)
	case '=':
		lx.cursor.Bump()
		return emit(token.Assign)
	case '?':
		lx.cursor.Bump()
		return emit(token.Question)
	}
	return lx.scanUnknown()
}

// scanUnknown consumes one rune and reports it. Lexing never skips input
// silently: the rune comes back as an Invalid token.
func (lx *Lexer) scanUnknown() token.Token {
	start := lx.cursor.Mark()
	r, _ := lx.peekRune()
	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, fmt.Sprintf("unexpected character %q (U+%04X)", r, r))
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
