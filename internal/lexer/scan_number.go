package lexer

import (
	"apidef/internal/diag"
	"apidef/internal/token"
)

// scanNumber: -?(0x[0-9a-fA-F_]+ | 0b[01_]+ | 0o[0-7_]+ | [0-9][0-9_]*(\.[0-9_]+)?([eE][+-]?[0-9]+)?)
// A literal glued to identifier bytes ("12ab", "0x1G") is malformed.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	lx.cursor.Eat('-')

	if lx.cursor.Peek() == '0' {
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' {
			var digit func(byte) bool
			switch b1 {
			case 'x', 'X':
				digit = isHex
			case 'b', 'B':
				digit = func(b byte) bool { return b == '0' || b == '1' }
			case 'o', 'O':
				digit = func(b byte) bool { return b >= '0' && b <= '7' }
			}
			if digit != nil {
				lx.cursor.Bump()
				lx.cursor.Bump()
				n := 0
				for digit(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
					if lx.cursor.Peek() != '_' {
						n++
					}
					lx.cursor.Bump()
				}
				if n == 0 {
					return lx.badNumber(start, "missing digits after base prefix")
				}
				return lx.finishNumber(start, kind)
			}
		}
	}

	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		kind = token.FloatLit
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		m := lx.cursor.Mark()
		lx.cursor.Bump()
		if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			lx.cursor.Reset(m)
			return lx.badNumber(start, "expected digit after exponent")
		}
		kind = token.FloatLit
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	return lx.finishNumber(start, kind)
}

func (lx *Lexer) finishNumber(start Mark, kind token.Kind) token.Token {
	if isIdentContinueByte(lx.cursor.Peek()) {
		return lx.badNumber(start, "invalid character in numeric literal")
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

// badNumber swallows the rest of the glued word so one mistake yields one error.
func (lx *Lexer) badNumber(start Mark, msg string) token.Token {
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	lx.errLex(diag.LexBadNumber, sp, "malformed number '"+text+"': "+msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: text}
}
