package lexer

import (
	"apidef/internal/diag"
	"apidef/internal/token"
)

// collectLeadingTrivia gathers the trivia run in front of the next token.
// - ' ', '\t' и '\r' коалесцируются в один TriviaSpace
// - a run of line breaks becomes one TriviaNewline; whitespace-only lines
//   inside the run are absorbed so "\n  \n" still reads as a blank line
// - //... до \n -> TriviaLineComment
// - ///... до \n -> TriviaDocLine
// - /* ... */ -> TriviaBlockComment (nesting allowed; unterminated is reported)
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		if isHorizontalSpace(b) {
			for isHorizontalSpace(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
			continue
		}

		if b == '\n' {
			lx.cursor.Bump()
			for {
				m := lx.cursor.Mark()
				for isHorizontalSpace(lx.cursor.Peek()) {
					lx.cursor.Bump()
				}
				if lx.cursor.Peek() != '\n' {
					lx.cursor.Reset(m)
					break
				}
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaNewline, start)
			continue
		}

		if b == '/' && lx.scanCommentOrDocLineIntoHold() {
			continue
		}
		break
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)})
}

// //... , /*...*/ , ///...
func (lx *Lexer) scanCommentOrDocLineIntoHold() bool {
	start := lx.cursor.Mark()
	if !lx.cursor.Eat('/') {
		return false
	}
	switch lx.cursor.Peek() {
	case '/':
		lx.cursor.Bump()
		kind := token.TriviaLineComment
		if lx.cursor.Peek() == '/' {
			lx.cursor.Bump()
			kind = token.TriviaDocLine
			// "////" is a plain comment, not documentation
			if lx.cursor.Peek() == '/' {
				kind = token.TriviaLineComment
			}
		}
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		lx.pushTrivia(kind, start)
		return true

	case '*':
		lx.cursor.Bump()
		depth := 1
		for !lx.cursor.EOF() && depth > 0 {
			if b0, b1, ok := lx.cursor.Peek2(); ok {
				if b0 == '/' && b1 == '*' {
					lx.cursor.Bump()
					lx.cursor.Bump()
					depth++
					continue
				}
				if b0 == '*' && b1 == '/' {
					lx.cursor.Bump()
					lx.cursor.Bump()
					depth--
					continue
				}
			}
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		if depth > 0 {
			lx.errLex(diag.LexUnterminatedBlockComment, sp, "unterminated block comment")
		}
		lx.pushTrivia(token.TriviaBlockComment, start)
		return true

	default:
		// одиночный '/' не trivia; scanOperatorOrPunct сообщит о нём
		lx.cursor.Reset(start)
		return false
	}
}

func isHorizontalSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r'
}
