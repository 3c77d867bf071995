package token

import "apidef/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocLine
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaNewline:
		return "Newline"
	case TriviaLineComment:
		return "LineComment"
	case TriviaBlockComment:
		return "BlockComment"
	case TriviaDocLine:
		return "DocLine"
	default:
		return "TriviaKind(?)"
	}
}

// Trivia is source text that carries no grammar meaning.
// A newline trivia covers a whole run of line breaks; Text holds all of them.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// DocText returns the text of a doc line after the "///" marker, verbatim.
func (tv Trivia) DocText() string {
	if tv.Kind != TriviaDocLine || len(tv.Text) < 3 {
		return ""
	}
	return tv.Text[3:]
}

// BreaksDocRun reports whether the trivia separates a doc comment from what follows:
// a blank line (two or more line breaks) or any non-doc comment.
func (tv Trivia) BreaksDocRun() bool {
	switch tv.Kind {
	case TriviaNewline:
		n := 0
		for i := 0; i < len(tv.Text); i++ {
			if tv.Text[i] == '\n' {
				n++
			}
		}
		return n >= 2
	case TriviaLineComment, TriviaBlockComment:
		return true
	default:
		return false
	}
}
