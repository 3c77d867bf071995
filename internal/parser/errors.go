package parser

import (
	"strings"

	"apidef/internal/source"
	"apidef/internal/token"
)

// SyntaxError describes the first grammar mismatch in a file.
type SyntaxError struct {
	Expected []string
	Found    token.Token
	Span     source.Span
}

func (e *SyntaxError) Error() string {
	return "expected " + joinAlternatives(e.Expected) + ", found " + e.Found.Describe()
}

func joinAlternatives(alts []string) string {
	switch len(alts) {
	case 0:
		return "nothing"
	case 1:
		return alts[0]
	default:
		return strings.Join(alts[:len(alts)-1], ", ") + " or " + alts[len(alts)-1]
	}
}
