package token

import (
	"apidef/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwStruct, KwEnum, KwUnion, KwType, KwConst, KwCallback, KwMod:
		return true
	default:
		return false
	}
}

// IsPointerQual reports whether the token starts a pointer type.
func (t Token) IsPointerQual() bool {
	return t.Kind == PtrConst || t.Kind == PtrMut || t.Kind == Star
}

// IsQualifier reports whether the token is a method qualifier bracket.
func (t Token) IsQualifier() bool {
	return t.Kind == StaticQual || t.Kind == ManualQual
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsNameLike reports whether the token may name a member, parameter or
// enum entry. Member-level names are allowed to reuse keywords.
func (t Token) IsNameLike() bool { return t.Kind == Ident || t.IsKeyword() }

// Describe renders the token for diagnostics.
func (t Token) Describe() string {
	switch t.Kind {
	case Ident:
		return "identifier '" + t.Text + "'"
	case IntLit, FloatLit, StringLit:
		return t.Kind.Describe() + " " + t.Text
	case Invalid:
		return "invalid token '" + t.Text + "'"
	default:
		return t.Kind.Describe()
	}
}
