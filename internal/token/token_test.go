package token_test

import (
	"testing"

	"apidef/internal/source"
	"apidef/internal/token"
)

func TestLookupKeywordIsCaseSensitive(t *testing.T) {
	if k, ok := token.LookupKeyword("struct"); !ok || k != token.KwStruct {
		t.Fatalf("struct: got %v, %v", k, ok)
	}
	for _, s := range []string{"Struct", "STRUCT", "self", "static"} {
		if _, ok := token.LookupKeyword(s); ok {
			t.Errorf("%q must not be a keyword", s)
		}
	}
}

func TestKindStringCoversAllKinds(t *testing.T) {
	for k := token.Invalid; k <= token.Star; k++ {
		if k.String() == "Kind(?)" {
			t.Errorf("kind %d has no name", k)
		}
	}
	if token.Kind(200).String() != "Kind(?)" {
		t.Error("out of range kind must render as Kind(?)")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		tok  token.Token
		want string
	}{
		{token.Token{Kind: token.Ident, Text: "Image"}, "identifier 'Image'"},
		{token.Token{Kind: token.IntLit, Text: "0x10"}, "integer literal 0x10"},
		{token.Token{Kind: token.LBrace, Text: "{"}, "'{'"},
		{token.Token{Kind: token.EOF}, "end of file"},
		{token.Token{Kind: token.StaticQual, Text: "[static]"}, "'[static]'"},
	}
	for _, tt := range tests {
		if got := tt.tok.Describe(); got != tt.want {
			t.Errorf("Describe(%v) = %q, want %q", tt.tok.Kind, got, tt.want)
		}
	}
}

func TestNameLike(t *testing.T) {
	kw := token.Token{Kind: token.KwType, Text: "type"}
	if !kw.IsNameLike() || kw.IsIdent() {
		t.Fatal("keywords are name-like but not identifiers")
	}
	if (token.Token{Kind: token.Colon}).IsNameLike() {
		t.Fatal("punctuation is not name-like")
	}
}

func TestTriviaBreaksDocRun(t *testing.T) {
	tests := []struct {
		tv   token.Trivia
		want bool
	}{
		{token.Trivia{Kind: token.TriviaNewline, Text: "\n"}, false},
		{token.Trivia{Kind: token.TriviaNewline, Text: "\n\n"}, true},
		{token.Trivia{Kind: token.TriviaSpace, Text: "  "}, false},
		{token.Trivia{Kind: token.TriviaLineComment, Text: "// x"}, true},
		{token.Trivia{Kind: token.TriviaDocLine, Text: "/// x"}, false},
	}
	for _, tt := range tests {
		if got := tt.tv.BreaksDocRun(); got != tt.want {
			t.Errorf("%v %q: got %v", tt.tv.Kind, tt.tv.Text, got)
		}
	}
}

func TestDocText(t *testing.T) {
	tv := token.Trivia{Kind: token.TriviaDocLine, Span: source.Span{End: 11}, Text: "///  spaced"}
	if got := tv.DocText(); got != "  spaced" {
		t.Errorf("DocText = %q", got)
	}
}
