package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	KwStruct   // struct
	KwEnum     // enum
	KwUnion    // union
	KwType     // type
	KwConst    // const
	KwCallback // callback
	KwMod      // mod

	IntLit    // 42, 0x2A, 0b101010
	FloatLit  // 1.5, 2e10
	StringLit // "text"

	LBrace    // {
	RBrace    // }
	LParen    // (
	RParen    // )
	LBracket  // [
	RBracket  // ]
	Colon     // :
	Semicolon // ;
	Comma     // ,
	Assign    // =
	Arrow     // ->
	Question  // ?

	// HashBracket opens an attribute list.
	HashBracket // #[
	// StaticQual marks a static method.
	StaticQual // [static]
	// ManualQual marks a hand-written (and therefore static) method.
	ManualQual // [manual]
	// PtrConst is a pointer to immutable data.
	PtrConst // *const
	// PtrMut is a pointer to mutable data.
	PtrMut // *mut
	// Star is a bare pointer marker; it is mutable.
	Star // *
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Ident:       "Ident",
	KwStruct:    "KwStruct",
	KwEnum:      "KwEnum",
	KwUnion:     "KwUnion",
	KwType:      "KwType",
	KwConst:     "KwConst",
	KwCallback:  "KwCallback",
	KwMod:       "KwMod",
	IntLit:      "IntLit",
	FloatLit:    "FloatLit",
	StringLit:   "StringLit",
	LBrace:      "LBrace",
	RBrace:      "RBrace",
	LParen:      "LParen",
	RParen:      "RParen",
	LBracket:    "LBracket",
	RBracket:    "RBracket",
	Colon:       "Colon",
	Semicolon:   "Semicolon",
	Comma:       "Comma",
	Assign:      "Assign",
	Arrow:       "Arrow",
	Question:    "Question",
	HashBracket: "HashBracket",
	StaticQual:  "StaticQual",
	ManualQual:  "ManualQual",
	PtrConst:    "PtrConst",
	PtrMut:      "PtrMut",
	Star:        "Star",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

var kindSpellings = map[Kind]string{
	EOF:         "end of file",
	Ident:       "identifier",
	IntLit:      "integer literal",
	FloatLit:    "float literal",
	StringLit:   "string literal",
	KwStruct:    "'struct'",
	KwEnum:      "'enum'",
	KwUnion:     "'union'",
	KwType:      "'type'",
	KwConst:     "'const'",
	KwCallback:  "'callback'",
	KwMod:       "'mod'",
	LBrace:      "'{'",
	RBrace:      "'}'",
	LParen:      "'('",
	RParen:      "')'",
	LBracket:    "'['",
	RBracket:    "']'",
	Colon:       "':'",
	Semicolon:   "';'",
	Comma:       "','",
	Assign:      "'='",
	Arrow:       "'->'",
	Question:    "'?'",
	HashBracket: "'#['",
	StaticQual:  "'[static]'",
	ManualQual:  "'[manual]'",
	PtrConst:    "'*const'",
	PtrMut:      "'*mut'",
	Star:        "'*'",
}

// Describe returns the user-facing spelling of a kind, used in
// "expected X, found Y" messages.
func (k Kind) Describe() string {
	if s, ok := kindSpellings[k]; ok {
		return s
	}
	return "invalid token"
}
