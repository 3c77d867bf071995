// Package cst holds the concrete parse tree: every node keeps the tokens it
// was built from, trivia included, so the AST builder can attach doc comments
// and report precise spans. The tree is produced by package parser and is
// consumed once by package astbuild.
package cst

import (
	"apidef/internal/source"
	"apidef/internal/token"
)

// File is the root of one parsed schema.
type File struct {
	Items []*Item
	// EOF keeps the trailing trivia: comments after the last item.
	EOF token.Token

	// Commented lists every consumed token whose leading trivia holds a
	// comment, in source order. Separators the tree drops are included.
	Commented []token.Token
	Span      source.Span
}

type ItemKind uint8

const (
	ItemStruct ItemKind = iota + 1
	ItemUnion
	ItemEnum
	ItemAlias
	ItemConst
	ItemCallback
	ItemMod
)

func (k ItemKind) String() string {
	switch k {
	case ItemStruct:
		return "struct"
	case ItemUnion:
		return "union"
	case ItemEnum:
		return "enum"
	case ItemAlias:
		return "type"
	case ItemConst:
		return "const"
	case ItemCallback:
		return "callback"
	case ItemMod:
		return "mod"
	default:
		return "item"
	}
}

// Item is one top-level declaration. Which payload fields are set depends on Kind:
// struct/union use Members, enum uses Entries, type uses Type, const uses
// Value, callback uses Sig.
type Item struct {
	Kind    ItemKind
	Attrs   []*AttrList
	Keyword token.Token
	Name    token.Token

	LBrace  token.Token
	RBrace  token.Token
	Members []*Member
	Entries []*EnumEntry

	Type  *Type
	Value *token.Token
	Sig   *Signature

	Span source.Span
}

// FirstToken is the token whose leading trivia may hold the item's doc comment.
func (it *Item) FirstToken() token.Token {
	if len(it.Attrs) > 0 {
		return it.Attrs[0].Open
	}
	return it.Keyword
}

// AttrList is one "#[ ... ]" group.
type AttrList struct {
	Open    token.Token
	Entries []*AttrEntry
	Close   token.Token
}

// AttrEntry is "name" or "name(arg, ...)".
type AttrEntry struct {
	Name   token.Token
	LParen *token.Token // nil when written without parentheses
	Args   []token.Token
	Span   source.Span
}

// Member is a struct or union member: a field or a method.
type Member struct {
	Attrs     []*AttrList
	Qualifier *token.Token // [static] or [manual]
	Name      token.Token

	// field
	Colon   *token.Token
	Type    *Type
	Default *token.Token

	// method
	Sig *Signature

	Span source.Span
}

// IsMethod reports whether the member was parsed as a method.
func (m *Member) IsMethod() bool { return m.Sig != nil }

// FirstToken is the token whose leading trivia may hold the member's doc comment.
func (m *Member) FirstToken() token.Token {
	if len(m.Attrs) > 0 {
		return m.Attrs[0].Open
	}
	if m.Qualifier != nil {
		return *m.Qualifier
	}
	return m.Name
}

// Signature is "(params) -> Ret" shared by methods and callbacks.
type Signature struct {
	LParen token.Token
	Params []*Param
	RParen token.Token
	Arrow  *token.Token
	Return *Type
}

type Param struct {
	Name    token.Token
	Type    *Type
	Default *token.Token
	Span    source.Span
}

type EnumEntry struct {
	Name  token.Token
	Value *token.Token
	Span  source.Span
}

type TypeKind uint8

const (
	TypeName TypeKind = iota + 1
	TypePointer
	TypeArray
	TypeOptional
)

// Type is a type reference as written. Tok is the name for TypeName, the
// qualifier for TypePointer, '[' for TypeArray and '?' for TypeOptional.
type Type struct {
	Kind  TypeKind
	Tok   token.Token
	Elem  *Type
	Len   *token.Token // [T; N]
	Close *token.Token // ']'
	Span  source.Span
}
