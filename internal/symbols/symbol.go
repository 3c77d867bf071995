package symbols

import (
	"apidef/internal/ast"
	"apidef/internal/source"
)

// SymbolID indexes a symbol in a Table. Zero is never a valid symbol.
type SymbolID uint32

const NoSymbolID SymbolID = 0

func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolBuiltin
	SymbolStruct
	SymbolUnion
	SymbolEnum
	SymbolAlias
	SymbolCallback
	SymbolConst
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolBuiltin:
		return "builtin"
	case SymbolStruct:
		return "struct"
	case SymbolUnion:
		return "union"
	case SymbolEnum:
		return "enum"
	case SymbolAlias:
		return "type"
	case SymbolCallback:
		return "callback"
	case SymbolConst:
		return "const"
	default:
		return "invalid"
	}
}

// IsType reports whether a symbol of this kind can appear in a type position.
func (k SymbolKind) IsType() bool {
	switch k {
	case SymbolBuiltin, SymbolStruct, SymbolUnion, SymbolEnum, SymbolAlias, SymbolCallback:
		return true
	default:
		return false
	}
}

// KindOf maps a declaration kind to the symbol kind it introduces.
func KindOf(k ast.DeclKind) SymbolKind {
	switch k {
	case ast.DeclStruct:
		return SymbolStruct
	case ast.DeclUnion:
		return SymbolUnion
	case ast.DeclEnum:
		return SymbolEnum
	case ast.DeclAlias:
		return SymbolAlias
	case ast.DeclCallback:
		return SymbolCallback
	case ast.DeclConst:
		return SymbolConst
	default:
		return SymbolInvalid
	}
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint8

const (
	SymbolFlagImported SymbolFlags = 1 << iota
	SymbolFlagBuiltin
)

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 2)
	if f&SymbolFlagImported != 0 {
		labels = append(labels, "imported")
	}
	if f&SymbolFlagBuiltin != 0 {
		labels = append(labels, "builtin")
	}
	return labels
}

// Symbol describes a named entity visible at the top level of a document.
type Symbol struct {
	Name   string
	Kind   SymbolKind
	Span   source.Span
	Flags  SymbolFlags
	Decl   *ast.Decl     // nil for builtins
	Prim   ast.Primitive // builtins only
	Module string        // owning module for imported symbols
}
