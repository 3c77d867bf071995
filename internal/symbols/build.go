package symbols

import (
	"apidef/internal/ast"
)

// Imports maps a module name, as written after "mod", to its document.
// A nil document marks a module that exists but failed to parse.
type Imports map[string]*ast.Document

// FromDocument collects every name visible in doc before anything is resolved,
// so declarations may be referenced ahead of their definition.
//
// Order: builtin primitives, then the document's declarations in source order,
// then the declarations of each imported module in "mod" order. Imported names
// never shadow local ones and never count as redeclarations.
func FromDocument(doc *ast.Document, imports Imports) *Table {
	hint := len(ast.Primitives())
	if doc != nil {
		hint += len(doc.Decls)
	}
	t := NewTable(Hints{Symbols: uint(hint)})
	for _, p := range ast.Primitives() {
		t.Add(Symbol{Name: p.String(), Kind: SymbolBuiltin, Flags: SymbolFlagBuiltin, Prim: p})
	}
	if doc == nil {
		return t
	}
	for _, d := range doc.Decls {
		t.Add(Symbol{Name: d.Name, Kind: KindOf(d.Kind), Span: d.NameSpan, Decl: d})
	}
	for _, mod := range doc.Mods {
		other := imports[mod.Name]
		if other == nil {
			continue
		}
		for _, d := range other.Decls {
			if _, exists := t.Lookup(d.Name); exists {
				continue
			}
			t.Add(Symbol{
				Name:   d.Name,
				Kind:   KindOf(d.Kind),
				Span:   d.NameSpan,
				Flags:  SymbolFlagImported,
				Decl:   d,
				Module: mod.Name,
			})
		}
	}
	return t
}
