package symbols_test

import (
	"testing"

	"apidef/internal/ast"
	"apidef/internal/source"
	"apidef/internal/symbols"
)

func decl(kind ast.DeclKind, name string, start uint32) *ast.Decl {
	return &ast.Decl{Kind: kind, Name: name, NameSpan: source.Span{File: 1, Start: start, End: start + uint32(len(name))}}
}

func TestFromDocumentForwardAndBuiltins(t *testing.T) {
	doc := &ast.Document{Decls: []*ast.Decl{
		decl(ast.DeclStruct, "Image", 10),
		decl(ast.DeclEnum, "Format", 40),
		decl(ast.DeclConst, "MAX", 60),
	}}
	table := symbols.FromDocument(doc, nil)

	cases := []struct {
		name string
		kind symbols.SymbolKind
	}{
		{"Image", symbols.SymbolStruct},
		{"Format", symbols.SymbolEnum},
		{"MAX", symbols.SymbolConst},
		{"u32", symbols.SymbolBuiltin},
		{"String", symbols.SymbolBuiltin},
	}
	for _, tc := range cases {
		id, ok := table.Lookup(tc.name)
		if !ok {
			t.Errorf("%s not found", tc.name)
			continue
		}
		if got := table.Get(id).Kind; got != tc.kind {
			t.Errorf("%s kind = %s, want %s", tc.name, got, tc.kind)
		}
	}
	if _, ok := table.Lookup("image"); ok {
		t.Errorf("lookup must be case-sensitive")
	}
	if len(table.Redeclarations()) != 0 {
		t.Errorf("unexpected redeclarations: %v", table.Redeclarations())
	}
}

func TestRedeclarations(t *testing.T) {
	doc := &ast.Document{Decls: []*ast.Decl{
		decl(ast.DeclStruct, "A", 0),
		decl(ast.DeclEnum, "A", 20),
		decl(ast.DeclStruct, "u8", 40),
	}}
	table := symbols.FromDocument(doc, nil)
	re := table.Redeclarations()
	if len(re) != 2 {
		t.Fatalf("redeclarations = %d, want 2", len(re))
	}
	first, again := table.Get(re[0].First), table.Get(re[0].Again)
	if first.Name != "A" || first.Kind != symbols.SymbolStruct || again.Kind != symbols.SymbolEnum {
		t.Errorf("first pair = %+v / %+v", first, again)
	}
	if table.Get(re[1].First).Flags&symbols.SymbolFlagBuiltin == 0 {
		t.Errorf("u8 should collide with the builtin")
	}
	if id, _ := table.Lookup("A"); id != re[0].First {
		t.Errorf("Lookup must return the first declaration")
	}
	if got := len(table.LookupAll("A")); got != 2 {
		t.Errorf("LookupAll(A) = %d", got)
	}
}

func TestNFCKeys(t *testing.T) {
	composed := "Caf\u00e9"
	decomposed := "Cafe\u0301"
	doc := &ast.Document{Decls: []*ast.Decl{decl(ast.DeclStruct, composed, 0)}}
	table := symbols.FromDocument(doc, nil)
	if _, ok := table.Lookup(decomposed); !ok {
		t.Fatalf("decomposed spelling must resolve to the composed declaration")
	}
	doc.Decls = append(doc.Decls, decl(ast.DeclStruct, decomposed, 30))
	table = symbols.FromDocument(doc, nil)
	if len(table.Redeclarations()) != 1 {
		t.Fatalf("normalized duplicates must be recorded")
	}
}

func TestImports(t *testing.T) {
	common := &ast.Document{Decls: []*ast.Decl{
		decl(ast.DeclStruct, "Point", 0),
		decl(ast.DeclStruct, "Local", 10),
	}}
	doc := &ast.Document{
		Decls: []*ast.Decl{decl(ast.DeclStruct, "Local", 5)},
		Mods:  []ast.ModRef{{Name: "common"}, {Name: "missing"}},
	}
	table := symbols.FromDocument(doc, symbols.Imports{"common": common, "unused": common})
	id, ok := table.Lookup("Point")
	if !ok {
		t.Fatalf("Point should be imported")
	}
	sym := table.Get(id)
	if sym.Flags&symbols.SymbolFlagImported == 0 || sym.Module != "common" {
		t.Errorf("Point = %+v", sym)
	}
	id, _ = table.Lookup("Local")
	if table.Get(id).Flags&symbols.SymbolFlagImported != 0 {
		t.Errorf("local declaration must win over the import")
	}
	if len(table.Redeclarations()) != 0 {
		t.Errorf("imports must not count as redeclarations")
	}
}

func TestGetOutOfRange(t *testing.T) {
	table := symbols.NewTable(symbols.Hints{})
	if table.Get(symbols.NoSymbolID) != nil || table.Get(42) != nil {
		t.Fatalf("Get must return nil for unknown ids")
	}
	if table.Len() != 0 {
		t.Fatalf("empty table Len = %d", table.Len())
	}
}
