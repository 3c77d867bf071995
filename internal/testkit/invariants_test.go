package testkit_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"apidef/internal/ast"
	"apidef/internal/astbuild"
	"apidef/internal/diag"
	"apidef/internal/lexer"
	"apidef/internal/parser"
	"apidef/internal/source"
	"apidef/internal/testkit"
)

func build(t *testing.T, name string, src []byte) (*ast.Document, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, src))
	rep := diag.BagReporter{Bag: diag.NewBag(32)}
	res := parser.Parse(lexer.New(file, lexer.Options{Reporter: rep}), parser.Options{Reporter: rep})
	if res.Err != nil {
		t.Fatalf("%s: parse failed", name)
	}
	return astbuild.Build(res.File, astbuild.Options{Reporter: rep}), file
}

func TestTestdataHoldsInvariants(t *testing.T) {
	for _, name := range []string{"image.api", "widgets.api"} {
		src, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
		if err != nil {
			t.Fatal(err)
		}
		doc, file := build(t, name, src)
		if err := testkit.CheckSpanInvariants(doc, file); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestBrokenSpansAreReported(t *testing.T) {
	doc, file := build(t, "a.api", []byte("struct A { x: u32 }\nstruct B { y: u32 }\n"))

	doc.Decls[1].Span.Start = doc.Decls[0].Span.Start
	err := testkit.CheckSpanInvariants(doc, file)
	if err == nil || !strings.Contains(err.Error(), "overlaps") {
		t.Fatalf("overlap not detected: %v", err)
	}

	doc, file = build(t, "a.api", []byte("struct A { x: u32 }\n"))
	doc.Decls[0].Struct.Fields[0].Span.End = uint32(len(file.Content)) + 5
	if err := testkit.CheckSpanInvariants(doc, file); err == nil {
		t.Fatal("span beyond content not detected")
	}
	if err := testkit.CheckSpanInvariants(nil, file); err == nil {
		t.Fatal("nil document accepted")
	}
}
