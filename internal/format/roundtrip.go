package format

import (
	"errors"
	"fmt"
	"reflect"

	"apidef/internal/ast"
	"apidef/internal/astbuild"
	"apidef/internal/diag"
	"apidef/internal/lexer"
	"apidef/internal/parser"
	"apidef/internal/source"
)

// ErrNotParsed is returned when the input has lexical or syntax errors.
var ErrNotParsed = errors.New("format: source does not parse")

// File parses sf and returns its canonical text. Diagnostics from the parse
// go to bag; on lexical or syntax errors the result is nil and ErrNotParsed.
func File(sf *source.File, opt Options, bag *diag.Bag) ([]byte, error) {
	if sf == nil {
		return nil, errors.New("format: nil source file")
	}
	doc := parseOnce(sf, bag)
	if doc == nil {
		return nil, ErrNotParsed
	}
	return Document(doc, opt), nil
}

// CheckRoundTrip formats the file and re-parses the result, ensuring the
// rebuilt Document equals the original once spans are cleared.
func CheckRoundTrip(sf *source.File, opt Options, maxDiag int) (ok bool, msg string) {
	origBag := diag.NewBag(maxDiag)
	orig := parseOnce(sf, origBag)
	if orig == nil {
		return false, "fmt-check: initial parse failed"
	}

	formatted := Document(orig, opt)

	fs2 := source.NewFileSetWithBase("")
	fid := fs2.AddVirtual(sf.Path, formatted)
	rebuilt := parseOnce(fs2.Get(fid), diag.NewBag(maxDiag))
	if rebuilt == nil {
		return false, "fmt-check: reparse failed"
	}

	ast.ZeroSpans(orig)
	ast.ZeroSpans(rebuilt)
	if opt.DropComments {
		orig.Comments, rebuilt.Comments = nil, nil
	}
	if !reflect.DeepEqual(orig, rebuilt) {
		return false, fmt.Sprintf("fmt-check: document differs after round-trip (%d vs %d declarations)",
			len(orig.Decls), len(rebuilt.Decls))
	}
	return true, "fmt-check: OK"
}

func parseOnce(sf *source.File, bag *diag.Bag) *ast.Document {
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(sf, lexer.Options{Reporter: rep})
	lx.Tokens()
	if lx.Errors() > 0 {
		return nil
	}
	lx.Reset()
	res := parser.Parse(lx, parser.Options{Reporter: rep})
	if res.Err != nil || res.File == nil {
		return nil
	}
	return astbuild.Build(res.File, astbuild.Options{Reporter: rep})
}
