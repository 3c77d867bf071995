package fuzztests

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"apidef/internal/astbuild"
	"apidef/internal/diag"
	"apidef/internal/format"
	"apidef/internal/lexer"
	"apidef/internal/parser"
	"apidef/internal/sema"
	"apidef/internal/source"
	"apidef/internal/testkit"
)

// parseTimeout is the maximum time allowed for one input; longer means a
// likely loop in error recovery.
const parseTimeout = 5 * time.Second

// frontEnd runs the pipeline the way the driver does and checks document
// invariants when parsing succeeds.
func frontEnd(input []byte) error {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("fuzz.api", input))
	bag := diag.NewBag(128)
	rep := diag.BagReporter{Bag: bag}

	lx := lexer.New(file, lexer.Options{Reporter: rep})
	lx.Tokens()
	if lx.Errors() > 0 {
		return nil
	}
	lx.Reset()
	res := parser.Parse(lx, parser.Options{Reporter: rep})
	if res.Err != nil {
		if !bag.HasErrors() {
			return errors.New("syntax error without diagnostic")
		}
		return nil
	}
	if res.File == nil {
		return errors.New("parse succeeded without a tree")
	}
	doc := astbuild.Build(res.File, astbuild.Options{Reporter: rep})
	if err := testkit.CheckSpanInvariants(doc, file); err != nil {
		return fmt.Errorf("span invariants: %w", err)
	}
	check := sema.Check(doc, sema.Options{Reporter: rep})
	if check.Document != doc || check.Symbols == nil {
		return errors.New("validator must return the document and a symbol table")
	}
	return nil
}

func FuzzParserBuildsDocument(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		if err := frontEnd(clampInput(input)); err != nil {
			t.Fatal(err)
		}
	})
}

// FuzzParserNoHang runs the front end under a deadline.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("struct A { struct B { struct C {"))
	f.Add([]byte("#[#[#[#["))
	f.Add([]byte("callback F(((((("))
	f.Add([]byte("enum E { , , , }"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		done := make(chan error, 1)
		go func() {
			done <- frontEnd(input)
		}()
		select {
		case err := <-done:
			if err != nil {
				t.Fatal(err)
			}
		case <-time.After(parseTimeout):
			t.Fatalf("front end timed out after %v on %d bytes", parseTimeout, len(input))
		}
	})
}

// FuzzFormatRoundTrip checks that every input that parses formats to text
// that parses back to the same document.
func FuzzFormatRoundTrip(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.api", clampInput(input)))
		out, err := format.File(file, format.Options{}, diag.NewBag(64))
		if err != nil {
			return
		}
		if ok, msg := format.CheckRoundTrip(file, format.Options{}, 64); !ok {
			t.Fatalf("%s\nformatted:\n%s", msg, out)
		}
	})
}
