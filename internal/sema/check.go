// Package sema validates a built Document.
//
// Check runs every pass over the whole document in a fixed order: names,
// imports, type references, attributes, method rules. No pass stops early,
// so a single run reports everything it can find. The Document itself is
// never modified.
package sema

import (
	"fmt"

	"apidef/internal/ast"
	"apidef/internal/diag"
	"apidef/internal/source"
	"apidef/internal/symbols"
)

// Options configure a semantic pass over a document.
type Options struct {
	Reporter diag.Reporter
	// Registry lists recognized attributes; nil means DefaultRegistry().
	Registry *Registry
	// Imports resolves "mod" references to other documents.
	Imports symbols.Imports
}

// Result stores what the checker produced.
type Result struct {
	Document *ast.Document
	Symbols  *symbols.Table
}

// Check validates doc and reports problems through opts.Reporter.
func Check(doc *ast.Document, opts Options) Result {
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	if opts.Registry == nil {
		opts.Registry = DefaultRegistry()
	}
	res := Result{Document: doc}
	if doc == nil {
		return res
	}
	res.Symbols = symbols.FromDocument(doc, opts.Imports)

	tc := typeChecker{
		doc:      doc,
		reporter: opts.Reporter,
		registry: opts.Registry,
		imports:  opts.Imports,
		table:    res.Symbols,
	}
	tc.run()
	return res
}

type typeChecker struct {
	doc      *ast.Document
	reporter diag.Reporter
	registry *Registry
	imports  symbols.Imports
	table    *symbols.Table
}

func (tc *typeChecker) run() {
	tc.checkNames()
	tc.checkImports()
	tc.checkTypes()
	tc.checkAttributes()
	tc.checkMethods()
}

func (tc *typeChecker) report(code diag.Code, span source.Span, format string, args ...any) {
	diag.ReportError(tc.reporter, code, span, fmt.Sprintf(format, args...)).Emit()
}

func (tc *typeChecker) warn(code diag.Code, span source.Span, format string, args ...any) {
	diag.ReportWarning(tc.reporter, code, span, fmt.Sprintf(format, args...)).Emit()
}

func (tc *typeChecker) checkImports() {
	for _, mod := range tc.doc.Mods {
		if _, ok := tc.imports[mod.Name]; ok {
			continue
		}
		tc.warn(diag.SemaModuleMissing, mod.Span, "module '%s' is not available; its types will not resolve", mod.Name)
	}
}
