package sema

import (
	"apidef/internal/ast"
	"apidef/internal/diag"
	"apidef/internal/symbols"
)

func (tc *typeChecker) checkTypes() {
	ast.ForEachTypeRef(tc.doc, func(site ast.TypeSite) {
		tc.checkTypeRef(site.Type, site.Use == ast.UseReturn, nil)
	})
}

// checkTypeRef walks one type reference. voidOK is true for a bare return type;
// parent is the wrapper the current level sits in.
func (tc *typeChecker) checkTypeRef(t *ast.TypeRef, voidOK bool, parent *ast.TypeRef) {
	if t == nil {
		return
	}
	switch t.Kind {
	case ast.TypeNamed:
		tc.resolveNamed(t)
	case ast.TypePrimitive:
		if t.Prim == ast.PrimVoid && !voidOK && (parent == nil || parent.Kind != ast.TypePointer) {
			tc.report(diag.SemaVoidValue, t.Span,
				"void is only allowed behind a pointer or as a return type")
		}
	case ast.TypePointer, ast.TypeArray, ast.TypeOptional:
		tc.checkTypeRef(t.Elem, false, t)
	}
}

func (tc *typeChecker) resolveNamed(t *ast.TypeRef) {
	id, ok := tc.table.Lookup(t.Name)
	if !ok {
		tc.report(diag.SemaUnresolvedType, t.Span, "unknown type '%s'", t.Name)
		return
	}
	sym := tc.table.Get(id)
	if sym.Kind.IsType() {
		return
	}
	if sym.Kind == symbols.SymbolConst {
		diag.ReportError(tc.reporter, diag.SemaNotAType, t.Span,
			"const "+t.Name+" is not a type").
			WithNote(sym.Span, "'"+t.Name+"' declared here").
			Emit()
		return
	}
	tc.report(diag.SemaNotAType, t.Span, "'%s' is not a type", t.Name)
}
