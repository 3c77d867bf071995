package sema

import (
	"fmt"

	"apidef/internal/ast"
	"apidef/internal/diag"
	"apidef/internal/source"
)

// receiverName is the implicit receiver of instance methods.
const receiverName = "self"

func (tc *typeChecker) checkMethods() {
	for _, d := range tc.doc.Decls {
		switch {
		case d.Struct != nil:
			for _, m := range d.Struct.Methods {
				if d.Kind == ast.DeclUnion {
					diag.ReportError(tc.reporter, diag.SemaUnionMethod, m.NameSpan,
						fmt.Sprintf("union '%s' cannot declare method '%s'", d.Name, m.Name)).
						WithNote(d.NameSpan, "union declared here").
						Emit()
				}
				tc.checkReceiver(d, m)
				tc.checkVoidReturn(m.Return, m.ReturnSpan, m.ReturnCut)
			}
		case d.Callback != nil:
			tc.checkVoidReturn(d.Callback.Return, d.Callback.ReturnSpan, d.Callback.ReturnCut)
		}
	}
}

func (tc *typeChecker) checkReceiver(d *ast.Decl, m *ast.Method) {
	for _, p := range m.Params {
		if p.Name != receiverName {
			continue
		}
		if m.IsStatic {
			qual := "static"
			if m.IsManual {
				qual = "manual"
			}
			tc.report(diag.SemaStaticReceiver, p.NameSpan,
				"%s method '%s.%s' must not declare a receiver", qual, d.Name, m.Name)
		} else {
			tc.report(diag.SemaReceiverRedecl, p.NameSpan,
				"method '%s.%s' redeclares the implicit receiver '%s'", d.Name, m.Name, receiverName)
		}
		return
	}
}

func (tc *typeChecker) checkVoidReturn(ret *ast.TypeRef, span, cut source.Span) {
	if !ret.IsVoid() {
		return
	}
	diag.ReportWarning(tc.reporter, diag.SemaRedundantVoidRet, span,
		"explicit '-> void' return type is redundant").
		WithFix("remove '-> void'", diag.FixEdit{Span: cut}).
		Emit()
}
