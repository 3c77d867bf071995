package sema

import (
	"fmt"

	"apidef/internal/ast"
	"apidef/internal/diag"
)

// attrSite is a place attributes were written on.
type attrSite struct {
	target AttrTarget
	label  string // "struct 'Image'", "field 'Image.width'"
	decl   *ast.Decl
	attrs  []ast.Attribute
}

func (tc *typeChecker) checkAttributes() {
	for _, d := range tc.doc.Decls {
		tc.checkAttrSite(attrSite{
			target: TargetOf(d.Kind),
			label:  d.Kind.String() + " '" + d.Name + "'",
			decl:   d,
			attrs:  d.Attrs,
		})
		if d.Struct == nil {
			continue
		}
		for _, f := range d.Struct.Fields {
			tc.checkAttrSite(attrSite{target: TargetField, label: "field '" + d.Name + "." + f.Name + "'", attrs: f.Attrs})
		}
		for _, m := range d.Struct.Methods {
			tc.checkAttrSite(attrSite{target: TargetMethod, label: "method '" + d.Name + "." + m.Name + "'", attrs: m.Attrs})
		}
	}
}

func (tc *typeChecker) checkAttrSite(site attrSite) {
	if len(site.attrs) == 0 {
		return
	}
	seen := make(map[string]ast.Attribute, len(site.attrs))
	var valid []AttrSpec
	for _, a := range site.attrs {
		if prev, dup := seen[a.Name]; dup {
			cut := a.Removal
			if cut.Empty() {
				cut = a.Span
			}
			diag.ReportWarning(tc.reporter, diag.SemaAttrRepeated, a.Span,
				fmt.Sprintf("attribute '%s' is repeated on %s", a.Name, site.label)).
				WithNote(prev.Span, "first written here").
				WithFix("remove the repeated attribute", diag.FixEdit{Span: cut}).
				Emit()
			continue
		}
		seen[a.Name] = a

		spec, ok := tc.registry.Lookup(a.Name)
		if !ok {
			tc.report(diag.SemaUnknownAttr, a.NameSpan, "unknown attribute '%s'", a.Name)
			continue
		}
		if !spec.Allows(site.target) {
			tc.report(diag.SemaAttrWrongTarget, a.NameSpan,
				"attribute '%s' cannot be applied to %s; allowed on: %s", a.Name, site.label, spec.Targets)
			continue
		}
		if !spec.AcceptsArgs(len(a.Args)) {
			tc.report(diag.SemaAttrArity, a.Span,
				"attribute '%s' takes %s, got %d", a.Name, spec.Arity(), len(a.Args))
			continue
		}
		valid = append(valid, spec)
	}

	d := site.decl
	if d == nil || d.Struct == nil {
		return
	}
	for _, spec := range valid {
		a := seen[spec.Name]
		if spec.HasFlag(AttrFlagNeedsMethods) && len(d.Struct.Methods) == 0 {
			tc.report(diag.SemaAttrRequirement, a.Span,
				"attribute '%s' requires %s to declare at least one method", spec.Name, site.label)
		}
		if spec.HasFlag(AttrFlagNoFields) && len(d.Struct.Fields) > 0 {
			diag.ReportWarning(tc.reporter, diag.SemaAttrOdd, a.Span,
				fmt.Sprintf("%s is marked '%s' but declares fields", site.label, spec.Name)).
				WithNote(d.Struct.Fields[0].NameSpan, "first field declared here").
				Emit()
		}
		if spec.Companion != "" {
			if _, ok := seen[spec.Companion]; !ok {
				tc.warn(diag.SemaAttrOdd, a.Span,
					"attribute '%s' on %s is expected together with '%s'", spec.Name, site.label, spec.Companion)
			}
		}
	}
}
