package sema

import (
	"sort"

	"apidef/internal/ast"
	"apidef/internal/diag"
	"apidef/internal/source"
	"apidef/internal/symbols"
)

type namedSpan struct {
	name string
	span source.Span
}

func (tc *typeChecker) checkNames() {
	for _, re := range tc.table.Redeclarations() {
		first, again := tc.table.Get(re.First), tc.table.Get(re.Again)
		if first.Flags&symbols.SymbolFlagBuiltin != 0 {
			tc.report(diag.SemaDuplicateName, again.Span,
				"'%s' is a builtin type and cannot be redeclared", again.Name)
			continue
		}
		diag.ReportError(tc.reporter, diag.SemaDuplicateName, again.Span,
			"duplicate declaration of '"+again.Name+"'").
			WithNote(first.Span, "'"+first.Name+"' first declared here").
			Emit()
	}

	for _, d := range tc.doc.Decls {
		switch {
		case d.Struct != nil:
			members := make([]namedSpan, 0, len(d.Struct.Fields)+len(d.Struct.Methods))
			for _, f := range d.Struct.Fields {
				members = append(members, namedSpan{f.Name, f.NameSpan})
			}
			for _, m := range d.Struct.Methods {
				members = append(members, namedSpan{m.Name, m.NameSpan})
			}
			// fields and methods share one namespace; order by position
			sort.SliceStable(members, func(i, j int) bool {
				return members[i].span.Start < members[j].span.Start
			})
			tc.duplicates(diag.SemaDuplicateName, "member", d.Kind.String()+" '"+d.Name+"'", members)
			for _, m := range d.Struct.Methods {
				tc.duplicateParams("method '"+d.Name+"."+m.Name+"'", m.Params)
			}
		case d.Enum != nil:
			entries := make([]namedSpan, 0, len(d.Enum.Entries))
			for _, e := range d.Enum.Entries {
				entries = append(entries, namedSpan{e.Name, e.NameSpan})
			}
			tc.duplicates(diag.SemaDuplicateName, "entry", "enum '"+d.Name+"'", entries)
		case d.Callback != nil:
			tc.duplicateParams("callback '"+d.Name+"'", d.Callback.Params)
		}
	}
}

func (tc *typeChecker) duplicateParams(owner string, params []*ast.Param) {
	if len(params) < 2 {
		return
	}
	list := make([]namedSpan, 0, len(params))
	for _, p := range params {
		list = append(list, namedSpan{p.Name, p.NameSpan})
	}
	tc.duplicates(diag.SemaDuplicateParam, "parameter", owner, list)
}

// duplicates reports every repeated name once, at the repeat, with a note at the first use.
func (tc *typeChecker) duplicates(code diag.Code, what, owner string, list []namedSpan) {
	first := make(map[string]source.Span, len(list))
	for _, it := range list {
		key := symbols.Key(it.name)
		prev, seen := first[key]
		if !seen {
			first[key] = it.span
			continue
		}
		diag.ReportError(tc.reporter, code, it.span,
			"duplicate "+what+" '"+it.name+"' in "+owner).
			WithNote(prev, "'"+it.name+"' first declared here").
			Emit()
	}
}
