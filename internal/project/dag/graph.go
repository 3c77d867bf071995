package dag

import (
	"fmt"
	"slices"

	"apidef/internal/diag"
	"apidef/internal/project"
	"apidef/internal/source"
)

type Graph struct {
	Edges   [][]ModuleID // Edges[from] = []to, sorted, no duplicates
	Present []bool       // модуль есть в батче, а не только импортируется
}

// ModuleNode is one file of the batch as the driver sees it after parsing.
type ModuleNode struct {
	Meta     project.ModuleMeta
	Reporter diag.Reporter
	Broken   bool // lex or syntax error, no Document
	FirstErr *diag.Diagnostic
}

type ModuleSlot struct {
	ModuleNode
	Present bool
}

func fileStart(id source.FileID) source.Span {
	return source.Span{File: id}
}

// BuildGraph places nodes into index slots and records import edges.
//
// A second file with an already taken module name gets a Warning and is not
// importable. Self imports get a Warning and no edge. Imports of names
// missing from the batch get no edge either; the validator reports them.
func BuildGraph(idx ModuleIndex, nodes []ModuleNode) (Graph, []ModuleSlot) {
	n := len(idx.IDToName)
	g := Graph{Edges: make([][]ModuleID, n), Present: make([]bool, n)}
	slots := make([]ModuleSlot, n)

	for _, node := range nodes {
		id, ok := idx.NameToID[node.Meta.Name]
		if !ok {
			continue
		}
		slot := &slots[id]
		if slot.Present {
			if node.Reporter != nil {
				diag.ReportWarning(node.Reporter, diag.SemaDuplicateModule, fileStart(node.Meta.File),
					fmt.Sprintf("module '%s' is already defined by another file; this file cannot be imported", node.Meta.Name)).
					WithNote(fileStart(slot.Meta.File), fmt.Sprintf("module '%s' defined here", node.Meta.Name)).
					Emit()
			}
			continue
		}
		slot.ModuleNode = node
		slot.Present = true
		g.Present[id] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present {
			continue
		}
		for _, imp := range slot.Meta.Imports {
			to, ok := idx.NameToID[imp.Name]
			if !ok {
				continue
			}
			if ModuleID(from) == to {
				if slot.Reporter != nil {
					diag.ReportWarning(slot.Reporter, diag.SemaSelfImport, imp.Span,
						fmt.Sprintf("module '%s' imports itself", imp.Name)).Emit()
				}
				continue
			}
			if !g.Present[to] || slices.Contains(g.Edges[from], to) {
				continue
			}
			g.Edges[from] = append(g.Edges[from], to)
		}
		slices.Sort(g.Edges[from])
	}
	return g, slots
}

// ReportBrokenDeps warns at every import of a module that failed to parse.
func ReportBrokenDeps(idx ModuleIndex, slots []ModuleSlot) {
	for i := range slots {
		from := &slots[i]
		if !from.Present || from.Broken || from.Reporter == nil {
			continue
		}
		for _, imp := range from.Meta.Imports {
			to, ok := idx.NameToID[imp.Name]
			if !ok || int(to) == i {
				continue
			}
			dep := &slots[to]
			if !dep.Present || !dep.Broken {
				continue
			}
			b := diag.ReportWarning(from.Reporter, diag.SemaModuleBroken, imp.Span,
				fmt.Sprintf("module '%s' has errors; its types will not resolve", imp.Name))
			if dep.FirstErr != nil {
				b = b.WithNote(dep.FirstErr.Primary, "first error in dependency: "+dep.FirstErr.Message)
			}
			b.Emit()
		}
	}
}

// Imports lists, for module from, the names of present dependencies.
func (g Graph) Imports(idx ModuleIndex, from ModuleID) []string {
	out := make([]string, 0, len(g.Edges[from]))
	for _, to := range g.Edges[from] {
		out = append(out, idx.IDToName[to])
	}
	return out
}
