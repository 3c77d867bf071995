package dag_test

import (
	"slices"
	"testing"

	"apidef/internal/diag"
	"apidef/internal/project"
	"apidef/internal/project/dag"
	"apidef/internal/source"
)

func TestBuildIndexIncludesImports(t *testing.T) {
	metas := []project.ModuleMeta{
		{Name: "widgets", Imports: []project.ImportMeta{{Name: "image"}, {Name: "common"}}},
		{Name: "image"},
	}
	idx := dag.BuildIndex(metas)
	want := []string{"common", "image", "widgets"}
	if !slices.Equal(idx.IDToName, want) {
		t.Fatalf("IDToName = %v, want %v", idx.IDToName, want)
	}
	for i, name := range want {
		if idx.NameToID[name] != dag.ModuleID(i) {
			t.Fatalf("NameToID[%q] = %d", name, idx.NameToID[name])
		}
	}
}

func TestBuildGraph(t *testing.T) {
	bagW, bagI, bagDup := diag.NewBag(8), diag.NewBag(8), diag.NewBag(8)
	selfSpan := source.Span{File: 1, Start: 0, End: 9}
	nodes := []dag.ModuleNode{
		{
			Meta: project.ModuleMeta{Name: "widgets", File: 0, Imports: []project.ImportMeta{
				{Name: "image"}, {Name: "image"}, {Name: "missing"},
			}},
			Reporter: diag.BagReporter{Bag: bagW},
		},
		{
			Meta:     project.ModuleMeta{Name: "image", File: 1, Imports: []project.ImportMeta{{Name: "image", Span: selfSpan}}},
			Reporter: diag.BagReporter{Bag: bagI},
		},
		{
			Meta:     project.ModuleMeta{Name: "image", File: 2},
			Reporter: diag.BagReporter{Bag: bagDup},
		},
	}
	metas := make([]project.ModuleMeta, len(nodes))
	for i, n := range nodes {
		metas[i] = n.Meta
	}
	idx := dag.BuildIndex(metas)
	g, slots := dag.BuildGraph(idx, nodes)

	w := idx.NameToID["widgets"]
	if got := g.Imports(idx, w); !slices.Equal(got, []string{"image"}) {
		t.Fatalf("widgets imports = %v", got)
	}
	if g.Present[idx.NameToID["missing"]] {
		t.Fatalf("missing module must not be present")
	}
	if slots[idx.NameToID["image"]].Meta.File != 1 {
		t.Fatalf("first file must own the module name")
	}
	if bagW.Len() != 0 {
		t.Fatalf("unknown imports are left to the validator, got %v", bagW.Items())
	}
	if bagI.Len() != 1 || bagI.Items()[0].Code != diag.SemaSelfImport || bagI.Items()[0].Primary != selfSpan {
		t.Fatalf("self import: %+v", bagI.Items())
	}
	if bagDup.Len() != 1 || bagDup.Items()[0].Code != diag.SemaDuplicateModule || len(bagDup.Items()[0].Notes) != 1 {
		t.Fatalf("duplicate: %+v", bagDup.Items())
	}
}

func TestReportBrokenDeps(t *testing.T) {
	bag := diag.NewBag(8)
	impSpan := source.Span{File: 0, Start: 0, End: 9}
	first := diag.NewError(diag.SynUnexpectedToken, source.Span{File: 1, Start: 7, End: 8}, "expected name")
	nodes := []dag.ModuleNode{
		{
			Meta:     project.ModuleMeta{Name: "widgets", File: 0, Imports: []project.ImportMeta{{Name: "image", Span: impSpan}}},
			Reporter: diag.BagReporter{Bag: bag},
		},
		{Meta: project.ModuleMeta{Name: "image", File: 1}, Broken: true, FirstErr: &first},
	}
	idx := dag.BuildIndex([]project.ModuleMeta{nodes[0].Meta, nodes[1].Meta})
	_, slots := dag.BuildGraph(idx, nodes)
	dag.ReportBrokenDeps(idx, slots)

	if bag.Len() != 1 {
		t.Fatalf("got %d diagnostics", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.SemaModuleBroken || d.Severity != diag.SevWarning || d.Primary != impSpan {
		t.Fatalf("diag = %+v", d)
	}
	if len(d.Notes) != 1 || d.Notes[0].Msg != "first error in dependency: expected name" {
		t.Fatalf("notes = %+v", d.Notes)
	}
}
