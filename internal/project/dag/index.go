// Package dag links the files of one batch through their "mod" imports.
package dag

import (
	"sort"

	"apidef/internal/project"
)

type ModuleID uint32

type ModuleIndex struct {
	NameToID map[string]ModuleID
	IDToName []string
}

// BuildIndex collects module names and imported names, sorts them and
// hands out IDs in that order.
func BuildIndex(metas []project.ModuleMeta) ModuleIndex {
	uniq := make(map[string]struct{}, len(metas))
	for _, meta := range metas {
		if meta.Name != "" {
			uniq[meta.Name] = struct{}{}
		}
		for _, imp := range meta.Imports {
			if imp.Name != "" {
				uniq[imp.Name] = struct{}{}
			}
		}
	}
	names := make([]string, 0, len(uniq))
	for name := range uniq {
		names = append(names, name)
	}
	sort.Strings(names)

	idx := ModuleIndex{NameToID: make(map[string]ModuleID, len(names)), IDToName: names}
	for i, name := range names {
		idx.NameToID[name] = ModuleID(i)
	}
	return idx
}
