package project

import (
	"path/filepath"
	"strings"
	"unicode"

	"apidef/internal/ast"
	"apidef/internal/source"
)

// SchemaExt is the extension of schema files.
const SchemaExt = ".api"

// ImportMeta is one "mod name" line of a file.
type ImportMeta struct {
	Name string
	Span source.Span
}

// ModuleMeta describes one schema file of a batch as a module: its name is
// the file base name without extension.
type ModuleMeta struct {
	Name        string
	File        source.FileID
	Imports     []ImportMeta
	ContentHash Digest
}

// IsValidModuleIdent reports whether name can be referenced by "mod".
func IsValidModuleIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ModuleName derives a module name from a file path: "dir/image.api" -> "image".
func ModuleName(path string) string {
	base := filepath.Base(filepath.ToSlash(path))
	return strings.TrimSuffix(base, SchemaExt)
}

// IsSchemaFile reports whether path has the schema extension.
func IsSchemaFile(path string) bool {
	return strings.HasSuffix(path, SchemaExt)
}

// MetaFor builds module metadata for a loaded file. doc may be nil when
// the file did not parse; the module then has no imports.
func MetaFor(f *source.File, doc *ast.Document) ModuleMeta {
	meta := ModuleMeta{
		Name:        ModuleName(f.Path),
		File:        f.ID,
		ContentHash: Digest(f.Hash),
	}
	if doc != nil {
		for _, m := range doc.Mods {
			meta.Imports = append(meta.Imports, ImportMeta{Name: m.Name, Span: m.Span})
		}
	}
	return meta
}
