package project_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"apidef/internal/project"
	"apidef/internal/sema"
	"apidef/internal/source"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, project.ConfigFile)
	writeFile(t, path, `
[check]
max_diagnostics = 50
warnings_as_errors = true

[cache]
enabled = true

[[attribute]]
name = "Export"
targets = ["struct", "enum"]
max_args = 1

[[attribute]]
name = "Tags"
targets = ["field"]
min_args = 1
max_args = -1
`)
	cfg, err := project.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Check.MaxDiagnostics != 50 || !cfg.Check.WarningsAsErrors || !cfg.Cache.Enabled {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Cache.Dir != project.DefaultCacheDir || cfg.Path != path {
		t.Fatalf("defaults not kept: %+v", cfg)
	}
	reg, err := cfg.Registry()
	if err != nil {
		t.Fatal(err)
	}
	export, ok := reg.Lookup("Export")
	if !ok || export.Targets != sema.TargetStruct|sema.TargetEnum || export.MinArgs != 0 || export.MaxArgs != 1 {
		t.Fatalf("Export = %+v", export)
	}
	tags, _ := reg.Lookup("Tags")
	if tags.MaxArgs != sema.Unbounded || !tags.Allows(sema.TargetField) {
		t.Fatalf("Tags = %+v", tags)
	}
	if _, ok := reg.Lookup("Handle"); !ok {
		t.Fatalf("built-in attributes must stay registered")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		is   error
	}{
		{"unknown key", "[check]\nmax_diag = 3\n", project.ErrUnknownKeys},
		{"unknown section", "[lint]\nx = 1\n", project.ErrUnknownKeys},
		{"bad target", "[[attribute]]\nname = \"X\"\ntargets = [\"module\"]\n", project.ErrBadAttribute},
		{"no name", "[[attribute]]\ntargets = [\"struct\"]\n", project.ErrBadAttribute},
		{"max below min", "[[attribute]]\nname = \"X\"\ntargets = [\"any\"]\nmin_args = 2\nmax_args = 1\n", project.ErrBadAttribute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), project.ConfigFile)
			writeFile(t, path, tt.body)
			if _, err := project.LoadConfig(path); !errors.Is(err, tt.is) {
				t.Fatalf("err = %v, want %v", err, tt.is)
			}
		})
	}

	path := filepath.Join(t.TempDir(), project.ConfigFile)
	writeFile(t, path, "[check\n")
	if _, err := project.LoadConfig(path); err == nil {
		t.Fatalf("expected TOML syntax error")
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, project.ConfigFile), "[check]\nmax_diagnostics = 7\n")
	schema := filepath.Join(root, "a", "b", "image.api")
	writeFile(t, schema, "")

	cfg, err := project.Discover(schema)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Check.MaxDiagnostics != 7 {
		t.Fatalf("cfg = %+v", cfg)
	}
	gotRoot, ok, err := project.FindProjectRoot(filepath.Dir(schema))
	if err != nil || !ok {
		t.Fatalf("FindProjectRoot: %v %v", ok, err)
	}
	wantRoot, _ := filepath.Abs(root)
	if gotRoot != wantRoot {
		t.Fatalf("root = %q, want %q", gotRoot, wantRoot)
	}
}

func TestDigestTracksAttributes(t *testing.T) {
	base := project.DefaultConfig()
	extended := project.DefaultConfig()
	extended.Attributes = []project.AttributeDecl{{Name: "Export", Targets: []string{"struct"}}}
	if base.Digest() == extended.Digest() {
		t.Fatalf("digest must change with attributes")
	}
	other := project.DefaultConfig()
	other.Check.MaxDiagnostics = 1
	if base.Digest() != other.Digest() {
		t.Fatalf("digest must ignore non-validation settings")
	}
}

func TestModuleMeta(t *testing.T) {
	if project.ModuleName("schema/image.api") != "image" || !project.IsSchemaFile("x.api") || project.IsSchemaFile("x.toml") {
		t.Fatalf("module naming")
	}
	for name, want := range map[string]bool{"image": true, "_x1": true, "1x": false, "": false, "héllo": false} {
		if got := project.IsValidModuleIdent(name); got != want {
			t.Errorf("IsValidModuleIdent(%q) = %v", name, got)
		}
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual("dir/widgets.api", []byte("mod image"))
	meta := project.MetaFor(fs.Get(id), nil)
	if meta.Name != "widgets" || meta.File != id || meta.Imports != nil || meta.ContentHash == (project.Digest{}) {
		t.Fatalf("meta = %+v", meta)
	}
}
