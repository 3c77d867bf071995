package fix_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"apidef/internal/diag"
	"apidef/internal/driver"
	"apidef/internal/fix"
	"apidef/internal/source"
)

const fixable = "struct S {\n    f() -> void\n}\n/// at the end\n"

func diagnose(t *testing.T, fs *source.FileSet, id source.FileID) []diag.Diagnostic {
	t.Helper()
	res, err := driver.Compile(context.Background(), fs, id, driver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return res.Bag.Items()
}

func TestApplyModes(t *testing.T) {
	tests := []struct {
		name    string
		opts    fix.ApplyOptions
		applied int
		want    string
	}{
		{"all", fix.ApplyOptions{Mode: fix.ApplyModeAll}, 2, "struct S {\n    f()\n}\n// at the end\n"},
		{"once", fix.ApplyOptions{Mode: fix.ApplyModeOnce}, 1, "struct S {\n    f()\n}\n/// at the end\n"},
		{"code", fix.ApplyOptions{Mode: fix.ApplyModeCode, TargetCode: "SYN2302"}, 1, "struct S {\n    f() -> void\n}\n// at the end\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSet()
			id := fs.AddVirtual("s.api", []byte(fixable))
			res, err := fix.Apply(fs, diagnose(t, fs, id), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if len(res.Applied) != tt.applied || len(res.FileChanges) != 1 {
				t.Fatalf("applied = %+v", res.Applied)
			}
			if got := string(res.FileChanges[0].Content); got != tt.want {
				t.Fatalf("content = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFixedOutputCompiles(t *testing.T) {
	const body = "struct H {\n    close()\n}\n"
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"middle entry", "#[Handle, Handle, Drop]\n" + body, "#[Handle, Drop]\n" + body},
		{"last entry", "#[Handle, Drop, Handle]\n" + body, "#[Handle, Drop]\n" + body},
		{"whole list", "#[Handle]\n#[Handle]\n" + body, "#[Handle]\n" + body},
		{"inline list", "#[Handle] #[Handle] struct H { close() }\n", "#[Handle] struct H { close() }\n"},
		{"shorthand argument", "#[attributes(Handle, Handle, Drop)]\n" + body, "#[attributes(Handle, Drop)]\n" + body},
		{"shorthand only argument", "#[Handle, attributes(Handle)]\n" + body, "#[Handle]\n" + body},
		{"member list", "struct S {\n    #[deprecated]\n    #[deprecated]\n    f()\n}\n", "struct S {\n    #[deprecated]\n    f()\n}\n"},
		{"void return", "struct S { f() -> void }\n", "struct S { f() }\n"},
		{"void callback", "callback F(x: u32) -> void\n", "callback F(x: u32)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSet()
			id := fs.AddVirtual("s.api", []byte(tt.src))
			res, err := fix.Apply(fs, diagnose(t, fs, id), fix.ApplyOptions{Mode: fix.ApplyModeAll})
			if err != nil {
				t.Fatal(err)
			}
			got := string(res.FileChanges[0].Content)
			if got != tt.want {
				t.Fatalf("content = %q, want %q", got, tt.want)
			}

			fixed := source.NewFileSet()
			again, err := driver.Compile(context.Background(), fixed, fixed.AddVirtual("s.api", []byte(got)), driver.Options{})
			if err != nil {
				t.Fatal(err)
			}
			if again.Halted != driver.StageNone {
				t.Fatalf("halted at %v: %v", again.Halted, again.Bag.Items())
			}
			for _, d := range again.Bag.Items() {
				if id := d.Code.ID(); strings.HasPrefix(id, "SYN") || d.Code == diag.SemaAttrRepeated || d.Code == diag.SemaRedundantVoidRet {
					t.Errorf("after fix: %s %s", id, d.Message)
				}
			}
		})
	}
}

func TestApplyNoFixes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("s.api", []byte(fixable))
	res, err := fix.Apply(fs, diagnose(t, fs, id), fix.ApplyOptions{Mode: fix.ApplyModeCode, TargetCode: "SEM3001"})
	if !errors.Is(err, fix.ErrNoFixes) || len(res.Skipped) != 1 {
		t.Fatalf("err = %v, skipped = %+v", err, res.Skipped)
	}
	if _, err := fix.Apply(nil, nil, fix.ApplyOptions{}); err == nil {
		t.Fatal("nil FileSet accepted")
	}
}

func TestApplySkipsConflicts(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("s.api", []byte("abcdef"))
	span := func(start, end uint32) source.Span { return source.Span{File: id, Start: start, End: end} }
	diags := []diag.Diagnostic{
		diag.NewWarning(diag.SemaRedundantVoidRet, span(0, 1), "a").
			WithFix("replace", diag.FixEdit{Span: span(1, 3), NewText: "X"}),
		diag.NewWarning(diag.SemaRedundantVoidRet, span(2, 3), "b").
			WithFix("overlap", diag.FixEdit{Span: span(2, 4)}),
		diag.NewWarning(diag.SemaRedundantVoidRet, span(4, 5), "c").
			WithFix("insert", diag.FixEdit{Span: span(5, 5), NewText: "+"}).
			WithFix("empty"),
		diag.NewWarning(diag.SemaRedundantVoidRet, span(5, 5), "d").
			WithFix("beyond", diag.FixEdit{Span: span(5, 9)}),
	}
	res, err := fix.Apply(fs, diags, fix.ApplyOptions{Mode: fix.ApplyModeAll})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Applied) != 2 || len(res.Skipped) != 3 {
		t.Fatalf("applied = %+v\nskipped = %+v", res.Applied, res.Skipped)
	}
	if got := string(res.FileChanges[0].Content); got != "aXde+f" {
		t.Fatalf("content = %q", got)
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.api")
	if err := os.WriteFile(path, []byte(fixable), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	res, err := fix.Apply(fs, diagnose(t, fs, id), fix.ApplyOptions{Mode: fix.ApplyModeAll})
	if err != nil {
		t.Fatal(err)
	}
	if err := res.Write(fs); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "struct S {\n    f()\n}\n// at the end\n" {
		t.Fatalf("file = %q", data)
	}
	if info, _ := os.Stat(path); info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v", info.Mode())
	}
}
