package driver_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"apidef/internal/diag"
	"apidef/internal/driver"
	"apidef/internal/observ"
	"apidef/internal/source"
)

func testdata(name string) string {
	return filepath.Join("..", "..", "testdata", name)
}

func compileSource(t *testing.T, src string, opts driver.Options) (*source.FileSet, *driver.Result) {
	t.Helper()
	fs := source.NewFileSetWithBase("")
	id := fs.AddVirtual("t.api", []byte(src))
	res, err := driver.Compile(context.Background(), fs, id, opts)
	if err != nil {
		t.Fatal(err)
	}
	return fs, res
}

func codes(bag *diag.Bag) []string {
	var out []string
	for _, d := range bag.Items() {
		out = append(out, d.Code.ID())
	}
	return out
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestCompileImage(t *testing.T) {
	fs := source.NewFileSet()
	id, err := fs.Load(testdata("image.api"))
	if err != nil {
		t.Fatal(err)
	}
	res, err := driver.Compile(context.Background(), fs, id, driver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.HasErrors() || res.Bag.Len() != 0 {
		t.Fatalf("diagnostics:\n%s", diag.FormatShort(res.Bag.Items(), fs, true))
	}
	if res.Document == nil || res.Halted != driver.StageNone || res.Cached {
		t.Fatalf("result = %+v", res)
	}
	if _, ok := res.Symbols.Lookup("Image"); !ok {
		t.Fatalf("symbol table misses Image")
	}
}

func TestCompileHalts(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		stage driver.Stage
		code  diag.Code
	}{
		{"lex", "const A = \"open\nstruct B {}\n", driver.StageLex, diag.LexUnterminatedString},
		{"syntax", "struct {\n", driver.StageParse, diag.SynUnexpectedToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, res := compileSource(t, tt.src, driver.Options{})
			if res.Halted != tt.stage || res.Document != nil || res.Symbols != nil {
				t.Fatalf("halted = %s, doc = %v", res.Halted, res.Document)
			}
			if !res.HasErrors() || !hasCode(res.Bag, tt.code) {
				t.Fatalf("codes = %v, want %s", codes(res.Bag), tt.code.ID())
			}
		})
	}
}

func TestCompileSemanticErrorsKeepDocument(t *testing.T) {
	_, res := compileSource(t, "struct A {\n    w: u32,\n    w: u32,\n}\n", driver.Options{})
	if res.Halted != driver.StageNone || res.Document == nil {
		t.Fatalf("validation errors must not halt: %+v", res)
	}
	if got := codes(res.Bag); len(got) != 1 || got[0] != "SEM3001" {
		t.Fatalf("codes = %v", got)
	}
}

func TestCompileTimerAndProgress(t *testing.T) {
	timer := observ.NewTimer()
	var events []driver.ProgressEvent
	opts := driver.Options{
		Timer:    timer,
		Progress: func(ev driver.ProgressEvent) { events = append(events, ev) },
	}
	compileSource(t, "struct A { x: u32 }\n", opts)

	var names []string
	for _, p := range timer.Report().Phases {
		names = append(names, p.Name)
	}
	if got := strings.Join(names, ","); got != "lex,parse,build,validate" {
		t.Fatalf("phases = %s", got)
	}
	if len(events) != 5 {
		t.Fatalf("events = %+v", events)
	}
	if events[0].Stage != driver.StageLex || !events[4].Done || events[4].Total != 1 {
		t.Fatalf("events = %+v", events)
	}
}

func TestCompileUnknownFile(t *testing.T) {
	if _, err := driver.Compile(context.Background(), source.NewFileSet(), 3, driver.Options{}); err == nil {
		t.Fatal("want error for unknown file id")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fs := source.NewFileSet()
	id := fs.AddVirtual("x.api", nil)
	if _, err := driver.Compile(ctx, fs, id, driver.Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestCompileFilesLinksModules(t *testing.T) {
	paths := []string{testdata("widgets.api"), testdata("image.api")}
	var mu sync.Mutex
	done := 0
	opts := driver.Options{Jobs: 2, Progress: func(ev driver.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		if ev.Total != 2 {
			t.Errorf("total = %d", ev.Total)
		}
		if ev.Done {
			done++
		}
	}}
	batch, err := driver.CompileFiles(context.Background(), paths, opts)
	if err != nil {
		t.Fatal(err)
	}
	if done != 2 {
		t.Fatalf("done events = %d", done)
	}
	for i, res := range batch.Results {
		if res.Path != batch.FileSet.Get(res.File).Path || !strings.HasSuffix(paths[i], filepath.Base(res.Path)) {
			t.Fatalf("result %d is %s", i, res.Path)
		}
		if res.Bag.Len() != 0 {
			t.Fatalf("%s:\n%s", res.Path, diag.FormatShort(res.Bag.Items(), batch.FileSet, true))
		}
	}
	if batch.HasErrors() {
		t.Fatal("batch has errors")
	}

	alone, err := driver.CompileFiles(context.Background(), paths[:1], driver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !hasCode(alone.Results[0].Bag, diag.SemaModuleMissing) {
		t.Fatalf("codes = %v", codes(alone.Results[0].Bag))
	}
}

func TestCompileDirBrokenDependency(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"app.api":     "mod shapes\nstruct App { x: u32 }\n",
		"shapes.api":  "struct {\n",
		"notes.txt":   "not a schema",
		"sub/one.api": "struct One {}\n",
		"two/one.api": "struct Two {}\n",
	})
	batch, err := driver.CompileDir(context.Background(), dir, driver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(batch.Results) != 4 {
		t.Fatalf("results = %d", len(batch.Results))
	}
	app := batch.Results[0]
	if !strings.HasSuffix(app.Path, "app.api") {
		t.Fatalf("results not sorted: %s", app.Path)
	}
	if app.HasErrors() || !hasCode(app.Bag, diag.SemaModuleBroken) || hasCode(app.Bag, diag.SemaModuleMissing) {
		t.Fatalf("app codes = %v", codes(app.Bag))
	}
	w := app.Bag.Items()[0]
	if len(w.Notes) != 1 || !strings.HasPrefix(w.Notes[0].Msg, "first error in dependency: ") {
		t.Fatalf("broken dependency note = %+v", w.Notes)
	}
	if shapes := batch.Results[1]; shapes.Halted != driver.StageParse {
		t.Fatalf("shapes halted = %s", shapes.Halted)
	}
	if !hasCode(batch.Results[3].Bag, diag.SemaDuplicateModule) || hasCode(batch.Results[2].Bag, diag.SemaDuplicateModule) {
		t.Fatalf("duplicate module warning must go to the later file: %v / %v",
			codes(batch.Results[2].Bag), codes(batch.Results[3].Bag))
	}
	if !batch.HasErrors() || batch.Count(diag.SevWarning) != 2 {
		t.Fatalf("errors=%v warnings=%d", batch.HasErrors(), batch.Count(diag.SevWarning))
	}
}

func TestCompileFilesLoadError(t *testing.T) {
	batch, err := driver.CompileFiles(context.Background(), []string{testdata("image.api"), testdata("missing.api")}, driver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if batch.Results[0].HasErrors() {
		t.Fatal("image.api must check cleanly")
	}
	if r := batch.Results[1]; r.LoadErr == nil || !r.HasErrors() {
		t.Fatalf("missing file result = %+v", r)
	}
}

func TestCompileDirNoInput(t *testing.T) {
	dir := writeFiles(t, map[string]string{"readme.md": "#"})
	if _, err := driver.CompileDir(context.Background(), dir, driver.Options{}); !errors.Is(err, driver.ErrNoInput) {
		t.Fatalf("err = %v", err)
	}
}

func TestTokenize(t *testing.T) {
	res, err := driver.Tokenize(testdata("image.api"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Bag.Len() != 0 || len(res.Tokens) == 0 || res.Tokens[len(res.Tokens)-1].Kind.String() != "EOF" {
		t.Fatalf("tokens = %d, diags = %d", len(res.Tokens), res.Bag.Len())
	}
	if _, err := driver.Tokenize(testdata("missing.api"), 0); err == nil {
		t.Fatal("want load error")
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
