package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"apidef/internal/diag"
	"apidef/internal/driver"
	"apidef/internal/project"
	"apidef/internal/source"
)

const cachedSrc = "/// A\nstruct A {\n    w: u32,\n    w: u32,\n}\n"

func TestCacheRoundTrip(t *testing.T) {
	cache, err := driver.OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := driver.Options{Cache: cache}

	_, first := compileSource(t, cachedSrc, opts)
	if first.Cached {
		t.Fatal("first run cannot be a cache hit")
	}

	// Another file set puts the same content under a different FileID.
	fs := source.NewFileSetWithBase("")
	fs.AddVirtual("pad.api", nil)
	id := fs.AddVirtual("t.api", []byte(cachedSrc))
	second, err := driver.Compile(context.Background(), fs, id, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Fatal("second run must come from the cache")
	}
	fresh, err := driver.Compile(context.Background(), fs, id, driver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if mustJSON(t, second.Document) != mustJSON(t, fresh.Document) {
		t.Fatalf("cached document differs:\n%s\n%s", mustJSON(t, second.Document), mustJSON(t, fresh.Document))
	}
	if mustJSON(t, second.Bag.Items()) != mustJSON(t, fresh.Bag.Items()) {
		t.Fatalf("cached diagnostics differ:\n%s", diag.FormatShort(second.Bag.Items(), fs, true))
	}
	if second.Bag.Items()[0].Primary.File != id || second.Symbols == nil {
		t.Fatalf("cached result not rebased: %+v", second.Bag.Items()[0].Primary)
	}
}

func TestCacheKeyCoversSalt(t *testing.T) {
	cache, err := driver.OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	compileSource(t, cachedSrc, driver.Options{Cache: cache})
	_, res := compileSource(t, cachedSrc, driver.Options{Cache: cache, CacheSalt: project.HashStrings("other")})
	if res.Cached {
		t.Fatal("a different salt must miss")
	}
}

func TestCacheBatch(t *testing.T) {
	cache, err := driver.OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	paths := []string{testdata("widgets.api"), testdata("image.api")}
	opts := driver.Options{Cache: cache}
	if _, err := driver.CompileFiles(context.Background(), paths, opts); err != nil {
		t.Fatal(err)
	}
	batch, err := driver.CompileFiles(context.Background(), paths, opts)
	if err != nil {
		t.Fatal(err)
	}
	for _, res := range batch.Results {
		if !res.Cached || res.HasErrors() || res.Symbols == nil {
			t.Fatalf("%s: cached=%v errors=%v", res.Path, res.Cached, res.HasErrors())
		}
	}
	// Without image.api the batch digest changes.
	alone, err := driver.CompileFiles(context.Background(), paths[:1], opts)
	if err != nil {
		t.Fatal(err)
	}
	if alone.Results[0].Cached {
		t.Fatal("a different batch must miss")
	}
}

func TestCacheCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	cache, err := driver.OpenDiskCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	compileSource(t, cachedSrc, driver.Options{Cache: cache})
	err = filepath.WalkDir(filepath.Join(dir, "results"), func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			return os.WriteFile(path, []byte{0xc1}, 0o644)
		}
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	_, res := compileSource(t, cachedSrc, driver.Options{Cache: cache})
	if res.Cached || res.Document == nil {
		t.Fatal("a corrupt entry must be ignored")
	}
	var warned bool
	for _, d := range res.Bag.Items() {
		if d.Code == diag.IOCacheError && d.Severity == diag.SevWarning {
			warned = true
		}
	}
	if !warned {
		t.Fatal("corrupt entry must produce a cache warning")
	}
	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "results")); !os.IsNotExist(err) {
		t.Fatalf("DropAll left results behind: %v", err)
	}
}
