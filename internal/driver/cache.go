package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"apidef/internal/ast"
	"apidef/internal/diag"
	"apidef/internal/project"
	"apidef/internal/source"
)

// Current schema version - increment when CachedResult format changes
const diskCacheSchemaVersion uint16 = 1

// ErrCacheSchema is returned for entries written by another format version.
var ErrCacheSchema = errors.New("cache entry has a different schema version")

// DiskCache stores per-file results keyed by content and configuration.
// Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedResult is the on-disk form of a Result. Spans are stored with the
// FileID of the run that wrote them and rebased on load.
type CachedResult struct {
	Schema      uint16
	Path        string
	File        source.FileID
	Document    *ast.Document
	Diagnostics []diag.Diagnostic
	Halted      Stage
}

// OpenDiskCache creates dir if needed. An empty dir means
// $XDG_CACHE_HOME/apidef (or ~/.cache/apidef).
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("locate cache dir: %w", err)
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "apidef")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "results", hexKey[:2], hexKey+".mp")
}

// cacheKey = H(content || salt || schema || deps...).
func cacheKey(f *source.File, salt project.Digest, deps []project.Digest) project.Digest {
	schema := project.HashStrings("apidef-cache", strconv.Itoa(int(diskCacheSchemaVersion)))
	all := append([]project.Digest{salt, schema}, deps...)
	return project.Combine(project.Digest(f.Hash), all...)
}

// Put serializes and writes a payload.
func (c *DiskCache) Put(key project.Digest, payload *CachedResult) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	enc := msgpack.NewEncoder(f)
	enc.SetCustomStructTag("json")
	if err = enc.Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a payload. A missing entry is (false, nil).
func (c *DiskCache) Get(key project.Digest, out *CachedResult) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	dec := msgpack.NewDecoder(f)
	dec.SetCustomStructTag("json")
	if err := dec.Decode(out); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, ErrCacheSchema
	}
	return true, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "results"))
}

func cacheWarning(bag *diag.Bag, f *source.File, err error) {
	bag.Add(diag.NewWarning(diag.IOCacheError, source.Span{File: f.ID},
		fmt.Sprintf("result cache: %v", err)))
}

// lookup returns a Result rebuilt from the cache for file f.
// A broken entry is ignored; the run goes on without the cache.
func (c *DiskCache) lookup(key project.Digest, f *source.File, maxDiag int) (*Result, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	var payload CachedResult
	ok, err := c.Get(key, &payload)
	if err != nil || !ok {
		return nil, false, err
	}
	rebase := func(sp *source.Span) {
		if sp.File == payload.File {
			sp.File = f.ID
		}
	}
	if payload.Document != nil {
		payload.Document.File = f.ID
		ast.VisitSpans(payload.Document, rebase)
	}
	bag := diag.NewBag(maxDiag)
	for _, d := range payload.Diagnostics {
		visitDiagSpans(&d, rebase)
		bag.Add(d)
	}
	return &Result{
		Path:     f.Path,
		File:     f.ID,
		Document: payload.Document,
		Bag:      bag,
		Halted:   payload.Halted,
		Cached:   true,
	}, true, nil
}

// store writes res unless a diagnostic points into another file: such
// entries depend on more than the key covers.
func (c *DiskCache) store(key project.Digest, res *Result) error {
	if c == nil || res == nil {
		return nil
	}
	items := res.Bag.Items()
	for i := range items {
		foreign := false
		visitDiagSpans(&items[i], func(sp *source.Span) {
			if sp.File != res.File {
				foreign = true
			}
		})
		if foreign {
			return nil
		}
	}
	return c.Put(key, &CachedResult{
		Path:        res.Path,
		File:        res.File,
		Document:    res.Document,
		Diagnostics: items,
		Halted:      res.Halted,
	})
}

func visitDiagSpans(d *diag.Diagnostic, fn func(*source.Span)) {
	fn(&d.Primary)
	for i := range d.Notes {
		fn(&d.Notes[i].Span)
	}
	for i := range d.Fixes {
		for j := range d.Fixes[i].Edits {
			fn(&d.Fixes[i].Edits[j].Span)
		}
	}
}
