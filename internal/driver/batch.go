package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"apidef/internal/diag"
	"apidef/internal/project"
	"apidef/internal/project/dag"
	"apidef/internal/source"
	"apidef/internal/symbols"
	"apidef/internal/trace"
)

// Batch is the outcome of CompileFiles. Results follow input order.
type Batch struct {
	FileSet *source.FileSet
	Results []*Result
}

// HasErrors reports whether any file of the batch has errors.
func (b *Batch) HasErrors() bool {
	for _, r := range b.Results {
		if r.HasErrors() {
			return true
		}
	}
	return false
}

// Count sums diagnostics of the given severity over the batch.
func (b *Batch) Count(sev diag.Severity) int {
	n := 0
	for _, r := range b.Results {
		if r.Bag != nil {
			n += r.Bag.Count(sev)
		}
	}
	return n
}

// ListSchemaFiles returns every *.api file under dir, sorted.
func ListSchemaFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && project.IsSchemaFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// CompileDir checks every schema file under dir as one batch.
func CompileDir(ctx context.Context, dir string, opts Options) (*Batch, error) {
	files, err := ListSchemaFiles(dir)
	if err != nil {
		return nil, err
	}
	return compileBatch(ctx, source.NewFileSetWithBase(dir), files, opts)
}

// CompileFiles checks paths as one batch; "mod" imports resolve between them.
func CompileFiles(ctx context.Context, paths []string, opts Options) (*Batch, error) {
	return compileBatch(ctx, source.NewFileSet(), paths, opts)
}

type batchEntry struct {
	result *Result // set for cache hits and load failures
	job    *job
	key    project.Digest
}

func compileBatch(ctx context.Context, fileSet *source.FileSet, paths []string, opts Options) (*Batch, error) {
	if len(paths) == 0 {
		return nil, ErrNoInput
	}
	tr := trace.FromContext(ctx)
	root := trace.Begin(tr, trace.ScopeDriver, "batch", trace.CurrentSpan(ctx))
	root.WithExtra("files", fmt.Sprint(len(paths)))
	defer root.End("")
	ctx = trace.WithSpan(ctx, root)

	// файлы грузятся последовательно: FileSet не потокобезопасен
	entries := make([]batchEntry, len(paths))
	var hashes []string
	for i, path := range paths {
		id, err := fileSet.Load(path)
		if err != nil {
			entries[i].result = &Result{Path: path, Bag: diag.NewBag(1), LoadErr: fmt.Errorf("load %s: %w", path, err)}
			continue
		}
		f := fileSet.Get(id)
		entries[i].job = newJob(f, opts)
		entries[i].job.total = len(paths)
		hashes = append(hashes, f.Path, string(f.Hash[:]))
	}
	batchDigest := project.HashStrings(hashes...)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	report := func(res *Result) {
		opts.Progress.emit(ProgressEvent{
			Path:   res.Path,
			Done:   true,
			Cached: res.Cached,
			Errors: res.Bag.Count(diag.SevError),
			Total:  len(paths),
		})
	}

	// 1. cache lookups and front end in parallel
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range entries {
		e := &entries[i]
		if e.job == nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			j := e.job
			e.key = cacheKey(j.file, opts.CacheSalt, []project.Digest{batchDigest})
			res, hit, err := opts.Cache.lookup(e.key, j.file, opts.maxDiagnostics())
			if hit {
				e.result = res
				report(res)
				return nil
			}
			if err != nil {
				cacheWarning(j.bag, j.file, err)
			}
			span := trace.Begin(tr, trace.ScopeModule, "front:"+j.file.Path, root.ID())
			j.front(trace.WithSpan(gctx, span))
			span.End("")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 2. link modules
	imports := linkModules(fileSet, entries)

	// 3. validate in parallel
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range entries {
		e := &entries[i]
		if e.result != nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			j := e.job
			span := trace.Begin(tr, trace.ScopeModule, "validate:"+j.file.Path, root.ID())
			j.validate(trace.WithSpan(gctx, span), imports)
			span.End("")
			res := j.result()
			if err := opts.Cache.store(e.key, res); err != nil {
				cacheWarning(res.Bag, j.file, err)
			}
			e.result = res
			report(res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Batch{FileSet: fileSet, Results: make([]*Result, len(entries))}
	for i := range entries {
		res := entries[i].result
		if res.Cached && res.Document != nil {
			res.Symbols = symbols.FromDocument(res.Document, imports)
		}
		out.Results[i] = res
	}
	return out, nil
}

// linkModules builds the batch import graph, reports module-level problems
// into the files that are still being compiled and returns the import table
// shared by every validation job.
func linkModules(fileSet *source.FileSet, entries []batchEntry) symbols.Imports {
	nodes := make([]dag.ModuleNode, 0, len(entries))
	docs := make(map[source.FileID]*batchEntry, len(entries))
	for i := range entries {
		e := &entries[i]
		var (
			node dag.ModuleNode
			f    *source.File
		)
		switch {
		case e.job != nil && e.result == nil:
			j := e.job
			f = j.file
			node.Reporter = j.rep
			node.Broken = j.doc == nil
			node.FirstErr = firstError(j.bag)
			node.Meta = project.MetaFor(f, j.doc)
		case e.result != nil && e.result.LoadErr == nil:
			f = fileSet.Get(e.result.File)
			node.Broken = e.result.Document == nil
			node.FirstErr = firstError(e.result.Bag)
			node.Meta = project.MetaFor(f, e.result.Document)
		default:
			continue
		}
		docs[f.ID] = e
		nodes = append(nodes, node)
	}

	metas := make([]project.ModuleMeta, len(nodes))
	for i, n := range nodes {
		metas[i] = n.Meta
	}
	idx := dag.BuildIndex(metas)
	graph, slots := dag.BuildGraph(idx, nodes)
	dag.ReportBrokenDeps(idx, slots)

	imports := make(symbols.Imports, len(slots))
	for id, slot := range slots {
		if !graph.Present[id] {
			continue
		}
		e := docs[slot.Meta.File]
		if e.result != nil {
			imports[slot.Meta.Name] = e.result.Document
		} else {
			imports[slot.Meta.Name] = e.job.doc
		}
	}
	return imports
}
