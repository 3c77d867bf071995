// Package driver runs the schema pipeline: lex, parse, build, validate.
//
// Compile handles one file already loaded into a FileSet. CompileFiles and
// CompileDir load a batch, run the front end in parallel, link "mod"
// imports between the batch's files and validate each Document against its
// siblings.
package driver

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"apidef/internal/ast"
	"apidef/internal/astbuild"
	"apidef/internal/diag"
	"apidef/internal/lexer"
	"apidef/internal/observ"
	"apidef/internal/parser"
	"apidef/internal/project"
	"apidef/internal/sema"
	"apidef/internal/source"
	"apidef/internal/symbols"
	"apidef/internal/trace"
)

// ErrNoInput is returned when a batch has no schema files.
var ErrNoInput = errors.New("no schema files to check")

// Stage names one step of the pipeline.
type Stage uint8

const (
	StageNone Stage = iota
	StageLex
	StageParse
	StageBuild
	StageValidate
)

func (s Stage) String() string {
	switch s {
	case StageLex:
		return "lex"
	case StageParse:
		return "parse"
	case StageBuild:
		return "build"
	case StageValidate:
		return "validate"
	default:
		return "none"
	}
}

type Options struct {
	MaxDiagnostics int
	// Registry of recognized attributes; nil means sema.DefaultRegistry().
	Registry *sema.Registry
	// Imports is used by Compile only; batches link their own files.
	Imports symbols.Imports
	// Jobs limits batch parallelism; 0 means GOMAXPROCS.
	Jobs int

	Cache *DiskCache
	// CacheSalt is mixed into cache keys (config digest).
	CacheSalt project.Digest

	Timer    *observ.Timer
	Progress ProgressFunc
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return project.DefaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

// Result is the outcome for one file. Document is nil when the file
// stopped at lex or parse; Halted then names that stage.
type Result struct {
	Path     string
	File     source.FileID
	Document *ast.Document
	Symbols  *symbols.Table
	Bag      *diag.Bag
	Halted   Stage
	Cached   bool
	// LoadErr is set when the file could not be read; nothing else is.
	LoadErr error
}

// HasErrors reports whether the result blocks code generation.
func (r *Result) HasErrors() bool {
	return r.LoadErr != nil || r.Halted != StageNone || (r.Bag != nil && r.Bag.HasErrors())
}

// Compile runs every stage over one file. Domain problems end up in
// Result.Bag; the returned error is reserved for a missing file or a
// cancelled context.
func Compile(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) (*Result, error) {
	if int(id) >= fs.Len() {
		return nil, fmt.Errorf("compile: unknown file id %d", id)
	}
	f := fs.Get(id)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeModule, "file:"+f.Path, trace.CurrentSpan(ctx))
	defer span.End("")

	key := cacheKey(f, opts.CacheSalt, importDigests(opts.Imports))
	res, hit, cacheErr := opts.Cache.lookup(key, f, opts.maxDiagnostics())
	if hit {
		span.WithExtra("cache", "hit")
		if res.Document != nil {
			res.Symbols = symbols.FromDocument(res.Document, opts.Imports)
		}
		opts.Progress.emit(ProgressEvent{Path: f.Path, Done: true, Cached: true, Errors: res.Bag.Count(diag.SevError), Total: 1})
		return res, nil
	}

	job := newJob(f, opts)
	if cacheErr != nil {
		cacheWarning(job.bag, f, cacheErr)
	}
	ctx = trace.WithSpan(ctx, span)
	job.front(ctx)
	job.validate(ctx, opts.Imports)
	res = job.result()
	if cacheErr == nil {
		if err := opts.Cache.store(key, res); err != nil {
			cacheWarning(res.Bag, f, err)
		}
	}
	opts.Progress.emit(ProgressEvent{Path: f.Path, Done: true, Errors: res.Bag.Count(diag.SevError), Total: 1})
	return res, nil
}

// importDigests keys a result on the imported documents it was validated
// against, in module name order.
func importDigests(imports symbols.Imports) []project.Digest {
	if len(imports) == 0 {
		return nil
	}
	names := make([]string, 0, len(imports))
	for name := range imports {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]project.Digest, 0, len(names))
	for _, name := range names {
		var decls []string
		if doc := imports[name]; doc != nil {
			for _, d := range doc.Decls {
				decls = append(decls, d.Kind.String()+" "+d.Name)
			}
		}
		out = append(out, project.HashStrings(append([]string{name}, decls...)...))
	}
	return out
}

// job carries one file through the stages.
type job struct {
	file *source.File
	opts Options
	bag  *diag.Bag
	rep  diag.Reporter

	doc    *ast.Document
	syms   *symbols.Table
	halted Stage
	total  int
}

func newJob(f *source.File, opts Options) *job {
	bag := diag.NewBag(opts.maxDiagnostics())
	return &job{
		file:  f,
		opts:  opts,
		bag:   bag,
		rep:   diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
		total: 1,
	}
}

// stage wraps fn with a trace span and a timer phase.
func (j *job) stage(ctx context.Context, s Stage, fn func() string) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, s.String(), trace.CurrentSpan(ctx))
	idx := j.opts.Timer.Begin(s.String())
	note := fn()
	j.opts.Timer.End(idx, "")
	span.End(note)
	j.opts.Progress.emit(ProgressEvent{Path: j.file.Path, Stage: s, Total: j.total})
}

// front runs lex, parse and build. Lexing drains the file first so that a
// lexical error halts before the parser sees broken tokens.
func (j *job) front(ctx context.Context) {
	lx := lexer.New(j.file, lexer.Options{Reporter: j.rep})
	j.stage(ctx, StageLex, func() string {
		toks := lx.Tokens()
		return fmt.Sprintf("%d tokens", len(toks))
	})
	if lx.Errors() > 0 {
		j.halted = StageLex
		return
	}
	lx.Reset()

	var tree parser.Result
	j.stage(ctx, StageParse, func() string {
		tree = parser.Parse(lx, parser.Options{Reporter: j.rep})
		if tree.Err != nil {
			return "syntax error"
		}
		return ""
	})
	if tree.Err != nil || tree.File == nil {
		j.halted = StageParse
		return
	}

	j.stage(ctx, StageBuild, func() string {
		j.doc = astbuild.Build(tree.File, astbuild.Options{Reporter: j.rep})
		return fmt.Sprintf("%d decls", len(j.doc.Decls))
	})
}

func (j *job) validate(ctx context.Context, imports symbols.Imports) {
	if j.doc == nil {
		return
	}
	j.stage(ctx, StageValidate, func() string {
		res := sema.Check(j.doc, sema.Options{
			Reporter: j.rep,
			Registry: j.opts.Registry,
			Imports:  imports,
		})
		j.syms = res.Symbols
		return fmt.Sprintf("%d diagnostics", j.bag.Len())
	})
}

func (j *job) result() *Result {
	return &Result{
		Path:     j.file.Path,
		File:     j.file.ID,
		Document: j.doc,
		Symbols:  j.syms,
		Bag:      j.bag,
		Halted:   j.halted,
	}
}

// firstError returns the first error diagnostic of bag, if any.
func firstError(bag *diag.Bag) *diag.Diagnostic {
	if bag == nil {
		return nil
	}
	items := bag.Items()
	for i := range items {
		if items[i].IsError() {
			return &items[i]
		}
	}
	return nil
}
