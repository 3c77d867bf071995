package astbuild

import (
	"strings"

	"apidef/internal/ast"
	"apidef/internal/diag"
	"apidef/internal/source"
	"apidef/internal/token"
)

// docRun is a contiguous block of "///" lines.
type docRun struct {
	lines []string
	span  source.Span
}

func (r *docRun) add(tv token.Trivia) {
	if len(r.lines) == 0 {
		r.span = tv.Span
	} else {
		r.span = r.span.Cover(tv.Span)
	}
	r.lines = append(r.lines, tv.DocText())
}

func (r *docRun) empty() bool { return len(r.lines) == 0 }

// splitLeading walks the trivia in front of a token. Every doc run that is
// followed by a break, and every plain comment, goes to the document as a
// floating comment. The run that touches the token is returned.
func (b *builder) splitLeading(tok token.Token) docRun {
	b.seen[tok.Span.Start] = struct{}{}
	var run docRun
	for _, tv := range tok.Leading {
		switch {
		case tv.Kind == token.TriviaDocLine:
			run.add(tv)
		case tv.BreaksDocRun():
			b.floating(run)
			run = docRun{}
			switch tv.Kind {
			case token.TriviaLineComment:
				b.comment(ast.CommentLine, tv)
			case token.TriviaBlockComment:
				b.comment(ast.CommentBlock, tv)
			}
		}
	}
	return run
}

// headerDoc merges the doc runs touching the header tokens of a declaration:
// the first attribute, further attributes, the qualifier and the keyword or name.
func (b *builder) headerDoc(header []token.Token) *ast.DocComment {
	var doc *ast.DocComment
	for _, tok := range header {
		run := b.splitLeading(tok)
		if run.empty() {
			continue
		}
		if doc == nil {
			doc = &ast.DocComment{Span: run.span}
		} else {
			doc.Span = doc.Span.Cover(run.span)
		}
		doc.Lines = append(doc.Lines, run.lines...)
	}
	return doc
}

// leadingComments keeps the comments in front of tok without attaching anything.
func (b *builder) leadingComments(tok token.Token) {
	b.floating(b.splitLeading(tok))
}

// danglingDocs handles trivia before '}' or EOF: a doc run there has nothing to document.
func (b *builder) danglingDocs(tok token.Token) {
	b.unattached(tok, "doc comment is not attached to any declaration")
}

// strayComments keeps the comments written between the inner tokens of a
// declaration: parameters, types, attribute arguments, separators.
func (b *builder) strayComments(toks []token.Token) {
	for _, tok := range toks {
		if _, done := b.seen[tok.Span.Start]; done {
			continue
		}
		b.unattached(tok, "doc comment inside a declaration documents nothing")
	}
}

func (b *builder) unattached(tok token.Token, msg string) {
	run := b.splitLeading(tok)
	if run.empty() {
		return
	}
	diag.ReportWarning(b.opts.Reporter, diag.SynDanglingDoc, run.span, msg).
		WithFix("turn into a regular comment", demoteEdits(tok, run)...).
		Emit()
	b.floating(run)
}

// demoteEdits rewrites each "///" of the run into "//".
func demoteEdits(tok token.Token, run docRun) []diag.FixEdit {
	var edits []diag.FixEdit
	for _, tv := range tok.Leading {
		if tv.Kind != token.TriviaDocLine || tv.Span.Start < run.span.Start || tv.Span.End > run.span.End {
			continue
		}
		edits = append(edits, diag.FixEdit{
			Span:    source.Span{File: tv.Span.File, Start: tv.Span.Start, End: tv.Span.Start + 3},
			NewText: "//",
		})
	}
	return edits
}

func (b *builder) floating(run docRun) {
	if run.empty() {
		return
	}
	b.doc.Comments = append(b.doc.Comments, ast.Comment{
		Kind:  ast.CommentFloatingDoc,
		Lines: run.lines,
		Span:  run.span,
	})
}

func (b *builder) comment(kind ast.CommentKind, tv token.Trivia) {
	b.doc.Comments = append(b.doc.Comments, ast.Comment{
		Kind:  kind,
		Lines: strings.Split(tv.Text, "\n"),
		Span:  tv.Span,
	})
}
