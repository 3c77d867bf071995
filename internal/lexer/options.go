package lexer

import (
	"apidef/internal/diag"
	"apidef/internal/source"
)

type Options struct {
	Reporter diag.Reporter // nil: errors are dropped, lexing still continues
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	lx.errors++
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}
