package driver

import (
	"apidef/internal/diag"
	"apidef/internal/lexer"
	"apidef/internal/source"
	"apidef/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads path and lexes it to EOF.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return TokenizeFile(fs, id, maxDiagnostics), nil
}

// TokenizeFile lexes a file that is already in fs.
func TokenizeFile(fs *source.FileSet, id source.FileID, maxDiagnostics int) *TokenizeResult {
	file := fs.Get(id)
	bag := diag.NewBag(Options{MaxDiagnostics: maxDiagnostics}.maxDiagnostics())
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  lx.Tokens(),
		Bag:     bag,
	}
}
