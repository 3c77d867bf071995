// Package token defines lexical token kinds and trivia for .api schema files.
// Invariants:
//   - Token.Text is the exact source text covered by Token.Span.
//   - Comments, blank space and doc lines (/// ...) never appear in the main
//     token stream; they ride along as Leading trivia of the next token.
//   - Primitive type names (u32, bool, String, ...) are identifiers.
//     They are recognized by the AST builder, not the lexer.
//   - Qualifiers ([static], [manual]) and pointer forms (*const, *mut) are
//     single glued tokens; "[ static ]" lexes as brackets around an identifier.
package token
