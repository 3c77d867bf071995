// Package diag defines the diagnostic model shared by all pipeline phases.
//
// Every phase reports through a Reporter; the driver hands each phase a
// BagReporter over a per-file Bag. Diagnostics keep the order in which they
// were produced until a caller explicitly Sorts the Bag.
//
// A Diagnostic is plain data:
//
//   - Severity: Info, Warning or Error. Only Error blocks code generation;
//     consumers must check Bag.HasErrors before emitting bindings.
//   - Code: numeric identifier with a stable textual form (LEX1001, SYN2001,
//     SEM3002, ...). Ranges: 1000 lexer, 2000 parser and AST builder,
//     3000 semantic checks, 4000 host I/O.
//   - Primary: the span the diagnostic is anchored to.
//   - Notes: secondary spans, e.g. the first declaration of a duplicate name.
//   - Fixes: optional text edits a tool may apply.
//
// Package diag performs no console formatting; see internal/diagfmt.
// FormatShort and Diagnostic.Render are the only renderers here, kept for
// golden tests and log lines.
package diag
