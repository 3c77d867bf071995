// Package parser turns the token stream of one .api file into a cst.File.
//
// The grammar is ordered choice evaluated by recursive descent. Each rule
// looks at the current token, picks the first alternative whose leading token
// matches, and from that point on is committed: no rule ever rewinds the
// lexer. The committed prefix of every rule is exactly one token:
//
//	Item       commits on its keyword (struct, union, enum, type, const,
//	           callback, mod) after any "#[...]" lists
//	Member     commits on the qualifier, or on the member name; the token
//	           after the name then selects method '(' or field ':'
//	Type       commits on a pointer qualifier, '[' or an identifier; a
//	           trailing '?' is taken greedily once
//
// Because nothing is retried, the first token that fits no alternative
// determines the diagnostic: "expected <alternatives>, found <token>".
// The alternatives are listed in declaration order, so the message is
// reproducible for a given input.
//
// Parsing stops at the first mismatch. Result.File is nil in that case and
// Result.Err describes the mismatch; the same information is reported as one
// SYN2001 diagnostic. Invalid tokens are not reported again: the lexer has
// already produced a diagnostic for them.
package parser
