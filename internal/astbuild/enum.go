package astbuild

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	"apidef/internal/ast"
	"apidef/internal/cst"
	"apidef/internal/diag"
)

func (b *builder) enumBody(item *cst.Item, forceFlags bool) *ast.EnumDecl {
	enum := &ast.EnumDecl{Entries: make([]*ast.EnumEntry, 0, len(item.Entries))}
	var (
		next    uint64
		wrapped bool // previous value was the largest uint64
	)
	for _, e := range item.Entries {
		entry := &ast.EnumEntry{
			Name:     e.Name.Text,
			NameSpan: e.Name.Span,
			Doc:      b.headerDoc(enumHeader(e)),
			Span:     e.Span,
		}
		if e.Value != nil {
			entry.Explicit = true
			v, err := parseEnumValue(e.Value.Text)
			if err != nil {
				diag.ReportWarning(b.opts.Reporter, diag.SynEnumValueOverflow, e.Value.Span,
					fmt.Sprintf("enum value %s of '%s' does not fit in an unsigned 64-bit integer; using 0", e.Value.Text, e.Name.Text)).
					Emit()
				v = 0
			}
			entry.Value = v
		} else {
			if wrapped {
				diag.ReportWarning(b.opts.Reporter, diag.SynEnumValueOverflow, e.Name.Span,
					fmt.Sprintf("implicit value of '%s' overflows an unsigned 64-bit integer; using 0", e.Name.Text)).
					Emit()
			}
			entry.Value = next
		}
		wrapped = entry.Value == math.MaxUint64
		next = entry.Value + 1
		enum.Entries = append(enum.Entries, entry)
	}
	b.danglingDocs(item.RBrace)
	enum.Flavor = Classify(enum.Entries)
	if forceFlags {
		enum.Flavor = ast.EnumBitflags
	}
	return enum
}

func parseEnumValue(text string) (uint64, error) {
	return strconv.ParseUint(strings.ReplaceAll(text, "_", ""), 0, 64)
}

// Classify decides whether the entries describe a plain enumeration or a set of flags.
//
//	sequential, no repeats           -> regular
//	more than half powers of two     -> bitflags
//	any repeated value               -> bitflags
//	otherwise                        -> regular
func Classify(entries []*ast.EnumEntry) ast.EnumFlavor {
	if len(entries) == 0 {
		return ast.EnumRegular
	}
	sequential := true
	overlapping := false
	pow2 := 0
	seen := make(map[uint64]struct{}, len(entries))
	want := entries[0].Value
	for _, e := range entries {
		if e.Value != want {
			sequential = false
		}
		want = e.Value + 1
		if _, dup := seen[e.Value]; dup {
			overlapping = true
		}
		seen[e.Value] = struct{}{}
		if bits.OnesCount64(e.Value) == 1 {
			pow2++
		}
	}
	if sequential && !overlapping {
		return ast.EnumRegular
	}
	if pow2*2 > len(entries) || overlapping {
		return ast.EnumBitflags
	}
	return ast.EnumRegular
}
