// Package symbols holds the name table used to resolve type references.
//
// Keys are NFC-normalized, so two spellings of the same identifier that differ
// only in Unicode composition resolve to the same symbol. Lookup is otherwise
// case-sensitive.
package symbols

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
)

// Hints provide optional capacity suggestions for the table.
type Hints struct{ Symbols uint }

// Redecl records a name that was declared more than once.
type Redecl struct {
	First SymbolID
	Again SymbolID
}

// Table maps names to symbols. Every symbol ever added is kept, so later
// redeclarations stay addressable for diagnostics.
type Table struct {
	syms    []Symbol // index 0 is reserved
	byName  map[string][]SymbolID
	redecls []Redecl
}

// NewTable builds an empty table.
func NewTable(h Hints) *Table {
	n, err := safecast.Conv[int](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	return &Table{
		syms:   make([]Symbol, 1, n+1),
		byName: make(map[string][]SymbolID, n),
	}
}

// Key is the normalized form names are stored under.
func Key(name string) string {
	return norm.NFC.String(name)
}

// Add stores sym and returns its ID. If a symbol with the same key already
// exists, its ID is returned as prev and the pair is recorded as a redeclaration.
func (t *Table) Add(sym Symbol) (id, prev SymbolID) {
	next, err := safecast.Conv[uint32](len(t.syms))
	if err != nil {
		panic(fmt.Errorf("symbol table overflow: %w", err))
	}
	id = SymbolID(next)
	t.syms = append(t.syms, sym)
	key := Key(sym.Name)
	ids := t.byName[key]
	if len(ids) > 0 {
		prev = ids[0]
		t.redecls = append(t.redecls, Redecl{First: prev, Again: id})
	}
	t.byName[key] = append(ids, id)
	return id, prev
}

// Lookup returns the first symbol declared under name.
func (t *Table) Lookup(name string) (SymbolID, bool) {
	ids := t.byName[Key(name)]
	if len(ids) == 0 {
		return NoSymbolID, false
	}
	return ids[0], true
}

// LookupAll returns every symbol declared under name in declaration order.
func (t *Table) LookupAll(name string) []SymbolID {
	ids := t.byName[Key(name)]
	out := make([]SymbolID, len(ids))
	copy(out, ids)
	return out
}

// Get returns the symbol for id, or nil for an unknown id.
func (t *Table) Get(id SymbolID) *Symbol {
	if t == nil || !id.IsValid() || int(id) >= len(t.syms) {
		return nil
	}
	return &t.syms[id]
}

// Len reports how many symbols were added.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.syms) - 1
}

// Redeclarations lists repeated names in the order they were added.
func (t *Table) Redeclarations() []Redecl {
	return t.redecls
}

// Names returns the distinct keys in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Each calls fn for every symbol in insertion order until fn returns false.
func (t *Table) Each(fn func(SymbolID, *Symbol) bool) {
	for i := 1; i < len(t.syms); i++ {
		if !fn(SymbolID(i), &t.syms[i]) {
			return
		}
	}
}
