package sema

import (
	"fmt"
	"sort"
	"strings"

	"apidef/internal/ast"
)

// AttrTarget describes a set of places an attribute may be applied to.
type AttrTarget uint16

const (
	TargetNone   AttrTarget = 0
	TargetStruct AttrTarget = 1 << iota
	TargetUnion
	TargetEnum
	TargetAlias
	TargetCallback
	TargetConst
	TargetField
	TargetMethod

	TargetDecl = TargetStruct | TargetUnion | TargetEnum | TargetAlias | TargetCallback | TargetConst
	TargetAny  = TargetDecl | TargetField | TargetMethod
)

var targetNames = []struct {
	name string
	t    AttrTarget
}{
	{"struct", TargetStruct},
	{"union", TargetUnion},
	{"enum", TargetEnum},
	{"type", TargetAlias},
	{"callback", TargetCallback},
	{"const", TargetConst},
	{"field", TargetField},
	{"method", TargetMethod},
}

// TargetOf returns the target bit for a declaration kind.
func TargetOf(k ast.DeclKind) AttrTarget {
	switch k {
	case ast.DeclStruct:
		return TargetStruct
	case ast.DeclUnion:
		return TargetUnion
	case ast.DeclEnum:
		return TargetEnum
	case ast.DeclAlias:
		return TargetAlias
	case ast.DeclCallback:
		return TargetCallback
	case ast.DeclConst:
		return TargetConst
	default:
		return TargetNone
	}
}

func (t AttrTarget) String() string {
	if t == TargetAny {
		return "any"
	}
	var parts []string
	for _, tn := range targetNames {
		if t&tn.t != 0 {
			parts = append(parts, tn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

// ParseTargets turns target names into a mask. Besides the single kinds it
// accepts "decl" (any top-level declaration) and "any".
func ParseTargets(names []string) (AttrTarget, error) {
	var mask AttrTarget
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		switch name {
		case "any":
			mask |= TargetAny
			continue
		case "decl":
			mask |= TargetDecl
			continue
		}
		found := false
		for _, tn := range targetNames {
			if tn.name == name {
				mask |= tn.t
				found = true
				break
			}
		}
		if !found {
			return TargetNone, fmt.Errorf("unknown attribute target %q", raw)
		}
	}
	return mask, nil
}

// AttrFlag captures rules beyond the basic target and arity matrix.
type AttrFlag uint8

const (
	AttrFlagNone AttrFlag = 0

	// AttrFlagNeedsMethods: the struct must declare at least one method (Error).
	AttrFlagNeedsMethods AttrFlag = 1 << iota

	// AttrFlagNoFields: declaring fields is suspicious (Warning).
	AttrFlagNoFields
)

// Unbounded marks an attribute without an upper argument limit.
const Unbounded = -1

// AttrSpec describes one recognized attribute.
type AttrSpec struct {
	Name    string
	Targets AttrTarget
	MinArgs int
	MaxArgs int // Unbounded for no limit
	Flags   AttrFlag
	// Companion is an attribute expected alongside this one; its absence is a Warning.
	Companion string
}

// Allows reports whether the attribute may be applied to target.
func (s AttrSpec) Allows(target AttrTarget) bool {
	return s.Targets&target != 0
}

// HasFlag reports whether the spec carries flag.
func (s AttrSpec) HasFlag(flag AttrFlag) bool {
	return s.Flags&flag != 0
}

// AcceptsArgs reports whether n arguments satisfy the arity rule.
func (s AttrSpec) AcceptsArgs(n int) bool {
	if n < s.MinArgs {
		return false
	}
	return s.MaxArgs == Unbounded || n <= s.MaxArgs
}

// Arity renders the accepted argument count for messages.
func (s AttrSpec) Arity() string {
	switch {
	case s.MaxArgs == Unbounded && s.MinArgs == 0:
		return "any number of arguments"
	case s.MaxArgs == Unbounded:
		return fmt.Sprintf("at least %d %s", s.MinArgs, plural(s.MinArgs, "argument"))
	case s.MinArgs == s.MaxArgs:
		if s.MinArgs == 0 {
			return "no arguments"
		}
		return fmt.Sprintf("exactly %d %s", s.MinArgs, plural(s.MinArgs, "argument"))
	default:
		return fmt.Sprintf("%d to %d arguments", s.MinArgs, s.MaxArgs)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// Registry is the table of attributes the validator recognizes.
// Names are case-sensitive.
type Registry struct {
	specs map[string]AttrSpec
}

// NewRegistry builds a registry from specs; later specs replace earlier ones with the same name.
func NewRegistry(specs ...AttrSpec) *Registry {
	r := &Registry{specs: make(map[string]AttrSpec, len(specs))}
	for _, s := range specs {
		r.Add(s)
	}
	return r
}

// DefaultRegistry returns a fresh copy of the built-in attribute table.
func DefaultRegistry() *Registry {
	return NewRegistry(
		AttrSpec{Name: "Handle", Targets: TargetStruct, Flags: AttrFlagNoFields},
		AttrSpec{Name: "Drop", Targets: TargetStruct, Flags: AttrFlagNeedsMethods, Companion: "Handle"},
		AttrSpec{Name: "derive", Targets: TargetStruct | TargetUnion | TargetEnum, MinArgs: 1, MaxArgs: Unbounded},
		AttrSpec{Name: "traits", Targets: TargetStruct, MinArgs: 1, MaxArgs: Unbounded},
		AttrSpec{Name: "bitflags", Targets: TargetEnum},
		AttrSpec{Name: "deprecated", Targets: TargetAny, MaxArgs: 1},
	)
}

// Add registers or replaces spec.
func (r *Registry) Add(spec AttrSpec) {
	r.specs[spec.Name] = spec
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (AttrSpec, bool) {
	if r == nil {
		return AttrSpec{}, false
	}
	spec, ok := r.specs[name]
	return spec, ok
}

// Specs returns all specs sorted by name.
func (r *Registry) Specs() []AttrSpec {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]AttrSpec, 0, len(names))
	for _, n := range names {
		out = append(out, r.specs[n])
	}
	return out
}

// Clone returns an independent copy.
func (r *Registry) Clone() *Registry {
	return NewRegistry(r.Specs()...)
}
