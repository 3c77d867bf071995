package ast

import (
	"fmt"
	"strings"

	"apidef/internal/source"
)

type TypeKind uint8

const (
	TypeInvalid TypeKind = iota
	TypeNamed
	TypePrimitive
	TypePointer
	TypeArray
	TypeOptional
)

var typeKindNames = [...]string{
	TypeInvalid:   "invalid",
	TypeNamed:     "named",
	TypePrimitive: "primitive",
	TypePointer:   "pointer",
	TypeArray:     "array",
	TypeOptional:  "optional",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return fmt.Sprintf("TypeKind(%d)", k)
}

func (k TypeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *TypeKind) UnmarshalText(b []byte) error {
	for i, name := range typeKindNames {
		if name == string(b) {
			*k = TypeKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown type kind %q", b)
}

type Primitive uint8

const (
	PrimNone Primitive = iota
	PrimVoid
	PrimBool
	PrimI8
	PrimU8
	PrimI16
	PrimU16
	PrimI32
	PrimU32
	PrimI64
	PrimU64
	PrimF32
	PrimF64
	PrimString
)

var primitiveNames = [...]string{
	PrimNone:   "",
	PrimVoid:   "void",
	PrimBool:   "bool",
	PrimI8:     "i8",
	PrimU8:     "u8",
	PrimI16:    "i16",
	PrimU16:    "u16",
	PrimI32:    "i32",
	PrimU32:    "u32",
	PrimI64:    "i64",
	PrimU64:    "u64",
	PrimF32:    "f32",
	PrimF64:    "f64",
	PrimString: "String",
}

func (p Primitive) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return fmt.Sprintf("Primitive(%d)", p)
}

func (p Primitive) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Primitive) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*p = PrimNone
		return nil
	}
	prim, ok := LookupPrimitive(string(b))
	if !ok {
		return fmt.Errorf("unknown primitive %q", b)
	}
	*p = prim
	return nil
}

// LookupPrimitive maps a spelled type name to its primitive. Names are case-sensitive.
func LookupPrimitive(name string) (Primitive, bool) {
	if name == "" {
		return PrimNone, false
	}
	for i, n := range primitiveNames {
		if n == name {
			return Primitive(i), true
		}
	}
	return PrimNone, false
}

// Primitives lists every primitive in declaration order.
func Primitives() []Primitive {
	out := make([]Primitive, 0, len(primitiveNames)-1)
	for i := 1; i < len(primitiveNames); i++ {
		out = append(out, Primitive(i))
	}
	return out
}

// TypeRef is a type as written in a field, parameter, return or alias.
//
//	TypeNamed      Name
//	TypePrimitive  Prim
//	TypePointer    Mutable, Elem
//	TypeArray      Elem, Len ("" for slices)
//	TypeOptional   Elem
type TypeRef struct {
	Kind    TypeKind    `json:"kind"`
	Name    string      `json:"name,omitempty"`
	Prim    Primitive   `json:"prim,omitempty"`
	Mutable bool        `json:"mutable,omitempty"`
	Len     string      `json:"len,omitempty"`
	Elem    *TypeRef    `json:"elem,omitempty"`
	Span    source.Span `json:"span"`
}

func NewNamed(name string, sp source.Span) *TypeRef {
	return &TypeRef{Kind: TypeNamed, Name: name, Span: sp}
}

func NewPrimitive(p Primitive, sp source.Span) *TypeRef {
	return &TypeRef{Kind: TypePrimitive, Prim: p, Span: sp}
}

func NewPointer(mutable bool, elem *TypeRef, sp source.Span) *TypeRef {
	return &TypeRef{Kind: TypePointer, Mutable: mutable, Elem: elem, Span: sp}
}

func NewArray(elem *TypeRef, length string, sp source.Span) *TypeRef {
	return &TypeRef{Kind: TypeArray, Elem: elem, Len: length, Span: sp}
}

func NewOptional(elem *TypeRef, sp source.Span) *TypeRef {
	return &TypeRef{Kind: TypeOptional, Elem: elem, Span: sp}
}

// IsVoid reports whether t is the bare void primitive.
func (t *TypeRef) IsVoid() bool {
	return t != nil && t.Kind == TypePrimitive && t.Prim == PrimVoid
}

// Base strips pointer, array and optional wrappers.
func (t *TypeRef) Base() *TypeRef {
	for t != nil && t.Elem != nil {
		t = t.Elem
	}
	return t
}

// Clone returns a deep copy.
func (t *TypeRef) Clone() *TypeRef {
	if t == nil {
		return nil
	}
	c := *t
	c.Elem = t.Elem.Clone()
	return &c
}

// Equal compares two type references structurally, ignoring spans.
func (t *TypeRef) Equal(o *TypeRef) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind || t.Name != o.Name || t.Prim != o.Prim || t.Mutable != o.Mutable || t.Len != o.Len {
		return false
	}
	return t.Elem.Equal(o.Elem)
}

// String renders the canonical spelling: "*const [u8; 4]?".
func (t *TypeRef) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t *TypeRef) write(sb *strings.Builder) {
	if t == nil {
		sb.WriteString("<nil>")
		return
	}
	switch t.Kind {
	case TypeNamed:
		sb.WriteString(t.Name)
	case TypePrimitive:
		sb.WriteString(t.Prim.String())
	case TypePointer:
		if t.Mutable {
			sb.WriteString("*mut ")
		} else {
			sb.WriteString("*const ")
		}
		t.Elem.write(sb)
	case TypeArray:
		sb.WriteByte('[')
		t.Elem.write(sb)
		if t.Len != "" {
			sb.WriteString("; ")
			sb.WriteString(t.Len)
		}
		sb.WriteByte(']')
	case TypeOptional:
		t.Elem.write(sb)
		sb.WriteByte('?')
	default:
		sb.WriteString("<invalid>")
	}
}
