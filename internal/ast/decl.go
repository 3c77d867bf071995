package ast

import (
	"fmt"

	"apidef/internal/source"
)

type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclStruct
	DeclEnum
	DeclUnion
	DeclAlias
	DeclCallback
	DeclConst
)

var declKindNames = [...]string{
	DeclInvalid:  "invalid",
	DeclStruct:   "struct",
	DeclEnum:     "enum",
	DeclUnion:    "union",
	DeclAlias:    "type",
	DeclCallback: "callback",
	DeclConst:    "const",
}

func (k DeclKind) String() string {
	if int(k) < len(declKindNames) {
		return declKindNames[k]
	}
	return fmt.Sprintf("DeclKind(%d)", k)
}

func (k DeclKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *DeclKind) UnmarshalText(b []byte) error {
	for i, name := range declKindNames {
		if name == string(b) {
			*k = DeclKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown declaration kind %q", b)
}

// IsType reports whether a declaration of this kind may be named in a type position.
func (k DeclKind) IsType() bool {
	switch k {
	case DeclStruct, DeclEnum, DeclUnion, DeclAlias, DeclCallback:
		return true
	default:
		return false
	}
}

// Decl is a top-level declaration. Exactly one payload pointer is set,
// selected by Kind: Struct for structs and unions, then Enum, Alias,
// Callback and Const.
type Decl struct {
	Kind     DeclKind    `json:"kind"`
	Name     string      `json:"name"`
	NameSpan source.Span `json:"name_span"`
	Span     source.Span `json:"span"`
	Doc      *DocComment `json:"doc,omitempty"`
	Attrs    []Attribute `json:"attrs,omitempty"`

	Struct   *StructDecl   `json:"struct,omitempty"`
	Enum     *EnumDecl     `json:"enum,omitempty"`
	Alias    *AliasDecl    `json:"alias,omitempty"`
	Callback *CallbackDecl `json:"callback,omitempty"`
	Const    *ConstDecl    `json:"const,omitempty"`
}

// Attr returns the first attribute with the given name.
func (d *Decl) Attr(name string) (Attribute, bool) {
	return findAttr(d.Attrs, name)
}

// HasAttr reports whether the declaration carries the named attribute.
func (d *Decl) HasAttr(name string) bool {
	_, ok := d.Attr(name)
	return ok
}

// StructDecl is the body of a struct or a union.
type StructDecl struct {
	Fields  []*Field  `json:"fields,omitempty"`
	Methods []*Method `json:"methods,omitempty"`
}

type Field struct {
	Name     string      `json:"name"`
	NameSpan source.Span `json:"name_span"`
	Type     *TypeRef    `json:"type"`
	Default  *Literal    `json:"default,omitempty"`
	Doc      *DocComment `json:"doc,omitempty"`
	Attrs    []Attribute `json:"attrs,omitempty"`
	Span     source.Span `json:"span"`
}

// Method is a function member. A [manual] method is always static.
type Method struct {
	Name       string      `json:"name"`
	NameSpan   source.Span `json:"name_span"`
	IsStatic   bool        `json:"static,omitempty"`
	IsManual   bool        `json:"manual,omitempty"`
	Params     []*Param    `json:"params,omitempty"`
	Return     *TypeRef    `json:"return,omitempty"`
	ReturnSpan source.Span `json:"return_span"` // from "->" to the end of the type
	ReturnCut  source.Span `json:"-"`           // ReturnSpan plus the blank in front of "->"
	Doc        *DocComment `json:"doc,omitempty"`
	Attrs      []Attribute `json:"attrs,omitempty"`
	Span       source.Span `json:"span"`
}

// Receiver reports whether the method takes the implicit self receiver.
func (m *Method) Receiver() bool { return !m.IsStatic }

type Param struct {
	Name     string      `json:"name"`
	NameSpan source.Span `json:"name_span"`
	Type     *TypeRef    `json:"type"`
	Default  *Literal    `json:"default,omitempty"`
	Span     source.Span `json:"span"`
}

type EnumFlavor uint8

const (
	EnumRegular EnumFlavor = iota
	EnumBitflags
)

func (f EnumFlavor) String() string {
	if f == EnumBitflags {
		return "bitflags"
	}
	return "regular"
}

func (f EnumFlavor) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *EnumFlavor) UnmarshalText(b []byte) error {
	switch string(b) {
	case "regular":
		*f = EnumRegular
	case "bitflags":
		*f = EnumBitflags
	default:
		return fmt.Errorf("unknown enum flavor %q", b)
	}
	return nil
}

type EnumDecl struct {
	Entries []*EnumEntry `json:"entries,omitempty"`
	Flavor  EnumFlavor   `json:"flavor"`
}

// EnumEntry is one enumerator. Explicit is set when the value was written as "= N".
type EnumEntry struct {
	Name     string      `json:"name"`
	NameSpan source.Span `json:"name_span"`
	Value    uint64      `json:"value"`
	Explicit bool        `json:"explicit,omitempty"`
	Doc      *DocComment `json:"doc,omitempty"`
	Span     source.Span `json:"span"`
}

// AliasDecl is "type Name: T".
type AliasDecl struct {
	Type *TypeRef `json:"type"`
}

// CallbackDecl is "callback Name(params) -> Ret".
type CallbackDecl struct {
	Params     []*Param    `json:"params,omitempty"`
	Return     *TypeRef    `json:"return,omitempty"`
	ReturnSpan source.Span `json:"return_span"`
	ReturnCut  source.Span `json:"-"`
}

// ConstDecl is "const NAME = literal".
type ConstDecl struct {
	Value Literal `json:"value"`
}
