package astbuild_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"apidef/internal/ast"
	"apidef/internal/astbuild"
	"apidef/internal/diag"
	"apidef/internal/lexer"
	"apidef/internal/parser"
	"apidef/internal/source"
)

func build(t *testing.T, src string) (*ast.Document, *diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.api", []byte(src))
	return buildFile(t, fs, id)
}

func buildFile(t *testing.T, fs *source.FileSet, id source.FileID) (*ast.Document, *diag.Bag, *source.FileSet) {
	t.Helper()
	bag := diag.NewBag(50)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	res := parser.Parse(lx, parser.Options{Reporter: rep})
	if res.Err != nil {
		t.Fatalf("parse: %v", res.Err)
	}
	return astbuild.Build(res.File, astbuild.Options{Reporter: rep}), bag, fs
}

func TestImageDocument(t *testing.T) {
	fs := source.NewFileSet()
	id, err := fs.Load(filepath.Join("..", "..", "testdata", "image.api"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	doc, bag, _ := buildFile(t, fs, id)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", diag.FormatShort(bag.Items(), fs, true))
	}
	if got := strings.Join(doc.Names(), ","); got != "ImageInfo,Image" {
		t.Fatalf("names = %s", got)
	}

	info := doc.Lookup("ImageInfo")
	if info.Kind != ast.DeclStruct || len(info.Struct.Fields) != 2 {
		t.Fatalf("ImageInfo = %+v", info)
	}
	if got := info.Doc.Text(); got != "Basic information about an image" {
		t.Errorf("ImageInfo doc = %q", got)
	}
	if got := info.Struct.Fields[0].Doc.Lines; len(got) != 1 || got[0] != " Width of the image" {
		t.Errorf("width doc lines = %q", got)
	}
	if info.Struct.Fields[1].Type.Kind != ast.TypePrimitive || info.Struct.Fields[1].Type.Prim != ast.PrimU32 {
		t.Errorf("height type = %s", info.Struct.Fields[1].Type)
	}

	img := doc.Lookup("Image")
	if len(img.Attrs) != 2 || img.Attrs[0].Name != "Handle" || img.Attrs[1].Name != "Drop" {
		t.Fatalf("Image attrs = %+v", img.Attrs)
	}
	if len(img.Struct.Fields) != 0 || len(img.Struct.Methods) != 4 {
		t.Fatalf("Image members: %d fields, %d methods", len(img.Struct.Fields), len(img.Struct.Methods))
	}
	static, optional := 0, 0
	for _, m := range img.Struct.Methods {
		if m.IsStatic {
			static++
		}
		if m.Return != nil && m.Return.Kind == ast.TypeOptional {
			optional++
		}
	}
	if static != 3 || optional != 3 {
		t.Errorf("static = %d, optional returns = %d", static, optional)
	}
	destroy := img.Struct.Methods[3]
	if destroy.Name != "destroy" || !destroy.Receiver() || destroy.Return != nil {
		t.Errorf("destroy = %+v", destroy)
	}
	create := img.Struct.Methods[2]
	if got := create.Params[0].Type.String(); got != "*const ImageInfo" {
		t.Errorf("create info param = %s", got)
	}
	if got := fs.Text(create.ReturnSpan); got != "-> Image?" {
		t.Errorf("return span text = %q", got)
	}
	if got := fs.Text(img.Span); !strings.HasPrefix(got, "#[attributes") {
		t.Errorf("decl span should start at the attribute, got %q", got[:min(len(got), 20)])
	}
}

func TestDocAttachment(t *testing.T) {
	doc, bag, _ := build(t, `/// floating before a blank line

/// first
///second
struct A {
    /// about x
    // plain comment breaks the run
    x: u32,
    /// trailing doc
}

/// kept
#[derive(Debug)]
/// after attrs
enum E { One }
/// at the end
`)
	a := doc.Lookup("A")
	if a.Doc == nil || len(a.Doc.Lines) != 2 || a.Doc.Lines[0] != " first" || a.Doc.Lines[1] != "second" {
		t.Fatalf("A doc = %+v", a.Doc)
	}
	if a.Struct.Fields[0].Doc != nil {
		t.Errorf("x must not get a doc across a plain comment: %+v", a.Struct.Fields[0].Doc)
	}
	e := doc.Lookup("E")
	if got := e.Doc.Text(); got != "kept\nafter attrs" {
		t.Errorf("E doc = %q", got)
	}

	var floating []string
	for _, c := range doc.Comments {
		if c.Kind == ast.CommentFloatingDoc {
			floating = append(floating, strings.Join(c.Lines, "|"))
		}
	}
	want := []string{" floating before a blank line", " about x", " trailing doc", " at the end"}
	if strings.Join(floating, ";") != strings.Join(want, ";") {
		t.Errorf("floating docs = %q, want %q", floating, want)
	}

	dangling := 0
	for _, d := range bag.Items() {
		if d.Code == diag.SynDanglingDoc {
			dangling++
			if d.Severity != diag.SevWarning {
				t.Errorf("dangling doc must be a warning")
			}
		}
	}
	if dangling != 2 {
		t.Errorf("dangling doc warnings = %d, want 2", dangling)
	}
}

func TestInnerCommentsKept(t *testing.T) {
	doc, bag, _ := build(t, `struct S {
    f(
        /// inner doc
        a: u32 /* unit */)
}

#[derive(
    // stray
    Debug)]
enum E { One = /* first */ 1 }
`)
	var got []string
	for _, c := range doc.Comments {
		got = append(got, c.Kind.String()+":"+strings.Join(c.Lines, "|"))
	}
	want := []string{"doc: inner doc", "block:/* unit */", "line:// stray", "block:/* first */"}
	if strings.Join(got, ";") != strings.Join(want, ";") {
		t.Fatalf("comments = %q, want %q", got, want)
	}

	misplaced := 0
	for _, d := range bag.Items() {
		if d.Code == diag.SynDanglingDoc {
			misplaced++
			if len(d.Fixes) != 1 {
				t.Errorf("misplaced doc must offer a fix: %+v", d)
			}
		}
	}
	if misplaced != 1 {
		t.Errorf("misplaced doc warnings = %d, want 1", misplaced)
	}
}

func TestBlankLineWithSpacesBreaksDoc(t *testing.T) {
	doc, _, _ := build(t, "/// orphan\n   \nstruct S { a: u8 }\n")
	if doc.Lookup("S").Doc != nil {
		t.Fatalf("doc must not attach across a whitespace-only line")
	}
}

func TestAttributes(t *testing.T) {
	doc, bag, _ := build(t, `
#[attributes(Handle, Drop), derive(Debug, "x", 3)]
#[deprecated()]
struct S { [static] make() -> S }
`)
	s := doc.Lookup("S")
	var got []string
	for _, a := range s.Attrs {
		got = append(got, a.String())
	}
	if strings.Join(got, " ") != `Handle Drop derive(Debug, "x", 3) deprecated()` {
		t.Fatalf("attrs = %q", got)
	}
	if s.Attrs[0].HasParens || !s.Attrs[3].HasParens || len(s.Attrs[3].Args) != 0 {
		t.Errorf("parens tracking is wrong: %+v", s.Attrs)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SynEmptyAttrArgs {
		t.Fatalf("want one empty-args warning, got %d", bag.Len())
	}
	fix := bag.Items()[0].Fixes
	if len(fix) != 1 || len(fix[0].Edits) != 1 {
		t.Fatalf("empty-args warning should carry one fix, got %+v", fix)
	}
}

func TestQualifiers(t *testing.T) {
	doc, _, _ := build(t, `struct S {
    [static] a()
    [manual] b(self: *mut S)
    c() -> void
}`)
	ms := doc.Lookup("S").Struct.Methods
	if !ms[0].IsStatic || ms[0].IsManual {
		t.Errorf("a: %+v", ms[0])
	}
	if !ms[1].IsStatic || !ms[1].IsManual {
		t.Errorf("[manual] must imply static: %+v", ms[1])
	}
	if ms[2].IsStatic || !ms[2].Return.IsVoid() {
		t.Errorf("c: %+v", ms[2])
	}
	for _, m := range ms {
		if len(m.Attrs) != 0 {
			t.Errorf("%s: qualifiers must not become attributes", m.Name)
		}
	}
}

func TestTypeLowering(t *testing.T) {
	doc, _, _ := build(t, `struct S {
    a: *const X?,
    b: [*const X]?,
    c: *const [X],
    d: * u8,
    e: *mut void,
    f: [f32; 4],
    g: String,
    h: string,
}`)
	want := map[string]string{
		"a": "*const X?",
		"b": "[*const X]?",
		"c": "*const [X]",
		"d": "*mut u8",
		"e": "*mut void",
		"f": "[f32; 4]",
		"g": "String",
		"h": "string",
	}
	for _, f := range doc.Lookup("S").Struct.Fields {
		if got := f.Type.String(); got != want[f.Name] {
			t.Errorf("%s: %s, want %s", f.Name, got, want[f.Name])
		}
	}
	fields := doc.Lookup("S").Struct.Fields
	if fields[0].Type.Kind != ast.TypeOptional || fields[0].Type.Elem.Kind != ast.TypePointer {
		t.Errorf("optional must be outermost: %+v", fields[0].Type)
	}
	if fields[6].Type.Kind != ast.TypePrimitive || fields[7].Type.Kind != ast.TypeNamed {
		t.Errorf("primitive lookup must be case-sensitive")
	}
}

func TestEnumNumbering(t *testing.T) {
	doc, bag, _ := build(t, `enum E {
    A,
    B,
    C = 0x10,
    D,
    E = 0b1,
    F = 1_000,
    G = 99999999999999999999999,
}`)
	var got []uint64
	for _, e := range doc.Lookup("E").Enum.Entries {
		got = append(got, e.Value)
	}
	want := []uint64{0, 1, 16, 17, 1, 1000, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("values = %v, want %v", got, want)
		}
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SynEnumValueOverflow || bag.Items()[0].Severity != diag.SevWarning {
		t.Fatalf("want one overflow warning, got %d", bag.Len())
	}
}

func TestImplicitValueAfterMaxWraps(t *testing.T) {
	doc, bag, fs := build(t, "enum E { A = 0xFFFFFFFFFFFFFFFF, B, C }")
	entries := doc.Lookup("E").Enum.Entries
	if entries[1].Value != 0 || entries[2].Value != 1 {
		t.Fatalf("B = %d, C = %d", entries[1].Value, entries[2].Value)
	}
	if bag.Len() != 1 {
		t.Fatalf("want one warning, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.SynEnumValueOverflow || d.Severity != diag.SevWarning || fs.Text(d.Primary) != "B" {
		t.Fatalf("diagnostic = %+v", d)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		values []uint64
		want   ast.EnumFlavor
	}{
		{"empty", nil, ast.EnumRegular},
		{"sequential", []uint64{0, 1, 2, 3}, ast.EnumRegular},
		{"sequential from 5", []uint64{5, 6, 7}, ast.EnumRegular},
		{"powers of two", []uint64{1, 2, 4, 8}, ast.EnumBitflags},
		{"flags with combination", []uint64{0, 1, 2, 4, 3}, ast.EnumBitflags},
		{"overlap", []uint64{0, 5, 5}, ast.EnumBitflags},
		{"gaps", []uint64{10, 20, 30}, ast.EnumRegular},
		{"half powers", []uint64{1, 2, 3, 5}, ast.EnumRegular},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entries := make([]*ast.EnumEntry, len(tc.values))
			for i, v := range tc.values {
				entries[i] = &ast.EnumEntry{Value: v}
			}
			if got := astbuild.Classify(entries); got != tc.want {
				t.Fatalf("Classify(%v) = %s, want %s", tc.values, got, tc.want)
			}
		})
	}
}

func TestBitflagsAttributeForcesFlavor(t *testing.T) {
	doc, _, _ := build(t, "#[bitflags]\nenum M { A, B }\nenum N { A, B }\n")
	if doc.Lookup("M").Enum.Flavor != ast.EnumBitflags {
		t.Errorf("M must be bitflags")
	}
	if doc.Lookup("N").Enum.Flavor != ast.EnumRegular {
		t.Errorf("N must be regular")
	}
}

func TestSupplementedItems(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "widgets.api"))
	if err != nil {
		t.Fatal(err)
	}
	doc, bag, _ := build(t, string(data))
	if bag.HasErrors() {
		t.Fatalf("unexpected errors")
	}
	if len(doc.Mods) != 1 || doc.Mods[0].Name != "image" {
		t.Fatalf("mods = %+v", doc.Mods)
	}
	if c := doc.Lookup("DEFAULT_TITLE"); c.Kind != ast.DeclConst || c.Const.Value.Kind != ast.LitString {
		t.Errorf("DEFAULT_TITLE = %+v", c)
	}
	if a := doc.Lookup("Color"); a.Kind != ast.DeclAlias || a.Alias.Type.String() != "[u8; 4]" {
		t.Errorf("Color = %+v", a)
	}
	cb := doc.Lookup("DrawFn")
	if cb.Kind != ast.DeclCallback || len(cb.Callback.Params) != 2 || cb.Callback.Return.Prim != ast.PrimBool {
		t.Errorf("DrawFn = %+v", cb.Callback)
	}
	if u := doc.Lookup("Value"); u.Kind != ast.DeclUnion || len(u.Struct.Fields) != 3 {
		t.Errorf("Value = %+v", u)
	}
	p := doc.Lookup("Point").Struct.Fields[0]
	if p.Default == nil || p.Default.Kind != ast.LitFloat || p.Default.Text != "0.0" {
		t.Errorf("Point.x default = %+v", p.Default)
	}
	kinds := doc.Lookup("WidgetKind").Enum
	if kinds.Entries[3].Value != 11 || kinds.Flavor != ast.EnumRegular {
		t.Errorf("WidgetKind = %+v", kinds)
	}
	if doc.Lookup("Layout").Enum.Flavor != ast.EnumBitflags {
		t.Errorf("Layout should classify as bitflags")
	}
	if len(doc.Comments) == 0 || doc.Comments[0].Kind != ast.CommentLine {
		t.Errorf("leading file comment must be kept: %+v", doc.Comments)
	}
}

func TestNilTree(t *testing.T) {
	if astbuild.Build(nil, astbuild.Options{}) != nil {
		t.Fatalf("Build(nil) must be nil")
	}
}
