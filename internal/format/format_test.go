package format_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"apidef/internal/diag"
	"apidef/internal/format"
	"apidef/internal/source"
)

func formatSource(t *testing.T, src string, opt format.Options) string {
	t.Helper()
	fs := source.NewFileSetWithBase("")
	id := fs.AddVirtual("fmt.api", []byte(src))
	bag := diag.NewBag(64)
	out, err := format.File(fs.Get(id), opt, bag)
	if err != nil {
		t.Fatalf("format: %v\n%s", err, diag.FormatShort(bag.Items(), fs, false))
	}
	return string(out)
}

func TestCanonicalOutput(t *testing.T) {
	src := `// header comment
mod   common
/// Info
struct ImageInfo{width:u32,height : u32 = 0 ,}
#[attributes(Handle,Drop)]
struct Image {
  [static]   create(info:*const ImageInfo,data:[u8])->Image?
  destroy( )
}
enum Flags { A = 1, B = 2, C = 16, }
enum Empty {}
type Raw : * void
const N = 0x10
callback Cb ( x : i32 )`
	want := `// header comment
mod common

/// Info
struct ImageInfo {
    width: u32,
    height: u32 = 0,
}

#[Handle, Drop]
struct Image {
    [static] create(info: *const ImageInfo, data: [u8]) -> Image?
    destroy()
}

enum Flags {
    A = 1,
    B = 2,
    C = 0x10,
}

enum Empty {}

type Raw: *mut void

const N = 0x10

callback Cb(x: i32)
`
	if got := formatSource(t, src, format.Options{}); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFloatingCommentsStayFloating(t *testing.T) {
	src := `/// orphan

/// doc for A
struct A {
    /// about x
    // breaks the run
    x: u8,
    /// dangling
}
/// at the end
`
	want := `/// orphan

/// doc for A
struct A {
    /// about x

    // breaks the run
    x: u8,
    /// dangling
}

/// at the end
`
	if got := formatSource(t, src, format.Options{}); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestTabsAndDropComments(t *testing.T) {
	got := formatSource(t, "// gone\nstruct S { /// kept\n a: u8 }", format.Options{UseTabs: true, DropComments: true})
	want := "struct S {\n\t/// kept\n\ta: u8,\n}\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "testdata", "*.api"))
	if err != nil || len(files) == 0 {
		t.Fatalf("no testdata: %v", err)
	}
	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			fs := source.NewFileSet()
			id, err := fs.Load(path)
			if err != nil {
				t.Fatal(err)
			}
			if ok, msg := format.CheckRoundTrip(fs.Get(id), format.Options{}, 64); !ok {
				t.Fatal(msg)
			}
		})
	}
}

func TestRoundTripInline(t *testing.T) {
	cases := []string{
		"/// a\n///b\n\n/// c\nstruct S { /// d\n x: [*const u8; 4]?, [manual] f(self: *mut S) -> void, }\n/// e\n",
		"enum E { A, B = 10, C, }\n#[bitflags]\nenum F { X = 1, Y = 256 }",
		"#[derive(Debug, \"x\", 3)]\nunion U { a: i8, b: f64 }\n// tail\n",
		"/* block\n   comment */\nconst S = \"str\"\n",
	}
	for i, src := range cases {
		fs := source.NewFileSet()
		id := fs.AddVirtual("case.api", []byte(src))
		if ok, msg := format.CheckRoundTrip(fs.Get(id), format.Options{}, 64); !ok {
			t.Errorf("case %d: %s", i, msg)
		}
	}
}

func TestInnerCommentsSurvive(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"doc in parameter list",
			"struct S {\n    f(\n        /// inner doc\n        a: u32)\n}\n",
			"struct S {\n    /// inner doc\n\n    f(a: u32)\n}\n",
		},
		{
			"comment in attribute arguments",
			"#[derive(\n    /// stray\n    A)]\nenum E { One }\n",
			"/// stray\n\n#[derive(A)]\nenum E {\n    One,\n}\n",
		},
		{
			"comments in callback and enum value",
			"// lead\ncallback F(x: /* raw */ u32) -> bool\nenum E { One = /* first */ 1 }\n",
			"// lead\n/* raw */\ncallback F(x: u32) -> bool\n\nenum E {\n    /* first */\n    One = 1,\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatSource(t, tt.src, format.Options{})
			if got != tt.want {
				t.Fatalf("got:\n%s\nwant:\n%s", got, tt.want)
			}
			if again := formatSource(t, got, format.Options{}); again != got {
				t.Fatalf("not idempotent:\n%s", again)
			}
			fs := source.NewFileSet()
			id := fs.AddVirtual("case.api", []byte(tt.src))
			if ok, msg := format.CheckRoundTrip(fs.Get(id), format.Options{}, 64); !ok {
				t.Fatal(msg)
			}
		})
	}
}

func TestIdempotent(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "widgets.api"))
	if err != nil {
		t.Fatal(err)
	}
	once := formatSource(t, string(data), format.Options{})
	twice := formatSource(t, once, format.Options{})
	if once != twice {
		t.Fatalf("formatting is not idempotent:\n%s\n---\n%s", once, twice)
	}
}

func TestSyntaxErrorIsNotFormatted(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("bad.api", []byte("struct {"))
	bag := diag.NewBag(8)
	out, err := format.File(fs.Get(id), format.Options{}, bag)
	if !errors.Is(err, format.ErrNotParsed) || out != nil {
		t.Fatalf("File = %q, %v", out, err)
	}
	if !bag.HasErrors() {
		t.Fatalf("syntax error must be reported")
	}
}
