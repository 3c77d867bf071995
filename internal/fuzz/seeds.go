package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"apidef/internal/project"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

var inlineSeeds = []string{
	"",
	"struct A {}",
	"/// doc\nstruct A { x: u32 = 1, }",
	"#[attributes(Handle, Drop)]\nstruct H {\n    [static] create() -> H?\n    destroy()\n}",
	"enum E { A, B = 4, C }",
	"#[bitflags]\nenum F { X, Y }",
	"union U { i: i64, f: f64 }",
	"type P: *const [u8; 4]",
	"callback Cb(x: *mut void) -> bool",
	"const S = \"text\"\nconst N = 0x10",
	"mod other\nstruct A { o: Other }",
	"struct { x: u32",           // missing name
	"struct A { x: }",           // missing type
	"enum E { A = 18446744073709551616 }",
	"/* unterminated",
	"struct A { x: u32 \"open",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	root := filepath.Join("..", "..", "testdata")
	// проходим по testdata, добавляем все *.api файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || !project.IsSchemaFile(path) {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
