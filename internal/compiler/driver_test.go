package compiler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arnavsurve/stups/internal/compiler/checker"
	"github.com/arnavsurve/stups/internal/mdcase"
	"github.com/nalgeon/be"
)

func TestCaseBooks(t *testing.T) {
	files, err := filepath.Glob("testdata/*.md")
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".md")

		t.Run(name, func(t *testing.T) {
			content, err := os.ReadFile(file)
			be.Err(t, err, nil)

			cases, err := mdcase.Extract(content)
			be.Err(t, err, nil)

			for _, tc := range cases {
				t.Run(tc.Name, func(t *testing.T) {
					for _, a := range tc.Assertions {
						switch a.Kind {
						case mdcase.AssertASM:
							be.Equal(t, instructions(t, tc.Input), a.Content)
						case mdcase.AssertErrors:
							be.Equal(t, diagnostics(tc.Input), a.Content)
						case mdcase.AssertSlots:
							be.Equal(t, slots(t, tc.Input), a.Content)
						}
					}
				})
			}
		})
	}
}

// instructions is the method body with the indentation removed.
func instructions(t *testing.T, src string) string {
	t.Helper()
	out, err := Compile(src, "Main")
	be.Err(t, err, nil)

	lines := strings.Split(strings.TrimRight(out.Body, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimPrefix(l, "\t")
	}
	return strings.Join(lines, "\n")
}

// diagnostics lists syntax or semantic errors, one per line.
func diagnostics(src string) string {
	c, _, err := Check(src)
	if err != nil {
		return strings.TrimPrefix(err.Error(), ErrSyntax.Error()+":\n")
	}
	return c.Errors().Error()
}

func slots(t *testing.T, src string) string {
	t.Helper()
	c, _, err := Check(src)
	be.Err(t, err, nil)

	var lines []string
	for _, sym := range c.Symbols() {
		lines = append(lines, fmt.Sprintf("%s %d %s", sym.Name, sym.Slot, sym.Type))
	}
	return strings.Join(lines, "\n")
}

// TestGoldenListings compiles the programs the golden runner uses and
// compares them with the checked-in listings.
func TestGoldenListings(t *testing.T) {
	files, err := filepath.Glob("../../tests/good/*.kt")
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			path, err := CompileAndWrite(file, t.TempDir())
			be.Err(t, err, nil)

			got, err := os.ReadFile(path)
			be.Err(t, err, nil)
			want, err := os.ReadFile(filepath.Join("../../tests/good/expected", filepath.Base(path)))
			be.Err(t, err, nil)
			be.Equal(t, string(got), string(want))
		})
	}

	bad, err := filepath.Glob("../../tests/bad/*.kt")
	be.Err(t, err, nil)
	for _, file := range bad {
		t.Run(filepath.Base(file), func(t *testing.T) {
			_, err := CompileAndWrite(file, t.TempDir())
			be.True(t, err != nil)
		})
	}
}

func TestCompileAndWrite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Counter.kt")
	err := os.WriteFile(src, []byte("fun main() { var i: Int = 0; while (i < 3) { i = i + 1 } println(i) }"), 0o644)
	be.Err(t, err, nil)

	outDir := filepath.Join(dir, "out")
	path, err := CompileAndWrite(src, outDir)
	be.Err(t, err, nil)
	be.Equal(t, path, filepath.Join(outDir, "Counter.j"))

	listing, err := os.ReadFile(path)
	be.Err(t, err, nil)
	be.True(t, strings.HasPrefix(string(listing), ".class public synchronized Counter\n"))
	be.True(t, strings.HasSuffix(string(listing), "\treturn\n.end method\n"))
}

func TestCompileAndWriteNextToSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Hello.kt")
	be.Err(t, os.WriteFile(src, []byte("fun main() { println(42) }"), 0o644), nil)

	path, err := CompileAndWrite(src, "")
	be.Err(t, err, nil)
	be.Equal(t, path, filepath.Join(dir, "Hello.j"))
}

func TestCompileAndWriteRejects(t *testing.T) {
	dir := t.TempDir()

	_, err := CompileAndWrite(filepath.Join(dir, "main.go"), dir)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), ".kt extension"))

	bad := filepath.Join(dir, "Bad.kt")
	be.Err(t, os.WriteFile(bad, []byte("fun main() { x = 1 }"), 0o644), nil)
	_, err = CompileAndWrite(bad, dir)
	be.True(t, errors.Is(err, checker.ErrUndeclared))

	_, statErr := os.Stat(filepath.Join(dir, "Bad.j"))
	be.True(t, errors.Is(statErr, os.ErrNotExist))

	broken := filepath.Join(dir, "Broken.kt")
	be.Err(t, os.WriteFile(broken, []byte("fun main() { var }"), 0o644), nil)
	_, err = CompileAndWrite(broken, dir)
	be.True(t, errors.Is(err, ErrSyntax))
}
