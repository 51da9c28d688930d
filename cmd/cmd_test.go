package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arnavsurve/stups/internal/compiler"
	"github.com/arnavsurve/stups/internal/compiler/checker"
	"github.com/nalgeon/be"
)

// run executes the root command with fresh flag values and returns what
// it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	outDir, verbose = "", false

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := ExecuteArgs(args)
	return buf.String(), err
}

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	be.Err(t, os.WriteFile(path, []byte(src), 0o644), nil)
	return path
}

func TestLegacyArgs(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"-compile", "a.kt"}, []string{"compile", "a.kt"}},
		{[]string{"-liveness", "a.kt"}, []string{"liveness", "a.kt"}},
		{[]string{"compile", "a.kt"}, []string{"compile", "a.kt"}},
		{[]string{"-v", "check", "a.kt"}, []string{"-v", "check", "a.kt"}},
		{[]string{}, []string{}},
	}
	for _, tt := range tests {
		be.Equal(t, legacyArgs(tt.in), tt.want)
	}
}

func TestCompile(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "Sum.kt", "fun main() { var s: Int = 1 + 2; println(s) }")
	out := filepath.Join(dir, "build")

	output, err := run(t, "-compile", src, "-o", out)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(output, "✔︎ wrote assembly to "+filepath.Join(out, "Sum.j")))

	listing, err := os.ReadFile(filepath.Join(out, "Sum.j"))
	be.Err(t, err, nil)
	be.True(t, strings.Contains(string(listing), "\tinvokevirtual java/io/PrintStream/println(I)V\n"))
}

func TestCompileVerbose(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "V.kt", "fun main() { var x: Int = 1 }")

	output, err := run(t, "compile", "-v", src)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(output, "AST:\n  Program main\n    Declaration x: Int\n"))
	be.True(t, strings.Contains(output, "Symbols:\n"))
	be.True(t, strings.Contains(output, "slot 0"))

	_, err = os.Stat(filepath.Join(dir, "V.j"))
	be.Err(t, err, nil)
}

func TestCompileSemanticErrors(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "Bad.kt", "fun main() {\n  var b: Bool = 1\n  c = 2\n}")

	_, err := run(t, "compile", src)
	be.True(t, errors.Is(err, checker.ErrTypeMismatch))
	be.True(t, errors.Is(err, checker.ErrUndeclared))
	be.Equal(t, err.Error(), "2:7: Semantic Error: incompatible types, required Bool, found Int\n"+
		"3:3: Semantic Error: variable 'c' not declared")
}

func TestCompileSyntaxError(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "Bad.kt", "fun main() { println( }")

	_, err := run(t, "compile", src)
	be.True(t, errors.Is(err, compiler.ErrSyntax))
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "Good.kt", "fun main() { var ok: Boolean = 1 < 2 }")
	bad := writeSource(t, dir, "Bad.kt", "fun main() { if (3) {} }")

	output, err := run(t, "check", good)
	be.Err(t, err, nil)
	be.True(t, strings.HasSuffix(output, "Good.kt: ok\n"))

	_, err = run(t, "check", bad)
	var list checker.ErrorList
	be.True(t, errors.As(err, &list))
	be.Equal(t, list[0].Kind, checker.ConditionTypeMismatch)

	_, err = os.Stat(filepath.Join(dir, "Good.j"))
	be.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLivenessDoesNothing(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "L.kt", "fun main() {}")

	output, err := run(t, "-liveness", src)
	be.Err(t, err, nil)
	be.Equal(t, output, "")

	entries, err := os.ReadDir(dir)
	be.Err(t, err, nil)
	be.Equal(t, len(entries), 1)
}

func TestBadInvocations(t *testing.T) {
	_, err := run(t)
	be.True(t, errors.Is(err, ErrUsage))

	_, err = run(t, "bogus")
	be.True(t, err != nil)

	_, err = run(t, "compile")
	be.True(t, err != nil)

	_, err = run(t, "compile", "a.kt", "b.kt")
	be.True(t, err != nil)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	output, err := run(t, "init", "Hello", "-o", dir)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(output, "✔︎ created "))

	path := filepath.Join(dir, "Hello.kt")
	_, err = compiler.CompileAndWrite(path, dir)
	be.Err(t, err, nil)

	_, err = run(t, "init", "Hello", "-o", dir)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "already exists"))
}

func TestSession(t *testing.T) {
	s := &session{}

	delta, err := s.eval("var x: Int = 1")
	be.Err(t, err, nil)
	be.Equal(t, delta, "\ticonst_1\n\tistore_0\n")

	delta, err = s.eval("println(x)")
	be.Err(t, err, nil)
	be.Equal(t, delta, "\tgetstatic java/lang/System/out Ljava/io/PrintStream;\n"+
		"\tiload_0\n"+
		"\tinvokevirtual java/io/PrintStream/println(I)V\n")

	_, err = s.eval("y = 2")
	be.True(t, errors.Is(err, checker.ErrUndeclared))
	be.Equal(t, len(s.stmts), 2)

	delta, err = s.eval("while (x < 3) {\n  x = x + 1\n}")
	be.Err(t, err, nil)
	be.True(t, strings.HasPrefix(delta, "While0:\n"))
	be.True(t, strings.HasSuffix(delta, "\tgoto While0\nEndWhile0:\n"))

	var buf bytes.Buffer
	be.Err(t, s.command(&buf, ":slots"), nil)
	be.True(t, strings.Contains(buf.String(), "slot 0"))

	buf.Reset()
	be.Err(t, s.command(&buf, ":asm"), nil)
	be.True(t, strings.HasPrefix(buf.String(), ".class public synchronized Repl\n"))

	be.Err(t, s.command(&buf, ":reset"), nil)
	be.Equal(t, len(s.stmts), 0)
	delta, err = s.eval("var b: Bool = true")
	be.Err(t, err, nil)
	be.Equal(t, delta, "\ticonst_1\n\tistore_0\n")

	be.True(t, s.command(&buf, ":nope") != nil)
}

func TestIncomplete(t *testing.T) {
	be.True(t, incomplete("while (x < 3) {"))
	be.True(t, incomplete("println((1"))
	be.Equal(t, incomplete("{ x = 1 }"), false)
	be.Equal(t, incomplete("x = 1"), false)
}
