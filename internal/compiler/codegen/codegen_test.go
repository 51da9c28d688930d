package codegen

import (
	"strings"
	"testing"

	"github.com/arnavsurve/stups/internal/compiler/checker"
	"github.com/arnavsurve/stups/internal/compiler/lexer"
	"github.com/arnavsurve/stups/internal/compiler/parser"
	"github.com/nalgeon/be"
)

func verify(t *testing.T, src string) *checker.Verified {
	t.Helper()
	p := parser.NewParser(lexer.NewLexer(src))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected syntax errors: %v", errs)
	}
	v, err := checker.Check(prog)
	be.Err(t, err, nil)
	return v
}

func generate(t *testing.T, src string) *Output {
	t.Helper()
	out, err := Generate(verify(t, src), "Main")
	be.Err(t, err, nil)
	return out
}

// asm joins instructions the way the emitter writes them.
func asm(lines ...string) string {
	var b strings.Builder
	for _, l := range lines {
		if strings.HasSuffix(l, ":") {
			b.WriteString(l + "\n")
		} else {
			b.WriteString("\t" + l + "\n")
		}
	}
	return b.String()
}

func TestDeclareAssignPrint(t *testing.T) {
	out := generate(t, `fun main() {
  var x: Int = 2 + 3
  x = x * 2
  println(x)
}`)

	be.Equal(t, out.Body, asm(
		"iconst_2",
		"iconst_3",
		"iadd",
		"istore_0",
		"iload_0",
		"iconst_2",
		"imul",
		"istore_0",
		"getstatic java/lang/System/out Ljava/io/PrintStream;",
		"iload_0",
		"invokevirtual java/io/PrintStream/println(I)V",
	))
	be.Equal(t, out.MaxStack, 2)
	be.Equal(t, out.Locals, 1)
}

func TestWhileLoop(t *testing.T) {
	out := generate(t, "fun main() { var x: Int = 0; while (x < 10) { x = x + 1 } }")

	be.Equal(t, out.Body, asm(
		"iconst_0",
		"istore_0",
		"While0:",
		"iload_0",
		"bipush 10",
		"if_icmplt True1",
		"iconst_0",
		"goto Done1",
		"True1:",
		"iconst_1",
		"Done1:",
		"ifeq EndWhile0",
		"iload_0",
		"iconst_1",
		"iadd",
		"istore_0",
		"goto While0",
		"EndWhile0:",
	))
	be.Equal(t, out.Labels, []string{"While0", "EndWhile0", "True1", "Done1"})
	be.Equal(t, out.MaxStack, 2)
}

func TestNestedIfWhile(t *testing.T) {
	out := generate(t, `fun main() {
  var x: Int = 0
  if (true) {
    while (false) { x = 1 }
  } else {
    println(x)
  }
}`)

	be.Equal(t, out.Body, asm(
		"iconst_0",
		"istore_0",
		"iconst_1",
		"ifeq Else0",
		"While1:",
		"iconst_0",
		"ifeq EndWhile1",
		"iconst_1",
		"istore_0",
		"goto While1",
		"EndWhile1:",
		"goto EndIf0",
		"Else0:",
		"getstatic java/lang/System/out Ljava/io/PrintStream;",
		"iload_0",
		"invokevirtual java/io/PrintStream/println(I)V",
		"EndIf0:",
	))
}

func TestIfWithoutElse(t *testing.T) {
	out := generate(t, "fun main() { if (false) println(1) }")
	be.Equal(t, out.Body, asm(
		"iconst_0",
		"ifeq Else0",
		"getstatic java/lang/System/out Ljava/io/PrintStream;",
		"iconst_1",
		"invokevirtual java/io/PrintStream/println(I)V",
		"goto EndIf0",
		"Else0:",
		"EndIf0:",
	))
}

func TestLabelsAreUnique(t *testing.T) {
	out := generate(t, `fun main() {
  var i: Int = 0
  while (i < 3) {
    if (i == 1) { println(i) } else { println(i != 2) }
    while (false) {}
    i = i + 1
  }
}`)

	// One number per construct: while, <, if, ==, !=, while.
	be.Equal(t, len(out.Labels), 12)
	seen := map[string]bool{}
	for _, l := range out.Labels {
		be.Equal(t, seen[l], false)
		seen[l] = true
		be.Equal(t, strings.Count(out.Body, "\n"+l+":\n"), 1)
	}
}

func TestNotMaterializesBool(t *testing.T) {
	out := generate(t, "fun main() { var b: Bool = !true; println(b) }")
	be.Equal(t, out.Body, asm(
		"iconst_1",
		"ifeq True0",
		"iconst_0",
		"goto Done0",
		"True0:",
		"iconst_1",
		"Done0:",
		"istore_0",
		"getstatic java/lang/System/out Ljava/io/PrintStream;",
		"iload_0",
		"invokevirtual java/io/PrintStream/println(Z)V",
	))
	be.Equal(t, out.MaxStack, 2)
}

func TestSingleOpcodeOperators(t *testing.T) {
	out := generate(t, `fun main() {
  var a: Int = -7 % 4
  var b: Bool = true && false || true
  var c: Int = 9 / 3 - 1
}`)
	be.Equal(t, out.Body, asm(
		"bipush 7",
		"ineg",
		"iconst_4",
		"irem",
		"istore_0",
		"iconst_1",
		"iconst_0",
		"iand",
		"iconst_1",
		"ior",
		"istore_1",
		"bipush 9",
		"iconst_3",
		"idiv",
		"iconst_1",
		"isub",
		"istore_2",
	))
	be.Equal(t, out.Locals, 3)
	be.Equal(t, len(out.Labels), 0)
}

func TestCompareOpcodes(t *testing.T) {
	tests := []struct {
		op     string
		opcode string
	}{
		{"<", "if_icmplt"},
		{">", "if_icmpgt"},
		{"<=", "if_icmple"},
		{">=", "if_icmpge"},
		{"==", "if_icmpeq"},
		{"!=", "if_icmpne"},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			out := generate(t, "fun main() { println(1 "+tt.op+" 2) }")
			be.True(t, strings.Contains(out.Body, "\t"+tt.opcode+" True0\n"))
			be.True(t, strings.HasSuffix(out.Body, "\tinvokevirtual java/io/PrintStream/println(Z)V\n"))
		})
	}
}

func TestBoolEquality(t *testing.T) {
	out := generate(t, "fun main() { println(true == false) }")
	be.Equal(t, out.Body, asm(
		"getstatic java/lang/System/out Ljava/io/PrintStream;",
		"iconst_1",
		"iconst_0",
		"if_icmpeq True0",
		"iconst_0",
		"goto Done0",
		"True0:",
		"iconst_1",
		"Done0:",
		"invokevirtual java/io/PrintStream/println(Z)V",
	))
	be.Equal(t, out.MaxStack, 3)
}

func TestSlotInstructions(t *testing.T) {
	out := generate(t, `fun main() {
  var a: Int = 0
  var b: Int = 1
  var c: Int = 2
  var d: Int = 3
  var e: Int = 4
  e = a + c
}`)
	be.True(t, strings.Contains(out.Body, "\ticonst_2\n\tistore_2\n"))
	be.True(t, strings.Contains(out.Body, "\ticonst_3\n\tistore_3\n"))
	be.True(t, strings.HasSuffix(out.Body, "\tiload_0\n\tiload_2\n\tiadd\n\tistore 4\n"))
	be.Equal(t, out.Locals, 5)
}

// Stack depth is tracked per instruction, so the header carries the real
// maximum rather than a per-template estimate.
func TestMaxStackIsExact(t *testing.T) {
	tests := []struct {
		src  string
		want int
	}{
		{"fun main() {}", 0},
		{"fun main() { var x: Int = 1 }", 1},
		{"fun main() { println(1) }", 2},
		{"fun main() { println(1 < 2) }", 3},
		{"fun main() { println(1 + (2 + (3 + 4))) }", 5},
		{"fun main() { println(((1 + 2) + 3) + 4) }", 3},
		{"fun main() { var b: Bool = (1 < 2) == (3 < 4) }", 3},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			be.Equal(t, generate(t, tt.src).MaxStack, tt.want)
		})
	}
}

func TestEmptyProgramListing(t *testing.T) {
	out := generate(t, "fun main() {}")
	want := `.class public synchronized Main
.super java/lang/Object

.method public <init>()V
	.limit stack 1
	.limit locals 1
	aload_0
	invokenonvirtual java/lang/Object/<init>()V
	return
.end method

.method public static main([Ljava/lang/String;)V
	.limit stack 0
	.limit locals 1
	return
.end method
`
	be.Equal(t, out.Text, want)
	be.Equal(t, out.Body, "")
}

func TestIdempotent(t *testing.T) {
	src := `fun main() {
  var n: Int = 5
  var f: Int = 1
  while (n > 1) { f = f * n; n = n - 1 }
  println(f)
  println(f >= 100)
}`
	first := generate(t, src)
	second := generate(t, src)
	be.Equal(t, first.Text, second.Text)
}

func TestGenerateTwice(t *testing.T) {
	g := NewGenerator(verify(t, "fun main() {}"), "Main")
	_, err := g.Generate()
	be.Err(t, err, nil)
	_, err = g.Generate()
	be.True(t, err != nil)
}
