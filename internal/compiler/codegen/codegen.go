// Package codegen lowers a verified program into a Jasmin listing for the
// JVM operand-stack machine.
package codegen

import (
	"fmt"

	"github.com/arnavsurve/stups/internal/compiler/ast"
	"github.com/arnavsurve/stups/internal/compiler/checker"
	"github.com/arnavsurve/stups/internal/compiler/emitter"
	"github.com/arnavsurve/stups/internal/compiler/symbols"
)

// Conditional branch opcodes for the comparison operators. Each takes two
// ints off the stack and jumps when the comparison holds.
var compareOps = map[ast.BinaryOp]string{
	ast.OpLT:    "if_icmplt",
	ast.OpGT:    "if_icmpgt",
	ast.OpLE:    "if_icmple",
	ast.OpGE:    "if_icmpge",
	ast.OpEq:    "if_icmpeq",
	ast.OpNotEq: "if_icmpne",
}

// Opcodes that combine two ints into one. Booleans are 0/1 ints, so the
// bitwise and/or implement the logical operators.
var valueOps = map[ast.BinaryOp]string{
	ast.OpAdd: "iadd",
	ast.OpSub: "isub",
	ast.OpMul: "imul",
	ast.OpDiv: "idiv",
	ast.OpMod: "irem",
	ast.OpAnd: "iand",
	ast.OpOr:  "ior",
}

// Output is a finished listing and the totals written into its header.
type Output struct {
	Text     string
	Body     string
	MaxStack int
	Locals   int
	Labels   []string
}

// Generator holds the state of one lowering pass. Labels and stack depth
// live here, so a new Generator starts from zero.
type Generator struct {
	prog      *checker.Verified
	className string
	w         *emitter.Emitter

	nextLabel int
	labels    []string
	depth     int
	maxStack  int
	done      bool
}

func NewGenerator(prog *checker.Verified, className string) *Generator {
	return &Generator{
		prog:      prog,
		className: className,
		w:         emitter.NewEmitter(),
	}
}

// Generate lowers the program and returns the complete listing.
func Generate(prog *checker.Verified, className string) (*Output, error) {
	return NewGenerator(prog, className).Generate()
}

func (g *Generator) Generate() (*Output, error) {
	if g.done {
		return nil, fmt.Errorf("codegen: %s already generated", g.className)
	}
	g.done = true

	for _, stmt := range g.prog.Program().Body() {
		stmt.Accept(g)
	}

	// main's String[] argument occupies a local even when no variable does.
	locals := max(g.prog.SlotCount(), 1)
	if err := g.w.Finish(g.className, g.maxStack, locals); err != nil {
		return nil, err
	}
	return &Output{
		Text:     g.w.String(),
		Body:     g.w.Body(),
		MaxStack: g.maxStack,
		Locals:   locals,
		Labels:   g.labels,
	}, nil
}

// --- Labels and stack depth ---

// newLabels draws one number from the counter and builds a label per
// prefix from it, so labels of one construct share a suffix.
func (g *Generator) newLabels(prefixes ...string) []string {
	n := g.nextLabel
	g.nextLabel++
	out := make([]string, len(prefixes))
	for i, p := range prefixes {
		out[i] = fmt.Sprintf("%s%d", p, n)
	}
	g.labels = append(g.labels, out...)
	return out
}

func (g *Generator) push(n int) {
	g.depth += n
	if g.depth > g.maxStack {
		g.maxStack = g.depth
	}
}

func (g *Generator) pop(n int) {
	g.depth -= n
}

// --- Statements ---

func (g *Generator) VisitDeclaration(s *ast.Declaration) {
	g.store(s.Name.Value, s.Value)
}

func (g *Generator) VisitAssignment(s *ast.Assignment) {
	g.store(s.Name.Value, s.Value)
}

func (g *Generator) store(name string, value ast.Expression) {
	value.Accept(g)
	g.w.Store(g.prog.SlotOf(name))
	g.pop(1)
}

func (g *Generator) VisitPrint(s *ast.Print) {
	g.w.OutputTarget()
	g.push(1)
	s.Value.Accept(g)

	descriptor := emitter.DescriptorInt
	if g.prog.TypeOf(s.Value) == symbols.Bool {
		descriptor = emitter.DescriptorBool
	}
	g.w.Println(descriptor)
	g.pop(2)
}

func (g *Generator) VisitBlock(s *ast.Block) {
	g.lowerAll(s.Statements)
}

func (g *Generator) VisitIf(s *ast.If) {
	l := g.newLabels("Else", "EndIf")
	elseLabel, endLabel := l[0], l[1]

	g.condition(s.Condition, elseLabel)
	g.lowerAll(s.Then)
	g.w.Goto(endLabel)
	g.w.Label(elseLabel)
	g.lowerAll(s.Else)
	g.w.Label(endLabel)
}

func (g *Generator) VisitWhile(s *ast.While) {
	l := g.newLabels("While", "EndWhile")
	startLabel, endLabel := l[0], l[1]

	g.w.Label(startLabel)
	g.condition(s.Condition, endLabel)
	g.lowerAll(s.Body)
	g.w.Goto(startLabel)
	g.w.Label(endLabel)
}

// condition evaluates cond and jumps to target when it is false.
func (g *Generator) condition(cond ast.Expression, target string) {
	cond.Accept(g)
	g.w.Branch("ifeq", target)
	g.pop(1)
}

func (g *Generator) lowerAll(stmts []ast.Statement) {
	for _, stmt := range stmts {
		stmt.Accept(g)
	}
}

// --- Expressions ---

func (g *Generator) VisitIntegerLiteral(e *ast.IntegerLiteral) {
	g.w.PushInt(e.Value)
	g.push(1)
}

func (g *Generator) VisitBooleanLiteral(e *ast.BooleanLiteral) {
	g.w.PushBool(e.Value)
	g.push(1)
}

func (g *Generator) VisitIdentifier(e *ast.Identifier) {
	g.w.Load(g.prog.SlotOf(e.Value))
	g.push(1)
}

func (g *Generator) VisitUnary(e *ast.UnaryExpression) {
	e.Operand.Accept(g)
	switch e.Operator {
	case ast.OpNegate:
		g.w.Instr("ineg")
	case ast.OpNot:
		// No boolean negation opcode: a zero operand jumps to the true arm.
		g.materialize("ifeq", 1)
	}
}

func (g *Generator) VisitBinary(e *ast.BinaryExpression) {
	e.Left.Accept(g)
	e.Right.Accept(g)

	if op, ok := valueOps[e.Operator]; ok {
		g.w.Instr(op)
		g.pop(1)
		return
	}
	g.materialize(compareOps[e.Operator], 2)
}

// materialize turns a conditional branch into a 0/1 value on the stack.
// The branch pops operands values and each arm pushes one.
func (g *Generator) materialize(branch string, operands int) {
	l := g.newLabels("True", "Done")
	trueLabel, doneLabel := l[0], l[1]

	g.w.Branch(branch, trueLabel)
	g.pop(operands)

	g.w.PushBool(false)
	g.push(1)
	g.w.Goto(doneLabel)
	g.pop(1) // the false arm's value is not on the stack at trueLabel

	g.w.Label(trueLabel)
	g.w.PushBool(true)
	g.push(1)
	g.w.Label(doneLabel)
}
