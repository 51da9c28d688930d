// Package checker assigns storage slots to declared variables and infers
// the type of every expression in a single post-order walk.
//
// Errors never stop the walk. An expression whose type cannot be
// determined stays Unresolved, and checks that depend on it are skipped, so
// each mistake is reported once, by the first node that observes it.
package checker

import (
	"errors"
	"fmt"

	"github.com/arnavsurve/stups/internal/compiler/ast"
	"github.com/arnavsurve/stups/internal/compiler/scope"
	"github.com/arnavsurve/stups/internal/compiler/symbols"
	"github.com/arnavsurve/stups/internal/compiler/token"
)

type Checker struct {
	scope   *scope.Scope
	types   map[ast.Expression]symbols.Type
	errors  ErrorList
	prog    *ast.Program
	checked bool
}

// New returns a Checker for one compilation unit.
func New() *Checker {
	return &Checker{
		scope: scope.NewScope("main"),
		types: make(map[ast.Expression]symbols.Type),
	}
}

// Check walks the program once. A Checker checks exactly one program.
func (c *Checker) Check(prog *ast.Program) {
	if c.checked {
		panic("checker: Check called twice on the same Checker")
	}
	c.checked = true
	c.prog = prog
	if prog.Name != "" {
		c.scope.Name = prog.Name
	}
	for _, stmt := range prog.Body() {
		stmt.Accept(c)
	}
}

// HasErrors reports whether any diagnostic was recorded.
func (c *Checker) HasErrors() bool {
	return len(c.errors) > 0
}

// Errors returns the diagnostics in the order they were found.
func (c *Checker) Errors() ErrorList {
	return c.errors
}

// TypeOf returns the inferred type of e, or Unresolved.
func (c *Checker) TypeOf(e ast.Expression) symbols.Type {
	return c.types[e]
}

// SlotOf returns the slot of a declared variable. Valid after Check.
func (c *Checker) SlotOf(name string) (int, bool) {
	sym, ok := c.scope.Lookup(name)
	if !ok {
		return 0, false
	}
	return sym.Slot, true
}

// SlotCount is the number of declared variables. Valid after Check.
func (c *Checker) SlotCount() int {
	return c.scope.Len()
}

// Symbols lists the declared variables in slot order.
func (c *Checker) Symbols() []symbols.Symbol {
	return c.scope.Symbols()
}

// Verify returns the checked program in a form the code generator
// accepts. It fails unless Check ran and found no errors.
func (c *Checker) Verify() (*Verified, error) {
	if !c.checked {
		return nil, errors.New("checker: Verify called before Check")
	}
	if c.HasErrors() {
		return nil, c.errors
	}
	return &Verified{checker: c}, nil
}

// Check runs a fresh Checker over prog and verifies the result.
func Check(prog *ast.Program) (*Verified, error) {
	c := New()
	c.Check(prog)
	return c.Verify()
}

// --- Diagnostics ---

func (c *Checker) addError(kind Kind, pos token.Position, format string, args ...any) {
	c.errors = append(c.errors, &Diagnostic{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (c *Checker) record(e ast.Expression, t symbols.Type) {
	c.types[e] = t
}

// requireType reports a mismatch unless found is want or Unresolved.
func (c *Checker) requireType(pos token.Position, want, found symbols.Type) {
	if found == symbols.Unresolved || found == want {
		return
	}
	c.addError(TypeMismatch, pos, "incompatible types, required %s, found %s", want, found)
}

func (c *Checker) checkCondition(cond ast.Expression) {
	cond.Accept(c)
	found := c.TypeOf(cond)
	if found == symbols.Unresolved || found == symbols.Bool {
		return
	}
	c.addError(ConditionTypeMismatch, cond.Pos(), "condition must be Bool, found %s", found)
}

// --- Statements ---

func (c *Checker) VisitDeclaration(s *ast.Declaration) {
	s.Value.Accept(c)

	if _, err := c.scope.Define(s.Name.Value, s.Type, s.Name.Pos()); err != nil {
		c.addError(DuplicateDeclaration, s.Name.Pos(), "%v", err)
	}
	c.requireType(s.Name.Pos(), s.Type, c.TypeOf(s.Value))
}

func (c *Checker) VisitAssignment(s *ast.Assignment) {
	s.Value.Accept(c)

	sym, ok := c.scope.Lookup(s.Name.Value)
	if !ok {
		c.addError(UndeclaredVariable, s.Name.Pos(), "variable '%s' not declared", s.Name.Value)
		return
	}
	c.requireType(s.Name.Pos(), sym.Type, c.TypeOf(s.Value))
}

func (c *Checker) VisitIf(s *ast.If) {
	c.checkCondition(s.Condition)
	c.visitAll(s.Then)
	c.visitAll(s.Else)
}

func (c *Checker) VisitWhile(s *ast.While) {
	c.checkCondition(s.Condition)
	c.visitAll(s.Body)
}

func (c *Checker) VisitPrint(s *ast.Print) {
	s.Value.Accept(c)
}

func (c *Checker) VisitBlock(s *ast.Block) {
	c.visitAll(s.Statements)
}

func (c *Checker) visitAll(stmts []ast.Statement) {
	for _, stmt := range stmts {
		stmt.Accept(c)
	}
}

// --- Expressions ---

func (c *Checker) VisitIntegerLiteral(e *ast.IntegerLiteral) {
	c.record(e, symbols.Int)
}

func (c *Checker) VisitBooleanLiteral(e *ast.BooleanLiteral) {
	c.record(e, symbols.Bool)
}

func (c *Checker) VisitIdentifier(e *ast.Identifier) {
	sym, ok := c.scope.Lookup(e.Value)
	if !ok {
		c.addError(UndeclaredVariable, e.Pos(), "variable '%s' not declared", e.Value)
		return
	}
	c.record(e, sym.Type)
}

func (c *Checker) VisitUnary(e *ast.UnaryExpression) {
	e.Operand.Accept(c)

	want := symbols.Int
	if e.Operator == ast.OpNot {
		want = symbols.Bool
	}
	found := c.TypeOf(e.Operand)
	if found == symbols.Unresolved {
		return
	}
	if found != want {
		c.addError(TypeMismatch, e.Pos(), "operator '%s' requires %s, found %s", e.Operator, want, found)
		return
	}
	c.record(e, want)
}

func (c *Checker) VisitBinary(e *ast.BinaryExpression) {
	e.Left.Accept(c)
	e.Right.Accept(c)

	left, right := c.TypeOf(e.Left), c.TypeOf(e.Right)
	if left == symbols.Unresolved || right == symbols.Unresolved {
		return
	}
	if left != right {
		c.addError(TypeMismatch, e.Pos(), "incompatible operand types %s and %s for '%s'", left, right, e.Operator)
		return
	}

	switch e.Operator.Class() {
	case ast.Arithmetic:
		if c.requireOperands(e, symbols.Int, left) {
			c.record(e, symbols.Int)
		}
	case ast.Relational:
		if c.requireOperands(e, symbols.Int, left) {
			c.record(e, symbols.Bool)
		}
	case ast.Equality:
		c.record(e, symbols.Bool)
	case ast.Logical:
		if c.requireOperands(e, symbols.Bool, left) {
			c.record(e, symbols.Bool)
		}
	}
}

// requireOperands checks the shared operand type of a binary expression.
func (c *Checker) requireOperands(e *ast.BinaryExpression, want, found symbols.Type) bool {
	if found == want {
		return true
	}
	c.addError(TypeMismatch, e.Pos(), "operator '%s' requires %s operands, found %s", e.Operator, want, found)
	return false
}
