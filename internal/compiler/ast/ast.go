package ast

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/arnavsurve/stups/internal/compiler/symbols"
	"github.com/arnavsurve/stups/internal/compiler/token"
)

// --- Interfaces ---
type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Position
}

// Statement is implemented only by the statement nodes of this package.
// Adding a statement kind means adding a StatementVisitor method, so every
// pass that walks statements stops compiling until it handles the new kind.
type Statement interface {
	Node
	Accept(v StatementVisitor)
	statementNode()
}

// Expression is the expression counterpart of Statement.
type Expression interface {
	Node
	Accept(v ExpressionVisitor)
	expressionNode()
}

type StatementVisitor interface {
	VisitDeclaration(s *Declaration)
	VisitAssignment(s *Assignment)
	VisitIf(s *If)
	VisitWhile(s *While)
	VisitPrint(s *Print)
	VisitBlock(s *Block)
}

type ExpressionVisitor interface {
	VisitIntegerLiteral(e *IntegerLiteral)
	VisitBooleanLiteral(e *BooleanLiteral)
	VisitIdentifier(e *Identifier)
	VisitUnary(e *UnaryExpression)
	VisitBinary(e *BinaryExpression)
}

// --- Program ---

// Program is the single function of a compilation unit: its leading
// declarations followed by its statements, all in one flat scope.
type Program struct {
	Token        token.Token // fun
	Name         string
	Declarations []*Declaration
	Statements   []Statement
}

func (p *Program) TokenLiteral() string { return p.Token.Literal }
func (p *Program) Pos() token.Position  { return p.Token.Pos() }

// Body returns declarations and statements in program order.
func (p *Program) Body() []Statement {
	body := make([]Statement, 0, len(p.Declarations)+len(p.Statements))
	for _, d := range p.Declarations {
		body = append(body, d)
	}
	return append(body, p.Statements...)
}

// String for Program concatenates the string representations of its statements
func (p *Program) String() string {
	var out bytes.Buffer
	out.WriteString("fun " + p.Name + "() {\n")
	for _, s := range p.Body() {
		out.WriteString("\t" + s.String() + "\n")
	}
	out.WriteString("}")
	return out.String()
}

// --- Statements ---

// Declaration -> var x: Int = 1
type Declaration struct {
	Token     token.Token // var or val
	Name      *Identifier
	TypeToken token.Token
	Type      symbols.Type
	Value     Expression
}

func (d *Declaration) statementNode()            {}
func (d *Declaration) Accept(v StatementVisitor) { v.VisitDeclaration(d) }
func (d *Declaration) TokenLiteral() string      { return d.Token.Literal }
func (d *Declaration) Pos() token.Position       { return d.Token.Pos() }
func (d *Declaration) String() string {
	return fmt.Sprintf("%s %s: %s = %s", d.Token.Literal, d.Name, d.Type, d.Value)
}

// Assignment -> x = 456
type Assignment struct {
	Token token.Token // =
	Name  *Identifier
	Value Expression
}

func (a *Assignment) statementNode()            {}
func (a *Assignment) Accept(v StatementVisitor) { v.VisitAssignment(a) }
func (a *Assignment) TokenLiteral() string      { return a.Token.Literal }
func (a *Assignment) Pos() token.Position       { return a.Name.Pos() }
func (a *Assignment) String() string {
	return a.Name.String() + " = " + a.Value.String()
}

// If -> if (cond) { ... } else { ... }
type If struct {
	Token     token.Token // if
	Condition Expression
	Then      []Statement
	Else      []Statement // empty when there is no else branch
}

func (i *If) statementNode()            {}
func (i *If) Accept(v StatementVisitor) { v.VisitIf(i) }
func (i *If) TokenLiteral() string      { return i.Token.Literal }
func (i *If) Pos() token.Position       { return i.Token.Pos() }
func (i *If) String() string {
	var out bytes.Buffer
	out.WriteString("if (" + i.Condition.String() + ") ")
	writeBody(&out, i.Then)
	if len(i.Else) > 0 {
		out.WriteString(" else ")
		writeBody(&out, i.Else)
	}
	return out.String()
}

// While -> while (cond) { ... }
type While struct {
	Token     token.Token // while
	Condition Expression
	Body      []Statement
}

func (w *While) statementNode()            {}
func (w *While) Accept(v StatementVisitor) { v.VisitWhile(w) }
func (w *While) TokenLiteral() string      { return w.Token.Literal }
func (w *While) Pos() token.Position       { return w.Token.Pos() }
func (w *While) String() string {
	var out bytes.Buffer
	out.WriteString("while (" + w.Condition.String() + ") ")
	writeBody(&out, w.Body)
	return out.String()
}

// Print -> println(x)
type Print struct {
	Token token.Token // println
	Value Expression
}

func (p *Print) statementNode()            {}
func (p *Print) Accept(v StatementVisitor) { v.VisitPrint(p) }
func (p *Print) TokenLiteral() string      { return p.Token.Literal }
func (p *Print) Pos() token.Position       { return p.Token.Pos() }
func (p *Print) String() string {
	return p.TokenLiteral() + "(" + p.Value.String() + ")"
}

// Block -> { statement1 \n statement2 }
type Block struct {
	Token      token.Token // {
	Statements []Statement
}

func (b *Block) statementNode()            {}
func (b *Block) Accept(v StatementVisitor) { v.VisitBlock(b) }
func (b *Block) TokenLiteral() string      { return b.Token.Literal }
func (b *Block) Pos() token.Position       { return b.Token.Pos() }
func (b *Block) String() string {
	var out bytes.Buffer
	writeBody(&out, b.Statements)
	return out.String()
}

func writeBody(out *bytes.Buffer, stmts []Statement) {
	out.WriteString("{ ")
	for _, s := range stmts {
		out.WriteString(s.String() + "; ")
	}
	out.WriteString("}")
}

// --- Expressions ---

// Identifier -> varName
type Identifier struct {
	Token token.Token // IDENT
	Value string
}

func (i *Identifier) expressionNode()            {}
func (i *Identifier) Accept(v ExpressionVisitor) { v.VisitIdentifier(i) }
func (i *Identifier) TokenLiteral() string       { return i.Token.Literal }
func (i *Identifier) Pos() token.Position        { return i.Token.Pos() }
func (i *Identifier) String() string             { return i.Value }

// IntegerLiteral -> 123
type IntegerLiteral struct {
	Token token.Token
	Value int32
}

func (il *IntegerLiteral) expressionNode()            {}
func (il *IntegerLiteral) Accept(v ExpressionVisitor) { v.VisitIntegerLiteral(il) }
func (il *IntegerLiteral) TokenLiteral() string       { return il.Token.Literal }
func (il *IntegerLiteral) Pos() token.Position        { return il.Token.Pos() }
func (il *IntegerLiteral) String() string {
	return strconv.FormatInt(int64(il.Value), 10)
}

// BooleanLiteral -> true / false
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()            {}
func (bl *BooleanLiteral) Accept(v ExpressionVisitor) { v.VisitBooleanLiteral(bl) }
func (bl *BooleanLiteral) TokenLiteral() string       { return bl.Token.Literal }
func (bl *BooleanLiteral) Pos() token.Position        { return bl.Token.Pos() }
func (bl *BooleanLiteral) String() string             { return strconv.FormatBool(bl.Value) }

// UnaryExpression -> !x or -x
type UnaryExpression struct {
	Token    token.Token // ! or -
	Operator UnaryOp
	Operand  Expression
}

func (ue *UnaryExpression) expressionNode()            {}
func (ue *UnaryExpression) Accept(v ExpressionVisitor) { v.VisitUnary(ue) }
func (ue *UnaryExpression) TokenLiteral() string       { return ue.Token.Literal }
func (ue *UnaryExpression) Pos() token.Position        { return ue.Token.Pos() }
func (ue *UnaryExpression) String() string {
	return "(" + ue.Operator.String() + ue.Operand.String() + ")"
}

// BinaryExpression -> (left + right)
type BinaryExpression struct {
	Token    token.Token // the operator token
	Left     Expression
	Operator BinaryOp
	Right    Expression
}

func (be *BinaryExpression) expressionNode()            {}
func (be *BinaryExpression) Accept(v ExpressionVisitor) { v.VisitBinary(be) }
func (be *BinaryExpression) TokenLiteral() string       { return be.Token.Literal }
func (be *BinaryExpression) Pos() token.Position        { return be.Token.Pos() }
func (be *BinaryExpression) String() string {
	return "(" + be.Left.String() + " " + be.Operator.String() + " " + be.Right.String() + ")"
}

// PrintAST writes an indented dump of the tree, one node per line.
func PrintAST(w io.Writer, node Node, indent string) {
	switch n := node.(type) {
	case *Program:
		fmt.Fprintf(w, "%sProgram %s\n", indent, n.Name)
		for _, stmt := range n.Body() {
			PrintAST(w, stmt, indent+"  ")
		}

	case *Declaration:
		fmt.Fprintf(w, "%sDeclaration %s: %s\n", indent, n.Name, n.Type)
		PrintAST(w, n.Value, indent+"  ")

	case *Assignment:
		fmt.Fprintf(w, "%sAssignment %s\n", indent, n.Name)
		PrintAST(w, n.Value, indent+"  ")

	case *If:
		fmt.Fprintln(w, indent+"If")
		PrintAST(w, n.Condition, indent+"  ")
		fmt.Fprintln(w, indent+"  Then:")
		for _, stmt := range n.Then {
			PrintAST(w, stmt, indent+"    ")
		}
		if len(n.Else) > 0 {
			fmt.Fprintln(w, indent+"  Else:")
			for _, stmt := range n.Else {
				PrintAST(w, stmt, indent+"    ")
			}
		}

	case *While:
		fmt.Fprintln(w, indent+"While")
		PrintAST(w, n.Condition, indent+"  ")
		for _, stmt := range n.Body {
			PrintAST(w, stmt, indent+"  ")
		}

	case *Print:
		fmt.Fprintln(w, indent+"Print")
		PrintAST(w, n.Value, indent+"  ")

	case *Block:
		fmt.Fprintln(w, indent+"Block")
		for _, stmt := range n.Statements {
			PrintAST(w, stmt, indent+"  ")
		}

	case *Identifier:
		fmt.Fprintf(w, "%sIdentifier: %s\n", indent, n.Value)

	case *IntegerLiteral:
		fmt.Fprintf(w, "%sIntegerLiteral: %d\n", indent, n.Value)

	case *BooleanLiteral:
		fmt.Fprintf(w, "%sBooleanLiteral: %t\n", indent, n.Value)

	case *UnaryExpression:
		fmt.Fprintf(w, "%sUnaryExpression %s\n", indent, n.Operator)
		PrintAST(w, n.Operand, indent+"  ")

	case *BinaryExpression:
		fmt.Fprintf(w, "%sBinaryExpression %s\n", indent, n.Operator)
		PrintAST(w, n.Left, indent+"  ")
		PrintAST(w, n.Right, indent+"  ")

	default:
		fmt.Fprintf(w, "%s<unknown node type: %T>\n", indent, n)
	}
}
