package ast

import "github.com/arnavsurve/stups/internal/compiler/token"

type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLT
	OpGT
	OpLE
	OpGE
	OpEq
	OpNotEq
	OpAnd
	OpOr
)

// OpClass groups binary operators by their typing rule.
type OpClass int

const (
	Arithmetic OpClass = iota // Int, Int -> Int
	Relational                // Int, Int -> Bool
	Equality                  // T, T -> Bool
	Logical                   // Bool, Bool -> Bool
)

var binaryOpText = [...]string{
	OpAdd:   "+",
	OpSub:   "-",
	OpMul:   "*",
	OpDiv:   "/",
	OpMod:   "%",
	OpLT:    "<",
	OpGT:    ">",
	OpLE:    "<=",
	OpGE:    ">=",
	OpEq:    "==",
	OpNotEq: "!=",
	OpAnd:   "&&",
	OpOr:    "||",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

func (op BinaryOp) Class() OpClass {
	switch op {
	case OpLT, OpGT, OpLE, OpGE:
		return Relational
	case OpEq, OpNotEq:
		return Equality
	case OpAnd, OpOr:
		return Logical
	default:
		return Arithmetic
	}
}

// BinaryOps maps operator tokens to their operator.
var BinaryOps = map[token.TokenType]BinaryOp{
	token.TokenPlus:     OpAdd,
	token.TokenMinus:    OpSub,
	token.TokenAsterisk: OpMul,
	token.TokenSlash:    OpDiv,
	token.TokenPercent:  OpMod,
	token.TokenLT:       OpLT,
	token.TokenGT:       OpGT,
	token.TokenLE:       OpLE,
	token.TokenGE:       OpGE,
	token.TokenEq:       OpEq,
	token.TokenNotEq:    OpNotEq,
	token.TokenAnd:      OpAnd,
	token.TokenOr:       OpOr,
}

type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpNegate
)

func (op UnaryOp) String() string {
	if op == OpNot {
		return "!"
	}
	return "-"
}
