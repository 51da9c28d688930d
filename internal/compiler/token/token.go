package token

import "fmt"

type TokenType string

const (
	// Single character tokens
	TokenLParen    TokenType = "LPAREN"    // (
	TokenRParen    TokenType = "RPAREN"    // )
	TokenLBrace    TokenType = "LBRACE"    // {
	TokenRBrace    TokenType = "RBRACE"    // }
	TokenAssign    TokenType = "ASSIGN"    // =
	TokenPlus      TokenType = "PLUS"      // +
	TokenMinus     TokenType = "MINUS"     // -
	TokenAsterisk  TokenType = "ASTERISK"  // *
	TokenSlash     TokenType = "SLASH"     // /
	TokenPercent   TokenType = "PERCENT"   // %
	TokenColon     TokenType = "COLON"     // :
	TokenSemicolon TokenType = "SEMICOLON" // ;
	TokenBang      TokenType = "BANG"      // !
	TokenLT        TokenType = "LT"        // <
	TokenGT        TokenType = "GT"        // >

	// Two character tokens
	TokenEq    TokenType = "EQ"     // ==
	TokenNotEq TokenType = "NOT_EQ" // !=
	TokenLE    TokenType = "LE"     // <=
	TokenGE    TokenType = "GE"     // >=
	TokenAnd   TokenType = "AND"    // &&
	TokenOr    TokenType = "OR"     // ||

	// Keywords
	TokenFun     TokenType = "FUN"     // fun
	TokenVar     TokenType = "VAR"     // var
	TokenVal     TokenType = "VAL"     // val
	TokenIf      TokenType = "IF"      // if
	TokenElse    TokenType = "ELSE"    // else
	TokenWhile   TokenType = "WHILE"   // while
	TokenPrintln TokenType = "PRINTLN" // println or print
	TokenTrue    TokenType = "TRUE"    // true
	TokenFalse   TokenType = "FALSE"   // false

	// Literals & Identifiers
	TokenInt   TokenType = "INT"   // 43
	TokenIdent TokenType = "IDENT" // Identifier (e.g. variable name)

	// Int, Bool and Boolean are lexed as TokenTypeLiteral
	TokenTypeLiteral TokenType = "TYPE_LITERAL"

	// Special
	TokenEOF     TokenType = "EOF"
	TokenIllegal TokenType = "ILLEGAL"
)

// Position is a 1-indexed line/column location in the source text.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether the position was set by the lexer.
func (p Position) IsValid() bool {
	return p.Line > 0
}

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

func (t Token) Pos() Position {
	return Position{Line: t.Line, Column: t.Column}
}

func (t Token) IsTypeKeyword() bool {
	return t.Type == TokenTypeLiteral
}
