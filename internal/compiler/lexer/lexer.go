package lexer

import "github.com/arnavsurve/stups/internal/compiler/token"

type Lexer struct {
	input        string
	position     int  // current char index
	readPosition int  // next char index
	ch           byte // current char

	line   int // line of ch (1-indexed)
	column int // column of ch (1-indexed)
}

func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// readChar advances the lexer's position and updates the current character.
// A newline belongs to the line it ends; the character after it starts the
// next line at column 1.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII NULL (EOF)
	} else {
		l.ch = l.input[l.readPosition]
	}

	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// Returns the next character without consuming it
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	startLine := l.line
	startCol := l.column

	switch l.ch {
	case '/':
		switch l.peekChar() {
		case '/':
			l.readChar()
			l.readComment()
			return l.NextToken()
		case '*':
			l.readChar()
			if !l.readBlockComment() {
				return l.newToken(token.TokenIllegal, "unterminated comment", startLine, startCol)
			}
			return l.NextToken()
		}
		return l.single(token.TokenSlash, startLine, startCol)
	case '=':
		if l.peekChar() == '=' {
			return l.double(token.TokenEq, startLine, startCol)
		}
		return l.single(token.TokenAssign, startLine, startCol)
	case '!':
		if l.peekChar() == '=' {
			return l.double(token.TokenNotEq, startLine, startCol)
		}
		return l.single(token.TokenBang, startLine, startCol)
	case '<':
		if l.peekChar() == '=' {
			return l.double(token.TokenLE, startLine, startCol)
		}
		return l.single(token.TokenLT, startLine, startCol)
	case '>':
		if l.peekChar() == '=' {
			return l.double(token.TokenGE, startLine, startCol)
		}
		return l.single(token.TokenGT, startLine, startCol)
	case '&':
		if l.peekChar() == '&' {
			return l.double(token.TokenAnd, startLine, startCol)
		}
		return l.single(token.TokenIllegal, startLine, startCol)
	case '|':
		if l.peekChar() == '|' {
			return l.double(token.TokenOr, startLine, startCol)
		}
		return l.single(token.TokenIllegal, startLine, startCol)
	case '(':
		return l.single(token.TokenLParen, startLine, startCol)
	case ')':
		return l.single(token.TokenRParen, startLine, startCol)
	case '{':
		return l.single(token.TokenLBrace, startLine, startCol)
	case '}':
		return l.single(token.TokenRBrace, startLine, startCol)
	case '+':
		return l.single(token.TokenPlus, startLine, startCol)
	case '-':
		return l.single(token.TokenMinus, startLine, startCol)
	case '*':
		return l.single(token.TokenAsterisk, startLine, startCol)
	case '%':
		return l.single(token.TokenPercent, startLine, startCol)
	case ':':
		return l.single(token.TokenColon, startLine, startCol)
	case ';':
		return l.single(token.TokenSemicolon, startLine, startCol)
	case 0:
		// Do NOT call l.readChar() here
		return l.newToken(token.TokenEOF, "", startLine, startCol)
	default:
		if isLetter(l.ch) {
			ident := l.readIdentifier()
			return l.newToken(lookupIdent(ident), ident, startLine, startCol)
		} else if isDigit(l.ch) {
			return l.readInteger(startLine, startCol)
		}
		return l.single(token.TokenIllegal, startLine, startCol)
	}
}

// newToken is a helper to create a token.Token struct
func (l *Lexer) newToken(tokenType token.TokenType, literal string, line, col int) token.Token {
	return token.Token{Type: tokenType, Literal: literal, Line: line, Column: col}
}

// single consumes the current character as a one-character token.
func (l *Lexer) single(tokenType token.TokenType, line, col int) token.Token {
	tok := l.newToken(tokenType, string(l.ch), line, col)
	l.readChar()
	return tok
}

// double consumes the current and the next character as one token.
func (l *Lexer) double(tokenType token.TokenType, line, col int) token.Token {
	first := l.ch
	l.readChar()
	tok := l.newToken(tokenType, string(first)+string(l.ch), line, col)
	l.readChar()
	return tok
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\n' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) readComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// readBlockComment reports false when EOF is hit before the closing "*/".
func (l *Lexer) readBlockComment() bool {
	l.readChar() // Consume the opening '*'

	for {
		if l.ch == 0 {
			return false
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // Consume '*'
			l.readChar() // Consume '/'
			return true
		}
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readInteger(startLine, startCol int) token.Token {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	literal := l.input[start:l.position]
	return token.Token{Type: token.TokenInt, Literal: literal, Line: startLine, Column: startCol}
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// keywords maps identifier strings to their corresponding token types.
var keywords = map[string]token.TokenType{
	"fun":     token.TokenFun,
	"var":     token.TokenVar,
	"val":     token.TokenVal,
	"if":      token.TokenIf,
	"else":    token.TokenElse,
	"while":   token.TokenWhile,
	"println": token.TokenPrintln,
	"print":   token.TokenPrintln,
	"true":    token.TokenTrue,
	"false":   token.TokenFalse,
	"Int":     token.TokenTypeLiteral,
	"Bool":    token.TokenTypeLiteral,
	"Boolean": token.TokenTypeLiteral,
}

// lookupIdent checks if an identifier is a keyword, returning the keyword's
// token type or token.TokenIdent if it's not a keyword.
func lookupIdent(ident string) token.TokenType {
	// Use case-sensitive lookup
	if tokType, ok := keywords[ident]; ok {
		return tokType
	}
	return token.TokenIdent
}
