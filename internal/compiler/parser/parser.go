package parser

import (
	"fmt"
	"strconv"

	"github.com/arnavsurve/stups/internal/compiler/ast"
	"github.com/arnavsurve/stups/internal/compiler/lexer"
	"github.com/arnavsurve/stups/internal/compiler/symbols"
	"github.com/arnavsurve/stups/internal/compiler/token"
)

// Precedence levels for Pratt parsing
const (
	_ int = iota
	PrecLowest
	PrecOr      // ||
	PrecAnd     // &&
	PrecEquals  // ==, !=
	PrecCompare // <, >, <=, >=
	PrecSum     // +, -
	PrecProduct // *, /, %
	PrecPrefix  // !x, -x
)

// Map tokens to precedence levels
var precedences = map[token.TokenType]int{
	token.TokenOr:       PrecOr,
	token.TokenAnd:      PrecAnd,
	token.TokenEq:       PrecEquals,
	token.TokenNotEq:    PrecEquals,
	token.TokenLT:       PrecCompare,
	token.TokenGT:       PrecCompare,
	token.TokenLE:       PrecCompare,
	token.TokenGE:       PrecCompare,
	token.TokenPlus:     PrecSum,
	token.TokenMinus:    PrecSum,
	token.TokenAsterisk: PrecProduct,
	token.TokenSlash:    PrecProduct,
	token.TokenPercent:  PrecProduct,
}

func tokenPrecedence(tok token.Token) int {
	if p, ok := precedences[tok.Type]; ok {
		return p
	}
	return PrecLowest
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	l       *lexer.Lexer
	curTok  token.Token
	peekTok token.Token
	errors  []string

	// consumed counts tokens taken from the lexer; error recovery uses it
	// to guarantee progress.
	consumed int

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func NewParser(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []string{},
	}
	p.initializePratt()

	// Read two tokens, so curTok and peekTok are both set
	p.nextToken()
	p.nextToken()
	return p
}

// --- Token Handling ---
func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.l.NextToken()
	p.consumed++
}

// --- Error Handling ---
func (p *Parser) addError(tok token.Token, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	errMsg := fmt.Sprintf("%d:%d: Syntax Error: %s", tok.Line, tok.Column, msg)
	p.errors = append(p.errors, errMsg)
}

// Errors returns the syntax errors in source order.
func (p *Parser) Errors() []string {
	return p.errors
}

// --- Program Parsing ---

// ParseProgram parses `fun name() { declarations statements }`. The
// returned tree is only meaningful when Errors() is empty.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Token: p.curTok}

	if p.curTok.Type != token.TokenFun {
		p.addError(p.curTok, "Expected 'fun' at start of program, got %s ('%s')", p.curTok.Type, p.curTok.Literal)
		return prog
	}
	if !p.expectPeek(token.TokenIdent) {
		return prog
	}
	prog.Name = p.curTok.Literal
	if !p.expectPeek(token.TokenLParen) || !p.expectPeek(token.TokenRParen) || !p.expectPeek(token.TokenLBrace) {
		return prog
	}
	p.nextToken() // Consume '{'

	// Leading declarations
	for p.curTok.Type == token.TokenVar || p.curTok.Type == token.TokenVal {
		before := p.consumed
		decl := p.parseDeclaration()
		if decl == nil {
			p.synchronize(before)
			continue
		}
		prog.Declarations = append(prog.Declarations, decl)
	}

	prog.Statements = p.parseStatementsUntilBrace()

	if p.curTok.Type != token.TokenRBrace {
		p.addError(p.curTok, "Expected '}' to close function '%s', got %s", prog.Name, p.curTok.Type)
		return prog
	}
	p.nextToken() // Consume '}'

	if p.curTok.Type != token.TokenEOF {
		p.addError(p.curTok, "Unexpected %s ('%s') after end of function", p.curTok.Type, p.curTok.Literal)
	}
	return prog
}

// parseStatementsUntilBrace stops on '}' or EOF without consuming it.
func (p *Parser) parseStatementsUntilBrace() []ast.Statement {
	stmts := []ast.Statement{}
	for p.curTok.Type != token.TokenRBrace && p.curTok.Type != token.TokenEOF {
		before := p.consumed
		stmt := p.parseStatement()
		if stmt == nil {
			p.synchronize(before)
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

// synchronize skips to the next plausible statement start after a failed parse.
func (p *Parser) synchronize(before int) {
	if p.consumed == before {
		p.nextToken()
	}
	for {
		switch p.curTok.Type {
		case token.TokenVar, token.TokenVal, token.TokenIf, token.TokenWhile,
			token.TokenPrintln, token.TokenLBrace, token.TokenRBrace, token.TokenEOF:
			return
		case token.TokenSemicolon:
			p.nextToken()
			return
		case token.TokenIdent:
			if p.peekTok.Type == token.TokenAssign {
				return
			}
		}
		p.nextToken()
	}
}

// --- Statements ---

func (p *Parser) parseStatement() ast.Statement {
	switch p.curTok.Type {
	case token.TokenVar, token.TokenVal:
		if decl := p.parseDeclaration(); decl != nil {
			return decl
		}
		return nil
	case token.TokenIdent:
		return p.parseAssignment()
	case token.TokenPrintln:
		return p.parsePrint()
	case token.TokenIf:
		return p.parseIf()
	case token.TokenWhile:
		return p.parseWhile()
	case token.TokenLBrace:
		if block := p.parseBlock(); block != nil {
			return block
		}
		return nil
	default:
		p.addError(p.curTok, "Unexpected %s ('%s') at start of statement", p.curTok.Type, p.curTok.Literal)
		return nil
	}
}

// parseDeclaration -> var name: Type = expression
func (p *Parser) parseDeclaration() *ast.Declaration {
	decl := &ast.Declaration{Token: p.curTok}

	if !p.expectPeek(token.TokenIdent) {
		return nil
	}
	decl.Name = &ast.Identifier{Token: p.curTok, Value: p.curTok.Literal}

	if !p.expectPeek(token.TokenColon) || !p.expectPeek(token.TokenTypeLiteral) {
		return nil
	}
	decl.TypeToken = p.curTok
	typ, ok := symbols.ParseType(p.curTok.Literal)
	if !ok {
		p.addError(p.curTok, "Unknown type '%s'", p.curTok.Literal)
		return nil
	}
	decl.Type = typ

	if !p.expectPeek(token.TokenAssign) {
		return nil
	}
	p.nextToken() // Consume '='

	decl.Value = p.parseExpression(PrecLowest)
	if decl.Value == nil {
		return nil
	}
	p.skipSemicolon()
	return decl
}

// parseAssignment -> name = expression
func (p *Parser) parseAssignment() ast.Statement {
	name := &ast.Identifier{Token: p.curTok, Value: p.curTok.Literal}
	if !p.expectPeek(token.TokenAssign) {
		return nil
	}
	stmt := &ast.Assignment{Token: p.curTok, Name: name}
	p.nextToken() // Consume '='

	stmt.Value = p.parseExpression(PrecLowest)
	if stmt.Value == nil {
		return nil
	}
	p.skipSemicolon()
	return stmt
}

// parsePrint -> println(expression)
func (p *Parser) parsePrint() ast.Statement {
	stmt := &ast.Print{Token: p.curTok}
	if !p.expectPeek(token.TokenLParen) {
		return nil
	}
	p.nextToken() // Consume '('

	stmt.Value = p.parseExpression(PrecLowest)
	if stmt.Value == nil || !p.expectCur(token.TokenRParen) {
		return nil
	}
	p.skipSemicolon()
	return stmt
}

// parseIf -> if (cond) body [else body]
func (p *Parser) parseIf() ast.Statement {
	stmt := &ast.If{Token: p.curTok}
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}
	stmt.Condition = cond

	then, ok := p.parseBody()
	if !ok {
		return nil
	}
	stmt.Then = then

	if p.curTok.Type == token.TokenElse {
		p.nextToken() // Consume 'else'
		els, ok := p.parseBody()
		if !ok {
			return nil
		}
		stmt.Else = els
	}
	return stmt
}

// parseWhile -> while (cond) body
func (p *Parser) parseWhile() ast.Statement {
	stmt := &ast.While{Token: p.curTok}
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}
	stmt.Condition = cond

	body, ok := p.parseBody()
	if !ok {
		return nil
	}
	stmt.Body = body
	return stmt
}

// parseCondition parses "(expression)" following 'if' or 'while'.
func (p *Parser) parseCondition() ast.Expression {
	if !p.expectPeek(token.TokenLParen) {
		return nil
	}
	p.nextToken() // Consume '('
	cond := p.parseExpression(PrecLowest)
	if cond == nil || !p.expectCur(token.TokenRParen) {
		return nil
	}
	return cond
}

// parseBody accepts either a braced block or a single statement.
func (p *Parser) parseBody() ([]ast.Statement, bool) {
	if p.curTok.Type == token.TokenLBrace {
		block := p.parseBlock()
		if block == nil {
			return nil, false
		}
		return block.Statements, true
	}
	stmt := p.parseStatement()
	if stmt == nil {
		return nil, false
	}
	return []ast.Statement{stmt}, true
}

func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Token: p.curTok}
	p.nextToken() // Consume '{'

	block.Statements = p.parseStatementsUntilBrace()
	if p.curTok.Type != token.TokenRBrace {
		p.addError(p.curTok, "Expected '}' to close block opened at %d:%d", block.Token.Line, block.Token.Column)
		return nil
	}
	p.nextToken() // Consume '}'
	return block
}

func (p *Parser) skipSemicolon() {
	if p.curTok.Type == token.TokenSemicolon {
		p.nextToken()
	}
}

// --- Pratt Parsing ---

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) initializePratt() {
	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.infixParseFns = make(map[token.TokenType]infixParseFn)

	// Prefixes (NUDs)
	p.registerPrefix(token.TokenIdent, p.parseIdentifier)
	p.registerPrefix(token.TokenInt, p.parseIntegerLiteral)
	p.registerPrefix(token.TokenTrue, p.parseBooleanLiteral)
	p.registerPrefix(token.TokenFalse, p.parseBooleanLiteral)
	p.registerPrefix(token.TokenLParen, p.parseGroupedExpression)
	p.registerPrefix(token.TokenBang, p.parsePrefixExpression)
	p.registerPrefix(token.TokenMinus, p.parsePrefixExpression)

	// Infixes (LEDs)
	for tokenType := range ast.BinaryOps {
		p.registerInfix(tokenType, p.parseInfixExpression)
	}
}

// parseExpression is the main entry point for Pratt parsing. It leaves
// curTok on the first token after the expression.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curTok.Type]
	if prefix == nil {
		p.addError(p.curTok, "No prefix parsing function found for token type %s ('%s')", p.curTok.Type, p.curTok.Literal)
		return nil
	}
	leftExpr := prefix()
	if leftExpr == nil {
		return nil
	}

	for precedence < tokenPrecedence(p.curTok) {
		infix := p.infixParseFns[p.curTok.Type]
		if infix == nil {
			return leftExpr
		}
		leftExpr = infix(leftExpr)
		if leftExpr == nil {
			return nil
		}
	}

	return leftExpr
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	tok := p.curTok
	val, err := strconv.ParseInt(tok.Literal, 10, 32)
	if err != nil {
		p.addError(tok, "Integer literal '%s' does not fit in 32 bits", tok.Literal)
		p.nextToken() // Consume bad token
		return nil
	}
	p.nextToken() // Consume the integer token
	return &ast.IntegerLiteral{Token: tok, Value: int32(val)}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	tok := p.curTok
	p.nextToken()
	return &ast.BooleanLiteral{Token: tok, Value: tok.Type == token.TokenTrue}
}

func (p *Parser) parseIdentifier() ast.Expression {
	tok := p.curTok
	p.nextToken() // Consume identifier
	return &ast.Identifier{Token: tok, Value: tok.Literal}
}

// parseGroupedExpression returns the inner expression; parentheses only
// affect precedence.
func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken() // Consume '('

	expr := p.parseExpression(PrecLowest)
	if expr == nil || !p.expectCur(token.TokenRParen) {
		return nil
	}
	return expr
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	tok := p.curTok
	op := ast.OpNegate
	if tok.Type == token.TokenBang {
		op = ast.OpNot
	}
	p.nextToken() // Consume operator

	operand := p.parseExpression(PrecPrefix)
	if operand == nil {
		return nil
	}
	return &ast.UnaryExpression{Token: tok, Operator: op, Operand: operand}
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	opToken := p.curTok
	precedence := tokenPrecedence(opToken)
	p.nextToken() // Consume operator

	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &ast.BinaryExpression{Token: opToken, Left: left, Operator: ast.BinaryOps[opToken.Type], Right: right}
}

// expectPeek checks if the next token is of the expected type. If so, it
// advances so that curTok is that token. Otherwise, adds an error and
// returns false.
func (p *Parser) expectPeek(expectedType token.TokenType) bool {
	if p.peekTok.Type == expectedType {
		p.nextToken()
		return true
	}
	p.addError(p.peekTok, "Expected next token to be %s, got %s ('%s') instead",
		expectedType, p.peekTok.Type, p.peekTok.Literal)
	return false
}

// expectCur consumes curTok if it has the expected type.
func (p *Parser) expectCur(expectedType token.TokenType) bool {
	if p.curTok.Type == expectedType {
		p.nextToken()
		return true
	}
	p.addError(p.curTok, "Expected %s, got %s ('%s') instead", expectedType, p.curTok.Type, p.curTok.Literal)
	return false
}
