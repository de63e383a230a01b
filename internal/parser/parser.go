// Package parser implements spec.md §4.2's recursive-descent parser,
// producing indices into the shared internal/ast arenas rather than a
// pointer tree.
package parser

import (
	"strconv"
	"strings"

	"lox/internal/ast"
	"lox/internal/diag"
	"lox/internal/source"
	"lox/internal/token"
)

const maxArgs = 255

// synchronizeKeywords are the declaration-starting keywords panic-mode
// synchronization scans forward for (spec.md §4.2).
var synchronizeKeywords = map[token.Kind]bool{
	token.Class:  true,
	token.Fun:    true,
	token.Var:    true,
	token.For:    true,
	token.If:     true,
	token.While:  true,
	token.Print:  true,
	token.Return: true,
}

// Parser consumes a token slice and builds a Program in its ast arenas.
type Parser struct {
	tokens []token.Token
	pos    int
	file   *source.File
	bag    *diag.Bag

	exprs *ast.Exprs
	stmts *ast.Stmts
	panic bool
}

// New creates a Parser over tokens (as produced by internal/lexer,
// including its trailing Eof), reporting into bag.
func New(tokens []token.Token, file *source.File, bag *diag.Bag) *Parser {
	return &Parser{
		tokens: tokens,
		file:   file,
		bag:    bag,
		exprs:  ast.NewExprs(len(tokens)),
		stmts:  ast.NewStmts(len(tokens) / 2),
	}
}

// Parse consumes the whole token stream and returns the resulting
// Program: a single root Block holding every top-level declaration.
func (p *Parser) Parse() *ast.Program {
	var decls []ast.StmtID
	for !p.atEnd() {
		if decl := p.declaration(); decl.IsValid() {
			decls = append(decls, decl)
		}
	}
	root := p.stmts.NewBlock(source.Empty(), token.Token{}, decls)
	return &ast.Program{Exprs: p.exprs, Stmts: p.stmts, Root: root}
}

// --- token cursor ---

func (p *Parser) peek() token.Token  { return p.tokens[p.pos] }
func (p *Parser) atEnd() bool        { return p.peek().Kind == token.EOF }
func (p *Parser) previous() token.Token {
	return p.tokens[p.pos-1]
}

func (p *Parser) advance() token.Token {
	if !p.atEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	p.errorAt(code, msg, p.peek())
	return token.Token{}, false
}

func (p *Parser) errorAt(code diag.Code, msg string, tok token.Token) {
	if p.panic {
		return
	}
	p.panic = true
	p.bag.ReportError(code, msg, diag.Diagnostic{
		Primary: tok.Span,
		Pos:     tok.Pos,
		Lexeme:  tok.Lexeme(p.file),
	})
}

// synchronize discards tokens until a statement boundary, per spec.md
// §4.2's panic-mode recovery.
func (p *Parser) synchronize() {
	p.panic = false
	for !p.atEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}
		if synchronizeKeywords[p.peek().Kind] {
			return
		}
		p.advance()
	}
}

// --- declarations & statements ---

func (p *Parser) declaration() ast.StmtID {
	var id ast.StmtID
	switch {
	case p.match(token.Var):
		id = p.varDeclaration()
	case p.match(token.Fun):
		id = p.function("function")
	case p.match(token.Class):
		id = p.classDeclaration()
	default:
		id = p.statement()
	}
	if p.panic {
		p.synchronize()
	}
	return id
}

func (p *Parser) varDeclaration() ast.StmtID {
	start := p.previous()
	name, ok := p.consume(token.Ident, diag.ExpectedIdentifier, "expected a variable name")
	if !ok {
		return ast.NoStmtID
	}
	var init ast.ExprID = ast.NoExprID
	if p.match(token.Equal) {
		init = p.expression()
	}
	semi, ok := p.consume(token.Semicolon, diag.ExpectedSemiColon, "expected ';' after variable declaration")
	if !ok {
		return ast.NoStmtID
	}
	return p.stmts.NewVariable(start.Span.Cover(semi.Span), name, init)
}

func (p *Parser) function(kind string) ast.StmtID {
	start := p.previous()
	code := diag.ExpectedIdentifier
	name, ok := p.consume(token.Ident, code, "expected a "+kind+" name")
	if !ok {
		return ast.NoStmtID
	}
	if _, ok := p.consume(token.LParen, diag.ExpectedOpeningParen, "expected '(' after "+kind+" name"); !ok {
		return ast.NoStmtID
	}
	var params []token.Token
	if !p.check(token.RParen) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(diag.TooManyArguments, "too many parameters", p.peek())
			}
			param, ok := p.consume(token.Ident, diag.ExpectedIdentifier, "expected a parameter name")
			if !ok {
				return ast.NoStmtID
			}
			params = append(params, param)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, ok := p.consume(token.RParen, diag.ExpectedClosingParen, "expected ')' after parameters"); !ok {
		return ast.NoStmtID
	}
	if _, ok := p.consume(token.LBrace, diag.ExpectedBlockStatement, "expected '{' before "+kind+" body"); !ok {
		return ast.NoStmtID
	}
	body := p.block()
	end := p.previous()
	return p.stmts.NewFunction(start.Span.Cover(end.Span), name, params, body)
}

func (p *Parser) classDeclaration() ast.StmtID {
	start := p.previous()
	name, ok := p.consume(token.Ident, diag.ExpectedIdentifier, "expected a class name")
	if !ok {
		return ast.NoStmtID
	}
	var superclass ast.ExprID = ast.NoExprID
	if p.match(token.Less) {
		superName, ok := p.consume(token.Ident, diag.ExpectedIdentifier, "expected a superclass name")
		if !ok {
			return ast.NoStmtID
		}
		superclass = p.exprs.NewVariable(superName.Span, superName)
	}
	if _, ok := p.consume(token.LBrace, diag.ExpectedBlockStatement, "expected '{' before class body"); !ok {
		return ast.NoStmtID
	}
	var methods []ast.StmtID
	for !p.check(token.RBrace) && !p.atEnd() {
		methods = append(methods, p.function("method"))
	}
	end, ok := p.consume(token.RBrace, diag.ExpectedClosingBrace, "expected '}' after class body")
	if !ok {
		return ast.NoStmtID
	}
	return p.stmts.NewClass(start.Span.Cover(end.Span), name, superclass, methods)
}

func (p *Parser) statement() ast.StmtID {
	switch {
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.Return):
		return p.returnStatement()
	case p.match(token.LBrace):
		return p.block()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) block() ast.StmtID {
	start := p.previous()
	var stmts []ast.StmtID
	for !p.check(token.RBrace) && !p.atEnd() {
		if decl := p.declaration(); decl.IsValid() {
			stmts = append(stmts, decl)
		}
	}
	end, ok := p.consume(token.RBrace, diag.ExpectedClosingBrace, "expected '}' after block")
	if !ok {
		return ast.NoStmtID
	}
	return p.stmts.NewBlock(start.Span.Cover(end.Span), start, stmts)
}

func (p *Parser) ifStatement() ast.StmtID {
	start := p.previous()
	if _, ok := p.consume(token.LParen, diag.ExpectedOpeningParen, "expected '(' after 'if'"); !ok {
		return ast.NoStmtID
	}
	cond := p.expression()
	if _, ok := p.consume(token.RParen, diag.ExpectedClosingParen, "expected ')' after condition"); !ok {
		return ast.NoStmtID
	}
	then := p.statement()
	var elseBranch ast.StmtID = ast.NoStmtID
	if p.match(token.Else) {
		elseBranch = p.statement()
	}
	return p.stmts.NewIf(start.Span, cond, then, elseBranch)
}

func (p *Parser) whileStatement() ast.StmtID {
	start := p.previous()
	if _, ok := p.consume(token.LParen, diag.ExpectedOpeningParen, "expected '(' after 'while'"); !ok {
		return ast.NoStmtID
	}
	cond := p.expression()
	if _, ok := p.consume(token.RParen, diag.ExpectedClosingParen, "expected ')' after condition"); !ok {
		return ast.NoStmtID
	}
	body := p.statement()
	return p.stmts.NewWhile(start.Span, cond, body)
}

// forStatement desugars `for(init; cond; inc) body` to
// `Block(init, While(cond, Block(body, inc)))` per spec.md §4.2, with a
// default `true` condition when omitted.
func (p *Parser) forStatement() ast.StmtID {
	start := p.previous()
	if _, ok := p.consume(token.LParen, diag.ExpectedOpeningParen, "expected '(' after 'for'"); !ok {
		return ast.NoStmtID
	}

	var init ast.StmtID = ast.NoStmtID
	switch {
	case p.match(token.Semicolon):
		// no initializer
	case p.match(token.Var):
		init = p.varDeclaration()
	default:
		init = p.expressionStatement()
	}

	var cond ast.ExprID = ast.NoExprID
	if !p.check(token.Semicolon) {
		cond = p.expression()
	}
	if _, ok := p.consume(token.Semicolon, diag.ExpectedSemiColon, "expected ';' after loop condition"); !ok {
		return ast.NoStmtID
	}

	var increment ast.ExprID = ast.NoExprID
	if !p.check(token.RParen) {
		increment = p.expression()
	}
	if _, ok := p.consume(token.RParen, diag.ExpectedClosingParen, "expected ')' after for clauses"); !ok {
		return ast.NoStmtID
	}

	body := p.statement()

	if increment.IsValid() {
		incStmt := p.stmts.NewExpression(source.Empty(), increment)
		body = p.stmts.NewBlock(source.Empty(), token.Token{}, []ast.StmtID{body, incStmt})
	}

	if !cond.IsValid() {
		cond = p.exprs.NewLiteral(source.Empty(), ast.Literal{Kind: ast.LiteralBool, Bool: true})
	}
	loop := p.stmts.NewWhile(start.Span, cond, body)

	if init.IsValid() {
		loop = p.stmts.NewBlock(start.Span, token.Token{}, []ast.StmtID{init, loop})
	}
	return loop
}

func (p *Parser) printStatement() ast.StmtID {
	start := p.previous()
	value := p.expression()
	semi, ok := p.consume(token.Semicolon, diag.ExpectedSemiColon, "expected ';' after value")
	if !ok {
		return ast.NoStmtID
	}
	return p.stmts.NewPrint(start.Span.Cover(semi.Span), value)
}

func (p *Parser) returnStatement() ast.StmtID {
	keyword := p.previous()
	var value ast.ExprID = ast.NoExprID
	if !p.check(token.Semicolon) {
		value = p.expression()
	}
	semi, ok := p.consume(token.Semicolon, diag.ExpectedSemiColon, "expected ';' after return value")
	if !ok {
		return ast.NoStmtID
	}
	return p.stmts.NewReturn(keyword.Span.Cover(semi.Span), keyword, value)
}

func (p *Parser) expressionStatement() ast.StmtID {
	start := p.peek()
	value := p.expression()
	semi, ok := p.consume(token.Semicolon, diag.ExpectedSemiColon, "expected ';' after expression")
	if !ok {
		return ast.NoStmtID
	}
	return p.stmts.NewExpression(start.Span.Cover(semi.Span), value)
}

// --- expressions ---

func (p *Parser) expression() ast.ExprID { return p.assignment() }

func (p *Parser) assignment() ast.ExprID {
	expr := p.or()
	if p.match(token.Equal) {
		eq := p.previous()
		value := p.assignment()
		e := p.exprs.Get(expr)
		switch e.Kind {
		case ast.ExprVariable:
			return p.exprs.NewAssign(e.Span.Cover(eq.Span), e.Name, value)
		case ast.ExprGet:
			return p.exprs.NewSet(e.Span.Cover(eq.Span), e.Object, e.Name, value)
		default:
			p.errorAt(diag.ExpectedLVal, "invalid assignment target", eq)
			return expr
		}
	}
	return expr
}

func (p *Parser) or() ast.ExprID {
	expr := p.and()
	for p.match(token.Or) {
		op := p.previous()
		right := p.and()
		expr = p.exprs.NewLogical(op.Span, expr, op, right)
	}
	return expr
}

func (p *Parser) and() ast.ExprID {
	expr := p.equality()
	for p.match(token.And) {
		op := p.previous()
		right := p.equality()
		expr = p.exprs.NewLogical(op.Span, expr, op, right)
	}
	return expr
}

func (p *Parser) equality() ast.ExprID {
	return p.binary(p.comparison, token.EqualEqual, token.BangEqual)
}

func (p *Parser) comparison() ast.ExprID {
	return p.binary(p.term, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *Parser) term() ast.ExprID {
	return p.binary(p.factor, token.Plus, token.Minus)
}

func (p *Parser) factor() ast.ExprID {
	return p.binary(p.unary, token.Star, token.Slash)
}

// binary implements the shared "parse-binary" helper spec.md §4.2
// describes: left-associative, parameterized by the operator set and
// the next-higher-precedence parser.
func (p *Parser) binary(next func() ast.ExprID, kinds ...token.Kind) ast.ExprID {
	expr := next()
	for p.match(kinds...) {
		op := p.previous()
		right := next()
		expr = p.exprs.NewBinary(op.Span, expr, op, right)
	}
	return expr
}

func (p *Parser) unary() ast.ExprID {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		right := p.unary()
		return p.exprs.NewUnary(op.Span, op, right)
	}
	return p.call()
}

func (p *Parser) call() ast.ExprID {
	expr := p.primary()
	for {
		switch {
		case p.match(token.LParen):
			expr = p.finishCall(expr)
		case p.match(token.Dot):
			name, ok := p.consume(token.Ident, diag.ExpectedIdentifier, "expected a property name after '.'")
			if !ok {
				return expr
			}
			expr = p.exprs.NewGet(name.Span, expr, name)
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.ExprID) ast.ExprID {
	var args []ast.ExprID
	if !p.check(token.RParen) {
		for {
			if len(args) >= maxArgs {
				p.errorAt(diag.TooManyArguments, "too many arguments", p.peek())
			}
			args = append(args, p.expression())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren, ok := p.consume(token.RParen, diag.ExpectedClosingParen, "expected ')' after arguments")
	if !ok {
		return callee
	}
	return p.exprs.NewCall(paren.Span, callee, paren, args)
}

func (p *Parser) primary() ast.ExprID {
	tok := p.peek()
	switch tok.Kind {
	case token.False:
		p.advance()
		return p.exprs.NewLiteral(tok.Span, ast.Literal{Kind: ast.LiteralBool, Bool: false})
	case token.True:
		p.advance()
		return p.exprs.NewLiteral(tok.Span, ast.Literal{Kind: ast.LiteralBool, Bool: true})
	case token.Nil:
		p.advance()
		return p.exprs.NewLiteral(tok.Span, ast.Literal{Kind: ast.LiteralNil})
	case token.Number:
		p.advance()
		n, _ := strconv.ParseFloat(tok.Lexeme(p.file), 64)
		return p.exprs.NewLiteral(tok.Span, ast.Literal{Kind: ast.LiteralNumber, Number: n})
	case token.String:
		p.advance()
		text := strings.TrimSuffix(strings.TrimPrefix(tok.Lexeme(p.file), "\""), "\"")
		return p.exprs.NewLiteral(tok.Span, ast.Literal{Kind: ast.LiteralString, Str: text})
	case token.This:
		p.advance()
		return p.exprs.NewThis(tok.Span, tok)
	case token.Super:
		p.advance()
		if _, ok := p.consume(token.Dot, diag.ExpectedToken, "expected '.' after 'super'"); !ok {
			return ast.NoExprID
		}
		method, ok := p.consume(token.Ident, diag.ExpectedIdentifier, "expected a superclass method name")
		if !ok {
			return ast.NoExprID
		}
		return p.exprs.NewSuper(tok.Span.Cover(method.Span), tok, method)
	case token.Ident:
		p.advance()
		return p.exprs.NewVariable(tok.Span, tok)
	case token.LParen:
		p.advance()
		inner := p.expression()
		end, ok := p.consume(token.RParen, diag.ExpectedClosingParen, "expected ')' after expression")
		if !ok {
			return inner
		}
		return p.exprs.NewGroup(tok.Span.Cover(end.Span), inner)
	default:
		p.errorAt(diag.ExpectedExpression, "expected an expression", tok)
		p.advance()
		return ast.NoExprID
	}
}
