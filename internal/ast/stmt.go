package ast

import (
	"lox/internal/source"
	"lox/internal/token"
)

// StmtKind tags which variant of Stmt a node is. The set matches spec.md
// §3 exactly.
type StmtKind uint8

const (
	StmtBlock StmtKind = iota
	StmtClass
	StmtExpression
	StmtFunction
	StmtIf
	StmtPrint
	StmtReturn
	StmtVariable
	StmtWhile
)

// Stmt is one node in the statement arena. As with Expr, fields are
// shared across kinds rather than split into per-kind payload arenas.
type Stmt struct {
	Kind StmtKind
	Span source.Span

	Name    token.Token // Class.name, Function.name, Variable.name
	Keyword token.Token // Return.keyword, Block.loc

	Condition  ExprID // If.condition, While.condition
	Value      ExprID // Expression.value, Print.value, Return.value, Variable.initializer
	Superclass ExprID // Class.superclass (references an ExprVariable node)

	Then StmtID // If.then_branch
	Else StmtID // If.else_branch
	Body StmtID // While.body, Function.body

	Statements []StmtID      // Block.statements
	Methods    []StmtID      // Class.methods (StmtFunction nodes)
	Params     []token.Token // Function.params
}

// Stmts is the append-only statement arena plus one constructor per
// StmtKind.
type Stmts struct {
	Arena *Arena[Stmt]
}

func NewStmts(capHint int) *Stmts {
	return &Stmts{Arena: NewArena[Stmt](capHint)}
}

func (s *Stmts) Get(id StmtID) *Stmt { return s.Arena.Get(uint32(id)) }

func (s *Stmts) new(stmt Stmt) StmtID { return StmtID(s.Arena.Allocate(stmt)) }

func (s *Stmts) NewBlock(span source.Span, loc token.Token, statements []StmtID) StmtID {
	return s.new(Stmt{Kind: StmtBlock, Span: span, Keyword: loc, Statements: statements})
}

func (s *Stmts) NewClass(span source.Span, name token.Token, superclass ExprID, methods []StmtID) StmtID {
	return s.new(Stmt{Kind: StmtClass, Span: span, Name: name, Superclass: superclass, Methods: methods})
}

func (s *Stmts) NewExpression(span source.Span, value ExprID) StmtID {
	return s.new(Stmt{Kind: StmtExpression, Span: span, Value: value})
}

func (s *Stmts) NewFunction(span source.Span, name token.Token, params []token.Token, body StmtID) StmtID {
	return s.new(Stmt{Kind: StmtFunction, Span: span, Name: name, Params: params, Body: body})
}

func (s *Stmts) NewIf(span source.Span, condition ExprID, thenBranch, elseBranch StmtID) StmtID {
	return s.new(Stmt{Kind: StmtIf, Span: span, Condition: condition, Then: thenBranch, Else: elseBranch})
}

func (s *Stmts) NewPrint(span source.Span, value ExprID) StmtID {
	return s.new(Stmt{Kind: StmtPrint, Span: span, Value: value})
}

func (s *Stmts) NewReturn(span source.Span, keyword token.Token, value ExprID) StmtID {
	return s.new(Stmt{Kind: StmtReturn, Span: span, Keyword: keyword, Value: value})
}

func (s *Stmts) NewVariable(span source.Span, name token.Token, initializer ExprID) StmtID {
	return s.new(Stmt{Kind: StmtVariable, Span: span, Name: name, Value: initializer})
}

func (s *Stmts) NewWhile(span source.Span, condition ExprID, body StmtID) StmtID {
	return s.new(Stmt{Kind: StmtWhile, Span: span, Condition: condition, Body: body})
}
