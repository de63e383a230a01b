package ast

import (
	"lox/internal/source"
	"lox/internal/token"
)

// ExprKind tags which variant of Expr a node is. The set matches spec.md
// §3 exactly.
type ExprKind uint8

const (
	ExprAssign ExprKind = iota
	ExprBinary
	ExprCall
	ExprGet
	ExprGroup
	ExprLiteral
	ExprLogical
	ExprSet
	ExprSuper
	ExprThis
	ExprUnary
	ExprVariable
)

// LiteralKind tags the value carried by an ExprLiteral node.
type LiteralKind uint8

const (
	LiteralNil LiteralKind = iota
	LiteralBool
	LiteralNumber
	LiteralString
)

// Literal is the decoded value of a Literal expression. Number/Bool are
// stored inline; String is materialized once at parse time by stripping
// the surrounding quotes (spec.md §3: "only Number requires decimal
// parsing, String strips the surrounding quotes").
type Literal struct {
	Kind   LiteralKind
	Number float64
	Bool   bool
	Str    string
}

// Expr is one node in the expression arena. Not every field is
// meaningful for every Kind; see the per-field comments for which
// variant(s) populate it. This keeps a single flat struct per node
// (rather than the teacher's per-kind payload arena split, see
// DESIGN.md) since every Lox expression variant is small.
type Expr struct {
	Kind ExprKind
	Span source.Span

	Name    token.Token // Assign.name, Variable.name, Get.name, Set.name
	Keyword token.Token // Super.keyword, This.keyword
	Method  token.Token // Super.method
	Op      token.Token // Binary.op, Logical.op, Unary.op
	Paren   token.Token // Call.paren

	Left   ExprID   // Binary.left, Logical.left
	Right  ExprID   // Binary.right, Logical.right, Unary.expr, Group.expr
	Object ExprID   // Get.object, Set.object
	Value  ExprID   // Assign.value, Set.value
	Callee ExprID   // Call.callee
	Args   []ExprID // Call.args

	Lit Literal // Literal.value
}

// Exprs is the append-only expression arena plus one constructor per
// ExprKind, each returning the new node's index.
type Exprs struct {
	Arena *Arena[Expr]
}

func NewExprs(capHint int) *Exprs {
	return &Exprs{Arena: NewArena[Expr](capHint)}
}

func (e *Exprs) Get(id ExprID) *Expr { return e.Arena.Get(uint32(id)) }

func (e *Exprs) new(expr Expr) ExprID { return ExprID(e.Arena.Allocate(expr)) }

func (e *Exprs) NewAssign(span source.Span, name token.Token, value ExprID) ExprID {
	return e.new(Expr{Kind: ExprAssign, Span: span, Name: name, Value: value})
}

func (e *Exprs) NewBinary(span source.Span, left ExprID, op token.Token, right ExprID) ExprID {
	return e.new(Expr{Kind: ExprBinary, Span: span, Left: left, Op: op, Right: right})
}

func (e *Exprs) NewCall(span source.Span, callee ExprID, paren token.Token, args []ExprID) ExprID {
	return e.new(Expr{Kind: ExprCall, Span: span, Callee: callee, Paren: paren, Args: args})
}

func (e *Exprs) NewGet(span source.Span, object ExprID, name token.Token) ExprID {
	return e.new(Expr{Kind: ExprGet, Span: span, Object: object, Name: name})
}

func (e *Exprs) NewGroup(span source.Span, inner ExprID) ExprID {
	return e.new(Expr{Kind: ExprGroup, Span: span, Right: inner})
}

func (e *Exprs) NewLiteral(span source.Span, lit Literal) ExprID {
	return e.new(Expr{Kind: ExprLiteral, Span: span, Lit: lit})
}

func (e *Exprs) NewLogical(span source.Span, left ExprID, op token.Token, right ExprID) ExprID {
	return e.new(Expr{Kind: ExprLogical, Span: span, Left: left, Op: op, Right: right})
}

func (e *Exprs) NewSet(span source.Span, object ExprID, name token.Token, value ExprID) ExprID {
	return e.new(Expr{Kind: ExprSet, Span: span, Object: object, Name: name, Value: value})
}

func (e *Exprs) NewSuper(span source.Span, keyword, method token.Token) ExprID {
	return e.new(Expr{Kind: ExprSuper, Span: span, Keyword: keyword, Method: method})
}

func (e *Exprs) NewThis(span source.Span, keyword token.Token) ExprID {
	return e.new(Expr{Kind: ExprThis, Span: span, Keyword: keyword})
}

func (e *Exprs) NewUnary(span source.Span, op token.Token, operand ExprID) ExprID {
	return e.new(Expr{Kind: ExprUnary, Span: span, Op: op, Right: operand})
}

func (e *Exprs) NewVariable(span source.Span, name token.Token) ExprID {
	return e.new(Expr{Kind: ExprVariable, Span: span, Name: name})
}
