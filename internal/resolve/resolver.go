// Package resolve implements the static lexical-scope pass of spec.md
// §4.3: for every variable reference it records how many enclosing
// scopes to skip to reach its binding, so the interpreter never has to
// search the environment chain by name at run time.
package resolve

import (
	"lox/internal/ast"
	"lox/internal/diag"
	"lox/internal/source"
	"lox/internal/token"
)

type funcKind uint8

const (
	funcNone funcKind = iota
	funcFunction
	funcMethod
	funcInitializer
)

type classKind uint8

const (
	classNone classKind = iota
	classClass
	classSubclass
)

// Depths is the side-table produced by Resolve: a variable reference
// present here binds `Depth` enclosing scopes up from wherever it
// executes; absence means "look up globally" (spec.md §3).
type Depths struct {
	byKey map[token.Key]int
}

func newDepths() *Depths { return &Depths{byKey: make(map[token.Key]int)} }

func (d *Depths) set(name token.Token, depth int) { d.byKey[name.Key()] = depth }

// Lookup returns the recorded depth for name, or (0, false) if name was
// never resolved to a non-global scope.
func (d *Depths) Lookup(name token.Token) (int, bool) {
	depth, ok := d.byKey[name.Key()]
	return depth, ok
}

type scope map[string]bool

// Resolver walks a parsed Program, threading a stack of lexical scopes.
type Resolver struct {
	exprs *ast.Exprs
	stmts *ast.Stmts
	file  *source.File
	bag   *diag.Bag

	scopes      []scope
	depths      *Depths
	currFunc    funcKind
	currClass   classKind
}

// New creates a Resolver over program's arenas, reporting into bag.
func New(program *ast.Program, file *source.File, bag *diag.Bag) *Resolver {
	return &Resolver{
		exprs:  program.Exprs,
		stmts:  program.Stmts,
		file:   file,
		bag:    bag,
		depths: newDepths(),
	}
}

// Resolve walks root (normally the program's root Block) and returns the
// completed depth side-table.
func (r *Resolver) Resolve(root ast.StmtID) *Depths {
	r.resolveStmt(root)
	return r.depths
}

func (r *Resolver) pushScope() { r.scopes = append(r.scopes, scope{}) }
func (r *Resolver) popScope()  { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) peekScope() scope {
	if len(r.scopes) == 0 {
		return nil
	}
	return r.scopes[len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	sc := r.peekScope()
	if sc == nil {
		return // global scope: nothing to track
	}
	text := name.Lexeme(r.file)
	if _, redeclared := sc[text]; redeclared {
		r.reportAt(diag.VariableRedeclaration, "variable already declared in this scope", name)
	}
	sc[text] = false
}

func (r *Resolver) define(name token.Token) {
	sc := r.peekScope()
	if sc == nil {
		return
	}
	sc[name.Lexeme(r.file)] = true
}

func (r *Resolver) resolveLocal(name token.Token) {
	text := name.Lexeme(r.file)
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][text]; ok {
			r.depths.set(name, len(r.scopes)-1-i)
			return
		}
	}
	// not found in any local scope: resolves globally, no side-table entry
}

func (r *Resolver) reportAt(code diag.Code, msg string, tok token.Token) {
	r.bag.ReportError(code, msg, diag.Diagnostic{
		Primary: tok.Span,
		Pos:     tok.Pos,
		Lexeme:  tok.Lexeme(r.file),
	})
}

func (r *Resolver) resolveStmt(id ast.StmtID) {
	stmt := r.stmts.Get(id)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtBlock:
		r.pushScope()
		r.resolveStmts(stmt.Statements)
		r.popScope()

	case ast.StmtVariable:
		r.declare(stmt.Name)
		if stmt.Value.IsValid() {
			r.resolveExpr(stmt.Value)
		}
		r.define(stmt.Name)

	case ast.StmtFunction:
		r.declare(stmt.Name)
		r.define(stmt.Name)
		r.resolveFunction(stmt, funcFunction)

	case ast.StmtExpression:
		r.resolveExpr(stmt.Value)

	case ast.StmtIf:
		r.resolveExpr(stmt.Condition)
		r.resolveStmt(stmt.Then)
		if stmt.Else.IsValid() {
			r.resolveStmt(stmt.Else)
		}

	case ast.StmtPrint:
		r.resolveExpr(stmt.Value)

	case ast.StmtReturn:
		if r.currFunc == funcNone {
			r.reportAt(diag.ReturnFromTopLevel, "cannot return from top-level code", stmt.Keyword)
		}
		if stmt.Value.IsValid() {
			if r.currFunc == funcInitializer {
				r.reportAt(diag.InitializerReturnedValue, "cannot return a value from an initializer", stmt.Keyword)
			}
			r.resolveExpr(stmt.Value)
		}

	case ast.StmtWhile:
		r.resolveExpr(stmt.Condition)
		r.resolveStmt(stmt.Body)

	case ast.StmtClass:
		r.resolveClass(stmt)
	}
}

func (r *Resolver) resolveStmts(ids []ast.StmtID) {
	for _, id := range ids {
		r.resolveStmt(id)
	}
}

func (r *Resolver) resolveFunction(fn *ast.Stmt, kind funcKind) {
	enclosing := r.currFunc
	r.currFunc = kind
	r.pushScope()
	for _, p := range fn.Params {
		r.declare(p)
		r.define(p)
	}
	body := r.stmts.Get(fn.Body)
	if body != nil {
		r.resolveStmts(body.Statements)
	}
	r.popScope()
	r.currFunc = enclosing
}

func (r *Resolver) resolveClass(class *ast.Stmt) {
	enclosingClass := r.currClass
	r.currClass = classClass

	if class.Superclass.IsValid() {
		super := r.exprs.Get(class.Superclass)
		if super != nil && super.Name.Lexeme(r.file) == class.Name.Lexeme(r.file) {
			r.reportAt(diag.InheritanceCycle, "a class cannot inherit from itself", super.Name)
		}
		r.currClass = classSubclass
		r.resolveExpr(class.Superclass)
	}

	r.declare(class.Name)
	r.define(class.Name)

	if class.Superclass.IsValid() {
		r.pushScope()
		r.peekScope()["super"] = true
	}

	r.pushScope()
	r.peekScope()["this"] = true

	for _, methodID := range class.Methods {
		method := r.stmts.Get(methodID)
		if method == nil {
			continue
		}
		kind := funcMethod
		if method.Name.Lexeme(r.file) == "init" {
			kind = funcInitializer
		}
		r.resolveFunction(method, kind)
	}

	r.popScope()
	if class.Superclass.IsValid() {
		r.popScope()
	}

	r.currClass = enclosingClass
}

func (r *Resolver) resolveExpr(id ast.ExprID) {
	expr := r.exprs.Get(id)
	if expr == nil {
		return
	}
	switch expr.Kind {
	case ast.ExprVariable:
		if sc := r.peekScope(); sc != nil {
			if defined, declared := sc[expr.Name.Lexeme(r.file)]; declared && !defined {
				r.reportAt(diag.SelfreferenceInitializer, "cannot read local variable in its own initializer", expr.Name)
			}
		}
		r.resolveLocal(expr.Name)

	case ast.ExprAssign:
		r.resolveExpr(expr.Value)
		r.resolveLocal(expr.Name)

	case ast.ExprBinary, ast.ExprLogical:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)

	case ast.ExprCall:
		r.resolveExpr(expr.Callee)
		for _, arg := range expr.Args {
			r.resolveExpr(arg)
		}

	case ast.ExprGet:
		r.resolveExpr(expr.Object)

	case ast.ExprSet:
		r.resolveExpr(expr.Value)
		r.resolveExpr(expr.Object)

	case ast.ExprGroup, ast.ExprUnary:
		r.resolveExpr(expr.Right)

	case ast.ExprThis:
		if r.currClass == classNone {
			r.reportAt(diag.ThisOutsideClass, "'this' used outside of a class", expr.Keyword)
			return
		}
		r.resolveLocal(expr.Keyword)

	case ast.ExprSuper:
		if r.currClass == classNone {
			r.reportAt(diag.SuperOutsideSubclass, "'super' used outside of a class", expr.Keyword)
		} else if r.currClass != classSubclass {
			r.reportAt(diag.SuperOutsideSubclass, "'super' used in a class with no superclass", expr.Keyword)
		}
		r.resolveLocal(expr.Keyword)

	case ast.ExprLiteral:
		// nothing to resolve
	}
}
