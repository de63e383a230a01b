package treewalk

import (
	"fmt"
	"io"

	"lox/internal/ast"
	"lox/internal/diag"
	"lox/internal/resolve"
	"lox/internal/source"
	"lox/internal/token"
)

// Interpreter evaluates a resolved Program directly over its AST arenas
// (spec.md §4.5). It holds the current environment, the resolver's
// depth side-table, and the arenas the parser produced; there is no
// separate IR.
type Interpreter struct {
	exprs  *ast.Exprs
	stmts  *ast.Stmts
	file   *source.File
	depths *resolve.Depths

	globals *Environment
	env     *Environment
	out     io.Writer
}

// New creates an Interpreter over program, resolved with depths, writing
// `print` output to out. A single native, clock(), is installed in the
// global scope (spec.md §4.5, §6).
func New(program *ast.Program, file *source.File, depths *resolve.Depths, out io.Writer) *Interpreter {
	globals := NewEnvironment(nil)
	interp := &Interpreter{
		exprs:   program.Exprs,
		stmts:   program.Stmts,
		file:    file,
		depths:  depths,
		globals: globals,
		env:     globals,
		out:     out,
	}
	installNatives(globals)
	return interp
}

// Globals exposes the persistent global environment so a REPL can keep
// bindings alive across lines (spec.md §6).
func (i *Interpreter) Globals() *Environment { return i.globals }

// SetProgram swaps in a newly parsed line's AST arenas and resolver
// side-table while keeping the interpreter's environment chain intact,
// so a REPL can reuse one Interpreter across lines (spec.md §6: "a
// persistent global environment so that bindings persist across
// lines").
func (i *Interpreter) SetProgram(program *ast.Program, depths *resolve.Depths) {
	i.exprs = program.Exprs
	i.stmts = program.Stmts
	i.depths = depths
}

// Interpret runs root (normally the program's root Block) to completion,
// executing its statements directly against the interpreter's current
// environment rather than pushing a fresh child scope for it: the
// resolver treats the program root as scope depth 0, so declarations
// here belong in whatever environment is already current — globals on
// a first call, or the same persistent globals on a REPL's later calls
// after SetProgram (spec.md §6: "a persistent global environment so
// that bindings persist across lines").
func (i *Interpreter) Interpret(root ast.StmtID) error {
	return i.execBlockBody(root, i.env)
}

func (i *Interpreter) execStmt(id ast.StmtID) error {
	stmt := i.stmts.Get(id)
	if stmt == nil {
		return nil
	}
	switch stmt.Kind {
	case ast.StmtBlock:
		return i.execBlockBody(id, NewEnvironment(i.env))

	case ast.StmtVariable:
		var value Value
		if stmt.Value.IsValid() {
			v, err := i.evalExpr(stmt.Value)
			if err != nil {
				return err
			}
			value = v
		}
		i.env.Define(stmt.Name.Lexeme(i.file), value)
		return nil

	case ast.StmtFunction:
		fn := &Function{Name: stmt.Name.Lexeme(i.file), Decl: stmt, Closure: i.env}
		i.env.Define(fn.Name, fn)
		return nil

	case ast.StmtExpression:
		_, err := i.evalExpr(stmt.Value)
		return err

	case ast.StmtIf:
		cond, err := i.evalExpr(stmt.Condition)
		if err != nil {
			return err
		}
		if IsTruthy(cond) {
			return i.execStmt(stmt.Then)
		}
		if stmt.Else.IsValid() {
			return i.execStmt(stmt.Else)
		}
		return nil

	case ast.StmtPrint:
		v, err := i.evalExpr(stmt.Value)
		if err != nil {
			return err
		}
		fmt.Fprintln(i.out, Stringify(v))
		return nil

	case ast.StmtReturn:
		var value Value
		if stmt.Value.IsValid() {
			v, err := i.evalExpr(stmt.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return &returnSignal{Value: value}

	case ast.StmtWhile:
		for {
			cond, err := i.evalExpr(stmt.Condition)
			if err != nil {
				return err
			}
			if !IsTruthy(cond) {
				return nil
			}
			if err := i.execStmt(stmt.Body); err != nil {
				return err
			}
		}

	case ast.StmtClass:
		return i.execClass(stmt)
	}
	return nil
}

// execBlockBody executes the statements of the block at id in env,
// restoring the interpreter's current environment on every exit path
// including errors (spec.md §4.5: "Block: push local env; execute
// children; restore env on all exits including errors").
func (i *Interpreter) execBlockBody(id ast.StmtID, env *Environment) error {
	block := i.stmts.Get(id)
	if block == nil {
		return nil
	}
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()

	for _, s := range block.Statements {
		if err := i.execStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) execClass(stmt *ast.Stmt) error {
	// Define the name bound to nil first so methods can recursively
	// refer to the class by name (spec.md §4.5).
	i.env.Define(stmt.Name.Lexeme(i.file), nil)

	var superclass *Class
	if stmt.Superclass.IsValid() {
		superVal, err := i.evalExpr(stmt.Superclass)
		if err != nil {
			return err
		}
		super, ok := superVal.(*Class)
		if !ok {
			superExpr := i.exprs.Get(stmt.Superclass)
			return &RuntimeError{
				Code:    diag.TypeMismatch,
				Message: "superclass must be a class",
				Tok:     superExpr.Name,
			}
		}
		superclass = super
	}

	classEnv := i.env
	if superclass != nil {
		classEnv = NewEnvironment(i.env)
		classEnv.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(stmt.Methods))
	for _, methodID := range stmt.Methods {
		method := i.stmts.Get(methodID)
		if method == nil {
			continue
		}
		name := method.Name.Lexeme(i.file)
		methods[name] = &Function{
			Name:          name,
			Decl:          method,
			Closure:       classEnv,
			IsInitializer: name == "init",
		}
	}

	class := &Class{Name: stmt.Name.Lexeme(i.file), Methods: methods, Superclass: superclass}
	return i.env.Assign(stmt.Name, i.file, class)
}

func (i *Interpreter) evalExpr(id ast.ExprID) (Value, error) {
	expr := i.exprs.Get(id)
	if expr == nil {
		return nil, nil
	}
	switch expr.Kind {
	case ast.ExprLiteral:
		return i.evalLiteral(expr), nil

	case ast.ExprGroup:
		return i.evalExpr(expr.Right)

	case ast.ExprVariable:
		return i.lookupVariable(expr.Name)

	case ast.ExprAssign:
		value, err := i.evalExpr(expr.Value)
		if err != nil {
			return nil, err
		}
		if depth, ok := i.depths.Lookup(expr.Name); ok {
			i.env.AssignAt(depth, expr.Name.Lexeme(i.file), value)
		} else if err := i.globals.Assign(expr.Name, i.file, value); err != nil {
			return nil, err
		}
		return value, nil

	case ast.ExprUnary:
		return i.evalUnary(expr)

	case ast.ExprBinary:
		return i.evalBinary(expr)

	case ast.ExprLogical:
		return i.evalLogical(expr)

	case ast.ExprCall:
		return i.evalCall(expr)

	case ast.ExprGet:
		obj, err := i.evalExpr(expr.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*Instance)
		if !ok {
			return nil, &RuntimeError{Code: diag.TypeMismatch, Message: "only instances have properties", Tok: expr.Name}
		}
		return inst.Get(expr.Name, i)

	case ast.ExprSet:
		obj, err := i.evalExpr(expr.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*Instance)
		if !ok {
			return nil, &RuntimeError{Code: diag.TypeMismatch, Message: "only instances have fields", Tok: expr.Name}
		}
		value, err := i.evalExpr(expr.Value)
		if err != nil {
			return nil, err
		}
		inst.Set(expr.Name, value, i)
		return value, nil

	case ast.ExprThis:
		return i.lookupVariable(expr.Keyword)

	case ast.ExprSuper:
		return i.evalSuper(expr)
	}
	return nil, nil
}

func (i *Interpreter) lookupVariable(name token.Token) (Value, error) {
	if depth, ok := i.depths.Lookup(name); ok {
		return i.env.GetAt(depth, name.Lexeme(i.file)), nil
	}
	return i.globals.Get(name, i.file)
}

func (i *Interpreter) evalLiteral(expr *ast.Expr) Value {
	switch expr.Lit.Kind {
	case ast.LiteralNil:
		return nil
	case ast.LiteralBool:
		return expr.Lit.Bool
	case ast.LiteralNumber:
		return expr.Lit.Number
	case ast.LiteralString:
		return expr.Lit.Str
	}
	return nil
}

func (i *Interpreter) evalUnary(expr *ast.Expr) (Value, error) {
	right, err := i.evalExpr(expr.Right)
	if err != nil {
		return nil, err
	}
	switch expr.Op.Kind {
	case token.Minus:
		n, ok := right.(float64)
		if !ok {
			return nil, &RuntimeError{Code: diag.InvalidOperands, Message: "operand must be a number", Tok: expr.Op}
		}
		return -n, nil
	case token.Bang:
		return !IsTruthy(right), nil
	}
	return nil, nil
}

func (i *Interpreter) evalLogical(expr *ast.Expr) (Value, error) {
	left, err := i.evalExpr(expr.Left)
	if err != nil {
		return nil, err
	}
	if expr.Op.Kind == token.Or {
		if IsTruthy(left) {
			return left, nil
		}
	} else { // And
		if !IsTruthy(left) {
			return left, nil
		}
	}
	return i.evalExpr(expr.Right)
}

func (i *Interpreter) evalBinary(expr *ast.Expr) (Value, error) {
	left, err := i.evalExpr(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpr(expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Op.Kind {
	case token.EqualEqual:
		return ValuesEqual(left, right), nil
	case token.BangEqual:
		return !ValuesEqual(left, right), nil
	case token.Plus:
		if ln, ok := left.(float64); ok {
			if rn, ok := right.(float64); ok {
				return ln + rn, nil
			}
		}
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}
		return nil, &RuntimeError{Code: diag.InvalidOperands, Message: "operands must be two numbers or two strings", Tok: expr.Op}
	}

	ln, lok := left.(float64)
	rn, rok := right.(float64)
	if !lok || !rok {
		return nil, &RuntimeError{Code: diag.InvalidOperands, Message: "operands must be numbers", Tok: expr.Op}
	}
	switch expr.Op.Kind {
	case token.Minus:
		return ln - rn, nil
	case token.Star:
		return ln * rn, nil
	case token.Slash:
		return ln / rn, nil
	case token.Greater:
		return ln > rn, nil
	case token.GreaterEqual:
		return ln >= rn, nil
	case token.Less:
		return ln < rn, nil
	case token.LessEqual:
		return ln <= rn, nil
	}
	return nil, nil
}

func (i *Interpreter) evalCall(expr *ast.Expr) (Value, error) {
	callee, err := i.evalExpr(expr.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]Value, len(expr.Args))
	for idx, a := range expr.Args {
		v, err := i.evalExpr(a)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}

	callable, ok := callee.(Callable)
	if !ok {
		return nil, &RuntimeError{Code: diag.NotCallable, Message: "can only call functions and classes", Tok: expr.Paren}
	}
	if len(args) != callable.Arity() {
		return nil, &RuntimeError{
			Code:    diag.WrongNumberOfArguments,
			Message: fmt.Sprintf("expected %d arguments but got %d", callable.Arity(), len(args)),
			Tok:     expr.Paren,
		}
	}
	return callable.Call(i, args)
}

func (i *Interpreter) evalSuper(expr *ast.Expr) (Value, error) {
	depth, _ := i.depths.Lookup(expr.Keyword)
	superclass, _ := i.env.GetAt(depth, "super").(*Class)
	instance, _ := i.env.GetAt(depth-1, "this").(*Instance)

	methodName := expr.Method.Lexeme(i.file)
	method, ok := superclass.FindMethod(methodName)
	if !ok {
		return nil, &RuntimeError{
			Code:    diag.MethodNotDefined,
			Message: fmt.Sprintf("undefined property '%s'", methodName),
			Tok:     expr.Method,
		}
	}
	return method.Bind(instance), nil
}
