package treewalk

import (
	"fmt"

	"lox/internal/ast"
	"lox/internal/diag"
	"lox/internal/token"
)

// Callable is any Value that may appear on the left of a call
// expression: a user function, the clock() native, or a class
// (constructing an instance).
type Callable interface {
	Arity() int
	Call(interp *Interpreter, args []Value) (Value, error)
	String() string
}

// Function is a user-defined function or method, closing over the
// environment active at its declaration (spec.md §3, §4.5).
type Function struct {
	Name          string
	Decl          *ast.Stmt // StmtFunction
	Closure       *Environment
	IsInitializer bool
}

func (f *Function) Arity() int { return len(f.Decl.Params) }

func (f *Function) String() string { return fmt.Sprintf("<fn %s>", f.Name) }

// Bind returns a copy of f whose closure additionally defines `this` as
// instance (spec.md §4.5: "method access returns a bound function").
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)
	return &Function{Name: f.Name, Decl: f.Decl, Closure: env, IsInitializer: f.IsInitializer}
}

func (f *Function) Call(interp *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for i, p := range f.Decl.Params {
		env.Define(p.Lexeme(interp.file), args[i])
	}

	err := interp.execBlockBody(f.Decl.Body, env)
	if ret, ok := err.(*returnSignal); ok {
		if f.IsInitializer {
			return f.Closure.GetAt(0, "this"), nil
		}
		return ret.Value, nil
	}
	if err != nil {
		return nil, err
	}
	if f.IsInitializer {
		return f.Closure.GetAt(0, "this"), nil
	}
	return nil, nil
}

// NativeFunction is a host-provided callable with a declared arity and a
// direct call function pointer (spec.md §4.5: "clock()").
type NativeFunction struct {
	Name  string
	Ar    int
	Fn    func(interp *Interpreter, args []Value) (Value, error)
}

func (n *NativeFunction) Arity() int                                        { return n.Ar }
func (n *NativeFunction) String() string                                    { return fmt.Sprintf("<native fn %s>", n.Name) }
func (n *NativeFunction) Call(i *Interpreter, args []Value) (Value, error) { return n.Fn(i, args) }

// Class is a runtime class value: a method table plus an optional
// superclass link (spec.md §3).
type Class struct {
	Name       string
	Methods    map[string]*Function
	Superclass *Class
}

func (c *Class) String() string { return c.Name }

// FindMethod looks up name in c's own methods, then its superclass
// chain (spec.md §4.5: "method lookup").
func (c *Class) FindMethod(name string) (*Function, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Call constructs a new Instance, running `init` (bound to it) if the
// class defines one (spec.md §4.5).
func (c *Class) Call(interp *Interpreter, args []Value) (Value, error) {
	instance := &Instance{Class: c, Fields: make(map[string]Value)}
	if init, ok := c.FindMethod("init"); ok {
		if _, err := init.Bind(instance).Call(interp, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Instance is a runtime object: a field map plus its class (spec.md §3).
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func (i *Instance) String() string { return i.Class.Name + " instance" }

// Get reads a field, falling back to a bound method (spec.md §4.5:
// "instance field lookup shadows method lookup").
func (i *Instance) Get(name token.Token, interp *Interpreter) (Value, error) {
	text := name.Lexeme(interp.file)
	if v, ok := i.Fields[text]; ok {
		return v, nil
	}
	if m, ok := i.Class.FindMethod(text); ok {
		return m.Bind(i), nil
	}
	return nil, &RuntimeError{
		Code:    diag.UndefinedProperty,
		Message: fmt.Sprintf("undefined property '%s'", text),
		Tok:     name,
	}
}

func (i *Instance) Set(name token.Token, value Value, interp *Interpreter) {
	i.Fields[name.Lexeme(interp.file)] = value
}
