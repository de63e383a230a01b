// Package treewalk is the tree-walking backend: environment chains plus
// the AST-driven evaluator (spec.md §4.4, §4.5).
package treewalk

import (
	"fmt"

	"lox/internal/diag"
	"lox/internal/source"
	"lox/internal/token"
)

// Environment is a chained name->value scope. Globals sit at the chain's
// root; local scopes are created on block/call entry and released on
// exit; a closure privately owns the scope it captured (spec.md §3).
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a scope whose parent is parent (nil for the
// global environment).
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{values: make(map[string]Value), parent: parent}
}

// Define binds name to value in this scope, overwriting any existing
// binding for name already present here.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get reads name from the chain, starting at this scope and walking up.
func (e *Environment) Get(name token.Token, file *source.File) (Value, error) {
	text := name.Lexeme(file)
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[text]; ok {
			return v, nil
		}
	}
	return nil, undefinedVariable(name, file)
}

// Assign mutates the nearest enclosing scope that already defines name.
func (e *Environment) Assign(name token.Token, file *source.File, value Value) error {
	text := name.Lexeme(file)
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[text]; ok {
			env.values[text] = value
			return nil
		}
	}
	return undefinedVariable(name, file)
}

// GetAt reads name exactly depth parents up from this scope (the
// resolver having already proven that binding exists there).
func (e *Environment) GetAt(depth int, name string) Value {
	return e.ancestor(depth).values[name]
}

// AssignAt mutates name exactly depth parents up from this scope.
func (e *Environment) AssignAt(depth int, name string, value Value) {
	e.ancestor(depth).values[name] = value
}

func (e *Environment) ancestor(depth int) *Environment {
	env := e
	for i := 0; i < depth; i++ {
		env = env.parent
	}
	return env
}

func undefinedVariable(name token.Token, file *source.File) error {
	return &RuntimeError{
		Code:    diag.UndefinedVariable,
		Message: fmt.Sprintf("undefined variable '%s'", name.Lexeme(file)),
		Tok:     name,
	}
}
