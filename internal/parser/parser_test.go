package parser

import (
	"testing"

	"lox/internal/ast"
	"lox/internal/diag"
	"lox/internal/lexer"
	"lox/internal/source"
)

func parse(t *testing.T, src string) (*ast.Program, *diag.Bag) {
	t.Helper()
	file := source.NewFile("<test>", []byte(src))
	bag := diag.NewBag()
	tokens := lexer.New(file, bag).ScanTokens()
	program := New(tokens, file, bag).Parse()
	return program, bag
}

func TestParseVarDeclaration(t *testing.T) {
	program, bag := parse(t, "var x = 1 + 2;")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	root := program.Stmts.Get(program.Root)
	if len(root.Statements) != 1 {
		t.Fatalf("expected one top-level statement, got %d", len(root.Statements))
	}
	decl := program.Stmts.Get(root.Statements[0])
	if decl.Kind != ast.StmtVariable {
		t.Fatalf("expected StmtVariable, got %v", decl.Kind)
	}
}

func TestParseForDesugarsToWhile(t *testing.T) {
	program, bag := parse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	root := program.Stmts.Get(program.Root)
	outer := program.Stmts.Get(root.Statements[0])
	if outer.Kind != ast.StmtBlock {
		t.Fatalf("expected desugared for-loop to be a Block, got %v", outer.Kind)
	}
	if len(outer.Statements) != 2 {
		t.Fatalf("expected init + while, got %d statements", len(outer.Statements))
	}
	loop := program.Stmts.Get(outer.Statements[1])
	if loop.Kind != ast.StmtWhile {
		t.Fatalf("expected second statement to be StmtWhile, got %v", loop.Kind)
	}
}

func TestParseClassWithSuperclassAndMethods(t *testing.T) {
	program, bag := parse(t, "class B < A { greet() { return 1; } }")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	root := program.Stmts.Get(program.Root)
	class := program.Stmts.Get(root.Statements[0])
	if class.Kind != ast.StmtClass {
		t.Fatalf("expected StmtClass, got %v", class.Kind)
	}
	if !class.Superclass.IsValid() {
		t.Fatalf("expected a superclass expression")
	}
	if len(class.Methods) != 1 {
		t.Fatalf("expected one method, got %d", len(class.Methods))
	}
}

func TestParseInvalidAssignmentTargetReportsError(t *testing.T) {
	_, bag := parse(t, "1 + 2 = 3;")
	if !bag.HasErrors() {
		t.Fatalf("expected an invalid-assignment-target error")
	}
}

func TestParseMissingSemicolonSynchronizes(t *testing.T) {
	program, bag := parse(t, "var x = 1\nvar y = 2;")
	if !bag.HasErrors() {
		t.Fatalf("expected a missing-semicolon error")
	}
	root := program.Stmts.Get(program.Root)
	if len(root.Statements) == 0 {
		t.Fatalf("expected synchronize to recover and parse the following declaration")
	}
}
