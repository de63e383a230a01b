package resolve

import (
	"testing"

	"lox/internal/ast"
	"lox/internal/diag"
	"lox/internal/lexer"
	"lox/internal/parser"
	"lox/internal/source"
)

func resolveSrc(t *testing.T, src string) (*ast.Program, *Depths, *diag.Bag) {
	t.Helper()
	file := source.NewFile("<test>", []byte(src))
	bag := diag.NewBag()
	tokens := lexer.New(file, bag).ScanTokens()
	program := parser.New(tokens, file, bag).Parse()
	depths := New(program, file, bag).Resolve(program.Root)
	return program, depths, bag
}

func TestResolveLocalShadowsGlobal(t *testing.T) {
	_, _, bag := resolveSrc(t, `
		var a = "global";
		{
			var a = "local";
			print a;
		}
	`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
}

func TestResolveSelfReferenceInInitializerIsAnError(t *testing.T) {
	_, _, bag := resolveSrc(t, `{ var a = a; }`)
	if !bag.HasErrors() {
		t.Fatalf("expected a self-reference-in-initializer error")
	}
}

func TestResolveReturnOutsideFunctionIsAnError(t *testing.T) {
	_, _, bag := resolveSrc(t, `return 1;`)
	if !bag.HasErrors() {
		t.Fatalf("expected a return-from-top-level error")
	}
}

func TestResolveThisOutsideClassIsAnError(t *testing.T) {
	_, _, bag := resolveSrc(t, `print this;`)
	if !bag.HasErrors() {
		t.Fatalf("expected a this-outside-class error")
	}
}

func TestResolveInheritFromSelfIsAnError(t *testing.T) {
	_, _, bag := resolveSrc(t, `class A < A {}`)
	if !bag.HasErrors() {
		t.Fatalf("expected an inheritance-cycle error")
	}
}

func TestResolveVariableRedeclarationInSameScopeIsAnError(t *testing.T) {
	_, _, bag := resolveSrc(t, `{ var a = 1; var a = 2; }`)
	if !bag.HasErrors() {
		t.Fatalf("expected a variable-redeclaration error")
	}
}
