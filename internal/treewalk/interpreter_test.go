package treewalk

import (
	"bytes"
	"strings"
	"testing"

	"lox/internal/diag"
	"lox/internal/lexer"
	"lox/internal/parser"
	"lox/internal/resolve"
	"lox/internal/source"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	file := source.NewFile("<test>", []byte(src))
	bag := diag.NewBag()
	tokens := lexer.New(file, bag).ScanTokens()
	program := parser.New(tokens, file, bag).Parse()
	depths := resolve.New(program, file, bag).Resolve(program.Root)
	if bag.HasErrors() {
		t.Fatalf("unexpected compile errors: %v", bag.Items())
	}
	var out bytes.Buffer
	interp := New(program, file, depths, &out)
	err := interp.Interpret(program.Root)
	return out.String(), err
}

func TestInterpretArithmeticAndPrint(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if strings.TrimSpace(out) != "7" {
		t.Fatalf("expected 7, got %q", out)
	}
}

func TestInterpretClosureCapturesEnvironment(t *testing.T) {
	out, err := run(t, `
		fun makeCounter() {
			var i = 0;
			fun counter() {
				i = i + 1;
				return i;
			}
			return counter;
		}
		var counter = makeCounter();
		print counter();
		print counter();
	`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if strings.TrimSpace(out) != "1\n2" {
		t.Fatalf("expected 1\\n2, got %q", out)
	}
}

func TestInterpretClassesInheritanceAndSuper(t *testing.T) {
	out, err := run(t, `
		class Animal {
			speak() { return "..."; }
		}
		class Dog < Animal {
			speak() { return "Woof, " + super.speak(); }
		}
		var d = Dog();
		print d.speak();
	`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if strings.TrimSpace(out) != "Woof, ..." {
		t.Fatalf("expected 'Woof, ...', got %q", out)
	}
}

func TestInterpretUndefinedVariableIsRuntimeError(t *testing.T) {
	_, err := run(t, `print undefined_name;`)
	if err == nil {
		t.Fatalf("expected a runtime error")
	}
	rt, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected a *RuntimeError, got %T", err)
	}
	if rt.Code != diag.UndefinedVariable {
		t.Fatalf("expected UndefinedVariable, got %v", rt.Code)
	}
}

func TestInterpretCallingNonCallableIsRuntimeError(t *testing.T) {
	_, err := run(t, `var x = 1; x();`)
	if err == nil {
		t.Fatalf("expected a runtime error")
	}
}

func TestInterpretWrongArityIsRuntimeError(t *testing.T) {
	_, err := run(t, `fun f(a, b) { return a + b; } f(1);`)
	if err == nil {
		t.Fatalf("expected a runtime error")
	}
}

func TestInterpretWhileLoop(t *testing.T) {
	out, err := run(t, `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if strings.TrimSpace(out) != "0\n1\n2" {
		t.Fatalf("expected 0\\n1\\n2, got %q", out)
	}
}

func TestInterpretForLoopDesugaring(t *testing.T) {
	out, err := run(t, `
		for (var i = 0; i < 3; i = i + 1) print i;
	`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if strings.TrimSpace(out) != "0\n1\n2" {
		t.Fatalf("expected 0\\n1\\n2, got %q", out)
	}
}

func TestInterpretNativeClock(t *testing.T) {
	out, err := run(t, `print clock() >= 0;`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if strings.TrimSpace(out) != "true" {
		t.Fatalf("expected true, got %q", out)
	}
}

func TestREPLStyleSetProgramPreservesGlobals(t *testing.T) {
	file := source.NewFile("<repl>", []byte("var x = 1;"))
	bag := diag.NewBag()
	tokens := lexer.New(file, bag).ScanTokens()
	program := parser.New(tokens, file, bag).Parse()
	depths := resolve.New(program, file, bag).Resolve(program.Root)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	var out bytes.Buffer
	interp := New(program, file, depths, &out)
	if err := interp.Interpret(program.Root); err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}

	file2 := source.NewFile("<repl>", []byte("print x + 1;"))
	bag2 := diag.NewBag()
	tokens2 := lexer.New(file2, bag2).ScanTokens()
	program2 := parser.New(tokens2, file2, bag2).Parse()
	depths2 := resolve.New(program2, file2, bag2).Resolve(program2.Root)
	if bag2.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag2.Items())
	}
	interp.SetProgram(program2, depths2)
	if err := interp.Interpret(program2.Root); err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if strings.TrimSpace(out.String()) != "2" {
		t.Fatalf("expected globals to persist across SetProgram, got %q", out.String())
	}
}
