package driver

import (
	"bytes"
	"strings"
	"testing"

	"lox/internal/diag"
	"lox/internal/observ"
	"lox/internal/source"
)

func TestRunTreewalkArithmeticScenario(t *testing.T) {
	file := source.NewFile("<test>", []byte("print 1 + 2 * 3;"))
	bag := diag.NewBag()
	var out bytes.Buffer
	code := RunTreewalk(file, &out, bag, observ.NewTimer())
	if code != ExitOk {
		t.Fatalf("expected ExitOk, got %v (errors: %v)", code, bag.Items())
	}
	if strings.TrimSpace(out.String()) != "7" {
		t.Fatalf("expected 7, got %q", out.String())
	}
}

func TestRunTreewalkClassesAndClosuresScenario(t *testing.T) {
	file := source.NewFile("<test>", []byte(`
		class Counter {
			init() { this.n = 0; }
			next() { this.n = this.n + 1; return this.n; }
		}
		var c = Counter();
		print c.next();
		print c.next();
	`))
	bag := diag.NewBag()
	var out bytes.Buffer
	code := RunTreewalk(file, &out, bag, observ.NewTimer())
	if code != ExitOk {
		t.Fatalf("expected ExitOk, got %v (errors: %v)", code, bag.Items())
	}
	if strings.TrimSpace(out.String()) != "1\n2" {
		t.Fatalf("expected 1\\n2, got %q", out.String())
	}
}

func TestRunTreewalkParseErrorExitsCompile(t *testing.T) {
	file := source.NewFile("<test>", []byte("var x = ;"))
	bag := diag.NewBag()
	var out bytes.Buffer
	code := RunTreewalk(file, &out, bag, observ.NewTimer())
	if code != ExitCompile {
		t.Fatalf("expected ExitCompile, got %v", code)
	}
}

func TestRunTreewalkRuntimeErrorExitsRuntime(t *testing.T) {
	file := source.NewFile("<test>", []byte("print undefined_name;"))
	bag := diag.NewBag()
	var out bytes.Buffer
	code := RunTreewalk(file, &out, bag, observ.NewTimer())
	if code != ExitRuntime {
		t.Fatalf("expected ExitRuntime, got %v", code)
	}
}

func TestRunVMArithmeticScenario(t *testing.T) {
	file := source.NewFile("<test>", []byte("1 + 2 * 3"))
	bag := diag.NewBag()
	var out bytes.Buffer
	code := RunVM(file, &out, bag, observ.NewTimer())
	if code != ExitOk {
		t.Fatalf("expected ExitOk, got %v (errors: %v)", code, bag.Items())
	}
	if strings.TrimSpace(out.String()) != "7" {
		t.Fatalf("expected 7, got %q", out.String())
	}
}

func TestBuildChunkAndRunChunkRoundTrip(t *testing.T) {
	file := source.NewFile("<test>", []byte("2 * (3 + 4)"))
	bag := diag.NewBag()
	chunk, ok := BuildChunk(file, bag)
	if !ok {
		t.Fatalf("unexpected compile errors: %v", bag.Items())
	}

	var out bytes.Buffer
	runBag := diag.NewBag()
	code := RunChunk(chunk, &out, runBag)
	if code != ExitOk {
		t.Fatalf("expected ExitOk, got %v (errors: %v)", code, runBag.Items())
	}
	if strings.TrimSpace(out.String()) != "14" {
		t.Fatalf("expected 14, got %q", out.String())
	}
}

func TestTokenize(t *testing.T) {
	file := source.NewFile("<test>", []byte("var x = 1;"))
	bag := diag.NewBag()
	tokens := Tokenize(file, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if len(tokens) == 0 {
		t.Fatalf("expected at least one token")
	}
}
