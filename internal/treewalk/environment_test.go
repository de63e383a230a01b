package treewalk

import (
	"testing"

	"lox/internal/source"
	"lox/internal/token"
)

func identToken(name string) (token.Token, *source.File) {
	file := source.NewFile("<test>", []byte(name))
	return token.Token{Kind: token.Ident, Span: source.Span{Start: 0, End: uint32(len(name))}}, file
}

func TestEnvironmentGetWalksParentChain(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", "global-a")
	local := NewEnvironment(global)

	tok, file := identToken("a")
	v, err := local.Get(tok, file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "global-a" {
		t.Fatalf("expected to find 'a' in an ancestor scope, got %v", v)
	}
}

func TestEnvironmentGetUndefinedIsError(t *testing.T) {
	env := NewEnvironment(nil)
	tok, file := identToken("missing")
	if _, err := env.Get(tok, file); err == nil {
		t.Fatalf("expected an undefined-variable error")
	}
}

func TestEnvironmentAssignMutatesNearestDefiningScope(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", 1.0)
	local := NewEnvironment(global)

	tok, file := identToken("a")
	if err := local.Assign(tok, file, 2.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := global.Get(tok, file)
	if v != 2.0 {
		t.Fatalf("expected assignment to mutate the global scope, got %v", v)
	}
}

func TestEnvironmentGetAtAndAssignAtUseExactDepth(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", "too-far")
	mid := NewEnvironment(global)
	mid.Define("a", "right-depth")
	local := NewEnvironment(mid)

	if v := local.GetAt(1, "a"); v != "right-depth" {
		t.Fatalf("expected GetAt(1) to hit mid, got %v", v)
	}
	local.AssignAt(1, "a", "mutated")
	if v := mid.GetAt(0, "a"); v != "mutated" {
		t.Fatalf("expected AssignAt(1) to mutate mid, got %v", v)
	}
}

func TestIsTruthy(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{0.0, true},
		{"", true},
	}
	for _, c := range cases {
		if got := IsTruthy(c.v); got != c.want {
			t.Fatalf("IsTruthy(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestValuesEqualDifferentTypesAreNeverEqual(t *testing.T) {
	if ValuesEqual(1.0, "1") {
		t.Fatalf("expected a number and a string to never be equal")
	}
	if !ValuesEqual(nil, nil) {
		t.Fatalf("expected nil to equal nil")
	}
}

func TestStringifyNumberDropsTrailingZero(t *testing.T) {
	if got := Stringify(3.0); got != "3" {
		t.Fatalf("expected '3', got %q", got)
	}
	if got := Stringify(3.5); got != "3.5" {
		t.Fatalf("expected '3.5', got %q", got)
	}
}
