package bytecode

import (
	"bytes"
	"strings"
	"testing"
)

func TestChunkWriteAndAddConstant(t *testing.T) {
	c := NewChunk()
	idx, err := c.AddConstant(1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.WriteOp(OpConstant, 1)
	c.Write(idx, 1)
	c.WriteOp(OpReturn, 1)

	if c.Len() != 3 {
		t.Fatalf("expected 3 bytes of code, got %d", c.Len())
	}
	if len(c.Lines) != c.Len() {
		t.Fatalf("expected one line entry per code byte, got %d lines for %d bytes", len(c.Lines), c.Len())
	}
}

func TestChunkAddConstantOverflows(t *testing.T) {
	c := NewChunk()
	for i := 0; i < 256; i++ {
		if _, err := c.AddConstant(float64(i)); err != nil {
			t.Fatalf("unexpected error adding constant %d: %v", i, err)
		}
	}
	if _, err := c.AddConstant(float64(256)); err == nil {
		t.Fatalf("expected the 257th constant to overflow a single byte index")
	}
}

func TestDisassembleRendersConstantsAndOpcodes(t *testing.T) {
	c := NewChunk()
	idx, _ := c.AddConstant(2.0)
	c.WriteOp(OpConstant, 1)
	c.Write(idx, 1)
	c.WriteOp(OpReturn, 1)

	var out bytes.Buffer
	Disassemble(&out, c, "test")
	rendered := out.String()
	if !strings.Contains(rendered, "Constant") || !strings.Contains(rendered, "'2'") {
		t.Fatalf("expected disassembly to mention Constant and its dereferenced value, got %q", rendered)
	}
	if !strings.Contains(rendered, "Return") {
		t.Fatalf("expected disassembly to mention Return, got %q", rendered)
	}
}

func TestPrintValueVariants(t *testing.T) {
	cases := map[Value]string{
		nil:    "nil",
		true:   "true",
		2.0:    "2",
		"hola": "hola",
	}
	for v, want := range cases {
		if got := Print(v); got != want {
			t.Fatalf("Print(%v) = %q, want %q", v, got, want)
		}
	}
}
