package vm

import (
	"math"
	"testing"

	"lox/internal/bytecode"
	"lox/internal/diag"
)

func TestVMConstantArithmetic(t *testing.T) {
	chunk := bytecode.NewChunk()
	a, _ := chunk.AddConstant(2.0)
	b, _ := chunk.AddConstant(3.0)
	chunk.WriteOp(bytecode.OpConstant, 1)
	chunk.Write(a, 1)
	chunk.WriteOp(bytecode.OpConstant, 1)
	chunk.Write(b, 1)
	chunk.WriteOp(bytecode.OpAdd, 1)
	chunk.WriteOp(bytecode.OpReturn, 1)

	bag := diag.NewBag()
	m := New(chunk, bag)
	if res := m.Run(); res != Ok {
		t.Fatalf("expected Ok, got %v (errors: %v)", res, bag.Items())
	}
	v, ok := m.Peek()
	if !ok || v != 5.0 {
		t.Fatalf("expected top of stack 5, got %v, %v", v, ok)
	}
}

func TestVMNotRequiresBoolStrictly(t *testing.T) {
	chunk := bytecode.NewChunk()
	idx, _ := chunk.AddConstant(1.0)
	chunk.WriteOp(bytecode.OpConstant, 1)
	chunk.Write(idx, 1)
	chunk.WriteOp(bytecode.OpNot, 1)
	chunk.WriteOp(bytecode.OpReturn, 1)

	bag := diag.NewBag()
	m := New(chunk, bag)
	if res := m.Run(); res != RuntimeError {
		t.Fatalf("expected a RuntimeError for Not applied to a Number, got %v", res)
	}
}

func TestVMNegateRequiresNumber(t *testing.T) {
	chunk := bytecode.NewChunk()
	chunk.WriteOp(bytecode.OpTrue, 1)
	chunk.WriteOp(bytecode.OpNegate, 1)
	chunk.WriteOp(bytecode.OpReturn, 1)

	bag := diag.NewBag()
	m := New(chunk, bag)
	if res := m.Run(); res != RuntimeError {
		t.Fatalf("expected a RuntimeError, got %v", res)
	}
}

func TestVMEqualityAcrossTypesIsFalse(t *testing.T) {
	chunk := bytecode.NewChunk()
	idx, _ := chunk.AddConstant("1")
	chunk.WriteOp(bytecode.OpConstant, 1)
	chunk.Write(idx, 1)
	chunk.WriteOp(bytecode.OpTrue, 1)
	chunk.WriteOp(bytecode.OpEqual, 1)
	chunk.WriteOp(bytecode.OpReturn, 1)

	bag := diag.NewBag()
	m := New(chunk, bag)
	if res := m.Run(); res != Ok {
		t.Fatalf("expected Ok, got %v", res)
	}
	v, _ := m.Peek()
	if v != false {
		t.Fatalf("expected a string and a bool to compare unequal, got %v", v)
	}
}

func TestVMDivisionByZeroYieldsInf(t *testing.T) {
	chunk := bytecode.NewChunk()
	a, _ := chunk.AddConstant(1.0)
	b, _ := chunk.AddConstant(0.0)
	chunk.WriteOp(bytecode.OpConstant, 1)
	chunk.Write(a, 1)
	chunk.WriteOp(bytecode.OpConstant, 1)
	chunk.Write(b, 1)
	chunk.WriteOp(bytecode.OpDivide, 1)
	chunk.WriteOp(bytecode.OpReturn, 1)

	bag := diag.NewBag()
	m := New(chunk, bag)
	if res := m.Run(); res != Ok {
		t.Fatalf("expected division by zero to produce a value, not a RuntimeError, got %v", res)
	}
	v, _ := m.Peek()
	f, ok := v.(float64)
	if !ok || !math.IsInf(f, 1) {
		t.Fatalf("expected +Inf, got %v", v)
	}
}
