// Package vm implements spec.md §4.7's stack machine: a value stack, a
// chunk/instruction-pointer pair, and a tight dispatch loop over
// code[ip++], grounded on the teacher's vm.Run dispatch-loop shape
// (switch over an opcode byte, pop/push on a value stack) but reduced
// from the teacher's typed/tagged heap-object VM to spec.md's
// four-variant Value union.
package vm

import (
	"fmt"

	"lox/internal/bytecode"
	"lox/internal/diag"
	"lox/internal/source"
)

// Result is one of the three outcomes spec.md §4.7 names for a run.
type Result int

const (
	Ok Result = iota
	CompileError
	RuntimeError
)

func (r Result) String() string {
	switch r {
	case Ok:
		return "Ok"
	case CompileError:
		return "CompileError"
	case RuntimeError:
		return "RuntimeError"
	}
	return "Unknown"
}

// VM is a single chunk's execution context. It is not reused across
// chunks — spec.md §5: "the value stack and the chunk are owned by the
// VM for the lifetime of an interpret call."
type VM struct {
	chunk *bytecode.Chunk
	ip    int
	stack []bytecode.Value
	bag   *diag.Bag
}

// New creates a VM ready to run chunk, reporting runtime diagnostics
// into bag.
func New(chunk *bytecode.Chunk, bag *diag.Bag) *VM {
	return &VM{chunk: chunk, bag: bag}
}

func (m *VM) push(v bytecode.Value) { m.stack = append(m.stack, v) }

func (m *VM) pop() bytecode.Value {
	if len(m.stack) == 0 {
		panic("vm: stack underflow")
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v
}

// Peek returns the top of stack after a successful Run, for callers
// (the CLI's `run --vm`) that want to print the expression's value.
func (m *VM) Peek() (bytecode.Value, bool) {
	if len(m.stack) == 0 {
		return nil, false
	}
	return m.stack[len(m.stack)-1], true
}

// Run executes the chunk to completion.
func (m *VM) Run() Result {
	for {
		op := bytecode.OpCode(m.chunk.Code[m.ip])
		line := m.chunk.Lines[m.ip]
		m.ip++

		switch op {
		case bytecode.OpConstant:
			idx := m.chunk.Code[m.ip]
			m.ip++
			m.push(m.chunk.Constants[idx])

		case bytecode.OpNil:
			m.push(nil)
		case bytecode.OpTrue:
			m.push(true)
		case bytecode.OpFalse:
			m.push(false)

		case bytecode.OpAdd:
			if !m.binaryNumberOrString(line, func(a, b float64) bytecode.Value { return a + b }, func(a, b string) bytecode.Value { return a + b }) {
				return RuntimeError
			}
		case bytecode.OpSubtract:
			if !m.binaryNumber(line, func(a, b float64) bytecode.Value { return a - b }) {
				return RuntimeError
			}
		case bytecode.OpMultiply:
			if !m.binaryNumber(line, func(a, b float64) bytecode.Value { return a * b }) {
				return RuntimeError
			}
		case bytecode.OpDivide:
			if !m.binaryNumber(line, func(a, b float64) bytecode.Value { return a / b }) {
				return RuntimeError
			}
		case bytecode.OpGreater:
			if !m.binaryNumber(line, func(a, b float64) bytecode.Value { return a > b }) {
				return RuntimeError
			}
		case bytecode.OpGreaterEqual:
			if !m.binaryNumber(line, func(a, b float64) bytecode.Value { return a >= b }) {
				return RuntimeError
			}
		case bytecode.OpLess:
			if !m.binaryNumber(line, func(a, b float64) bytecode.Value { return a < b }) {
				return RuntimeError
			}
		case bytecode.OpLessEqual:
			if !m.binaryNumber(line, func(a, b float64) bytecode.Value { return a <= b }) {
				return RuntimeError
			}

		case bytecode.OpEqual:
			b, a := m.pop(), m.pop()
			m.push(valuesEqual(a, b))
		case bytecode.OpNotEqual:
			b, a := m.pop(), m.pop()
			m.push(!valuesEqual(a, b))

		case bytecode.OpNegate:
			n, ok := m.pop().(float64)
			if !ok {
				m.runtimeError(line, "operand must be a number")
				return RuntimeError
			}
			m.push(-n)

		case bytecode.OpNot:
			// Stricter than treewalk truthiness by design; see
			// DESIGN.md's resolution of spec.md §9's open question.
			b, ok := m.pop().(bool)
			if !ok {
				m.runtimeError(line, "operand must be a boolean")
				return RuntimeError
			}
			m.push(!b)

		case bytecode.OpAnd:
			b, bok := m.pop().(bool)
			a, aok := m.pop().(bool)
			if !aok || !bok {
				m.runtimeError(line, "operands must be booleans")
				return RuntimeError
			}
			m.push(a && b)

		case bytecode.OpOr:
			b, bok := m.pop().(bool)
			a, aok := m.pop().(bool)
			if !aok || !bok {
				m.runtimeError(line, "operands must be booleans")
				return RuntimeError
			}
			m.push(a || b)

		case bytecode.OpJump:
			offset := int(m.chunk.Code[m.ip])<<8 | int(m.chunk.Code[m.ip+1])
			m.ip += 2 + offset

		case bytecode.OpJumpIfFalse:
			offset := int(m.chunk.Code[m.ip])<<8 | int(m.chunk.Code[m.ip+1])
			m.ip += 2
			top, _ := m.stack[len(m.stack)-1].(bool)
			if !top {
				m.ip += offset
			}

		case bytecode.OpReturn:
			return Ok

		default:
			m.runtimeError(line, fmt.Sprintf("unknown opcode %d", op))
			return RuntimeError
		}
	}
}

func (m *VM) binaryNumber(line int, apply func(a, b float64) bytecode.Value) bool {
	b, bok := m.pop().(float64)
	a, aok := m.pop().(float64)
	if !aok || !bok {
		m.runtimeError(line, "operands must be numbers")
		return false
	}
	m.push(apply(a, b))
	return true
}

func (m *VM) binaryNumberOrString(line int, applyNum func(a, b float64) bytecode.Value, applyStr func(a, b string) bytecode.Value) bool {
	bv, av := m.pop(), m.pop()
	if an, ok := av.(float64); ok {
		if bn, ok := bv.(float64); ok {
			m.push(applyNum(an, bn))
			return true
		}
	}
	if as, ok := av.(string); ok {
		if bs, ok := bv.(string); ok {
			m.push(applyStr(as, bs))
			return true
		}
	}
	m.runtimeError(line, "operands must be two numbers or two strings")
	return false
}

func valuesEqual(a, b bytecode.Value) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return a == b
	}
}

func (m *VM) runtimeError(line int, msg string) {
	m.bag.ReportError(diag.TypeMismatch, msg, diag.Diagnostic{Pos: source.Pos{Line: line}})
}
