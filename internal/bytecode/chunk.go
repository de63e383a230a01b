package bytecode

import "fortio.org/safecast"

// Chunk is the bytecode container spec.md §3 describes: parallel byte
// code, naive per-byte line numbers, and a constant pool. Line tracking
// is intentionally one int per code byte rather than the teacher's
// run-length-encoded DebugInfo — spec.md §3 explicitly calls for "stored
// naively for simplicity" (see DESIGN.md).
type Chunk struct {
	Code      []byte
	Lines     []int
	Constants []Value
}

// NewChunk returns an empty chunk ready for the compiler to write into.
func NewChunk() *Chunk {
	return &Chunk{}
}

// Write appends a single byte tagged with the source line it came from.
func (c *Chunk) Write(b byte, line int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// WriteOp appends an opcode's byte.
func (c *Chunk) WriteOp(op OpCode, line int) {
	c.Write(byte(op), line)
}

// AddConstant interns value into the constant pool and returns its index
// as the single operand byte Constant expects. Once the pool already
// holds 256 constants it returns an error and leaves the pool unchanged.
func (c *Chunk) AddConstant(value Value) (byte, error) {
	idx, err := safecast.Conv[byte](len(c.Constants))
	if err != nil {
		return 0, err
	}
	c.Constants = append(c.Constants, value)
	return idx, nil
}

// Len returns the number of bytes written so far.
func (c *Chunk) Len() int { return len(c.Code) }

// PatchJump overwrites the two-byte operand at offset with the given
// forward jump distance, for use once Jump/JumpIfFalse targets are
// known (reserved for future control flow per spec.md §4.6).
func (c *Chunk) PatchJump(offset int, distance uint16) {
	c.Code[offset] = byte(distance >> 8)
	c.Code[offset+1] = byte(distance)
}
