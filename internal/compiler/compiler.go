// Package compiler implements spec.md §4.6's single-pass, operator-stack
// compiler from a token stream straight to bytecode.Chunk, with no AST
// in between. It is grounded on the teacher's parser/op_table.go
// precedence table, adapted from a recursive-descent lookup to the
// explicit operator stack the single-pass algorithm requires.
package compiler

import (
	"strconv"
	"strings"

	"lox/internal/bytecode"
	"lox/internal/diag"
	"lox/internal/source"
	"lox/internal/token"
)

type stackState int

const (
	expectingValue stackState = iota
	gotValue
)

// opEntry is one operator-stack slot: either a real operator waiting to
// be emitted, or a group_start marker recording where a `(` was opened.
type opEntry struct {
	op      bytecode.OpCode
	prec    precedence
	isGroup bool
	line    int
}

// compiler holds the single-pass compiler's state: the token cursor, the
// operator stack, and the chunk under construction.
type compiler struct {
	tokens []token.Token
	pos    int
	file   *source.File
	bag    *diag.Bag

	chunk *bytecode.Chunk
	stack []opEntry
	state stackState
}

// Compile consumes tokens (as produced by internal/lexer.Scanner,
// including its trailing Eof) and compiles the single expression they
// encode into a Chunk, per spec.md §4.6. It returns false if any
// compile error was reported into bag.
func Compile(tokens []token.Token, file *source.File, bag *diag.Bag) (*bytecode.Chunk, bool) {
	c := &compiler{tokens: tokens, file: file, bag: bag, chunk: bytecode.NewChunk(), state: expectingValue}
	c.run()
	return c.chunk, !bag.HasErrors()
}

func (c *compiler) run() {
	for {
		tok := c.advance()
		switch c.state {
		case expectingValue:
			if c.stepExpectingValue(tok) {
				return
			}
		case gotValue:
			if c.stepGotValue(tok) {
				return
			}
		}
	}
}

func (c *compiler) advance() token.Token {
	if c.pos >= len(c.tokens) {
		return c.tokens[len(c.tokens)-1] // trailing Eof, held steady
	}
	tok := c.tokens[c.pos]
	c.pos++
	return tok
}

// stepExpectingValue handles step 1, 2, and 4 of spec.md §4.6's
// algorithm. Returns true when compilation should stop.
func (c *compiler) stepExpectingValue(tok token.Token) bool {
	switch tok.Kind {
	case token.Number, token.String, token.True, token.False, token.Nil:
		c.emitValue(tok)
		c.drainUnary()
		c.state = gotValue
		return false

	case token.LParen:
		c.stack = append(c.stack, opEntry{isGroup: true, prec: precGroupStart, line: tok.Pos.Line})
		return false

	case token.Minus:
		c.stack = append(c.stack, opEntry{op: bytecode.OpNegate, prec: precUnary, line: tok.Pos.Line})
		return false

	case token.Bang:
		c.stack = append(c.stack, opEntry{op: bytecode.OpNot, prec: precUnary, line: tok.Pos.Line})
		return false

	default:
		c.reportAt(diag.ExpectedExpression, "expected an expression", tok)
		return true
	}
}

// stepGotValue handles steps 3, 5, and 6.
func (c *compiler) stepGotValue(tok token.Token) bool {
	switch tok.Kind {
	case token.RParen:
		if !c.closeGroup(tok) {
			return true
		}
		c.drainUnary()
		c.state = gotValue
		return false

	case token.EOF:
		c.drainAll(tok)
		c.chunk.WriteOp(bytecode.OpReturn, tok.Pos.Line)
		return true

	default:
		prec := binaryPrecedence(tok.Kind)
		if prec == precNone {
			c.reportAt(diag.UnexpectedToken, "expected an operator or end of expression", tok)
			return true
		}
		c.popWhileAtLeast(prec)
		c.stack = append(c.stack, opEntry{op: binaryOpcode(tok.Kind), prec: prec, line: tok.Pos.Line})
		c.state = expectingValue
		return false
	}
}

func (c *compiler) emitValue(tok token.Token) {
	switch tok.Kind {
	case token.True:
		c.chunk.WriteOp(bytecode.OpTrue, tok.Pos.Line)
	case token.False:
		c.chunk.WriteOp(bytecode.OpFalse, tok.Pos.Line)
	case token.Nil:
		c.chunk.WriteOp(bytecode.OpNil, tok.Pos.Line)
	case token.Number:
		text := tok.Lexeme(c.file)
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			n = 0
		}
		c.emitConstant(n, tok)
	case token.String:
		text := tok.Lexeme(c.file)
		text = strings.TrimSuffix(strings.TrimPrefix(text, "\""), "\"")
		c.emitConstant(text, tok)
	}
}

func (c *compiler) emitConstant(v bytecode.Value, tok token.Token) {
	idx, err := c.chunk.AddConstant(v)
	if err != nil {
		c.reportAt(diag.ExpectedExpression, "too many constants in one chunk", tok)
		return
	}
	c.chunk.WriteOp(bytecode.OpConstant, tok.Pos.Line)
	c.chunk.Write(idx, tok.Pos.Line)
}

// drainUnary pops and emits every pending unary operator sitting on top
// of the stack now that a value has just been completed (spec.md §4.6
// step 3: "drain any pending unary operators above").
func (c *compiler) drainUnary() {
	for len(c.stack) > 0 {
		top := c.stack[len(c.stack)-1]
		if top.isGroup || top.prec != precUnary {
			return
		}
		c.stack = c.stack[:len(c.stack)-1]
		c.chunk.WriteOp(top.op, top.line)
	}
}

// popWhileAtLeast pops and emits every operator whose precedence is >=
// prec, never crossing a group_start marker (spec.md §4.6 step 5).
func (c *compiler) popWhileAtLeast(prec precedence) {
	for len(c.stack) > 0 {
		top := c.stack[len(c.stack)-1]
		if top.isGroup || top.prec < prec {
			return
		}
		c.stack = c.stack[:len(c.stack)-1]
		c.chunk.WriteOp(top.op, top.line)
	}
}

// closeGroup implements step 3: pop and emit until the matching
// group_start is found and discarded. Reports UnmatchedClosingParen if
// none is found.
func (c *compiler) closeGroup(tok token.Token) bool {
	for len(c.stack) > 0 {
		top := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		if top.isGroup {
			return true
		}
		c.chunk.WriteOp(top.op, top.line)
	}
	c.reportAt(diag.UnmatchedClosingParen, "unmatched ')'", tok)
	return false
}

// drainAll implements step 6: emit every remaining operator; a
// surviving group_start marker is an UnclosedGrouping error.
func (c *compiler) drainAll(tok token.Token) {
	for len(c.stack) > 0 {
		top := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		if top.isGroup {
			c.reportAt(diag.UnclosedGrouping, "unclosed '('", tok)
			continue
		}
		c.chunk.WriteOp(top.op, top.line)
	}
}

func (c *compiler) reportAt(code diag.Code, msg string, tok token.Token) {
	c.bag.ReportError(code, msg, diag.Diagnostic{
		Primary: tok.Span,
		Pos:     tok.Pos,
		Lexeme:  tok.Lexeme(c.file),
	})
}

func binaryOpcode(kind token.Kind) bytecode.OpCode {
	switch kind {
	case token.Plus:
		return bytecode.OpAdd
	case token.Minus:
		return bytecode.OpSubtract
	case token.Star:
		return bytecode.OpMultiply
	case token.Slash:
		return bytecode.OpDivide
	case token.EqualEqual:
		return bytecode.OpEqual
	case token.BangEqual:
		return bytecode.OpNotEqual
	case token.Greater:
		return bytecode.OpGreater
	case token.GreaterEqual:
		return bytecode.OpGreaterEqual
	case token.Less:
		return bytecode.OpLess
	case token.LessEqual:
		return bytecode.OpLessEqual
	case token.And:
		return bytecode.OpAnd
	case token.Or:
		return bytecode.OpOr
	}
	return bytecode.OpReturn
}
