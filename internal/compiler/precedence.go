package compiler

import "lox/internal/token"

// precedence orders the operator-stack entries spec.md §4.6 lists, low to
// high: assignment, or, and, equality, comparison, term, factor, unary,
// group_start. Assignment sits at the bottom of the table for symmetry
// with the treewalk's expression grammar even though the bytecode
// backend's expression subset never emits it (spec.md §4.6, §8: "the
// arithmetic/logic subset it supports").
type precedence int

const (
	precNone precedence = iota
	precAssignment
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precGroupStart
)

// binaryPrecedence returns the precedence of kind as a binary operator,
// or precNone if kind is not one (grounded on the teacher's
// parser/op_table.go precedence table, adapted from recursive-descent
// lookup to the single-pass operator stack).
func binaryPrecedence(kind token.Kind) precedence {
	switch kind {
	case token.Or:
		return precOr
	case token.And:
		return precAnd
	case token.EqualEqual, token.BangEqual:
		return precEquality
	case token.Greater, token.GreaterEqual, token.Less, token.LessEqual:
		return precComparison
	case token.Plus, token.Minus:
		return precTerm
	case token.Star, token.Slash:
		return precFactor
	}
	return precNone
}
