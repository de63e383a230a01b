package diag

import "lox/internal/source"

// Diagnostic is a single error or warning, located by a source span and
// carrying the lexeme text the driver will print alongside the message
// (spec.md §4.8's "near <lexeme>").
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Pos      source.Pos
	Lexeme   string
}
