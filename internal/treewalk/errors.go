package treewalk

import "lox/internal/diag"
import "lox/internal/token"

// RuntimeError is a runtime diagnostic propagated up through statement
// and expression evaluation (spec.md §7: runtime errors "propagate to
// the driver's pipeline boundary").
type RuntimeError struct {
	Code    diag.Code
	Message string
	Tok     token.Token
}

func (e *RuntimeError) Error() string { return e.Message }

// returnSignal is the internal, out-of-band control-flow value a Return
// statement raises; the enclosing call frame intercepts it and never lets
// it reach the driver (spec.md §7, §9).
type returnSignal struct {
	Value Value
}

func (r *returnSignal) Error() string { return "return" }
