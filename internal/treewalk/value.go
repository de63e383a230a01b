package treewalk

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is the tagged union spec.md §3 describes, represented with plain
// Go types rather than a hand-rolled tag byte: nil for Nil, bool,
// float64, string, Callable for any of the three callable kinds, and
// *Instance. A type switch at each use site stands in for the spec's
// exhaustive match (spec.md §9).
type Value interface{}

// IsTruthy implements spec.md §4.5: "Nil and Bool(false) are the only
// falsy values; everything else is truthy".
func IsTruthy(v Value) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// ValuesEqual compares by Go dynamic type then value: values of
// different kinds are never equal (spec.md §4.5, §8).
func ValuesEqual(a, b Value) bool {
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

// Stringify renders v the way the `print` statement and the REPL do.
func Stringify(v Value) string {
	switch vv := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(vv)
	case float64:
		return formatNumber(vv)
	case string:
		return vv
	case fmt.Stringer:
		return vv.String()
	default:
		return fmt.Sprintf("%v", vv)
	}
}

func formatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if strings.Contains(s, ".") {
		return s
	}
	return s
}
