package treewalk

import "time"

// installNatives binds the interpreter's native functions into globals
// (spec.md: "clock() — milliseconds since epoch as a Number").
func installNatives(globals *Environment) {
	globals.Define("clock", &NativeFunction{
		Name: "clock",
		Ar:   0,
		Fn: func(_ *Interpreter, _ []Value) (Value, error) {
			return float64(time.Now().UnixNano()) / float64(time.Millisecond), nil
		},
	})
}
