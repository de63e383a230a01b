// Package diagfmt renders a diag.Bag to a writer, colorizing by severity
// when the destination is a terminal (spec.md §4.8).
package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"lox/internal/diag"
)

// ColorMode mirrors the CLI's --color flag.
type ColorMode string

const (
	ColorAuto ColorMode = "auto"
	ColorOn   ColorMode = "on"
	ColorOff  ColorMode = "off"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow, color.Bold)
)

// Print renders every diagnostic in bag to w, one per line, as:
//
//	Error(<code>): <message> at <line>:<col> near '<lexeme>'
func Print(w io.Writer, bag *diag.Bag, mode ColorMode) {
	useColor := mode == ColorOn
	if mode == ColorAuto {
		if f, ok := w.(interface{ Fd() uintptr }); ok {
			useColor = isTerminal(f.Fd())
		}
	}
	for _, d := range bag.Items() {
		label := fmt.Sprintf("%s(%s)", titleCase(d.Severity.String()), d.Code)
		if useColor {
			if d.Severity == diag.SevError {
				label = errorColor.Sprint(label)
			} else {
				label = warnColor.Sprint(label)
			}
		}
		near := ""
		if d.Lexeme != "" {
			near = fmt.Sprintf(" near '%s'", d.Lexeme)
		}
		fmt.Fprintf(w, "%s: %s at %d:%d%s\n", label, d.Message, d.Pos.Line, d.Pos.Col, near)
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
