// Package driver wires the scanner, parser, resolver and interpreter (or
// the compiler and VM) into the two end-to-end pipelines spec.md §5
// describes, each operating on a single source buffer. Grounded on the
// teacher's driver/parse.go and driver/tokenize.go entry-point shape,
// reduced from a multi-file module graph to a single file.
package driver

import (
	"io"

	"lox/internal/bytecode"
	"lox/internal/compiler"
	"lox/internal/diag"
	"lox/internal/lexer"
	"lox/internal/observ"
	"lox/internal/parser"
	"lox/internal/resolve"
	"lox/internal/source"
	"lox/internal/token"
	"lox/internal/treewalk"
	"lox/internal/vm"
)

// ExitCode follows spec.md §6 exactly.
type ExitCode int

const (
	ExitOk      ExitCode = 0
	ExitUsage   ExitCode = 64
	ExitCompile ExitCode = 65
	ExitRuntime ExitCode = 70
)

// Tokenize runs just the scanner, for the `lox tokenize` debug
// subcommand.
func Tokenize(file *source.File, bag *diag.Bag) []token.Token {
	return lexer.New(file, bag).ScanTokens()
}

// RunTreewalk scans, parses, resolves and interprets source, writing
// `print` output to out. The returned ExitCode follows spec.md §6/§7:
// a lex/parse/resolve error yields ExitCompile before the interpreter
// ever runs; a runtime error yields ExitRuntime.
func RunTreewalk(file *source.File, out io.Writer, bag *diag.Bag, timer *observ.Timer) ExitCode {
	scanPhase := timer.Begin("scan")
	tokens := lexer.New(file, bag).ScanTokens()
	timer.End(scanPhase, "")
	if bag.HasErrors() {
		return ExitCompile
	}

	parsePhase := timer.Begin("parse")
	program := parser.New(tokens, file, bag).Parse()
	timer.End(parsePhase, "")
	if bag.HasErrors() {
		return ExitCompile
	}

	resolvePhase := timer.Begin("resolve")
	depths := resolve.New(program, file, bag).Resolve(program.Root)
	timer.End(resolvePhase, "")
	if bag.HasErrors() {
		return ExitCompile
	}

	interpretPhase := timer.Begin("interpret")
	interp := treewalk.New(program, file, depths, out)
	err := interp.Interpret(program.Root)
	timer.End(interpretPhase, "")
	if err != nil {
		reportRuntimeError(bag, file, err)
		return ExitRuntime
	}
	return ExitOk
}

// RunVM scans, compiles and runs source through the bytecode VM. Per
// spec.md §4.6/§8, the VM backend's expression subset has no print
// statement of its own; `lox run --vm` prints the resulting top-of-stack
// value the same way a REPL echoes an expression result.
func RunVM(file *source.File, out io.Writer, bag *diag.Bag, timer *observ.Timer) ExitCode {
	scanPhase := timer.Begin("scan")
	tokens := lexer.New(file, bag).ScanTokens()
	timer.End(scanPhase, "")
	if bag.HasErrors() {
		return ExitCompile
	}

	compilePhase := timer.Begin("compile")
	chunk, ok := compiler.Compile(tokens, file, bag)
	timer.End(compilePhase, "")
	if !ok {
		return ExitCompile
	}

	runPhase := timer.Begin("run")
	machine := vm.New(chunk, bag)
	result := machine.Run()
	timer.End(runPhase, "")

	switch result {
	case vm.Ok:
		if v, ok := machine.Peek(); ok {
			io.WriteString(out, bytecode.Print(v)+"\n")
		}
		return ExitOk
	case vm.CompileError:
		return ExitCompile
	default:
		return ExitRuntime
	}
}

// BuildChunk scans and compiles source to a Chunk, for `lox build`.
func BuildChunk(file *source.File, bag *diag.Bag) (*bytecode.Chunk, bool) {
	tokens := lexer.New(file, bag).ScanTokens()
	if bag.HasErrors() {
		return nil, false
	}
	return compiler.Compile(tokens, file, bag)
}

// RunChunk runs an already-compiled chunk through the VM, for
// `lox run <out.loxc>`.
func RunChunk(chunk *bytecode.Chunk, out io.Writer, bag *diag.Bag) ExitCode {
	machine := vm.New(chunk, bag)
	switch machine.Run() {
	case vm.Ok:
		if v, ok := machine.Peek(); ok {
			io.WriteString(out, bytecode.Print(v)+"\n")
		}
		return ExitOk
	case vm.CompileError:
		return ExitCompile
	default:
		return ExitRuntime
	}
}

func reportRuntimeError(bag *diag.Bag, file *source.File, err error) {
	if rt, ok := err.(*treewalk.RuntimeError); ok {
		bag.ReportError(rt.Code, rt.Message, diag.Diagnostic{
			Primary: rt.Tok.Span,
			Pos:     rt.Tok.Pos,
			Lexeme:  rt.Tok.Lexeme(file),
		})
		return
	}
	bag.ReportError(diag.TypeMismatch, err.Error(), diag.Diagnostic{})
}
