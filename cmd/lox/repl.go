package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lox/internal/diag"
	"lox/internal/lexer"
	"lox/internal/parser"
	"lox/internal/resolve"
	"lox/internal/source"
	"lox/internal/treewalk"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive Lox session",
	Long:  `repl is line-oriented: each accepted line runs against a persistent global environment. The line "exit" quits.`,
	Args:  cobra.NoArgs,
	RunE:  runRepl,
}

func runRepl(cmd *cobra.Command, args []string) error {
	var interp *treewalk.Interpreter
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprint(os.Stdout, "> ")
	for scanner.Scan() {
		line := scanner.Text()
		if line == "exit" {
			return nil
		}

		file := source.NewFile("<repl>", []byte(line))
		bag := diag.NewBag()

		tokens := lexer.New(file, bag).ScanTokens()
		program := parser.New(tokens, file, bag).Parse()
		depths := resolve.New(program, file, bag).Resolve(program.Root)

		if bag.HasErrors() {
			printDiagnostics(cmd, bag)
			fmt.Fprint(os.Stdout, "> ")
			continue
		}

		if interp == nil {
			interp = treewalk.New(program, file, depths, os.Stdout)
		} else {
			interp.SetProgram(program, depths)
		}

		if err := interp.Interpret(program.Root); err != nil {
			reportReplError(cmd, bag, file, err)
		}
		fmt.Fprint(os.Stdout, "> ")
	}
	return scanner.Err()
}

func reportReplError(cmd *cobra.Command, bag *diag.Bag, file *source.File, err error) {
	if rt, ok := err.(*treewalk.RuntimeError); ok {
		bag.ReportError(rt.Code, rt.Message, diag.Diagnostic{
			Primary: rt.Tok.Span,
			Pos:     rt.Tok.Pos,
			Lexeme:  rt.Tok.Lexeme(file),
		})
	} else {
		bag.ReportError(diag.TypeMismatch, err.Error(), diag.Diagnostic{})
	}
	printDiagnostics(cmd, bag)
}
