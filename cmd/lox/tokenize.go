package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lox/internal/diag"
	"lox/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <path>",
	Short: "Print a Lox source file's token stream",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func runTokenize(cmd *cobra.Command, args []string) error {
	file, err := readSourceFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	bag := diag.NewBag()
	tokens := driver.Tokenize(file, bag)

	for _, tok := range tokens {
		fmt.Fprintf(os.Stdout, "%-4d %-14s %q\n", tok.Pos.Line, tok.Kind, tok.Lexeme(file))
	}

	printDiagnostics(cmd, bag)
	if bag.HasErrors() {
		os.Exit(int(exitCompile))
	}
	return nil
}
