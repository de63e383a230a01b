package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lox/internal/diag"
	"lox/internal/driver"
	"lox/internal/loxc"
)

var buildCmd = &cobra.Command{
	Use:   "build <path>",
	Short: "Compile a Lox program to a .loxc bytecode chunk",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringP("output", "o", "", "output .loxc path (defaults to the input path with .loxc appended)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	path := args[0]
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = path + ".loxc"
	}

	file, err := readSourceFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	bag := diag.NewBag()
	chunk, ok := driver.BuildChunk(file, bag)
	printDiagnostics(cmd, bag)
	if !ok {
		os.Exit(int(exitCompile))
	}

	data, err := loxc.Marshal(chunk)
	if err != nil {
		return fmt.Errorf("encoding chunk: %w", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Fprintf(os.Stdout, "wrote %s\n", out)
	return nil
}
