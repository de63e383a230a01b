package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lox/internal/diag"
	"lox/internal/diagfmt"
	"lox/internal/observ"
	"lox/internal/source"
)

type exitCode int

const (
	exitOk      exitCode = 0
	exitUsage   exitCode = 64
	exitCompile exitCode = 65
	exitRuntime exitCode = 70
)

func readSourceFile(path string) (*source.File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return source.NewFile(path, content), nil
}

func colorModeFromFlags(cmd *cobra.Command) diagfmt.ColorMode {
	v, _ := cmd.Root().PersistentFlags().GetString("color")
	switch v {
	case "on":
		return diagfmt.ColorOn
	case "off":
		return diagfmt.ColorOff
	default:
		return diagfmt.ColorAuto
	}
}

func printDiagnostics(cmd *cobra.Command, bag *diag.Bag) {
	if bag.Len() == 0 {
		return
	}
	diagfmt.Print(os.Stderr, bag, colorModeFromFlags(cmd))
}

func printTimings(cmd *cobra.Command, timer *observ.Timer) {
	show, _ := cmd.Root().PersistentFlags().GetBool("timings")
	if show {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
}
