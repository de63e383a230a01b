package main

import (
	"os"

	"github.com/spf13/cobra"

	"lox/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "lox",
	Short: "Lox language interpreter and toolchain",
	Long:  `lox runs Lox programs through either a tree-walking interpreter or a bytecode compiler and VM.`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(buildCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize diagnostics (auto|on|off)")
	rootCmd.PersistentFlags().Bool("timings", false, "print phase timings to stderr")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(int(exitUsage))
	}
}
