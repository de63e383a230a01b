package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lox/internal/config"
	"lox/internal/diag"
	"lox/internal/driver"
	"lox/internal/loxc"
	"lox/internal/observ"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [path]",
	Short: "Run a Lox program",
	Long:  `Run executes a Lox source file through the tree-walk interpreter, or through the bytecode compiler and VM with --vm. With no path, falls back to lox.toml's entry if present.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().Bool("vm", false, "run through the bytecode compiler and VM instead of the tree-walk interpreter")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, hasCfg, err := config.Load("lox.toml")
	if err != nil {
		return fmt.Errorf("loading lox.toml: %w", err)
	}

	var path string
	switch {
	case len(args) == 1:
		path = args[0]
	case hasCfg && cfg.Entry != "":
		path = cfg.Entry
	default:
		fmt.Fprintln(os.Stderr, "usage: lox run [flags] <path>")
		os.Exit(int(exitUsage))
		return nil
	}

	useVM, _ := cmd.Flags().GetBool("vm")
	if !cmd.Flags().Changed("vm") && hasCfg && cfg.Backend == "vm" {
		useVM = true
	}

	timer := observ.NewTimer()
	bag := diag.NewBag()

	if strings.HasSuffix(path, ".loxc") {
		return runLoxc(cmd, path, bag, timer)
	}

	file, err := readSourceFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var code driver.ExitCode
	if useVM {
		code = driver.RunVM(file, os.Stdout, bag, timer)
	} else {
		code = driver.RunTreewalk(file, os.Stdout, bag, timer)
	}

	printDiagnostics(cmd, bag)
	printTimings(cmd, timer)
	os.Exit(int(code))
	return nil
}

func runLoxc(cmd *cobra.Command, path string, bag *diag.Bag, timer *observ.Timer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	chunk, err := loxc.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	code := driver.RunChunk(chunk, os.Stdout, bag)
	printDiagnostics(cmd, bag)
	printTimings(cmd, timer)
	os.Exit(int(code))
	return nil
}
