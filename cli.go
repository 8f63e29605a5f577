package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/diag"
	"github.com/emberlang/ember/semantic"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `Ember - semantic analyzer for the Ember language

Usage:
    ember <command> [arguments]

Commands:
    check <file>    Analyze a parsed .etree file and report diagnostics
    dump <file>     Analyze a parsed .etree file and print the rewritten tree
    help            Show this help message

Examples:
    ember check main.etree
    ember check -j 4 -v main.etree
    ember dump -table main.etree

Use "ember <command> -h" for more information about a command.
`)
}

// analysisFlags registers the flags shared by check and dump.
func analysisFlags(fs *flag.FlagSet) *semantic.Config {
	cfg := semantic.DefaultConfig()
	fs.IntVar(&cfg.Jobs, "j", cfg.Jobs, "Number of sibling modules to analyze concurrently")
	fs.IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "Maximum nesting depth of the input tree")
	return &cfg
}

// analyzeFile reads and analyzes one tree file. The error is for I/O and
// malformed trees; semantic problems are in the result's diagnostics.
func analyzeFile(filename string, cfg semantic.Config, verbose io.Writer) (semantic.Result, error) {
	start := time.Now()
	source, err := os.ReadFile(filename)
	if err != nil {
		return semantic.Result{}, fmt.Errorf("reading %s: %w", filename, err)
	}
	tree, err := ast.Parse(string(source), filename)
	if err != nil {
		return semantic.Result{}, fmt.Errorf("reading tree: %w", err)
	}
	fmt.Fprintf(verbose, "Read %s (%d bytes) in %v\n", filename, len(source), time.Since(start))

	start = time.Now()
	cfg.Unit = filename
	result := semantic.Analyze(tree, cfg)
	fmt.Fprintf(verbose, "Analyzed with %d job(s) in %v: %d error(s), %d warning(s)\n",
		cfg.Jobs, time.Since(start),
		result.Diagnostics.Count(diag.Error), result.Diagnostics.Count(diag.Warning))
	return result, nil
}

// verboseWriter is w when verbose output is on and a discarding writer
// otherwise.
func verboseWriter(verbose bool, w io.Writer) io.Writer {
	if verbose {
		return w
	}
	return io.Discard
}

// printDiagnostics writes diagnostics to w and reports whether any of them
// is an error.
func printDiagnostics(w io.Writer, diags *diag.List) bool {
	if diags.Len() > 0 {
		fmt.Fprintln(w, diags.String())
	}
	return diags.HasErrors()
}

func checkCommand(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Show verbose checking details")
	cfg := analysisFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ember check [-v] [-j N] [-max-depth N] <file>\n")
		fmt.Fprintf(os.Stderr, "Analyze a parsed .etree file and report diagnostics\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	filename := fs.Arg(0)

	if *verbose {
		fmt.Printf("Checking %s...\n", filename)
	}

	result, err := analyzeFile(filename, *cfg, verboseWriter(*verbose, os.Stdout))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if printDiagnostics(os.Stdout, &result.Diagnostics) {
		os.Exit(1)
	}

	fmt.Printf("%s: no errors found\n", filename)
}

func dumpCommand(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Show verbose analysis details")
	table := fs.Bool("table", false, "Also print the symbol table")
	cfg := analysisFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ember dump [-v] [-table] [-j N] [-max-depth N] <file>\n")
		fmt.Fprintf(os.Stderr, "Analyze a parsed .etree file and print the rewritten tree\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	failed, err := dump(os.Stdout, os.Stderr, fs.Arg(0), *cfg, *verbose, *table)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if failed {
		os.Exit(1)
	}
}

// dump analyzes filename and writes the rewritten tree, and the symbol table
// when table is set, to out. Diagnostics and verbose details go to errOut so
// that out carries only the tree. It reports whether analysis found errors.
func dump(out, errOut io.Writer, filename string, cfg semantic.Config, verbose, table bool) (bool, error) {
	result, err := analyzeFile(filename, cfg, verboseWriter(verbose, errOut))
	if err != nil {
		return false, err
	}

	failed := printDiagnostics(errOut, &result.Diagnostics)

	fmt.Fprintln(out, ast.Format(result.Tree))
	if table {
		fmt.Fprintf(out, "\nSymbols:\n%s", result.Table.Dump())
	}
	return failed, nil
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "check":
		checkCommand(args)
	case "dump":
		dumpCommand(args)
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showUsage()
		os.Exit(1)
	}
}
