package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/arnavsurve/stups/internal/compiler"
	"github.com/arnavsurve/stups/internal/compiler/ast"
	"github.com/arnavsurve/stups/internal/compiler/checker"
	"github.com/spf13/cobra"
)

// compile: .kt -> .j
var CompileCmd = &cobra.Command{
	Use:   "compile <source.kt>",
	Short: "Compile a source file into Jasmin assembly",
	Args:  cobra.ExactArgs(1),
	RunE:  compileRun,
}

func compileRun(cmd *cobra.Command, args []string) error {
	src := args[0]
	w := cmd.OutOrStdout()

	if verbose {
		if err := dump(w, src); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "↪ compiling %q ...\n", src)

	outFile, err := compiler.CompileAndWrite(src, outDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "✔︎ wrote assembly to %s\n", outFile)
	return nil
}

// dump prints the syntax tree and the symbol table of src.
func dump(w io.Writer, src string) error {
	content, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	c, prog, err := compiler.Check(string(content))
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "AST:")
	ast.PrintAST(w, prog, "  ")
	fmt.Fprintln(w, "Symbols:")
	printSymbols(w, c)
	return nil
}

func printSymbols(w io.Writer, c *checker.Checker) {
	for _, sym := range c.Symbols() {
		fmt.Fprintf(w, "  %-12s slot %-3d %s\n", sym.Name, sym.Slot, sym.Type)
	}
}
