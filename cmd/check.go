package cmd

import (
	"fmt"
	"os"

	"github.com/arnavsurve/stups/internal/compiler"
	"github.com/spf13/cobra"
)

// check: type-check without writing output
var CheckCmd = &cobra.Command{
	Use:   "check <source.kt>",
	Short: "Type-check a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := args[0]
		content, err := os.ReadFile(src)
		if err != nil {
			return err
		}

		c, _, err := compiler.Check(string(content))
		if err != nil {
			return err
		}
		if c.HasErrors() {
			return c.Errors()
		}

		w := cmd.OutOrStdout()
		if verbose {
			printSymbols(w, c)
		}
		fmt.Fprintf(w, "✔︎ %s: ok\n", src)
		return nil
	},
}
