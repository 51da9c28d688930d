package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// liveness: placeholder kept for the -liveness invocation
var LivenessCmd = &cobra.Command{
	Use:   "liveness <source.kt>",
	Short: "Liveness analysis (does nothing yet)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "↪ liveness %q: nothing to do\n", args[0])
		}
	},
}
