package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arnavsurve/stups/internal/compiler/lib"
	"github.com/spf13/cobra"
)

const starter = `fun main() {
  var i: Int = 0
  while (i < 3) {
    println(i)
    i = i + 1
  }
}
`

// init: scaffold a new source file
var InitCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Scaffold a new source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		dir := outDir
		if dir == "" {
			dir = "."
		}
		path := filepath.Join(dir, name+lib.SourceExt)

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "↪ scaffolding %q ...\n", path)

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(starter), 0o644); err != nil {
			return err
		}

		fmt.Fprintf(w, "✔︎ created %s\n", path)
		return nil
	},
}
