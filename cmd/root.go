package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

var (
	outDir  string
	verbose bool
)

// ErrUsage is returned when stups is invoked without a command.
var ErrUsage = errors.New("usage: stups <command> [file]")

var rootCmd = &cobra.Command{
	Use:   "stups",
	Short: "stups: type checker and JVM assembler for a small Kotlin subset",
	Long: `stups checks .kt programs and lowers them to Jasmin assembly.

Commands:
  compile   Compile a (.kt) source file into (.j) Jasmin assembly
  check     Type-check a source file without writing anything
  liveness  Liveness analysis (not implemented, does nothing)
  init      Scaffold a new source file
  repl      Compile statements interactively
`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = cmd.Help()
		return ErrUsage
	},
}

// Execute runs the command line in os.Args.
func Execute() error {
	return ExecuteArgs(os.Args[1:])
}

// ExecuteArgs runs stups with args, which exclude the program name.
func ExecuteArgs(args []string) error {
	rootCmd.SetArgs(legacyArgs(args))
	return rootCmd.Execute()
}

// legacyArgs rewrites the single-dash forms "-compile <file>" and
// "-liveness <file>" into their subcommands. The result is never nil, since
// cobra reads os.Args for nil args.
func legacyArgs(args []string) []string {
	if len(args) == 0 {
		return []string{}
	}
	switch args[0] {
	case "-compile", "-liveness":
		return append([]string{args[0][1:]}, args[1:]...)
	}
	return args
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "", "output directory (default: next to the source)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print the syntax tree and symbol table")

	rootCmd.AddCommand(CompileCmd, CheckCmd, LivenessCmd, InitCmd, ReplCmd)
}
