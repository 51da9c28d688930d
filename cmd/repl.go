package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/arnavsurve/stups/internal/compiler"
	"github.com/arnavsurve/stups/internal/compiler/codegen"
	"github.com/arnavsurve/stups/internal/compiler/lexer"
	"github.com/arnavsurve/stups/internal/compiler/token"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const (
	historyFile = ".stups_history"
	promptMain  = "stups> "
	promptCont  = "  ...> "
	replClass   = "Repl"
)

// repl: compile statements one at a time
var ReplCmd = &cobra.Command{
	Use:   "repl",
	Short: "Compile statements interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepl(cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func runRepl(stdout, stderr io.Writer) error {
	fmt.Fprintln(stdout, "stups repl. Statements run inside main; :asm :slots :reset :quit")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	s := &session{}
	for {
		code, ok := readStatement(ln)
		if !ok {
			fmt.Fprintln(stdout)
			return nil
		}
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}

		if strings.HasPrefix(code, ":") {
			if code == ":quit" {
				return nil
			}
			if err := s.command(stdout, code); err != nil {
				fmt.Fprintln(stderr, err)
			}
			continue
		}

		delta, err := s.eval(code)
		if err != nil {
			fmt.Fprintln(stderr, err)
			continue
		}
		fmt.Fprint(stdout, delta)
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readStatement reads lines until braces and parentheses balance.
func readStatement(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if !incomplete(b.String()) {
			return b.String(), true
		}
	}
}

// incomplete reports whether src opens more braces or parentheses than it
// closes.
func incomplete(src string) bool {
	l := lexer.NewLexer(src)
	depth := 0
	for tok := l.NextToken(); tok.Type != token.TokenEOF; tok = l.NextToken() {
		switch tok.Type {
		case token.TokenLBrace, token.TokenLParen:
			depth++
		case token.TokenRBrace, token.TokenRParen:
			depth--
		}
	}
	return depth > 0
}

// session is the program built so far in a repl. Accepted statements form
// the body of main; a rejected statement leaves it unchanged.
type session struct {
	stmts []string
	last  *codegen.Output
}

func (s *session) source(stmts []string) string {
	return "fun main() {\n" + strings.Join(stmts, "\n") + "\n}\n"
}

// eval compiles the program extended by input and returns the instructions
// the new statement added.
func (s *session) eval(input string) (string, error) {
	candidate := append(slices.Clone(s.stmts), input)
	out, err := compiler.Compile(s.source(candidate), replClass)
	if err != nil {
		return "", err
	}

	prev := ""
	if s.last != nil {
		prev = s.last.Body
	}
	s.stmts = candidate
	s.last = out
	return strings.TrimPrefix(out.Body, prev), nil
}

func (s *session) command(w io.Writer, cmd string) error {
	switch cmd {
	case ":asm":
		if s.last == nil {
			out, err := compiler.Compile(s.source(nil), replClass)
			if err != nil {
				return err
			}
			s.last = out
		}
		fmt.Fprint(w, s.last.Text)
	case ":slots":
		c, _, err := compiler.Check(s.source(s.stmts))
		if err != nil {
			return err
		}
		printSymbols(w, c)
	case ":reset":
		s.stmts = nil
		s.last = nil
	default:
		return fmt.Errorf("unknown command %s. Type :quit to exit", cmd)
	}
	return nil
}
