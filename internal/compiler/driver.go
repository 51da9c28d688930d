package compiler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arnavsurve/stups/internal/compiler/ast"
	"github.com/arnavsurve/stups/internal/compiler/checker"
	"github.com/arnavsurve/stups/internal/compiler/codegen"
	"github.com/arnavsurve/stups/internal/compiler/lexer"
	"github.com/arnavsurve/stups/internal/compiler/lib"
	"github.com/arnavsurve/stups/internal/compiler/parser"
)

// ErrSyntax wraps every parse failure returned by this package.
var ErrSyntax = errors.New("syntax errors")

// CompileAndWrite compiles srcPath and writes <name>.j into outDir, or
// next to the source when outDir is empty. It returns the written path.
func CompileAndWrite(srcPath, outDir string) (string, error) {
	if err := validateExtension(srcPath); err != nil {
		return "", err
	}

	content, err := readSource(srcPath)
	if err != nil {
		return "", err
	}

	out, err := Compile(content, lib.ModuleName(srcPath))
	if err != nil {
		return "", err
	}

	if outDir == "" {
		outDir = lib.ModuleDir(srcPath)
	}
	return writeOutput(out.Text, srcPath, outDir)
}

// Compile runs the whole pipeline on source text. Semantic errors come back
// as a checker.ErrorList.
func Compile(src, className string) (*codegen.Output, error) {
	prog, err := Parse(src)
	if err != nil {
		return nil, err
	}

	verified, err := checker.Check(prog)
	if err != nil {
		return nil, err
	}
	return codegen.Generate(verified, className)
}

// Check parses and checks src without generating code. The returned
// Checker carries the diagnostics; err is set only for syntax errors.
func Check(src string) (*checker.Checker, *ast.Program, error) {
	prog, err := Parse(src)
	if err != nil {
		return nil, nil, err
	}
	c := checker.New()
	c.Check(prog)
	return c, prog, nil
}

// Parse lexes and parses src into a program tree.
func Parse(src string) (*ast.Program, error) {
	p := parser.NewParser(lexer.NewLexer(src))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, fmt.Errorf("%w:\n%s", ErrSyntax, strings.Join(errs, "\n"))
	}
	return prog, nil
}

func validateExtension(path string) error {
	if filepath.Ext(path) != lib.SourceExt {
		return fmt.Errorf("source must have %s extension", lib.SourceExt)
	}
	return nil
}

func readSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	return string(b), err
}

func writeOutput(listing, srcPath, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	outFile := filepath.Join(outDir, lib.ModuleName(srcPath)+lib.AssemblyExt)
	return outFile, os.WriteFile(outFile, []byte(listing), 0o644)
}
