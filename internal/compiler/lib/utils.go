package lib

import (
	"math"
	"path/filepath"
	"strings"
)

const (
	SourceExt   = ".kt"
	AssemblyExt = ".j"
)

// FitsByte reports whether n can be a bipush operand.
func FitsByte(n int32) bool {
	return n >= math.MinInt8 && n <= math.MaxInt8
}

// FitsShort reports whether n can be a sipush operand.
func FitsShort(n int32) bool {
	return n >= math.MinInt16 && n <= math.MaxInt16
}

// ModuleName is the file's base name without the source extension; it
// names the generated class and the output file.
func ModuleName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), SourceExt)
}

// ModuleDir is the directory holding the source file.
func ModuleDir(path string) string {
	return filepath.Dir(path)
}
