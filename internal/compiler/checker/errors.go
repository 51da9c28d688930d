package checker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arnavsurve/stups/internal/compiler/token"
)

var (
	ErrDuplicate    = errors.New("duplicate declaration")
	ErrUndeclared   = errors.New("undeclared variable")
	ErrTypeMismatch = errors.New("type mismatch")
)

type Kind int

const (
	DuplicateDeclaration Kind = iota
	UndeclaredVariable
	TypeMismatch
	ConditionTypeMismatch
)

func (k Kind) String() string {
	switch k {
	case DuplicateDeclaration:
		return "DuplicateDeclaration"
	case UndeclaredVariable:
		return "UndeclaredVariable"
	case TypeMismatch:
		return "TypeMismatch"
	case ConditionTypeMismatch:
		return "ConditionTypeMismatch"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Diagnostic is one semantic error found by the Checker.
type Diagnostic struct {
	Kind    Kind
	Pos     token.Position
	Message string
}

func (d *Diagnostic) Error() string {
	if !d.Pos.IsValid() {
		return "Semantic Error: " + d.Message
	}
	return fmt.Sprintf("%d:%d: Semantic Error: %s", d.Pos.Line, d.Pos.Column, d.Message)
}

// Unwrap lets callers match a diagnostic with errors.Is. A condition
// mismatch is a type mismatch.
func (d *Diagnostic) Unwrap() error {
	switch d.Kind {
	case DuplicateDeclaration:
		return ErrDuplicate
	case UndeclaredVariable:
		return ErrUndeclared
	default:
		return ErrTypeMismatch
	}
}

// ErrorList is the ordered list of diagnostics of one check.
type ErrorList []*Diagnostic

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	msgs := make([]string, len(l))
	for i, d := range l {
		msgs[i] = d.Error()
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes every diagnostic to errors.Is and errors.As.
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, d := range l {
		errs[i] = d
	}
	return errs
}
