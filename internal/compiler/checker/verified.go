package checker

import (
	"fmt"

	"github.com/arnavsurve/stups/internal/compiler/ast"
	"github.com/arnavsurve/stups/internal/compiler/symbols"
)

// Verified is a program that passed checking together with its slot and
// type assignments. Only Checker.Verify creates one, so holding a Verified
// proves the program is error-free.
type Verified struct {
	checker *Checker
}

func (v *Verified) Program() *ast.Program {
	return v.checker.prog
}

// SlotOf returns the slot of name. Every name in a verified program is
// declared, so a miss means the caller passed a name from another tree.
func (v *Verified) SlotOf(name string) int {
	slot, ok := v.checker.SlotOf(name)
	if !ok {
		panic(fmt.Sprintf("checker: no slot for %q in verified program", name))
	}
	return slot
}

func (v *Verified) SlotCount() int {
	return v.checker.SlotCount()
}

func (v *Verified) TypeOf(e ast.Expression) symbols.Type {
	return v.checker.TypeOf(e)
}

func (v *Verified) Symbols() []symbols.Symbol {
	return v.checker.Symbols()
}
