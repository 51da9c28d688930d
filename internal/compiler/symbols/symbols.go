package symbols

import "github.com/arnavsurve/stups/internal/compiler/token"

// Type is the static type of a variable or expression. The zero value,
// Unresolved, marks an expression whose type could not be determined
// because of an earlier error.
type Type int

const (
	Unresolved Type = iota
	Int
	Bool
)

func (t Type) String() string {
	switch t {
	case Int:
		return "Int"
	case Bool:
		return "Bool"
	default:
		return "unresolved"
	}
}

// ParseType maps a surface type name to its Type.
func ParseType(name string) (Type, bool) {
	switch name {
	case "Int":
		return Int, true
	case "Bool", "Boolean":
		return Bool, true
	}
	return Unresolved, false
}

type Symbol struct {
	Name string
	Type Type
	Slot int            // local variable index, dense from 0
	Pos  token.Position // position of the declaring identifier
}
