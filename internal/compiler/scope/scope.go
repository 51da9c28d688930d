package scope

import (
	"fmt"

	"github.com/arnavsurve/stups/internal/compiler/symbols"
	"github.com/arnavsurve/stups/internal/compiler/token"
)

// Scope is the single flat symbol table of one compilation unit. The order
// of first definition decides the slot numbers.
type Scope struct {
	Name    string
	symbols map[string]*symbols.Symbol
	order   []*symbols.Symbol
}

func NewScope(name string) *Scope {
	return &Scope{
		Name:    name,
		symbols: make(map[string]*symbols.Symbol),
	}
}

// Define adds a symbol under the next free slot.
// It returns an error, and consumes no slot, if the name already exists.
func (s *Scope) Define(name string, typ symbols.Type, pos token.Position) (*symbols.Symbol, error) {
	if _, exists := s.symbols[name]; exists {
		return nil, fmt.Errorf("variable '%s' already declared", name)
	}
	sym := &symbols.Symbol{Name: name, Type: typ, Slot: len(s.order), Pos: pos}
	s.symbols[name] = sym
	s.order = append(s.order, sym)
	return sym, nil
}

// Lookup returns a copy of the symbol so callers cannot modify the table.
func (s *Scope) Lookup(name string) (*symbols.Symbol, bool) {
	if sym, ok := s.symbols[name]; ok {
		symCopy := *sym
		return &symCopy, true
	}
	return nil, false
}

// Len is the number of slots handed out so far.
func (s *Scope) Len() int {
	return len(s.order)
}

// Symbols returns copies of all symbols in slot order.
func (s *Scope) Symbols() []symbols.Symbol {
	out := make([]symbols.Symbol, len(s.order))
	for i, sym := range s.order {
		out[i] = *sym
	}
	return out
}
