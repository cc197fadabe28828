// Package symbols provides the symbol table and the two pass resolver that
// binds labels and variables to addresses.
package symbols

import (
	"fmt"
	"sort"
)

// Addresses of the predefined symbols.
const (
	ScreenAddress   = 16384
	KeyboardAddress = 24576

	// FirstVariableAddress is the RAM address assigned to the first variable.
	FirstVariableAddress = 16
)

var predefined = map[string]int{
	"SP":     0,
	"LCL":    1,
	"ARG":    2,
	"THIS":   3,
	"THAT":   4,
	"SCREEN": ScreenAddress,
	"KBD":    KeyboardAddress,
}

func init() {
	for i := 0; i < 16; i++ {
		predefined[fmt.Sprintf("R%d", i)] = i
	}
}

// Symbol is a single name to address binding.
type Symbol struct {
	Name    string
	Address int
}

// Table maps symbol names to addresses. Once bound, a name keeps its address.
type Table struct {
	entries map[string]int
}

// NewTable returns a table that contains the predefined symbols.
func NewTable() *Table {
	t := &Table{
		entries: make(map[string]int, len(predefined)),
	}
	for name, address := range predefined {
		t.entries[name] = address
	}
	return t
}

// Get returns the address bound to the name.
func (t *Table) Get(name string) (int, bool) {
	address, ok := t.entries[name]
	return address, ok
}

// Has returns whether the name is bound.
func (t *Table) Has(name string) bool {
	_, ok := t.entries[name]
	return ok
}

// Bind binds the name to the address. It returns false and leaves the
// table unchanged if the name is already bound.
func (t *Table) Bind(name string, address int) bool {
	if _, ok := t.entries[name]; ok {
		return false
	}
	t.entries[name] = address
	return true
}

// Len returns the number of bound symbols.
func (t *Table) Len() int {
	return len(t.entries)
}

// Sorted returns all symbols ordered by address and then by name.
func (t *Table) Sorted() []Symbol {
	symbols := make([]Symbol, 0, len(t.entries))
	for name, address := range t.entries {
		symbols = append(symbols, Symbol{Name: name, Address: address})
	}
	sort.Slice(symbols, func(i, j int) bool {
		if symbols[i].Address != symbols[j].Address {
			return symbols[i].Address < symbols[j].Address
		}
		return symbols[i].Name < symbols[j].Name
	})
	return symbols
}

// IsPredefined returns whether the name is one of the built-in symbols.
func IsPredefined(name string) bool {
	_, ok := predefined[name]
	return ok
}
