// Package code generates the machine words for resolved instructions.
package code

import (
	"errors"
	"fmt"

	"github.com/retroenv/hackasm/internal/instruction"
)

// WordSize is the number of bits in a machine word.
const WordSize = 16

// computePrefix marks a compute instruction in the 3 highest bits.
const computePrefix = 0b111 << 13

var (
	// ErrUndefinedSymbol is returned for an address symbol missing from the symbol table.
	ErrUndefinedSymbol = errors.New("undefined symbol")
	// ErrUnknownMnemonic is returned for a field that has no bit pattern.
	ErrUnknownMnemonic = errors.New("unknown mnemonic")
	// ErrNotEncodable is returned for instructions that do not produce a word.
	ErrNotEncodable = errors.New("instruction does not produce a machine word")
	// ErrMalformedWord is returned for text that is not a binary machine word.
	ErrMalformedWord = errors.New("malformed machine word")
)

// SymbolLookup resolves symbol names to addresses.
type SymbolLookup interface {
	Get(name string) (int, bool)
}

// Word is a 16 bit machine word.
type Word uint16

// String returns the word as 16 binary digits, most significant bit first.
func (w Word) String() string {
	return fmt.Sprintf("%016b", uint16(w))
}

// ParseWord parses a word from exactly WordSize binary digits.
func ParseWord(s string) (Word, error) {
	if len(s) != WordSize {
		return 0, fmt.Errorf("%w '%s': expected %d digits", ErrMalformedWord, s, WordSize)
	}
	var w Word
	for _, c := range s {
		switch c {
		case '0':
			w <<= 1
		case '1':
			w = w<<1 | 1
		default:
			return 0, fmt.Errorf("%w '%s': invalid digit '%c'", ErrMalformedWord, s, c)
		}
	}
	return w, nil
}

// IsCompute returns whether the word encodes a compute instruction.
func (w Word) IsCompute() bool {
	return w&computePrefix == computePrefix
}

// Generate returns the machine word of an address or compute instruction.
func Generate(ins instruction.Instruction, symbols SymbolLookup) (Word, error) {
	switch ins.Kind {
	case instruction.Address:
		return generateAddress(ins.Symbol, symbols)
	case instruction.Compute:
		return generateCompute(ins)
	default:
		return 0, fmt.Errorf("%w: %s", ErrNotEncodable, ins.Kind)
	}
}

func generateAddress(symbol string, symbols SymbolLookup) (Word, error) {
	if value, ok := instruction.ConstantValue(symbol); ok {
		return Word(value), nil
	}
	if instruction.IsConstant(symbol) {
		return 0, fmt.Errorf("constant '%s' exceeds %d", symbol, instruction.MaxConstant)
	}

	address, ok := symbols.Get(symbol)
	if !ok {
		return 0, fmt.Errorf("%w '%s'", ErrUndefinedSymbol, symbol)
	}
	if address < 0 || address > instruction.MaxConstant {
		return 0, fmt.Errorf("address %d of symbol '%s' does not fit into an address instruction", address, symbol)
	}
	return Word(address), nil
}

func generateCompute(ins instruction.Instruction) (Word, error) {
	comp, ok := ins.Comp.Bits()
	if !ok {
		return 0, fmt.Errorf("%w: computation %d", ErrUnknownMnemonic, ins.Comp)
	}
	if !ins.Dest.Valid() {
		return 0, fmt.Errorf("%w: destination %d", ErrUnknownMnemonic, ins.Dest)
	}
	if !ins.Jump.Valid() {
		return 0, fmt.Errorf("%w: jump %d", ErrUnknownMnemonic, ins.Jump)
	}

	w := computePrefix | comp<<6 | ins.Dest.Bits()<<3 | ins.Jump.Bits()
	return Word(w), nil
}
