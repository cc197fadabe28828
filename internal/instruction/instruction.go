// Package instruction contains the parsed representation of Hack assembly
// instructions and the parser that produces it.
package instruction

import (
	"strconv"
	"strings"
)

// MaxConstant is the largest value an address instruction can load, the
// leading bit of an encoded word is reserved for the instruction type.
const MaxConstant = 1<<15 - 1

// Kind is the type of an instruction.
type Kind uint8

// Instruction kinds. Invalid marks blank and comment lines that carry no data.
const (
	Invalid Kind = iota
	Address
	Compute
	Label
)

var kindNames = map[Kind]string{
	Invalid: "invalid",
	Address: "address",
	Compute: "compute",
	Label:   "label",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Instruction is the parsed form of a single source line.
type Instruction struct {
	Kind Kind

	Symbol string // address literal or name, or label name

	Dest Dest
	Comp Comp
	Jump Jump

	// AddressIndex is the ROM slot of the instruction. Labels occupy no slot,
	// for them it is the slot of the next real instruction.
	AddressIndex int
	Line         int // 1-based source line number
}

// Encodable returns whether the instruction produces a machine word.
func (i Instruction) Encodable() bool {
	return i.Kind == Address || i.Kind == Compute
}

// String returns the instruction in canonical compact assembly syntax.
func (i Instruction) String() string {
	switch i.Kind {
	case Address:
		return "@" + i.Symbol
	case Label:
		return "(" + i.Symbol + ")"
	case Compute:
		var sb strings.Builder
		if i.Dest != DestNull {
			sb.WriteString(i.Dest.String())
			sb.WriteByte('=')
		}
		sb.WriteString(i.Comp.String())
		if i.Jump != JumpNull {
			sb.WriteByte(';')
			sb.WriteString(i.Jump.String())
		}
		return sb.String()
	default:
		return ""
	}
}

// IsConstant returns whether the symbol is a decimal literal.
func IsConstant(symbol string) bool {
	if symbol == "" {
		return false
	}
	for i := 0; i < len(symbol); i++ {
		if !decimal(symbol[i]) {
			return false
		}
	}
	return true
}

// ConstantValue returns the value of a decimal literal symbol.
func ConstantValue(symbol string) (int, bool) {
	if !IsConstant(symbol) {
		return 0, false
	}
	v, err := strconv.ParseUint(symbol, 10, 16)
	if err != nil || v > MaxConstant {
		return 0, false
	}
	return int(v), true
}

func decimal(c byte) bool {
	return c >= '0' && c <= '9'
}

func alpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func symbolStartChar(c byte) bool {
	return alpha(c) || c == '_' || c == '.' || c == '$' || c == ':'
}

func symbolChar(c byte) bool {
	return symbolStartChar(c) || decimal(c)
}

// validName returns whether s is a legal label or variable name.
func validName(s string) bool {
	if s == "" || !symbolStartChar(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !symbolChar(s[i]) {
			return false
		}
	}
	return true
}
