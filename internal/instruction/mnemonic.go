package instruction

import (
	"github.com/beevik/prefixtree/v2"
)

// Dest is the destination field of a compute instruction. Its value is
// the 3 bit d1d2d3 group of the encoded word.
type Dest uint8

// Destination variants, DestNull discards the result.
const (
	DestNull Dest = iota
	DestM
	DestD
	DestMD
	DestA
	DestAM
	DestAD
	DestAMD
)

var destNames = [...]string{"", "M", "D", "MD", "A", "AM", "AD", "AMD"}

// Jump is the jump field of a compute instruction. Its value is the 3 bit
// j1j2j3 group of the encoded word.
type Jump uint8

// Jump variants, JumpNull does not jump.
const (
	JumpNull Jump = iota
	JumpJGT
	JumpJEQ
	JumpJGE
	JumpJLT
	JumpJNE
	JumpJLE
	JumpJMP
)

var jumpNames = [...]string{"", "JGT", "JEQ", "JGE", "JLT", "JNE", "JLE", "JMP"}

// Comp is the computation field of a compute instruction.
// The zero value is not a valid computation.
type Comp uint8

// Computation variants. The A register forms come first, followed by the
// forms that read the memory operand M.
const (
	CompInvalid Comp = iota
	CompZero
	CompOne
	CompMinusOne
	CompD
	CompA
	CompNotD
	CompNotA
	CompNegD
	CompNegA
	CompDPlusOne
	CompAPlusOne
	CompDMinusOne
	CompAMinusOne
	CompDPlusA
	CompDMinusA
	CompAMinusD
	CompDAndA
	CompDOrA
	CompM
	CompNotM
	CompNegM
	CompMPlusOne
	CompMMinusOne
	CompDPlusM
	CompDMinusM
	CompMMinusD
	CompDAndM
	CompDOrM

	compCount
)

type compInfo struct {
	mnemonic string
	bits     uint16 // a c1 c2 c3 c4 c5 c6
}

var comps = [compCount]compInfo{
	CompInvalid:   {},
	CompZero:      {"0", 0b0101010},
	CompOne:       {"1", 0b0111111},
	CompMinusOne:  {"-1", 0b0111010},
	CompD:         {"D", 0b0001100},
	CompA:         {"A", 0b0110000},
	CompNotD:      {"!D", 0b0001101},
	CompNotA:      {"!A", 0b0110001},
	CompNegD:      {"-D", 0b0001111},
	CompNegA:      {"-A", 0b0110011},
	CompDPlusOne:  {"D+1", 0b0011111},
	CompAPlusOne:  {"A+1", 0b0110111},
	CompDMinusOne: {"D-1", 0b0001110},
	CompAMinusOne: {"A-1", 0b0110010},
	CompDPlusA:    {"D+A", 0b0000010},
	CompDMinusA:   {"D-A", 0b0010011},
	CompAMinusD:   {"A-D", 0b0000111},
	CompDAndA:     {"D&A", 0b0000000},
	CompDOrA:      {"D|A", 0b0010101},
	CompM:         {"M", 0b1110000},
	CompNotM:      {"!M", 0b1110001},
	CompNegM:      {"-M", 0b1110011},
	CompMPlusOne:  {"M+1", 0b1110111},
	CompMMinusOne: {"M-1", 0b1110010},
	CompDPlusM:    {"D+M", 0b1000010},
	CompDMinusM:   {"D-M", 0b1010011},
	CompMMinusD:   {"M-D", 0b1000111},
	CompDAndM:     {"D&M", 0b1000000},
	CompDOrM:      {"D|M", 0b1010101},
}

var (
	destByName = map[string]Dest{}
	jumpByName = map[string]Jump{}
	compByName = map[string]Comp{}
	compByBits = map[uint16]Comp{}

	destTree = prefixtree.New[string]()
	jumpTree = prefixtree.New[string]()
	compTree = prefixtree.New[string]()
)

func init() {
	for i, name := range destNames {
		if name == "" {
			continue
		}
		destByName[name] = Dest(i)
		destTree.Add(name, name)
	}
	for i, name := range jumpNames {
		if name == "" {
			continue
		}
		jumpByName[name] = Jump(i)
		jumpTree.Add(name, name)
	}
	for i := CompZero; i < compCount; i++ {
		info := comps[i]
		compByName[info.mnemonic] = i
		compByBits[info.bits] = i
		compTree.Add(info.mnemonic, info.mnemonic)
	}
}

// String returns the mnemonic, or an empty string for DestNull.
func (d Dest) String() string {
	if !d.Valid() {
		return ""
	}
	return destNames[d]
}

// Valid returns whether the destination is one of the 8 known variants.
func (d Dest) Valid() bool {
	return int(d) < len(destNames)
}

// Bits returns the 3 bit encoding of the destination.
func (d Dest) Bits() uint16 {
	return uint16(d)
}

// String returns the mnemonic, or an empty string for JumpNull.
func (j Jump) String() string {
	if !j.Valid() {
		return ""
	}
	return jumpNames[j]
}

// Valid returns whether the jump is one of the 8 known variants.
func (j Jump) Valid() bool {
	return int(j) < len(jumpNames)
}

// Bits returns the 3 bit encoding of the jump condition.
func (j Jump) Bits() uint16 {
	return uint16(j)
}

// String returns the mnemonic of the computation.
func (c Comp) String() string {
	if !c.Valid() {
		return ""
	}
	return comps[c].mnemonic
}

// Valid returns whether the computation is one of the 28 known variants.
func (c Comp) Valid() bool {
	return c > CompInvalid && c < compCount
}

// Bits returns the 7 bit encoding of the computation, the leading a bit
// selects M instead of A as operand.
func (c Comp) Bits() (uint16, bool) {
	if !c.Valid() {
		return 0, false
	}
	return comps[c].bits, true
}

// DestFromBits returns the destination for a 3 bit group.
func DestFromBits(bits uint16) (Dest, bool) {
	if bits > uint16(DestAMD) {
		return DestNull, false
	}
	return Dest(bits), true
}

// JumpFromBits returns the jump condition for a 3 bit group.
func JumpFromBits(bits uint16) (Jump, bool) {
	if bits > uint16(JumpJMP) {
		return JumpNull, false
	}
	return Jump(bits), true
}

// CompFromBits returns the computation for a 7 bit group. Not every bit
// pattern is a documented computation.
func CompFromBits(bits uint16) (Comp, bool) {
	c, ok := compByBits[bits]
	return c, ok
}

// suggest returns the mnemonic that the given text is an unambiguous
// prefix of.
func suggest(tree *prefixtree.Tree[string], text string) (string, bool) {
	if text == "" {
		return "", false
	}
	name, err := tree.FindValue(text)
	if err != nil {
		return "", false
	}
	return name, true
}
