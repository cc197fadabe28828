// Package disasm decodes Hack machine words back into assembly instructions.
package disasm

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/retroenv/hackasm/internal/code"
	"github.com/retroenv/hackasm/internal/instruction"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

const labelNaming = "_label_%04x"

// ErrInvalidWord is returned for words that are not valid instructions.
var ErrInvalidWord = errors.New("invalid machine word")

// Decode returns the instruction encoded in a machine word.
func Decode(w code.Word) (instruction.Instruction, error) {
	if w&0x8000 == 0 {
		return instruction.Instruction{
			Kind:   instruction.Address,
			Symbol: fmt.Sprint(uint16(w)),
		}, nil
	}
	if !w.IsCompute() {
		return instruction.Instruction{}, fmt.Errorf("%w: %s has reserved bits cleared", ErrInvalidWord, w)
	}

	comp, ok := instruction.CompFromBits(uint16(w>>6) & 0x7f)
	if !ok {
		return instruction.Instruction{}, fmt.Errorf("%w: %s has unknown computation bits", ErrInvalidWord, w)
	}
	dest, _ := instruction.DestFromBits(uint16(w>>3) & 0x7)
	jump, _ := instruction.JumpFromBits(uint16(w) & 0x7)

	if dest == instruction.DestNull && jump == instruction.JumpNull {
		return instruction.Instruction{}, fmt.Errorf("%w: %s neither stores nor jumps", ErrInvalidWord, w)
	}

	return instruction.Instruction{
		Kind: instruction.Compute,
		Dest: dest,
		Comp: comp,
		Jump: jump,
	}, nil
}

// Options control the generated assembly.
type Options struct {
	// Labels replaces constant jump targets by generated labels.
	Labels bool
}

// Disasm disassembles a list of machine words.
type Disasm struct {
	logger  *log.Logger
	options Options

	instructions       []instruction.Instruction
	branchDestinations set.Set[int] // set of all addresses that are jumped to
	labels             map[int]string
}

// New creates a new disassembler.
func New(logger *log.Logger, options Options) *Disasm {
	return &Disasm{
		logger:  logger,
		options: options,
	}
}

// Process decodes all words and writes the resulting assembly, one
// instruction per line.
func (dis *Disasm) Process(words []code.Word, writer io.Writer) error {
	dis.instructions = make([]instruction.Instruction, 0, len(words))
	dis.branchDestinations = set.New[int]()
	dis.labels = map[int]string{}

	for i, w := range words {
		ins, err := Decode(w)
		if err != nil {
			return fmt.Errorf("decoding word %d: %w", i, err)
		}
		ins.AddressIndex = i
		dis.instructions = append(dis.instructions, ins)
	}

	if dis.options.Labels {
		dis.processJumpDestinations()
	}
	return dis.write(writer)
}

// processJumpDestinations replaces the constant of every address
// instruction that is followed by a jump with a label name.
func (dis *Disasm) processJumpDestinations() {
	for i := range dis.instructions {
		if target, ok := dis.jumpTarget(i); ok {
			dis.branchDestinations.Add(target)
		}
	}

	destinations := make([]int, 0, len(dis.branchDestinations))
	for dest := range dis.branchDestinations {
		destinations = append(destinations, dest)
	}
	slices.Sort(destinations)

	for _, address := range destinations {
		dis.labels[address] = fmt.Sprintf(labelNaming, address)
	}

	for i := range dis.instructions {
		if target, ok := dis.jumpTarget(i); ok {
			dis.instructions[i].Symbol = dis.labels[target]
		}
	}

	dis.logger.Debug("Generated jump labels", log.Int("labels", len(destinations)))
}

// jumpTarget returns the constant loaded by the instruction at index i if
// the following instruction jumps to it.
func (dis *Disasm) jumpTarget(i int) (int, bool) {
	if i+1 >= len(dis.instructions) {
		return 0, false
	}
	ins, next := dis.instructions[i], dis.instructions[i+1]
	if ins.Kind != instruction.Address || next.Kind != instruction.Compute || next.Jump == instruction.JumpNull {
		return 0, false
	}

	target, ok := instruction.ConstantValue(ins.Symbol)
	if !ok || target > len(dis.instructions) {
		return 0, false
	}
	return target, true
}

func (dis *Disasm) write(writer io.Writer) error {
	for i, ins := range dis.instructions {
		if err := dis.writeLabel(writer, i); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(writer, ins.String()); err != nil {
			return fmt.Errorf("writing instruction: %w", err)
		}
	}
	// a label can point behind the last instruction
	return dis.writeLabel(writer, len(dis.instructions))
}

func (dis *Disasm) writeLabel(writer io.Writer, address int) error {
	name, ok := dis.labels[address]
	if !ok {
		return nil
	}
	if _, err := fmt.Fprintf(writer, "(%s)\n", name); err != nil {
		return fmt.Errorf("writing label: %w", err)
	}
	return nil
}
