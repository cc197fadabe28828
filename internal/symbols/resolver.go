package symbols

import (
	"errors"

	"github.com/retroenv/hackasm/internal/instruction"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// ErrPassOrder is returned when the resolver passes are not run exactly
// once each, labels first.
var ErrPassOrder = errors.New("symbol resolution passes out of order")

type stage uint8

const (
	stageNew stage = iota
	stageLabels
	stageVariables
)

// Resolver binds labels and variables of a program in two passes. All
// labels have to be bound before the first variable is allocated, otherwise
// a forward reference to a label would be allocated as a variable.
type Resolver struct {
	logger *log.Logger
	table  *Table
	stage  stage

	labels       set.Set[string] // label names defined in the source
	nextVariable int             // free RAM cursor
}

// NewResolver returns a resolver that binds symbols into the given table.
func NewResolver(logger *log.Logger, table *Table) *Resolver {
	return &Resolver{
		logger:       logger,
		table:        table,
		labels:       set.New[string](),
		nextVariable: FirstVariableAddress,
	}
}

// ResolveLabels binds every label to the address index of the instruction
// that follows it. It has to be called once, before ResolveVariables.
func (r *Resolver) ResolveLabels(instructions []instruction.Instruction) error {
	if r.stage != stageNew {
		return ErrPassOrder
	}
	r.stage = stageLabels

	for _, ins := range instructions {
		if ins.Kind != instruction.Label {
			continue
		}

		if !r.table.Bind(ins.Symbol, ins.AddressIndex) {
			address, _ := r.table.Get(ins.Symbol)
			r.logger.Warn("Label is already defined, keeping first definition",
				log.String("label", ins.Symbol),
				log.Int("line", ins.Line),
				log.Int("address", address))
			continue
		}

		r.labels.Add(ins.Symbol)
		r.logger.Debug("Bound label",
			log.String("label", ins.Symbol),
			log.Int("address", ins.AddressIndex))
	}
	return nil
}

// ResolveVariables allocates RAM addresses to all symbols referenced by
// address instructions that are still unbound, in order of first use.
func (r *Resolver) ResolveVariables(instructions []instruction.Instruction) error {
	if r.stage != stageLabels {
		return ErrPassOrder
	}
	r.stage = stageVariables

	for _, ins := range instructions {
		if ins.Kind != instruction.Address || instruction.IsConstant(ins.Symbol) {
			continue
		}
		if !r.table.Bind(ins.Symbol, r.nextVariable) {
			continue
		}

		r.logger.Debug("Allocated variable",
			log.String("variable", ins.Symbol),
			log.Int("address", r.nextVariable))
		if r.nextVariable == ScreenAddress {
			r.logger.Warn("Variable allocation reached the screen memory map",
				log.String("variable", ins.Symbol))
		}
		r.nextVariable++
	}
	return nil
}

// NextVariable returns the address the next new variable would receive.
func (r *Resolver) NextVariable() int {
	return r.nextVariable
}

// Labels returns the names of all labels bound by the first pass.
func (r *Resolver) Labels() set.Set[string] {
	return r.labels
}
