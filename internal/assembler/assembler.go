// Package assembler translates Hack assembly source into machine words.
package assembler

import (
	"bufio"
	"fmt"
	"io"

	"github.com/retroenv/hackasm/internal/code"
	"github.com/retroenv/hackasm/internal/instruction"
	"github.com/retroenv/hackasm/internal/preprocess"
	"github.com/retroenv/hackasm/internal/symbols"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

const maxLineLength = 1 << 20

// Program is the result of a successful assembly.
type Program struct {
	// Instructions contains one entry per source line, blank and comment
	// lines are kept as instructions of kind Invalid.
	Instructions []instruction.Instruction
	Symbols      *symbols.Table
	Labels       set.Set[string] // names in Symbols that are defined labels
	Words        []code.Word
}

// Error describes why assembly failed and where.
type Error struct {
	Line int    // 1-based source line, 0 if the error is not tied to a line
	Text string // offending instruction text
	Err  error
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("line %d '%s': %v", e.Line, e.Text, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type assembler struct {
	logger   *log.Logger
	reader   io.Reader
	table    *symbols.Table
	resolver *symbols.Resolver

	instructions []instruction.Instruction
	words        []code.Word
}

// Assemble reads Hack assembly source and returns the assembled program.
// Assembly stops at the first error, which is returned as *Error.
func Assemble(logger *log.Logger, reader io.Reader) (*Program, error) {
	table := symbols.NewTable()
	a := &assembler{
		logger:   logger,
		reader:   reader,
		table:    table,
		resolver: symbols.NewResolver(logger, table),
	}

	// labels have to be bound before variables get allocated
	steps := []func(a *assembler) error{
		(*assembler).parse,
		(*assembler).resolveLabels,
		(*assembler).resolveVariables,
		(*assembler).generateCode,
	}

	for _, step := range steps {
		if err := step(a); err != nil {
			return nil, err
		}
	}

	return &Program{
		Instructions: a.instructions,
		Symbols:      a.table,
		Labels:       a.resolver.Labels(),
		Words:        a.words,
	}, nil
}

// parse preprocesses and parses all source lines and assigns the ROM
// address index of every instruction.
func (a *assembler) parse() error {
	scanner := bufio.NewScanner(a.reader)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)

	addressIndex := 0
	for row := 1; scanner.Scan(); row++ {
		text, ok := preprocess.Line(scanner.Text())
		if !ok {
			a.instructions = append(a.instructions, instruction.Instruction{Line: row})
			continue
		}

		ins, err := instruction.Parse(text)
		if err != nil {
			return &Error{Line: row, Text: text, Err: err}
		}

		ins.Line = row
		ins.AddressIndex = addressIndex
		if ins.Encodable() {
			addressIndex++
		}
		a.instructions = append(a.instructions, ins)
	}
	if err := scanner.Err(); err != nil {
		return &Error{Err: fmt.Errorf("reading source: %w", err)}
	}

	a.logger.Debug("Parsed source",
		log.Int("lines", len(a.instructions)),
		log.Int("instructions", addressIndex))
	return nil
}

func (a *assembler) resolveLabels() error {
	if err := a.resolver.ResolveLabels(a.instructions); err != nil {
		return &Error{Err: fmt.Errorf("resolving labels: %w", err)}
	}
	return nil
}

func (a *assembler) resolveVariables() error {
	if err := a.resolver.ResolveVariables(a.instructions); err != nil {
		return &Error{Err: fmt.Errorf("resolving variables: %w", err)}
	}
	a.logger.Debug("Resolved symbols",
		log.Int("symbols", a.table.Len()),
		log.Int("labels", len(a.resolver.Labels())),
		log.Int("next_variable", a.resolver.NextVariable()))
	return nil
}

// generateCode encodes all instructions in source order, labels and
// blank lines produce no word.
func (a *assembler) generateCode() error {
	a.words = make([]code.Word, 0, len(a.instructions))

	for _, ins := range a.instructions {
		if !ins.Encodable() {
			continue
		}

		w, err := code.Generate(ins, a.table)
		if err != nil {
			return &Error{Line: ins.Line, Text: ins.String(), Err: err}
		}
		a.words = append(a.words, w)
	}
	return nil
}
