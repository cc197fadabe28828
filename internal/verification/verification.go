// Package verification verifies that generated machine code survives a
// disassembly and reassembly round trip unchanged.
package verification

import (
	"bytes"
	"fmt"

	"github.com/retroenv/hackasm/internal/assembler"
	"github.com/retroenv/hackasm/internal/code"
	"github.com/retroenv/hackasm/internal/disasm"
	"github.com/retroenv/retrogolib/log"
)

const maxReportedMismatches = 10

// VerifyOutput disassembles the words, assembles the result again and
// compares both word lists.
func VerifyOutput(logger *log.Logger, words []code.Word) error {
	var source bytes.Buffer
	dis := disasm.New(logger, disasm.Options{Labels: true})
	if err := dis.Process(words, &source); err != nil {
		return fmt.Errorf("disassembling output: %w", err)
	}

	program, err := assembler.Assemble(logger, &source)
	if err != nil {
		return fmt.Errorf("reassembling disassembled output: %w", err)
	}

	return checkWordsEqual(logger, words, program.Words)
}

func checkWordsEqual(logger *log.Logger, input, output []code.Word) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs <= maxReportedMismatches {
			logger.Error("Word mismatch",
				log.Int("address", i),
				log.String("expected", input[i].String()),
				log.String("got", output[i].String()))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d word mismatches", diffs)
}
