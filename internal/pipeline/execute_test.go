package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/retroenv/hackasm/internal/assembler"
	"github.com/retroenv/hackasm/internal/disasm"
	"github.com/retroenv/hackasm/internal/instruction"
	"github.com/retroenv/hackasm/internal/options"
	"github.com/retroenv/hackasm/internal/pipeline"
	"github.com/retroenv/retrogolib/log"
)

var _ = Describe("Pipeline", func() {
	var (
		dir    string
		p      *pipeline.Pipeline
		ctx    context.Context
		source string
		output string
	)

	writeSource := func(content string) {
		Expect(os.WriteFile(source, []byte(content), 0o600)).To(Succeed())
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		p = pipeline.New(log.NewWithConfig(log.DefaultConfig()))
		ctx = context.Background()
		source = filepath.Join(dir, "Prog.asm")
		output = filepath.Join(dir, "Prog.hack")
	})

	It("should write one word per instruction", func() {
		writeSource("// comment\n@2\nD=A\n@3\nD=D+A\n@0\nM=D\n")

		opts := options.Program{Parameters: options.Parameters{Input: source, Output: output}}
		program, err := p.Execute(ctx, opts)

		Expect(err).NotTo(HaveOccurred())
		Expect(program.Words).To(HaveLen(6))
		Expect(os.ReadFile(output)).To(Equal([]byte(
			"0000000000000010\n" +
				"1110110000010000\n" +
				"0000000000000011\n" +
				"1110000010010000\n" +
				"0000000000000000\n" +
				"1110001100001000\n")))
	})

	It("should resolve labels and variables", func() {
		writeSource("(LOOP)\n@i\nM=M+1\n@LOOP\n0;JMP\n")

		opts := options.Program{
			Parameters: options.Parameters{Input: source, Output: output},
			Flags:      options.Flags{Symbols: true, Verify: true},
		}
		program, err := p.Execute(ctx, opts)

		Expect(err).NotTo(HaveOccurred())
		address, ok := program.Symbols.Get("i")
		Expect(ok).To(BeTrue())
		Expect(address).To(Equal(16))
		address, ok = program.Symbols.Get("LOOP")
		Expect(ok).To(BeTrue())
		Expect(address).To(Equal(0))

		symbolFile := filepath.Join(dir, "Prog.sym")
		Expect(os.ReadFile(symbolFile)).To(Equal([]byte(
			fmt.Sprintf("%-32s %5d label\n%-32s %5d variable\n", "LOOP", 0, "i", 16))))
	})

	It("should leave no output behind on malformed input", func() {
		writeSource("@1\nD=A\n(BROKEN\n")

		opts := options.Program{Parameters: options.Parameters{Input: source, Output: output}}
		_, err := p.Execute(ctx, opts)

		var asmErr *assembler.Error
		Expect(errors.As(err, &asmErr)).To(BeTrue())
		Expect(asmErr.Line).To(Equal(3))
		Expect(errors.Is(err, instruction.ErrMalformed)).To(BeTrue())

		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
	})

	It("should keep an existing output file if assembly fails", func() {
		Expect(os.WriteFile(output, []byte("previous\n"), 0o600)).To(Succeed())
		writeSource("D+1\n")

		opts := options.Program{Parameters: options.Parameters{Input: source, Output: output}}
		_, err := p.Execute(ctx, opts)

		Expect(errors.Is(err, instruction.ErrNoEffect)).To(BeTrue())
		Expect(os.ReadFile(output)).To(Equal([]byte("previous\n")))
	})

	It("should fail for a missing source file", func() {
		opts := options.Program{Parameters: options.Parameters{Input: filepath.Join(dir, "none.asm"), Output: output}}
		_, err := p.Execute(ctx, opts)

		Expect(err).To(MatchError(ContainSubstring("loading source")))
		Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
	})
})

var _ = Describe("Disassembly", func() {
	var (
		dir string
		p   *pipeline.Pipeline
		ctx context.Context
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		p = pipeline.New(log.NewWithConfig(log.DefaultConfig()))
		ctx = context.Background()
	})

	It("should detect machine code files and generate jump labels", func() {
		input := filepath.Join(dir, "Loop.hack")
		output := filepath.Join(dir, "Loop.asm")
		Expect(os.WriteFile(input, []byte(
			"0000000000010000\n"+
				"1111110111001000\n"+
				"0000000000000000\n"+
				"1110101010000111\n"), 0o600)).To(Succeed())

		opts := options.Program{
			Parameters: options.Parameters{Input: input, Output: output},
			Flags:      options.Flags{Verify: true},
		}
		Expect(p.Run(ctx, opts)).To(Succeed())

		Expect(os.ReadFile(output)).To(Equal([]byte(
			"(_label_0000)\n" +
				"@16\n" +
				"M=M+1\n" +
				"@_label_0000\n" +
				"0;JMP\n")))
	})

	It("should reassemble its own output to the same words", func() {
		source := filepath.Join(dir, "Max.asm")
		Expect(os.WriteFile(source, []byte(
			"@R0\nD=M\n@R1\nD=D-M\n@OUTPUT_FIRST\nD;JGT\n@R1\nD=M\n@OUTPUT_D\n0;JMP\n"+
				"(OUTPUT_FIRST)\n@R0\nD=M\n(OUTPUT_D)\n@R2\nM=D\n(INFINITE_LOOP)\n@INFINITE_LOOP\n0;JMP\n"), 0o600)).To(Succeed())

		machineCode := filepath.Join(dir, "Max.hack")
		program, err := p.Execute(ctx, options.Program{Parameters: options.Parameters{Input: source, Output: machineCode}})
		Expect(err).NotTo(HaveOccurred())

		disassembled := filepath.Join(dir, "MaxD.asm")
		Expect(p.Run(ctx, options.Program{Parameters: options.Parameters{Input: machineCode, Output: disassembled}})).To(Succeed())

		again, err := p.Execute(ctx, options.Program{
			Parameters: options.Parameters{Input: disassembled, Output: filepath.Join(dir, "MaxD.hack")},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(again.Words).To(Equal(program.Words))
	})

	It("should reject an unsupported mode", func() {
		opts := options.Program{
			Parameters: options.Parameters{Input: filepath.Join(dir, "Prog.asm")},
			Flags:      options.Flags{Mode: "link"},
		}
		Expect(p.Run(ctx, opts)).To(MatchError(ContainSubstring("unsupported mode")))
	})

	It("should leave no output behind for malformed machine code", func() {
		input := filepath.Join(dir, "Bad.hack")
		Expect(os.WriteFile(input, []byte("0000000000010000\n1000000000000000\n"), 0o600)).To(Succeed())

		opts := options.Program{Parameters: options.Parameters{Input: input, Output: filepath.Join(dir, "Bad.asm")}}
		err := p.Run(ctx, opts)
		Expect(errors.Is(err, disasm.ErrInvalidWord)).To(BeTrue())

		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
	})
})
