// Package pipeline orchestrates the assembly and disassembly workflow stages.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/hackasm/internal/assembler"
	"github.com/retroenv/hackasm/internal/detector"
	"github.com/retroenv/hackasm/internal/disasm"
	"github.com/retroenv/hackasm/internal/loader"
	"github.com/retroenv/hackasm/internal/options"
	"github.com/retroenv/hackasm/internal/symbols"
	"github.com/retroenv/hackasm/internal/verification"
	"github.com/retroenv/hackasm/internal/writer"
	"github.com/retroenv/retrogolib/log"
	"github.com/tebeka/atexit"
)

// File extensions of the generated files.
const (
	OutputExtension      = ".hack"
	SymbolsExtension     = ".sym"
	DisassemblyExtension = ".asm"
)

const maxTempAttempts = 100

// ErrOutputIsInput is returned when the output file would replace the input file.
var ErrOutputIsInput = errors.New("output file is the input file")

// Pipeline orchestrates the complete assembly workflow.
type Pipeline struct {
	logger   *log.Logger
	loader   *loader.Loader
	detector *detector.Detector
}

// New creates a new assembly pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		loader:   loader.New(),
		detector: detector.New(logger),
	}
}

// Run detects the processing mode of the input file and assembles or
// disassembles it.
func (p *Pipeline) Run(ctx context.Context, opts options.Program) error {
	mode, err := p.detector.Detect(opts)
	if err != nil {
		return fmt.Errorf("detecting mode: %w", err)
	}

	switch mode {
	case detector.Disassemble:
		return p.Disassemble(ctx, opts)
	default:
		_, err := p.Execute(ctx, opts)
		return err
	}
}

// Execute assembles the input file and writes the output files. No output
// file is created or changed if any stage fails.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program) (*assembler.Program, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	output, err := outputPath(opts, OutputExtension)
	if err != nil {
		return nil, err
	}

	source, err := p.loader.Load(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("loading source: %w", err)
	}

	program, err := assembler.Assemble(p.logger, source)
	if err != nil {
		return nil, fmt.Errorf("assembling: %w", err)
	}

	if opts.Verify {
		if err := verification.VerifyOutput(p.logger, program.Words); err != nil {
			return nil, fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := p.writeOutputs(opts, output, program); err != nil {
		return nil, err
	}
	return program, nil
}

// Disassemble decodes a machine code file and writes the assembly source
// with generated jump labels. No output file is created or changed if any
// stage fails.
func (p *Pipeline) Disassemble(ctx context.Context, opts options.Program) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	output, err := outputPath(opts, DisassemblyExtension)
	if err != nil {
		return err
	}

	words, err := p.loader.LoadWords(opts.Input)
	if err != nil {
		return fmt.Errorf("loading machine code: %w", err)
	}

	var source bytes.Buffer
	dis := disasm.New(p.logger, disasm.Options{Labels: true})
	if err := dis.Process(words, &source); err != nil {
		return fmt.Errorf("disassembling: %w", err)
	}

	if opts.Verify {
		if err := verification.VerifyOutput(p.logger, words); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful")
	}
	if opts.Symbols {
		p.logger.Warn("Symbol file output is only supported when assembling")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	err = writeFileAtomic(output, func(w io.Writer) error {
		_, err := source.WriteTo(w)
		return err
	})
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if !opts.Quiet {
		p.logger.Info("Disassembled program",
			log.String("input", opts.Input),
			log.String("output", output),
			log.Int("words", len(words)))
	}
	return nil
}

func (p *Pipeline) writeOutputs(opts options.Program, output string, program *assembler.Program) error {
	symbolFile := strings.TrimSuffix(output, filepath.Ext(output)) + SymbolsExtension
	if opts.Symbols {
		if err := checkNotInput(opts.Input, symbolFile); err != nil {
			return err
		}
	}

	err := writeFileAtomic(output, func(w io.Writer) error {
		return writer.New(w).WriteWords(program.Words)
	})
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if !opts.Quiet {
		p.logger.Info("Assembled program",
			log.String("input", opts.Input),
			log.String("output", output),
			log.Int("words", len(program.Words)))
	}

	if !opts.Symbols {
		return nil
	}

	err = writeFileAtomic(symbolFile, func(w io.Writer) error {
		return writer.New(w).WriteSymbols(program.Symbols, program.Labels, symbols.IsPredefined)
	})
	if err != nil {
		return fmt.Errorf("writing symbols: %w", err)
	}
	p.logger.Debug("Wrote symbol table", log.String("file", symbolFile))
	return nil
}

// outputPath returns the output path from the options or derived from the
// input name. Writing the output over the input file is refused.
func outputPath(opts options.Program, extension string) (string, error) {
	output := opts.Output
	if output == "" {
		output = GenerateOutputFilename(opts.Input, extension)
	}
	if err := checkNotInput(opts.Input, output); err != nil {
		return "", err
	}
	return output, nil
}

func checkNotInput(input, output string) error {
	same := filepath.Clean(input) == filepath.Clean(output)
	if !same {
		inAbs, errIn := filepath.Abs(input)
		outAbs, errOut := filepath.Abs(output)
		same = errIn == nil && errOut == nil && inAbs == outAbs
	}
	if !same {
		inInfo, errIn := os.Stat(input)
		outInfo, errOut := os.Stat(output)
		same = errIn == nil && errOut == nil && os.SameFile(inInfo, outInfo)
	}
	if same {
		return fmt.Errorf("%w: '%s'", ErrOutputIsInput, output)
	}
	return nil
}

// GenerateOutputFilename returns the base name of the input file with its
// extension replaced, the result is relative to the working directory.
func GenerateOutputFilename(inputFile, extension string) string {
	base := filepath.Base(inputFile)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)] + extension
}

// createTempFile creates a new file next to the path. The file is created
// with mode 0666 so that the process umask decides the final permissions.
func createTempFile(path string) (*os.File, error) {
	dir, base := filepath.Dir(path), filepath.Base(path)
	for attempt := 0; ; attempt++ {
		name := filepath.Join(dir, fmt.Sprintf(".%s.%d.%d.tmp", base, os.Getpid(), attempt))
		file, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o666)
		if err == nil {
			return file, nil
		}
		if !errors.Is(err, fs.ErrExist) || attempt >= maxTempAttempts {
			return nil, err
		}
	}
}

// writeFileAtomic writes to a temporary file next to the destination and
// renames it into place once the write function succeeded. The temporary
// file is also removed if the program exits through atexit in between.
func writeFileAtomic(path string, write func(w io.Writer) error) (err error) {
	file, err := createTempFile(path)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tempName := file.Name()
	cleanup := atexit.Register(func() {
		_ = os.Remove(tempName)
	})
	defer func() {
		_ = cleanup.Cancel()
		if err != nil {
			_ = file.Close()
			_ = os.Remove(tempName)
		}
	}()

	if err = write(file); err != nil {
		return err
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("closing file '%s': %w", tempName, err)
	}
	if err = os.Rename(tempName, path); err != nil {
		return fmt.Errorf("renaming file to '%s': %w", path, err)
	}
	return nil
}
