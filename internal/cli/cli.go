// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/hackasm/internal/options"
)

// ParseFlags parses the command line arguments, without the program name,
// and returns the program options.
func ParseFlags(args []string) (options.Program, error) {
	flags := flag.NewFlagSet("hackasm", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(args)
	positional := flags.Args()
	if err != nil || len(positional) == 0 {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(positional); err != nil {
		return opts, err
	}

	opts.Input = positional[0]
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage and all flag defaults to stdout.
func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: hackasm [options] <file to process>\n\n")
	if e.flags != nil {
		e.flags.SetOutput(os.Stdout)
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks that exactly one file is passed and that it is the
// last argument.
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to assemble, please pass the file to assemble as last argument", arg),
			}
		}
	}
	if len(args) > 1 {
		return &UsageError{
			msg: fmt.Sprintf("Expected one file to assemble, got %d", len(args)),
		}
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Mode, "m", "", "processing mode: asm or disasm, detected from the input file extension if not set")
	flags.StringVar(&opts.Output, "o", "", "name of the output file, defaults to the input name in the working directory")
	flags.BoolVar(&opts.Symbols, "symbols", false, "also write the resolved symbol table to a .sym file")
	flags.BoolVar(&opts.Verify, "verify", false, "verify the generated output by disassembling and reassembling it")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
