// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input  string `arg:"positional" usage:"assembly source or machine code file"`
	Output string `flag:"o" usage:"output file (default: <input name>.hack or .asm in the working directory)"`
}

// Flags contains behavior options.
type Flags struct {
	Mode    string `flag:"m" usage:"processing mode: asm or disasm (default: detected from the input file extension)"`
	Symbols bool   `flag:"symbols" usage:"also write the symbol table to a .sym file"`
	Verify  bool   `flag:"verify" usage:"verify output by disassembling, reassembling and comparing"`
	Debug   bool   `flag:"debug" usage:"enable debug logging"`
	Quiet   bool   `flag:"q" usage:"quiet mode"`
}

// Program options of the assembler.
type Program struct {
	Parameters
	Flags
}
