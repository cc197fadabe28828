// Package detector handles processing mode detection.
package detector

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/retroenv/hackasm/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Mode is the kind of processing applied to the input file.
type Mode string

// Supported processing modes.
const (
	Assemble    Mode = "asm"
	Disassemble Mode = "disasm"
)

// ModeFromString returns the mode matching the name, ignoring case.
func ModeFromString(name string) (Mode, bool) {
	switch mode := Mode(strings.ToLower(name)); mode {
	case Assemble, Disassemble:
		return mode, true
	default:
		return "", false
	}
}

// Detector handles processing mode detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new mode detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the processing mode from options or the input file.
// An explicitly set mode has to be valid, otherwise the mode is derived
// from the input filename extension.
func (d *Detector) Detect(opts options.Program) (Mode, error) {
	if opts.Mode != "" {
		mode, ok := ModeFromString(opts.Mode)
		if !ok {
			return "", fmt.Errorf("unsupported mode '%s'", opts.Mode)
		}
		return mode, nil
	}

	mode := d.detectFromFile(opts.Input)
	d.logger.Debug("Auto-detected mode",
		log.String("mode", string(mode)),
		log.String("file", opts.Input))
	return mode, nil
}

// detectFromFile determines the mode based on file extension.
func (d *Detector) detectFromFile(filename string) Mode {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".hack" {
		return Disassemble
	}
	return Assemble
}
