// Package config builds the runtime setup of the assembler from its flags.
package config

import (
	"github.com/retroenv/hackasm/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger returns the logger for the given flags. Debug output takes
// precedence over quiet mode, quiet mode only keeps errors.
func CreateLogger(flags options.Flags) *log.Logger {
	cfg := log.DefaultConfig()
	switch {
	case flags.Debug:
		cfg.Level = log.DebugLevel
	case flags.Quiet:
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
