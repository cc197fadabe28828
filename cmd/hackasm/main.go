// Package main implements an assembler for the Hack computer
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/hackasm/internal/cli"
	"github.com/retroenv/hackasm/internal/config"
	"github.com/retroenv/hackasm/internal/options"
	"github.com/retroenv/hackasm/internal/pipeline"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"github.com/tebeka/atexit"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags(os.Args[1:])
	if err != nil {
		logger := config.CreateLogger(opts.Flags)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			printBanner(opts)
			if msg := usageErr.Error(); msg != "" {
				logger.Error(msg)
			}
			usageErr.ShowUsage()
		} else {
			logger.Error(err.Error())
		}
		atexit.Exit(1)
	}

	logger := config.CreateLogger(opts.Flags)
	printBanner(opts)

	if err := pipeline.New(logger).Run(ctx, opts); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
		} else {
			logger.Error("Processing failed", log.String("file", opts.Input), log.Err(err))
		}
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func printBanner(opts options.Program) {
	if opts.Quiet {
		return
	}
	fmt.Println("[-----------------------------------]")
	fmt.Println("[ hackasm - Hack computer assembler ]")
	fmt.Printf("[-----------------------------------]\n\n")
	fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
}
