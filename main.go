// Package main implements the main entry point for a CHIP-8 emulator
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/cli"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/pipeline"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, emuOpts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			config.PrintBanner(logger, opts.Quiet, "retrochip8", version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	config.PrintBanner(logger, opts.Quiet, "retrochip8", version, commit, date)

	output, err := pipeline.New(logger).Execute(ctx, opts, emuOpts)
	if err != nil {
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Fatal("Emulation failed", log.Err(err))
	}

	logger.Info("Run finished",
		log.Stringer("reason", output.Result.Reason),
		log.Int("steps", output.Result.Steps),
		log.Hex("pc", output.Result.PC))

	if !opts.Quiet {
		fmt.Print(output.Display)
	}

	if opts.Trace {
		if err := writeTrace(opts.Output, output.Trace); err != nil {
			logger.Fatal("Writing trace failed", log.Err(err))
		}
	}
}

func writeTrace(path string, trace []string) error {
	writer, err := config.CreateWriter(path)
	if err != nil {
		return err
	}
	if err := pipeline.WriteTrace(writer, trace); err != nil {
		_ = writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	return nil
}
