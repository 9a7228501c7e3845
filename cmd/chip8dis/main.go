// Package main implements a CHIP-8 ROM disassembler
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

type optionFlags struct {
	input  string
	output string

	debug bool
	quiet bool

	noHexComments bool
	noOffsets     bool
}

func main() {
	ctx := app.Context()
	opts, disasmOptions := readArguments()

	logger := config.CreateLogger(opts.debug, opts.quiet)
	config.PrintBanner(logger, opts.quiet, "chip8dis", version, commit, date)

	if err := disasmFile(ctx, logger, opts, disasmOptions); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Fatal("Disassembling failed", log.Err(err))
	}
}

func readArguments() (optionFlags, options.Disassembler) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	opts := optionFlags{}
	disasmOptions := options.NewDisassembler()

	flags.BoolVar(&opts.debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&disasmOptions.Describe, "describe", false, "append the description of every instruction as comment")
	flags.BoolVar(&opts.noHexComments, "nohexcomments", false, "do not output opcode bytes as hex values in comments")
	flags.BoolVar(&opts.noOffsets, "nooffsets", false, "do not output offsets in comments")
	flags.StringVar(&opts.output, "o", "", "name of the output .asm file, printed on console if no name given")
	flags.BoolVar(&opts.quiet, "q", false, "perform operations quietly")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()

	if err != nil || len(args) == 0 {
		fmt.Printf("usage: chip8dis [options] <file to disassemble>\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}
	opts.input = args[0]

	disasmOptions.HexComments = !opts.noHexComments
	disasmOptions.Offsets = !opts.noOffsets
	return opts, disasmOptions
}

func disasmFile(ctx context.Context, logger *log.Logger, opts optionFlags, disasmOptions options.Disassembler) error {
	rom, err := loader.New(logger).Load(opts.input)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}

	dis, err := disasm.New(logger, rom, disasmOptions)
	if err != nil {
		return fmt.Errorf("initializing disassembler: %w", err)
	}

	writer, err := config.CreateWriter(opts.output)
	if err != nil {
		return err
	}

	summary, err := dis.Process(ctx, writer)
	if err != nil {
		_ = writer.Close()
		return fmt.Errorf("processing file: %w", err)
	}
	if err = writer.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}

	logger.Debug("Disassembly finished",
		log.Int("instructions", summary.Instructions),
		log.Int("data_bytes", summary.DataBytes),
		log.Int("labels", summary.Labels),
		log.Int("memory_reads", summary.MemoryReads),
		log.Int("memory_writes", summary.MemoryWrites))
	return nil
}
