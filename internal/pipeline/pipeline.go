// Package pipeline orchestrates the emulation workflow stages.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/debugger"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

// Output contains the state of a finished emulation run.
type Output struct {
	Result  runner.Result
	Display string
	Trace   []string
	State   chip8.State
}

// Pipeline orchestrates the complete emulation workflow.
type Pipeline struct {
	logger *log.Logger
	loader *loader.Loader
	deps   chip8.Dependencies
}

// New creates a new emulation pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger: logger,
		loader: loader.New(logger),
	}
}

// Execute loads the ROM named in the options and runs it.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, emuOpts options.Emulator) (Output, error) {
	rom, err := p.loader.Load(opts.Input)
	if err != nil {
		return Output{}, fmt.Errorf("loading ROM: %w", err)
	}

	p.printInfo(opts, rom)
	return p.ExecuteWithROM(ctx, rom, emuOpts)
}

// ExecuteWithROM runs the emulation pipeline with a ROM that is already in memory.
func (p *Pipeline) ExecuteWithROM(ctx context.Context, rom []byte, emuOpts options.Emulator) (Output, error) {
	dbg := debugger.New(p.logger, emuOpts.TraceLimit)

	deps := p.deps
	deps.Debugger = dbg
	machine := chip8.New(p.logger, emuOpts, deps)
	if err := machine.Load(rom); err != nil {
		return Output{}, fmt.Errorf("loading program: %w", err)
	}

	keys := runner.NewScriptedKeys(emuOpts.Keys...)
	run := runner.New(p.logger, machine, emuOpts, keys)

	result, err := run.Run(ctx)
	output := Output{
		Result:  result,
		Display: machine.Display(),
		Trace:   dbg.Messages(),
		State:   machine.Snapshot(),
	}
	if err != nil {
		return output, fmt.Errorf("running program: %w", err)
	}
	return output, nil
}

// WriteTrace writes the trace messages to the writer, one per line.
func WriteTrace(writer io.Writer, trace []string) error {
	for _, message := range trace {
		if _, err := fmt.Fprintln(writer, message); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
	}
	return nil
}

// printInfo prints information about the ROM being processed.
func (p *Pipeline) printInfo(opts options.Program, rom []byte) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Processing CHIP-8 ROM",
		log.String("file", opts.Input),
		log.Int("size", len(rom)),
	)
}
