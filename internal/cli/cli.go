// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
)

// ParseFlags parses command line flags and returns program and emulator options
func ParseFlags() (options.Program, options.Emulator, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	var opts options.Program
	emulatorOptions := options.NewEmulator()
	var raw rawFlags
	readOptionFlags(flags, &opts, &emulatorOptions, &raw)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, options.Emulator{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Emulator{}, err
	}
	if opts.Input == "" {
		opts.Input = args[0]
	}

	if err := applyRawFlags(raw, &emulatorOptions); err != nil {
		return opts, options.Emulator{}, err
	}
	return opts, emulatorOptions, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <ROM file to run>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// rawFlags contains flag values that need to be parsed after reading.
type rawFlags struct {
	entryPoint  string
	breakpoints string
	keys        string
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && strings.HasPrefix(arg, "-") {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

func applyRawFlags(raw rawFlags, opts *options.Emulator) error {
	if raw.entryPoint != "" {
		address, err := ParseAddress(raw.entryPoint)
		if err != nil {
			return fmt.Errorf("parsing entry point: %w", err)
		}
		opts.EntryPoint = address
	}

	for _, s := range splitList(raw.breakpoints) {
		address, err := ParseAddress(s)
		if err != nil {
			return fmt.Errorf("parsing breakpoint: %w", err)
		}
		opts.Breakpoints = append(opts.Breakpoints, address)
	}

	for _, s := range splitList(raw.keys) {
		key, err := chip8.ParseKey(s)
		if err != nil {
			return fmt.Errorf("parsing key: %w", err)
		}
		opts.Keys = append(opts.Keys, key)
	}
	return nil
}

// ParseAddress parses a hex memory address like "200", "0x200" or "$200".
func ParseAddress(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "0x"), "$")
	value, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address '%s': %w", s, err)
	}
	if value > chip8.MaxAddress {
		return 0, fmt.Errorf("address %X exceeds %X: %w", value, chip8.MaxAddress, chip8.ErrAddressOutOfRange)
	}
	return uint16(value), nil
}

func splitList(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program, emulatorOptions *options.Emulator, raw *rawFlags) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Output, "o", "", "name of the file to write the instruction trace to, printed on console if no name given")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.Trace, "trace", false, "output the instruction trace after the run")

	flags.IntVar(&emulatorOptions.MaxSteps, "steps", options.DefaultMaxSteps, "maximum number of instructions to execute, 0 runs until the program halts")
	flags.IntVar(&emulatorOptions.CyclesPerFrame, "cycles", options.DefaultCyclesPerFrame, "instructions per 60 Hz timer tick, 0 disables the timer ticks")
	flags.IntVar(&emulatorOptions.TraceLimit, "tracelimit", options.DefaultTraceLimit, "maximum number of trace messages to keep, 0 keeps all")
	flags.Uint64Var(&emulatorOptions.Seed, "seed", 0, "seed of the random number generator, 0 uses a random seed")
	flags.StringVar(&raw.entryPoint, "entry", "", "hex address to start execution at (default 200)")
	flags.StringVar(&raw.breakpoints, "break", "", "comma separated list of hex addresses to stop execution at")
	flags.StringVar(&raw.keys, "keys", "", "comma separated list of hex keys that answer wait for key instructions, for example 1,A,F")
}
