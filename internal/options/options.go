// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input ROM file"`
	Output string `flag:"o" usage:"output file for the listing or trace (default: stdout)"`
}

// Flags contains behavior options.
type Flags struct {
	Debug bool `flag:"debug" usage:"enable debug logging"`
	Quiet bool `flag:"q" usage:"quiet mode"`
	Trace bool `flag:"trace" usage:"print the instruction trace after the run"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
}

// Default emulator settings.
const (
	DefaultCyclesPerFrame = 10
	DefaultMaxSteps       = 10000
	DefaultTraceLimit     = 1000
)

// Emulator defines options to control the virtual machine and its runner.
type Emulator struct {
	EntryPoint uint16 // address execution starts at, 0 selects the program start
	Seed       uint64 // seed of the random number generator, 0 selects a random seed

	CyclesPerFrame int      // instructions executed per 60 Hz timer tick, 0 disables ticking
	MaxSteps       int      // maximum number of instructions to run, 0 runs until halted
	Breakpoints    []uint16 // addresses that stop the runner before executing them
	Keys           []uint8  // scripted keys that resolve wait-for-key instructions in order
	TraceLimit     int      // maximum number of retained trace messages, 0 is unlimited
}

// NewEmulator returns a new options instance with default options.
func NewEmulator() Emulator {
	return Emulator{
		CyclesPerFrame: DefaultCyclesPerFrame,
		MaxSteps:       DefaultMaxSteps,
		TraceLimit:     DefaultTraceLimit,
	}
}

// Disassembler defines options to control the ROM listing.
type Disassembler struct {
	Describe    bool // append the trace description of every instruction
	HexComments bool // output the opcode bytes as comments
	Offsets     bool // output the addresses as comments
}

// NewDisassembler returns a new options instance with default options.
func NewDisassembler() Disassembler {
	return Disassembler{
		HexComments: true,
		Offsets:     true,
	}
}
