// Package chip8 implements the CHIP-8 virtual machine: memory, registers,
// call stack, timers, keypad and the fetch-decode-execute interpreter that
// drives the framebuffer.
package chip8

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/font"
	"github.com/retroenv/retrochip8/internal/instruction"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CHIP-8 memory layout constants.
//
//	0x000-0x04F: digit font sprites
//	0x050-0x1FF: reserved for the interpreter
//	0x200-0xFFF: program space
const (
	// MemorySize is the size of the address space in bytes.
	MemorySize = 4096

	// ProgramStart is the address where ROMs are loaded and execution begins by default.
	ProgramStart = 0x200

	// MaxAddress is the highest valid memory address.
	MaxAddress = MemorySize - 1

	// MaxROMSize is the largest ROM that fits into the program space.
	MaxROMSize = MemorySize - ProgramStart

	// RegisterCount is the number of general purpose registers V0-VF.
	RegisterCount = 16

	// FlagRegister is the index of VF, used for carry, borrow and collision flags.
	FlagRegister = 0xF
)

// Debugger receives every decoded instruction and free form diagnostics.
// Implementations must not modify the machine.
type Debugger interface {
	// Log records a diagnostic message.
	Log(message string)
	// LogInstruction records an instruction that is about to be executed.
	LogInstruction(word instruction.Word)
	// Clear discards all recorded messages.
	Clear()
}

// Dependencies contains the collaborators of the machine. Nil fields are
// replaced by defaults: a discarding debugger, a real time sleeper and a
// pseudo random source.
type Dependencies struct {
	Debugger Debugger
	Sleeper  Sleeper
	Random   func() byte
}

// Chip8 is the virtual machine. All state is owned by the interpreter,
// external callers only see copies through the accessors.
type Chip8 struct {
	logger *log.Logger

	debugger Debugger
	sleeper  Sleeper
	random   func() byte
	seed     uint64 // non-zero if random is a seeded source owned by the machine

	entryPoint uint16

	mu           sync.Mutex
	memory       [MemorySize]byte
	v            [RegisterCount]uint8
	i            uint16
	pc           uint16
	stack        []uint16
	delayTimer   uint8
	soundTimer   uint8
	waitRegister uint8
	display      *display.Display
	keypad       *keypad

	interruptMu sync.Mutex
	interrupt   func(cause error)
	loadPending atomic.Int32 // number of Load calls waiting for the lock
}

// New returns a machine in its power-on state with the font installed and
// the program counter at the configured entry point.
func New(logger *log.Logger, opts options.Emulator, deps Dependencies) *Chip8 {
	c := &Chip8{
		logger:     logger,
		debugger:   deps.Debugger,
		sleeper:    deps.Sleeper,
		random:     deps.Random,
		entryPoint: opts.EntryPoint,
		display:    display.New(),
		keypad:     newKeypad(),
	}

	if c.entryPoint == 0 {
		c.entryPoint = ProgramStart
	}
	if c.debugger == nil {
		c.debugger = nopDebugger{}
	}
	if c.sleeper == nil {
		c.sleeper = realSleeper{}
	}
	if c.random == nil {
		c.seed = opts.Seed
		c.random = newRandomSource(opts.Seed)
	}

	c.reset()
	return c
}

func newRandomSource(seed uint64) func() byte {
	if seed == 0 {
		return func() byte {
			return byte(rand.UintN(256))
		}
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	return func() byte {
		return byte(rng.UintN(256))
	}
}

// Load resets the machine to its power-on state, installs the font, copies
// the ROM to ProgramStart and clears the debugger. An in-progress delay timer
// countdown is interrupted first.
func (c *Chip8) Load(rom []byte) error {
	if len(rom) > MaxROMSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrROMTooLarge, len(rom), MaxROMSize)
	}

	c.loadPending.Add(1)
	c.interruptCountdown()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadPending.Add(-1)

	c.reset()
	copy(c.memory[ProgramStart:], rom)
	c.debugger.Clear()

	c.logger.Debug("ROM loaded",
		log.Int("size", len(rom)),
		log.Hex("entry_point", c.entryPoint))
	return nil
}

func (c *Chip8) reset() {
	c.memory = [MemorySize]byte{}
	_ = font.CopyTo(c.memory[:]) // memory is always large enough
	c.v = [RegisterCount]uint8{}
	c.i = 0
	c.pc = c.entryPoint
	c.stack = nil
	c.delayTimer = 0
	c.soundTimer = 0
	c.waitRegister = 0
	c.display.Clear()
	c.keypad.reset()
	if c.seed != 0 {
		c.random = newRandomSource(c.seed)
	}
}

// PressKey marks a key as pressed. If the machine is waiting for a key, the
// key is latched and stored by the next step.
func (c *Chip8) PressKey(key uint8) error {
	if err := validateKey(key); err != nil {
		return err
	}
	c.keypad.press(key)
	return nil
}

// ReleaseKey marks a key as released.
func (c *Chip8) ReleaseKey(key uint8) error {
	if err := validateKey(key); err != nil {
		return err
	}
	c.keypad.release(key)
	return nil
}

// Keys returns the pressed state of all keys.
func (c *Chip8) Keys() [KeyCount]bool {
	return c.keypad.state()
}

// WaitingForKey returns whether execution is blocked on a wait-for-key instruction.
func (c *Chip8) WaitingForKey() bool {
	return c.keypad.isWaiting()
}

// KeyPressed returns a channel that receives a value when a key is pressed
// while the machine is waiting for a key.
func (c *Chip8) KeyPressed() <-chan struct{} {
	return c.keypad.signal
}

// V returns a copy of the registers V0-VF.
func (c *Chip8) V() [RegisterCount]uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

// I returns the address register.
func (c *Chip8) I() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.i
}

// PC returns the program counter.
func (c *Chip8) PC() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pc
}

// Stack returns a copy of the call stack, the last element is the top.
func (c *Chip8) Stack() []uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]uint16(nil), c.stack...)
}

// Memory returns a copy of the memory.
func (c *Chip8) Memory() [MemorySize]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.memory
}

// DelayTimer returns the delay timer value.
func (c *Chip8) DelayTimer() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delayTimer
}

// SoundTimer returns the sound timer value.
func (c *Chip8) SoundTimer() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.soundTimer
}

// Display renders the framebuffer as rows of '0' and '1' characters.
func (c *Chip8) Display() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.display.String()
}

// Framebuffer returns a copy of the pixel grid.
func (c *Chip8) Framebuffer() [display.Height][display.Width]uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.display.Pixels()
}

type nopDebugger struct{}

func (nopDebugger) Log(string) {}

func (nopDebugger) LogInstruction(instruction.Word) {}

func (nopDebugger) Clear() {}
