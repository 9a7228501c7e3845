package chip8

import (
	"context"
	"fmt"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/font"
	"github.com/retroenv/retrochip8/internal/instruction"
	"github.com/retroenv/retrogolib/log"
)

// pcUpdate describes how the program counter changes after an instruction.
type pcUpdate int

const (
	pcNext pcUpdate = iota // advance to the next instruction
	pcSkip                 // skip the next instruction
	pcJump                 // the instruction has set the program counter
	pcHold                 // the instruction did not complete
)

// Step executes one fetch-decode-execute cycle. While the machine waits for
// a key and no key has been pressed, Step returns without fetching.
// A Fx15 delay countdown blocks until the timer reached zero or ctx is done.
func (c *Chip8) Step(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blockedOnKey() {
		return nil
	}

	word, err := c.fetch()
	if err != nil {
		return err
	}
	return c.execute(ctx, word)
}

// Peek returns the instruction at the program counter without executing it.
func (c *Chip8) Peek() (instruction.Word, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetch()
}

func (c *Chip8) fetch() (instruction.Word, error) {
	if int(c.pc)+instruction.Size > MemorySize {
		return 0, fmt.Errorf("fetching instruction at %03X: %w", c.pc, ErrAddressOutOfRange)
	}
	return instruction.FromBytes(c.memory[c.pc], c.memory[c.pc+1]), nil
}

// Execute runs a single instruction as if it had been fetched at the current
// program counter. While the machine waits for a key and no key has been
// pressed, the word is not executed and ErrWaitingForKey is returned.
func (c *Chip8) Execute(ctx context.Context, word instruction.Word) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blockedOnKey() {
		return fmt.Errorf("executing %s: %w", word, ErrWaitingForKey)
	}
	return c.execute(ctx, word)
}

// blockedOnKey returns whether the machine is still waiting for a key. A key
// that was pressed while waiting is stored in the target register.
func (c *Chip8) blockedOnKey() bool {
	if !c.keypad.isWaiting() {
		return false
	}

	key, ok := c.keypad.takePending()
	if !ok {
		return true
	}

	c.v[c.waitRegister] = key
	c.logger.Debug("Key wait resolved",
		log.Hex("key", key),
		log.Int("register", int(c.waitRegister)))
	return false
}

func (c *Chip8) execute(ctx context.Context, word instruction.Word) error {
	c.debugger.LogInstruction(word)

	update, err := c.dispatch(ctx, word)
	if err != nil {
		return fmt.Errorf("executing %s at %03X: %w", word, c.pc, err)
	}

	switch update {
	case pcNext:
		c.pc += instruction.Size
	case pcSkip:
		c.pc += 2 * instruction.Size
	case pcJump, pcHold:
	}
	return nil
}

func (c *Chip8) dispatch(ctx context.Context, w instruction.Word) (pcUpdate, error) {
	x, y := w.X(), w.Y()

	switch w.Op() {
	case 0x0:
		return c.executeSystem(w)

	case 0x1: // JP addr
		c.pc = w.Address()
		return pcJump, nil

	case 0x2: // CALL addr
		c.stack = append(c.stack, c.pc)
		c.pc = w.Address()
		return pcJump, nil

	case 0x3: // SE Vx, byte
		return skipIf(c.v[x] == w.Lower()), nil

	case 0x4: // SNE Vx, byte
		return skipIf(c.v[x] != w.Lower()), nil

	case 0x5: // SE Vx, Vy
		if w.N() != 0 {
			return c.unknown(w), nil
		}
		return skipIf(c.v[x] == c.v[y]), nil

	case 0x6: // LD Vx, byte
		c.v[x] = w.Lower()
		return pcNext, nil

	case 0x7: // ADD Vx, byte
		c.v[x] += w.Lower()
		return pcNext, nil

	case 0x8:
		return c.executeALU(w), nil

	case 0x9: // SNE Vx, Vy
		if w.N() != 0 {
			return c.unknown(w), nil
		}
		return skipIf(c.v[x] != c.v[y]), nil

	case 0xA: // LD I, addr
		c.i = w.Address()
		return pcNext, nil

	case 0xB: // JP V0, addr
		target := w.Address() + uint16(c.v[0])
		if target > MaxAddress {
			return pcHold, fmt.Errorf("jump target %03X: %w", target, ErrAddressOutOfRange)
		}
		c.pc = target
		return pcJump, nil

	case 0xC: // RND Vx, byte
		c.v[x] = c.random() & w.Lower()
		return pcNext, nil

	case 0xD:
		return c.draw(w)

	case 0xE:
		return c.executeKeySkip(w), nil

	default: // 0xF
		return c.executeMisc(ctx, w)
	}
}

func skipIf(condition bool) pcUpdate {
	if condition {
		return pcSkip
	}
	return pcNext
}

func (c *Chip8) executeSystem(w instruction.Word) (pcUpdate, error) {
	switch w {
	case 0x00E0: // CLS
		c.display.Clear()
		return pcNext, nil

	case 0x00EE: // RET
		if len(c.stack) == 0 {
			return pcHold, ErrStackUnderflow
		}
		last := len(c.stack) - 1
		c.pc = c.stack[last]
		c.stack = c.stack[:last]
		return pcNext, nil

	default: // SYS addr, machine code routines are not supported
		return pcNext, nil
	}
}

func (c *Chip8) executeALU(w instruction.Word) pcUpdate {
	x, y := w.X(), w.Y()
	vx, vy := c.v[x], c.v[y]

	switch w.N() {
	case 0x0: // LD Vx, Vy
		c.v[x] = vy
	case 0x1: // OR Vx, Vy
		c.v[x] = vx | vy
	case 0x2: // AND Vx, Vy
		c.v[x] = vx & vy
	case 0x3: // XOR Vx, Vy
		c.v[x] = vx ^ vy
	case 0x4: // ADD Vx, Vy
		sum := uint16(vx) + uint16(vy)
		c.v[FlagRegister] = flag(sum > 0xFF)
		c.v[x] = uint8(sum)
	case 0x5: // SUB Vx, Vy
		c.v[FlagRegister] = flag(vx > vy)
		c.v[x] = vx - vy
	case 0x6: // SHR Vx
		c.v[FlagRegister] = vx & 0x01
		c.v[x] = vx >> 1
	case 0x7: // SUBN Vx, Vy
		c.v[FlagRegister] = flag(vy > vx)
		c.v[x] = vy - vx
	case 0xE: // SHL Vx
		c.v[FlagRegister] = (vx >> 7) & 0x01
		c.v[x] = vx << 1
	default:
		return c.unknown(w)
	}
	return pcNext
}

func flag(set bool) uint8 {
	if set {
		return 1
	}
	return 0
}

// draw implements DRW Vx, Vy, nibble. The start coordinates wrap around the
// screen size, the sprite itself wraps horizontally and is clipped vertically.
func (c *Chip8) draw(w instruction.Word) (pcUpdate, error) {
	height := int(w.N())
	if err := checkRange(c.i, height); err != nil {
		return pcHold, err
	}

	x := int(c.v[w.X()]) % display.Width
	y := int(c.v[w.Y()]) % display.Height
	sprite := c.memory[c.i : int(c.i)+height]

	collision := c.display.DrawSprite(x, y, sprite)
	c.v[FlagRegister] = flag(collision)
	return pcNext, nil
}

func (c *Chip8) executeKeySkip(w instruction.Word) pcUpdate {
	key := c.v[w.X()] & 0x0F

	switch w.Lower() {
	case 0x9E: // SKP Vx
		return skipIf(c.keypad.pressed(key))
	case 0xA1: // SKNP Vx
		return skipIf(!c.keypad.pressed(key))
	default:
		return c.unknown(w)
	}
}

func (c *Chip8) executeMisc(ctx context.Context, w instruction.Word) (pcUpdate, error) {
	x := w.X()

	switch w.Lower() {
	case 0x07: // LD Vx, DT
		c.v[x] = c.delayTimer

	case 0x0A: // LD Vx, K
		c.waitRegister = x
		c.keypad.beginWait()
		c.logger.Debug("Waiting for key press", log.Int("register", int(x)))

	case 0x15: // LD DT, Vx
		return c.countdown(ctx, c.v[x])

	case 0x18: // LD ST, Vx
		c.soundTimer = c.v[x]

	case 0x1E: // ADD I, Vx
		c.i = (c.i + uint16(c.v[x])) & MaxAddress

	case 0x29: // LD F, Vx
		c.i = font.Location(c.v[x])

	case 0x33: // LD B, Vx
		if err := checkRange(c.i, 3); err != nil {
			return pcHold, err
		}
		value := c.v[x]
		c.memory[c.i] = value / 100
		c.memory[c.i+1] = value / 10 % 10
		c.memory[c.i+2] = value % 10

	case 0x55: // LD [I], Vx
		if err := checkRange(c.i, int(x)+1); err != nil {
			return pcHold, err
		}
		copy(c.memory[c.i:], c.v[:x+1])

	case 0x65: // LD Vx, [I]
		if err := checkRange(c.i, int(x)+1); err != nil {
			return pcHold, err
		}
		copy(c.v[:x+1], c.memory[c.i:])

	default:
		return c.unknown(w), nil
	}
	return pcNext, nil
}

// unknown reports an instruction that is not part of the instruction set.
// Execution continues with the next instruction.
func (c *Chip8) unknown(w instruction.Word) pcUpdate {
	c.logger.Warn("Unknown instruction",
		log.String("opcode", w.String()),
		log.Hex("address", c.pc))
	return pcNext
}

// checkRange verifies that length bytes starting at address are inside memory.
func checkRange(address uint16, length int) error {
	if int(address)+length > MemorySize {
		return fmt.Errorf("accessing %d bytes at %03X: %w", length, address, ErrAddressOutOfRange)
	}
	return nil
}
