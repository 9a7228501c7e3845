package chip8

import "fmt"

// State is a point in time copy of the complete machine state.
type State struct {
	V             [RegisterCount]uint8
	I             uint16
	PC            uint16
	Stack         []uint16
	DelayTimer    uint8
	SoundTimer    uint8
	Keys          [KeyCount]bool
	WaitingForKey bool
	Memory        [MemorySize]byte
	Display       string
}

// Snapshot returns a copy of the machine state.
func (c *Chip8) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		V:             c.v,
		I:             c.i,
		PC:            c.pc,
		Stack:         append([]uint16(nil), c.stack...),
		DelayTimer:    c.delayTimer,
		SoundTimer:    c.soundTimer,
		Keys:          c.keypad.state(),
		WaitingForKey: c.keypad.isWaiting(),
		Memory:        c.memory,
		Display:       c.display.String(),
	}
}

// MemoryHex returns every memory byte formatted as 2 uppercase hex digits.
func (s State) MemoryHex() []string {
	result := make([]string, len(s.Memory))
	for i, b := range s.Memory {
		result[i] = fmt.Sprintf("%02X", b)
	}
	return result
}
