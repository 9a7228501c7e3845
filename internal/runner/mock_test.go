package runner

import (
	"context"

	"github.com/retroenv/retrochip8/internal/instruction"
)

// mockMachine executes a program of instruction words, every instruction
// advances the program counter except jumps.
type mockMachine struct {
	program map[uint16]instruction.Word
	pc      uint16
	ticks   int
	steps   int
	waiting bool
	pressed  []uint8
	released []uint8
	stepErr  error
}

func newMockMachine(program map[uint16]instruction.Word) *mockMachine {
	return &mockMachine{
		program: program,
		pc:      0x200,
	}
}

func (m *mockMachine) Step(context.Context) error {
	if m.stepErr != nil {
		return m.stepErr
	}
	m.steps++
	if m.waiting {
		if len(m.pressed) == 0 {
			return nil
		}
		m.waiting = false
	}

	w := m.program[m.pc]
	switch {
	case w.Op() == 0x1:
		m.pc = w.Address()
	case w.Op() == 0xF && w.Lower() == 0x0A:
		m.waiting = true
		m.pc += 2
	default:
		m.pc += 2
	}
	return nil
}

func (m *mockMachine) Peek() (instruction.Word, error) {
	return m.program[m.pc], nil
}

func (m *mockMachine) Tick() {
	m.ticks++
}

func (m *mockMachine) PC() uint16 {
	return m.pc
}

func (m *mockMachine) WaitingForKey() bool {
	return m.waiting
}

func (m *mockMachine) PressKey(key uint8) error {
	m.pressed = append(m.pressed, key)
	return nil
}

func (m *mockMachine) ReleaseKey(key uint8) error {
	m.released = append(m.released, key)
	return nil
}
