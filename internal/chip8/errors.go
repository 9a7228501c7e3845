package chip8

import "errors"

var (
	// ErrStackUnderflow is returned when a subroutine return is executed with an empty call stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrAddressOutOfRange is returned when an instruction accesses memory outside of the address space.
	ErrAddressOutOfRange = errors.New("address out of range")
	// ErrInvalidKey is returned for key values outside of 0x0-0xF.
	ErrInvalidKey = errors.New("invalid key")
	// ErrROMTooLarge is returned when a ROM does not fit into the program memory.
	ErrROMTooLarge = errors.New("rom too large")
	// ErrInterrupted is returned by a step whose delay timer countdown was interrupted by a load.
	ErrInterrupted = errors.New("interrupted by load")
	// ErrWaitingForKey is returned by Execute while a wait for key instruction has not been answered.
	ErrWaitingForKey = errors.New("waiting for key")
)
