// Package font contains the built-in hexadecimal digit sprites of the CHIP-8 interpreter.
package font

import "fmt"

const (
	// GlyphSize is the number of bytes of a single digit sprite, one byte per row.
	GlyphSize = 5

	// Glyphs is the number of digit sprites, one for each hex digit 0-F.
	Glyphs = 16

	// Size is the number of memory bytes occupied by the font table.
	Size = GlyphSize * Glyphs

	// BaseAddress is the memory address where the font table is installed.
	BaseAddress = 0x000
)

var digits = [Size]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// CopyTo installs the font table at BaseAddress of the given memory.
func CopyTo(memory []byte) error {
	if len(memory) < BaseAddress+Size {
		return fmt.Errorf("memory of %d bytes too small for font table of %d bytes", len(memory), Size)
	}
	copy(memory[BaseAddress:], digits[:])
	return nil
}

// Location returns the memory address of the sprite for a hex digit.
// Only the low nibble of the digit is used.
func Location(digit uint8) uint16 {
	return BaseAddress + uint16(digit&0x0F)*GlyphSize
}

// Glyph returns a copy of the sprite bytes of a hex digit.
func Glyph(digit uint8) [GlyphSize]byte {
	var glyph [GlyphSize]byte
	offset := Location(digit) - BaseAddress
	copy(glyph[:], digits[offset:offset+GlyphSize])
	return glyph
}
