// Package instruction contains the CHIP-8 instruction word type and its field decoders.
package instruction

import "fmt"

// Size is the size of a CHIP-8 instruction in bytes.
const Size = 2

// Word is a 16-bit CHIP-8 instruction as fetched from memory in big-endian order.
type Word uint16

// FromBytes returns the instruction word formed by a high and a low byte.
func FromBytes(high, low byte) Word {
	return Word(uint16(high)<<8 | uint16(low))
}

// Address returns the lower 12 bits of the word (nnn).
func (w Word) Address() uint16 {
	return uint16(w) & 0x0FFF
}

// Upper returns the high byte of the word.
func (w Word) Upper() byte {
	return byte(w >> 8)
}

// Lower returns the low byte of the word (kk).
func (w Word) Lower() byte {
	return byte(w)
}

// Nibbles returns the four nibbles of the word, most significant first.
func (w Word) Nibbles() [4]uint8 {
	return [4]uint8{
		uint8(w>>12) & 0xF,
		uint8(w>>8) & 0xF,
		uint8(w>>4) & 0xF,
		uint8(w) & 0xF,
	}
}

// Op returns the most significant nibble that selects the instruction group.
func (w Word) Op() uint8 {
	return uint8(w>>12) & 0xF
}

// X returns the first register index nibble.
func (w Word) X() uint8 {
	return uint8(w>>8) & 0xF
}

// Y returns the second register index nibble.
func (w Word) Y() uint8 {
	return uint8(w>>4) & 0xF
}

// N returns the lowest nibble, used as sprite height and sub opcode.
func (w Word) N() uint8 {
	return uint8(w) & 0xF
}

// String returns the word as 4 uppercase hex digits.
func (w Word) String() string {
	return fmt.Sprintf("%04X", uint16(w))
}

// Bytes returns the word as it is stored in memory.
func (w Word) Bytes() [Size]byte {
	return [Size]byte{w.Upper(), w.Lower()}
}

// Matches reports whether the word matches a pattern of 4 hex digits where
// '.' matches any nibble, for example "8..4". Patterns of a different length
// or containing non hex characters never match.
func (w Word) Matches(pattern string) bool {
	if len(pattern) != 4 {
		return false
	}

	nibbles := w.Nibbles()
	for i := range 4 {
		c := pattern[i]
		if c == '.' {
			continue
		}
		value, ok := hexValue(c)
		if !ok || value != nibbles[i] {
			return false
		}
	}
	return true
}

func hexValue(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}
