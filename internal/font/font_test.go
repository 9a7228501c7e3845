package font

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestCopyTo(t *testing.T) {
	memory := make([]byte, 4096)
	memory[Size] = 0xAA

	assert.NoError(t, CopyTo(memory))

	assert.Equal(t, byte(0xF0), memory[0])
	assert.Equal(t, byte(0x20), memory[5])
	assert.Equal(t, byte(0x80), memory[Size-1])
	assert.Equal(t, byte(0xAA), memory[Size])
}

func TestCopyTo_MemoryTooSmall(t *testing.T) {
	memory := make([]byte, Size-1)
	assert.Error(t, CopyTo(memory))
}

func TestLocation(t *testing.T) {
	tests := []struct {
		digit    uint8
		expected uint16
	}{
		{0x0, 0},
		{0x1, 5},
		{0x9, 45},
		{0xA, 50},
		{0xF, 75},
		{0x1A, 50},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Location(tt.digit))
	}
}

func TestGlyph(t *testing.T) {
	assert.Equal(t, [GlyphSize]byte{0xF0, 0x90, 0xF0, 0x90, 0x90}, Glyph(0xA))
	assert.Equal(t, [GlyphSize]byte{0xF0, 0x80, 0xF0, 0x80, 0x80}, Glyph(0xF))
}
