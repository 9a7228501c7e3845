package instruction

import (
	"regexp"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestWord_Fields(t *testing.T) {
	w := FromBytes(0xD4, 0x26)

	assert.Equal(t, Word(0xD426), w)
	assert.Equal(t, uint16(0x426), w.Address())
	assert.Equal(t, byte(0xD4), w.Upper())
	assert.Equal(t, byte(0x26), w.Lower())
	assert.Equal(t, [4]uint8{0xD, 0x4, 0x2, 0x6}, w.Nibbles())
	assert.Equal(t, uint8(0xD), w.Op())
	assert.Equal(t, uint8(0x4), w.X())
	assert.Equal(t, uint8(0x2), w.Y())
	assert.Equal(t, uint8(0x6), w.N())
	assert.Equal(t, "D426", w.String())
	assert.Equal(t, [Size]byte{0xD4, 0x26}, w.Bytes())
}

func TestWord_Matches(t *testing.T) {
	tests := []struct {
		name     string
		word     Word
		pattern  string
		expected bool
	}{
		{"exact", 0x00E0, "00E0", true},
		{"exact lowercase", 0x00EE, "00ee", true},
		{"exact mismatch", 0x00EE, "00E0", false},
		{"wildcard middle", 0x8AB4, "8..4", true},
		{"wildcard middle mismatch", 0x8AB5, "8..4", false},
		{"leading nibble", 0x1217, "1...", true},
		{"leading nibble mismatch", 0x2217, "1...", false},
		{"key skip", 0xEA9E, "E.9E", true},
		{"all wildcards", 0xFFFF, "....", true},
		{"too short", 0x1217, "1..", false},
		{"too long", 0x1217, "1....", false},
		{"invalid character", 0x1217, "1..G", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.word.Matches(tt.pattern))
		})
	}
}

// TestWord_MatchesRegexpEquivalence checks the nibble comparison against a
// regular expression over the formatted hex string for a set of patterns.
func TestWord_MatchesRegexpEquivalence(t *testing.T) {
	patterns := []string{"00E0", "00EE", "0...", "5..0", "8..E", "E.A1", "F.33"}

	for _, pattern := range patterns {
		re := regexp.MustCompile("^" + pattern + "$")
		for value := 0; value <= 0xFFFF; value += 0x0103 {
			w := Word(value)
			assert.Equal(t, re.MatchString(w.String()), w.Matches(pattern))
		}
	}
}
