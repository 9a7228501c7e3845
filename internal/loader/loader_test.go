package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestLoad(t *testing.T) {
	t.Run("load CHIP-8 file", func(t *testing.T) {
		tmpFile := createTempFile(t, "test.ch8", []byte{0x12, 0x34, 0x56, 0x78})

		loader := New(log.NewTestLogger(t))
		rom, err := loader.Load(tmpFile)
		assert.NoError(t, err)
		assert.Equal(t, []byte{0x12, 0x34, 0x56, 0x78}, rom)
	})

	t.Run("load file with unknown extension", func(t *testing.T) {
		tmpFile := createTempFile(t, "test.bin", []byte{0x00, 0xE0})

		loader := New(log.NewTestLogger(t))
		rom, err := loader.Load(tmpFile)
		assert.NoError(t, err)
		assert.Len(t, rom, 2)
	})

	t.Run("error on non-existent file", func(t *testing.T) {
		loader := New(log.NewTestLogger(t))
		_, err := loader.Load("/nonexistent/file.ch8")
		assert.Error(t, err)
	})

	t.Run("error on empty file", func(t *testing.T) {
		tmpFile := createTempFile(t, "empty.ch8", nil)

		loader := New(log.NewTestLogger(t))
		_, err := loader.Load(tmpFile)
		assert.True(t, errors.Is(err, ErrEmptyROM))
	})

	t.Run("error on oversized file", func(t *testing.T) {
		tmpFile := createTempFile(t, "large.ch8", make([]byte, chip8.MaxROMSize+1))

		loader := New(log.NewTestLogger(t))
		_, err := loader.Load(tmpFile)
		assert.True(t, errors.Is(err, chip8.ErrROMTooLarge))
	})
}

func TestRead(t *testing.T) {
	rom, err := Read(bytes.NewReader(make([]byte, chip8.MaxROMSize)))
	assert.NoError(t, err)
	assert.Len(t, rom, chip8.MaxROMSize)
}

func TestDetect(t *testing.T) {
	tests := []struct {
		file     string
		expected arch.System
	}{
		{"game.ch8", arch.CHIP8System},
		{"GAME.CH8", arch.CHIP8System},
		{"game.c8", arch.CHIP8System},
		{"game.rom", arch.CHIP8System},
		{"game.nes", ""},
		{"game", ""},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.expected, Detect(tt.file))
		})
	}
}

func createTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, name)
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}
