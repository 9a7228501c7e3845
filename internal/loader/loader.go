// Package loader handles ROM file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// ErrEmptyROM is returned for ROM files without content.
var ErrEmptyROM = errors.New("empty ROM file")

// Loader handles loading ROM files from disk.
type Loader struct {
	logger *log.Logger
}

// New creates a new ROM loader.
func New(logger *log.Logger) *Loader {
	return &Loader{
		logger: logger,
	}
}

// Load reads a ROM file and validates that it fits into the program space.
func (l *Loader) Load(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	rom, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	system := Detect(path)
	if system != arch.CHIP8System {
		l.logger.Warn("Unexpected file extension, loading as raw CHIP-8 binary",
			log.String("file", path))
	}
	l.logger.Debug("ROM file loaded",
		log.String("file", path),
		log.String("system", string(arch.CHIP8System)),
		log.Int("size", len(rom)))
	return rom, nil
}

// Read reads a ROM from a reader. At most one byte more than the program space
// is read to detect oversized ROMs.
func Read(reader io.Reader) ([]byte, error) {
	rom, err := io.ReadAll(io.LimitReader(reader, chip8.MaxROMSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading ROM: %w", err)
	}

	switch {
	case len(rom) == 0:
		return nil, ErrEmptyROM
	case len(rom) > chip8.MaxROMSize:
		return nil, fmt.Errorf("%w: more than %d bytes", chip8.ErrROMTooLarge, chip8.MaxROMSize)
	}
	return rom, nil
}

// Detect determines the system type based on the file extension. An empty
// system is returned for unknown extensions.
func Detect(filename string) arch.System {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".ch8", ".c8", ".rom":
		return arch.CHIP8System
	default:
		return ""
	}
}
