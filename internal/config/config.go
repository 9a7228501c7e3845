// Package config handles application configuration and setup
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateWriter returns a writer for the output file, or stdout if no file
// name is given. The returned writer must be closed by the caller.
func CreateWriter(output string) (io.WriteCloser, error) {
	if output == "" {
		return nopCloser{os.Stdout}, nil
	}

	file, err := os.Create(output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", output, err)
	}
	return file, nil
}

// PrintBanner logs the application name and build information.
func PrintBanner(logger *log.Logger, quiet bool, name, version, commit, date string) {
	if quiet {
		return
	}

	logger.Info(name,
		log.String("version", buildinfo.Version(version, commit, date)),
		log.String("system", string(arch.CHIP8System)))
}

// nopCloser wraps an io.Writer to add a no-op Close method
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
