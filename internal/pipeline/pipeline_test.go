package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestNew(t *testing.T) {
	p := New(log.NewTestLogger(t))

	assert.NotNil(t, p)
	assert.NotNil(t, p.logger)
	assert.NotNil(t, p.loader)
}

func TestExecute(t *testing.T) {
	rom := []byte{
		0x60, 0x05, // LD V0, 5
		0x70, 0x03, // ADD V0, 3
		0x12, 0x04, // JP 0x204
	}
	tmpFile := createTempFile(t, rom)

	p := New(log.NewTestLogger(t))
	opts := options.Program{Parameters: options.Parameters{Input: tmpFile}}

	output, err := p.Execute(context.Background(), opts, options.NewEmulator())
	assert.NoError(t, err)
	assert.Equal(t, runner.StopHalted, output.Result.Reason)
	assert.Equal(t, 2, output.Result.Steps)
	assert.Equal(t, uint16(0x204), output.Result.PC)
	assert.Equal(t, uint8(8), output.State.V[0])
	assert.Equal(t, []string{
		"6005 - LD V0, byte - Set V0 = 5.",
		"7003 - ADD V0, byte - Set V0 = V0 + 3.",
	}, output.Trace)
	assert.NotEmpty(t, output.Display)
}

func TestExecuteMissingFile(t *testing.T) {
	p := New(log.NewTestLogger(t))
	opts := options.Program{Parameters: options.Parameters{Input: filepath.Join(t.TempDir(), "missing.ch8")}}

	_, err := p.Execute(context.Background(), opts, options.NewEmulator())
	assert.ErrorContains(t, err, "loading ROM")
}

func TestExecuteWithROM(t *testing.T) {
	t.Run("key wait answered by scripted key", func(t *testing.T) {
		rom := []byte{
			0xF3, 0x0A, // LD V3, K
			0x12, 0x02, // JP 0x202
		}
		emuOpts := options.NewEmulator()
		emuOpts.Keys = []uint8{0xC}

		output, err := New(log.NewTestLogger(t)).ExecuteWithROM(context.Background(), rom, emuOpts)
		assert.NoError(t, err)
		assert.Equal(t, runner.StopHalted, output.Result.Reason)
		assert.Equal(t, uint8(0xC), output.State.V[3])
	})

	t.Run("trace limit", func(t *testing.T) {
		rom := []byte{
			0x70, 0x01, // ADD V0, 1
			0x12, 0x00, // JP 0x200
		}
		emuOpts := options.NewEmulator()
		emuOpts.MaxSteps = 20
		emuOpts.TraceLimit = 4

		output, err := New(log.NewTestLogger(t)).ExecuteWithROM(context.Background(), rom, emuOpts)
		assert.NoError(t, err)
		assert.Equal(t, runner.StopMaxSteps, output.Result.Reason)
		assert.Equal(t, uint8(10), output.State.V[0])
		assert.Len(t, output.Trace, 4)
	})

	t.Run("ROM too large", func(t *testing.T) {
		_, err := New(log.NewTestLogger(t)).ExecuteWithROM(context.Background(),
			make([]byte, chip8.MaxROMSize+1), options.NewEmulator())
		assert.True(t, errors.Is(err, chip8.ErrROMTooLarge))
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		output, err := New(log.NewTestLogger(t)).ExecuteWithROM(ctx, []byte{0x00, 0xE0}, options.NewEmulator())
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Equal(t, runner.StopError, output.Result.Reason)
	})

	t.Run("delay timer uses injected sleeper", func(t *testing.T) {
		var slept int
		p := New(log.NewTestLogger(t))
		p.deps.Sleeper = chip8.SleeperFunc(func(ctx context.Context, _ time.Duration) error {
			slept++
			return ctx.Err()
		})

		rom := []byte{
			0x60, 0x03, // LD V0, 3
			0xF0, 0x15, // LD DT, V0
			0x12, 0x04, // JP 0x204
		}
		output, err := p.ExecuteWithROM(context.Background(), rom, options.NewEmulator())
		assert.NoError(t, err)
		assert.Equal(t, runner.StopHalted, output.Result.Reason)
		assert.Equal(t, 3, slept)
		assert.Equal(t, uint8(0), output.State.DelayTimer)
	})
}

func TestWriteTrace(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTrace(&buf, []string{"00E0 - CLS - Clear the display.", "00EE - RET - Return from a subroutine."})
	assert.NoError(t, err)
	assert.Equal(t, "00E0 - CLS - Clear the display.\n00EE - RET - Return from a subroutine.\n", buf.String())
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "test.ch8")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}
