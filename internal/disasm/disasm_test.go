package disasm

import (
	"bytes"
	"context"
	"errors"
	"testing"

	vm "github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func process(t *testing.T, rom []byte, opts options.Disassembler) (*Disasm, string, Summary) {
	t.Helper()

	dis, err := New(log.NewTestLogger(t), rom, opts)
	assert.NoError(t, err)

	var buf bytes.Buffer
	summary, err := dis.Process(context.Background(), &buf)
	assert.NoError(t, err)
	return dis, buf.String(), summary
}

func TestProcess(t *testing.T) {
	rom := []byte{
		0x60, 0x1A, // ld V0, $1A
		0xA2, 0x0C, // ld I, _data_020c
		0x22, 0x0A, // call _func_020a
		0x30, 0x00, // se V0, $00
		0x12, 0x08, // jp _label_0208
		0x00, 0xEE, // ret
		0xF0, 0x90,
	}

	_, output, summary := process(t, rom, options.Disassembler{})

	expected := "; ROM size: 14 bytes\n" +
		"; Code base address: $0200\n" +
		"\n" +
		"Start:\n" +
		"  ld V0, $1A\n" +
		"  ld I, _data_020c\n" +
		"  call _func_020a\n" +
		"  se V0, $00\n" +
		"\n" +
		"_label_0208:\n" +
		"  jp _label_0208\n" +
		"\n" +
		"_func_020a:\n" +
		"  ret\n" +
		"\n" +
		"_data_020c:\n" +
		"  .byte $F0, $90\n"
	assert.Equal(t, expected, output)

	assert.Equal(t, 6, summary.Instructions)
	assert.Equal(t, 2, summary.DataBytes)
	assert.Equal(t, 4, summary.Labels)
}

func TestProcessComments(t *testing.T) {
	rom := []byte{0x60, 0x1A}

	_, output, _ := process(t, rom, options.Disassembler{
		Describe:    true,
		HexComments: true,
		Offsets:     true,
	})
	assert.Contains(t, output, "; $0200 60 1A 601A - LD V0, byte - Set V0 = 26.\n")
}

func TestProcessUnknownInstructionIsData(t *testing.T) {
	rom := []byte{0x60, 0x01, 0xFF, 0xFF, 0x00}

	dis, output, summary := process(t, rom, options.Disassembler{})
	assert.Contains(t, output, "  ld V0, $01\n\n  .byte $FF, $FF, $00\n")
	assert.Equal(t, 1, summary.Instructions)
	assert.Equal(t, 3, summary.DataBytes)

	offsets := dis.Offsets()
	assert.True(t, offsets[1].IsType(CodeOperand))
	assert.True(t, offsets[2].IsType(DataOffset))
}

func TestProcessSkipFollowsBothPaths(t *testing.T) {
	rom := []byte{
		0x30, 0x00, // se V0, $00
		0x12, 0x06, // jp $206
		0x60, 0x01, // ld V0, $01
		0x00, 0xEE, // ret
	}

	dis, _, summary := process(t, rom, options.Disassembler{})
	assert.Equal(t, 4, summary.Instructions)
	assert.Equal(t, 0, summary.DataBytes)
	assert.Equal(t, "_label_0206", dis.Offsets()[6].Label)
}

func TestProcessJumpIntoInstruction(t *testing.T) {
	rom := []byte{
		0x30, 0x00, // se V0, $00
		0x12, 0x05, // jp into the second byte of the next instruction
		0x60, 0x12,
		0x00, 0xEE,
	}

	dis, output, _ := process(t, rom, options.Disassembler{})
	assert.Contains(t, output, "jp _label_0205")

	offsets := dis.Offsets()
	assert.True(t, offsets[4].IsType(DataOffset))
	assert.False(t, offsets[4].IsType(CodeOffset))
	assert.Equal(t, "branch into instruction detected", offsets[4].Comment)
	assert.Equal(t, "_label_0205", offsets[5].Label)
	assert.True(t, offsets[5].IsType(DataOffset))
}

func TestProcessTargetOutsideROM(t *testing.T) {
	rom := []byte{0x13, 0x00} // jp $300

	_, output, summary := process(t, rom, options.Disassembler{})
	assert.Contains(t, output, "  jp $300\n")
	assert.Equal(t, 1, summary.Labels)
}

func TestProcessIndirectJump(t *testing.T) {
	rom := []byte{0xB2, 0x04, 0x00, 0xE0, 0x00, 0xEE}

	dis, output, summary := process(t, rom, options.Disassembler{})
	assert.Contains(t, output, "jp V0, $204")
	assert.Equal(t, 1, summary.Instructions)
	assert.Equal(t, "indirect jump", dis.Offsets()[0].Comment)
}

func TestNewROMTooLarge(t *testing.T) {
	_, err := New(log.NewTestLogger(t), make([]byte, vm.MaxROMSize+1), options.Disassembler{})
	assert.True(t, errors.Is(err, vm.ErrROMTooLarge))
}

func TestProcessCanceled(t *testing.T) {
	dis, err := New(log.NewTestLogger(t), []byte{0x00, 0xE0}, options.Disassembler{})
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	_, err = dis.Process(ctx, &buf)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestProcessEmptyROM(t *testing.T) {
	_, output, summary := process(t, nil, options.Disassembler{})
	assert.Equal(t, "; ROM size: 0 bytes\n; Code base address: $0200\n\n", output)
	assert.Equal(t, Summary{}, summary)
}
