package disasm

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/instruction"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// lookup returns the opcode definition matching the instruction word.
func lookup(w instruction.Word) (chip8.Opcode, bool) {
	for _, op := range chip8.Opcodes[int(w.Op())] {
		if op.Info.Mask&uint16(w) == op.Info.Value {
			return op, op.Instruction != nil
		}
	}
	return chip8.Opcode{}, false
}

// formatInstruction returns the assembler representation of an instruction.
// The address parameter is used for instructions that reference an address,
// it is either a label name or a hex address.
func formatInstruction(name string, w instruction.Word, address string) string {
	if params := formatParams(name, w, address); params != "" {
		return fmt.Sprintf("%s %s", name, params)
	}
	return name
}

func formatParams(name string, w instruction.Word, address string) string {
	switch name {
	case chip8.ClsInst.Name, chip8.RetInst.Name:
		return ""
	case chip8.JpInst.Name:
		if w.Op() == 0xB {
			return "V0, " + address
		}
		return address
	case chip8.CallInst.Name:
		return address
	case chip8.SeInst.Name, chip8.SneInst.Name:
		return formatCompare(w)
	case chip8.LdInst.Name:
		return formatLoad(w, address)
	case chip8.AddInst.Name:
		return formatAdd(w)
	case chip8.OrInst.Name, chip8.AndInst.Name, chip8.XorInst.Name, chip8.SubInst.Name, chip8.SubnInst.Name:
		return fmt.Sprintf("V%X, V%X", w.X(), w.Y())
	case chip8.ShrInst.Name, chip8.ShlInst.Name, chip8.SkpInst.Name, chip8.SknpInst.Name:
		return fmt.Sprintf("V%X", w.X())
	case chip8.RndInst.Name:
		return fmt.Sprintf("V%X, $%02X", w.X(), w.Lower())
	case chip8.DrwInst.Name:
		return fmt.Sprintf("V%X, V%X, $%X", w.X(), w.Y(), w.N())
	}
	return ""
}

// formatCompare formats SE and SNE with a byte or a register operand.
func formatCompare(w instruction.Word) string {
	switch w.Op() {
	case 0x3, 0x4:
		return fmt.Sprintf("V%X, $%02X", w.X(), w.Lower())
	case 0x5, 0x9:
		return fmt.Sprintf("V%X, V%X", w.X(), w.Y())
	}
	return ""
}

func formatLoad(w instruction.Word, address string) string {
	x := w.X()

	switch w.Op() {
	case 0x6:
		return fmt.Sprintf("V%X, $%02X", x, w.Lower())
	case 0x8:
		return fmt.Sprintf("V%X, V%X", x, w.Y())
	case 0xA:
		return "I, " + address
	case 0xF:
		switch w.Lower() {
		case 0x07:
			return fmt.Sprintf("V%X, DT", x)
		case 0x0A:
			return fmt.Sprintf("V%X, K", x)
		case 0x15:
			return fmt.Sprintf("DT, V%X", x)
		case 0x18:
			return fmt.Sprintf("ST, V%X", x)
		case 0x29:
			return fmt.Sprintf("F, V%X", x)
		case 0x33:
			return fmt.Sprintf("B, V%X", x)
		case 0x55:
			return fmt.Sprintf("[I], V%X", x)
		case 0x65:
			return fmt.Sprintf("V%X, [I]", x)
		}
	}
	return ""
}

func formatAdd(w instruction.Word) string {
	switch w.Op() {
	case 0x7:
		return fmt.Sprintf("V%X, $%02X", w.X(), w.Lower())
	case 0x8:
		return fmt.Sprintf("V%X, V%X", w.X(), w.Y())
	case 0xF:
		return fmt.Sprintf("I, V%X", w.X())
	}
	return ""
}
