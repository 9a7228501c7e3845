package debugger

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/instruction"
)

// noopPrefix marks instructions that are decoded but have no effect.
const noopPrefix = "[NOOP] - "

type description struct {
	pattern  string
	describe func(w instruction.Word) string
}

// descriptions are matched in order, the first matching pattern wins.
var descriptions = []description{
	{"00E0", func(instruction.Word) string { return "CLS - Clear the display." }},
	{"00EE", func(instruction.Word) string { return "RET - Return from a subroutine." }},
	{"0...", func(w instruction.Word) string {
		return fmt.Sprintf("SYS addr - Jump to routine at %d.", w.Address())
	}},
	{"1...", func(w instruction.Word) string {
		return fmt.Sprintf("JP addr - Jump to location %d.", w.Address())
	}},
	{"2...", func(w instruction.Word) string {
		return fmt.Sprintf("CALL addr - Call subroutine at %d.", w.Address())
	}},
	{"3...", func(w instruction.Word) string {
		return fmt.Sprintf("SE V%X, byte - Skip next instruction if V%X = %d.", w.X(), w.X(), w.Lower())
	}},
	{"4...", func(w instruction.Word) string {
		return fmt.Sprintf("SNE V%X, byte - Skip next instruction if V%X != %d.", w.X(), w.X(), w.Lower())
	}},
	{"5..0", func(w instruction.Word) string {
		return fmt.Sprintf("SE V%X, V%X - Skip next instruction if V%X = V%X.", w.X(), w.Y(), w.X(), w.Y())
	}},
	{"6...", func(w instruction.Word) string {
		return fmt.Sprintf("LD V%X, byte - Set V%X = %d.", w.X(), w.X(), w.Lower())
	}},
	{"7...", func(w instruction.Word) string {
		return fmt.Sprintf("ADD V%X, byte - Set V%X = V%X + %d.", w.X(), w.X(), w.X(), w.Lower())
	}},
	{"8..0", func(w instruction.Word) string {
		return fmt.Sprintf("LD V%X, V%X - Set V%X = V%X.", w.X(), w.Y(), w.X(), w.Y())
	}},
	{"8..1", binary("OR")},
	{"8..2", binary("AND")},
	{"8..3", binary("XOR")},
	{"8..4", func(w instruction.Word) string {
		return fmt.Sprintf("ADD V%X, V%X - Set V%X = V%X + V%X, set VF = carry.", w.X(), w.Y(), w.X(), w.X(), w.Y())
	}},
	{"8..5", func(w instruction.Word) string {
		return fmt.Sprintf("SUB V%X, V%X - Set V%X = V%X - V%X, set VF = NOT borrow.", w.X(), w.Y(), w.X(), w.X(), w.Y())
	}},
	{"8..6", shift("SHR")},
	{"8..7", func(w instruction.Word) string {
		return fmt.Sprintf("SUBN V%X, V%X - Set V%X = V%X - V%X, set VF = NOT borrow.", w.X(), w.Y(), w.X(), w.Y(), w.X())
	}},
	{"8..E", shift("SHL")},
	{"9..0", func(w instruction.Word) string {
		return fmt.Sprintf("SNE V%X, V%X - Skip next instruction if V%X != V%X.", w.X(), w.Y(), w.X(), w.Y())
	}},
	{"A...", func(w instruction.Word) string {
		return fmt.Sprintf("LD I, addr - Set I = %d.", w.Address())
	}},
	{"B...", func(w instruction.Word) string {
		return fmt.Sprintf("JP V0, addr - Jump to location %d + V0.", w.Address())
	}},
	{"C...", func(w instruction.Word) string {
		return fmt.Sprintf("RND V%X, byte - Set V%X = random byte AND %d.", w.X(), w.X(), w.Lower())
	}},
	{"D...", func(w instruction.Word) string {
		return fmt.Sprintf("DRW V%X, V%X, nibble - Display %X-byte sprite starting at memory location I at (V%X, V%X), set VF = collision.",
			w.X(), w.Y(), w.N(), w.X(), w.Y())
	}},
	{"E.9E", func(w instruction.Word) string {
		return fmt.Sprintf("SKP V%X - Skip next instruction if key with the value of V%X is pressed.", w.X(), w.X())
	}},
	{"E.A1", func(w instruction.Word) string {
		return fmt.Sprintf("SKNP V%X - Skip next instruction if key with the value of V%X is not pressed.", w.X(), w.X())
	}},
	{"F.07", func(w instruction.Word) string {
		return fmt.Sprintf("LD V%X, DT - Set V%X = delay timer value.", w.X(), w.X())
	}},
	{"F.0A", func(w instruction.Word) string {
		return fmt.Sprintf("LD V%X, K - Wait for a key press, store the value of the key in V%X.", w.X(), w.X())
	}},
	{"F.15", func(w instruction.Word) string {
		return fmt.Sprintf("LD DT, V%X - Set delay timer = V%X.", w.X(), w.X())
	}},
	{"F.18", func(w instruction.Word) string {
		return fmt.Sprintf("LD ST, V%X - Set sound timer = V%X.", w.X(), w.X())
	}},
	{"F.1E", func(w instruction.Word) string {
		return fmt.Sprintf("ADD I, V%X - Set I = I + V%X.", w.X(), w.X())
	}},
	{"F.29", func(w instruction.Word) string {
		return fmt.Sprintf("LD F, V%X - Set I = location of sprite for digit V%X.", w.X(), w.X())
	}},
	{"F.33", func(w instruction.Word) string {
		return fmt.Sprintf("LD B, V%X - Store BCD representation of V%X in memory locations I, I+1, and I+2.", w.X(), w.X())
	}},
	{"F.55", func(w instruction.Word) string {
		return fmt.Sprintf("LD [I], V%X - Store registers V0 through V%X in memory starting at location I.", w.X(), w.X())
	}},
	{"F.65", func(w instruction.Word) string {
		return fmt.Sprintf("LD V%X, [I] - Read registers V0 through V%X from memory starting at location I.", w.X(), w.X())
	}},
}

func binary(name string) func(w instruction.Word) string {
	return func(w instruction.Word) string {
		return fmt.Sprintf("%s V%X, V%X - Set V%X = V%X %s V%X.", name, w.X(), w.Y(), w.X(), w.X(), name, w.Y())
	}
}

func shift(name string) func(w instruction.Word) string {
	return func(w instruction.Word) string {
		return fmt.Sprintf("%s V%X {, V%X} - Set V%X = V%X %s 1.", name, w.X(), w.Y(), w.X(), w.X(), name)
	}
}

// Describe returns a human readable line for an instruction word, for example
// "3340 - SE V3, byte - Skip next instruction if V3 = 64.".
// Machine code routine calls are prefixed with "[NOOP] - " as they are ignored.
func Describe(w instruction.Word) string {
	for _, d := range descriptions {
		if !w.Matches(d.pattern) {
			continue
		}

		line := fmt.Sprintf("%s - %s", w, d.describe(w))
		if d.pattern == "0..." {
			return noopPrefix + line
		}
		return line
	}
	return fmt.Sprintf("%s - Unknown.", w)
}
