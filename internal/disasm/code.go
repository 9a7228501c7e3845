package disasm

import (
	"fmt"
	"slices"
)

const (
	dataNaming  = "_data_%04x"
	funcNaming  = "_func_%04x"
	labelNaming = "_label_%04x"
)

// processJumpDestinations names all referenced addresses and formats the
// code of the referencing instructions using the label names.
func (dis *Disasm) processJumpDestinations() {
	branchDestinations := make([]uint16, 0, len(dis.branchDestinations))
	for dest := range dis.branchDestinations {
		branchDestinations = append(branchDestinations, dest)
	}
	slices.Sort(branchDestinations)

	for _, address := range branchDestinations {
		offsetInfo := &dis.offsets[dis.addressToIndex(address)]

		if offsetInfo.Label == "" {
			switch {
			case offsetInfo.IsType(CallDestination):
				offsetInfo.Label = fmt.Sprintf(funcNaming, address)
			case offsetInfo.IsType(JumpDestination):
				offsetInfo.Label = fmt.Sprintf(labelNaming, address)
			default:
				offsetInfo.Label = fmt.Sprintf(dataNaming, address)
			}
		}

		// the destination is the second byte of an instruction
		if offsetInfo.IsType(CodeOperand) {
			dis.handleJumpIntoInstruction(address)
		}
	}

	dis.formatCode()
}

// handleJumpIntoInstruction converts an instruction that has a label on its
// second byte into data.
func (dis *Disasm) handleJumpIntoInstruction(address uint16) {
	index := dis.addressToIndex(address)
	start := &dis.offsets[index-1]

	start.ClearType(CodeOffset)
	start.Data = nil
	start.Comment = "branch into instruction detected"
	dis.offsets[index].ClearType(CodeOperand)
}

// formatCode sets the assembler code of all instructions.
func (dis *Disasm) formatCode() {
	for i := range dis.offsets {
		offsetInfo := &dis.offsets[i]
		if !offsetInfo.IsType(CodeOffset) {
			continue
		}

		w := instructionAt(offsetInfo)
		op, _ := lookup(w)

		address := fmt.Sprintf("$%03X", w.Address())
		if dis.inROM(offsetInfo.BranchingTo) {
			if label := dis.offsets[dis.addressToIndex(offsetInfo.BranchingTo)].Label; label != "" {
				address = label
			}
		}
		offsetInfo.Code = formatInstruction(op.Instruction.Name, w, address)
	}
}
