package disasm

// OffsetType defines the type of a ROM offset.
type OffsetType uint8

const (
	CodeOffset      OffsetType = 1 << iota // first byte of an instruction
	CodeOperand                            // second byte of an instruction
	DataOffset                             // byte that is not reached by the control flow
	CallDestination                        // target of a CALL instruction
	JumpDestination                        // target of a JP instruction or of a skip
	DataReference                          // target of a LD I, addr instruction
)

// Offset contains the disassembly information of a single ROM byte.
type Offset struct {
	Type OffsetType
	Data []byte // the instruction bytes, set only for the first byte of an instruction

	Label       string // name of the label at this offset
	Code        string // the formatted instruction
	BranchingTo uint16 // target address of a jump, call or data reference
	Comment     string

	branchFrom []uint16 // addresses of instructions referencing this offset
}

// IsType returns whether the offset has any of the passed types set.
func (o *Offset) IsType(typ OffsetType) bool {
	return o.Type&typ != 0
}

// SetType sets the passed types.
func (o *Offset) SetType(typ OffsetType) {
	o.Type |= typ
}

// ClearType clears the passed types.
func (o *Offset) ClearType(typ OffsetType) {
	o.Type &^= typ
}
