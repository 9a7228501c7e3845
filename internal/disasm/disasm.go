// Package disasm implements a control flow tracing disassembler for CHIP-8 ROMs.
package disasm

import (
	"context"
	"fmt"
	"io"

	vm "github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/instruction"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// Summary contains statistics of a disassembled ROM.
type Summary struct {
	Instructions int // number of decoded instructions
	DataBytes    int // number of bytes not reached by the control flow
	Labels       int
	MemoryReads  int // instructions of a memory reading kind
	MemoryWrites int // instructions of a memory writing kind
}

// Disasm implements a disassembler.
type Disasm struct {
	logger  *log.Logger
	options options.Disassembler

	rom     []byte
	offsets []Offset

	branchDestinations set.Set[uint16] // set of all addresses that are referenced

	offsetsToParse      []uint16
	offsetsToParseAdded set.Set[uint16]
}

// New creates a new disassembler for the passed ROM.
func New(logger *log.Logger, rom []byte, opts options.Disassembler) (*Disasm, error) {
	if len(rom) > vm.MaxROMSize {
		return nil, fmt.Errorf("%w: %d bytes, maximum is %d", vm.ErrROMTooLarge, len(rom), vm.MaxROMSize)
	}

	dis := &Disasm{
		logger:              logger,
		options:             opts,
		rom:                 rom,
		offsets:             make([]Offset, len(rom)),
		branchDestinations:  set.New[uint16](),
		offsetsToParseAdded: set.New[uint16](),
	}
	if len(rom) > 0 {
		dis.offsets[0].Label = "Start"
		dis.addAddressToParse(vm.ProgramStart, 0, false)
	}
	return dis, nil
}

// Process traces the control flow of the ROM and writes the listing.
func (dis *Disasm) Process(ctx context.Context, writer io.Writer) (Summary, error) {
	if err := dis.followExecutionFlow(ctx); err != nil {
		return Summary{}, err
	}
	dis.processJumpDestinations()
	dis.processData()

	if err := dis.write(writer); err != nil {
		return Summary{}, fmt.Errorf("writing listing: %w", err)
	}
	return dis.summary(), nil
}

// Offsets returns the disassembly information of all ROM bytes.
func (dis *Disasm) Offsets() []Offset {
	return dis.offsets
}

func (dis *Disasm) followExecutionFlow(ctx context.Context) error {
	for len(dis.offsetsToParse) > 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("tracing control flow: %w", err)
		}

		address := dis.offsetsToParse[0]
		dis.offsetsToParse = dis.offsetsToParse[1:]
		dis.processOffset(address)
	}
	return nil
}

// processOffset decodes the instruction at the given address and queues all
// addresses that the instruction can continue execution at.
func (dis *Disasm) processOffset(address uint16) {
	index := dis.addressToIndex(address)
	if index+1 >= len(dis.rom) {
		dis.logger.Debug("Instruction crosses end of ROM", log.Hex("address", address))
		return
	}

	offsetInfo := &dis.offsets[index]
	if offsetInfo.IsType(CodeOperand) || dis.offsets[index+1].IsType(CodeOffset) {
		offsetInfo.Comment = "branch into instruction detected"
		dis.logger.Debug("Branch into instruction", log.Hex("address", address))
		return
	}

	w := instruction.FromBytes(dis.rom[index], dis.rom[index+1])
	op, ok := lookup(w)
	if !ok {
		dis.logger.Debug("Unknown instruction",
			log.Hex("address", address),
			log.String("opcode", w.String()))
		return
	}

	offsetInfo.SetType(CodeOffset)
	offsetInfo.Data = dis.rom[index : index+instruction.Size]
	dis.offsets[index+1].SetType(CodeOperand)

	dis.handleControlFlow(address, w, op)
}

func (dis *Disasm) handleControlFlow(address uint16, w instruction.Word, op chip8.Opcode) {
	next := address + instruction.Size
	ins := op.Instruction

	switch {
	case ins == chip8.RetInst:

	case ins == chip8.JpInst && w.Op() == 0xB:
		dis.offsets[dis.addressToIndex(address)].Comment = "indirect jump"

	case ins == chip8.JpInst:
		dis.addReference(address, w.Address(), JumpDestination)
		dis.addAddressToParse(w.Address(), address, true)

	case ins == chip8.CallInst:
		dis.addReference(address, w.Address(), CallDestination)
		dis.addAddressToParse(w.Address(), address, true)
		dis.addAddressToParse(next, address, false)

	case chip8.SkipInstructions.Contains(ins.Name):
		dis.addAddressToParse(next, address, false)
		dis.addAddressToParse(next+instruction.Size, address, false)

	case ins == chip8.LdInst && w.Op() == 0xA:
		dis.addReference(address, w.Address(), DataReference)
		dis.addAddressToParse(next, address, false)

	default:
		dis.addAddressToParse(next, address, false)
	}
}

// addReference records that the instruction at from references target.
func (dis *Disasm) addReference(from, target uint16, typ OffsetType) {
	dis.offsets[dis.addressToIndex(from)].BranchingTo = target
	if !dis.inROM(target) {
		return
	}

	offsetInfo := &dis.offsets[dis.addressToIndex(target)]
	offsetInfo.SetType(typ)
	offsetInfo.branchFrom = append(offsetInfo.branchFrom, from)
	dis.branchDestinations[target] = struct{}{}
}

// addAddressToParse adds an address to the list to be processed if the
// address has not been processed yet. Addresses outside of the ROM are ignored.
func (dis *Disasm) addAddressToParse(address, from uint16, isABranchDestination bool) {
	if !dis.inROM(address) {
		if isABranchDestination {
			dis.logger.Debug("Branch target outside of ROM",
				log.Hex("address", address),
				log.Hex("from", from))
		}
		return
	}

	if _, ok := dis.offsetsToParseAdded[address]; ok {
		return
	}
	dis.offsetsToParseAdded[address] = struct{}{}
	dis.offsetsToParse = append(dis.offsetsToParse, address)
}

// processData marks all bytes that were not reached as data.
func (dis *Disasm) processData() {
	for i := range dis.offsets {
		offsetInfo := &dis.offsets[i]
		if !offsetInfo.IsType(CodeOffset | CodeOperand) {
			offsetInfo.SetType(DataOffset)
		}
	}
}

func (dis *Disasm) summary() Summary {
	var s Summary
	for i := range dis.offsets {
		offsetInfo := &dis.offsets[i]
		if offsetInfo.Label != "" {
			s.Labels++
		}

		switch {
		case offsetInfo.IsType(DataOffset):
			s.DataBytes++

		case offsetInfo.IsType(CodeOffset):
			s.Instructions++
			op, _ := lookup(instructionAt(offsetInfo))
			if chip8.MemoryReadInstructions.Contains(op.Instruction.Name) {
				s.MemoryReads++
			}
			if chip8.MemoryWriteInstructions.Contains(op.Instruction.Name) {
				s.MemoryWrites++
			}
		}
	}
	return s
}

func instructionAt(offsetInfo *Offset) instruction.Word {
	return instruction.FromBytes(offsetInfo.Data[0], offsetInfo.Data[1])
}

func (dis *Disasm) addressToIndex(address uint16) int {
	return int(address) - vm.ProgramStart
}

func (dis *Disasm) inROM(address uint16) bool {
	index := dis.addressToIndex(address)
	return index >= 0 && index < len(dis.rom)
}
