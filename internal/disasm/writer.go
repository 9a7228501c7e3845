package disasm

import (
	"fmt"
	"io"
	"strings"

	vm "github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/debugger"
)

const dataBytesPerLine = 16

// write outputs the listing, consecutive data bytes are bundled into .byte lines.
func (dis *Disasm) write(writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "; ROM size: %d bytes\n; Code base address: $%04X\n\n",
		len(dis.rom), vm.ProgramStart); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	var previousLineWasCode bool

	for i := 0; i < len(dis.offsets); {
		offsetInfo := &dis.offsets[i]
		if err := writeLabel(writer, i, offsetInfo); err != nil {
			return err
		}

		isCode := offsetInfo.IsType(CodeOffset)
		// print an empty line in case of data after code and vice versa
		if i > 0 && offsetInfo.Label == "" && isCode != previousLineWasCode {
			if _, err := fmt.Fprintln(writer); err != nil {
				return fmt.Errorf("writing line: %w", err)
			}
		}
		previousLineWasCode = isCode

		if isCode {
			if err := writeCodeLine(writer, dis.codeComment(i), offsetInfo.Code); err != nil {
				return err
			}
			i += len(offsetInfo.Data)
			continue
		}

		count, err := dis.writeData(writer, i)
		if err != nil {
			return err
		}
		i += count
	}
	return nil
}

// writeData writes the data bytes starting at index until the next label or
// code offset and returns the number of written bytes.
func (dis *Disasm) writeData(writer io.Writer, index int) (int, error) {
	end := index + 1
	for end < len(dis.offsets) && end-index < dataBytesPerLine {
		next := &dis.offsets[end]
		if next.Label != "" || !next.IsType(DataOffset) {
			break
		}
		end++
	}

	buf := &strings.Builder{}
	buf.WriteString(".byte ")
	for j, b := range dis.rom[index:end] {
		if j > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(buf, "$%02X", b)
	}

	var comment string
	if dis.options.Offsets {
		comment = fmt.Sprintf("$%04X", vm.ProgramStart+index)
	}
	if c := dis.offsets[index].Comment; c != "" {
		comment = joinComment(comment, c)
	}
	if err := writeCodeLine(writer, comment, buf.String()); err != nil {
		return 0, err
	}
	return end - index, nil
}

func (dis *Disasm) codeComment(index int) string {
	offsetInfo := &dis.offsets[index]
	var comment string

	if dis.options.Offsets {
		comment = fmt.Sprintf("$%04X", vm.ProgramStart+index)
	}
	if dis.options.HexComments {
		comment = joinComment(comment, fmt.Sprintf("%02X %02X", offsetInfo.Data[0], offsetInfo.Data[1]))
	}
	if offsetInfo.Comment != "" {
		comment = joinComment(comment, offsetInfo.Comment)
	}
	if dis.options.Describe {
		comment = joinComment(comment, debugger.Describe(instructionAt(offsetInfo)))
	}
	return comment
}

func joinComment(comment, s string) string {
	if comment == "" {
		return s
	}
	return comment + " " + s
}

func writeLabel(writer io.Writer, index int, offsetInfo *Offset) error {
	if offsetInfo.Label == "" {
		return nil
	}

	if index > 0 {
		if _, err := fmt.Fprintln(writer); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}
	if _, err := fmt.Fprintf(writer, "%s:\n", offsetInfo.Label); err != nil {
		return fmt.Errorf("writing label: %w", err)
	}
	return nil
}

func writeCodeLine(writer io.Writer, comment, code string) error {
	if comment == "" {
		if _, err := fmt.Fprintf(writer, "  %s\n", code); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
		return nil
	}

	if _, err := fmt.Fprintf(writer, "  %-30s ; %s\n", code, comment); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}
