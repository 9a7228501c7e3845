// Package debugger records a human readable trace of the executed
// instructions and diagnostic messages of the virtual machine.
package debugger

import (
	"slices"
	"sync"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/instruction"
	"github.com/retroenv/retrogolib/log"
)

// Compile-time check to ensure Debugger implements chip8.Debugger.
var _ chip8.Debugger = (*Debugger)(nil)

// Debugger collects trace messages in execution order. All recorded messages
// are also forwarded to the logger at debug level.
type Debugger struct {
	logger *log.Logger

	mu       sync.Mutex
	messages []string
	limit    int
}

// New returns a new debugger. A limit greater than zero caps the number of
// retained messages, dropping the oldest ones first.
func New(logger *log.Logger, limit int) *Debugger {
	return &Debugger{
		logger: logger,
		limit:  limit,
	}
}

// Log records a diagnostic message.
func (d *Debugger) Log(message string) {
	d.logger.Debug(message)
	d.add(message)
}

// LogInstruction records the description of an instruction.
func (d *Debugger) LogInstruction(word instruction.Word) {
	message := Describe(word)
	d.logger.Debug("Instruction", log.String("trace", message))
	d.add(message)
}

// Clear discards all recorded messages.
func (d *Debugger) Clear() {
	d.mu.Lock()
	d.messages = nil
	d.mu.Unlock()
}

// Messages returns all recorded messages, oldest first.
func (d *Debugger) Messages() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.messages)
}

// Recent returns all recorded messages, newest first.
func (d *Debugger) Recent() []string {
	messages := d.Messages()
	slices.Reverse(messages)
	return messages
}

func (d *Debugger) add(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.messages = append(d.messages, message)
	if d.limit > 0 && len(d.messages) > d.limit {
		d.messages = slices.Delete(d.messages, 0, len(d.messages)-d.limit)
	}
}
