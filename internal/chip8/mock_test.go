package chip8

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/retroenv/retrochip8/internal/instruction"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// mockSleeper records sleep calls without blocking.
type mockSleeper struct {
	mu        sync.Mutex
	durations []time.Duration
}

func (m *mockSleeper) Sleep(ctx context.Context, d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	m.durations = append(m.durations, d)
	return nil
}

func (m *mockSleeper) calls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.durations...)
}

// mockDebugger records all messages and instructions.
type mockDebugger struct {
	messages     []string
	instructions []instruction.Word
	clears       int
}

func (m *mockDebugger) Log(message string) {
	m.messages = append(m.messages, message)
}

func (m *mockDebugger) LogInstruction(word instruction.Word) {
	m.instructions = append(m.instructions, word)
}

func (m *mockDebugger) Clear() {
	m.messages = nil
	m.instructions = nil
	m.clears++
}

// newTestChip8 returns a machine with a non blocking sleeper, a recording
// debugger and a random source that always returns 1.
func newTestChip8(t *testing.T) (*Chip8, *mockSleeper, *mockDebugger) {
	t.Helper()

	sleeper := &mockSleeper{}
	debugger := &mockDebugger{}
	c := New(log.NewTestLogger(t), options.Emulator{}, Dependencies{
		Debugger: debugger,
		Sleeper:  sleeper,
		Random:   func() byte { return 1 },
	})
	return c, sleeper, debugger
}

func execute(t *testing.T, c *Chip8, words ...instruction.Word) {
	t.Helper()

	for _, w := range words {
		if err := c.Execute(context.Background(), w); err != nil {
			t.Fatalf("executing %s: %v", w, err)
		}
	}
}

func step(t *testing.T, c *Chip8, count int) {
	t.Helper()

	for range count {
		if err := c.Step(context.Background()); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
}
