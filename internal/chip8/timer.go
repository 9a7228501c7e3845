package chip8

import (
	"context"
	"fmt"
	"time"
)

// TimerInterval is the real time quantum of one timer decrement, approximating 60 Hz.
const TimerInterval = 16 * time.Millisecond

// Sleeper suspends the calling goroutine for a duration or until the context is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to the Sleeper interface.
type SleeperFunc func(ctx context.Context, d time.Duration) error

// Sleep calls f(ctx, d).
func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Tick performs one 60 Hz timer tick, decrementing the non-zero timers.
func (c *Chip8) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickTimers()
}

func (c *Chip8) tickTimers() {
	if c.delayTimer > 0 {
		c.delayTimer--
	}
	if c.soundTimer > 0 {
		c.soundTimer--
	}
}

// countdown sets the delay timer and blocks until it reached zero, sleeping
// one TimerInterval per decrement. A Load call interrupts the countdown.
func (c *Chip8) countdown(ctx context.Context, value uint8) (pcUpdate, error) {
	c.delayTimer = value

	ctx, cancel := context.WithCancelCause(ctx)
	c.setInterrupt(cancel)
	defer func() {
		c.setInterrupt(nil)
		cancel(nil)
	}()

	for c.delayTimer > 0 {
		if c.loadPending.Load() > 0 {
			return pcHold, fmt.Errorf("delay timer countdown: %w", ErrInterrupted)
		}

		if err := c.sleeper.Sleep(ctx, TimerInterval); err != nil {
			cause := context.Cause(ctx)
			if cause == nil {
				cause = err
			}
			return pcHold, fmt.Errorf("delay timer countdown: %w", cause)
		}
		c.tickTimers()
	}
	return pcNext, nil
}

func (c *Chip8) setInterrupt(cancel context.CancelCauseFunc) {
	c.interruptMu.Lock()
	c.interrupt = cancel
	c.interruptMu.Unlock()
}

func (c *Chip8) interruptCountdown() {
	c.interruptMu.Lock()
	defer c.interruptMu.Unlock()

	if c.interrupt != nil {
		c.interrupt(ErrInterrupted)
	}
}
