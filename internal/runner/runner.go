// Package runner drives the virtual machine: it steps the interpreter, ticks
// the timers at 60 Hz of emulated time and stops at breakpoints or when the
// program halts.
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/retroenv/retrochip8/internal/instruction"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// Machine is the part of the virtual machine that the runner controls.
type Machine interface {
	Step(ctx context.Context) error
	Peek() (instruction.Word, error)
	Tick()
	PC() uint16
	WaitingForKey() bool
	PressKey(key uint8) error
	ReleaseKey(key uint8) error
}

// StopReason describes why a run ended.
type StopReason int

const (
	StopMaxSteps   StopReason = iota // the step limit was reached
	StopBreakpoint                   // a breakpoint address was reached
	StopHalted                       // the program jumps to itself
	StopKeyWait                      // the program waits for a key and no key is available
	StopError                        // the run failed or was canceled
)

func (r StopReason) String() string {
	switch r {
	case StopMaxSteps:
		return "step limit reached"
	case StopBreakpoint:
		return "breakpoint"
	case StopHalted:
		return "halted"
	case StopKeyWait:
		return "waiting for key"
	case StopError:
		return "error"
	default:
		return fmt.Sprintf("StopReason(%d)", int(r))
	}
}

// Result contains the outcome of a run.
type Result struct {
	Reason StopReason
	Steps  int    // number of executed steps
	PC     uint16 // program counter when the run stopped
}

// Runner executes a machine until a stop condition is reached.
type Runner struct {
	logger  *log.Logger
	machine Machine
	keys    KeySource

	breakpoints    set.Set[uint16]
	maxSteps       int
	cyclesPerFrame int

	cycles    int    // steps since the last timer tick
	resumeAt  uint16 // breakpoint address the previous run stopped at
	hasResume bool
}

// New returns a runner for the machine. A nil key source means that a
// wait-for-key instruction stops the run.
func New(logger *log.Logger, machine Machine, opts options.Emulator, keys KeySource) *Runner {
	r := &Runner{
		logger:         logger,
		machine:        machine,
		keys:           keys,
		breakpoints:    set.New[uint16](),
		maxSteps:       opts.MaxSteps,
		cyclesPerFrame: opts.CyclesPerFrame,
	}
	for _, address := range opts.Breakpoints {
		r.breakpoints[address] = struct{}{}
	}
	if r.keys == nil {
		r.keys = NewScriptedKeys()
	}
	return r
}

// Run steps the machine until the step limit, a breakpoint, a halt or an
// unresolvable key wait is reached. A run that stopped at a breakpoint can be
// continued by calling Run again.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	resume := r.hasResume
	r.hasResume = false

	for steps := 0; r.maxSteps == 0 || steps < r.maxSteps; steps++ {
		if err := ctx.Err(); err != nil {
			return r.result(StopError, steps), fmt.Errorf("running: %w", err)
		}

		pc := r.machine.PC()
		if r.isBreakpoint(pc, steps == 0 && resume) {
			r.resumeAt, r.hasResume = pc, true
			return r.stop(StopBreakpoint, steps), nil
		}

		halted, err := r.isHalted(pc)
		if err != nil {
			return r.result(StopError, steps), err
		}
		if halted {
			return r.stop(StopHalted, steps), nil
		}

		pressed, err := r.resolveKeyWait(ctx)
		if err != nil {
			if errors.Is(err, ErrNoKeys) {
				return r.stop(StopKeyWait, steps), nil
			}
			return r.result(StopError, steps), err
		}

		if err := r.step(ctx, pressed); err != nil {
			return r.result(StopError, steps), err
		}
	}
	return r.stop(StopMaxSteps, r.maxSteps), nil
}

// isBreakpoint returns whether the run has to stop before executing the
// instruction at pc. The breakpoint that stopped the previous run is skipped
// when resuming.
func (r *Runner) isBreakpoint(pc uint16, resuming bool) bool {
	if _, ok := r.breakpoints[pc]; !ok {
		return false
	}
	return !resuming || r.resumeAt != pc
}

// isHalted returns whether the instruction at pc is a jump to itself.
func (r *Runner) isHalted(pc uint16) (bool, error) {
	if r.machine.WaitingForKey() {
		return false, nil
	}

	word, err := r.machine.Peek()
	if err != nil {
		return false, fmt.Errorf("reading instruction: %w", err)
	}
	return word.Op() == 0x1 && word.Address() == pc, nil
}

// resolveKeyWait presses the next key of the key source if the machine is
// waiting for a key. It returns the pressed key, or -1 if none was pressed.
func (r *Runner) resolveKeyWait(ctx context.Context) (int, error) {
	if !r.machine.WaitingForKey() {
		return -1, nil
	}

	key, err := r.keys.NextKey(ctx)
	if err != nil {
		return -1, fmt.Errorf("reading key: %w", err)
	}
	if err := r.machine.PressKey(key); err != nil {
		return -1, fmt.Errorf("pressing key: %w", err)
	}
	r.logger.Debug("Key pressed", log.Hex("key", key))
	return int(key), nil
}

// step executes one instruction. A key pressed to answer a key wait is
// released afterwards, also when the step failed.
func (r *Runner) step(ctx context.Context, pressed int) (err error) {
	if pressed >= 0 {
		defer func() {
			if releaseErr := r.machine.ReleaseKey(uint8(pressed)); releaseErr != nil && err == nil {
				err = fmt.Errorf("releasing key: %w", releaseErr)
			}
		}()
	}

	if err := r.machine.Step(ctx); err != nil {
		return fmt.Errorf("executing step: %w", err)
	}

	if r.cyclesPerFrame > 0 {
		r.cycles++
		if r.cycles == r.cyclesPerFrame {
			r.cycles = 0
			r.machine.Tick()
		}
	}
	return nil
}

func (r *Runner) stop(reason StopReason, steps int) Result {
	result := r.result(reason, steps)
	r.logger.Debug("Run stopped",
		log.Stringer("reason", reason),
		log.Int("steps", steps),
		log.Hex("pc", result.PC))
	return result
}

func (r *Runner) result(reason StopReason, steps int) Result {
	return Result{
		Reason: reason,
		Steps:  steps,
		PC:     r.machine.PC(),
	}
}
