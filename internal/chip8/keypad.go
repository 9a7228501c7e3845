package chip8

import (
	"fmt"
	"strconv"
	"sync"
)

// KeyCount is the number of keys of the hexadecimal keypad.
const KeyCount = 16

// keypad holds the key states and the wait-for-key latch. It has its own lock
// so that input events can arrive while an instruction is executing.
type keypad struct {
	mu      sync.Mutex
	keys    [KeyCount]bool
	waiting bool
	pending int // key pressed while waiting, -1 if none
	signal  chan struct{}
}

func newKeypad() *keypad {
	return &keypad{
		pending: -1,
		signal:  make(chan struct{}, 1),
	}
}

// ParseKey converts a single hex digit like "A" into a key value.
func ParseKey(s string) (uint8, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: '%s'", ErrInvalidKey, s)
	}
	value, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: '%s'", ErrInvalidKey, s)
	}
	return uint8(value), nil
}

func validateKey(key uint8) error {
	if key >= KeyCount {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	return nil
}

func (k *keypad) press(key uint8) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.keys[key] = true
	if !k.waiting || k.pending >= 0 {
		return
	}

	k.pending = int(key)
	select {
	case k.signal <- struct{}{}:
	default:
	}
}

func (k *keypad) release(key uint8) {
	k.mu.Lock()
	k.keys[key] = false
	k.mu.Unlock()
}

func (k *keypad) pressed(key uint8) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.keys[key&0x0F]
}

func (k *keypad) state() [KeyCount]bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.keys
}

// beginWait arms the latch, only keys pressed after this call resolve the wait.
func (k *keypad) beginWait() {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.waiting = true
	k.pending = -1
	select {
	case <-k.signal:
	default:
	}
}

func (k *keypad) isWaiting() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.waiting
}

// takePending returns the latched key and ends the wait if a key was pressed.
func (k *keypad) takePending() (uint8, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !k.waiting || k.pending < 0 {
		return 0, false
	}
	key := uint8(k.pending)
	k.waiting = false
	k.pending = -1
	return key, true
}

func (k *keypad) reset() {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.keys = [KeyCount]bool{}
	k.waiting = false
	k.pending = -1
	select {
	case <-k.signal:
	default:
	}
}
