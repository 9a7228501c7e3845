package runner

import (
	"context"
	"errors"
	"sync"
)

// ErrNoKeys is returned by a key source that has no more keys to provide.
var ErrNoKeys = errors.New("no keys available")

// KeySource provides the keys that resolve wait-for-key instructions.
type KeySource interface {
	// NextKey returns the next key to press. It may block until a key is
	// available or ctx is done.
	NextKey(ctx context.Context) (uint8, error)
}

// ScriptedKeys returns a fixed sequence of keys.
type ScriptedKeys struct {
	mu   sync.Mutex
	keys []uint8
}

// NewScriptedKeys returns a key source that provides the passed keys in order.
func NewScriptedKeys(keys ...uint8) *ScriptedKeys {
	return &ScriptedKeys{
		keys: append([]uint8(nil), keys...),
	}
}

// NextKey returns the next scripted key or ErrNoKeys if all keys were used.
func (s *ScriptedKeys) NextKey(ctx context.Context) (uint8, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.keys) == 0 {
		return 0, ErrNoKeys
	}
	key := s.keys[0]
	s.keys = s.keys[1:]
	return key, nil
}

// Remaining returns the number of keys that were not used yet.
func (s *ScriptedKeys) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}
