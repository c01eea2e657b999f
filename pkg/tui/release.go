package tui

import (
	"time"

	"github.com/b/ratrak/pkg/sched"
)

// KeyRelease synthesizes key-up events. Terminals only report presses
// and auto-repeats, so a key counts as released once it has not repeated
// for the configured delay.
type KeyRelease struct {
	clock sched.Clock
	after time.Duration
	up    func(key string)
	held  map[string]sched.Timer
}

func NewKeyRelease(clock sched.Clock, after time.Duration, up func(key string)) *KeyRelease {
	return &KeyRelease{clock: clock, after: after, up: up, held: make(map[string]sched.Timer)}
}

// Press records a press or repeat of key and reports whether it was a
// fresh press.
func (r *KeyRelease) Press(key string) bool {
	t, held := r.held[key]
	sched.Stop(t)
	r.held[key] = r.clock.AfterFunc(r.after, func() {
		delete(r.held, key)
		r.up(key)
	})
	return !held
}

// Held reports whether key is currently considered down.
func (r *KeyRelease) Held(key string) bool {
	_, ok := r.held[key]
	return ok
}

// Reset forgets every held key without emitting releases.
func (r *KeyRelease) Reset() {
	for key, t := range r.held {
		t.Stop()
		delete(r.held, key)
	}
}
