// Package sched provides the timer abstraction the companion runs on.
//
// Every timer, interval and frame loop the companion starts goes through a
// Clock so that callbacks are delivered on a single logical thread: the
// bubbletea update goroutine in production, the caller's goroutine under
// Manual.
package sched

import (
	"math/rand"
	"time"
)

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop cancels the timer. It reports whether the call stopped a timer
	// that had not yet fired (or, for intervals, had not been stopped).
	Stop() bool
}

// Clock is the time source and timer factory.
type Clock interface {
	Now() time.Time
	// AfterFunc runs fn once after d.
	AfterFunc(d time.Duration, fn func()) Timer
	// Every runs fn every d until stopped.
	Every(d time.Duration, fn func()) Timer
}

// Range is an inclusive duration interval.
type Range struct {
	Min time.Duration `yaml:"min" json:"min"`
	Max time.Duration `yaml:"max" json:"max"`
}

// Roll draws a uniformly distributed duration from r. A degenerate or
// inverted range yields Min.
func (r Range) Roll(rng *rand.Rand) time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + time.Duration(rng.Int63n(int64(r.Max-r.Min)+1))
}

// Stop stops t if it is non-nil and returns nil, for the common
// `t = sched.Stop(t)` reset idiom.
func Stop(t Timer) Timer {
	if t != nil {
		t.Stop()
	}
	return nil
}
