// Package ambient runs periodic, probability-gated background behaviors.
//
// A Loop wakes on a fixed period and fires only when its gate allows it,
// its own re-rolled cooldown has elapsed since it last fired, and a chance
// roll succeeds. Loops share nothing but the clock.
package ambient

import (
	"math/rand"
	"time"

	"github.com/b/ratrak/pkg/sched"
)

// Spec configures one loop.
type Spec struct {
	Period   time.Duration `yaml:"period" json:"period"`
	Cooldown sched.Range   `yaml:"cooldown" json:"cooldown"`
	Chance   float64       `yaml:"chance" json:"chance"`
}

// Loop is a single ambient behavior.
type Loop struct {
	name  string
	spec  Spec
	clock sched.Clock
	rng   *rand.Rand
	gate  func() bool
	fire  func()

	last  time.Time
	timer sched.Timer
}

// New creates a stopped loop. gate may be nil.
func New(name string, spec Spec, clock sched.Clock, rng *rand.Rand, gate func() bool, fire func()) *Loop {
	return &Loop{
		name:  name,
		spec:  spec,
		clock: clock,
		rng:   rng,
		gate:  gate,
		fire:  fire,
	}
}

// Name returns the loop's name.
func (l *Loop) Name() string { return l.name }

// Start arms the loop. Starting a running loop is a no-op and returns false.
func (l *Loop) Start() bool {
	if l.timer != nil {
		return false
	}
	l.timer = l.clock.Every(l.spec.Period, l.tick)
	return true
}

// Stop disarms the loop. Safe to call repeatedly.
func (l *Loop) Stop() {
	l.timer = sched.Stop(l.timer)
}

// Running reports whether the loop is armed.
func (l *Loop) Running() bool { return l.timer != nil }

// LastFired returns when the loop last fired, or the zero time.
func (l *Loop) LastFired() time.Time { return l.last }

func (l *Loop) tick() {
	if l.gate != nil && !l.gate() {
		return
	}
	now := l.clock.Now()
	// the cooldown window is drawn fresh on every check
	if !l.last.IsZero() && now.Sub(l.last) < l.spec.Cooldown.Roll(l.rng) {
		return
	}
	if l.rng.Float64() >= l.spec.Chance {
		return
	}
	l.last = now
	if l.fire != nil {
		l.fire()
	}
}
