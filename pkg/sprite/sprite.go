// Package sprite implements the companion's sprite state machine.
package sprite

import (
	"math/rand"
	"time"

	"github.com/b/ratrak/pkg/ambient"
	"github.com/b/ratrak/pkg/sched"
)

// State is a discrete sprite state.
type State string

const (
	Idle  State = "idle"
	Blink State = "blink"
	Move  State = "move"
	Work  State = "work"
)

// States lists every valid state.
var States = []State{Idle, Blink, Move, Work}

// Valid reports whether s is one of States.
func Valid(s State) bool {
	switch s {
	case Idle, Blink, Move, Work:
		return true
	}
	return false
}

// Hold describes a scheduled revert after a state change.
// A zero RevertTo means Idle.
type Hold struct {
	For      time.Duration
	RevertTo State
}

// Options configures a Machine.
type Options struct {
	Clock  sched.Clock
	Rand   *rand.Rand
	Assets map[string]string

	// IdleBlink drives StartIdleLoop; BlinkFor is the blink pulse length.
	IdleBlink ambient.Spec
	BlinkFor  sched.Range

	// OnChange receives every applied state and its asset.
	OnChange func(State, string)
}

// Machine tracks the current sprite state and at most one pending revert.
type Machine struct {
	clock    sched.Clock
	rng      *rand.Rand
	assets   map[State]string
	onChange func(State, string)

	idleSpec ambient.Spec
	blinkFor sched.Range
	idleLoop *ambient.Loop

	state State
	asset string
	hold  sched.Timer
}

// New creates a Machine in the Idle state. Nothing is emitted until the
// first SetState.
func New(opts Options) *Machine {
	assets := make(map[State]string, len(opts.Assets))
	for name, asset := range opts.Assets {
		s := State(name)
		if Valid(s) && asset != "" {
			assets[s] = asset
		}
	}
	return &Machine{
		clock:    opts.Clock,
		rng:      opts.Rand,
		assets:   assets,
		onChange: opts.OnChange,
		idleSpec: opts.IdleBlink,
		blinkFor: opts.BlinkFor,
		state:    Idle,
		asset:    assets[Idle],
	}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Asset returns the asset of the current state.
func (m *Machine) Asset() string { return m.asset }

// Known reports whether s can be applied: it must be a valid state with a
// mapped asset.
func (m *Machine) Known(s State) bool {
	_, ok := m.assets[s]
	return ok
}

// SetState applies name immediately and replaces any pending revert.
// Unknown names leave the machine untouched, pending revert included.
func (m *Machine) SetState(name State, hold Hold) {
	if !m.Known(name) {
		return
	}
	revertTo := hold.RevertTo
	if revertTo == "" {
		revertTo = Idle
	}
	m.apply(name)

	m.hold = sched.Stop(m.hold)
	if hold.For > 0 && name != revertTo {
		m.hold = m.clock.AfterFunc(hold.For, func() {
			m.hold = nil
			m.apply(revertTo)
		})
	}
}

// Pulse shows name for d, then reverts to Idle.
func (m *Machine) Pulse(name State, d time.Duration) {
	m.SetState(name, Hold{For: d, RevertTo: Idle})
}

// StartIdleLoop starts the idle-blink loop. It only fires while the
// machine is Idle and gate (if any) allows it. Starting twice is a no-op.
func (m *Machine) StartIdleLoop(gate func() bool) {
	if m.idleLoop != nil && m.idleLoop.Running() {
		return
	}
	m.idleLoop = ambient.New("idle-blink", m.idleSpec, m.clock, m.rng,
		func() bool {
			if m.state != Idle {
				return false
			}
			return gate == nil || gate()
		},
		func() { m.Pulse(Blink, m.blinkFor.Roll(m.rng)) },
	)
	m.idleLoop.Start()
}

// StopIdleLoop stops the idle-blink loop.
func (m *Machine) StopIdleLoop() {
	if m.idleLoop != nil {
		m.idleLoop.Stop()
	}
}

// Stop cancels the pending revert and the idle loop.
func (m *Machine) Stop() {
	m.hold = sched.Stop(m.hold)
	m.StopIdleLoop()
}

func (m *Machine) apply(s State) {
	asset, ok := m.assets[s]
	if !ok {
		return
	}
	m.state = s
	m.asset = asset
	if m.onChange != nil {
		m.onChange(s, asset)
	}
}
