package sprite

import (
	"math/rand"
	"testing"
	"time"

	"github.com/b/ratrak/pkg/ambient"
	"github.com/b/ratrak/pkg/sched"
)

var epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

var testAssets = map[string]string{
	"idle":  "ratrak/idle",
	"blink": "ratrak/blink",
	"move":  "ratrak/move",
	"work":  "ratrak/work",
}

func newTestMachine(clock sched.Clock, changes *[]State) *Machine {
	return New(Options{
		Clock:  clock,
		Rand:   rand.New(rand.NewSource(1)),
		Assets: testAssets,
		IdleBlink: ambient.Spec{
			Period:   3500 * time.Millisecond,
			Cooldown: sched.Range{Min: 20 * time.Second, Max: 60 * time.Second},
			Chance:   1,
		},
		BlinkFor: sched.Range{Min: 300 * time.Millisecond, Max: 600 * time.Millisecond},
		OnChange: func(s State, _ string) {
			if changes != nil {
				*changes = append(*changes, s)
			}
		},
	})
}

func TestSetStateHoldsThenReverts(t *testing.T) {
	for _, s := range States {
		for _, r := range States {
			if s == r {
				continue
			}
			t.Run(string(s)+"->"+string(r), func(t *testing.T) {
				clock := sched.NewManual(epoch)
				m := newTestMachine(clock, nil)

				m.SetState(s, Hold{For: 400 * time.Millisecond, RevertTo: r})
				if m.State() != s {
					t.Fatalf("State() = %s, want %s", m.State(), s)
				}
				clock.Advance(399 * time.Millisecond)
				if m.State() != s {
					t.Fatalf("reverted early to %s", m.State())
				}
				clock.Advance(time.Millisecond)
				if m.State() != r {
					t.Fatalf("State() after hold = %s, want %s", m.State(), r)
				}
			})
		}
	}
}

func TestPulseReplacesPendingRevert(t *testing.T) {
	clock := sched.NewManual(epoch)
	var changes []State
	m := newTestMachine(clock, &changes)

	m.Pulse(Work, time.Second)
	clock.Advance(100 * time.Millisecond)
	m.Pulse(Blink, 200*time.Millisecond)

	clock.Advance(50 * time.Millisecond)
	if m.State() != Blink {
		t.Fatalf("t=150ms State() = %s, want blink", m.State())
	}
	clock.Advance(100 * time.Millisecond)
	if m.State() != Blink {
		t.Fatalf("t=250ms State() = %s, want blink", m.State())
	}
	clock.Advance(50 * time.Millisecond)
	if m.State() != Idle {
		t.Fatalf("t=300ms State() = %s, want idle", m.State())
	}
	clock.Advance(700 * time.Millisecond)
	if m.State() != Idle {
		t.Fatalf("t=1000ms State() = %s, the first pulse's revert came back", m.State())
	}
	want := []State{Work, Blink, Idle}
	if len(changes) != len(want) {
		t.Fatalf("changes = %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Fatalf("changes = %v, want %v", changes, want)
		}
	}
	if clock.Pending() != 0 {
		t.Fatalf("stale revert still pending")
	}
}

func TestUnknownStateIsIgnored(t *testing.T) {
	clock := sched.NewManual(epoch)
	var changes []State
	m := newTestMachine(clock, &changes)

	m.Pulse(Work, 500*time.Millisecond)
	m.SetState("dance", Hold{For: 50 * time.Millisecond})

	if m.State() != Work {
		t.Fatalf("State() = %s, want work", m.State())
	}
	clock.Advance(100 * time.Millisecond)
	if m.State() != Work {
		t.Fatalf("unknown state cancelled the pending revert")
	}
	clock.Advance(400 * time.Millisecond)
	if m.State() != Idle {
		t.Fatalf("State() = %s, want idle", m.State())
	}
	if len(changes) != 2 {
		t.Fatalf("changes = %v", changes)
	}
}

func TestUnmappedAssetIsUnknown(t *testing.T) {
	clock := sched.NewManual(epoch)
	m := New(Options{Clock: clock, Assets: map[string]string{"idle": "i", "work": ""}})
	m.SetState(Work, Hold{})
	if m.State() != Idle {
		t.Fatalf("state with empty asset applied")
	}
}

func TestZeroHoldOrSameTargetSchedulesNothing(t *testing.T) {
	clock := sched.NewManual(epoch)
	m := newTestMachine(clock, nil)

	m.SetState(Work, Hold{})
	m.SetState(Move, Hold{For: time.Second, RevertTo: Move})
	if clock.Pending() != 0 {
		t.Fatalf("Pending() = %d, want 0", clock.Pending())
	}
	if m.State() != Move {
		t.Fatalf("State() = %s", m.State())
	}
}

func TestIdleLoopBlinksOnlyWhenIdleAndGated(t *testing.T) {
	clock := sched.NewManual(epoch)
	var changes []State
	m := newTestMachine(clock, &changes)
	open := false
	m.StartIdleLoop(func() bool { return !open })
	m.StartIdleLoop(nil)

	clock.Advance(3500 * time.Millisecond)
	if len(changes) != 1 || changes[0] != Blink {
		t.Fatalf("changes = %v, want one blink", changes)
	}
	clock.Advance(time.Second)
	if m.State() != Idle {
		t.Fatalf("blink did not revert")
	}

	changes = nil
	open = true
	clock.Advance(5 * time.Minute)
	if len(changes) != 0 {
		t.Fatalf("blinked while gated: %v", changes)
	}

	m.Stop()
	if clock.Pending() != 0 {
		t.Fatalf("Stop left %d timers", clock.Pending())
	}
}
