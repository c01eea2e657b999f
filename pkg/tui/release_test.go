package tui

import (
	"testing"
	"time"

	"github.com/b/ratrak/pkg/sched"
)

func TestKeyReleaseAfterQuietPeriod(t *testing.T) {
	clock := sched.NewManual(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	var ups []string
	r := NewKeyRelease(clock, 550*time.Millisecond, func(k string) { ups = append(ups, k) })

	if !r.Press("right") {
		t.Fatalf("first press should be fresh")
	}
	clock.Advance(300 * time.Millisecond)
	if r.Press("right") {
		t.Fatalf("repeat reported as fresh press")
	}
	clock.Advance(500 * time.Millisecond)
	if len(ups) != 0 {
		t.Fatalf("released while repeating: %v", ups)
	}
	clock.Advance(50 * time.Millisecond)
	if len(ups) != 1 || ups[0] != "right" {
		t.Fatalf("ups = %v", ups)
	}
	if r.Held("right") {
		t.Fatalf("key still held after release")
	}
}

func TestKeyReleaseReset(t *testing.T) {
	clock := sched.NewManual(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	var ups []string
	r := NewKeyRelease(clock, 100*time.Millisecond, func(k string) { ups = append(ups, k) })
	r.Press("w")
	r.Press("a")
	r.Reset()
	clock.Advance(time.Second)
	if len(ups) != 0 || r.Held("w") {
		t.Fatalf("Reset should drop keys silently, ups = %v", ups)
	}
	if clock.Pending() != 0 {
		t.Fatalf("Reset left %d timers", clock.Pending())
	}
}
