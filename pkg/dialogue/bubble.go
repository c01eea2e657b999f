// Package dialogue owns the companion's speech bubble and decides when the
// companion may speak.
package dialogue

import (
	"math/rand"
	"time"

	"github.com/b/ratrak/pkg/sched"
)

// Reason identifies what prompted a dialogue attempt.
type Reason string

const (
	Idle   Reason = "idle"
	Scroll Reason = "scroll"
	Click  Reason = "click"
	Open   Reason = "open"
)

// Options configures a Bubble.
type Options struct {
	Clock sched.Clock
	Rand  *rand.Rand

	Quotes   []string
	Cooldown sched.Range
	Chances  map[string]float64
	Duration time.Duration

	// Suppressed is a hard gate evaluated before cooldown and chance.
	Suppressed func(Reason) bool
	// OnShow runs after a line becomes visible; OnHide after it hides.
	OnShow func(text string)
	OnHide func()
}

// Bubble is the single speech bubble. At most one line is visible and at
// most one hide timer is pending.
type Bubble struct {
	clock    sched.Clock
	rng      *rand.Rand
	quotes   []string
	cooldown sched.Range
	chances  map[Reason]float64
	duration time.Duration

	suppressed func(Reason) bool
	onShow     func(string)
	onHide     func()

	text      string
	visible   bool
	lastShown time.Time
	hide      sched.Timer
}

// New creates a hidden bubble.
func New(opts Options) *Bubble {
	chances := make(map[Reason]float64, len(opts.Chances))
	for k, v := range opts.Chances {
		chances[Reason(k)] = v
	}
	quotes := make([]string, len(opts.Quotes))
	copy(quotes, opts.Quotes)
	return &Bubble{
		clock:      opts.Clock,
		rng:        opts.Rand,
		quotes:     quotes,
		cooldown:   opts.Cooldown,
		chances:    chances,
		duration:   opts.Duration,
		suppressed: opts.Suppressed,
		onShow:     opts.OnShow,
		onHide:     opts.OnHide,
	}
}

// MaybeSay shows a random quote if the context allows it, the cooldown
// has passed and the reason's chance roll succeeds. It reports whether a
// line was shown. A reason absent from the chance table never speaks.
func (b *Bubble) MaybeSay(r Reason) bool {
	if b.suppressed != nil && b.suppressed(r) {
		return false
	}
	if !b.cooledDown() {
		return false
	}
	p, ok := b.chances[r]
	if !ok || b.rng.Float64() >= p {
		return false
	}
	if len(b.quotes) == 0 {
		return false
	}
	b.Show(Pick(b.rng, b.quotes), b.duration)
	return true
}

// cooledDown compares the time since the last line against a freshly
// rolled cooldown window.
func (b *Bubble) cooledDown() bool {
	if b.lastShown.IsZero() {
		return true
	}
	return b.clock.Now().Sub(b.lastShown) > b.cooldown.Roll(b.rng)
}

// Show displays text for d, bypassing every gate. A previous hide timer
// is replaced.
func (b *Bubble) Show(text string, d time.Duration) {
	b.lastShown = b.clock.Now()
	b.text = text
	b.visible = true

	b.hide = sched.Stop(b.hide)
	b.hide = b.clock.AfterFunc(d, func() {
		b.hide = nil
		b.Hide()
	})

	if b.onShow != nil {
		b.onShow(text)
	}
}

// Hide hides the bubble now and cancels the pending hide.
func (b *Bubble) Hide() {
	b.hide = sched.Stop(b.hide)
	if !b.visible {
		return
	}
	b.visible = false
	if b.onHide != nil {
		b.onHide()
	}
}

// Stop cancels the pending hide timer without changing visibility.
func (b *Bubble) Stop() {
	b.hide = sched.Stop(b.hide)
}

// Visible reports whether a line is showing.
func (b *Bubble) Visible() bool { return b.visible }

// Text returns the last shown line.
func (b *Bubble) Text() string { return b.text }

// LastShown returns when a line was last shown, or the zero time.
func (b *Bubble) LastShown() time.Time { return b.lastShown }

// Pick returns a uniformly random element of lines, or "" when empty.
func Pick(rng *rand.Rand, lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[rng.Intn(len(lines))]
}
