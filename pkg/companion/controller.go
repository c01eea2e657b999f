// Package companion is the widget controller. It owns every piece of
// mutable companion state: the sprite machine, the dialogue bubble, the
// drawer, the ambient loops and game mode. All methods must be called
// from one goroutine, the one that delivers Host events and fires the
// Clock's timers.
package companion

import (
	"io"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/b/ratrak/pkg/ambient"
	"github.com/b/ratrak/pkg/arcade"
	"github.com/b/ratrak/pkg/config"
	"github.com/b/ratrak/pkg/dialogue"
	"github.com/b/ratrak/pkg/perf"
	"github.com/b/ratrak/pkg/sched"
	"github.com/b/ratrak/pkg/sections"
	"github.com/b/ratrak/pkg/sprite"
)

// Options carries the controller's collaborators. Clock is required; a
// nil Rand gets a source seeded from config (or the time) and a nil Log
// discards.
type Options struct {
	Clock sched.Clock
	Rand  *rand.Rand
	Log   *log.Logger
	// Sound is called for audible cues; nil means silent.
	Sound func(Cue)
}

// Controller drives the companion. A Controller whose elements were not
// found is inert: every method is a no-op.
type Controller struct {
	host  Host
	cfg   *config.Config
	clock sched.Clock
	rng   *rand.Rand
	log   *log.Logger
	sound func(Cue)

	ok     bool
	closed bool
	cancel func()

	activator Element

	sprite  *sprite.Machine
	bubble  *dialogue.Bubble
	engine  *arcade.Engine
	tracker sections.Tracker
	glow    *ambient.Loop
	bob     *ambient.Loop
	chatter *ambient.Loop

	drawerOpen bool
	compact    bool
	glowOn     bool
	glowTimer  sched.Timer
	bobOn      bool
	bobTimer   sched.Timer
	scrollLock sched.Timer
	greeted    bool

	game       bool
	frame      sched.Timer
	frameStats *perf.Frames
	placement  Placement
	snapshot   Placement

	seq    uint64
	subs   map[int]func(View)
	nextID int
}

// New builds a controller for host. Missing elements produce an inert
// controller and a logged warning, never an error.
func New(host Host, cfg *config.Config, opts Options) *Controller {
	if opts.Log == nil {
		opts.Log = log.New(io.Discard, "", 0)
	}
	c := &Controller{
		host:       host,
		cfg:        cfg,
		log:        opts.Log,
		frameStats: &perf.Frames{Name: "frame_step", Every: 300},
	}

	ids := cfg.Elements
	var missing []string
	for _, id := range []string{ids.Activator, ids.Drawer, ids.Backdrop, ids.Bubble, ids.BubbleText, ids.Sprite} {
		if _, found := host.Lookup(id); !found {
			missing = append(missing, id)
		}
	}
	if opts.Clock == nil {
		missing = append(missing, "clock")
	}
	if len(missing) > 0 {
		c.log.Printf("[ratrak] missing %s, not initializing", strings.Join(missing, ", "))
		return c
	}
	c.activator, _ = host.Lookup(ids.Activator)

	if opts.Rand == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		opts.Rand = rand.New(rand.NewSource(seed))
	}
	c.clock, c.rng, c.sound = opts.Clock, opts.Rand, opts.Sound
	c.ok = true
	c.subs = make(map[int]func(View))
	c.placement = Placement{Mode: Docked}

	c.sprite = sprite.New(sprite.Options{
		Clock:     c.clock,
		Rand:      c.rng,
		Assets:    cfg.Sprites,
		IdleBlink: cfg.Ambient.IdleBlink,
		BlinkFor:  cfg.Ambient.BlinkFor,
		OnChange:  func(sprite.State, string) { c.publish() },
	})
	c.bubble = dialogue.New(dialogue.Options{
		Clock:      c.clock,
		Rand:       c.rng,
		Quotes:     cfg.Quotes,
		Cooldown:   cfg.Bubble.Cooldown,
		Chances:    cfg.Chances,
		Duration:   cfg.Bubble.Duration,
		Suppressed: c.suppressed,
		OnShow:     c.onBubbleShow,
		OnHide:     c.publish,
	})
	c.engine = arcade.New(arcade.Config{
		Margin:       cfg.Game.Margin,
		Speed:        cfg.Game.Speed,
		BumpNudge:    cfg.Game.BumpNudge,
		BumpCooldown: cfg.Game.BumpCooldown,
	})

	calm := func() bool { return !c.drawerOpen && !c.game }
	c.glow = ambient.New("idle-glow", cfg.Ambient.IdleGlow, c.clock, c.rng,
		func() bool { return calm() && c.sprite.State() == sprite.Idle },
		func() { c.setGlow(true) })
	c.bob = ambient.New("attention-bob", cfg.Ambient.AttentionBob, c.clock, c.rng,
		calm,
		func() { c.setBob(true) })
	c.chatter = ambient.New("idle-chatter", ambient.Spec{Period: cfg.Ambient.IdleChatter, Chance: 1}, c.clock, c.rng,
		func() bool { return !c.game },
		func() { c.bubble.MaybeSay(dialogue.Idle) })

	c.compact = c.isCompact()
	c.setDrawerOpen(false)
	c.sprite.SetState(sprite.Idle, sprite.Hold{})
	c.sprite.StartIdleLoop(calm)
	c.glow.Start()
	c.bob.Start()
	c.chatter.Start()

	c.cancel = host.Listen(c)
	c.log.Printf("COMPANION_INIT: elements ok, %d quotes, viewport %.0fx%.0f", len(cfg.Quotes), host.Viewport().W, host.Viewport().H)
	return c
}

// Active reports whether the controller initialized and is not closed.
func (c *Controller) Active() bool { return c.ok && !c.closed }

// Close cancels every timer, loop and subscription. Safe to call more
// than once and on an inert controller.
func (c *Controller) Close() {
	if !c.Active() {
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.stopFrames()
	c.sprite.Stop()
	c.bubble.Stop()
	c.glow.Stop()
	c.bob.Stop()
	c.chatter.Stop()
	c.glowTimer = sched.Stop(c.glowTimer)
	c.bobTimer = sched.Stop(c.bobTimer)
	c.scrollLock = sched.Stop(c.scrollLock)
	c.subs = nil
	c.log.Printf("COMPANION_CLOSE")
}

// State returns the current sprite state.
func (c *Controller) State() sprite.State {
	if !c.ok {
		return sprite.Idle
	}
	return c.sprite.State()
}

// SetState forwards to the sprite machine.
func (c *Controller) SetState(name sprite.State, hold sprite.Hold) {
	if !c.Active() {
		return
	}
	c.sprite.SetState(name, hold)
}

// Pulse forwards to the sprite machine.
func (c *Controller) Pulse(name sprite.State, d time.Duration) {
	if !c.Active() {
		return
	}
	c.sprite.Pulse(name, d)
}

// MaybeSay runs a gated dialogue attempt.
func (c *Controller) MaybeSay(r dialogue.Reason) bool {
	if !c.Active() {
		return false
	}
	return c.bubble.MaybeSay(r)
}

// Say shows text right away, bypassing every dialogue gate.
func (c *Controller) Say(text string, d time.Duration) {
	if !c.Active() {
		return
	}
	c.bubble.Show(text, d)
}

// Snapshot returns the current view.
func (c *Controller) Snapshot() View {
	if !c.ok {
		return View{State: sprite.Idle, Placement: Placement{Mode: Docked}, DrawerHidden: true, BackdropHidden: true}
	}
	v := View{
		Seq:        c.seq,
		State:      c.sprite.State(),
		Asset:      c.sprite.Asset(),
		Label:      c.label(),
		DrawerOpen: c.drawerOpen,
		Shifted:    c.drawerOpen && !c.compact,
		Compact:    c.compact,
		Bubble:     BubbleView{Visible: c.bubble.Visible(), Text: c.bubble.Text()},
		Glow:       c.glowOn,
		Bob:        c.bobOn,
		Game:       c.game,
		Placement:  c.placement,
	}
	v.DrawerHidden, v.BackdropHidden = !c.drawerOpen, !c.drawerOpen
	if c.game {
		v.Facing = c.engine.Facing()
	}
	v.Section, _ = c.tracker.Current()
	return v
}

// Subscribe calls fn with every published view until the returned func
// is called.
func (c *Controller) Subscribe(fn func(View)) (unsubscribe func()) {
	if !c.Active() {
		return func() {}
	}
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		if c.subs != nil {
			delete(c.subs, id)
		}
	}
}

func (c *Controller) publish() {
	if !c.ok || c.closed {
		return
	}
	c.seq++
	if len(c.subs) == 0 {
		return
	}
	v := c.Snapshot()
	for _, fn := range c.subs {
		fn(v)
	}
}

func (c *Controller) label() string {
	if c.drawerOpen {
		return c.cfg.Drawer.CloseLabel
	}
	return c.cfg.Drawer.OpenLabel
}

func (c *Controller) isCompact() bool {
	return c.host.Viewport().W < c.cfg.Drawer.CompactWidth
}

// suppressed is the hard gate in front of the dialogue cooldown and
// chance table.
func (c *Controller) suppressed(r dialogue.Reason) bool {
	if c.drawerOpen && c.compact {
		return true
	}
	quiet := r == dialogue.Scroll || r == dialogue.Idle
	return quiet && (c.drawerOpen || c.game)
}

func (c *Controller) onBubbleShow(string) {
	if c.drawerOpen {
		c.sprite.Pulse(sprite.Blink, c.cfg.Bubble.BlinkOpen)
	} else {
		c.sprite.Pulse(sprite.Blink, c.cfg.Bubble.Blink)
	}
	c.cue(CueBubble)
	c.publish()
}

func (c *Controller) cue(q Cue) {
	if c.sound != nil {
		c.sound(q)
	}
}

func (c *Controller) setGlow(on bool) {
	c.glowOn = on
	c.glowTimer = sched.Stop(c.glowTimer)
	if on {
		c.glowTimer = c.clock.AfterFunc(c.cfg.Ambient.GlowFor, func() {
			c.glowTimer = nil
			c.setGlow(false)
		})
	}
	c.publish()
}

func (c *Controller) setBob(on bool) {
	c.bobOn = on
	c.bobTimer = sched.Stop(c.bobTimer)
	if on {
		c.bobTimer = c.clock.AfterFunc(c.cfg.Ambient.BobFor, func() {
			c.bobTimer = nil
			c.setBob(false)
		})
	}
	c.publish()
}
