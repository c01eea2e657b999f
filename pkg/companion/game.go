package companion

import (
	"time"

	"github.com/b/ratrak/pkg/arcade"
	"github.com/b/ratrak/pkg/dialogue"
	"github.com/b/ratrak/pkg/perf"
	"github.com/b/ratrak/pkg/sched"
	"github.com/b/ratrak/pkg/sprite"
)

// Game reports whether game mode is active.
func (c *Controller) Game() bool { return c.game }

// Position returns the game-mode position of the avatar's top-left
// corner. It is meaningless outside game mode.
func (c *Controller) Position() arcade.Vec {
	if !c.ok {
		return arcade.Vec{}
	}
	return c.engine.Pos()
}

// SetGame enters or leaves game mode. Entering snapshots the current
// placement and floats the avatar where it stands; leaving restores the
// snapshot exactly.
func (c *Controller) SetGame(on bool) {
	if !c.Active() || on == c.game {
		return
	}
	if on {
		r := c.activator.Rect()
		c.snapshot = c.placement
		c.game = true
		c.engine.Reset(arcade.Vec{X: r.X, Y: r.Y}, c.host.Viewport(), c.spriteSize())
		p := c.engine.Pos()
		c.placement = Placement{Mode: Floating, X: p.X, Y: p.Y}
		c.startFrames()
		c.log.Printf("GAME_ON: at %.0f,%.0f", p.X, p.Y)
	} else {
		c.stopFrames()
		c.engine.ClearKeys()
		c.game = false
		c.placement = c.snapshot
		c.log.Printf("GAME_OFF")
	}
	c.publish()
}

// MoveTo requests an explicit game position with the same clamp and
// bump rules as a frame step. Ignored outside game mode.
func (c *Controller) MoveTo(p arcade.Vec) arcade.Result {
	if !c.Active() || !c.game {
		return arcade.Result{}
	}
	res := c.engine.MoveTo(c.clock.Now(), p, c.host.Viewport(), c.spriteSize())
	c.applyStep(res)
	return res
}

func (c *Controller) spriteSize() arcade.Size {
	r := c.activator.Rect()
	return arcade.Size{W: r.W, H: r.H}
}

// startFrames arms the frame task. The task re-arms itself once per
// frame and only while game mode is on; a non-nil c.frame is the
// running flag.
func (c *Controller) startFrames() {
	if c.frame != nil {
		return
	}
	c.frame = c.clock.AfterFunc(c.cfg.Game.FrameInterval(), c.frameTick)
}

func (c *Controller) stopFrames() {
	c.frame = sched.Stop(c.frame)
}

func (c *Controller) frameTick() {
	c.frame = nil
	if !c.game || c.closed {
		return
	}
	start := time.Now()
	if c.engine.HeldCount() > 0 {
		c.applyStep(c.engine.Step(c.clock.Now(), c.host.Viewport(), c.spriteSize()))
	}
	if perf.IsEnabled() {
		c.frameStats.Add(time.Since(start))
	}
	if c.game && !c.closed {
		c.frame = c.clock.AfterFunc(c.cfg.Game.FrameInterval(), c.frameTick)
	}
}

func (c *Controller) applyStep(res arcade.Result) {
	c.placement.X, c.placement.Y = res.Pos.X, res.Pos.Y
	if res.Moved {
		c.sprite.Pulse(sprite.Move, c.cfg.Game.MovePulse)
	}
	if res.Bump != arcade.None {
		c.sprite.Pulse(sprite.Blink, c.cfg.Game.BumpBlink)
		c.cue(CueBump)
		c.log.Printf("BUMP: %s at %.0f,%.0f", res.Bump, res.Pos.X, res.Pos.Y)
		if len(c.cfg.Game.BumpLines) > 0 && c.rng.Float64() < c.cfg.Game.BumpChance {
			c.bubble.Show(dialogue.Pick(c.rng, c.cfg.Game.BumpLines), c.cfg.Game.BumpDuration)
		}
	}
	c.publish()
}
