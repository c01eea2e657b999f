package companion

import (
	"strings"

	"github.com/b/ratrak/pkg/arcade"
	"github.com/b/ratrak/pkg/dialogue"
	"github.com/b/ratrak/pkg/sections"
	"github.com/b/ratrak/pkg/sprite"
)

// Click handles a pointer click on an element.
func (c *Controller) Click(id string) {
	if !c.Active() {
		return
	}
	switch id {
	case c.cfg.Elements.Activator:
		if c.game {
			c.SetGame(false)
			return
		}
		c.sprite.Pulse(sprite.Work, c.cfg.Drawer.ClickPulse)
		c.bubble.MaybeSay(dialogue.Click)
		c.ToggleDrawer()
	case c.cfg.Elements.Backdrop:
		c.setDrawerOpen(false)
		c.sprite.SetState(sprite.Idle, sprite.Hold{})
	}
}

// KeyDown handles a key press and reports whether it was consumed.
func (c *Controller) KeyDown(key string) bool {
	if !c.Active() {
		return false
	}
	lower := strings.ToLower(key)
	switch {
	case lower == "esc" || lower == "escape":
		c.Escape()
		return true
	case lower == strings.ToLower(c.cfg.Game.ToggleKey):
		c.SetGame(!c.game)
		return true
	}
	if c.game {
		k, ok := arcade.MovementKey(key)
		if !ok {
			return false
		}
		c.engine.Press(k)
		return true
	}
	if !c.drawerOpen {
		return false
	}
	target, ok := c.cfg.Shortcuts[lower]
	if !ok {
		return false
	}
	c.log.Printf("SHORTCUT: %s -> %s", lower, target)
	return c.Select(target)
}

// Select navigates to a drawer entry. Entries are only reachable while
// the drawer is open and game mode is off.
func (c *Controller) Select(target string) bool {
	if !c.Active() || !c.drawerOpen || c.game || target == "" {
		return false
	}
	c.host.Navigate(target)
	return true
}

// KeyUp handles a key release. Only movement keys in game mode matter.
func (c *Controller) KeyUp(key string) {
	if !c.Active() || !c.game {
		return
	}
	if k, ok := arcade.MovementKey(key); ok {
		c.engine.Release(k)
	}
}

// Scroll updates section focus and, at most once per throttle window,
// reacts to the page moving.
func (c *Controller) Scroll() {
	if !c.Active() {
		return
	}
	reacted := c.updateSection()
	if c.scrollLock != nil {
		return
	}
	c.scrollLock = c.clock.AfterFunc(c.cfg.Scroll.Throttle, func() { c.scrollLock = nil })
	if c.game {
		return
	}
	if !c.drawerOpen && !reacted {
		c.sprite.Pulse(sprite.Move, c.cfg.Scroll.Pulse)
	}
	c.bubble.MaybeSay(dialogue.Scroll)
}

// updateSection reports whether a region change fired a reaction.
func (c *Controller) updateSection() bool {
	view := c.host.Viewport()
	r, changed := c.tracker.Update(c.host.Sections(), sections.RefLine(view.H, c.cfg.Sections.RefLine))
	if !changed {
		return false
	}
	c.log.Printf("SECTION: %s (%s)", r.ID, r.Tag)
	defer c.publish()
	if c.drawerOpen || c.game {
		return false
	}
	reaction, ok := c.cfg.Sections.Reactions[r.Tag]
	if !ok || !c.sprite.Known(sprite.State(reaction.State)) {
		return false
	}
	c.sprite.SetState(sprite.State(reaction.State), sprite.Hold{For: reaction.For})
	return true
}

// Resize recomputes the compact flag and keeps the game position inside
// the new viewport.
func (c *Controller) Resize() {
	if !c.Active() {
		return
	}
	c.compact = c.isCompact()
	if c.game {
		p := c.engine.Reclamp(c.host.Viewport(), c.spriteSize())
		c.placement.X, c.placement.Y = p.X, p.Y
	}
	c.publish()
}

// Loaded runs once when the page finishes loading: a coin flip for the
// greeting line, outside the normal dialogue gates.
func (c *Controller) Loaded() {
	if !c.Active() || c.greeted {
		return
	}
	c.greeted = true
	g := c.cfg.Greeting
	if g.Text != "" && c.rng.Float64() < g.Chance {
		c.bubble.Show(g.Text, g.Duration)
	}
}
