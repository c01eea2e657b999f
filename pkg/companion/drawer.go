package companion

import (
	"github.com/b/ratrak/pkg/dialogue"
	"github.com/b/ratrak/pkg/sprite"
)

// DrawerOpen reports whether the navigation drawer is open.
func (c *Controller) DrawerOpen() bool { return c.drawerOpen }

// SetDrawerOpen opens or closes the drawer without touching the sprite.
func (c *Controller) SetDrawerOpen(open bool) {
	if !c.Active() {
		return
	}
	c.setDrawerOpen(open)
}

func (c *Controller) setDrawerOpen(open bool) {
	c.drawerOpen = open
	c.compact = c.isCompact()
	c.publish()
}

// ToggleDrawer flips the drawer, holds the sprite in work (opening) or
// idle (closing) and gives the open reason a chance to speak.
func (c *Controller) ToggleDrawer() {
	if !c.Active() {
		return
	}
	open := !c.drawerOpen
	c.setDrawerOpen(open)
	if open {
		c.sprite.SetState(sprite.Work, sprite.Hold{For: c.cfg.Drawer.ToggleHold})
		c.bubble.MaybeSay(dialogue.Open)
		c.log.Printf("DRAWER_OPEN")
		return
	}
	c.sprite.SetState(sprite.Idle, sprite.Hold{For: c.cfg.Drawer.ToggleHold})
	c.log.Printf("DRAWER_CLOSE")
}

// Escape closes the drawer, settles the sprite and leaves game mode.
func (c *Controller) Escape() {
	if !c.Active() {
		return
	}
	c.setDrawerOpen(false)
	c.sprite.SetState(sprite.Idle, sprite.Hold{})
	if c.game {
		c.SetGame(false)
	}
}
