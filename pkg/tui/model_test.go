package tui

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b/ratrak/pkg/companion"
	"github.com/b/ratrak/pkg/config"
	"github.com/b/ratrak/pkg/content"
	"github.com/b/ratrak/pkg/sched"
	"github.com/b/ratrak/pkg/sprite"
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

type harness struct {
	m     *Model
	clock *sched.Manual
	views []companion.View
}

func newHarness(t *testing.T, mutate func(*config.Config)) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.Chances = map[string]float64{}
	cfg.Greeting.Chance = 0
	cfg.Game.BumpChance = 0
	if mutate != nil {
		mutate(cfg)
	}
	cat, err := content.Default()
	require.NoError(t, err)

	h := &harness{clock: sched.NewManual(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))}
	h.m = New(Options{
		Config:  cfg,
		Catalog: cat,
		Clock:   h.clock,
		Rand:    rand.New(rand.NewSource(1)),
		OnView:  func(v companion.View) { h.views = append(h.views, v) },
		Width:   100,
		Height:  40,
	})
	t.Cleanup(func() { h.m.stop() })
	return h
}

func (h *harness) send(msg tea.Msg) {
	h.m.Update(msg)
}

func TestModelHostsCompanion(t *testing.T) {
	h := newHarness(t, nil)
	require.True(t, h.m.Controller().Active())

	size := h.m.Viewport()
	assert.Equal(t, 800.0, size.W)
	assert.Equal(t, 39*16.0, size.H)

	el, ok := h.m.Lookup(ElementActivator)
	require.True(t, ok)
	r := el.Rect()
	assert.Equal(t, companion.Rect{X: 92 * 8, Y: 35 * 16, W: 48, H: 48}, r)

	_, ok = h.m.Lookup("nope")
	assert.False(t, ok)
}

func TestModelGreetingOnLoad(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Greeting.Chance = 1 })
	h.send(loadedMsg{})
	assert.True(t, h.m.view.Bubble.Visible)
	assert.Contains(t, plain(h.m.View()), "terrain stable")
}

func TestModelClickOpensDrawer(t *testing.T) {
	h := newHarness(t, nil)
	g := h.m.geometry()
	h.send(tea.MouseMsg{X: g.sprite.col + 1, Y: g.sprite.row + 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	require.True(t, h.m.view.DrawerOpen)
	assert.Equal(t, sprite.Work, h.m.view.State)

	out := plain(h.m.View())
	assert.Contains(t, out, "[p] Projects")
	assert.Contains(t, out, "Close Ratrak menu")

	h.send(tea.MouseMsg{X: 1, Y: 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.False(t, h.m.view.DrawerOpen, "backdrop click closes")
}

func TestModelShortcutScrollsToSection(t *testing.T) {
	h := newHarness(t, nil)
	h.send(runes("m"))
	require.True(t, h.m.view.DrawerOpen)

	h.send(runes("p"))
	a, ok := h.m.doc.Anchor("projects")
	require.True(t, ok)
	assert.Equal(t, a.Start, h.m.page.YOffset)
	assert.NotEmpty(t, h.m.view.Section)

	regions := h.m.Sections()
	for _, r := range regions {
		if r.ID == "projects" {
			assert.Equal(t, 0.0, r.Top)
		}
	}
}

func TestModelDrawerItemClick(t *testing.T) {
	h := newHarness(t, nil)
	h.send(runes("m"))
	require.True(t, h.m.view.DrawerOpen)

	g := h.m.geometry()
	var item navItem
	for _, it := range g.items {
		if it.target == "projects" {
			item = it
		}
	}
	require.Equal(t, "projects", item.target)
	click := tea.MouseMsg{X: g.drawer.col + 3, Y: item.row, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}

	h.send(runes("g"))
	require.True(t, h.m.view.Game)
	h.send(click)
	assert.Equal(t, 0, h.m.page.YOffset, "drawer items are inert in game mode")

	h.send(runes("g"))
	require.False(t, h.m.view.Game)
	h.send(click)
	a, ok := h.m.doc.Anchor("projects")
	require.True(t, ok)
	assert.Equal(t, a.Start, h.m.page.YOffset)
}

func TestModelGameKeysAndRelease(t *testing.T) {
	h := newHarness(t, nil)
	h.send(runes("g"))
	require.True(t, h.m.view.Game)
	start := h.m.Controller().Position()

	h.send(tea.KeyMsg{Type: tea.KeyLeft})
	h.clock.Advance(100 * time.Millisecond)
	moved := h.m.Controller().Position()
	assert.Less(t, moved.X, start.X)
	assert.Equal(t, start.Y, moved.Y)
	assert.Equal(t, 0, h.m.page.YOffset, "arrow keys do not scroll the page in game mode")

	h.clock.Advance(550 * time.Millisecond)
	stopped := h.m.Controller().Position()
	h.clock.Advance(200 * time.Millisecond)
	assert.Equal(t, stopped, h.m.Controller().Position(), "synthesized key-up stops movement")

	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, h.m.view.Game)
	assert.Equal(t, companion.Placement{Mode: companion.Docked}, h.m.view.Placement)
}

func TestModelArrowsScrollOutsideGame(t *testing.T) {
	h := newHarness(t, nil)
	h.send(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, h.m.page.YOffset)
}

func TestModelInertWhenElementMissing(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Elements.Bubble = "speechBubble" })
	assert.False(t, h.m.Controller().Active())
	assert.Nil(t, h.m.handler)

	h.send(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, h.m.page.YOffset)
	assert.NotContains(t, plain(h.m.View()), "◎══◎")
}

func TestModelReload(t *testing.T) {
	h := newHarness(t, nil)
	old := h.m.Controller()

	cfg := config.Default()
	cfg.Game.ToggleKey = "x"
	h.send(ReloadMsg{Config: cfg})
	assert.False(t, old.Active())
	require.True(t, h.m.Controller().Active())

	h.send(runes("x"))
	assert.True(t, h.m.view.Game)
}

func TestModelRemoteInput(t *testing.T) {
	h := newHarness(t, nil)
	h.send(InputMsg{Type: "click", Target: ElementActivator})
	assert.True(t, h.m.view.DrawerOpen)
	h.send(InputMsg{Type: "key", Key: "esc"})
	assert.False(t, h.m.view.DrawerOpen)
	require.NotEmpty(t, h.views)
	assert.False(t, h.views[len(h.views)-1].DrawerOpen)
}

func TestModelResizeReportsCompact(t *testing.T) {
	h := newHarness(t, nil)
	h.send(tea.WindowSizeMsg{Width: 60, Height: 30})
	assert.True(t, h.m.view.Compact)
	assert.True(t, strings.Count(h.m.View(), "\n") >= 29)
}
