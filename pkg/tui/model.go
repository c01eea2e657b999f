// Package tui hosts the companion in a terminal. Model is a bubbletea
// model that renders the content page, implements companion.Host and
// runs every companion timer on the update loop.
package tui

import (
	"io"
	"log"
	"math/rand"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/b/ratrak/pkg/arcade"
	"github.com/b/ratrak/pkg/colors"
	"github.com/b/ratrak/pkg/companion"
	"github.com/b/ratrak/pkg/config"
	"github.com/b/ratrak/pkg/content"
	"github.com/b/ratrak/pkg/sched"
)

// Element ids rendered by the page.
const (
	ElementActivator  = "ratrakBtn"
	ElementDrawer     = "ratrakDrawer"
	ElementBackdrop   = "ratrakBackdrop"
	ElementBubble     = "ratrakBubble"
	ElementBubbleText = "ratrakBubbleText"
	ElementSprite     = "ratrakSprite"
)

var pageElements = map[string]bool{
	ElementActivator:  true,
	ElementDrawer:     true,
	ElementBackdrop:   true,
	ElementBubble:     true,
	ElementBubbleText: true,
	ElementSprite:     true,
}

// InputMsg is input that arrives from outside the terminal, e.g. the
// control socket. Type is click, key, keyup or scroll.
type InputMsg struct {
	Type   string
	Target string
	Key    string
}

// ReloadMsg swaps the configuration. The companion is torn down and
// rebuilt; page scroll is kept.
type ReloadMsg struct {
	Config *config.Config
}

type loadedMsg struct{}

type Options struct {
	Config  *config.Config
	Catalog *content.Catalog
	Log     *log.Logger
	// Clock replaces the bubbletea scheduler, for tests.
	Clock sched.Clock
	Rand  *rand.Rand
	Sound func(companion.Cue)
	// OnView receives every published companion view.
	OnView func(companion.View)
	Width  int
	Height int
	// Light selects the light-background palette.
	Light bool
}

type Model struct {
	cfg     *config.Config
	catalog *content.Catalog
	log     *log.Logger
	opts    Options

	clock   sched.Clock
	teaSchd *Scheduler
	release *KeyRelease

	ctrl    *companion.Controller
	handler companion.Handler
	view    companion.View

	doc      content.Document
	page     viewport.Model
	help     help.Model
	keys     keyMap
	theme    theme
	width    int
	height   int
	scrolled bool
}

func New(opts Options) *Model {
	if opts.Log == nil {
		opts.Log = log.New(io.Discard, "", 0)
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.Height <= 0 {
		opts.Height = 24
	}
	m := &Model{
		cfg:     opts.Config,
		catalog: opts.Catalog,
		log:     opts.Log,
		opts:    opts,
		clock:   opts.Clock,
		help:    help.New(),
		width:   opts.Width,
		height:  opts.Height,
	}
	if m.clock == nil {
		m.teaSchd = NewScheduler()
		m.clock = m.teaSchd
	}
	m.page = viewport.New(m.width, m.pageRows())
	m.relayout()
	m.start()
	return m
}

// start builds a controller for the current config.
func (m *Model) start() {
	m.keys = newKeyMap(m.cfg.Game.ToggleKey)
	m.theme = newTheme(colors.Derive(m.cfg.Theme.Accent, !m.opts.Light))
	m.release = NewKeyRelease(m.clock, m.cfg.Terminal.KeyRelease, func(key string) {
		if m.handler != nil {
			m.handler.KeyUp(key)
		}
	})
	rng := m.opts.Rand
	m.ctrl = companion.New(m, m.cfg, companion.Options{
		Clock: m.clock,
		Rand:  rng,
		Log:   m.log,
		Sound: m.opts.Sound,
	})
	m.view = m.ctrl.Snapshot()
	m.ctrl.Subscribe(func(v companion.View) {
		m.view = v
		if m.opts.OnView != nil {
			m.opts.OnView(v)
		}
	})
}

func (m *Model) stop() {
	m.release.Reset()
	m.ctrl.Close()
	m.handler = nil
}

// Controller returns the running companion.
func (m *Model) Controller() *companion.Controller { return m.ctrl }

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.drain(), func() tea.Msg { return loadedMsg{} })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case timerMsg:
		if m.teaSchd != nil {
			m.teaSchd.fire(msg)
		}

	case loadedMsg:
		if m.handler != nil {
			m.handler.Loaded()
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.page.Width, m.page.Height = m.width, m.pageRows()
		m.help.Width = m.width
		m.relayout()
		if m.handler != nil {
			m.handler.Resize()
		}

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.stop()
			return m, tea.Quit
		}
		cmd = m.handleKey(msg)

	case tea.MouseMsg:
		cmd = m.handleMouse(msg)

	case InputMsg:
		m.handleInput(msg)

	case ReloadMsg:
		if msg.Config != nil {
			m.log.Printf("CONFIG_RELOAD")
			m.stop()
			m.cfg = msg.Config
			m.start()
			if m.handler != nil {
				m.handler.Resize()
			}
		}
	}

	if m.scrolled {
		m.scrolled = false
		if m.handler != nil {
			m.handler.Scroll()
		}
	}
	if m.release != nil && !m.view.Game {
		m.release.Reset()
	}
	return m, tea.Batch(cmd, m.drain())
}

func (m *Model) drain() tea.Cmd {
	if m.teaSchd == nil {
		return nil
	}
	return m.teaSchd.Drain()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	name := msg.String()
	if m.handler == nil {
		return m.scrollPage(msg)
	}
	if m.view.Game {
		if k, ok := arcade.MovementKey(name); ok {
			m.release.Press(string(k))
			m.handler.KeyDown(string(k))
			return nil
		}
	}
	if m.handler.KeyDown(name) {
		return nil
	}
	if key.Matches(msg, m.keys.Menu) {
		m.handler.Click(ElementActivator)
		return nil
	}
	return m.scrollPage(msg)
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		return m.scrollPage(msg)
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft || m.handler == nil {
		return nil
	}
	g := m.geometry()
	switch {
	case g.sprite.contains(msg.X, msg.Y):
		m.handler.Click(ElementActivator)
	case m.view.DrawerOpen && g.drawer.contains(msg.X, msg.Y):
		m.ctrl.Select(g.itemAt(msg.Y))
	case m.view.DrawerOpen:
		m.handler.Click(ElementBackdrop)
	}
	return nil
}

func (m *Model) handleInput(in InputMsg) {
	if m.handler == nil {
		return
	}
	switch in.Type {
	case "click":
		m.handler.Click(in.Target)
	case "key":
		if k, ok := arcade.MovementKey(in.Key); ok && m.view.Game {
			m.release.Press(string(k))
			m.handler.KeyDown(string(k))
			return
		}
		m.handler.KeyDown(in.Key)
	case "keyup":
		m.handler.KeyUp(in.Key)
	case "scroll":
		m.scrolled = true
	}
}

// scrollPage lets the viewport handle msg and flags a scroll when the
// offset moved.
func (m *Model) scrollPage(msg tea.Msg) tea.Cmd {
	before := m.page.YOffset
	var cmd tea.Cmd
	m.page, cmd = m.page.Update(msg)
	if m.page.YOffset != before {
		m.scrolled = true
	}
	return cmd
}

func (m *Model) pageRows() int {
	if m.height < 2 {
		return 1
	}
	return m.height - 1
}

func (m *Model) relayout() {
	m.doc = m.catalog.Layout(m.width)
	y := m.page.YOffset
	m.page.SetContent(joinLines(m.doc.Texts()))
	m.page.SetYOffset(y)
}
