package tui

import (
	"math"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/b/ratrak/pkg/companion"
	"github.com/b/ratrak/pkg/content"
	"github.com/b/ratrak/pkg/sections"
)

const (
	drawerCols = 30
	bubbleMax  = 28
)

// box is a rectangle in terminal cells.
type box struct{ col, row, w, h int }

func (b box) contains(x, y int) bool {
	return x >= b.col && x < b.col+b.w && y >= b.row && y < b.row+b.h
}

type navItem struct {
	row    int
	key    string
	target string
	label  string
}

type geometry struct {
	sprite box
	drawer box
	bubble box
	items  []navItem
}

func (g geometry) itemAt(row int) string {
	for _, it := range g.items {
		if it.row == row {
			return it.target
		}
	}
	return ""
}

func (m *Model) cellSize() (w, h float64) {
	w, h = m.cfg.Terminal.CellWidth, m.cfg.Terminal.CellHeight
	if w <= 0 {
		w = 8
	}
	if h <= 0 {
		h = 16
	}
	return w, h
}

// geometry lays out the companion's elements for the current view.
func (m *Model) geometry() geometry {
	var g geometry
	rows := m.pageRows()
	cw, ch := m.cellSize()

	dw := drawerCols
	if m.view.Compact || dw > m.width {
		dw = m.width
	}
	g.drawer = box{col: m.width - dw, row: 0, w: dw, h: rows}

	switch m.view.Placement.Mode {
	case companion.Floating:
		g.sprite = box{
			col: int(math.Round(m.view.Placement.X / cw)),
			row: int(math.Round(m.view.Placement.Y / ch)),
			w:   spriteCols,
			h:   spriteRows,
		}
	default:
		col := m.width - spriteCols - 2
		if m.view.Shifted {
			col = g.drawer.col - spriteCols - 2
		}
		g.sprite = box{col: col, row: rows - spriteRows - 1, w: spriteCols, h: spriteRows}
	}
	if m.view.Bob && g.sprite.row > 0 {
		g.sprite.row--
	}

	if m.view.Bubble.Visible {
		lines := bubbleLines(m.view.Bubble.Text)
		w := runewidth.StringWidth(lines[0])
		b := box{col: g.sprite.col + g.sprite.w - w, row: g.sprite.row - len(lines), w: w, h: len(lines)}
		if b.row < 0 {
			b.row = g.sprite.row + g.sprite.h
		}
		if b.col < 0 {
			b.col = 0
		}
		g.bubble = b
	}

	row := 2
	for _, sc := range m.shortcuts() {
		g.items = append(g.items, navItem{row: row, key: sc.key, target: sc.target, label: sc.label})
		row++
	}
	return g
}

type shortcut struct{ key, target, label string }

// shortcuts lists configured shortcuts in document order of their
// target sections; targets without a section sort last.
func (m *Model) shortcuts() []shortcut {
	order := map[string]int{}
	for i, id := range m.catalog.IDs() {
		order[id] = i
	}
	var out []shortcut
	for k, target := range m.cfg.Shortcuts {
		label := target
		if s, ok := m.catalog.Section(target); ok && s.Title != "" {
			label = s.Title
		}
		out = append(out, shortcut{key: k, target: target, label: label})
	}
	sort.Slice(out, func(i, j int) bool {
		oi, iok := order[out[i].target]
		oj, jok := order[out[j].target]
		if iok != jok {
			return iok
		}
		if oi != oj {
			return oi < oj
		}
		return out[i].key < out[j].key
	})
	return out
}

// bubbleLines boxes text in a rounded frame, wrapped to bubbleMax.
func bubbleLines(text string) []string {
	body := content.Wrap(text, bubbleMax)
	w := 0
	for _, l := range body {
		if lw := runewidth.StringWidth(l); lw > w {
			w = lw
		}
	}
	lines := []string{"╭" + strings.Repeat("─", w+2) + "╮"}
	for _, l := range body {
		lines = append(lines, "│ "+runewidth.FillRight(l, w)+" │")
	}
	return append(lines, "╰"+strings.Repeat("─", w+2)+"╯")
}

type element struct {
	m  *Model
	id string
}

func (e element) Rect() companion.Rect {
	g := e.m.geometry()
	var b box
	switch e.id {
	case ElementActivator, ElementSprite:
		b = g.sprite
	case ElementDrawer:
		b = g.drawer
	case ElementBubble, ElementBubbleText:
		b = g.bubble
	case ElementBackdrop:
		b = box{w: e.m.width, h: e.m.pageRows()}
	}
	cw, ch := e.m.cellSize()
	return companion.Rect{X: float64(b.col) * cw, Y: float64(b.row) * ch, W: float64(b.w) * cw, H: float64(b.h) * ch}
}

// Lookup implements companion.Host.
func (m *Model) Lookup(id string) (companion.Element, bool) {
	if !pageElements[id] {
		return nil, false
	}
	return element{m: m, id: id}, true
}

// Viewport implements companion.Host. It is the page area in pixels.
func (m *Model) Viewport() companion.Size {
	cw, ch := m.cellSize()
	return companion.Size{W: float64(m.width) * cw, H: float64(m.pageRows()) * ch}
}

// Sections implements companion.Host: document anchors shifted by the
// scroll offset.
func (m *Model) Sections() []sections.Region {
	_, ch := m.cellSize()
	out := make([]sections.Region, len(m.doc.Anchors))
	for i, a := range m.doc.Anchors {
		out[i] = sections.Region{
			ID:     a.ID,
			Tag:    a.Tag,
			Top:    float64(a.Start-m.page.YOffset) * ch,
			Bottom: float64(a.End-m.page.YOffset) * ch,
		}
	}
	return out
}

// Navigate implements companion.Host by scrolling the section to the top.
func (m *Model) Navigate(target string) {
	a, ok := m.doc.Anchor(target)
	if !ok {
		m.log.Printf("navigate: unknown section %q", target)
		return
	}
	before := m.page.YOffset
	m.page.SetYOffset(a.Start)
	if m.page.YOffset != before {
		m.scrolled = true
	}
}

// Listen implements companion.Host.
func (m *Model) Listen(h companion.Handler) func() {
	m.handler = h
	return func() {
		if m.handler == h {
			m.handler = nil
		}
	}
}
