package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/b/ratrak/pkg/arcade"
	"github.com/b/ratrak/pkg/perf"
)

func (m *Model) View() string {
	t := perf.Start("render")
	defer t.Stop()

	rows := m.pageRows()
	cv := newCanvas(m.width, rows)
	for i := 0; i < rows; i++ {
		n := m.page.YOffset + i
		if n >= len(m.doc.Lines) {
			break
		}
		line := m.doc.Lines[n]
		style := lineStyle(line.Kind)
		if m.view.DrawerOpen {
			style = m.theme.backdrop
		}
		cv.setLine(i, line.Text, style)
	}

	if m.ctrl.Active() {
		g := m.geometry()
		if m.view.DrawerOpen {
			m.drawDrawer(cv, g)
		}
		f := frame(m.view.Asset, m.view.State, m.view.Game && m.view.Facing == arcade.FacingLeft)
		cv.stamp(g.sprite.col, g.sprite.row, f[:], m.theme.sprite(m.view.State, m.view.Glow))
		if m.view.Bubble.Visible {
			cv.stamp(g.bubble.col, g.bubble.row, bubbleLines(m.view.Bubble.Text), m.theme.bubble)
		}
	}

	return cv.String() + "\n" + m.footer()
}

func (m *Model) drawDrawer(cv *canvas, g geometry) {
	d := g.drawer
	blank := strings.Repeat(" ", d.w)
	for r := 0; r < d.h; r++ {
		cv.stamp(d.col, d.row+r, []string{blank}, m.theme.drawer)
	}
	if d.w < 8 {
		return
	}
	cv.stamp(d.col+2, d.row, []string{"ratrak"}, m.theme.drawerHead)
	for _, it := range g.items {
		text := runewidth.Truncate(fmt.Sprintf("[%s] %s", it.key, it.label), d.w-4, "…")
		style := m.theme.drawer
		if it.target == m.view.Section {
			style = m.theme.drawerActive
		}
		cv.stamp(d.col+2, it.row, []string{text}, style)
	}
	hint := runewidth.Truncate(fmt.Sprintf("%s drive · esc close", m.cfg.Game.ToggleKey), d.w-4, "…")
	cv.stamp(d.col+2, d.row+d.h-2, []string{hint}, m.theme.drawer.Faint(true))
	cv.stamp(d.col+2, d.row+d.h-1, []string{m.view.Label}, m.theme.drawer.Faint(true))
}

func (m *Model) footer() string {
	left := m.help.View(m.keys)
	var right string
	if m.view.Game {
		right = m.theme.badge.Render(" DRIVE ")
	} else if m.view.Section != "" {
		right = m.theme.footer.Render(m.view.Section)
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
