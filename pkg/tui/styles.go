package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/b/ratrak/pkg/colors"
	"github.com/b/ratrak/pkg/content"
	"github.com/b/ratrak/pkg/sprite"
)

var (
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	titleStyle   = lipgloss.NewStyle().Bold(true)
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	bodyStyle    = lipgloss.NewStyle()
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("109")).Italic(true)
	linkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Underline(true)
	plainStyle   = lipgloss.NewStyle()
)

var stateColors = map[sprite.State]lipgloss.Color{
	sprite.Idle:  lipgloss.Color("252"),
	sprite.Blink: lipgloss.Color("117"),
	sprite.Move:  lipgloss.Color("150"),
	sprite.Work:  lipgloss.Color("214"),
}

// theme is the companion chrome, derived from the configured accent.
type theme struct {
	backdrop     lipgloss.Style
	drawer       lipgloss.Style
	drawerHead   lipgloss.Style
	drawerActive lipgloss.Style
	bubble       lipgloss.Style
	footer       lipgloss.Style
	badge        lipgloss.Style
	glow         lipgloss.Color
}

func newTheme(p colors.Palette) theme {
	drawer := lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.DrawerFg)).
		Background(lipgloss.Color(p.DrawerBg))
	return theme{
		backdrop:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.Backdrop)),
		drawer:       drawer,
		drawerHead:   drawer.Bold(true).Foreground(lipgloss.Color(p.DrawerHead)),
		drawerActive: drawer.Foreground(lipgloss.Color(p.Active)),
		bubble:       lipgloss.NewStyle().Foreground(lipgloss.Color(p.Bubble)),
		footer:       lipgloss.NewStyle().Foreground(lipgloss.Color(p.Footer)),
		badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.BadgeFg)).
			Background(lipgloss.Color(p.Accent)).
			Bold(true),
		glow: lipgloss.Color(p.Glow),
	}
}

func lineStyle(k content.Kind) lipgloss.Style {
	switch k {
	case content.Heading:
		return headingStyle
	case content.Title:
		return titleStyle
	case content.Tag:
		return tagStyle
	case content.Body:
		return bodyStyle
	case content.Meta:
		return metaStyle
	case content.LinkLine:
		return linkStyle
	}
	return plainStyle
}

func (t theme) sprite(state sprite.State, glow bool) lipgloss.Style {
	if glow {
		return lipgloss.NewStyle().Bold(true).Foreground(t.glow)
	}
	c, ok := stateColors[state]
	if !ok {
		c = stateColors[sprite.Idle]
	}
	return lipgloss.NewStyle().Foreground(c)
}
