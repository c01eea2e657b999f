package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit   key.Binding
	Menu   key.Binding
	Game   key.Binding
	Escape key.Binding
	Scroll key.Binding
}

func newKeyMap(toggle string) keyMap {
	return keyMap{
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Menu:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "menu")),
		Game:   key.NewBinding(key.WithKeys(toggle), key.WithHelp(toggle, "drive")),
		Escape: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Scroll: key.NewBinding(key.WithKeys("up", "down", "pgup", "pgdown"), key.WithHelp("↑↓", "scroll")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.Menu, k.Game, k.Escape, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
