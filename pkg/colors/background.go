package colors

import (
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

// Mode selects how the terminal background is decided.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeAuto, ModeDark, ModeLight, "":
		return true
	}
	return false
}

// Detector decides whether the terminal background is dark. Zero
// fields use the process environment and a termenv query.
type Detector struct {
	Getenv func(string) string
	Query  func() (dark, ok bool)
}

// IsDark resolves mode. Auto tries COLORFGBG, then the terminal, then
// profile-name hints, and assumes dark when nothing answers.
func (d Detector) IsDark(mode Mode) bool {
	switch mode {
	case ModeDark:
		return true
	case ModeLight:
		return false
	}
	getenv := d.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if dark, ok := parseCOLORFGBG(getenv("COLORFGBG")); ok {
		return dark
	}
	query := d.Query
	if query == nil {
		query = queryTerminal
	}
	if dark, ok := query(); ok {
		return dark
	}
	profile := strings.ToLower(getenv("ITERM_PROFILE"))
	if strings.Contains(profile, "light") {
		return false
	}
	return true
}

// parseCOLORFGBG reads "fg;bg" (sometimes "fg;default;bg"); ANSI
// background 0-7 is dark.
func parseCOLORFGBG(v string) (dark, ok bool) {
	parts := strings.Split(v, ";")
	if len(parts) < 2 {
		return false, false
	}
	bg, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return false, false
	}
	return bg < 8 || bg == 16, true
}

// queryTerminal sends an OSC background query. tmux and screen do not
// answer it.
func queryTerminal() (bool, bool) {
	out := termenv.NewOutput(os.Stdout)
	bg := out.BackgroundColor()
	if bg == nil {
		return false, false
	}
	if _, ok := bg.(termenv.NoColor); ok {
		return false, false
	}
	return out.HasDarkBackground(), true
}
