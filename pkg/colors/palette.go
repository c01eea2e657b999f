package colors

const DefaultAccent = "#f5a623"

// Palette is every color the companion chrome draws with.
type Palette struct {
	Page       string // assumed terminal background
	Text       string
	Accent     string
	DrawerBg   string
	DrawerFg   string
	DrawerHead string
	Active     string // highlighted drawer item
	Bubble     string
	Glow       string
	Backdrop   string // page text behind an open drawer
	Footer     string
	BadgeFg    string // on Accent
}

// Derive builds a palette around accent. An invalid accent falls back
// to DefaultAccent.
func Derive(accent string, dark bool) Palette {
	base, ok := ParseHex(accent)
	if !ok {
		accent = DefaultAccent
		base, _ = ParseHex(accent)
	}
	accent = base.Hex()

	p := Palette{Accent: accent, Page: "#f5f5f5", Text: "#262626"}
	drawerL := 0.90
	if dark {
		p.Page, p.Text = "#1c1c1c", "#e4e4e4"
		drawerL = 0.16
	}

	h, s, _ := base.HSL()
	p.DrawerBg = FromHSL(h, s*0.35, drawerL).Hex()
	p.DrawerFg = EnsureContrast(p.Text, p.DrawerBg, 7)
	p.DrawerHead = EnsureContrast(accent, p.DrawerBg, 4.5)
	if dark {
		p.Active = EnsureContrast(Lighten(accent, 0.25), p.DrawerBg, 4.5)
		p.Glow = EnsureContrast(Lighten(accent, 0.45), p.Page, 3)
	} else {
		p.Active = EnsureContrast(Darken(accent, 0.25), p.DrawerBg, 4.5)
		p.Glow = EnsureContrast(Darken(accent, 0.30), p.Page, 3)
	}
	p.Bubble = EnsureContrast(Mix(p.Text, accent, 0.3), p.Page, 7)
	p.Backdrop = Mix(p.Page, p.Text, 0.3)
	p.Footer = Mix(p.Page, p.Text, 0.5)
	p.BadgeFg = TextOn(accent)
	return p
}
