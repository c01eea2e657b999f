package colors

import (
	"math"
	"testing"
)

func TestLuminance(t *testing.T) {
	tests := []struct {
		name  string
		hex   string
		want  float64
		delta float64
	}{
		{"black", "#000000", 0.0, 0.001},
		{"white", "#ffffff", 1.0, 0.001},
		{"mid gray", "#808080", 0.2159, 0.01},
		{"pure red", "#ff0000", 0.2126, 0.01},
		{"pure green", "00ff00", 0.7152, 0.01},
		{"invalid", "#12", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Luminance(tt.hex); math.Abs(got-tt.want) > tt.delta {
				t.Errorf("Luminance(%q) = %v, want %v", tt.hex, got, tt.want)
			}
		})
	}
}

func TestContrast(t *testing.T) {
	if got := Contrast("#000000", "#ffffff"); math.Abs(got-21) > 0.1 {
		t.Errorf("black/white = %v", got)
	}
	if got := Contrast("#808080", "#808080"); math.Abs(got-1) > 0.001 {
		t.Errorf("same color = %v", got)
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, hex := range []string{"#000000", "#ffffff", "#f5a623", "#3366ff"} {
		c, ok := ParseHex(hex)
		if !ok || c.Hex() != hex {
			t.Errorf("ParseHex(%q).Hex() = %q, %v", hex, c.Hex(), ok)
		}
		h, s, l := c.HSL()
		if got := FromHSL(h, s, l).Hex(); got != hex {
			t.Errorf("HSL round trip of %s = %s", hex, got)
		}
	}
}

func TestMix(t *testing.T) {
	if got := Mix("#000000", "#ffffff", 0.5); got != "#808080" {
		t.Errorf("Mix = %s", got)
	}
	if got := Lighten("#000000", 1); got != "#ffffff" {
		t.Errorf("Lighten = %s", got)
	}
	if got := Darken("#ffffff", 1); got != "#000000" {
		t.Errorf("Darken = %s", got)
	}
}

func TestEnsureContrast(t *testing.T) {
	for _, tt := range []struct{ fg, bg string }{
		{"#777777", "#1c1c1c"},
		{"#777777", "#f5f5f5"},
		{"#f5a623", "#ffffff"},
	} {
		got := EnsureContrast(tt.fg, tt.bg, 4.5)
		if Contrast(got, tt.bg) < 4.5 {
			t.Errorf("EnsureContrast(%s, %s) = %s, ratio %.2f", tt.fg, tt.bg, got, Contrast(got, tt.bg))
		}
	}
	if got := EnsureContrast("#ffffff", "#000000", 4.5); got != "#ffffff" {
		t.Errorf("already contrasting color changed to %s", got)
	}
}

func TestDeriveReadable(t *testing.T) {
	for _, accent := range []string{"#f5a623", "#3366ff", "#00ff00", "#ffffff", "#000000"} {
		for _, dark := range []bool{true, false} {
			p := Derive(accent, dark)
			checks := []struct {
				name   string
				fg, bg string
				min    float64
			}{
				{"drawer text", p.DrawerFg, p.DrawerBg, 7},
				{"drawer head", p.DrawerHead, p.DrawerBg, 4.5},
				{"active item", p.Active, p.DrawerBg, 4.5},
				{"bubble", p.Bubble, p.Page, 7},
				{"glow", p.Glow, p.Page, 3},
				{"badge", p.BadgeFg, p.Accent, 3},
			}
			for _, c := range checks {
				if r := Contrast(c.fg, c.bg); r < c.min {
					t.Errorf("%s dark=%v %s: %s on %s = %.2f, want >= %.1f", accent, dark, c.name, c.fg, c.bg, r, c.min)
				}
			}
		}
	}
}

func TestDeriveInvalidAccent(t *testing.T) {
	if got := Derive("orange", true).Accent; got != DefaultAccent {
		t.Fatalf("Accent = %s, want %s", got, DefaultAccent)
	}
}

func TestDetector(t *testing.T) {
	env := func(vals map[string]string) func(string) string {
		return func(k string) string { return vals[k] }
	}
	noQuery := func() (bool, bool) { return false, false }
	tests := []struct {
		name string
		mode Mode
		d    Detector
		want bool
	}{
		{"forced dark", ModeDark, Detector{}, true},
		{"forced light", ModeLight, Detector{}, false},
		{"colorfgbg dark", ModeAuto, Detector{Getenv: env(map[string]string{"COLORFGBG": "15;0"}), Query: noQuery}, true},
		{"colorfgbg light", ModeAuto, Detector{Getenv: env(map[string]string{"COLORFGBG": "0;default;15"}), Query: noQuery}, false},
		{"query", ModeAuto, Detector{Getenv: env(nil), Query: func() (bool, bool) { return false, true }}, false},
		{"iterm hint", ModeAuto, Detector{Getenv: env(map[string]string{"ITERM_PROFILE": "Solarized Light"}), Query: noQuery}, false},
		{"nothing answers", ModeAuto, Detector{Getenv: env(nil), Query: noQuery}, true},
	}
	for _, tt := range tests {
		if got := tt.d.IsDark(tt.mode); got != tt.want {
			t.Errorf("%s: IsDark = %v, want %v", tt.name, got, tt.want)
		}
	}
}
