// Package colors derives the companion's palette from a single accent
// color and the terminal background.
package colors

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RGB holds channels in [0,1].
type RGB struct{ R, G, B float64 }

// ParseHex reads "#rrggbb" (the # is optional).
func ParseHex(s string) (RGB, bool) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return RGB{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
	}, true
}

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int {
	return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// Luminance is the WCAG relative luminance, 0 for black and 1 for white.
// Invalid colors count as black.
func Luminance(hex string) float64 {
	c, ok := ParseHex(hex)
	if !ok {
		return 0
	}
	return 0.2126*linear(c.R) + 0.7152*linear(c.G) + 0.0722*linear(c.B)
}

func linear(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// Contrast is the WCAG contrast ratio, between 1 and 21.
func Contrast(a, b string) float64 {
	la, lb := Luminance(a), Luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

func IsLight(hex string) bool { return Luminance(hex) > 0.5 }

// Mix blends a toward b by t.
func Mix(a, b string, t float64) string {
	ca, okA := ParseHex(a)
	cb, okB := ParseHex(b)
	if !okA || !okB {
		return a
	}
	return RGB{
		R: ca.R + (cb.R-ca.R)*t,
		G: ca.G + (cb.G-ca.G)*t,
		B: ca.B + (cb.B-ca.B)*t,
	}.Hex()
}

func Lighten(hex string, amount float64) string { return Mix(hex, "#ffffff", amount) }
func Darken(hex string, amount float64) string  { return Mix(hex, "#000000", amount) }

// TextOn picks white or black, preferring white down to 3:1.
func TextOn(bg string) string {
	if Contrast("#ffffff", bg) >= 3 {
		return "#ffffff"
	}
	return "#000000"
}

// EnsureContrast pushes fg away from bg until the ratio reaches minRatio,
// falling back to black or white.
func EnsureContrast(fg, bg string, minRatio float64) string {
	if Contrast(fg, bg) >= minRatio {
		return fg
	}
	lighter := Luminance(fg) > Luminance(bg)
	for step := 1; step <= 10; step++ {
		amount := float64(step) / 10
		adjusted := Darken(fg, amount)
		if lighter {
			adjusted = Lighten(fg, amount)
		}
		if Contrast(adjusted, bg) >= minRatio {
			return adjusted
		}
	}
	if IsLight(bg) {
		return "#000000"
	}
	return "#ffffff"
}

// HSL returns hue in degrees and saturation, lightness in [0,1].
func (c RGB) HSL() (h, s, l float64) {
	hi := math.Max(c.R, math.Max(c.G, c.B))
	lo := math.Min(c.R, math.Min(c.G, c.B))
	l = (hi + lo) / 2
	if hi == lo {
		return 0, 0, l
	}
	d := hi - lo
	if l > 0.5 {
		s = d / (2 - hi - lo)
	} else {
		s = d / (hi + lo)
	}
	switch hi {
	case c.R:
		h = (c.G - c.B) / d
		if c.G < c.B {
			h += 6
		}
	case c.G:
		h = (c.B-c.R)/d + 2
	default:
		h = (c.R-c.G)/d + 4
	}
	return h * 60, s, l
}

// FromHSL is the inverse of RGB.HSL.
func FromHSL(h, s, l float64) RGB {
	if s == 0 {
		return RGB{l, l, l}
	}
	q := l + s - l*s
	if l < 0.5 {
		q = l * (1 + s)
	}
	p := 2*l - q
	h /= 360
	return RGB{hue(p, q, h+1.0/3), hue(p, q, h), hue(p, q, h-1.0/3)}
}

func hue(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}
