package tui

import "github.com/b/ratrak/pkg/sprite"

const (
	spriteCols = 6
	spriteRows = 3
)

// art maps sprite assets to terminal frames. Every row is spriteCols
// wide. Frames face right.
var art = map[string][spriteRows]string{
	"ratrak/idle":  {"  ▄▄  ", "[▐oo▌>", "(◎══◎)"},
	"ratrak/blink": {"  ▄▄  ", "[▐--▌>", "(◎══◎)"},
	"ratrak/move":  {"  ▄▄ ~", "[▐oo▌>", "(◉~~◉)"},
	"ratrak/work":  {" ▄▄▄▄ ", "[▐##▌>", "(◎══◎)"},
}

var fallbackArt = map[sprite.State]string{
	sprite.Idle:  "ratrak/idle",
	sprite.Blink: "ratrak/blink",
	sprite.Move:  "ratrak/move",
	sprite.Work:  "ratrak/work",
}

var mirrored = map[rune]rune{
	'(': ')', ')': '(',
	'[': ']', ']': '[',
	'<': '>', '>': '<',
	'▐': '▌', '▌': '▐',
	'/': '\\', '\\': '/',
}

// frame returns the rows for an asset, falling back to the state's
// built-in frame for assets without art.
func frame(asset string, state sprite.State, faceLeft bool) [spriteRows]string {
	f, ok := art[asset]
	if !ok {
		f = art[fallbackArt[state]]
	}
	if faceLeft {
		for i, row := range f {
			f[i] = mirror(row)
		}
	}
	return f
}

func mirror(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	for i, c := range r {
		if m, ok := mirrored[c]; ok {
			r[i] = m
		}
	}
	return string(r)
}
