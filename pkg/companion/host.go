package companion

import (
	"github.com/b/ratrak/pkg/arcade"
	"github.com/b/ratrak/pkg/sections"
)

// Size is a width/height pair in viewport pixels.
type Size = arcade.Size

// Rect is an element's on-screen box in viewport pixels.
type Rect struct {
	X, Y, W, H float64
}

// Element is anything the host can locate by id.
type Element interface {
	Rect() Rect
}

// Host is the page the companion lives on. The controller looks up its
// elements once at construction and receives input through Listen.
type Host interface {
	Lookup(id string) (Element, bool)
	Viewport() Size
	Sections() []sections.Region
	Navigate(target string)
	Listen(h Handler) (cancel func())
}

// Handler receives host input. KeyDown reports whether the key was
// consumed so the host can skip its default action (page scroll).
type Handler interface {
	Click(id string)
	KeyDown(key string) bool
	KeyUp(key string)
	Scroll()
	Resize()
	Loaded()
}

// Cue names a sound the controller asks for.
type Cue string

const (
	CueBubble Cue = "bubble"
	CueBump   Cue = "bump"
)
