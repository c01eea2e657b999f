package companion

import (
	"github.com/b/ratrak/pkg/arcade"
	"github.com/b/ratrak/pkg/sprite"
)

// PlacementMode is how the avatar is positioned.
type PlacementMode string

const (
	Docked   PlacementMode = "docked"
	Floating PlacementMode = "floating"
)

// Placement is the avatar's positioning. X and Y only mean something
// when floating.
type Placement struct {
	Mode PlacementMode `json:"mode"`
	X    float64       `json:"x,omitempty"`
	Y    float64       `json:"y,omitempty"`
}

// BubbleView is the dialogue bubble as the renderer sees it.
type BubbleView struct {
	Visible bool   `json:"visible"`
	Text    string `json:"text,omitempty"`
}

// View is a read-only snapshot of everything the presentation layer
// renders. Seq increases with every published change.
type View struct {
	Seq        uint64       `json:"seq"`
	State      sprite.State `json:"state"`
	Asset      string       `json:"asset"`
	Label      string       `json:"label"`
	DrawerOpen bool         `json:"drawer_open"`
	// DrawerHidden and BackdropHidden are the elements' hidden markers.
	DrawerHidden   bool          `json:"drawer_hidden"`
	BackdropHidden bool          `json:"backdrop_hidden"`
	Shifted        bool          `json:"shifted"`
	Compact        bool          `json:"compact"`
	Bubble         BubbleView    `json:"bubble"`
	Glow           bool          `json:"glow"`
	Bob            bool          `json:"bob"`
	Game           bool          `json:"game"`
	Placement      Placement     `json:"placement"`
	Facing         arcade.Facing `json:"facing,omitempty"`
	Section        string        `json:"section,omitempty"`
}
