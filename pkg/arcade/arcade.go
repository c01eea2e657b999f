// Package arcade is the movement and collision engine behind game mode.
//
// The engine is pure state: callers feed it held keys, the current
// viewport and sprite size, and a timestamp; it integrates one step,
// clamps into the margin-inset box and reports bumps.
package arcade

import (
	"strings"
	"time"
)

// Vec is a position or velocity in viewport pixels.
type Vec struct{ X, Y float64 }

// Size is a width/height pair in viewport pixels.
type Size struct{ W, H float64 }

// Side is a viewport edge.
type Side string

const (
	None   Side = ""
	Left   Side = "left"
	Right  Side = "right"
	Top    Side = "top"
	Bottom Side = "bottom"
)

// Facing is the horizontal direction marker.
type Facing string

const (
	FacingLeft  Facing = "left"
	FacingRight Facing = "right"
)

// Key is a normalized movement key.
type Key string

const (
	KeyW     Key = "w"
	KeyA     Key = "a"
	KeyS     Key = "s"
	KeyD     Key = "d"
	KeyUp    Key = "up"
	KeyDown  Key = "down"
	KeyLeft  Key = "left"
	KeyRight Key = "right"
)

// MovementKey normalizes a key name and reports whether it is one of the
// eight movement keys. Letters are case-insensitive; "arrowup" style
// names are accepted.
func MovementKey(name string) (Key, bool) {
	k := strings.ToLower(name)
	k = strings.TrimPrefix(k, "arrow")
	switch Key(k) {
	case KeyW, KeyA, KeyS, KeyD, KeyUp, KeyDown, KeyLeft, KeyRight:
		return Key(k), true
	}
	return "", false
}

// Velocity returns the unit direction for a held-key set. Each axis is
// independent and opposing keys on an axis cancel.
func Velocity(held map[Key]bool) Vec {
	var v Vec
	if held[KeyA] || held[KeyLeft] {
		v.X--
	}
	if held[KeyD] || held[KeyRight] {
		v.X++
	}
	if held[KeyW] || held[KeyUp] {
		v.Y--
	}
	if held[KeyS] || held[KeyDown] {
		v.Y++
	}
	return v
}

// Config holds the engine constants.
type Config struct {
	Margin       float64
	Speed        float64
	BumpNudge    float64
	BumpCooldown time.Duration
}

// Engine tracks position, held keys, facing and the bump cooldown.
type Engine struct {
	cfg      Config
	pos      Vec
	held     map[Key]bool
	facing   Facing
	lastBump time.Time
}

// New creates an engine at the origin facing right.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg, held: make(map[Key]bool), facing: FacingRight}
}

// Result describes one movement step.
type Result struct {
	Pos    Vec
	Moved  bool
	Facing Facing
	// Bump is the side a truncated move hit; None when the move fit or
	// the bump was still cooling down.
	Bump Side
}

// Pos returns the current position.
func (e *Engine) Pos() Vec { return e.pos }

// Facing returns the facing marker.
func (e *Engine) Facing() Facing { return e.facing }

// Press marks k held.
func (e *Engine) Press(k Key) { e.held[k] = true }

// Release marks k released.
func (e *Engine) Release(k Key) { delete(e.held, k) }

// Held reports whether k is held.
func (e *Engine) Held(k Key) bool { return e.held[k] }

// HeldCount returns the number of held keys.
func (e *Engine) HeldCount() int { return len(e.held) }

// ClearKeys releases every key.
func (e *Engine) ClearKeys() {
	for k := range e.held {
		delete(e.held, k)
	}
}

// Reset places the engine at p (clamped) and clears keys and bump state.
func (e *Engine) Reset(p Vec, view, sprite Size) {
	e.ClearKeys()
	e.lastBump = time.Time{}
	e.pos = e.Clamp(p, view, sprite)
}

// Bounds returns the inclusive [min, max] box for the sprite's top-left
// corner. When the viewport is too small the box collapses onto min.
func (e *Engine) Bounds(view, sprite Size) (min, max Vec) {
	m := e.cfg.Margin
	min = Vec{X: m, Y: m}
	max = Vec{X: view.W - sprite.W - m, Y: view.H - sprite.H - m}
	if max.X < min.X {
		max.X = min.X
	}
	if max.Y < min.Y {
		max.Y = min.Y
	}
	return min, max
}

// Clamp returns p forced into Bounds.
func (e *Engine) Clamp(p Vec, view, sprite Size) Vec {
	lo, hi := e.Bounds(view, sprite)
	return Vec{X: clamp(p.X, lo.X, hi.X), Y: clamp(p.Y, lo.Y, hi.Y)}
}

// Reclamp keeps the current position inside the box after a resize. It
// never registers a bump.
func (e *Engine) Reclamp(view, sprite Size) Vec {
	e.pos = e.Clamp(e.pos, view, sprite)
	return e.pos
}

// Step integrates one frame of movement from the held keys.
func (e *Engine) Step(now time.Time, view, sprite Size) Result {
	v := Velocity(e.held)
	target := Vec{X: e.pos.X + v.X*e.cfg.Speed, Y: e.pos.Y + v.Y*e.cfg.Speed}
	return e.place(now, target, v, view, sprite)
}

// MoveTo requests an explicit position, with the same clamp and bump
// rules as Step.
func (e *Engine) MoveTo(now time.Time, p Vec, view, sprite Size) Result {
	return e.place(now, p, Vec{X: p.X - e.pos.X, Y: p.Y - e.pos.Y}, view, sprite)
}

func (e *Engine) place(now time.Time, target, v Vec, view, sprite Size) Result {
	clamped := e.Clamp(target, view, sprite)
	side := truncated(target, clamped)

	if v.X < 0 {
		e.facing = FacingLeft
	} else if v.X > 0 {
		e.facing = FacingRight
	}
	e.pos = clamped

	res := Result{Moved: v.X != 0 || v.Y != 0, Facing: e.facing}
	if side != None && (e.lastBump.IsZero() || now.Sub(e.lastBump) >= e.cfg.BumpCooldown) {
		e.lastBump = now
		e.pos = e.Clamp(nudge(e.pos, side, e.cfg.BumpNudge), view, sprite)
		res.Bump = side
	}
	res.Pos = e.pos
	return res
}

// truncated returns the first side on which clamping cut the move short.
func truncated(target, clamped Vec) Side {
	switch {
	case target.X < clamped.X:
		return Left
	case target.X > clamped.X:
		return Right
	case target.Y < clamped.Y:
		return Top
	case target.Y > clamped.Y:
		return Bottom
	}
	return None
}

func nudge(p Vec, side Side, amount float64) Vec {
	switch side {
	case Left:
		p.X += amount
	case Right:
		p.X -= amount
	case Top:
		p.Y += amount
	case Bottom:
		p.Y -= amount
	}
	return p
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
