package ocif

import "math"

// Vec2 is a 2D vector used for positions, offsets, sizes, and deltas
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Round rounds both components to the nearest integer.
func (v Vec2) Round() Vec2 { return Vec2{math.Round(v.X), math.Round(v.Y)} }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Bounds returns r as left/top/right/bottom edges.
func (r Rect) Bounds() Bounds {
	return Bounds{Left: r.X, Top: r.Y, Right: r.X + r.Width, Bottom: r.Y + r.Height}
}

// Bounds is an axis-aligned box described by its edges. Selection envelopes,
// rotated node extents and resize math all work in Bounds.
type Bounds struct {
	Left, Top, Right, Bottom float64
}

// Width returns Right - Left.
func (b Bounds) Width() float64 { return b.Right - b.Left }

// Height returns Bottom - Top.
func (b Bounds) Height() float64 { return b.Bottom - b.Top }

// Center returns the midpoint of the box.
func (b Bounds) Center() Vec2 {
	return Vec2{(b.Left + b.Right) / 2, (b.Top + b.Bottom) / 2}
}

// Normalize swaps inverted edges so Width and Height are non-negative.
func (b Bounds) Normalize() Bounds {
	if b.Right < b.Left {
		b.Left, b.Right = b.Right, b.Left
	}
	if b.Bottom < b.Top {
		b.Top, b.Bottom = b.Bottom, b.Top
	}
	return b
}

// Union returns the smallest box enclosing b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		Left:   math.Min(b.Left, o.Left),
		Top:    math.Min(b.Top, o.Top),
		Right:  math.Max(b.Right, o.Right),
		Bottom: math.Max(b.Bottom, o.Bottom),
	}
}

// Overlaps reports whether b and o share interior area. Boxes that only
// touch along an edge do not overlap.
func (b Bounds) Overlaps(o Bounds) bool {
	return b.Left < o.Right && b.Right > o.Left &&
		b.Top < o.Bottom && b.Bottom > o.Top
}

// Rect converts b to origin + extent form.
func (b Bounds) Rect() Rect {
	return Rect{X: b.Left, Y: b.Top, Width: b.Width(), Height: b.Height()}
}

// BoundsFromPoints returns the normalized box spanned by two corners.
func BoundsFromPoints(a, b Vec2) Bounds {
	return Bounds{Left: a.X, Top: a.Y, Right: b.X, Bottom: b.Y}.Normalize()
}

// Mode selects which gesture a pointer press starts. Plugins may define
// their own modes; the built-in ones are listed below.
type Mode string

const (
	ModeSelect    Mode = "select"    // select, move, rotate and resize nodes
	ModeHand      Mode = "hand"      // pan the canvas
	ModeRectangle Mode = "rectangle" // draw rectangle nodes
	ModeOval      Mode = "oval"      // draw oval nodes
	ModeDraw      Mode = "draw"      // freehand path drawing
)

// EventKind identifies a kind of input event routed through the plugin
// dispatch engine.
type EventKind uint8

const (
	EventPointerDown EventKind = iota // fires when a pointer button is pressed
	EventPointerMove                  // fires when the pointer moves
	EventPointerUp                    // fires when the pointer is released (or leaves while pressed)
	EventKeyDown                      // fires when a key is pressed
	EventKeyUp                        // fires when a key is released
)

// String returns the event kind name used in log output.
func (k EventKind) String() string {
	switch k {
	case EventPointerDown:
		return "pointerdown"
	case EventPointerMove:
		return "pointermove"
	case EventPointerUp:
		return "pointerup"
	case EventKeyDown:
		return "keydown"
	case EventKeyUp:
		return "keyup"
	default:
		return "unknown"
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// Has reports whether every modifier in m is held.
func (k KeyModifiers) Has(m KeyModifiers) bool { return k&m == m }

// CtrlOrCmd reports whether the cross-platform primary modifier is held:
// Ctrl on Windows/Linux, Cmd on macOS. Either key counts.
func (k KeyModifiers) CtrlOrCmd() bool { return k&(ModCtrl|ModMeta) != 0 }
