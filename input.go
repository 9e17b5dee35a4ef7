package ocif

import (
	"math"
)

// HitKind classifies what lies under the pointer at press time.
type HitKind uint8

const (
	HitCanvas HitKind = iota
	HitNode
	HitResizeHandle
	HitRotateHandle
)

// String returns the hit kind name.
func (k HitKind) String() string {
	switch k {
	case HitNode:
		return "node"
	case HitResizeHandle:
		return "resize-handle"
	case HitRotateHandle:
		return "rotate-handle"
	default:
		return "canvas"
	}
}

// HitTarget is the result of hit testing a pointer position.
type HitTarget struct {
	Kind   HitKind
	NodeID string       // set for HitNode
	Handle ResizeHandle // set for HitResizeHandle
}

// Event is an input event routed through the plugin dispatch engine.
type Event struct {
	Kind EventKind

	// Pointer fields. Client is in host window coordinates, Screen is
	// relative to the editor container, Canvas is in document units.
	Client Vec2
	Screen Vec2
	Canvas Vec2
	Button MouseButton
	Target HitTarget

	// Key fields.
	Key    string
	Repeat bool

	Modifiers KeyModifiers
	Editor    *Editor

	defaultPrevented bool
}

// PreventDefault marks the event so the host skips its own default action
// (browser-style key handling, text entry).
func (ev *Event) PreventDefault() { ev.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (ev *Event) DefaultPrevented() bool { return ev.defaultPrevented }

// KeyEvent returns the key and modifiers of ev.
func (ev *Event) KeyEvent() KeyEvent {
	return KeyEvent{Key: ev.Key, Modifiers: ev.Modifiers}
}

// pointerState tracks the press state of the single pointer.
type pointerState struct {
	down   bool
	button MouseButton
	last   Vec2 // client coordinates of the last event
}

// pointerEvent builds a pointer event for client coordinates.
func (e *Editor) pointerEvent(kind EventKind, clientX, clientY float64, button MouseButton, mods KeyModifiers) *Event {
	screen := RelativePosition(clientX, clientY, e.container)
	return &Event{
		Kind:      kind,
		Client:    Vec2{clientX, clientY},
		Screen:    screen,
		Canvas:    e.camera.ScreenToCanvas(screen),
		Button:    button,
		Modifiers: mods,
		Editor:    e,
	}
}

// PointerDown feeds a button press at client coordinates. It reports whether
// a plugin handled the event. Calls before Mount are ignored.
func (e *Editor) PointerDown(clientX, clientY float64, button MouseButton, mods KeyModifiers) bool {
	if !e.mounted {
		return false
	}
	ev := e.pointerEvent(EventPointerDown, clientX, clientY, button, mods)
	ev.Target = e.HitTest(ev.Screen)
	e.pointer = pointerState{down: true, button: button, last: ev.Client}
	return e.dispatch(ev)
}

// PointerMove feeds a pointer move at client coordinates.
func (e *Editor) PointerMove(clientX, clientY float64, mods KeyModifiers) bool {
	if !e.mounted {
		return false
	}
	ev := e.pointerEvent(EventPointerMove, clientX, clientY, e.pointer.button, mods)
	ev.Target = e.HitTest(ev.Screen)
	e.pointer.last = ev.Client
	return e.dispatch(ev)
}

// PointerUp feeds a button release. After the plugins have seen it, any
// gesture still in progress is cleared.
func (e *Editor) PointerUp(clientX, clientY float64, button MouseButton, mods KeyModifiers) bool {
	if !e.mounted {
		return false
	}
	ev := e.pointerEvent(EventPointerUp, clientX, clientY, button, mods)
	ev.Target = e.HitTest(ev.Screen)
	handled := e.dispatch(ev)
	e.endGesture()
	e.pointer.down = false
	e.pointer.last = ev.Client
	return handled
}

// PointerLeave tells the editor the pointer left the container. A held
// button is treated as released at the last known position.
func (e *Editor) PointerLeave(mods KeyModifiers) {
	if !e.mounted || !e.pointer.down {
		return
	}
	e.PointerUp(e.pointer.last.X, e.pointer.last.Y, e.pointer.button, mods)
}

// KeyDown feeds a key press. Shortcuts are matched first; if none handles
// the key it is dispatched to the plugins' key-down handlers. The returned
// event tells the host whether to suppress its default action.
func (e *Editor) KeyDown(key string, mods KeyModifiers, repeat bool) (*Event, bool) {
	ev := &Event{Kind: EventKeyDown, Key: key, Repeat: repeat, Modifiers: mods, Editor: e}
	if !e.mounted {
		return ev, false
	}
	if e.plugins.HandleShortcut(ev) {
		ev.PreventDefault()
		return ev, true
	}
	return ev, e.dispatch(ev)
}

// KeyUp feeds a key release.
func (e *Editor) KeyUp(key string, mods KeyModifiers) bool {
	if !e.mounted {
		return false
	}
	ev := &Event{Kind: EventKeyUp, Key: key, Modifiers: mods, Editor: e}
	return e.dispatch(ev)
}

// Wheel zooms about the pointer position by -deltaY * WheelZoomFactor.
func (e *Editor) Wheel(clientX, clientY, deltaY float64) {
	if !e.mounted {
		return
	}
	anchor := RelativePosition(clientX, clientY, e.container)
	e.camera.Wheel(deltaY, e.cfg.WheelZoomFactor, anchor)
}

func (e *Editor) dispatch(ev *Event) bool {
	handled := e.plugins.Dispatch(ev)
	if !handled && e.debug && ev.Kind != EventPointerMove {
		e.log.Debug("unhandled event", "kind", ev.Kind, "target", ev.Target.Kind, "key", ev.Key)
	}
	return handled
}

// --- Hit testing ---

// HitTest classifies a container-relative point. Handles are tested first
// (rotate, then resize) in screen space, then nodes from topmost to
// bottommost, then the canvas.
func (e *Editor) HitTest(screen Vec2) HitTarget {
	doc := e.LiveDocument()
	if e.mode == ModeSelect && len(e.selection) > 0 {
		if env, ok := e.selectionEnvelope(doc); ok {
			if e.hitRotateHandle(env, screen) {
				return HitTarget{Kind: HitRotateHandle}
			}
			if h := e.hitResizeHandle(env, screen); h != HandleNone {
				return HitTarget{Kind: HitResizeHandle, Handle: h}
			}
		}
	}
	canvas := e.camera.ScreenToCanvas(screen)
	if id, ok := topmostNodeAt(doc, canvas); ok {
		return HitTarget{Kind: HitNode, NodeID: id}
	}
	return HitTarget{Kind: HitCanvas}
}

// topmostNodeAt returns the last placed node in document order containing p.
func topmostNodeAt(doc Document, p Vec2) (string, bool) {
	for i := len(doc.Nodes) - 1; i >= 0; i-- {
		n := &doc.Nodes[i]
		if !n.Placed {
			continue
		}
		if containsRotated(n, p) {
			return n.ID, true
		}
	}
	return "", false
}

// handleRect returns the screen-space square of a resize handle.
func (e *Editor) handleRect(env Bounds, h ResizeHandle) Rect {
	a := e.camera.CanvasToScreen(h.anchor(env))
	s := e.cfg.HandleSize
	return Rect{X: a.X - s/2, Y: a.Y - s/2, Width: s, Height: s}
}

func (e *Editor) hitResizeHandle(env Bounds, screen Vec2) ResizeHandle {
	for _, h := range resizeHandles {
		if e.handleRect(env, h).Contains(screen.X, screen.Y) {
			return h
		}
	}
	return HandleNone
}

// rotateHandlePoint returns the screen-space center of the rotate handle,
// above the top-center of the envelope.
func (e *Editor) rotateHandlePoint(env Bounds) Vec2 {
	top := e.camera.CanvasToScreen(HandleTopCenter.anchor(env))
	return Vec2{top.X, top.Y - e.cfg.RotateHandleOffset}
}

func (e *Editor) hitRotateHandle(env Bounds, screen Vec2) bool {
	c := e.rotateHandlePoint(env)
	return math.Hypot(screen.X-c.X, screen.Y-c.Y) <= e.cfg.HandleSize
}
