package ocif

// syntheticKind identifies an injected input event.
type syntheticKind uint8

const (
	synthPress syntheticKind = iota
	synthMove
	synthRelease
	synthKeyDown
	synthKeyUp
	synthWheel
)

// syntheticEvent is a single injected input event. Coordinates are client
// coordinates, exactly as a host would report them.
type syntheticEvent struct {
	kind   syntheticKind
	x, y   float64
	button MouseButton
	key    string
	mods   KeyModifiers
	deltaY float64
}

// InjectPress queues a left-button press at client coordinates. The event
// is delivered on the next Update.
func (e *Editor) InjectPress(x, y float64, mods KeyModifiers) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{kind: synthPress, x: x, y: y, mods: mods})
}

// InjectMove queues a pointer move at client coordinates.
func (e *Editor) InjectMove(x, y float64, mods KeyModifiers) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{kind: synthMove, x: x, y: y, mods: mods})
}

// InjectRelease queues a left-button release at client coordinates.
func (e *Editor) InjectRelease(x, y float64, mods KeyModifiers) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{kind: synthRelease, x: x, y: y, mods: mods})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (e *Editor) InjectClick(x, y float64, mods KeyModifiers) {
	e.InjectPress(x, y, mods)
	e.InjectRelease(x, y, mods)
}

// InjectDrag queues a full drag: press at from, frames-2 linearly
// interpolated moves ending on to, and a release at to. Minimum frames is 2.
func (e *Editor) InjectDrag(from, to Vec2, frames int, mods KeyModifiers) {
	if frames < 2 {
		frames = 2
	}
	e.InjectPress(from.X, from.Y, mods)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		e.InjectMove(from.X+(to.X-from.X)*t, from.Y+(to.Y-from.Y)*t, mods)
	}
	e.InjectRelease(to.X, to.Y, mods)
}

// InjectKey queues a key press and release.
func (e *Editor) InjectKey(key string, mods KeyModifiers) {
	e.injectQueue = append(e.injectQueue,
		syntheticEvent{kind: synthKeyDown, key: key, mods: mods},
		syntheticEvent{kind: synthKeyUp, key: key, mods: mods},
	)
}

// InjectWheel queues a wheel event at client coordinates.
func (e *Editor) InjectWheel(x, y, deltaY float64) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{kind: synthWheel, x: x, y: y, deltaY: deltaY})
}

// InjectPending returns the number of queued synthetic events.
func (e *Editor) InjectPending() int { return len(e.injectQueue) }

// processInjectedInput pops one event from the inject queue and feeds it
// through the same entry points as real input. It reports whether an event
// was consumed.
func (e *Editor) processInjectedInput() bool {
	if len(e.injectQueue) == 0 {
		return false
	}
	evt := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]

	switch evt.kind {
	case synthPress:
		e.PointerDown(evt.x, evt.y, evt.button, evt.mods)
	case synthMove:
		e.PointerMove(evt.x, evt.y, evt.mods)
	case synthRelease:
		e.PointerUp(evt.x, evt.y, evt.button, evt.mods)
	case synthKeyDown:
		e.KeyDown(evt.key, evt.mods, false)
	case synthKeyUp:
		e.KeyUp(evt.key, evt.mods)
	case synthWheel:
		e.Wheel(evt.x, evt.y, evt.deltaY)
	}
	return true
}
