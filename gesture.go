package ocif

// GestureKind names the kind of the active gesture.
type GestureKind uint8

const (
	GestureNone GestureKind = iota
	GesturePan
	GestureSelect
	GestureDragNodes
	GestureDrawShape
	GestureDrawPath
	GestureRotate
	GestureResize
)

// String returns the gesture name used in log output.
func (k GestureKind) String() string {
	switch k {
	case GesturePan:
		return "pan"
	case GestureSelect:
		return "select"
	case GestureDragNodes:
		return "drag-nodes"
	case GestureDrawShape:
		return "draw-shape"
	case GestureDrawPath:
		return "draw-path"
	case GestureRotate:
		return "rotate"
	case GestureResize:
		return "resize"
	default:
		return "none"
	}
}

// Gesture is the state of the one pointer gesture in progress. The variants
// are the *Gesture types in this file; the interface is closed.
type Gesture interface {
	Kind() GestureKind
	gesture()
}

// PanGesture moves the camera. Start is pointer minus camera position at
// press time, in screen space. Middle marks a middle-button pan, which works
// in every mode.
type PanGesture struct {
	Start  Vec2
	Middle bool
}

// SelectGesture draws a selection rectangle from Anchor (canvas space).
type SelectGesture struct {
	Anchor  Vec2
	Current Bounds
}

// DragNodesGesture moves every node in Initial by the scaled pointer delta.
type DragNodesGesture struct {
	Start   Vec2 // screen space
	Initial map[string]Vec2
	Order   []string
}

// DrawShapeGesture sizes a freshly created rectangle or oval node.
type DrawShapeGesture struct {
	NodeID string
	Start  Vec2 // canvas space
	Last   Bounds
	Mode   Mode
}

// DrawPathGesture collects freehand points in canvas space.
type DrawPathGesture struct {
	Points []Vec2
}

// nodeSnapshot is the geometry of a node when a gesture started.
type nodeSnapshot struct {
	Position Vec2
	Size     Vec2
	Rotation float64
}

// RotateGesture rotates the selection around Pivot (canvas space).
type RotateGesture struct {
	Pivot      Vec2
	StartAngle float64 // degrees, pointer angle about the pivot at press
	Initial    map[string]nodeSnapshot
	Current    map[string]nodeSnapshot
	Order      []string
}

// ResizeGesture scales the selection by dragging one of the envelope
// handles.
type ResizeGesture struct {
	Handle   ResizeHandle
	Start    Vec2 // screen space
	Envelope Bounds
	Initial  map[string]nodeSnapshot
	Order    []string
}

func (*PanGesture) Kind() GestureKind       { return GesturePan }
func (*SelectGesture) Kind() GestureKind    { return GestureSelect }
func (*DragNodesGesture) Kind() GestureKind { return GestureDragNodes }
func (*DrawShapeGesture) Kind() GestureKind { return GestureDrawShape }
func (*DrawPathGesture) Kind() GestureKind  { return GestureDrawPath }
func (*RotateGesture) Kind() GestureKind    { return GestureRotate }
func (*ResizeGesture) Kind() GestureKind    { return GestureResize }

func (*PanGesture) gesture()       {}
func (*SelectGesture) gesture()    {}
func (*DragNodesGesture) gesture() {}
func (*DrawShapeGesture) gesture() {}
func (*DrawPathGesture) gesture()  {}
func (*RotateGesture) gesture()    {}
func (*ResizeGesture) gesture()    {}

// ResizeHandle identifies one of the eight handles around a selection.
type ResizeHandle uint8

const (
	HandleNone ResizeHandle = iota
	HandleTopLeft
	HandleTopCenter
	HandleTopRight
	HandleMiddleLeft
	HandleMiddleRight
	HandleBottomLeft
	HandleBottomCenter
	HandleBottomRight
)

// resizeHandles lists the handles in hit-test order.
var resizeHandles = [...]ResizeHandle{
	HandleTopLeft, HandleTopCenter, HandleTopRight,
	HandleMiddleLeft, HandleMiddleRight,
	HandleBottomLeft, HandleBottomCenter, HandleBottomRight,
}

// String returns the handle name.
func (h ResizeHandle) String() string {
	switch h {
	case HandleTopLeft:
		return "top-left"
	case HandleTopCenter:
		return "top-center"
	case HandleTopRight:
		return "top-right"
	case HandleMiddleLeft:
		return "middle-left"
	case HandleMiddleRight:
		return "middle-right"
	case HandleBottomLeft:
		return "bottom-left"
	case HandleBottomCenter:
		return "bottom-center"
	case HandleBottomRight:
		return "bottom-right"
	default:
		return "none"
	}
}

// ParseResizeHandle is the inverse of ResizeHandle.String.
func ParseResizeHandle(s string) ResizeHandle {
	for _, h := range resizeHandles {
		if h.String() == s {
			return h
		}
	}
	return HandleNone
}

// sides reports which envelope edges the handle moves.
func (h ResizeHandle) sides() (left, top, right, bottom bool) {
	switch h {
	case HandleTopLeft:
		return true, true, false, false
	case HandleTopCenter:
		return false, true, false, false
	case HandleTopRight:
		return false, true, true, false
	case HandleMiddleLeft:
		return true, false, false, false
	case HandleMiddleRight:
		return false, false, true, false
	case HandleBottomLeft:
		return true, false, false, true
	case HandleBottomCenter:
		return false, false, false, true
	case HandleBottomRight:
		return false, false, true, true
	}
	return
}

// anchor returns the handle's location on b.
func (h ResizeHandle) anchor(b Bounds) Vec2 {
	c := b.Center()
	switch h {
	case HandleTopLeft:
		return Vec2{b.Left, b.Top}
	case HandleTopCenter:
		return Vec2{c.X, b.Top}
	case HandleTopRight:
		return Vec2{b.Right, b.Top}
	case HandleMiddleLeft:
		return Vec2{b.Left, c.Y}
	case HandleMiddleRight:
		return Vec2{b.Right, c.Y}
	case HandleBottomLeft:
		return Vec2{b.Left, b.Bottom}
	case HandleBottomCenter:
		return Vec2{c.X, b.Bottom}
	case HandleBottomRight:
		return Vec2{b.Right, b.Bottom}
	}
	return c
}

// resizeBounds moves the handle's sides of env by delta and swaps inverted
// sides.
func resizeBounds(env Bounds, h ResizeHandle, delta Vec2) Bounds {
	l, t, r, b := h.sides()
	out := env
	if l {
		out.Left += delta.X
	}
	if r {
		out.Right += delta.X
	}
	if t {
		out.Top += delta.Y
	}
	if b {
		out.Bottom += delta.Y
	}
	return out.Normalize()
}

// resizeNode maps one node's snapshot from the old envelope to the new one.
// The node's center keeps its relative position inside the envelope and its
// size is scaled by the per-axis envelope scale projected onto the node's
// rotated axes. Results are rounded.
func resizeNode(s nodeSnapshot, oldEnv, newEnv Bounds) (pos, size Vec2) {
	sx, sy := 1.0, 1.0
	if w := oldEnv.Width(); w != 0 {
		sx = newEnv.Width() / w
	}
	if h := oldEnv.Height(); h != 0 {
		sy = newEnv.Height() / h
	}
	lx, ly := localScale(sx, sy, s.Rotation)
	size = Vec2{s.Size.X * lx, s.Size.Y * ly}.Round()

	center := Vec2{s.Position.X + s.Size.X/2, s.Position.Y + s.Size.Y/2}
	rx, ry := 0.5, 0.5
	if w := oldEnv.Width(); w != 0 {
		rx = (center.X - oldEnv.Left) / w
	}
	if h := oldEnv.Height(); h != 0 {
		ry = (center.Y - oldEnv.Top) / h
	}
	newCenter := Vec2{newEnv.Left + rx*newEnv.Width(), newEnv.Top + ry*newEnv.Height()}
	pos = Vec2{newCenter.X - size.X/2, newCenter.Y - size.Y/2}
	return pos.Round(), size
}

// rotateNode rotates one node's snapshot about pivot by delta degrees.
// snapped, when non-nil, replaces the resulting rotation; the center always
// moves by the unsnapped delta.
func rotateNode(s nodeSnapshot, pivot Vec2, delta float64, snapped *float64) (pos Vec2, rotation float64) {
	center := Vec2{s.Position.X + s.Size.X/2, s.Position.Y + s.Size.Y/2}
	c := pivot.Add(rotateVec(center.Sub(pivot), degToRad(delta)))
	pos = Vec2{c.X - s.Size.X/2, c.Y - s.Size.Y/2}
	rotation = NormalizeDegrees(s.Rotation + delta)
	if snapped != nil {
		rotation = *snapped
	}
	return pos, rotation
}
