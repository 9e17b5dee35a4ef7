package ocif

import (
	"math"
)

// Pointer-down priorities of the gesture plugins. Handle presses outrank
// node presses, which outrank presses on empty canvas.
const (
	priorityRotateHandle = 300
	priorityResizeHandle = 290
	priorityNodePress    = 200
	priorityCanvasPress  = 100
)

// builtinPlugins returns the interaction plugins in registration order.
func builtinPlugins() []*Plugin {
	return []*Plugin{
		selectionPlugin(),
		canvasDragPlugin(),
		shapeDrawingPlugin(),
		nodeDraggingPlugin(),
		rotationPlugin(),
		resizePlugin(),
		pathDrawingPlugin(),
		selectToolPlugin(),
		handToolPlugin(),
		rectangleToolPlugin(),
		ovalToolPlugin(),
		drawToolPlugin(),
		clipboardPlugin(),
		deletePlugin(),
		movementPlugin(),
		zoomPlugin(),
	}
}

// --- Rectangular selection ---

func selectionPlugin() *Plugin {
	return &Plugin{
		Name: "selection",
		OnPointerDown: &EventHandler{Priority: priorityCanvasPress, Handle: func(ev *Event) bool {
			e := ev.Editor
			if ev.Button != MouseButtonLeft || e.mode != ModeSelect {
				return false
			}
			e.startSelection(ev.Canvas)
			return true
		}},
		OnPointerMove: &EventHandler{Handle: func(ev *Event) bool {
			g, ok := ev.Editor.gesture.(*SelectGesture)
			if !ok || ev.Editor.mode != ModeSelect {
				return false
			}
			g.Current = BoundsFromPoints(g.Anchor, ev.Canvas)
			return true
		}},
		OnPointerUp: &EventHandler{Handle: func(ev *Event) bool {
			g, ok := ev.Editor.gesture.(*SelectGesture)
			if !ok {
				return false
			}
			ev.Editor.finishSelection(g)
			return true
		}},
	}
}

func (e *Editor) startSelection(anchor Vec2) {
	e.beginGesture(&SelectGesture{
		Anchor:  anchor,
		Current: BoundsFromPoints(anchor, anchor),
	})
}

// finishSelection replaces the selection with every placed node whose
// rotation-aware box overlaps the rectangle. Touching edges do not count.
func (e *Editor) finishSelection(g *SelectGesture) {
	e.SetSelection(NodesInRect(e.LiveDocument(), g.Current)...)
	e.endGesture()
}

// NodesInRect returns the IDs of placed nodes overlapping r, in document
// order.
func NodesInRect(doc Document, r Bounds) []string {
	var ids []string
	for i := range doc.Nodes {
		n := &doc.Nodes[i]
		if n.Placed && NodeBounds(n).Overlaps(r) {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// --- Canvas pan ---

func canvasDragPlugin() *Plugin {
	return &Plugin{
		Name: "canvas-drag",
		OnPointerDown: &EventHandler{Priority: priorityCanvasPress, Handle: func(ev *Event) bool {
			e := ev.Editor
			middle := ev.Button == MouseButtonMiddle
			if !middle && (ev.Button != MouseButtonLeft || e.mode != ModeHand) {
				return false
			}
			e.beginGesture(&PanGesture{Start: ev.Screen.Sub(e.camera.Position), Middle: middle})
			return true
		}},
		OnPointerMove: &EventHandler{Handle: func(ev *Event) bool {
			e := ev.Editor
			g, ok := e.gesture.(*PanGesture)
			if !ok || (!g.Middle && e.mode != ModeHand) {
				return false
			}
			e.camera.PanTo(ev.Screen.Sub(g.Start))
			return true
		}},
		// Pan needs no pointer-up handling; the gesture slot is cleared by
		// the editor after every release.
	}
}

// --- Shape drawing ---

func shapeDrawingPlugin() *Plugin {
	return &Plugin{
		Name: "shape-drawing",
		OnPointerDown: &EventHandler{Priority: priorityCanvasPress, Handle: func(ev *Event) bool {
			e := ev.Editor
			if _, ok := modeExtensions[e.mode]; !ok || ev.Button != MouseButtonLeft {
				return false
			}
			return e.startShapeDrawing(ev.Canvas)
		}},
		OnPointerMove: &EventHandler{Handle: func(ev *Event) bool {
			e := ev.Editor
			g, ok := e.gesture.(*DrawShapeGesture)
			if !ok || e.mode != g.Mode {
				return false
			}
			e.updateShapeDrawing(g, ev.Canvas)
			return true
		}},
		OnPointerUp: &EventHandler{Handle: func(ev *Event) bool {
			e := ev.Editor
			g, ok := e.gesture.(*DrawShapeGesture)
			if !ok {
				return false
			}
			e.finishShapeDrawing(g)
			return true
		}},
	}
}

func (e *Editor) startShapeDrawing(start Vec2) bool {
	b := BoundsFromPoints(start, start)
	e.ClearSelection()
	id := e.CreateShapeNode(b, e.mode)
	if id == "" {
		return false
	}
	e.beginGesture(&DrawShapeGesture{NodeID: id, Start: start, Last: b, Mode: e.mode})
	return true
}

func (e *Editor) updateShapeDrawing(g *DrawShapeGesture, current Vec2) {
	g.Last = BoundsFromPoints(g.Start, current)
	e.UpdateNodeProperties(g.NodeID, PatchGeometry(
		Vec2{g.Last.Left, g.Last.Top},
		Vec2{g.Last.Width(), g.Last.Height()},
	))
}

// finishShapeDrawing applies the minimum-size floor and returns to select
// mode. A shape smaller than MinShapeSize on either side becomes a
// DefaultShapeSize square at the same top-left corner.
func (e *Editor) finishShapeDrawing(g *DrawShapeGesture) {
	if g.Last.Width() < e.cfg.MinShapeSize || g.Last.Height() < e.cfg.MinShapeSize {
		d := e.cfg.DefaultShapeSize
		e.UpdateNodeProperties(g.NodeID, PatchGeometry(Vec2{g.Last.Left, g.Last.Top}, Vec2{d, d}))
	}
	e.endGesture()
	e.SetMode(ModeSelect)
}

// --- Node dragging ---

func nodeDraggingPlugin() *Plugin {
	return &Plugin{
		Name: "node-dragging",
		OnPointerDown: &EventHandler{Priority: priorityNodePress, Handle: func(ev *Event) bool {
			e := ev.Editor
			if ev.Button != MouseButtonLeft || e.mode != ModeSelect || ev.Target.Kind != HitNode {
				return false
			}
			e.startNodeDragging(ev.Target.NodeID, ev.Screen, ev.Modifiers)
			return true
		}},
		OnPointerMove: &EventHandler{Handle: func(ev *Event) bool {
			e := ev.Editor
			g, ok := e.gesture.(*DragNodesGesture)
			if !ok || e.mode != ModeSelect {
				return false
			}
			delta := ScaledDelta(g.Start, ev.Screen, e.camera.Scale)
			for _, id := range g.Order {
				e.UpdateNodeProperties(id, PatchPosition(g.Initial[id].Add(delta)))
			}
			return true
		}},
		OnPointerUp: &EventHandler{Handle: func(ev *Event) bool {
			if _, ok := ev.Editor.gesture.(*DragNodesGesture); !ok {
				return false
			}
			ev.Editor.endGesture()
			return true
		}},
	}
}

// startNodeDragging updates the selection for a press on a node and
// snapshots the positions of the nodes that will move. Without Ctrl/Cmd an
// unselected node becomes the only selection; with it, the node is added.
func (e *Editor) startNodeDragging(id string, screen Vec2, mods KeyModifiers) {
	if !e.IsSelected(id) {
		if mods.CtrlOrCmd() {
			e.AddToSelection(id)
		} else {
			e.SetSelection(id)
		}
	}
	g := &DragNodesGesture{Start: screen, Initial: make(map[string]Vec2)}
	for _, n := range e.selectedNodes(e.LiveDocument()) {
		g.Initial[n.ID] = n.Position
		g.Order = append(g.Order, n.ID)
	}
	e.beginGesture(g)
}

// --- Rotation ---

func rotationPlugin() *Plugin {
	return &Plugin{
		Name: "rotation",
		OnPointerDown: &EventHandler{Priority: priorityRotateHandle, Handle: func(ev *Event) bool {
			e := ev.Editor
			if ev.Button != MouseButtonLeft || e.mode != ModeSelect || ev.Target.Kind != HitRotateHandle {
				return false
			}
			return e.startRotation(ev.Canvas)
		}},
		OnPointerMove: &EventHandler{Handle: func(ev *Event) bool {
			g, ok := ev.Editor.gesture.(*RotateGesture)
			if !ok {
				return false
			}
			ev.Editor.updateRotation(g, ev.Canvas)
			return true
		}},
		OnPointerUp: &EventHandler{Handle: func(ev *Event) bool {
			g, ok := ev.Editor.gesture.(*RotateGesture)
			if !ok {
				return false
			}
			ev.Editor.finishRotation(g)
			return true
		}},
	}
}

func pointerAngle(pivot, p Vec2) float64 {
	return radToDeg(math.Atan2(p.Y-pivot.Y, p.X-pivot.X))
}

func (e *Editor) snapshotSelection(doc Document) (map[string]nodeSnapshot, []string) {
	snaps := make(map[string]nodeSnapshot)
	var order []string
	for _, n := range e.selectedNodes(doc) {
		snaps[n.ID] = nodeSnapshot{Position: n.Position, Size: n.Size, Rotation: n.Rotation}
		order = append(order, n.ID)
	}
	return snaps, order
}

func (e *Editor) startRotation(p Vec2) bool {
	doc := e.LiveDocument()
	env, ok := e.selectionEnvelope(doc)
	if !ok {
		return false
	}
	pivot := env.Center()
	initial, order := e.snapshotSelection(doc)
	e.beginGesture(&RotateGesture{
		Pivot:      pivot,
		StartAngle: pointerAngle(pivot, p),
		Initial:    initial,
		Order:      order,
	})
	return true
}

// updateRotation rotates every snapshot by the signed pointer angle change.
// A lone node snaps to the configured angles; groups never snap.
func (e *Editor) updateRotation(g *RotateGesture, p Vec2) {
	delta := SignedAngleDelta(pointerAngle(g.Pivot, p) - g.StartAngle)
	if g.Current == nil {
		g.Current = make(map[string]nodeSnapshot, len(g.Order))
	}
	single := len(g.Order) == 1
	for _, id := range g.Order {
		s := g.Initial[id]
		var snapped *float64
		if single {
			r := SnapRotation(NormalizeDegrees(s.Rotation+delta), e.cfg.SnapAngles, e.cfg.SnapThreshold)
			snapped = &r
		}
		pos, rot := rotateNode(s, g.Pivot, delta, snapped)
		g.Current[id] = nodeSnapshot{Position: pos, Size: s.Size, Rotation: rot}
		e.UpdateNodeProperties(id, PatchTransform(pos, rot))
	}
}

// finishRotation rounds positions to integers and rotations to whole
// degrees in [0, 360).
func (e *Editor) finishRotation(g *RotateGesture) {
	for _, id := range g.Order {
		cur, ok := g.Current[id]
		if !ok {
			continue
		}
		e.UpdateNodeProperties(id, PatchTransform(cur.Position.Round(), NormalizeDegrees(math.Round(cur.Rotation))))
	}
	e.endGesture()
}

// --- Resize ---

func resizePlugin() *Plugin {
	return &Plugin{
		Name: "resize",
		OnPointerDown: &EventHandler{Priority: priorityResizeHandle, Handle: func(ev *Event) bool {
			e := ev.Editor
			if ev.Button != MouseButtonLeft || e.mode != ModeSelect || ev.Target.Kind != HitResizeHandle {
				return false
			}
			return e.startResize(ev.Target.Handle, ev.Screen)
		}},
		OnPointerMove: &EventHandler{Handle: func(ev *Event) bool {
			g, ok := ev.Editor.gesture.(*ResizeGesture)
			if !ok {
				return false
			}
			ev.Editor.updateResize(g, ev.Screen)
			return true
		}},
		OnPointerUp: &EventHandler{Handle: func(ev *Event) bool {
			if _, ok := ev.Editor.gesture.(*ResizeGesture); !ok {
				return false
			}
			ev.Editor.endGesture()
			return true
		}},
	}
}

func (e *Editor) startResize(h ResizeHandle, screen Vec2) bool {
	doc := e.LiveDocument()
	env, ok := e.selectionEnvelope(doc)
	if !ok || h == HandleNone {
		return false
	}
	initial, order := e.snapshotSelection(doc)
	e.beginGesture(&ResizeGesture{
		Handle:   h,
		Start:    screen,
		Envelope: env,
		Initial:  initial,
		Order:    order,
	})
	return true
}

func (e *Editor) updateResize(g *ResizeGesture, screen Vec2) {
	delta := ScaledDelta(g.Start, screen, e.camera.Scale)
	newEnv := resizeBounds(g.Envelope, g.Handle, delta)
	for _, id := range g.Order {
		pos, size := resizeNode(g.Initial[id], g.Envelope, newEnv)
		e.UpdateNodeProperties(id, PatchGeometry(pos, size))
	}
}

// --- Freehand drawing ---

func pathDrawingPlugin() *Plugin {
	return &Plugin{
		Name: "path-drawing",
		OnPointerDown: &EventHandler{Priority: priorityCanvasPress, Handle: func(ev *Event) bool {
			e := ev.Editor
			if ev.Button != MouseButtonLeft || e.mode != ModeDraw {
				return false
			}
			e.beginGesture(&DrawPathGesture{Points: []Vec2{ev.Canvas}})
			return true
		}},
		OnPointerMove: &EventHandler{Handle: func(ev *Event) bool {
			g, ok := ev.Editor.gesture.(*DrawPathGesture)
			if !ok || ev.Editor.mode != ModeDraw {
				return false
			}
			g.Points = append(g.Points, ev.Canvas)
			return true
		}},
		OnPointerUp: &EventHandler{Handle: func(ev *Event) bool {
			e := ev.Editor
			g, ok := e.gesture.(*DrawPathGesture)
			if !ok {
				return false
			}
			if n, ok := buildPathNode(g.Points, e.cfg); ok {
				e.UpdateDocument(func(d Document) Document { return d.AddNodes(n) })
			}
			e.endGesture()
			return true
		}},
	}
}
