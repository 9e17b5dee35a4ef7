package ocif

// OverlayKind identifies an editor overlay drawn above the nodes.
type OverlayKind uint8

const (
	OverlaySelectionBox OverlayKind = iota // envelope around the selection
	OverlayResizeHandle                    // one of the eight resize squares
	OverlayRotateHandle                    // the rotate knob above the envelope
	OverlaySelectRect                      // live rubber-band rectangle
	OverlayStroke                          // freehand points being drawn
)

// Overlay is one editor decoration in canvas coordinates. Handle sizes are
// already divided by the camera scale so they keep a constant screen size.
type Overlay struct {
	Kind   OverlayKind
	Rect   Rect
	Handle ResizeHandle // OverlayResizeHandle only
	Points []Vec2       // OverlayStroke only
}

// Render paints the document and the editor overlays. Placed nodes are
// drawn in document order, each extension record through the renderer
// registered for its type; records of unknown type draw nothing. A node's
// resource text is drawn on top of its shape.
func (e *Editor) Render(p Painter) {
	doc := e.LiveDocument()
	for i := range doc.Nodes {
		n := &doc.Nodes[i]
		if !n.Placed {
			continue
		}
		e.renderNode(p, &doc, n)
	}
	for _, o := range e.Overlays() {
		p.Overlay(o)
	}
}

func (e *Editor) renderNode(p Painter, doc *Document, n *Node) {
	for _, ext := range n.Data {
		def, ok := e.plugins.Extension(ext.ExtensionType())
		if !ok || def.Render == nil {
			continue
		}
		rc := RenderContext{Node: n, Extension: ext, Document: doc, Editor: e}
		e.plugins.safeCall(def.Type, "render", func() bool {
			def.Render(p, rc)
			return true
		})
	}
	if n.Resource == "" {
		return
	}
	if r, ok := doc.ResourceByID(n.Resource); ok {
		if text := r.Text(); text != "" {
			p.Text(n.Box(), n.Rotation, text)
		}
	}
}

// Overlays returns the decorations for the current editor state: the
// selection envelope with its handles (hidden while nodes are being moved,
// rotated or resized), the live selection rectangle, and the freehand
// stroke in progress.
func (e *Editor) Overlays() []Overlay {
	var out []Overlay
	switch g := e.gesture.(type) {
	case *SelectGesture:
		out = append(out, Overlay{Kind: OverlaySelectRect, Rect: g.Current.Rect()})
	case *DrawPathGesture:
		out = append(out, Overlay{Kind: OverlayStroke, Points: append([]Vec2(nil), g.Points...)})
	}
	if e.mode != ModeSelect || len(e.selection) == 0 {
		return out
	}
	switch e.gesture.(type) {
	case *DragNodesGesture, *RotateGesture, *ResizeGesture:
		return out
	}
	env, ok := e.SelectionEnvelope()
	if !ok {
		return out
	}
	out = append(out, Overlay{Kind: OverlaySelectionBox, Rect: env.Rect()})
	scale := e.camera.Scale
	hs := e.cfg.HandleSize / scale
	for _, h := range resizeHandles {
		a := h.anchor(env)
		out = append(out, Overlay{
			Kind:   OverlayResizeHandle,
			Handle: h,
			Rect:   Rect{X: a.X - hs/2, Y: a.Y - hs/2, Width: hs, Height: hs},
		})
	}
	rc := e.camera.ScreenToCanvas(e.rotateHandlePoint(env))
	out = append(out, Overlay{
		Kind: OverlayRotateHandle,
		Rect: Rect{X: rc.X - hs, Y: rc.Y - hs, Width: 2 * hs, Height: 2 * hs},
	})
	return out
}
