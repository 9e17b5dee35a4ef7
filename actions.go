package ocif

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Clipboard is a text clipboard the editor mirrors copies into. The
// ebitenhost package provides one backed by the system clipboard.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// CopiedNode is a node together with the resource it referenced when it
// was copied.
type CopiedNode struct {
	Node     Node      `json:"node"`
	Resource *Resource `json:"resource,omitempty"`
}

// clipboardBuffer is the per-editor copy buffer.
type clipboardBuffer struct {
	nodes []CopiedNode
}

// clipboardPayload is the JSON written to a system clipboard.
type clipboardPayload struct {
	OCIFClipboard []CopiedNode `json:"ocifClipboard"`
}

// NewID returns a fresh random identifier for nodes and resources.
func NewID() string { return uuid.NewString() }

// SelectAll selects every node in the document.
func (e *Editor) SelectAll() {
	ids := make([]string, 0, len(e.doc.Nodes))
	for _, n := range e.doc.Nodes {
		ids = append(ids, n.ID)
	}
	e.SetSelection(ids...)
}

// DeleteSelected removes the selected nodes and the resources no remaining
// node references, then clears the selection.
func (e *Editor) DeleteSelected() {
	if len(e.selection) == 0 {
		return
	}
	ids := e.selection
	e.Flush()
	e.UpdateDocument(func(d Document) Document {
		return d.DeleteNodes(ids)
	})
	e.ClearSelection()
}

// CopySelected stores the selected nodes and their resources in the
// editor's clipboard buffer and returns them. When a system clipboard is
// configured, the copy is also written there as JSON.
func (e *Editor) CopySelected() []CopiedNode {
	doc := e.LiveDocument()
	var copied []CopiedNode
	for _, n := range doc.Nodes {
		if _, ok := e.selection[n.ID]; !ok {
			continue
		}
		c := CopiedNode{Node: n.clone()}
		if n.Resource != "" {
			if r, ok := doc.ResourceByID(n.Resource); ok {
				r = r.clone()
				c.Resource = &r
			}
		}
		copied = append(copied, c)
	}
	e.clipboard.nodes = copied
	if e.sysClipboard != nil && len(copied) > 0 {
		if err := e.writeSystemClipboard(copied); err != nil {
			e.log.Warn("clipboard write failed", "err", err)
		}
	}
	return copied
}

func (e *Editor) writeSystemClipboard(copied []CopiedNode) error {
	raw, err := json.Marshal(clipboardPayload{OCIFClipboard: copied})
	if err != nil {
		return fmt.Errorf("encode clipboard: %w", err)
	}
	return e.sysClipboard.WriteAll(string(raw))
}

// readSystemClipboard decodes nodes copied by an editor, possibly in
// another process. Clipboard text of any other shape yields nothing.
func (e *Editor) readSystemClipboard() []CopiedNode {
	if e.sysClipboard == nil {
		return nil
	}
	text, err := e.sysClipboard.ReadAll()
	if err != nil || text == "" {
		return nil
	}
	var payload clipboardPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil
	}
	return payload.OCIFClipboard
}

// Paste inserts copies of the clipboard contents offset by PasteOffset.
// Nodes and their resources get fresh IDs and the pasted nodes become the
// selection. The editor's own buffer is preferred over the system
// clipboard.
func (e *Editor) Paste() {
	copied := e.clipboard.nodes
	if len(copied) == 0 {
		copied = e.readSystemClipboard()
	}
	if len(copied) == 0 {
		return
	}

	off := e.cfg.PasteOffset
	nodes := make([]Node, 0, len(copied))
	var resources []Resource
	ids := make([]string, 0, len(copied))
	for _, c := range copied {
		n := offsetNode(c.Node.clone(), off)
		n.ID = NewID()
		if c.Resource != nil {
			r := c.Resource.clone()
			r.ID = NewID()
			resources = append(resources, r)
			n.Resource = r.ID
		}
		nodes = append(nodes, n)
		ids = append(ids, n.ID)
	}

	e.Flush()
	e.UpdateDocument(func(d Document) Document {
		return d.AddNodes(nodes...).AddResources(resources...)
	})
	e.SetSelection(ids...)
}

// offsetNode shifts a node's position by off on both axes. A node without
// a usable position is given one at (off, off).
func offsetNode(n Node, off float64) Node {
	if n.Placed {
		n.Position = n.Position.Add(Vec2{off, off})
		return n
	}
	pos, _ := decodePair(n.rawPosition)
	n.Position = pos.Add(Vec2{off, off})
	if size, ok := decodePair(n.rawSize); ok {
		n.Size = size
		n.Placed = true
		n.rawPosition, n.rawSize = nil, nil
		return n
	}
	n.rawPosition, _ = json.Marshal([]float64{n.Position.X, n.Position.Y})
	return n
}

// MoveSelected nudges every selected placed node by (dx, dy).
func (e *Editor) MoveSelected(dx, dy float64) {
	for _, n := range e.selectedNodes(e.LiveDocument()) {
		e.UpdateNodeProperties(n.ID, PatchPosition(n.Position.Add(Vec2{dx, dy})))
	}
}

// CreateShapeNode adds a node with the default extension record for mode
// and returns its ID. It returns "" when no extension is registered for
// the mode.
func (e *Editor) CreateShapeNode(b Bounds, mode Mode) string {
	typ, ok := modeExtensions[mode]
	if !ok {
		return ""
	}
	def, ok := e.plugins.Extension(typ)
	if !ok || def.Default == nil {
		return ""
	}
	n := Node{
		ID:       NewID(),
		Position: Vec2{b.Left, b.Top},
		Size:     Vec2{b.Width(), b.Height()},
		Data:     []Extension{def.Default(e.cfg)},
		Placed:   true,
	}
	e.UpdateDocument(func(d Document) Document { return d.AddNodes(n) })
	return n.ID
}

// modeExtensions maps drawing modes to the extension type they create.
var modeExtensions = map[Mode]string{
	ModeRectangle: ExtRect,
	ModeOval:      ExtOval,
}
