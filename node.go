package ocif

import (
	"encoding/json"
	"fmt"
)

// Node is a positioned, sized, optionally rotated element of a document.
// Geometry is normalized once when the document is decoded: Placed is true
// only when the source carried position and size arrays of at least two
// entries. Unplaced nodes are kept for round-tripping but never rendered,
// hit-tested, selected by rectangle, or moved by gestures.
type Node struct {
	ID       string
	Position Vec2
	Size     Vec2
	Rotation float64 // degrees, clockwise
	Resource string  // optional Resource.ID
	Data     []Extension
	Placed   bool

	// Extra holds members this package does not interpret.
	Extra map[string]json.RawMessage

	// rawPosition/rawSize keep short or absent arrays of unplaced nodes so
	// they encode exactly as they were read.
	rawPosition json.RawMessage
	rawSize     json.RawMessage
}

// Center returns the midpoint of the node's unrotated box.
func (n *Node) Center() Vec2 {
	return Vec2{n.Position.X + n.Size.X/2, n.Position.Y + n.Size.Y/2}
}

// Box returns the node's unrotated box.
func (n *Node) Box() Rect {
	return Rect{X: n.Position.X, Y: n.Position.Y, Width: n.Size.X, Height: n.Size.Y}
}

// clone returns a copy of n whose slices and maps are not shared.
func (n Node) clone() Node {
	if n.Data != nil {
		n.Data = append([]Extension(nil), n.Data...)
	}
	if n.Extra != nil {
		extra := make(map[string]json.RawMessage, len(n.Extra))
		for k, v := range n.Extra {
			extra[k] = v
		}
		n.Extra = extra
	}
	return n
}

// nodeKnownKeys are the members decoded into typed Node fields.
var nodeKnownKeys = []string{"id", "position", "size", "rotation", "resource", "data"}

// UnmarshalJSON decodes a node and normalizes its geometry.
func (n *Node) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	*n = Node{}

	if raw, ok := members["id"]; ok {
		if err := json.Unmarshal(raw, &n.ID); err != nil {
			return fmt.Errorf("node id: %w", err)
		}
	}

	pos, posOK := decodePair(members["position"])
	size, sizeOK := decodePair(members["size"])
	n.Position, n.Size = pos, size
	n.Placed = posOK && sizeOK
	if !n.Placed {
		n.rawPosition = members["position"]
		n.rawSize = members["size"]
	}

	if raw, ok := members["rotation"]; ok {
		// A non-numeric rotation is treated as absent.
		_ = json.Unmarshal(raw, &n.Rotation)
	}
	if raw, ok := members["resource"]; ok {
		_ = json.Unmarshal(raw, &n.Resource)
	}
	if raw, ok := members["data"]; ok {
		var records []json.RawMessage
		if err := json.Unmarshal(raw, &records); err == nil {
			n.Data = make([]Extension, 0, len(records))
			for _, rec := range records {
				n.Data = append(n.Data, decodeExtension(rec))
			}
		}
	}

	for _, k := range nodeKnownKeys {
		delete(members, k)
	}
	if len(members) > 0 {
		n.Extra = members
	}
	return nil
}

// MarshalJSON encodes the node in OCIF form.
func (n Node) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(n.Extra)+6)
	for k, v := range n.Extra {
		out[k] = v
	}
	out["id"] = n.ID
	if n.Placed {
		out["position"] = []float64{n.Position.X, n.Position.Y}
		out["size"] = []float64{n.Size.X, n.Size.Y}
	} else {
		if n.rawPosition != nil {
			out["position"] = n.rawPosition
		}
		if n.rawSize != nil {
			out["size"] = n.rawSize
		}
	}
	if n.Rotation != 0 {
		out["rotation"] = n.Rotation
	}
	if n.Resource != "" {
		out["resource"] = n.Resource
	}
	if len(n.Data) > 0 {
		records := make([]json.RawMessage, 0, len(n.Data))
		for _, ext := range n.Data {
			raw, err := encodeExtension(ext)
			if err != nil {
				return nil, fmt.Errorf("node %s: %w", n.ID, err)
			}
			records = append(records, raw)
		}
		out["data"] = records
	}
	return json.Marshal(out)
}

// decodePair reads a numeric array and reports whether it held at least two
// numbers. Extra entries (e.g. a z coordinate) are ignored.
func decodePair(raw json.RawMessage) (Vec2, bool) {
	if len(raw) == 0 {
		return Vec2{}, false
	}
	var vals []float64
	if err := json.Unmarshal(raw, &vals); err != nil || len(vals) < 2 {
		return Vec2{}, false
	}
	return Vec2{vals[0], vals[1]}, true
}

// NodePatch is a partial geometry update. Nil fields are left unchanged.
type NodePatch struct {
	Position *Vec2
	Size     *Vec2
	Rotation *float64
}

// merge overlays later onto p, field by field.
func (p NodePatch) merge(later NodePatch) NodePatch {
	if later.Position != nil {
		p.Position = later.Position
	}
	if later.Size != nil {
		p.Size = later.Size
	}
	if later.Rotation != nil {
		p.Rotation = later.Rotation
	}
	return p
}

// apply returns n with the patch applied. A node gains Placed once both a
// position and a size are known.
func (p NodePatch) apply(n Node) Node {
	if p.Position != nil {
		n.Position = *p.Position
	}
	if p.Size != nil {
		n.Size = *p.Size
	}
	if p.Rotation != nil {
		n.Rotation = *p.Rotation
	}
	if !n.Placed && p.Position != nil && p.Size != nil {
		n.Placed = true
		n.rawPosition, n.rawSize = nil, nil
	}
	return n
}

// PatchPosition is shorthand for a position-only patch.
func PatchPosition(v Vec2) NodePatch { return NodePatch{Position: &v} }

// PatchGeometry is shorthand for a position and size patch.
func PatchGeometry(pos, size Vec2) NodePatch { return NodePatch{Position: &pos, Size: &size} }

// PatchTransform is shorthand for a position and rotation patch.
func PatchTransform(pos Vec2, rotation float64) NodePatch {
	return NodePatch{Position: &pos, Rotation: &rotation}
}
