package ocif

import (
	"encoding/json"
	"fmt"
)

// Built-in extension type identifiers.
const (
	ExtRect = "@ocif/node/rect"
	ExtOval = "@ocif/node/oval"
	ExtPath = "@ocif/node/path"
)

// Extension is one typed record in a node's data list. The type string
// selects which plugin renders and edits it. Implementations are
// RectExtension, OvalExtension, PathExtension and RawExtension.
type Extension interface {
	ExtensionType() string
}

// ShapeStyle carries the stroke and fill attributes shared by rect and oval
// records.
type ShapeStyle struct {
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	StrokeColor string  `json:"strokeColor,omitempty"`
	FillColor   string  `json:"fillColor,omitempty"`
}

// RectExtension renders the node as a rectangle.
type RectExtension struct {
	ShapeStyle
}

// ExtensionType implements Extension.
func (RectExtension) ExtensionType() string { return ExtRect }

// OvalExtension renders the node as an ellipse inscribed in its bounds.
type OvalExtension struct {
	ShapeStyle
}

// ExtensionType implements Extension.
func (OvalExtension) ExtensionType() string { return ExtOval }

// PathExtension renders an SVG path description in node-local coordinates.
type PathExtension struct {
	Path        string  `json:"path"`
	FillColor   string  `json:"fillColor,omitempty"`
	StrokeColor string  `json:"strokeColor,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

// ExtensionType implements Extension.
func (PathExtension) ExtensionType() string { return ExtPath }

// RawExtension preserves a record whose type has no decoder. It is written
// back unchanged.
type RawExtension struct {
	Type string
	Raw  json.RawMessage
}

// ExtensionType implements Extension.
func (r RawExtension) ExtensionType() string { return r.Type }

// extensionDecoders maps a type tag to the decoder for its record.
var extensionDecoders = map[string]func(json.RawMessage) (Extension, error){
	ExtRect: func(raw json.RawMessage) (Extension, error) {
		var e RectExtension
		err := json.Unmarshal(raw, &e)
		return e, err
	},
	ExtOval: func(raw json.RawMessage) (Extension, error) {
		var e OvalExtension
		err := json.Unmarshal(raw, &e)
		return e, err
	},
	ExtPath: func(raw json.RawMessage) (Extension, error) {
		var e PathExtension
		err := json.Unmarshal(raw, &e)
		return e, err
	},
}

// decodeExtension decodes one data record. Unknown types and records whose
// known type fails to decode are kept as RawExtension.
func decodeExtension(raw json.RawMessage) Extension {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return RawExtension{Raw: append(json.RawMessage(nil), raw...)}
	}
	if dec, ok := extensionDecoders[head.Type]; ok {
		if ext, err := dec(raw); err == nil {
			return ext
		}
	}
	return RawExtension{Type: head.Type, Raw: append(json.RawMessage(nil), raw...)}
}

// encodeExtension writes a record with its type tag first.
func encodeExtension(ext Extension) (json.RawMessage, error) {
	if raw, ok := ext.(RawExtension); ok {
		if len(raw.Raw) == 0 {
			return json.Marshal(map[string]string{"type": raw.Type})
		}
		return raw.Raw, nil
	}
	body, err := json.Marshal(ext)
	if err != nil {
		return nil, fmt.Errorf("encode extension %s: %w", ext.ExtensionType(), err)
	}
	typ, _ := json.Marshal(ext.ExtensionType())
	out := make([]byte, 0, len(body)+len(typ)+10)
	out = append(out, `{"type":`...)
	out = append(out, typ...)
	if len(body) > 2 {
		out = append(out, ',')
		out = append(out, body[1:]...)
	} else {
		out = append(out, '}')
	}
	return out, nil
}

// Painter draws primitive shapes in canvas coordinates. Hosts implement it
// on top of their rendering backend and apply the editor camera; rect is
// the node's unrotated box and rotation (degrees) is applied about its
// center. Path coordinates are relative to rect's top-left corner.
type Painter interface {
	Rect(rect Rect, rotation float64, style ShapeStyle)
	Ellipse(rect Rect, rotation float64, style ShapeStyle)
	Path(rect Rect, rotation float64, path string, style ShapeStyle)
	Text(rect Rect, rotation float64, text string)
	Overlay(o Overlay)
}

// RenderContext is passed to extension render functions.
type RenderContext struct {
	Node      *Node
	Extension Extension
	Document  *Document
	Editor    *Editor
}

// ExtensionDefinition is a plugin's contribution for one extension type: how
// to draw it and what a freshly created record looks like.
type ExtensionDefinition struct {
	Type        string
	DisplayName string
	Render      func(p Painter, rc RenderContext)
	Default     func(cfg Config) Extension
}
