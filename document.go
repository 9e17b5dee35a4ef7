package ocif

import (
	"encoding/json"
	"fmt"
)

// OCIFVersion is written into documents created from scratch.
const OCIFVersion = "https://canvasprotocol.org/ocif/v0.5"

// Representation is one encoding of a resource's content.
type Representation struct {
	MimeType string `json:"mime-type,omitempty"`
	Content  string `json:"content,omitempty"`
	Location string `json:"location,omitempty"`
}

// Resource is content that nodes may reference by ID.
type Resource struct {
	ID              string
	Representations []Representation

	// Extra holds members this package does not interpret.
	Extra map[string]json.RawMessage
}

// Text returns the content of the first representation that carries inline
// content, or "" when there is none.
func (r *Resource) Text() string {
	for _, rep := range r.Representations {
		if rep.Content != "" {
			return rep.Content
		}
	}
	return ""
}

func (r Resource) clone() Resource {
	if r.Representations != nil {
		r.Representations = append([]Representation(nil), r.Representations...)
	}
	if r.Extra != nil {
		extra := make(map[string]json.RawMessage, len(r.Extra))
		for k, v := range r.Extra {
			extra[k] = v
		}
		r.Extra = extra
	}
	return r
}

// UnmarshalJSON decodes a resource, keeping unknown members.
func (r *Resource) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	*r = Resource{}
	if raw, ok := members["id"]; ok {
		if err := json.Unmarshal(raw, &r.ID); err != nil {
			return fmt.Errorf("resource id: %w", err)
		}
	}
	if raw, ok := members["representations"]; ok {
		// Malformed representation lists are tolerated and read as empty.
		_ = json.Unmarshal(raw, &r.Representations)
	}
	delete(members, "id")
	delete(members, "representations")
	if len(members) > 0 {
		r.Extra = members
	}
	return nil
}

// MarshalJSON encodes the resource in OCIF form.
func (r Resource) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+2)
	for k, v := range r.Extra {
		out[k] = v
	}
	out["id"] = r.ID
	reps := r.Representations
	if reps == nil {
		reps = []Representation{}
	}
	out["representations"] = reps
	return json.Marshal(out)
}

// Document is an OCIF document. Documents are values: every method that
// changes content returns a new Document and leaves the receiver untouched.
type Document struct {
	OCIF      string
	Nodes     []Node
	Resources []Resource

	// Extra holds top-level members this package does not interpret
	// (relations, schemas, and so on).
	Extra map[string]json.RawMessage
}

// NewDocument returns an empty document tagged with OCIFVersion.
func NewDocument() Document {
	return Document{OCIF: OCIFVersion}
}

// ParseDocument decodes an OCIF document. Only malformed JSON is an error;
// short geometry arrays, unknown extension types and dangling resource
// references are accepted.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// UnmarshalJSON decodes the document members.
func (d *Document) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	*d = Document{}
	if raw, ok := members["ocif"]; ok {
		_ = json.Unmarshal(raw, &d.OCIF)
	}
	if raw, ok := members["nodes"]; ok {
		if err := json.Unmarshal(raw, &d.Nodes); err != nil {
			return fmt.Errorf("nodes: %w", err)
		}
	}
	if raw, ok := members["resources"]; ok {
		if err := json.Unmarshal(raw, &d.Resources); err != nil {
			return fmt.Errorf("resources: %w", err)
		}
	}
	delete(members, "ocif")
	delete(members, "nodes")
	delete(members, "resources")
	if len(members) > 0 {
		d.Extra = members
	}
	return nil
}

// MarshalJSON encodes the document in OCIF form. Nodes and resources are
// always written as arrays, even when empty.
func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Extra)+3)
	for k, v := range d.Extra {
		out[k] = v
	}
	out["ocif"] = d.OCIF
	nodes := d.Nodes
	if nodes == nil {
		nodes = []Node{}
	}
	resources := d.Resources
	if resources == nil {
		resources = []Resource{}
	}
	out["nodes"] = nodes
	out["resources"] = resources
	return json.Marshal(out)
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	out := d
	if d.Nodes != nil {
		out.Nodes = make([]Node, len(d.Nodes))
		for i := range d.Nodes {
			out.Nodes[i] = d.Nodes[i].clone()
		}
	}
	if d.Resources != nil {
		out.Resources = make([]Resource, len(d.Resources))
		for i := range d.Resources {
			out.Resources[i] = d.Resources[i].clone()
		}
	}
	if d.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(d.Extra))
		for k, v := range d.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// NodeIndex returns the position of the node with the given ID, or -1.
func (d Document) NodeIndex(id string) int {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return i
		}
	}
	return -1
}

// NodeByID returns the node with the given ID. A miss is not an error.
func (d Document) NodeByID(id string) (Node, bool) {
	if i := d.NodeIndex(id); i >= 0 {
		return d.Nodes[i], true
	}
	return Node{}, false
}

// ResourceByID returns the resource with the given ID.
func (d Document) ResourceByID(id string) (Resource, bool) {
	for i := range d.Resources {
		if d.Resources[i].ID == id {
			return d.Resources[i], true
		}
	}
	return Resource{}, false
}

// withNodes returns d sharing everything but the node slice.
func (d Document) withNodes(nodes []Node) Document {
	d.Nodes = nodes
	return d
}

// withResources returns d sharing everything but the resource slice.
func (d Document) withResources(resources []Resource) Document {
	d.Resources = resources
	return d
}

// AddNodes returns a copy of d with nodes appended.
func (d Document) AddNodes(nodes ...Node) Document {
	out := make([]Node, 0, len(d.Nodes)+len(nodes))
	out = append(out, d.Nodes...)
	out = append(out, nodes...)
	return d.withNodes(out)
}

// AddResources returns a copy of d with resources appended.
func (d Document) AddResources(resources ...Resource) Document {
	out := make([]Resource, 0, len(d.Resources)+len(resources))
	out = append(out, d.Resources...)
	out = append(out, resources...)
	return d.withResources(out)
}

// PatchNodes returns a copy of d with each patch applied to the node of the
// same ID. Patches for unknown IDs are ignored.
func (d Document) PatchNodes(patches map[string]NodePatch) Document {
	if len(patches) == 0 {
		return d
	}
	out := make([]Node, len(d.Nodes))
	for i, n := range d.Nodes {
		if p, ok := patches[n.ID]; ok {
			n = p.apply(n)
		}
		out[i] = n
	}
	return d.withNodes(out)
}

// DeleteNodes returns a copy of d without the given nodes and without the
// resources only the removed nodes referenced. A resource still used by a
// surviving node is kept.
func (d Document) DeleteNodes(ids map[string]struct{}) Document {
	if len(ids) == 0 {
		return d
	}
	dropped := make(map[string]struct{})
	nodes := make([]Node, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		if _, ok := ids[n.ID]; ok {
			if n.Resource != "" {
				dropped[n.Resource] = struct{}{}
			}
			continue
		}
		nodes = append(nodes, n)
	}
	for _, n := range nodes {
		delete(dropped, n.Resource)
	}
	resources := make([]Resource, 0, len(d.Resources))
	for _, r := range d.Resources {
		if _, ok := dropped[r.ID]; ok {
			continue
		}
		resources = append(resources, r)
	}
	return d.withNodes(nodes).withResources(resources)
}
