// Package model defines the domain types for the content graph.
package model

// Internal holds the build-system metadata attached to every node.
type Internal struct {
	// Type is the globally unique type tag. The first plugin to create a
	// node of a type owns that type for the rest of the build session.
	Type string `json:"type"`
	// Owner is the plugin that created the node. Set by the action layer,
	// immutable after creation.
	Owner string `json:"owner"`
	// ContentDigest is an opaque change-detection token supplied by the
	// creating plugin. Equal digests mean unchanged content.
	ContentDigest string `json:"contentDigest"`
	// MediaType and Content are optional raw-content hints for transformer
	// plugins.
	MediaType string `json:"mediaType,omitempty"`
	Content   string `json:"content,omitempty"`
	// FieldOwners maps extension-field name to the plugin that wrote it.
	FieldOwners map[string]string `json:"fieldOwners,omitempty"`
}

// Node is a typed, plugin-owned record in the content graph.
type Node struct {
	ID     string `json:"id"`
	Parent string `json:"parent,omitempty"`
	// Children holds linked child ids, unique, in first-link order.
	Children []string `json:"children,omitempty"`
	// Data is the plugin's own structured payload.
	Data map[string]any `json:"data,omitempty"`
	// Fields holds extension fields written by other plugins via the
	// field-extension operation, disjoint from Data.
	Fields   map[string]any `json:"fields,omitempty"`
	Internal Internal       `json:"internal"`
}

// Clone returns a copy of the node whose children slice and fields /
// field-owner maps are independent of the original, so a new revision can
// be built without mutating a caller-held record. Values inside Data and
// Fields are shared.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Children != nil {
		c.Children = append([]string(nil), n.Children...)
	}
	if n.Data != nil {
		c.Data = make(map[string]any, len(n.Data))
		for k, v := range n.Data {
			c.Data[k] = v
		}
	}
	if n.Fields != nil {
		c.Fields = make(map[string]any, len(n.Fields))
		for k, v := range n.Fields {
			c.Fields[k] = v
		}
	}
	if n.Internal.FieldOwners != nil {
		c.Internal.FieldOwners = make(map[string]string, len(n.Internal.FieldOwners))
		for k, v := range n.Internal.FieldOwners {
			c.Internal.FieldOwners[k] = v
		}
	}
	return &c
}

// HasChild reports whether id is already linked as a child of n.
func (n *Node) HasChild(id string) bool {
	for _, c := range n.Children {
		if c == id {
			return true
		}
	}
	return false
}
