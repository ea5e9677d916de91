package event

import "github.com/danielfarrell/gatsby/internal/model"

// NodeField carries a field-extension write: the full new node revision
// plus the field that changed.
type NodeField struct {
	Node  *model.Node `json:"node"`
	Name  string      `json:"name"`
	Value any         `json:"value"`
}

// ChildLink links a child node to its parent.
type ChildLink struct {
	ParentID string `json:"parentId"`
	ChildID  string `json:"childId"`
}

// Dependency records that a page's rendered output depends on a node or on
// a connection over nodes of a type.
type Dependency struct {
	Path       string `json:"path"`
	NodeID     string `json:"nodeId,omitempty"`
	Connection string `json:"connection,omitempty"`
}

// ComponentQuery replaces the GraphQL query attached to a component.
type ComponentQuery struct {
	ComponentPath string `json:"componentPath"`
	Query         string `json:"query"`
}
