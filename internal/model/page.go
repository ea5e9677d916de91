package model

import "time"

// Page is a derived entity produced by the page-creation operation. Pages
// are not node-graph members; they consume nodes through the dependency
// tracker.
type Page struct {
	Path      string         `json:"path"`
	Component string         `json:"component"`
	Context   map[string]any `json:"context,omitempty"`
	// JSONName, InternalComponentName, and ComponentChunkName are derived
	// deterministically from the path / component by the action layer.
	JSONName              string    `json:"jsonName"`
	InternalComponentName string    `json:"internalComponentName"`
	ComponentChunkName    string    `json:"componentChunkName"`
	Layout                string    `json:"layout,omitempty"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// Layout is a shared wrapper component around pages.
type Layout struct {
	ID        string         `json:"id"`
	MachineID string         `json:"machineId"`
	Component string         `json:"component"`
	Context   map[string]any `json:"context,omitempty"`

	ComponentChunkName string `json:"componentChunkName"`
}

// Redirect maps an old path to a new one in the rendered site.
type Redirect struct {
	FromPath          string `json:"fromPath"`
	ToPath            string `json:"toPath"`
	IsPermanent       bool   `json:"isPermanent,omitempty"`
	RedirectInBrowser bool   `json:"redirectInBrowser,omitempty"`
}
