// Package event defines the discriminated events emitted by the mutation
// action layer. Events are the sole boundary between the action layer and
// the stores that apply them: an action decides which event (if any) to
// emit, and the session reducer applies it.
package event

// Kind discriminates event payloads.
type Kind string

// Event kinds.
const (
	CreatePage                   Kind = "CreatePage"
	DeletePage                   Kind = "DeletePage"
	CreateLayout                 Kind = "CreateLayout"
	DeleteLayout                 Kind = "DeleteLayout"
	CreateNode                   Kind = "CreateNode"
	TouchNode                    Kind = "TouchNode"
	DeleteNode                   Kind = "DeleteNode"
	DeleteNodes                  Kind = "DeleteNodes"
	AddFieldToNode               Kind = "AddFieldToNode"
	AddChildToParent             Kind = "AddChildToParent"
	CreateComponentDependency    Kind = "CreateComponentDependency"
	DeleteComponentsDependencies Kind = "DeleteComponentsDependencies"
	ReplaceComponentQuery        Kind = "ReplaceComponentQuery"
	SetWebpackConfig             Kind = "SetWebpackConfig"
	ReplaceWebpackConfig         Kind = "ReplaceWebpackConfig"
	CreateJob                    Kind = "CreateJob"
	SetJob                       Kind = "SetJob"
	EndJob                       Kind = "EndJob"
	SetPluginStatus              Kind = "SetPluginStatus"
	CreateRedirect               Kind = "CreateRedirect"
	ValidationError              Kind = "ValidationError"
)

// Event is one accepted state transition, tagged with the plugin that
// requested it and an optional trace id for correlation.
type Event struct {
	Kind    Kind   `json:"kind"`
	Plugin  string `json:"plugin,omitempty"`
	TraceID string `json:"traceId,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// New builds an event.
func New(kind Kind, plugin, traceID string, payload any) Event {
	return Event{Kind: kind, Plugin: plugin, TraceID: traceID, Payload: payload}
}
