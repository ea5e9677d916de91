package session

import (
	"github.com/danielfarrell/gatsby/internal/actions"
	"github.com/danielfarrell/gatsby/internal/event"
	"github.com/danielfarrell/gatsby/internal/model"
)

// PluginAPI binds a plugin identity (and optional trace id) to every
// mutation operation. This is the surface handed to plugin code.
type PluginAPI struct {
	s       *Session
	plugin  string
	traceID string
}

// Plugin returns the mutation surface for the named plugin.
func (s *Session) Plugin(name string) *PluginAPI {
	return &PluginAPI{s: s, plugin: name}
}

// WithTrace returns a copy of the API tagging every operation with a
// trace/correlation id.
func (p *PluginAPI) WithTrace(traceID string) *PluginAPI {
	c := *p
	c.traceID = traceID
	return &c
}

// Name returns the bound plugin identity.
func (p *PluginAPI) Name() string { return p.plugin }

func (p *PluginAPI) dispatch(res actions.Result) (*event.Event, error) {
	return p.s.Dispatch(res)
}

// CreateNode submits a node to the graph.
func (p *PluginAPI) CreateNode(n *model.Node) (*event.Event, error) {
	return p.dispatch(p.s.Actions.CreateNode(n, p.plugin, p.traceID))
}

// TouchNode refreshes a node's liveness.
func (p *PluginAPI) TouchNode(id string) (*event.Event, error) {
	return p.dispatch(p.s.Actions.TouchNode(id, p.plugin, p.traceID))
}

// DeleteNode removes a node. Children are not cascaded.
func (p *PluginAPI) DeleteNode(id string) (*event.Event, error) {
	return p.dispatch(p.s.Actions.DeleteNode(id, p.plugin, p.traceID))
}

// DeleteNodes removes many nodes.
func (p *PluginAPI) DeleteNodes(ids []string) (*event.Event, error) {
	return p.dispatch(p.s.Actions.DeleteNodes(ids, p.plugin, p.traceID))
}

// CreateNodeField writes an extension field on an existing node.
func (p *PluginAPI) CreateNodeField(args actions.NodeFieldArgs) (*event.Event, error) {
	return p.dispatch(p.s.Actions.CreateNodeField(args, p.plugin, p.traceID))
}

// CreateParentChildLink links a child node to a parent.
func (p *PluginAPI) CreateParentChildLink(parentID, childID string) (*event.Event, error) {
	return p.dispatch(p.s.Actions.CreateParentChildLink(parentID, childID, p.plugin, p.traceID))
}

// CreatePage registers a rendered page.
func (p *PluginAPI) CreatePage(page *model.Page) (*event.Event, error) {
	return p.dispatch(p.s.Actions.CreatePage(page, p.plugin, p.traceID))
}

// DeletePage removes a page and its dependency records.
func (p *PluginAPI) DeletePage(path string) (*event.Event, error) {
	return p.dispatch(p.s.Actions.DeletePage(path, p.plugin, p.traceID))
}

// CreateLayout registers a layout component.
func (p *PluginAPI) CreateLayout(layout *model.Layout) (*event.Event, error) {
	return p.dispatch(p.s.Actions.CreateLayout(layout, p.plugin, p.traceID))
}

// DeleteLayout removes a layout.
func (p *PluginAPI) DeleteLayout(id string) (*event.Event, error) {
	return p.dispatch(p.s.Actions.DeleteLayout(id, p.plugin, p.traceID))
}

// CreatePageDependency records a page-to-node dependency edge.
func (p *PluginAPI) CreatePageDependency(path, nodeID, connection string) (*event.Event, error) {
	return p.dispatch(p.s.Actions.CreatePageDependency(path, nodeID, connection, p.plugin, p.traceID))
}

// DeleteComponentsDependencies clears dependency records for page paths.
func (p *PluginAPI) DeleteComponentsDependencies(paths []string) (*event.Event, error) {
	return p.dispatch(p.s.Actions.DeleteComponentsDependencies(paths, p.plugin, p.traceID))
}

// ReplaceComponentQuery swaps a component's query.
func (p *PluginAPI) ReplaceComponentQuery(componentPath, query string) (*event.Event, error) {
	return p.dispatch(p.s.Actions.ReplaceComponentQuery(componentPath, query, p.plugin, p.traceID))
}

// SetWebpackConfig merges bundler configuration.
func (p *PluginAPI) SetWebpackConfig(cfg map[string]any) (*event.Event, error) {
	return p.dispatch(p.s.Actions.SetWebpackConfig(cfg, p.plugin, p.traceID))
}

// ReplaceWebpackConfig replaces bundler configuration.
func (p *PluginAPI) ReplaceWebpackConfig(cfg map[string]any) (*event.Event, error) {
	return p.dispatch(p.s.Actions.ReplaceWebpackConfig(cfg, p.plugin, p.traceID))
}

// CreateJob announces external long-running work.
func (p *PluginAPI) CreateJob(job map[string]any) (*event.Event, error) {
	return p.dispatch(p.s.Actions.CreateJob(job, p.plugin, p.traceID))
}

// SetJob updates a job.
func (p *PluginAPI) SetJob(job map[string]any) (*event.Event, error) {
	return p.dispatch(p.s.Actions.SetJob(job, p.plugin, p.traceID))
}

// EndJob marks a job finished.
func (p *PluginAPI) EndJob(id string) (*event.Event, error) {
	return p.dispatch(p.s.Actions.EndJob(id, p.plugin, p.traceID))
}

// SetPluginStatus stores plugin bookkeeping state.
func (p *PluginAPI) SetPluginStatus(status map[string]any) (*event.Event, error) {
	return p.dispatch(p.s.Actions.SetPluginStatus(status, p.plugin, p.traceID))
}

// CreateRedirect registers a path redirect.
func (p *PluginAPI) CreateRedirect(r *model.Redirect) (*event.Event, error) {
	return p.dispatch(p.s.Actions.CreateRedirect(r, p.plugin, p.traceID))
}
