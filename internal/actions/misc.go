package actions

import (
	"github.com/danielfarrell/gatsby/internal/event"
)

// CreatePageDependency records that a page depends on a node or on a
// connection over a node type. Recording is idempotent.
func (a *Actions) CreatePageDependency(path, nodeID, connection, plugin, traceID string) Result {
	return Ok(event.New(event.CreateComponentDependency, plugin, traceID, event.Dependency{
		Path:       path,
		NodeID:     nodeID,
		Connection: connection,
	}))
}

// DeleteComponentsDependencies drops every dependency record owned by the
// given page paths, used when pages are deleted or rebuilt.
func (a *Actions) DeleteComponentsDependencies(paths []string, plugin, traceID string) Result {
	return Ok(event.New(event.DeleteComponentsDependencies, plugin, traceID, append([]string(nil), paths...)))
}

// ReplaceComponentQuery swaps the query attached to a component.
func (a *Actions) ReplaceComponentQuery(componentPath, query, plugin, traceID string) Result {
	return Ok(event.New(event.ReplaceComponentQuery, plugin, traceID, event.ComponentQuery{
		ComponentPath: componentPath,
		Query:         query,
	}))
}

// SetWebpackConfig merges plugin-supplied webpack configuration.
// Pass-through for the bundler collaborator.
func (a *Actions) SetWebpackConfig(cfg map[string]any, plugin, traceID string) Result {
	return Ok(event.New(event.SetWebpackConfig, plugin, traceID, cfg))
}

// ReplaceWebpackConfig replaces the webpack configuration outright.
func (a *Actions) ReplaceWebpackConfig(cfg map[string]any, plugin, traceID string) Result {
	return Ok(event.New(event.ReplaceWebpackConfig, plugin, traceID, cfg))
}

// CreateJob announces a long-running piece of external work. Job
// lifecycle is handled by the job-tracking collaborator.
func (a *Actions) CreateJob(job map[string]any, plugin, traceID string) Result {
	return Ok(event.New(event.CreateJob, plugin, traceID, job))
}

// SetJob updates a previously created job.
func (a *Actions) SetJob(job map[string]any, plugin, traceID string) Result {
	return Ok(event.New(event.SetJob, plugin, traceID, job))
}

// EndJob marks a job finished.
func (a *Actions) EndJob(id, plugin, traceID string) Result {
	return Ok(event.New(event.EndJob, plugin, traceID, map[string]any{"id": id}))
}

// SetPluginStatus stores a plugin's own bookkeeping state.
func (a *Actions) SetPluginStatus(status map[string]any, plugin, traceID string) Result {
	return Ok(event.New(event.SetPluginStatus, plugin, traceID, status))
}
