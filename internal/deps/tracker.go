// Package deps records which rendered pages depend on which nodes and
// node connections, so incremental rebuilds can invalidate precisely.
package deps

import (
	"sort"
	"sync"
)

type edge struct {
	nodeID     string
	connection string
}

// Tracker is the page-to-node dependency index. All methods are safe for
// concurrent use.
type Tracker struct {
	mu     sync.RWMutex
	byPath map[string]map[edge]struct{}
	byNode map[string]map[string]struct{}
	byConn map[string]map[string]struct{}
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		byPath: make(map[string]map[edge]struct{}),
		byNode: make(map[string]map[string]struct{}),
		byConn: make(map[string]map[string]struct{}),
	}
}

// Record adds a dependency from a page path to a node id and/or a
// connection type. Recording the same triple twice is a no-op.
func (t *Tracker) Record(path, nodeID, connection string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.byPath[path] == nil {
		t.byPath[path] = make(map[edge]struct{})
	}
	t.byPath[path][edge{nodeID: nodeID, connection: connection}] = struct{}{}
	if nodeID != "" {
		if t.byNode[nodeID] == nil {
			t.byNode[nodeID] = make(map[string]struct{})
		}
		t.byNode[nodeID][path] = struct{}{}
	}
	if connection != "" {
		if t.byConn[connection] == nil {
			t.byConn[connection] = make(map[string]struct{})
		}
		t.byConn[connection][path] = struct{}{}
	}
}

// ClearPaths removes every dependency record owned by the given page
// paths. Records for other paths are untouched.
func (t *Tracker) ClearPaths(paths []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, path := range paths {
		for e := range t.byPath[path] {
			if e.nodeID != "" {
				delete(t.byNode[e.nodeID], path)
				if len(t.byNode[e.nodeID]) == 0 {
					delete(t.byNode, e.nodeID)
				}
			}
			if e.connection != "" {
				delete(t.byConn[e.connection], path)
				if len(t.byConn[e.connection]) == 0 {
					delete(t.byConn, e.connection)
				}
			}
		}
		delete(t.byPath, path)
	}
}

// PathsDependingOnNode returns the page paths that depend on the node,
// sorted.
func (t *Tracker) PathsDependingOnNode(nodeID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return sortedKeys(t.byNode[nodeID])
}

// PathsDependingOnConnection returns the page paths that depend on a
// connection over nodes of the given type, sorted.
func (t *Tracker) PathsDependingOnConnection(connection string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return sortedKeys(t.byConn[connection])
}

// Len returns the number of dependency records.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, edges := range t.byPath {
		n += len(edges)
	}
	return n
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
