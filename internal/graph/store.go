// Package graph holds the authoritative in-memory node store. The store
// only changes through event application: the action layer decides which
// event to emit and the session reducer feeds it here, so all checks in
// the action layer observe a consistent snapshot.
package graph

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/danielfarrell/gatsby/internal/event"
	"github.com/danielfarrell/gatsby/internal/model"
)

// Store maps node id to node record.
type Store struct {
	mu      sync.RWMutex
	nodes   map[string]*model.Node
	touched map[string]time.Time

	tracked map[uintptr]string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		nodes:   make(map[string]*model.Node),
		touched: make(map[string]time.Time),
		tracked: make(map[uintptr]string),
	}
}

// GetNode returns a copy of the node with the given id. The stored record
// is never aliased to callers.
func (s *Store) GetNode(id string) (*model.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	if !ok {
		return nil, false
	}
	return n.Clone(), true
}

// LookupDigest returns the content digest stored for id, implementing the
// change detector's digest source.
func (s *Store) LookupDigest(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	if !ok {
		return "", false
	}
	return n.Internal.ContentDigest, true
}

// LastTouched returns the liveness timestamp for id: the time of the last
// create or touch event applied to it.
func (s *Store) LastTouched(id string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.touched[id]
	return t, ok
}

// Len returns the number of stored nodes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// NodeIDs returns all node ids, sorted for reproducibility.
func (s *Store) NodeIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Types returns the distinct node type tags present in the graph, sorted.
func (s *Store) Types() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, n := range s.nodes {
		seen[n.Internal.Type] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// NodesByType returns copies of all nodes with the given type tag, sorted
// by id.
func (s *Store) NodesByType(typ string) []*model.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Node
	for _, n := range s.nodes {
		if n.Internal.Type == typ {
			out = append(out, n.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ApplyCreateNode stores the node (create or full update). The node is
// copied on the way in.
func (s *Store) ApplyCreateNode(n *model.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[n.ID] = n.Clone()
	s.touched[n.ID] = time.Now()
}

// ApplyTouchNode refreshes the liveness timestamp for id without changing
// content. Touching an absent node is a no-op.
func (s *Store) ApplyTouchNode(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nodes[id]; ok {
		s.touched[id] = time.Now()
	}
}

// ApplyDeleteNode removes the node with the given id. Children are NOT
// deleted: callers that want the subtree gone must delete descendants
// themselves.
func (s *Store) ApplyDeleteNode(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(id)
}

// ApplyDeleteNodes removes many nodes at once, with the same non-cascading
// contract as ApplyDeleteNode.
func (s *Store) ApplyDeleteNodes(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.deleteLocked(id)
	}
}

func (s *Store) deleteLocked(id string) {
	delete(s.nodes, id)
	delete(s.touched, id)
	for p, root := range s.tracked {
		if root == id {
			delete(s.tracked, p)
		}
	}
}

// ApplyAddField replaces the stored node with the new field revision.
func (s *Store) ApplyAddField(rev *model.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[rev.ID] = rev.Clone()
}

// ApplyLinkChild appends childID to the parent's child list, de-duplicated
// and preserving first-occurrence order.
func (s *Store) ApplyLinkChild(parentID, childID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	parent, ok := s.nodes[parentID]
	if !ok {
		return fmt.Errorf("graph: parent %q not found", parentID)
	}
	if !parent.HasChild(childID) {
		parent.Children = append(parent.Children, childID)
	}
	return nil
}

// Apply dispatches a node-graph event to the matching primitive. Events
// that do not concern the node graph are ignored.
func (s *Store) Apply(ev event.Event) error {
	switch ev.Kind {
	case event.CreateNode:
		n, ok := ev.Payload.(*model.Node)
		if !ok {
			return fmt.Errorf("graph: %s payload is %T, want *model.Node", ev.Kind, ev.Payload)
		}
		s.ApplyCreateNode(n)
	case event.TouchNode:
		id, ok := ev.Payload.(string)
		if !ok {
			return fmt.Errorf("graph: %s payload is %T, want string", ev.Kind, ev.Payload)
		}
		s.ApplyTouchNode(id)
	case event.DeleteNode:
		id, ok := ev.Payload.(string)
		if !ok {
			return fmt.Errorf("graph: %s payload is %T, want string", ev.Kind, ev.Payload)
		}
		s.ApplyDeleteNode(id)
	case event.DeleteNodes:
		ids, ok := ev.Payload.([]string)
		if !ok {
			return fmt.Errorf("graph: %s payload is %T, want []string", ev.Kind, ev.Payload)
		}
		s.ApplyDeleteNodes(ids)
	case event.AddFieldToNode:
		p, ok := ev.Payload.(event.NodeField)
		if !ok {
			return fmt.Errorf("graph: %s payload is %T, want event.NodeField", ev.Kind, ev.Payload)
		}
		s.ApplyAddField(p.Node)
	case event.AddChildToParent:
		p, ok := ev.Payload.(event.ChildLink)
		if !ok {
			return fmt.Errorf("graph: %s payload is %T, want event.ChildLink", ev.Kind, ev.Payload)
		}
		return s.ApplyLinkChild(p.ParentID, p.ChildID)
	}
	return nil
}
