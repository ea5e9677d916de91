package graph

import (
	"reflect"

	"github.com/danielfarrell/gatsby/internal/model"
)

// Sub-object tracking: query resolution hands inner maps and slices of a
// node's data to downstream consumers, which later need to find the node
// an object came from. Tracking is keyed on the identity of the map or
// slice header, so it only works for objects handed out by this store —
// a best-effort contract matching how query resolution uses it.

// TrackObjectsToRootNodeID records every map and slice reachable from the
// node's data as belonging to the node.
func (s *Store) TrackObjectsToRootNodeID(n *model.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trackValue(n.Data, n.ID)
	s.trackValue(n.Fields, n.ID)
}

// FindRootNodeID returns the id of the node a tracked sub-object belongs
// to.
func (s *Store) FindRootNodeID(obj any) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := identityOf(obj)
	if !ok {
		return "", false
	}
	id, found := s.tracked[p]
	return id, found
}

func (s *Store) trackValue(v any, rootID string) {
	p, ok := identityOf(v)
	if ok {
		s.tracked[p] = rootID
	}
	switch t := v.(type) {
	case map[string]any:
		for _, inner := range t {
			s.trackValue(inner, rootID)
		}
	case []any:
		for _, inner := range t {
			s.trackValue(inner, rootID)
		}
	}
}

func identityOf(v any) (uintptr, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return 0, false
		}
		return rv.Pointer(), true
	default:
		return 0, false
	}
}
