// Package ownership enforces first-writer-wins exclusivity over node
// types and extension fields. The registry is constructed once per build
// session and passed by reference to the action layer; it is never a
// process-wide singleton.
package ownership

import (
	"sync"

	"github.com/danielfarrell/gatsby/internal/model"
)

// Registry tracks which plugin owns each node type. Field ownership lives
// on the nodes themselves; the registry only arbitrates claims.
type Registry struct {
	mu         sync.Mutex
	typeOwners map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{typeOwners: make(map[string]string)}
}

// ClaimType grants plugin ownership of typ. The first claimant wins;
// repeat claims by the same plugin are no-ops. A claim against a type
// owned by a different plugin is denied, returning that owner.
func (r *Registry) ClaimType(typ, plugin string) (owner string, granted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.typeOwners[typ]; ok {
		if cur != plugin {
			return cur, false
		}
		return cur, true
	}
	r.typeOwners[typ] = plugin
	return plugin, true
}

// TypeOwner returns the plugin owning typ, if any.
func (r *Registry) TypeOwner(typ string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.typeOwners[typ]
	return owner, ok
}

// Types returns a copy of the type-ownership table.
func (r *Registry) Types() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.typeOwners))
	for k, v := range r.typeOwners {
		out[k] = v
	}
	return out
}

// CheckNodeOwner reports whether plugin may re-create or mutate existing.
// A node may only be touched or rewritten by the plugin that created it.
func CheckNodeOwner(existing *model.Node, plugin string) (owner string, ok bool) {
	if existing == nil {
		return plugin, true
	}
	if existing.Internal.Owner != plugin {
		return existing.Internal.Owner, false
	}
	return plugin, true
}

// ClaimField reports whether plugin may write the named extension field on
// n. A field already owned by a different plugin may not be overwritten;
// re-writes by the owning plugin are last-write-wins. The claim is
// recorded on the node revision by the caller, not here.
func ClaimField(n *model.Node, field, plugin string) (owner string, ok bool) {
	if cur, exists := n.Internal.FieldOwners[field]; exists && cur != plugin {
		return cur, false
	}
	return plugin, true
}
