package actions

import (
	"fmt"
	"log/slog"

	"github.com/danielfarrell/gatsby/internal/changedetect"
	"github.com/danielfarrell/gatsby/internal/event"
	"github.com/danielfarrell/gatsby/internal/identity"
	"github.com/danielfarrell/gatsby/internal/model"
	"github.com/danielfarrell/gatsby/internal/ownership"
	"github.com/danielfarrell/gatsby/internal/schema"
)

// CreateNode accepts a node from a plugin. The submitted record is never
// mutated; a normalized copy is carried on the event. When the content
// digest matches the stored one the outcome is a liveness touch instead
// of a create.
func (a *Actions) CreateNode(n *model.Node, plugin, traceID string) Result {
	if n == nil {
		return Reported(Diagnostic{
			Code:    "create-node/malformed",
			Message: "createNode expects a node record",
			Plugin:  plugin,
		})
	}
	if n.Internal.Owner != "" {
		return Fatal(Diagnostic{
			Code: "create-node/owner-reserved",
			Message: fmt.Sprintf("the owner of node %q is set by the system and may not be supplied at creation (got %q)",
				n.ID, n.Internal.Owner),
			Plugin: plugin,
			NodeID: n.ID,
			Type:   n.Internal.Type,
			Record: n,
		})
	}
	if len(n.Fields) > 0 {
		return Fatal(Diagnostic{
			Code: "create-node/fields-reserved",
			Message: fmt.Sprintf("node %q was submitted with a fields key; extension fields may only be written through createNodeField",
				n.ID),
			Plugin: plugin,
			NodeID: n.ID,
			Type:   n.Internal.Type,
			Record: n,
		})
	}

	node := n.Clone()
	if plugin != "" {
		node.ID = identity.DeriveID(node.ID, plugin)
	}
	if res := schema.ValidateNode(node); !res.OK {
		return Reported(Diagnostic{
			Code:    "create-node/invalid",
			Message: fmt.Sprintf("invalid node: %s: %s", res.Field, res.Message),
			Plugin:  plugin,
			NodeID:  node.ID,
			Type:    node.Internal.Type,
			Field:   res.Field,
			Record:  n,
		})
	}
	node.Internal.Owner = plugin

	existing, inGraph := a.graph.GetNode(node.ID)
	if inGraph {
		if owner, allowed := ownership.CheckNodeOwner(existing, plugin); !allowed {
			return Fatal(Diagnostic{
				Code: "create-node/owner-conflict",
				Message: fmt.Sprintf("node %q was created by plugin %q and cannot be re-created by plugin %q",
					node.ID, owner, plugin),
				Plugin:      plugin,
				OtherPlugin: owner,
				NodeID:      node.ID,
				Type:        node.Internal.Type,
				Record:      n,
			})
		}
	}
	// Anonymous submissions carry no identity to claim a type under and do
	// not contend for type exclusivity.
	if plugin != "" {
		if owner, granted := a.registry.ClaimType(node.Internal.Type, plugin); !granted {
			return Fatal(Diagnostic{
				Code: "create-node/type-owned",
				Message: fmt.Sprintf("node type %q is owned by plugin %q and cannot be used by plugin %q",
					node.Internal.Type, owner, plugin),
				Plugin:      plugin,
				OtherPlugin: owner,
				NodeID:      node.ID,
				Type:        node.Internal.Type,
				Record:      n,
			})
		}
	}

	// A matching digest only demotes the create to a liveness touch when the
	// node is already in this build's graph. A digest carried over from a
	// previous build can match while the node has not been re-created yet;
	// touching then would drop the record on the floor.
	if inGraph && a.classifier.Classify(node.ID, node.Internal.ContentDigest) == changedetect.Unchanged {
		a.logger.Debug("node unchanged, touching",
			slog.String("id", node.ID),
			slog.String("type", node.Internal.Type),
			slog.String("plugin", plugin))
		return Ok(event.New(event.TouchNode, plugin, traceID, node.ID))
	}
	return Ok(event.New(event.CreateNode, plugin, traceID, node))
}

// TouchNode refreshes a node's liveness without changing content. Only the
// owning plugin may touch an owned node.
func (a *Actions) TouchNode(id, plugin, traceID string) Result {
	if existing, ok := a.graph.GetNode(id); ok {
		if owner, allowed := ownership.CheckNodeOwner(existing, plugin); !allowed {
			return Fatal(Diagnostic{
				Code: "touch-node/owner-conflict",
				Message: fmt.Sprintf("node %q belongs to plugin %q and cannot be touched by plugin %q",
					id, owner, plugin),
				Plugin:      plugin,
				OtherPlugin: owner,
				NodeID:      id,
				Record:      existing,
			})
		}
	}
	return Ok(event.New(event.TouchNode, plugin, traceID, id))
}

// DeleteNode emits a delete event for one node. Deletion does not cascade:
// children stay in the graph unless the caller deletes them too.
func (a *Actions) DeleteNode(id, plugin, traceID string) Result {
	return Ok(event.New(event.DeleteNode, plugin, traceID, id))
}

// DeleteNodes emits a batch delete event, with the same non-cascading
// contract as DeleteNode.
func (a *Actions) DeleteNodes(ids []string, plugin, traceID string) Result {
	return Ok(event.New(event.DeleteNodes, plugin, traceID, append([]string(nil), ids...)))
}

// NodeFieldArgs names a field-extension write. FieldName and FieldValue
// are deprecated aliases kept for older plugins.
type NodeFieldArgs struct {
	NodeID string
	Name   string
	Value  any

	// Deprecated: use Name.
	FieldName string
	// Deprecated: use Value.
	FieldValue any
}

// CreateNodeField writes an extension field onto an existing node. The
// stored node is not mutated in place: the event carries a new revision
// with the field and its ownership recorded.
func (a *Actions) CreateNodeField(args NodeFieldArgs, plugin, traceID string) Result {
	name, value := args.Name, args.Value
	if name == "" && args.FieldName != "" {
		a.logger.Warn("createNodeField: fieldName is deprecated, use name",
			slog.String("plugin", plugin),
			slog.String("field", args.FieldName))
		name = args.FieldName
	}
	if value == nil && args.FieldValue != nil {
		a.logger.Warn("createNodeField: fieldValue is deprecated, use value",
			slog.String("plugin", plugin),
			slog.String("field", name))
		value = args.FieldValue
	}
	if name == "" {
		return Reported(Diagnostic{
			Code:    "create-node-field/missing-name",
			Message: "createNodeField requires a field name",
			Plugin:  plugin,
			NodeID:  args.NodeID,
		})
	}

	node, ok := a.graph.GetNode(args.NodeID)
	if !ok {
		return Reported(Diagnostic{
			Code:    "create-node-field/missing-node",
			Message: fmt.Sprintf("node %q does not exist", args.NodeID),
			Plugin:  plugin,
			NodeID:  args.NodeID,
			Field:   name,
		})
	}
	if owner, allowed := ownership.ClaimField(node, name, plugin); !allowed {
		return Fatal(Diagnostic{
			Code: "create-node-field/field-owned",
			Message: fmt.Sprintf("field %q on node %q is owned by plugin %q and cannot be overwritten by plugin %q",
				name, node.ID, owner, plugin),
			Plugin:      plugin,
			OtherPlugin: owner,
			NodeID:      node.ID,
			Type:        node.Internal.Type,
			Field:       name,
			Record:      node,
		})
	}

	rev := node.Clone()
	if rev.Fields == nil {
		rev.Fields = make(map[string]any)
	}
	rev.Fields[name] = value
	if rev.Internal.FieldOwners == nil {
		rev.Internal.FieldOwners = make(map[string]string)
	}
	rev.Internal.FieldOwners[name] = plugin

	return Ok(event.New(event.AddFieldToNode, plugin, traceID, event.NodeField{
		Node:  rev,
		Name:  name,
		Value: value,
	}))
}

// CreateParentChildLink records parent-child ownership of a relationship.
// Linking the same child twice is idempotent.
func (a *Actions) CreateParentChildLink(parentID, childID, plugin, traceID string) Result {
	if _, ok := a.graph.GetNode(parentID); !ok {
		return Reported(Diagnostic{
			Code:    "create-parent-child-link/missing-parent",
			Message: fmt.Sprintf("parent node %q does not exist", parentID),
			Plugin:  plugin,
			NodeID:  parentID,
		})
	}
	return Ok(event.New(event.AddChildToParent, plugin, traceID, event.ChildLink{
		ParentID: parentID,
		ChildID:  childID,
	}))
}
