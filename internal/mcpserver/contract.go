package mcpserver

// NodeFormatContract describes the shape and ownership rules of
// content-graph nodes for LLM consumers inspecting the graph.
const NodeFormatContract = `# Content Graph Node Contract

Every node in the content graph has this shape:

` + "```" + `json
{
  "id": "globally unique string",
  "parent": "optional id of the originating node",
  "children": ["child ids, unique, in first-link order"],
  "data": { "the creating plugin's own payload" },
  "fields": { "extension fields written by other plugins" },
  "internal": {
    "type": "globally unique type tag, e.g. MarkdownRemark",
    "owner": "plugin that created the node",
    "contentDigest": "opaque change-detection token",
    "mediaType": "optional raw-content hint",
    "content": "optional raw content for transformers",
    "fieldOwners": { "field name": "plugin that wrote it" }
  }
}
` + "```" + `

## Ownership rules

1. **Type ownership is first-come-first-served.** The first plugin to
   create a node of a type owns that type for the whole build. Other
   plugins cannot create nodes of it.
2. **Node ownership is permanent.** Only the creating plugin may
   re-create, update, or touch a node.
3. **Field ownership is per node and per field name.** A field written by
   one plugin cannot be overwritten by another; the owning plugin may
   rewrite it freely (last write wins).
4. **contentDigest drives change detection.** Re-submitting a node with an
   unchanged digest refreshes its liveness without recomputation
   downstream.
5. **Deletes do not cascade.** Deleting a node leaves its children in the
   graph; delete descendants explicitly when the whole subtree should go.

## Pages

Pages are derived from nodes, not nodes themselves. A page's path always
begins with "/". The dependency tracker records which pages consume which
nodes; use the page_dependencies tool to see what a node invalidates.
`
