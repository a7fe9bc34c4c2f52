// Package tree models the hierarchies reconciled by the mapper: named nodes
// with a local placement, an active flag and typed payload facets.
//
// Key types:
//   - Node: a tree node; parents own their children, cycles are rejected
//   - Path: names from a root down to a node, empty for the root itself
//   - Facet: a payload kind carried by a node (morph weights, materials,
//     components)
//   - Set: identity set of nodes, used for exclusions and run state
//
// Trees can be loaded from and written to YAML with Load, Parse, Marshal and
// WriteFile.
package tree
