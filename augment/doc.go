// Package augment finds augmenting paths in a flowgraph.Graph.
//
// Search runs A* from a set of origins to a set of terminals over the residual
// graph: a step a → b is allowed while Residual(a, b) > Epsilon and costs
// DistanceBetweenNeighbors(a, b). The priority of a node is its distance from
// the origins plus the straight-line distance from its anchor to the nearest
// terminal anchor.
//
// Residual costs are negative on steps that cancel existing flow, so the
// search is label-correcting rather than label-setting:
//
//   - A closed node is reopened whenever a strictly shorter distance reaches it.
//   - Accumulated distances below zero are clamped to zero.
//   - The number of expansions is bounded (Options.MaxExpansions).
//
// The first terminal popped ends the search. Predecessor links are then walked
// back to an origin; reopening can leave a cycle among them, in which case the
// walk falls back, from the last node it reached, to the discovery tree (the
// predecessor recorded when a node was first reached, which is acyclic).
//
// A nil *Result with a nil error means no augmenting path exists. That is the
// normal way a decomposition loop ends, not a failure.
//
// Complexity: O((V + E) log V) per pass without reopening; reopening can
// repeat passes, bounded by MaxExpansions.
package augment
