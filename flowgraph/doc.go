// Package flowgraph implements the capacitated network the planner pushes
// crowd flow through.
//
// Nodes and edges live in arenas and are addressed by integer index; every
// node keeps the list of its incident edge indices, and a (node, node) lookup
// map finds the edge joining two nodes. The graph is undirected in structure
// but every edge carries a signed flow:
//
//	Edge{A: 2, B: 5, Capacity: 4, Flow: +3}   3 units/s moving 2 → 5
//	Edge{A: 2, B: 5, Capacity: 4, Flow: -1}   1 unit/s moving 5 → 2
//
// Invariants:
//   - A < B for every edge (canonical ordering by node id).
//   - At most one edge per unordered node pair; no self-loops.
//   - |Flow| ≤ Capacity (up to the slack the caller tolerates in Push).
//
// # Residual view
//
// Residual(a, b) is the flow that can still be pushed a → b:
//
//	Capacity − Flow   when a == A
//	Capacity + Flow   when a == B
//
// DistanceBetweenNeighbors(a, b) is the residual cost of the step a → b.
// Following or introducing flow in a → b costs ceil(Length); stepping against
// existing b → a flow costs −ceil(Length), so cancelling flow is rewarded.
// GetNeighbors(a) lists only nodes with Residual(a, n) > Epsilon.
//
// # Building from a decomposition
//
// Build turns a zones.Decomposition into a graph: every gateway yields two
// side nodes joined by an edge with capacity proportional to its width; every
// zone fully connects the gateway-side nodes it contains with capacity equal
// to the narrower of the two gateways; synthetic source and terminal nodes are
// spliced into the gateway-side nodes of their zones with unlimited capacity.
// Lengths come from an oracle.Oracle.
//
// A Graph is mutated in place while flow is pushed and must not be shared
// between goroutines.
package flowgraph
