// Package oracle provides the shortest-path distance oracle consumed by the
// flow graph builder.
//
// The builder needs one number per pair of anchors: the length of the polyline
// an agent would walk between them. Anything satisfying Oracle will do:
//
//	type Oracle interface {
//	    Distance(a, b r2.Vec) (float64, bool)
//	}
//
// Two implementations are included:
//
//   - Euclidean: straight-line distance, for open maps and tests.
//   - Grid:      Dijkstra over an 8-connected occupancy grid with a lazy
//     decrease-key heap. Distance fields are cached per source cell, so
//     repeated queries from one anchor cost a single map lookup.
//
// Complexity (Grid, first query from a cell): O(C log C), C = free cells.
package oracle
