// Package assign converts decomposed flow into whole units.
//
// Counts picks, among the alternatives produced by decompose, the one whose
// arrivals curve reaches n units first, then finds an integer time whose
// per-path deliveries (transit.TransitOfPaths) add up to n. When no integer
// time hits n exactly, the smallest time delivering more is used and the
// surplus is taken from the path with the largest count.
//
// Units places concrete units (by position) onto the counted paths. Paths
// are grouped by the waypoint at which they diverge (a Level); every level
// claims its share of the nearest unclaimed units through its own distance
// queue, and groups holding several paths recurse one waypoint deeper.
// Equal distances are broken by a seeded random source, so a fixed seed
// gives a reproducible placement.
package assign
