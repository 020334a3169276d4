// Package transit models how many units a set of concurrent paths delivers
// over time.
//
// A path of cost c carrying flow f delivers nothing before c and f units per
// second after it, so a set of paths sorted by cost c₁ ≤ c₂ ≤ … yields a
// piecewise-linear, non-decreasing arrivals curve
//
//	A(t) = Σ max(0, t − cᵢ) · |fᵢ|
//
// Curve folds the paths into a running Bundle (total flow and flow-weighted
// cost); on the segment after cₖ the curve is (t − cost(Bundle)) · flow(Bundle),
// which TimeToTransport inverts. Bundle and *paths.Path both satisfy Carrier.
//
// TransitOfPaths is the integer counterpart used for assignment: each path
// alone delivers floor((t − c) · |f|) units by time t.
package transit
