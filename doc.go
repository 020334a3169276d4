// Package chokeflow plans how a crowd moves through a map split by narrow
// passages.
//
// What it does
//
//	Given a map of open zones joined by gateways of known width, a start, a
//	goal and a number of units, chokeflow answers: which routes, how many
//	units on each, and which unit takes which route, so that the crowd
//	arrives as early as the gateways allow.
//
// How it is organised
//
//	zones/     — zone/gateway decomposition interface + static YAML maps
//	oracle/    — walking-distance oracle (Euclidean, occupancy grid)
//	flowgraph/ — capacitated network built from a decomposition
//	augment/   — A* over the residual network (negative cancel costs)
//	paths/     — path identities, concurrent path sets, merge
//	decompose/ — saturation, mutation of committed flow, alternatives
//	transit/   — arrivals-over-time curve of a path set
//	assign/    — integer unit counts and per-unit placement
//	planner/   — one-call orchestration, config, metrics, tracing
//	cmd/flowplan — command-line front end
//
// Quick picture:
//
//	 zone 0        zone 1        zone 2
//	┌──────┐ g0  ┌──────┐      ┌──────┐
//	│ S    ├─────┤      │  g2  │    T │
//	│      ├─────┤      ├──────┤      │
//	└──────┘ g1  └──────┘      └──────┘
//
//	g0 and g1 together admit 5 units/s, g2 only 4: two routes are used,
//	and the narrow door g2 decides the pace.
//
//	go get github.com/katalvlaran/chokeflow
package chokeflow
