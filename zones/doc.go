// Package zones describes the spatial decomposition consumed by the flow
// planner: open regions (zones) separated by narrow passages (gateways).
//
// The planner never computes a decomposition itself. It reads one through the
// Decomposition interface:
//
//	type Decomposition interface {
//	    Zones() []Zone
//	    Gateways() []Gateway
//	    ZoneOf(p r2.Vec) (int, bool)
//	}
//
// Static is a ready-made implementation backed by explicit zone polygons. It
// is what tests and the flowplan command use, and it can be loaded from YAML:
//
//	zones:
//	  - id: 0
//	    polygon: [[0, 0], [10, 0], [10, 10], [0, 10]]
//	  - id: 1
//	    polygon: [[10, 0], [20, 0], [20, 10], [10, 10]]
//	gateways:
//	  - id: 0
//	    width: 3
//	    zones: [0, 1]
//	    sides: [[9, 5], [11, 5]]
//
// Gateway.Sides[i] is the anchor of the gateway inside Gateway.Zones[i].
package zones
