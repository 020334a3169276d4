package zones

import (
	"errors"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/spatial/r2"
)

// Sentinel errors for decomposition construction.
var (
	// ErrEmptyZone indicates a zone polygon with fewer than three vertices.
	ErrEmptyZone = errors.New("zones: zone polygon needs at least three vertices")
	// ErrDuplicateZone indicates two zones sharing one ID.
	ErrDuplicateZone = errors.New("zones: duplicate zone id")
	// ErrDuplicateGateway indicates two gateways sharing one ID.
	ErrDuplicateGateway = errors.New("zones: duplicate gateway id")
	// ErrUnknownZone indicates a gateway referencing a zone that does not exist.
	ErrUnknownZone = errors.New("zones: gateway references unknown zone")
	// ErrBadWidth indicates a gateway with a non-positive width.
	ErrBadWidth = errors.New("zones: gateway width must be positive")
	// ErrSameZone indicates a gateway whose two sides lie in one zone.
	ErrSameZone = errors.New("zones: gateway must join two distinct zones")
)

// Zone is a maximal open region bounded by chokepoints.
type Zone struct {
	ID      int
	Center  r2.Vec
	Polygon orb.Polygon
}

// Gateway is a narrow passage joining exactly two zones.
// Sides[i] is the anchor of the passage inside Zones[i].
type Gateway struct {
	ID    int
	Width float64
	Zones [2]int
	Sides [2]r2.Vec
}

// Decomposition is the spatial-decomposition service the planner consumes.
type Decomposition interface {
	// Zones returns every zone, ordered by ID.
	Zones() []Zone
	// Gateways returns every gateway, ordered by ID.
	Gateways() []Gateway
	// ZoneOf reports the zone containing p.
	ZoneOf(p r2.Vec) (int, bool)
}

// Side returns the anchor of g inside zone, and false when g does not touch zone.
func (g Gateway) Side(zone int) (r2.Vec, bool) {
	for i, z := range g.Zones {
		if z == zone {
			return g.Sides[i], true
		}
	}

	return r2.Vec{}, false
}
