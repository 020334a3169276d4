package zones

import (
	"fmt"
	"os"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

// Static is an immutable Decomposition built from explicit polygons.
type Static struct {
	zones    []Zone
	gateways []Gateway
}

// NewStatic validates zones and gateways and returns a Static decomposition.
// Zone centers left at the origin are replaced by the polygon centroid.
//
// Steps:
//  1. Reject polygons with fewer than three vertices and duplicate IDs.
//  2. Close every ring and compute missing centers (planar.CentroidArea).
//  3. Reject gateways with non-positive width, unknown or identical zones.
//  4. Sort zones and gateways by ID so iteration is deterministic.
//
// Complexity: O(Z·P + G) where P is the largest polygon size.
func NewStatic(zs []Zone, gs []Gateway) (*Static, error) {
	s := &Static{
		zones:    make([]Zone, 0, len(zs)),
		gateways: make([]Gateway, 0, len(gs)),
	}

	seen := make(map[int]struct{}, len(zs))
	for _, z := range zs {
		if len(z.Polygon) == 0 || len(z.Polygon[0]) < 3 {
			return nil, fmt.Errorf("%w: zone %d", ErrEmptyZone, z.ID)
		}
		if _, dup := seen[z.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateZone, z.ID)
		}
		seen[z.ID] = struct{}{}

		z.Polygon = closeRings(z.Polygon)
		if z.Center == (r2.Vec{}) {
			c, _ := planar.CentroidArea(z.Polygon)
			z.Center = r2.Vec{X: c[0], Y: c[1]}
		}
		s.zones = append(s.zones, z)
	}

	seenGate := make(map[int]struct{}, len(gs))
	for _, g := range gs {
		if _, dup := seenGate[g.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateGateway, g.ID)
		}
		seenGate[g.ID] = struct{}{}
		if g.Width <= 0 {
			return nil, fmt.Errorf("%w: gateway %d width=%g", ErrBadWidth, g.ID, g.Width)
		}
		if g.Zones[0] == g.Zones[1] {
			return nil, fmt.Errorf("%w: gateway %d", ErrSameZone, g.ID)
		}
		for _, z := range g.Zones {
			if _, ok := seen[z]; !ok {
				return nil, fmt.Errorf("%w: gateway %d zone %d", ErrUnknownZone, g.ID, z)
			}
		}
		s.gateways = append(s.gateways, g)
	}

	sort.Slice(s.zones, func(i, j int) bool { return s.zones[i].ID < s.zones[j].ID })
	sort.Slice(s.gateways, func(i, j int) bool { return s.gateways[i].ID < s.gateways[j].ID })

	return s, nil
}

// Zones returns the zones ordered by ID. The slice must not be modified.
func (s *Static) Zones() []Zone { return s.zones }

// Gateways returns the gateways ordered by ID. The slice must not be modified.
func (s *Static) Gateways() []Gateway { return s.gateways }

// ZoneOf returns the lowest-ID zone whose polygon contains p.
func (s *Static) ZoneOf(p r2.Vec) (int, bool) {
	pt := orb.Point{p.X, p.Y}
	for _, z := range s.zones {
		if planar.PolygonContains(z.Polygon, pt) {
			return z.ID, true
		}
	}

	return 0, false
}

func closeRings(p orb.Polygon) orb.Polygon {
	out := make(orb.Polygon, len(p))
	for i, ring := range p {
		r := append(orb.Ring(nil), ring...)
		if !r.Closed() {
			r = append(r, r[0])
		}
		out[i] = r
	}

	return out
}

// file is the YAML layout of a static decomposition.
type file struct {
	Zones []struct {
		ID      int          `yaml:"id"`
		Center  *[2]float64  `yaml:"center"`
		Polygon [][2]float64 `yaml:"polygon"`
	} `yaml:"zones"`
	Gateways []struct {
		ID    int           `yaml:"id"`
		Width float64       `yaml:"width"`
		Zones [2]int        `yaml:"zones"`
		Sides [2][2]float64 `yaml:"sides"`
	} `yaml:"gateways"`
}

// DecodeStatic parses a YAML node (see package doc) into a Static.
func DecodeStatic(node *yaml.Node) (*Static, error) {
	var f file
	if err := node.Decode(&f); err != nil {
		return nil, fmt.Errorf("zones: decode: %w", err)
	}

	return f.static()
}

// LoadStatic reads a YAML decomposition file. Unknown keys are rejected.
func LoadStatic(path string) (*Static, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("zones: open %q: %w", path, err)
	}
	defer fh.Close()

	dec := yaml.NewDecoder(fh)
	dec.KnownFields(true)
	var f file
	if err = dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("zones: decode %q: %w", path, err)
	}

	return f.static()
}

func (f file) static() (*Static, error) {
	zs := make([]Zone, 0, len(f.Zones))
	for _, z := range f.Zones {
		ring := make(orb.Ring, 0, len(z.Polygon))
		for _, v := range z.Polygon {
			ring = append(ring, orb.Point{v[0], v[1]})
		}
		zone := Zone{ID: z.ID, Polygon: orb.Polygon{ring}}
		if z.Center != nil {
			zone.Center = r2.Vec{X: z.Center[0], Y: z.Center[1]}
		}
		zs = append(zs, zone)
	}

	gs := make([]Gateway, 0, len(f.Gateways))
	for _, g := range f.Gateways {
		gs = append(gs, Gateway{
			ID:    g.ID,
			Width: g.Width,
			Zones: g.Zones,
			Sides: [2]r2.Vec{
				{X: g.Sides[0][0], Y: g.Sides[0][1]},
				{X: g.Sides[1][0], Y: g.Sides[1][1]},
			},
		})
	}

	return NewStatic(zs, gs)
}
