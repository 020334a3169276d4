package flowgraph

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/chokeflow/oracle"
	"github.com/katalvlaran/chokeflow/zones"
)

// DefaultUnlimitedCapacity is the capacity of source and terminal splices.
const DefaultUnlimitedCapacity = 1e9

// BuildOptions tunes Build.
//   - CapacityPerWidth: units per second admitted per unit of gateway width.
//   - UnlimitedCapacity: capacity of edges touching the source or terminal.
type BuildOptions struct {
	CapacityPerWidth  float64
	UnlimitedCapacity float64
	Graph             []Option
}

// DefaultBuildOptions returns CapacityPerWidth=1 and
// UnlimitedCapacity=DefaultUnlimitedCapacity.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		CapacityPerWidth:  1,
		UnlimitedCapacity: DefaultUnlimitedCapacity,
	}
}

// sideNode is a gateway-side node together with its gateway width.
type sideNode struct {
	id    int
	width float64
}

// Build constructs the flow network for one routing episode from start to goal.
//
// Steps:
//  1. Locate the zones of start and goal (ErrOutsideMap otherwise).
//  2. For each gateway add its two side nodes and the crossing edge
//     (capacity Width·CapacityPerWidth, length = oracle distance between sides).
//  3. For each zone connect every pair of its gateway-side nodes
//     (capacity min(widths)·CapacityPerWidth, length = oracle distance).
//  4. Add source and terminal and splice them into the side nodes of their
//     zones with UnlimitedCapacity; a direct edge joins them when they share a zone.
//
// Pairs the oracle reports unreachable get no edge.
//
// Complexity: O(G + Σ_z k_z²) oracle queries, k_z = gateways touching zone z.
func Build(
	d zones.Decomposition,
	o oracle.Oracle,
	start, goal r2.Vec,
	opts BuildOptions,
) (*Graph, error) {
	if opts.CapacityPerWidth <= 0 {
		opts.CapacityPerWidth = 1
	}
	if opts.UnlimitedCapacity <= 0 {
		opts.UnlimitedCapacity = DefaultUnlimitedCapacity
	}

	// 1) Zones of the endpoints
	zs, ok := d.ZoneOf(start)
	if !ok {
		return nil, fmt.Errorf("%w: start %v", ErrOutsideMap, start)
	}
	zg, ok := d.ZoneOf(goal)
	if !ok {
		return nil, fmt.Errorf("%w: goal %v", ErrOutsideMap, goal)
	}

	g := NewGraph(opts.Graph...)
	byZone := make(map[int][]sideNode)

	// 2) Gateway crossings
	for _, gw := range d.Gateways() {
		var ids [2]int
		for i := range gw.Zones {
			ids[i] = g.AddNode(Node{
				Gateway: gw.ID,
				Region:  gw.Zones[i],
				Anchor:  gw.Sides[i],
				Kind:    KindGatewaySide,
			})
			byZone[gw.Zones[i]] = append(byZone[gw.Zones[i]], sideNode{id: ids[i], width: gw.Width})
		}
		length, ok := o.Distance(gw.Sides[0], gw.Sides[1])
		if !ok {
			continue
		}
		if _, err := g.AddEdge(ids[0], ids[1], gw.Width*opts.CapacityPerWidth, length); err != nil {
			return nil, err
		}
	}

	// 3) Intra-zone cliques
	for _, z := range d.Zones() {
		sides := byZone[z.ID]
		for i := 0; i < len(sides); i++ {
			for j := i + 1; j < len(sides); j++ {
				a, b := sides[i], sides[j]
				length, ok := o.Distance(g.nodes[a.id].Anchor, g.nodes[b.id].Anchor)
				if !ok {
					continue
				}
				c := math.Min(a.width, b.width) * opts.CapacityPerWidth
				if _, err := g.AddEdge(a.id, b.id, c, length); err != nil {
					return nil, err
				}
			}
		}
	}

	// 4) Synthetic endpoints
	src := g.AddNode(Node{Region: zs, Anchor: start, Kind: KindSource})
	dst := g.AddNode(Node{Region: zg, Anchor: goal, Kind: KindTerminal})
	if err := g.splice(o, src, byZone[zs], opts.UnlimitedCapacity); err != nil {
		return nil, err
	}
	if err := g.splice(o, dst, byZone[zg], opts.UnlimitedCapacity); err != nil {
		return nil, err
	}
	if zs == zg {
		if length, ok := o.Distance(start, goal); ok {
			if _, err := g.AddEdge(src, dst, opts.UnlimitedCapacity, length); err != nil {
				return nil, err
			}
		}
	}
	_ = g.SetSource(src)
	_ = g.SetTerminal(dst)

	return g, nil
}

// splice connects n to every side node with the distance-to-gate as length.
func (g *Graph) splice(o oracle.Oracle, n int, sides []sideNode, capacity float64) error {
	for _, s := range sides {
		length, ok := o.Distance(g.nodes[n].Anchor, g.nodes[s.id].Anchor)
		if !ok {
			continue
		}
		if _, err := g.AddEdge(n, s.id, capacity, length); err != nil {
			return err
		}
	}

	return nil
}
