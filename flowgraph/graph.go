package flowgraph

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

type pair [2]int

func key(a, b int) pair {
	if a > b {
		a, b = b, a
	}

	return pair{a, b}
}

// Graph is the arena-backed flow network.
type Graph struct {
	nodes    []Node
	edges    []Edge
	adj      [][]int
	lookup   map[pair]int
	source   int
	terminal int
	eps      float64
}

// NewGraph returns an empty Graph with no source or terminal.
func NewGraph(opts ...Option) *Graph {
	g := &Graph{
		lookup:   make(map[pair]int),
		source:   NoNode,
		terminal: NoNode,
		eps:      DefaultEpsilon,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// AddNode appends n to the arena, overwriting n.ID with its index.
// Nodes of kind other than KindGatewaySide lose their gateway reference.
func (g *Graph) AddNode(n Node) int {
	n.ID = len(g.nodes)
	if n.Kind != KindGatewaySide {
		n.Gateway = NoGateway
	}
	g.nodes = append(g.nodes, n)
	g.adj = append(g.adj, nil)

	return n.ID
}

// AddEdge joins a and b and returns the new edge index.
//
// Errors: ErrNodeNotFound, ErrSelfLoop, ErrDuplicateEdge,
// ErrNegativeCapacity, ErrNegativeLength.
func (g *Graph) AddEdge(a, b int, capacity, length float64) (int, error) {
	if !g.has(a) || !g.has(b) {
		return 0, fmt.Errorf("%w: edge %d–%d", ErrNodeNotFound, a, b)
	}
	if a == b {
		return 0, fmt.Errorf("%w: node %d", ErrSelfLoop, a)
	}
	if capacity < 0 {
		return 0, fmt.Errorf("%w: edge %d–%d capacity=%g", ErrNegativeCapacity, a, b, capacity)
	}
	if length < 0 {
		return 0, fmt.Errorf("%w: edge %d–%d length=%g", ErrNegativeLength, a, b, length)
	}
	k := key(a, b)
	if _, dup := g.lookup[k]; dup {
		return 0, fmt.Errorf("%w: %d–%d", ErrDuplicateEdge, a, b)
	}

	id := len(g.edges)
	g.edges = append(g.edges, Edge{ID: id, A: k[0], B: k[1], Capacity: capacity, Length: length})
	g.lookup[k] = id
	g.adj[a] = append(g.adj[a], id)
	g.adj[b] = append(g.adj[b], id)

	return id, nil
}

// SetSource marks id as the flow source.
func (g *Graph) SetSource(id int) error {
	if !g.has(id) {
		return fmt.Errorf("%w: source %d", ErrNodeNotFound, id)
	}
	g.source = id

	return nil
}

// SetTerminal marks id as the flow terminal.
func (g *Graph) SetTerminal(id int) error {
	if !g.has(id) {
		return fmt.Errorf("%w: terminal %d", ErrNodeNotFound, id)
	}
	g.terminal = id

	return nil
}

// Source returns the source node index, or NoNode.
func (g *Graph) Source() int { return g.source }

// Terminal returns the terminal node index, or NoNode.
func (g *Graph) Terminal() int { return g.terminal }

// Epsilon returns the residual threshold of the graph.
func (g *Graph) Epsilon() float64 { return g.eps }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the node at index id. It panics when id is out of range.
func (g *Graph) Node(id int) Node { return g.nodes[id] }

// Edge returns a copy of the edge at index id. It panics when id is out of range.
func (g *Graph) Edge(id int) Edge { return g.edges[id] }

// Nodes returns a copy of every node, ordered by ID.
func (g *Graph) Nodes() []Node { return append([]Node(nil), g.nodes...) }

// Edges returns a copy of every edge.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)

	return out
}

// EdgeBetween returns the edge joining a and b.
func (g *Graph) EdgeBetween(a, b int) (Edge, bool) {
	id, ok := g.lookup[key(a, b)]
	if !ok {
		return Edge{}, false
	}

	return g.edges[id], true
}

// Incident returns the edge indices touching n. The slice must not be modified.
func (g *Graph) Incident(n int) []int { return g.adj[n] }

// DirectedFlow returns the flow a → b, negative when flow moves b → a.
func (g *Graph) DirectedFlow(a, b int) float64 {
	e, ok := g.EdgeBetween(a, b)
	if !ok {
		return 0
	}

	return e.DirectedFlow(a)
}

// Residual returns the flow that can still be pushed a → b, 0 for non-edges.
func (g *Graph) Residual(a, b int) float64 {
	e, ok := g.EdgeBetween(a, b)
	if !ok {
		return 0
	}

	return e.Capacity - e.DirectedFlow(a)
}

// DistanceBetweenNeighbors returns the residual cost of the step a → b.
//
//   - a == b or no edge:          Sentinel
//   - existing flow runs b → a:   −ceil(Length)
//   - otherwise:                  +ceil(Length)
func (g *Graph) DistanceBetweenNeighbors(a, b int) float64 {
	if a == b {
		return Sentinel
	}
	e, ok := g.EdgeBetween(a, b)
	if !ok {
		return Sentinel
	}
	l := math.Ceil(e.Length)
	if e.DirectedFlow(a) < -g.eps {
		return -l
	}

	return l
}

// GetNeighbors returns the nodes reachable from t with spare residual
// capacity, in edge insertion order.
func (g *Graph) GetNeighbors(t int) []int {
	out := make([]int, 0, len(g.adj[t]))
	for _, id := range g.adj[t] {
		e := g.edges[id]
		if e.Capacity-e.DirectedFlow(t) > g.eps {
			out = append(out, e.Other(t))
		}
	}

	return out
}

// Push adds f units of flow in direction a → b.
//
// When the resulting |Flow| exceeds Capacity by no more than slack it is
// clamped to Capacity and the clamped amount is returned. A larger excess
// leaves the edge untouched and returns an EdgeError.
func (g *Graph) Push(a, b int, f, slack float64) (clamped float64, err error) {
	id, ok := g.lookup[key(a, b)]
	if !ok {
		return 0, fmt.Errorf("%w: %d–%d", ErrNoEdge, a, b)
	}
	e := &g.edges[id]

	next := e.Flow
	if a == e.A {
		next += f
	} else {
		next -= f
	}

	over := math.Abs(next) - e.Capacity
	if over > slack {
		return 0, EdgeError{A: e.A, B: e.B, Flow: next, Capacity: e.Capacity}
	}
	if over > 0 {
		next = math.Copysign(e.Capacity, next)
		clamped = over
	}
	e.Flow = next

	return clamped, nil
}

// PathLength sums the raw edge lengths along nodes.
func (g *Graph) PathLength(nodes []int) (float64, error) {
	var total float64
	for i := 0; i+1 < len(nodes); i++ {
		e, ok := g.EdgeBetween(nodes[i], nodes[i+1])
		if !ok {
			return 0, fmt.Errorf("%w: %d–%d", ErrNoEdge, nodes[i], nodes[i+1])
		}
		total += e.Length
	}

	return total, nil
}

// Anchors maps node indices to their anchor coordinates.
func (g *Graph) Anchors(nodes []int) []r2.Vec {
	out := make([]r2.Vec, len(nodes))
	for i, n := range nodes {
		out[i] = g.nodes[n].Anchor
	}

	return out
}

// Validate checks |Flow| ≤ Capacity + slack on every edge.
func (g *Graph) Validate(slack float64) error {
	for _, e := range g.edges {
		if math.Abs(e.Flow) > e.Capacity+slack {
			return EdgeError{A: e.A, B: e.B, Flow: e.Flow, Capacity: e.Capacity}
		}
	}

	return nil
}

// Clone returns a deep copy, flow included.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes:    append([]Node(nil), g.nodes...),
		edges:    append([]Edge(nil), g.edges...),
		adj:      make([][]int, len(g.adj)),
		lookup:   make(map[pair]int, len(g.lookup)),
		source:   g.source,
		terminal: g.terminal,
		eps:      g.eps,
	}
	for i, l := range g.adj {
		c.adj[i] = append([]int(nil), l...)
	}
	for k, v := range g.lookup {
		c.lookup[k] = v
	}

	return c
}

// ResetFlow zeroes the flow of every edge.
func (g *Graph) ResetFlow() {
	for i := range g.edges {
		g.edges[i].Flow = 0
	}
}

func (g *Graph) has(id int) bool { return id >= 0 && id < len(g.nodes) }
