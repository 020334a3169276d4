package flowgraph

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// NoGateway marks a node that is not attached to a gateway.
const NoGateway = -1

// NoNode is returned by Source and Terminal before they are set.
const NoNode = -1

// Sentinel is the residual cost of a forbidden step (self-loop or non-edge).
const Sentinel = float64(math.MaxInt32)

// DefaultEpsilon is the residual capacity below which an edge counts as full.
const DefaultEpsilon = 1e-9

// Sentinel errors for graph construction and mutation.
var (
	// ErrNodeNotFound indicates an edge endpoint or terminal outside the node arena.
	ErrNodeNotFound = errors.New("flowgraph: node not found")
	// ErrSelfLoop indicates an edge whose endpoints coincide.
	ErrSelfLoop = errors.New("flowgraph: self-loops are not allowed")
	// ErrDuplicateEdge indicates a second edge between the same pair of nodes.
	ErrDuplicateEdge = errors.New("flowgraph: duplicate edge between node pair")
	// ErrNegativeCapacity indicates a capacity below zero.
	ErrNegativeCapacity = errors.New("flowgraph: capacity must be non-negative")
	// ErrNegativeLength indicates a length below zero.
	ErrNegativeLength = errors.New("flowgraph: length must be non-negative")
	// ErrNoEdge indicates a step between two nodes that are not adjacent.
	ErrNoEdge = errors.New("flowgraph: nodes are not adjacent")
	// ErrOutsideMap indicates a start or goal outside every zone.
	ErrOutsideMap = errors.New("flowgraph: point lies outside the decomposition")
)

// Kind distinguishes the four node variants.
type Kind int

const (
	// KindZoneAnchor is a free waypoint inside a zone.
	KindZoneAnchor Kind = iota
	// KindGatewaySide is one of the two anchors of a gateway.
	KindGatewaySide
	// KindSource is the synthetic start of all flow.
	KindSource
	// KindTerminal is the synthetic sink of all flow.
	KindTerminal
)

func (k Kind) String() string {
	switch k {
	case KindZoneAnchor:
		return "zone"
	case KindGatewaySide:
		return "gateway"
	case KindSource:
		return "source"
	case KindTerminal:
		return "terminal"
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is a vertex of the flow network. ID is assigned by Graph.AddNode.
type Node struct {
	ID      int
	Gateway int // NoGateway unless Kind == KindGatewaySide
	Region  int
	Anchor  r2.Vec
	Kind    Kind
}

// Edge joins A and B (A < B). Flow is positive when it moves A → B.
type Edge struct {
	ID       int
	A, B     int
	Capacity float64
	Length   float64
	Flow     float64
}

// Other returns the endpoint of e opposite to n.
func (e Edge) Other(n int) int {
	if n == e.A {
		return e.B
	}

	return e.A
}

// DirectedFlow returns the flow of e measured in the direction from → other.
func (e Edge) DirectedFlow(from int) float64 {
	if from == e.A {
		return e.Flow
	}

	return -e.Flow
}

// EdgeError reports an edge whose flow left its capacity bounds.
type EdgeError struct {
	A, B     int
	Flow     float64
	Capacity float64
}

func (e EdgeError) Error() string {
	return fmt.Sprintf("flowgraph: flow %g exceeds capacity %g on edge %d–%d", e.Flow, e.Capacity, e.A, e.B)
}

// Option configures a Graph.
type Option func(*Graph)

// WithEpsilon sets the residual threshold used by GetNeighbors.
// Non-positive values are ignored.
func WithEpsilon(eps float64) Option {
	return func(g *Graph) {
		if eps > 0 {
			g.eps = eps
		}
	}
}
