package paths

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultCostTolerance is the cost window within which Merge compares entries.
const DefaultCostTolerance = 0.05

// Sentinel errors returned by Session and ConcurrentSet.
var (
	// ErrEmptyPath indicates a sequence with fewer than two nodes.
	ErrEmptyPath = errors.New("paths: path needs at least two nodes")
	// ErrBadFlow indicates a non-positive or non-finite flow.
	ErrBadFlow = errors.New("paths: flow must be positive and finite")
	// ErrNotMember indicates removal of a path the set does not hold.
	ErrNotMember = errors.New("paths: path is not in the set")
)

// Network is the part of the flow graph a Session needs to price sequences.
type Network interface {
	PathLength(nodes []int) (float64, error)
	Anchors(nodes []int) []r2.Vec
}
