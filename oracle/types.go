package oracle

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r2"
)

// Sentinel errors for grid construction.
var (
	// ErrEmptyGrid indicates a grid without rows or columns.
	ErrEmptyGrid = errors.New("oracle: grid must have at least one row and one column")
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("oracle: all grid rows must have the same length")
	// ErrBadCellSize indicates a non-positive cell size.
	ErrBadCellSize = errors.New("oracle: cell size must be positive")
)

// Oracle answers walking-distance queries between two map coordinates.
// ok is false when b is unreachable from a.
type Oracle interface {
	Distance(a, b r2.Vec) (d float64, ok bool)
}

// Euclidean is the straight-line Oracle.
type Euclidean struct{}

// Distance returns |b − a|.
func (Euclidean) Distance(a, b r2.Vec) (float64, bool) {
	return r2.Norm(r2.Sub(b, a)), true
}
