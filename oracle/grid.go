package oracle

import (
	"container/heap"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Grid is an occupancy-grid Oracle. Cell (x, y) covers
// [Origin.X + x·CellSize, Origin.X + (x+1)·CellSize) on each axis.
// It is not safe for concurrent use because distance fields are cached lazily.
type Grid struct {
	width, height int
	blocked       []bool
	cellSize      float64
	origin        r2.Vec
	fields        map[int][]float64
}

// NewGrid builds a Grid from rows of blocked flags, rows[y][x] == true
// marking an obstacle.
func NewGrid(rows [][]bool, cellSize float64, origin r2.Vec) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	if cellSize <= 0 {
		return nil, ErrBadCellSize
	}
	w := len(rows[0])
	g := &Grid{
		width:    w,
		height:   len(rows),
		blocked:  make([]bool, 0, w*len(rows)),
		cellSize: cellSize,
		origin:   origin,
		fields:   make(map[int][]float64),
	}
	for _, row := range rows {
		if len(row) != w {
			return nil, ErrNonRectangular
		}
		g.blocked = append(g.blocked, row...)
	}

	return g, nil
}

// Distance returns the 8-connected grid distance between the cells holding
// a and b plus the straight offsets from each point to its cell center.
// Diagonal moves may not cut blocked corners.
func (g *Grid) Distance(a, b r2.Vec) (float64, bool) {
	ca, ok := g.cell(a)
	if !ok {
		return 0, false
	}
	cb, ok := g.cell(b)
	if !ok {
		return 0, false
	}
	if ca == cb {
		return r2.Norm(r2.Sub(b, a)), true
	}

	field, ok := g.fields[ca]
	if !ok {
		field = g.dijkstra(ca)
		g.fields[ca] = field
	}
	d := field[cb]
	if math.IsInf(d, 1) {
		return 0, false
	}

	return d + r2.Norm(r2.Sub(a, g.center(ca))) + r2.Norm(r2.Sub(b, g.center(cb))), true
}

// cell maps a coordinate to its free cell index.
func (g *Grid) cell(p r2.Vec) (int, bool) {
	x := int(math.Floor((p.X - g.origin.X) / g.cellSize))
	y := int(math.Floor((p.Y - g.origin.Y) / g.cellSize))
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return 0, false
	}
	idx := y*g.width + x
	if g.blocked[idx] {
		return 0, false
	}

	return idx, true
}

func (g *Grid) center(idx int) r2.Vec {
	x, y := idx%g.width, idx/g.width
	return r2.Vec{
		X: g.origin.X + (float64(x)+0.5)*g.cellSize,
		Y: g.origin.Y + (float64(y)+0.5)*g.cellSize,
	}
}

func (g *Grid) free(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height && !g.blocked[y*g.width+x]
}

// dijkstra computes the distance field from src to every cell.
//
// Steps:
//  1. dist[c] = +Inf for every cell, dist[src] = 0, push src.
//  2. Pop the nearest cell; skip stale entries (d > dist[c]).
//  3. Relax the eight neighbors; diagonal steps need both orthogonal cells free.
//
// Complexity: O(C log C) time, O(C) memory.
func (g *Grid) dijkstra(src int) []float64 {
	dist := make([]float64, len(g.blocked))
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[src] = 0

	pq := cellPQ{{idx: src}}
	heap.Init(&pq)
	diag := math.Sqrt2 * g.cellSize

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(cellItem)
		if item.dist > dist[item.idx] {
			continue
		}
		x, y := item.idx%g.width, item.idx/g.width
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := x+dx, y+dy
				if !g.free(nx, ny) {
					continue
				}
				step := g.cellSize
				if dx != 0 && dy != 0 {
					// no corner cutting
					if !g.free(x+dx, y) || !g.free(x, y+dy) {
						continue
					}
					step = diag
				}
				n := ny*g.width + nx
				if nd := item.dist + step; nd < dist[n] {
					dist[n] = nd
					heap.Push(&pq, cellItem{idx: n, dist: nd})
				}
			}
		}
	}

	return dist
}

// cellItem is a heap entry; stale entries are skipped on pop.
type cellItem struct {
	idx  int
	dist float64
}

// cellPQ is a min-heap of cellItem ordered by dist.
type cellPQ []cellItem

func (pq cellPQ) Len() int            { return len(pq) }
func (pq cellPQ) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq cellPQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *cellPQ) Push(x interface{}) { *pq = append(*pq, x.(cellItem)) }
func (pq *cellPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
