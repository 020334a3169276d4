package assign

import (
	"container/heap"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// Units assigns every position to one of as, honouring the counts.
// The result holds, per position, the index of its assignment.
//
// Steps:
//  1. Check that the counts add up to len(positions).
//  2. place(all positions, all assignments with units, depth 0).
//
// Errors: ErrUnitMismatch.
//
// Complexity: O(D · L · U log U) for depth D, L levels and U units.
func Units(positions []r2.Vec, as []Assignment, opts ...Option) ([]int, error) {
	o := resolve(opts)

	// 1) Counts
	need := 0
	var members []int
	for i, a := range as {
		if a.Count < 0 {
			return nil, fmt.Errorf("%w: assignment %d has count %d", ErrUnitMismatch, i, a.Count)
		}
		if a.Count > 0 {
			members = append(members, i)
			need += a.Count
		}
	}
	if need != len(positions) {
		return nil, fmt.Errorf("%w: %d positions for %d units", ErrUnitMismatch, len(positions), need)
	}

	// 2) Recursive placement
	out := make([]int, len(positions))
	pool := make([]int, len(positions))
	for i := range pool {
		pool[i] = i
	}
	p := placer{
		positions: positions,
		as:        as,
		opts:      o,
		rng:       rngFromSeed(o.Seed),
		out:       out,
	}
	p.place(pool, members, 0)

	return out, nil
}

// placer carries the state shared by one Units call.
type placer struct {
	positions []r2.Vec
	as        []Assignment
	opts      Options
	rng       *rand.Rand
	out       []int
}

// place gives the units in pool to members, which need exactly len(pool).
func (p *placer) place(pool, members []int, depth int) {
	if len(pool) == 0 {
		return
	}
	if len(members) == 1 {
		for _, u := range pool {
			p.out[u] = members[0]
		}
		return
	}

	deepest := 0
	for _, m := range members {
		deepest = max(deepest, len(p.as[m].Waypoints))
	}
	if depth >= deepest {
		// identical waypoints all the way: hand out in order
		p.opts.Logger.Debug("indistinguishable assignments", slog.Int("members", len(members)))
		i := 0
		for _, m := range members {
			for k := 0; k < p.as[m].Count; k++ {
				p.out[pool[i]] = m
				i++
			}
		}
		return
	}

	levels := p.levels(members, depth)
	if len(levels) == 1 {
		p.place(pool, members, depth+1)
		return
	}
	claimed := p.claim(pool, levels)
	for i, lv := range levels {
		p.place(claimed[i], lv.Members, depth+1)
	}
}

// waypoint returns the waypoint of assignment m at depth, its target past the end.
func (p *placer) waypoint(m, depth int) r2.Vec {
	w := p.as[m].Waypoints
	if depth < len(w) {
		return w[depth]
	}

	return p.as[m].Target
}

// levels groups members by their waypoint at depth, in first-seen order.
func (p *placer) levels(members []int, depth int) []Level {
	var out []Level
	index := make(map[r2.Vec]int)
	for _, m := range members {
		w := p.waypoint(m, depth)
		i, ok := index[w]
		if !ok {
			i = len(out)
			index[w] = i
			out = append(out, Level{Waypoint: w})
		}
		out[i].Members = append(out[i].Members, m)
		out[i].Need += p.as[m].Count
	}

	return out
}

// claim distributes pool over levels. Each level ranks the pool by distance
// to its waypoint; the level whose best remaining unit is nearest claims it.
// Equal distances are decided by the random source.
func (p *placer) claim(pool []int, levels []Level) [][]int {
	queues := make([]unitPQ, len(levels))
	for i, lv := range levels {
		q := make(unitPQ, 0, len(pool))
		for _, u := range pool {
			d, ok := p.opts.Oracle.Distance(p.positions[u], lv.Waypoint)
			if !ok {
				d = math.Inf(1)
			}
			q = append(q, unitItem{unit: u, dist: d})
		}
		heap.Init(&q)
		queues[i] = q
	}

	taken := make(map[int]bool, len(pool))
	out := make([][]int, len(levels))
	var ties []int
	for left := len(pool); left > 0; left-- {
		ties = ties[:0]
		bestD := math.Inf(1)
		for i := range levels {
			if len(out[i]) == levels[i].Need {
				continue
			}
			q := &queues[i]
			for q.Len() > 0 && taken[(*q)[0].unit] {
				heap.Pop(q)
			}
			d := (*q)[0].dist
			switch {
			case len(ties) == 0 || d < bestD:
				ties = append(ties[:0], i)
				bestD = d
			case d == bestD:
				ties = append(ties, i)
			}
		}

		win := ties[0]
		if len(ties) > 1 {
			win = ties[p.rng.Intn(len(ties))]
		}
		item := heap.Pop(&queues[win]).(unitItem)
		taken[item.unit] = true
		out[win] = append(out[win], item.unit)
	}

	return out
}

// unitItem is a unit ranked by its distance to one waypoint.
type unitItem struct {
	unit int
	dist float64
}

// unitPQ is a min-heap on distance, ties by unit index.
type unitPQ []unitItem

func (pq unitPQ) Len() int { return len(pq) }
func (pq unitPQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].unit < pq[j].unit
}
func (pq unitPQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *unitPQ) Push(x interface{}) { *pq = append(*pq, x.(unitItem)) }
func (pq *unitPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	it := old[n-1]
	*pq = old[:n-1]
	return it
}
