package augment

import (
	"container/heap"
	"context"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/chokeflow/flowgraph"
)

// ctxCheckInterval is how many expansions pass between context checks.
const ctxCheckInterval = 256

// Search finds a shortest residual path from the origins to the terminals.
// It returns (nil, nil) when none exists.
//
// Steps:
//  1. Resolve options and endpoint sets.
//  2. Seed every origin with distance 0.
//  3. Pop the lowest f = g + h; skip stale entries; stop at the first terminal.
//  4. Relax residual neighbors; clamp negative g to 0; reopen closed nodes
//     on strict improvement.
//  5. Reconstruct the path (see reconstruct).
func Search(ctx context.Context, g *flowgraph.Graph, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	// 1) Endpoints
	origins := cfg.Origins
	if len(origins) == 0 && g.Source() != flowgraph.NoNode {
		origins = []int{g.Source()}
	}
	if len(origins) == 0 {
		return nil, ErrNoOrigin
	}
	terminals := cfg.Terminals
	if len(terminals) == 0 && g.Terminal() != flowgraph.NoNode {
		terminals = []int{g.Terminal()}
	}
	if len(terminals) == 0 {
		return nil, ErrNoTerminal
	}
	maxExp := cfg.MaxExpansions
	if maxExp <= 0 {
		maxExp = 16*(g.NodeCount()+g.EdgeCount()) + 64
	}

	r := newRunner(g, origins, terminals, cfg.Logger)

	// 2–4) Main loop
	for r.pq.Len() > 0 {
		if r.expanded%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		item := heap.Pop(&r.pq).(nodeItem)
		u := item.id
		if item.g > r.dist[u] || r.closed[u] {
			continue
		}
		if r.terminal[u] {
			return r.reconstruct(u), nil
		}

		r.closed[u] = true
		r.expanded++
		if r.expanded > maxExp {
			return nil, fmt.Errorf("%w: %d expansions", ErrExpansionLimit, r.expanded)
		}
		r.relax(u)
	}

	return nil, nil
}

// runner holds the mutable state of one Search.
type runner struct {
	g        *flowgraph.Graph
	log      *slog.Logger
	goals    []r2.Vec
	dist     []float64
	pred     []int // latest predecessor
	first    []int // predecessor at first discovery
	closed   []bool
	origin   []bool
	terminal []bool
	pq       nodePQ

	expanded, reopened, clamped int
}

func newRunner(g *flowgraph.Graph, origins, terminals []int, log *slog.Logger) *runner {
	n := g.NodeCount()
	r := &runner{
		g:        g,
		log:      log,
		dist:     make([]float64, n),
		pred:     make([]int, n),
		first:    make([]int, n),
		closed:   make([]bool, n),
		origin:   make([]bool, n),
		terminal: make([]bool, n),
	}
	for i := 0; i < n; i++ {
		r.dist[i] = math.Inf(1)
		r.pred[i] = flowgraph.NoNode
		r.first[i] = flowgraph.NoNode
	}
	for _, t := range terminals {
		r.terminal[t] = true
		r.goals = append(r.goals, g.Node(t).Anchor)
	}
	heap.Init(&r.pq)
	for _, o := range origins {
		r.origin[o] = true
		r.dist[o] = 0
		heap.Push(&r.pq, nodeItem{id: o, g: 0, f: r.heuristic(o)})
	}

	return r
}

// heuristic is the straight-line distance to the nearest terminal anchor.
func (r *runner) heuristic(n int) float64 {
	a := r.g.Node(n).Anchor
	best := math.Inf(1)
	for _, t := range r.goals {
		if d := r2.Norm(r2.Sub(t, a)); d < best {
			best = d
		}
	}

	return best
}

// relax examines every residual neighbor of u.
func (r *runner) relax(u int) {
	for _, v := range r.g.GetNeighbors(u) {
		nd := r.dist[u] + r.g.DistanceBetweenNeighbors(u, v)
		if nd < 0 {
			nd = 0
			r.clamped++
		}
		if nd >= r.dist[v] {
			continue
		}
		if r.first[v] == flowgraph.NoNode && !r.origin[v] {
			r.first[v] = u
		}
		r.dist[v] = nd
		r.pred[v] = u
		if r.closed[v] {
			r.closed[v] = false
			r.reopened++
		}
		heap.Push(&r.pq, nodeItem{id: v, g: nd, f: nd + r.heuristic(v)})
	}
}

// reconstruct walks predecessors from goal back to an origin.
//
// The latest-predecessor chain may contain a cycle after reopening. When the
// walk meets a node it already holds, it returns to the last node reached and
// continues along the discovery tree, erasing any loop it closes. If no origin
// is reachable the result is nil.
func (r *runner) reconstruct(goal int) *Result {
	res := &Result{Expanded: r.expanded, Reopened: r.reopened}
	back := []int{goal}
	at := map[int]int{goal: 0}

	cur := goal
	for !r.origin[cur] {
		p := r.pred[cur]
		if p == flowgraph.NoNode {
			return nil
		}
		if _, seen := at[p]; seen {
			res.Truncated = true
			break
		}
		at[p] = len(back)
		back = append(back, p)
		cur = p
	}

	if res.Truncated {
		r.log.Debug("augmenting path predecessor cycle", "node", cur)
		for !r.origin[cur] {
			p := r.first[cur]
			if p == flowgraph.NoNode {
				return nil
			}
			if k, seen := at[p]; seen {
				for _, n := range back[k+1:] {
					delete(at, n)
				}
				back = back[:k+1]
			} else {
				at[p] = len(back)
				back = append(back, p)
			}
			cur = p
		}
	}

	for i, j := 0, len(back)-1; i < j; i, j = i+1, j-1 {
		back[i], back[j] = back[j], back[i]
	}
	res.Nodes = back
	for i := 0; i+1 < len(back); i++ {
		res.Cost += r.g.DistanceBetweenNeighbors(back[i], back[i+1])
	}
	if r.reopened > 0 || r.clamped > 0 {
		r.log.Debug("augmenting search corrected labels",
			"reopened", r.reopened, "clamped", r.clamped, "expanded", r.expanded)
	}

	return res
}
