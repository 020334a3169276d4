package decompose

import (
	"fmt"
	"math"

	"github.com/katalvlaran/chokeflow/flowgraph"
)

// Saturate pushes the largest admissible flow along nodes and reports the
// polarity runs the path had before the push.
//
// Steps:
//  1. Per step a → b: counter when flow already runs b → a; the admissible
//     amount is Residual(a, b), limited to the opposing flow on counter steps.
//     This departs from the plain residual rule (capacity + opposing flow):
//     a counter step only cancels, it never reverses an edge within one
//     round. Capacity left in the reverse direction is picked up by later
//     rounds as a forward step.
//  2. Flow = minimum over all steps (ErrNoFlow when not above Epsilon).
//  3. Cut the nodes into alternating runs; adjacent runs share a node.
//  4. Push Flow on every step. Overshoot within slack is clamped; beyond it
//     the pushes made so far are undone and ErrCapacityExceeded returned.
//
// Complexity: O(L) for a path of L nodes.
func Saturate(g *flowgraph.Graph, nodes []int, slack float64) (Saturation, error) {
	if len(nodes) < 2 {
		return Saturation{}, fmt.Errorf("%w: %v", ErrEmptyPath, nodes)
	}
	eps := g.Epsilon()

	// 1–2) Polarity and bottleneck
	counter := make([]bool, len(nodes)-1)
	flow := math.Inf(1)
	for i := 0; i+1 < len(nodes); i++ {
		a, b := nodes[i], nodes[i+1]
		if _, ok := g.EdgeBetween(a, b); !ok {
			return Saturation{}, fmt.Errorf("%w: %d–%d", flowgraph.ErrNoEdge, a, b)
		}
		room := g.Residual(a, b)
		if df := g.DirectedFlow(a, b); df < -eps {
			counter[i] = true
			room = math.Min(room, -df)
		}
		flow = math.Min(flow, room)
	}
	if !(flow > eps) {
		return Saturation{}, fmt.Errorf("%w: bottleneck %g", ErrNoFlow, flow)
	}

	// 3) Runs
	var runs []Run
	for i := 0; i+1 < len(nodes); i++ {
		if i == 0 || counter[i] != counter[i-1] {
			runs = append(runs, Run{Nodes: []int{nodes[i]}, Counter: counter[i]})
		}
		last := &runs[len(runs)-1]
		last.Nodes = append(last.Nodes, nodes[i+1])
	}

	// 4) Push
	sat := Saturation{Flow: flow, Runs: runs}
	for i := 0; i+1 < len(nodes); i++ {
		clamped, err := g.Push(nodes[i], nodes[i+1], flow, slack)
		if err != nil {
			for j := i - 1; j >= 0; j-- {
				_, _ = g.Push(nodes[j+1], nodes[j], flow, math.Inf(1))
			}
			return Saturation{}, fmt.Errorf("%w: %w", ErrCapacityExceeded, err)
		}
		sat.Clamped += clamped
	}

	return sat, nil
}
