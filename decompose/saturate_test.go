package decompose_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/chokeflow/decompose"
	"github.com/katalvlaran/chokeflow/flowgraph"
)

type edge struct {
	a, b     int
	cap, len float64
}

// build adds n nodes with anchors close to the origin (admissible heuristic,
// distinct anchors), the given edges, source 0 and terminal n−1.
func build(t *testing.T, n int, edges ...edge) *flowgraph.Graph {
	t.Helper()
	g := flowgraph.NewGraph()
	for i := 0; i < n; i++ {
		g.AddNode(flowgraph.Node{Anchor: r2.Vec{Y: float64(i) * 0.01}})
	}
	for _, e := range edges {
		_, err := g.AddEdge(e.a, e.b, e.cap, e.len)
		require.NoError(t, err)
	}
	require.NoError(t, g.SetSource(0))
	require.NoError(t, g.SetTerminal(n-1))

	return g
}

// diamond is s=0 a=1 b=2 t=3 with a cheap s→a→b→t and expensive s→b, a→t.
func diamond(t *testing.T, capAB float64) *flowgraph.Graph {
	return build(t, 4,
		edge{0, 1, 1, 1}, edge{1, 2, capAB, 1}, edge{2, 3, 1, 1},
		edge{0, 2, 1, 3}, edge{1, 3, 1, 3},
	)
}

func TestSaturate_Forward(t *testing.T) {
	g := build(t, 3, edge{0, 1, 4, 1}, edge{1, 2, 2.5, 1})
	sat, err := decompose.Saturate(g, []int{0, 1, 2}, decompose.DefaultCapacitySlack)
	require.NoError(t, err)
	require.Equal(t, 2.5, sat.Flow)
	require.Equal(t, []decompose.Run{{Nodes: []int{0, 1, 2}}}, sat.Runs)
	require.Equal(t, 2.5, g.DirectedFlow(0, 1))
	require.Zero(t, g.Residual(1, 2))
	require.Zero(t, sat.Clamped)
}

func TestSaturate_CounterRuns(t *testing.T) {
	g := diamond(t, 1)
	_, err := decompose.Saturate(g, []int{0, 1, 2, 3}, decompose.DefaultCapacitySlack)
	require.NoError(t, err)

	sat, err := decompose.Saturate(g, []int{0, 2, 1, 3}, decompose.DefaultCapacitySlack)
	require.NoError(t, err)
	require.Equal(t, 1.0, sat.Flow)
	require.Equal(t, []decompose.Run{
		{Nodes: []int{0, 2}},
		{Nodes: []int{2, 1}, Counter: true},
		{Nodes: []int{1, 3}},
	}, sat.Runs)
	require.Zero(t, g.DirectedFlow(1, 2), "the cancelled edge is empty")
	require.NoError(t, g.Validate(0))
}

func TestSaturate_CounterNeverFlips(t *testing.T) {
	// a–b has room for 5 but only 1 unit runs a→b; walking b→a may cancel it
	// without turning the edge around.
	g := build(t, 4,
		edge{0, 1, 1, 1}, edge{1, 2, 5, 1}, edge{2, 3, 1, 1},
		edge{0, 2, 5, 3}, edge{1, 3, 5, 3},
	)
	_, err := decompose.Saturate(g, []int{0, 1, 2, 3}, decompose.DefaultCapacitySlack)
	require.NoError(t, err)

	sat, err := decompose.Saturate(g, []int{0, 2, 1, 3}, decompose.DefaultCapacitySlack)
	require.NoError(t, err)
	require.Equal(t, 1.0, sat.Flow)
	require.Zero(t, g.DirectedFlow(1, 2))
}

func TestSaturate_Errors(t *testing.T) {
	g := build(t, 3, edge{0, 1, 1, 1}, edge{1, 2, 1, 1})

	_, err := decompose.Saturate(g, []int{0}, 0)
	require.ErrorIs(t, err, decompose.ErrEmptyPath)

	_, err = decompose.Saturate(g, []int{0, 2}, 0)
	require.ErrorIs(t, err, flowgraph.ErrNoEdge)

	_, err = decompose.Saturate(g, []int{0, 1, 2}, 0)
	require.NoError(t, err)
	_, err = decompose.Saturate(g, []int{0, 1, 2}, 0)
	require.ErrorIs(t, err, decompose.ErrNoFlow)
	require.Equal(t, 1.0, g.DirectedFlow(0, 1), "a failed saturation leaves the graph alone")
}
