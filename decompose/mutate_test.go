package decompose_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/chokeflow/decompose"
	"github.com/katalvlaran/chokeflow/paths"
)

// unitNet prices every step at 1 and anchors node n at (n, 0).
type unitNet struct{}

func (unitNet) PathLength(nodes []int) (float64, error) { return float64(len(nodes) - 1), nil }

func (unitNet) Anchors(nodes []int) []r2.Vec {
	out := make([]r2.Vec, len(nodes))
	for i, n := range nodes {
		out[i] = r2.Vec{X: float64(n)}
	}
	return out
}

func intern(t *testing.T, s *paths.Session, flow float64, nodes ...int) *paths.Path {
	t.Helper()
	p, err := s.Intern(nodes, flow)
	require.NoError(t, err)
	return p
}

func threeRuns(lead, counter, tail []int) []decompose.Run {
	return []decompose.Run{{Nodes: lead}, {Nodes: counter, Counter: true}, {Nodes: tail}}
}

// sequences lists the node sequences of set with their flows.
func sequences(set *paths.ConcurrentSet) map[string]float64 {
	out := make(map[string]float64)
	for _, p := range set.Paths() {
		out[p.String()] += p.Flow()
	}
	return out
}

func nodesOf(set *paths.ConcurrentSet) [][]int {
	var out [][]int
	for _, p := range set.Paths() {
		out = append(out, p.Nodes())
	}
	return out
}

func TestMutate_SingleCounterRun(t *testing.T) {
	s := paths.NewSession(unitNet{})
	p := intern(t, s, 1, 0, 1, 2, 3)
	set := paths.NewConcurrentSet(p)

	m := decompose.NewMutator(s, decompose.DefaultOptions(), nil)
	out, err := m.Mutate(set, threeRuns([]int{0, 2}, []int{2, 1}, []int{1, 3}), 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.ElementsMatch(t, [][]int{{0, 2, 3}, {0, 1, 3}}, nodesOf(out[0]))
	require.InDelta(t, 2.0, out[0].TotalFlow(), 1e-12)
	require.True(t, set.Contains(p), "the input set is untouched")
}

func TestMutate_KeepsExcess(t *testing.T) {
	s := paths.NewSession(unitNet{})
	p := intern(t, s, 3, 0, 1, 2, 3)
	set := paths.NewConcurrentSet(p)

	m := decompose.NewMutator(s, decompose.DefaultOptions(), nil)
	out, err := m.Mutate(set, threeRuns([]int{0, 2}, []int{2, 1}, []int{1, 3}), 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.False(t, out[0].Contains(p))

	flows := make(map[int]float64)
	for _, q := range out[0].Paths() {
		flows[q.SeqID()] += q.Flow()
	}
	require.Equal(t, 2.0, flows[p.SeqID()], "two units stay on the original route")
	require.InDelta(t, 4.0, out[0].TotalFlow(), 1e-12)
}

func TestMutate_SmallestSufficientCover(t *testing.T) {
	s := paths.NewSession(unitNet{})
	big := intern(t, s, 3, 0, 2, 1, 3)
	small := intern(t, s, 1, 0, 4, 2, 1, 3)
	fit := intern(t, s, 2, 0, 5, 2, 1, 3)
	set := paths.NewConcurrentSet(big, small, fit)

	m := decompose.NewMutator(s, decompose.DefaultOptions(), nil)
	out, err := m.Mutate(set, threeRuns([]int{0, 1}, []int{1, 2}, []int{2, 3}), 2)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.True(t, out[0].Contains(big))
	require.True(t, out[0].Contains(small))
	require.False(t, out[0].Contains(fit), "the 2-unit path covers exactly")
}

func TestMutate_TiesBranch(t *testing.T) {
	s := paths.NewSession(unitNet{})
	p1 := intern(t, s, 1, 0, 2, 1, 3)
	p2 := intern(t, s, 1, 0, 4, 2, 1, 3)
	set := paths.NewConcurrentSet(p1, p2)

	m := decompose.NewMutator(s, decompose.DefaultOptions(), nil)
	out, err := m.Mutate(set, threeRuns([]int{0, 1}, []int{1, 2}, []int{2, 3}), 1)
	require.NoError(t, err)
	require.Len(t, out, 2)

	require.False(t, out[0].Contains(p1))
	require.True(t, out[0].Contains(p2))
	require.ElementsMatch(t, [][]int{{0, 4, 2, 1, 3}, {0, 1, 3}, {0, 2, 3}}, nodesOf(out[0]))

	require.True(t, out[1].Contains(p1))
	require.False(t, out[1].Contains(p2))
	require.ElementsMatch(t, [][]int{{0, 2, 1, 3}, {0, 1, 3}, {0, 4, 2, 3}}, nodesOf(out[1]))
}

func TestMutate_CoverFallback(t *testing.T) {
	s := paths.NewSession(unitNet{})
	p1 := intern(t, s, 1, 0, 2, 1, 3)
	p2 := intern(t, s, 1, 0, 4, 2, 1, 3)
	set := paths.NewConcurrentSet(p1, p2)

	var stats decompose.Stats
	m := decompose.NewMutator(s, decompose.DefaultOptions(), &stats)
	out, err := m.Mutate(set, threeRuns([]int{0, 1}, []int{1, 2}, []int{2, 3}), 2)
	require.NoError(t, err)
	require.Equal(t, 1, stats.CoverFallbacks, "no single path carries 2 units")
	require.Len(t, out, 1)

	require.False(t, out[0].Contains(p1))
	require.False(t, out[0].Contains(p2))
	require.ElementsMatch(t, [][]int{{0, 1, 3}, {0, 1, 3}, {0, 2, 3}, {0, 4, 2, 3}}, nodesOf(out[0]))
	require.InDelta(t, 4.0, out[0].TotalFlow(), 1e-12)
}

func TestMutate_TiesRespectLimit(t *testing.T) {
	s := paths.NewSession(unitNet{})
	p1 := intern(t, s, 1, 0, 2, 1, 3)
	p2 := intern(t, s, 1, 0, 4, 2, 1, 3)
	p3 := intern(t, s, 1, 0, 5, 2, 1, 3)
	set := paths.NewConcurrentSet(p1, p2, p3)

	opts := decompose.DefaultOptions()
	opts.MaxAlternatives = 2
	m := decompose.NewMutator(s, opts, nil)
	out, err := m.Mutate(set, threeRuns([]int{0, 1}, []int{1, 2}, []int{2, 3}), 1)
	require.NoError(t, err)
	require.Len(t, out, 2)
}

func TestMutate_FiveRuns(t *testing.T) {
	s := paths.NewSession(unitNet{})
	p1 := intern(t, s, 1, 0, 2, 1, 9)
	p2 := intern(t, s, 1, 0, 4, 3, 9)
	set := paths.NewConcurrentSet(p1, p2)

	runs := []decompose.Run{
		{Nodes: []int{0, 1}},
		{Nodes: []int{1, 2}, Counter: true},
		{Nodes: []int{2, 3}},
		{Nodes: []int{3, 4}, Counter: true},
		{Nodes: []int{4, 9}},
	}
	m := decompose.NewMutator(s, decompose.DefaultOptions(), nil)
	out, err := m.Mutate(set, runs, 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.ElementsMatch(t, [][]int{{0, 1, 9}, {0, 2, 3, 9}, {0, 4, 9}}, nodesOf(out[0]))
	for _, f := range sequences(out[0]) {
		require.Equal(t, 1.0, f)
	}
}

func TestMutate_Errors(t *testing.T) {
	s := paths.NewSession(unitNet{})
	set := paths.NewConcurrentSet(intern(t, s, 1, 0, 1, 2, 3))
	m := decompose.NewMutator(s, decompose.DefaultOptions(), nil)

	cases := map[string][]decompose.Run{
		"single run": {{Nodes: []int{0, 1}}},
		"even count": {{Nodes: []int{0, 2}}, {Nodes: []int{2, 1}, Counter: true}},
		"counter first": {
			{Nodes: []int{0, 2}, Counter: true}, {Nodes: []int{2, 1}}, {Nodes: []int{1, 3}, Counter: true},
		},
		"disjoint": threeRuns([]int{0, 2}, []int{1, 2}, []int{2, 3}),
		"no step":  threeRuns([]int{0, 2}, []int{2}, []int{2, 3}),
	}
	for name, runs := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := m.Mutate(set, runs, 1)
			require.ErrorIs(t, err, decompose.ErrMalformedRuns)
		})
	}

	_, err := m.Mutate(set, threeRuns([]int{0, 3}, []int{3, 5}, []int{5, 6}), 1)
	require.ErrorIs(t, err, decompose.ErrNoCandidates)
}
