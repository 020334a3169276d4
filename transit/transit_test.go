package transit_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/chokeflow/transit"
)

type carrier struct{ cost, flow float64 }

func (c carrier) Cost() float64 { return c.cost }
func (c carrier) Flow() float64 { return c.flow }

func curve(cs ...carrier) *transit.Curve { return transit.NewCurve(transit.Carriers(cs)) }

func TestTimeToTransport_SinglePath(t *testing.T) {
	c := curve(carrier{cost: 2, flow: 5})
	require.Equal(t, 3.0, c.TimeToTransport(5))
	require.Equal(t, 5.0, c.Arrivals(3))
	require.Zero(t, c.Arrivals(1.5))
}

func TestTimeToTransport_Segments(t *testing.T) {
	c := curve(carrier{cost: 4, flow: 2}, carrier{cost: 2, flow: 3})

	// 6 units arrive before the slower path starts
	require.InDelta(t, 11.0/3.0, c.TimeToTransport(5), 1e-12)
	require.InDelta(t, 4.8, c.TimeToTransport(10), 1e-12)
	require.InDelta(t, 10.0, c.Arrivals(4.8), 1e-12)
	require.Equal(t, 5.0, c.Flow())
}

func TestTimeToTransport_InvertsArrivals(t *testing.T) {
	c := curve(carrier{1, 0.5}, carrier{3, 2}, carrier{3, 1}, carrier{7, 4})
	for n := 1.0; n <= 200; n += 7 {
		require.InDelta(t, n, c.Arrivals(c.TimeToTransport(n)), 1e-9, "n=%v", n)
	}
}

func TestTimeToTransport_Edges(t *testing.T) {
	require.True(t, math.IsInf(curve().TimeToTransport(1), 1))
	require.Zero(t, curve().TimeToTransport(0))
	require.Zero(t, curve(carrier{2, 1}).TimeToTransport(-3))
	require.True(t, math.IsInf(curve(carrier{2, 0}).TimeToTransport(1), 1), "flowless carriers are ignored")
}

func TestBundle(t *testing.T) {
	var b transit.Bundle
	require.Zero(t, b.Cost())
	b = b.Add(carrier{cost: 2, flow: 1}).Add(carrier{cost: 5, flow: -2})
	require.Equal(t, 3.0, b.Flow())
	require.Equal(t, 4.0, b.Cost())

	var _ transit.Carrier = b
}

func TestTransitOfPaths(t *testing.T) {
	cs := transit.Carriers([]carrier{{2, 5}, {4, 2}, {1, -1.5}})
	require.Equal(t, []int{0, 0, 0}, transit.TransitOfPaths(cs, 0))
	require.Equal(t, []int{5, 0, 3}, transit.TransitOfPaths(cs, 3))
	require.Equal(t, []int{17, 3, 6}, transit.TransitOfPaths(cs, 5.5))
}

func TestTransitOfPaths_NonDecreasing(t *testing.T) {
	cs := transit.Carriers([]carrier{{2, 5}, {4.5, 2.25}, {1, 0.3}, {9, 7}})
	prev := transit.TransitOfPaths(cs, 0)
	for step := 1; step <= 400; step++ {
		cur := transit.TransitOfPaths(cs, float64(step)*0.05)
		for i := range cur {
			require.GreaterOrEqual(t, cur[i], prev[i])
		}
		prev = cur
	}
}
