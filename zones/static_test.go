package zones_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/chokeflow/zones"
)

func square(x0, y0, x1, y1 float64) orb.Polygon {
	return orb.Polygon{orb.Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}}
}

func TestNewStatic_CentroidAndLookup(t *testing.T) {
	s, err := zones.NewStatic(
		[]zones.Zone{
			{ID: 1, Polygon: square(10, 0, 20, 10)},
			{ID: 0, Polygon: square(0, 0, 10, 10)},
		},
		[]zones.Gateway{{ID: 0, Width: 2, Zones: [2]int{0, 1}, Sides: [2]r2.Vec{{X: 9, Y: 5}, {X: 11, Y: 5}}}},
	)
	require.NoError(t, err)
	require.Len(t, s.Zones(), 2)
	require.Equal(t, 0, s.Zones()[0].ID, "zones are sorted by id")
	require.InDelta(t, 5.0, s.Zones()[0].Center.X, 1e-9)
	require.InDelta(t, 5.0, s.Zones()[0].Center.Y, 1e-9)

	z, ok := s.ZoneOf(r2.Vec{X: 15, Y: 3})
	require.True(t, ok)
	require.Equal(t, 1, z)

	_, ok = s.ZoneOf(r2.Vec{X: 50, Y: 50})
	require.False(t, ok)

	side, ok := s.Gateways()[0].Side(1)
	require.True(t, ok)
	require.Equal(t, r2.Vec{X: 11, Y: 5}, side)
	_, ok = s.Gateways()[0].Side(7)
	require.False(t, ok)
}

func TestNewStatic_Validation(t *testing.T) {
	good := []zones.Zone{{ID: 0, Polygon: square(0, 0, 1, 1)}, {ID: 1, Polygon: square(1, 0, 2, 1)}}

	cases := []struct {
		name string
		zs   []zones.Zone
		gs   []zones.Gateway
		want error
	}{
		{"empty polygon", []zones.Zone{{ID: 0}}, nil, zones.ErrEmptyZone},
		{"duplicate zone", []zones.Zone{good[0], good[0]}, nil, zones.ErrDuplicateZone},
		{"bad width", good, []zones.Gateway{{ID: 0, Width: 0, Zones: [2]int{0, 1}}}, zones.ErrBadWidth},
		{"same zone", good, []zones.Gateway{{ID: 0, Width: 1, Zones: [2]int{0, 0}}}, zones.ErrSameZone},
		{"unknown zone", good, []zones.Gateway{{ID: 0, Width: 1, Zones: [2]int{0, 9}}}, zones.ErrUnknownZone},
		{"duplicate gateway", good, []zones.Gateway{
			{ID: 3, Width: 1, Zones: [2]int{0, 1}},
			{ID: 3, Width: 1, Zones: [2]int{0, 1}},
		}, zones.ErrDuplicateGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := zones.NewStatic(tc.zs, tc.gs)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLoadStatic(t *testing.T) {
	doc := `
zones:
  - id: 0
    polygon: [[0, 0], [10, 0], [10, 10], [0, 10]]
  - id: 1
    center: [15, 5]
    polygon: [[10, 0], [20, 0], [20, 10], [10, 10]]
gateways:
  - id: 0
    width: 3
    zones: [0, 1]
    sides: [[9, 5], [11, 5]]
`
	path := filepath.Join(t.TempDir(), "map.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	s, err := zones.LoadStatic(path)
	require.NoError(t, err)
	require.Len(t, s.Gateways(), 1)
	require.Equal(t, 3.0, s.Gateways()[0].Width)
	require.Equal(t, r2.Vec{X: 15, Y: 5}, s.Zones()[1].Center)

	require.NoError(t, os.WriteFile(path, []byte("zones: []\nbogus: 1\n"), 0o600))
	_, err = zones.LoadStatic(path)
	require.Error(t, err, "unknown keys are rejected")
}
