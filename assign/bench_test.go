package assign_test

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/chokeflow/assign"
)

// BenchmarkUnits spreads units over a square and splits them across routes
// fanning out through distinct first waypoints that rejoin at a shared one.
func BenchmarkUnits(b *testing.B) {
	cases := []struct {
		name          string
		units, routes int
		seed          int64
	}{
		{"Small", 50, 3, 42},
		{"Medium", 500, 6, 4242},
		{"Large", 5000, 12, 424242},
	}

	for _, tc := range cases {
		b.Run(tc.name, func(b *testing.B) {
			r := rand.New(rand.NewSource(tc.seed))
			pos := make([]r2.Vec, tc.units)
			for i := range pos {
				pos[i] = r2.Vec{X: r.Float64() * 100, Y: r.Float64() * 100}
			}
			as := make([]assign.Assignment, tc.routes)
			left := tc.units
			for i := range as {
				c := tc.units / tc.routes
				if i == len(as)-1 {
					c = left
				}
				left -= c
				first := r2.Vec{X: 120, Y: float64(i) * 100 / float64(tc.routes)}
				join := r2.Vec{X: 150, Y: float64(i%2) * 100}
				as[i] = via(c, first, join, r2.Vec{X: 200, Y: 50})
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := assign.Units(pos, as); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
