package transit

import (
	"math"
	"sort"
)

// Carrier is anything with a traversal cost and a flow.
type Carrier interface {
	Cost() float64
	Flow() float64
}

// Carriers converts a typed slice into Carriers.
func Carriers[C Carrier](cs []C) []Carrier {
	out := make([]Carrier, len(cs))
	for i, c := range cs {
		out[i] = c
	}

	return out
}

// Bundle accumulates carriers into one equivalent carrier: the summed flow
// and the flow-weighted mean cost. The zero value is empty.
type Bundle struct {
	flow     float64
	weighted float64
}

// Add returns b with c folded in. The magnitude of c's flow counts.
func (b Bundle) Add(c Carrier) Bundle {
	f := math.Abs(c.Flow())

	return Bundle{flow: b.flow + f, weighted: b.weighted + f*c.Cost()}
}

// Flow returns the summed flow.
func (b Bundle) Flow() float64 { return b.flow }

// Cost returns the flow-weighted cost, 0 for an empty bundle.
func (b Bundle) Cost() float64 {
	if b.flow == 0 {
		return 0
	}

	return b.weighted / b.flow
}

// arrivals of the bundle at t, assuming every member has started.
func (b Bundle) arrivals(t float64) float64 {
	return t*b.flow - b.weighted
}

// step is the bundle of every carrier with cost ≤ at.
type step struct {
	at     float64
	bundle Bundle
}

// Curve is the composite arrivals curve of a carrier set.
type Curve struct {
	steps []step
}

// NewCurve folds cs by ascending cost. Carriers without flow are ignored.
//
// Complexity: O(n log n).
func NewCurve(cs []Carrier) *Curve {
	sorted := make([]Carrier, 0, len(cs))
	for _, c := range cs {
		if c.Flow() != 0 {
			sorted = append(sorted, c)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Cost() < sorted[j].Cost() })

	cur := &Curve{steps: make([]step, 0, len(sorted))}
	var acc Bundle
	for _, c := range sorted {
		acc = acc.Add(c)
		if k := len(cur.steps); k > 0 && cur.steps[k-1].at == c.Cost() {
			cur.steps[k-1].bundle = acc
			continue
		}
		cur.steps = append(cur.steps, step{at: c.Cost(), bundle: acc})
	}

	return cur
}

// Arrivals returns the cumulative units delivered by time t.
func (c *Curve) Arrivals(t float64) float64 {
	var active *Bundle
	for i := range c.steps {
		if c.steps[i].at > t {
			break
		}
		active = &c.steps[i].bundle
	}
	if active == nil {
		return 0
	}

	return active.arrivals(t)
}

// TimeToTransport returns the earliest time at which n units have arrived.
// n ≤ 0 takes no time; an empty curve never delivers (+Inf).
//
// Steps:
//  1. Walk the segments in cost order.
//  2. On segment k the curve is linear with the bundle of steps[0..k];
//     when the next threshold would already deliver n, solve the line.
//
// Complexity: O(n).
func (c *Curve) TimeToTransport(n float64) float64 {
	if n <= 0 {
		return 0
	}
	for i, s := range c.steps {
		if i+1 < len(c.steps) && s.bundle.arrivals(c.steps[i+1].at) < n {
			continue
		}

		return (n + s.bundle.weighted) / s.bundle.flow
	}

	return math.Inf(1)
}

// Flow returns the total flow of the curve.
func (c *Curve) Flow() float64 {
	if len(c.steps) == 0 {
		return 0
	}

	return c.steps[len(c.steps)-1].bundle.flow
}

// TransitOfPaths returns, per carrier, the whole units it alone has
// delivered by time t: floor((t − cost) · |flow|), never negative.
//
// Complexity: O(n).
func TransitOfPaths(cs []Carrier, t float64) []int {
	out := make([]int, len(cs))
	for i, c := range cs {
		if v := math.Floor((t - c.Cost()) * math.Abs(c.Flow())); v > 0 {
			out[i] = int(v)
		}
	}

	return out
}
