package assign

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/chokeflow/paths"
	"github.com/katalvlaran/chokeflow/transit"
)

// Counts splits n units over the fastest alternative.
//
// Steps:
//  1. n == 0 or no alternative with flow: empty result.
//  2. Choose the alternative with the smallest TimeToTransport(n).
//  3. lo = floor(time); evaluate TransitOfPaths at lo, lo+1, lo+2 and keep
//     the first time delivering at least n.
//  4. Not bracketed: when lo already overshoots, restart from 0; when even
//     lo+2 falls short, double the upper bound until it delivers n. Each
//     widening is logged at Warn. Bisect for the smallest sufficient time.
//  5. An exact total is used as is; otherwise the surplus is removed from
//     the path with the largest count (repeatedly, never below zero).
//  6. Paths with a zero count are dropped.
//
// Errors: ErrNegativeUnits, ErrBracket when MaxWidenings doublings do not
// suffice.
//
// Complexity: O(A·P) to choose plus O(P·log T) for the bracket.
func Counts(alts []*paths.ConcurrentSet, n int, opts ...Option) (*CountResult, error) {
	o := resolve(opts)
	log := o.Logger
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeUnits, n)
	}

	// 1) Trivial requests
	res := &CountResult{Alternative: -1}
	if n == 0 {
		return res, nil
	}

	// 2) Fastest alternative
	best := math.Inf(1)
	for i, a := range alts {
		t := transit.NewCurve(transit.Carriers(a.Paths())).TimeToTransport(float64(n))
		if t < best {
			best, res.Alternative = t, i
		}
	}
	if res.Alternative < 0 {
		log.Warn("no alternative can transport units", slog.Int("units", n))
		return res, nil
	}
	res.Time = best
	ps := alts[res.Alternative].Paths()
	cs := transit.Carriers(ps)
	total := func(t int) ([]int, int) {
		counts := transit.TransitOfPaths(cs, float64(t))
		sum := 0
		for _, c := range counts {
			sum += c
		}
		return counts, sum
	}

	// 3–4) Bracket
	at, widened, err := bracket(total, best, n, o.MaxWidenings, log)
	res.Widened = widened
	if err != nil {
		return nil, err
	}

	// 5) Exact or surplus removal
	counts, sum := total(at)
	res.At = at
	res.Exact = sum == n
	for surplus := sum - n; surplus > 0; {
		k := 0
		for i := range counts {
			if counts[i] > counts[k] {
				k = i
			}
		}
		take := min(surplus, counts[k])
		counts[k] -= take
		surplus -= take
	}

	// 6) Assignments
	for i, p := range ps {
		if counts[i] == 0 {
			continue
		}
		anchors := p.Anchors()
		res.Assignments = append(res.Assignments, Assignment{
			Count:     counts[i],
			Path:      p,
			Waypoints: anchors,
			Target:    anchors[len(anchors)-1],
		})
	}

	return res, nil
}

// bracket returns the smallest whole time t with total(t) ≥ n, searching
// from floor(time) and widening when that guess is off. total must be
// non-decreasing in t.
//
// Steps:
//  1. lo = floor(time). If total(lo) already exceeds n, restart from 0 and
//     bisect (0, lo].
//  2. Otherwise the first of lo, lo+1, lo+2 reaching n.
//  3. Otherwise double hi from lo+2 until total(hi) ≥ n, at most
//     maxWidenings times in all, then bisect (previous hi, hi].
//
// Errors: ErrBracket.
func bracket(total func(int) ([]int, int), time float64, n, maxWidenings int, log *slog.Logger) (at, widened int, err error) {
	// 1) Lower bound overshoots
	lo := int(math.Floor(time))
	if _, sum := total(lo); sum > n {
		widened++
		log.Warn("count bracket widened", slog.String("bound", "lower"), slog.Int("from", lo), slog.Int("to", 0))
		if _, sum := total(0); sum >= n {
			return 0, widened, nil
		}

		return smallestSufficient(total, 0, lo, n), widened, nil
	}

	// 2) Near the continuous time
	for k := 0; k <= 2; k++ {
		if _, sum := total(lo + k); sum >= n {
			return lo + k, widened, nil
		}
	}

	// 3) Upper bound falls short
	from, hi := lo+2, lo+2
	for {
		if widened >= maxWidenings {
			return -1, widened, fmt.Errorf("%w: %d units by t=%d", ErrBracket, n, hi)
		}
		from, hi = hi, max(2*hi, 1)
		widened++
		log.Warn("count bracket widened", slog.String("bound", "upper"), slog.Int("from", from), slog.Int("to", hi))
		if _, sum := total(hi); sum >= n {
			break
		}
	}

	return smallestSufficient(total, from, hi, n), widened, nil
}

// smallestSufficient returns the smallest t in (lo, hi] with total(t) ≥ n,
// given total(hi) ≥ n. lo itself is not evaluated.
func smallestSufficient(total func(int) ([]int, int), lo, hi, n int) int {
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if _, sum := total(mid); sum >= n {
			hi = mid
		} else {
			lo = mid
		}
	}

	return hi
}
