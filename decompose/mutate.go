package decompose

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/chokeflow/paths"
)

// pending is a path still holding counter runs, with the flow it carries.
type pending struct {
	runs []Run
	flow float64
}

// branch is one partially mutated alternative.
type branch struct {
	set  *paths.ConcurrentSet
	work []pending
}

// Mutator rewrites concurrent sets so that they absorb a path cancelling
// committed flow. It is bound to the Session that interns the new paths.
type Mutator struct {
	s     *paths.Session
	opts  Options
	stats *Stats
}

// NewMutator returns a Mutator over s. stats may be nil.
func NewMutator(s *paths.Session, opts Options, stats *Stats) *Mutator {
	opts.normalize()
	if stats == nil {
		stats = &Stats{}
	}

	return &Mutator{s: s, opts: opts, stats: stats}
}

// Mutate returns every alternative obtained by splicing a path with the
// given runs and flow into set. set itself is left untouched.
//
// Steps:
//  1. Validate runs: odd count ≥ 3, forward first and last, alternating
//     polarity, shared boundary nodes.
//  2. Work through a stack of branches; each branch holds a set and the
//     pending paths still carrying a counter run.
//  3. For the top pending path with leading runs F·C·R: candidates are the
//     entries walking reverse(C); pick all minimal covers (see covers).
//  4. Per cover, clone the set and splice every chosen path; a remainder
//     with further counter runs is pushed as pending on the clone.
//  5. A branch without pending work is an output. Outputs are deduplicated
//     by key and capped at MaxAlternatives.
//
// Errors: ErrMalformedRuns, ErrNoCandidates, or an Intern error.
//
// Complexity: O(B · k · 2^m) where B is the number of branches, k the
// number of counter runs and m ≤ MaxCandidates.
func (m *Mutator) Mutate(set *paths.ConcurrentSet, runs []Run, flow float64) ([]*paths.ConcurrentSet, error) {
	// 1) Validate
	if err := validateRuns(runs); err != nil {
		return nil, err
	}
	if !(flow > 0) {
		return nil, fmt.Errorf("%w: flow %g", ErrMalformedRuns, flow)
	}

	// 2) Branch stack
	stack := []branch{{set: set.Clone(), work: []pending{{runs: runs, flow: flow}}}}
	var out []*paths.ConcurrentSet
	seen := make(map[string]struct{})

	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// 5) Finished branch
		if len(b.work) == 0 {
			k := b.set.Key()
			if _, dup := seen[k]; !dup {
				seen[k] = struct{}{}
				out = append(out, b.set)
			}
			continue
		}

		// 3) Covers for the top pending path
		top := b.work[len(b.work)-1]
		rest := b.work[:len(b.work)-1]
		rev := reversed(top.runs[1].Nodes)
		cands := b.set.Containing(rev)
		if len(cands) == 0 {
			return nil, fmt.Errorf("%w: %v", ErrNoCandidates, rev)
		}
		covers := m.covers(cands, top.flow)

		// 4) One child per cover while the budget allows
		var children []branch
		for i, cover := range covers {
			if i > 0 && len(out)+len(stack)+len(children) >= m.opts.MaxAlternatives {
				break
			}
			child := branch{
				set:  b.set.Clone(),
				work: append([]pending(nil), rest...),
			}
			more, err := m.splice(child.set, top, rev, cover)
			if err != nil {
				return nil, err
			}
			child.work = append(child.work, more...)
			children = append(children, child)
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	if len(out) > m.opts.MaxAlternatives {
		out = out[:m.opts.MaxAlternatives]
	}

	return out, nil
}

// covers returns the subsets of cands whose total flow reaches need with the
// smallest total, in enumeration order.
//
// Sizes 1…n−1 are tried in increasing order; a subset containing an
// already accepted cover is skipped. Without any cover the full candidate
// list is the single answer (a lone candidate is its own full list).
func (m *Mutator) covers(cands []*paths.Path, need float64) [][]*paths.Path {
	n := len(cands)
	if n == 1 {
		return [][]*paths.Path{cands}
	}
	enum := n
	if enum > m.opts.MaxCandidates {
		enum = m.opts.MaxCandidates
	}
	need -= m.opts.CapacitySlack

	var (
		accepted []uint64
		totals   []float64
	)
	for size := 1; size < enum || (enum < n && size == enum); size++ {
		forEachCombination(enum, size, func(mask uint64) {
			for _, a := range accepted {
				if mask&a == a {
					return
				}
			}
			total := 0.0
			for i := 0; i < enum; i++ {
				if mask&(1<<uint(i)) != 0 {
					total += cands[i].Flow()
				}
			}
			if total >= need {
				accepted = append(accepted, mask)
				totals = append(totals, total)
			}
		})
	}

	if len(accepted) == 0 {
		m.stats.CoverFallbacks++
		m.opts.Logger.Warn("no partial cover, using every candidate",
			slog.Int("candidates", n),
			slog.Float64("need", need+m.opts.CapacitySlack))

		return [][]*paths.Path{cands}
	}

	best := math.Inf(1)
	for _, t := range totals {
		best = math.Min(best, t)
	}
	var out [][]*paths.Path
	for i, mask := range accepted {
		if totals[i] > best+1e-9 {
			continue
		}
		var cover []*paths.Path
		for j := 0; j < enum; j++ {
			if mask&(1<<uint(j)) != 0 {
				cover = append(cover, cands[j])
			}
		}
		out = append(out, cover)
	}

	return out
}

// splice rewrites set so that the pending path top no longer cancels the
// chosen entries. It returns the spliced remainders that still hold counter
// runs.
func (m *Mutator) splice(set *paths.ConcurrentSet, top pending, rev []int, cover []*paths.Path) ([]pending, error) {
	lead, tail := top.runs[0].Nodes, top.runs[2].Nodes
	remaining := top.flow
	eps := 1e-12
	var more []pending

	for _, p := range cover {
		share := math.Min(p.Flow(), remaining)
		if share <= eps {
			continue
		}
		remaining -= share

		if err := set.Remove(p); err != nil {
			return nil, err
		}
		if excess := p.Flow() - share; excess > eps {
			keep, err := m.s.WithFlow(p, excess)
			if err != nil {
				return nil, err
			}
			set.Add(keep)
		}

		nodes := p.Nodes()
		k := p.Index(rev)
		prefix := nodes[:k+1]
		suffix := nodes[k+len(rev)-1:]

		// lead·suffix
		b, err := m.s.Intern(concat(lead, suffix[1:]), share)
		if err != nil {
			return nil, err
		}
		set.Add(b)

		// prefix·tail, possibly followed by further runs
		head := concat(prefix, tail[1:])
		if len(top.runs) == 3 {
			a, err := m.s.Intern(head, share)
			if err != nil {
				return nil, err
			}
			set.Add(a)
			continue
		}
		runs := make([]Run, 0, len(top.runs)-2)
		runs = append(runs, Run{Nodes: head})
		runs = append(runs, top.runs[3:]...)
		more = append(more, pending{runs: runs, flow: share})
	}

	if remaining > m.opts.CapacitySlack {
		m.opts.Logger.Warn("cover short of pushed flow",
			slog.Float64("missing", remaining),
			slog.Any("run", rev))
	}

	return more, nil
}

// validateRuns checks the structural shape of a run list.
func validateRuns(runs []Run) error {
	if len(runs) < 3 || len(runs)%2 == 0 {
		return fmt.Errorf("%w: %d runs", ErrMalformedRuns, len(runs))
	}
	for i, r := range runs {
		if r.Counter != (i%2 == 1) {
			return fmt.Errorf("%w: run %d has wrong polarity", ErrMalformedRuns, i)
		}
		if len(r.Nodes) < 2 {
			return fmt.Errorf("%w: run %d is shorter than one step", ErrMalformedRuns, i)
		}
		if i > 0 && runs[i-1].Nodes[len(runs[i-1].Nodes)-1] != r.Nodes[0] {
			return fmt.Errorf("%w: runs %d and %d do not meet", ErrMalformedRuns, i-1, i)
		}
	}

	return nil
}

// forEachCombination calls fn with every k-subset of n bits in lexicographic order.
func forEachCombination(n, k int, fn func(mask uint64)) {
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		var mask uint64
		for _, i := range idx {
			mask |= 1 << uint(i)
		}
		fn(mask)

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func reversed(nodes []int) []int {
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[len(nodes)-1-i] = n
	}

	return out
}

func concat(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	out = append(out, a...)

	return append(out, b...)
}
