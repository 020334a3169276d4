package decompose

import (
	"github.com/katalvlaran/chokeflow/paths"
)

// Alternatives holds the decompositions still being extended (Building) and
// those that can no longer change (Finished).
type Alternatives struct {
	Building []*paths.ConcurrentSet
	Finished []*paths.ConcurrentSet
}

// NewAlternatives starts with a single empty decomposition.
func NewAlternatives() *Alternatives {
	return &Alternatives{Building: []*paths.ConcurrentSet{paths.NewConcurrentSet()}}
}

// AddPath appends p to every building alternative.
func (a *Alternatives) AddPath(p *paths.Path) {
	for _, b := range a.Building {
		b.Add(p)
	}
}

// Replace installs next as the building alternatives, dropping duplicates
// and anything beyond limit.
func (a *Alternatives) Replace(next []*paths.ConcurrentSet, limit int) {
	a.Building = dedupe(next, limit)
}

// Freeze moves set to Finished.
func (a *Alternatives) Freeze(set *paths.ConcurrentSet) {
	a.Finished = append(a.Finished, set)
}

// Finish moves every building alternative to Finished and drops duplicates.
// Empty alternatives are dropped unless nothing else is left.
func (a *Alternatives) Finish() {
	all := append(a.Finished, a.Building...)
	a.Building = nil

	var nonEmpty []*paths.ConcurrentSet
	for _, s := range all {
		if s.Len() > 0 {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) == 0 && len(all) > 0 {
		nonEmpty = all[:1]
	}
	a.Finished = dedupe(nonEmpty, 0)
}

// dedupe keeps the first set per key; limit ≤ 0 means unbounded.
func dedupe(sets []*paths.ConcurrentSet, limit int) []*paths.ConcurrentSet {
	seen := make(map[string]struct{}, len(sets))
	out := make([]*paths.ConcurrentSet, 0, len(sets))
	for _, s := range sets {
		k := s.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}

	return out
}
