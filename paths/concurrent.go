package paths

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ConcurrentSet is a cost-sorted multiset of paths usable at the same time.
// The zero value is an empty set.
type ConcurrentSet struct {
	entries []*Path
}

// NewConcurrentSet returns a set holding ps.
func NewConcurrentSet(ps ...*Path) *ConcurrentSet {
	c := &ConcurrentSet{entries: make([]*Path, 0, len(ps))}
	for _, p := range ps {
		c.Add(p)
	}

	return c
}

func entryLess(a, b *Path) bool {
	if a.Cost() != b.Cost() {
		return a.Cost() < b.Cost()
	}

	return a.id < b.id
}

// Add inserts p keeping the cost order (ties by ID).
func (c *ConcurrentSet) Add(p *Path) {
	i := sort.Search(len(c.entries), func(i int) bool { return entryLess(p, c.entries[i]) })
	c.entries = append(c.entries, nil)
	copy(c.entries[i+1:], c.entries[i:])
	c.entries[i] = p
}

// Remove drops one entry of p.
func (c *ConcurrentSet) Remove(p *Path) error {
	for i, e := range c.entries {
		if e == p {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("%w: %v", ErrNotMember, p)
}

// Contains reports whether p is an entry of c.
func (c *ConcurrentSet) Contains(p *Path) bool {
	for _, e := range c.entries {
		if e == p {
			return true
		}
	}

	return false
}

// Paths returns a copy of the entries in cost order.
func (c *ConcurrentSet) Paths() []*Path {
	return append([]*Path(nil), c.entries...)
}

// Len returns the number of entries.
func (c *ConcurrentSet) Len() int { return len(c.entries) }

// TotalFlow sums the flow of all entries.
func (c *ConcurrentSet) TotalFlow() float64 {
	fs := make([]float64, len(c.entries))
	for i, e := range c.entries {
		fs[i] = e.flow
	}

	return floats.Sum(fs)
}

// Clone returns an independent copy sharing the immutable paths.
func (c *ConcurrentSet) Clone() *ConcurrentSet {
	return &ConcurrentSet{entries: c.Paths()}
}

// Containing returns the entries in which run occurs contiguously, in cost order.
func (c *ConcurrentSet) Containing(run []int) []*Path {
	var out []*Path
	for _, e := range c.entries {
		if e.Index(run) >= 0 {
			out = append(out, e)
		}
	}

	return out
}

// Key is a canonical string of the entry IDs; equal keys mean equal multisets.
func (c *ConcurrentSet) Key() string {
	ids := make([]int, len(c.entries))
	for i, e := range c.entries {
		ids[i] = e.id
	}
	sort.Ints(ids)

	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(id))
	}

	return sb.String()
}

// Merge returns a new set in which duplicate routes are fused.
//
// Steps:
//  1. Sort entries by cost.
//  2. Cut the order into runs whose cost lies within tol of the run's first entry.
//  3. Inside each run re-sort by SeqID (ties by ID).
//  4. Fuse adjacent entries walking identical anchors into one identity
//     carrying the summed flow (interned through s).
//
// Complexity: O(n log n) plus one Intern per fused group.
func (c *ConcurrentSet) Merge(s *Session, tol float64) (*ConcurrentSet, error) {
	if tol < 0 {
		tol = DefaultCostTolerance
	}
	sorted := c.Paths()
	sort.SliceStable(sorted, func(i, j int) bool { return entryLess(sorted[i], sorted[j]) })

	out := &ConcurrentSet{entries: make([]*Path, 0, len(sorted))}
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && math.Abs(sorted[end].Cost()-sorted[start].Cost()) <= tol {
			end++
		}
		run := sorted[start:end]
		sort.SliceStable(run, func(i, j int) bool {
			if run[i].SeqID() != run[j].SeqID() {
				return run[i].SeqID() < run[j].SeqID()
			}
			return run[i].id < run[j].id
		})

		for i := 0; i < len(run); {
			j := i + 1
			flow := run[i].flow
			for j < len(run) && run[j].SameAnchors(run[i]) {
				flow += run[j].flow
				j++
			}
			p := run[i]
			if j-i > 1 {
				var err error
				if p, err = s.WithFlow(run[i], flow); err != nil {
					return nil, err
				}
			}
			out.Add(p)
			i = j
		}
		start = end
	}

	return out, nil
}
