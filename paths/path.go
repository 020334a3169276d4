package paths

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// sequence is an interned node sequence with its cost and anchors.
type sequence struct {
	id      int
	nodes   []int
	cost    float64
	anchors []r2.Vec
}

// Path is an immutable (sequence, flow) identity.
type Path struct {
	id   int
	seq  *sequence
	flow float64
}

// ID is unique within the Session that created p.
func (p *Path) ID() int { return p.id }

// SeqID identifies the node sequence; paths differing only in flow share it.
func (p *Path) SeqID() int { return p.seq.id }

// Nodes returns the node sequence. The slice must not be modified.
func (p *Path) Nodes() []int { return p.seq.nodes }

// Anchors returns the anchor of every node. The slice must not be modified.
func (p *Path) Anchors() []r2.Vec { return p.seq.anchors }

// Flow returns the units per second carried by p.
func (p *Path) Flow() float64 { return p.flow }

// Cost returns the summed edge length of p.
func (p *Path) Cost() float64 { return p.seq.cost }

// Len returns the number of nodes.
func (p *Path) Len() int { return len(p.seq.nodes) }

// Index returns the position where run occurs contiguously in p, or -1.
func (p *Path) Index(run []int) int {
	nodes := p.seq.nodes
	if len(run) == 0 || len(run) > len(nodes) {
		return -1
	}
outer:
	for i := 0; i+len(run) <= len(nodes); i++ {
		for j, n := range run {
			if nodes[i+j] != n {
				continue outer
			}
		}
		return i
	}

	return -1
}

// SameAnchors reports whether p and q visit identical anchor sequences.
func (p *Path) SameAnchors(q *Path) bool {
	a, b := p.seq.anchors, q.seq.anchors
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func (p *Path) String() string {
	var sb strings.Builder
	for i, n := range p.seq.nodes {
		if i > 0 {
			sb.WriteString("→")
		}
		fmt.Fprintf(&sb, "%d", n)
	}

	return fmt.Sprintf("path#%d[%s flow=%g cost=%g]", p.id, sb.String(), p.flow, p.seq.cost)
}
