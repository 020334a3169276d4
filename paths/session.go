package paths

import (
	"fmt"
	"math"

	"github.com/tidwall/btree"
)

// Session owns the path identities of one planning episode.
// It is not safe for concurrent use.
type Session struct {
	net   Network
	seqs  *btree.BTreeG[*sequence]
	paths *btree.BTreeG[*Path]
	byID  []*Path
}

// NewSession returns an empty Session pricing sequences against net.
func NewSession(net Network) *Session {
	return &Session{
		net:   net,
		seqs:  btree.NewBTreeG[*sequence](sequenceLess),
		paths: btree.NewBTreeG[*Path](pathLess),
	}
}

// sequenceLess orders by length, then lexicographically by node id.
func sequenceLess(a, b *sequence) bool {
	if len(a.nodes) != len(b.nodes) {
		return len(a.nodes) < len(b.nodes)
	}
	for i := range a.nodes {
		if a.nodes[i] != b.nodes[i] {
			return a.nodes[i] < b.nodes[i]
		}
	}

	return false
}

// pathLess orders by sequence id, then flow.
func pathLess(a, b *Path) bool {
	if a.seq.id != b.seq.id {
		return a.seq.id < b.seq.id
	}

	return a.flow < b.flow
}

// Intern returns the canonical Path for (nodes, flow), creating it on first use.
//
// Errors: ErrEmptyPath, ErrBadFlow, or the Network's PathLength error.
func (s *Session) Intern(nodes []int, flow float64) (*Path, error) {
	if len(nodes) < 2 {
		return nil, fmt.Errorf("%w: %v", ErrEmptyPath, nodes)
	}
	if !(flow > 0) || math.IsInf(flow, 0) {
		return nil, fmt.Errorf("%w: %g", ErrBadFlow, flow)
	}

	seq, err := s.sequence(nodes)
	if err != nil {
		return nil, err
	}

	probe := &Path{seq: seq, flow: flow}
	if p, ok := s.paths.Get(probe); ok {
		return p, nil
	}
	probe.id = len(s.byID)
	s.byID = append(s.byID, probe)
	s.paths.Set(probe)

	return probe, nil
}

// WithFlow clones p with a new flow: same sequence and cost, new identity
// (or the existing identity for that flow).
func (s *Session) WithFlow(p *Path, flow float64) (*Path, error) {
	return s.Intern(p.seq.nodes, flow)
}

// Path returns the identity with the given ID.
func (s *Session) Path(id int) (*Path, bool) {
	if id < 0 || id >= len(s.byID) {
		return nil, false
	}

	return s.byID[id], true
}

// Len returns the number of identities created so far.
func (s *Session) Len() int { return len(s.byID) }

// Sequences returns the number of distinct node sequences seen so far.
func (s *Session) Sequences() int { return s.seqs.Len() }

func (s *Session) sequence(nodes []int) (*sequence, error) {
	probe := &sequence{nodes: nodes}
	if seq, ok := s.seqs.Get(probe); ok {
		return seq, nil
	}

	cost, err := s.net.PathLength(nodes)
	if err != nil {
		return nil, fmt.Errorf("paths: pricing %v: %w", nodes, err)
	}
	seq := &sequence{
		id:      s.seqs.Len(),
		nodes:   append([]int(nil), nodes...),
		cost:    cost,
		anchors: s.net.Anchors(nodes),
	}
	s.seqs.Set(seq)

	return seq, nil
}
