// Package paths holds the path identities produced while decomposing flow.
//
// A Path is an immutable node sequence carrying a flow (units per second)
// and a cost (sum of raw edge lengths). Two paths with the same sequence and
// the same flow are the same identity; the same sequence with a different
// flow is a different identity. Identities are handed out by a Session:
//
//	s := paths.NewSession(g)         // one per planning episode
//	p, _ := s.Intern([]int{0, 3, 7}, 2.5)
//	q, _ := s.Intern([]int{0, 3, 7}, 2.5) // q == p
//	r, _ := s.WithFlow(p, 1)               // same sequence and cost, new identity
//
// The Session indexes sequences in a B-tree ordered by length first, so a
// lookup only compares sequences of equal length. Dropping the Session ends
// the episode; nothing is global.
//
// A ConcurrentSet is a multiset of identities that can be used at the same
// time without exceeding any capacity. It is kept sorted by cost and can be
// merged: entries of (nearly) equal cost that walk the same anchors are fused
// into one identity carrying their summed flow.
package paths
