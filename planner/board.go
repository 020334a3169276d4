package planner

import "sync/atomic"

// Board holds the latest published plan. Readers never observe a partial
// plan. The zero value is ready to use.
type Board struct {
	cur atomic.Pointer[Plan]
}

// Publish replaces the current plan. p must not be modified afterwards.
func (b *Board) Publish(p *Plan) { b.cur.Store(p) }

// Current returns the latest plan, nil before the first Publish.
func (b *Board) Current() *Plan { return b.cur.Load() }
