package planner

import (
	"errors"

	"github.com/google/uuid"

	"github.com/katalvlaran/chokeflow/assign"
)

// Sentinel errors of the planner.
var (
	// ErrInvalidConfig indicates a configuration value out of range.
	ErrInvalidConfig = errors.New("planner: invalid config")
	// ErrNilGraph indicates a nil flow graph.
	ErrNilGraph = errors.New("planner: nil graph")
	// ErrInvalidScenario indicates a scenario file that cannot be planned.
	ErrInvalidScenario = errors.New("planner: invalid scenario")
)

// Plan is the outcome of one episode.
type Plan struct {
	// Episode identifies the run in logs and traces.
	Episode uuid.UUID
	// Assignments lists the routes with a positive unit count.
	Assignments []assign.Assignment
	// Units holds, per unit position, the index of its assignment.
	// Nil unless positions were planned.
	Units []int
	// TransitTime is the continuous time the chosen alternative needs.
	TransitTime float64
	// Alternative indexes the chosen alternative, -1 for an empty plan.
	Alternative int
	Stats       Stats
}

// Total returns the number of units assigned.
func (p *Plan) Total() int {
	total := 0
	for _, a := range p.Assignments {
		total += a.Count
	}

	return total
}

// Stats summarises an episode.
type Stats struct {
	Augmentations  int  `yaml:"augmentations"`
	Mutations      int  `yaml:"mutations"`
	Alternatives   int  `yaml:"alternatives"`
	Clamps         int  `yaml:"clamps"`
	CoverFallbacks int  `yaml:"cover_fallbacks"`
	Frozen         int  `yaml:"frozen"`
	Widenings      int  `yaml:"widenings"`
	Bounded        bool `yaml:"bounded"`
}

// Anomalies counts every locally recovered irregularity.
func (s Stats) Anomalies() int {
	n := s.Clamps + s.CoverFallbacks + s.Frozen + s.Widenings
	if s.Bounded {
		n++
	}

	return n
}
