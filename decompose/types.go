package decompose

import (
	"errors"
	"log/slog"

	"github.com/katalvlaran/chokeflow/augment"
	"github.com/katalvlaran/chokeflow/paths"
)

// DefaultCapacitySlack is how far a push may overshoot capacity before it is
// treated as a structural error rather than float drift.
const DefaultCapacitySlack = 0.01

// maxCandidates bounds cover enumeration to a uint64 mask of tractable size.
const maxCandidates = 24

// Sentinel errors of the decomposition.
var (
	// ErrEmptyPath indicates a path with fewer than two nodes.
	ErrEmptyPath = errors.New("decompose: path needs at least two nodes")
	// ErrNoFlow indicates a path that admits no additional flow.
	ErrNoFlow = errors.New("decompose: path admits no flow")
	// ErrCapacityExceeded indicates a push overshooting capacity beyond the slack.
	ErrCapacityExceeded = errors.New("decompose: capacity exceeded")
	// ErrMalformedRuns indicates a run list Mutate cannot interpret.
	ErrMalformedRuns = errors.New("decompose: malformed run list")
	// ErrNoCandidates indicates no committed path walks the counter run backwards.
	ErrNoCandidates = errors.New("decompose: no committed path covers the counter run")
)

// Run is a maximal sub-sequence of steps with one flow polarity.
type Run struct {
	Nodes   []int
	Counter bool
}

// Saturation is the outcome of pushing flow along one path.
type Saturation struct {
	// Flow is the amount pushed on every edge.
	Flow float64
	// Runs partitions the path by polarity before the push.
	Runs []Run
	// Clamped is the total overshoot absorbed within the slack.
	Clamped float64
}

// Options configures Decompose and Mutate.
//
//	CapacitySlack    – tolerated capacity overshoot (default 0.01).
//	CostTolerance    – cost window used by Merge (default 0.05).
//	MaxAlternatives  – bound on parallel decompositions (default 8).
//	MaxCandidates    – candidates enumerated for a cover (default 12);
//	                   larger candidate lists only enumerate the first ones.
//	MaxAugmentations – bound on augmenting rounds (default 4096).
//	Search           – options forwarded to augment.Search.
//	Logger           – receives anomalies at Warn.
//
// Non-positive numeric fields select their default.
type Options struct {
	CapacitySlack    float64
	CostTolerance    float64
	MaxAlternatives  int
	MaxCandidates    int
	MaxAugmentations int
	Search           []augment.Option
	Logger           *slog.Logger
}

// DefaultOptions returns production defaults with a discarding logger.
func DefaultOptions() Options {
	return Options{
		CapacitySlack:    DefaultCapacitySlack,
		CostTolerance:    paths.DefaultCostTolerance,
		MaxAlternatives:  8,
		MaxCandidates:    12,
		MaxAugmentations: 4096,
		Logger:           slog.New(slog.DiscardHandler),
	}
}

// normalize replaces unset fields with defaults.
func (o *Options) normalize() {
	def := DefaultOptions()
	if o.CapacitySlack <= 0 {
		o.CapacitySlack = def.CapacitySlack
	}
	if o.CostTolerance <= 0 {
		o.CostTolerance = def.CostTolerance
	}
	if o.MaxAlternatives <= 0 {
		o.MaxAlternatives = def.MaxAlternatives
	}
	if o.MaxCandidates <= 0 {
		o.MaxCandidates = def.MaxCandidates
	}
	if o.MaxCandidates > maxCandidates {
		o.MaxCandidates = maxCandidates
	}
	if o.MaxAugmentations <= 0 {
		o.MaxAugmentations = def.MaxAugmentations
	}
	if o.Logger == nil {
		o.Logger = def.Logger
	}
}

// Stats counts what happened during one decomposition.
type Stats struct {
	Augmentations  int
	Mutations      int
	Clamps         int
	CoverFallbacks int
	Frozen         int
	Bounded        bool
}
