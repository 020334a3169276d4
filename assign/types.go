package assign

import (
	"errors"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/chokeflow/oracle"
	"github.com/katalvlaran/chokeflow/paths"
)

// Sentinel errors of the assignment layer.
var (
	// ErrNegativeUnits indicates a negative unit request.
	ErrNegativeUnits = errors.New("assign: negative unit count")
	// ErrUnitMismatch indicates a position list that does not match the counts.
	ErrUnitMismatch = errors.New("assign: unit positions do not match counts")
	// ErrBracket indicates the integer time search failed to bracket the request.
	ErrBracket = errors.New("assign: cannot bracket unit count")
)

// Assignment sends Count units along Path.
type Assignment struct {
	Count     int
	Path      *paths.Path
	Waypoints []r2.Vec
	Target    r2.Vec
}

// Level groups the assignments that share the waypoint at one depth.
type Level struct {
	Waypoint r2.Vec
	Members  []int
	Need     int
}

// CountResult is the outcome of Counts.
type CountResult struct {
	// Alternative indexes the chosen alternative, -1 when none was usable.
	Alternative int
	// Time is the continuous transit time of the chosen alternative.
	Time float64
	// At is the integer time whose deliveries were used.
	At int
	// Exact reports that At delivers n without surplus removal.
	Exact bool
	// Widened counts bracket widenings.
	Widened     int
	Assignments []Assignment
}

// Total sums the counts of r.
func (r *CountResult) Total() int {
	total := 0
	for _, a := range r.Assignments {
		total += a.Count
	}

	return total
}

// Options configures Counts and Units.
type Options struct {
	Logger       *slog.Logger
	Oracle       oracle.Oracle
	Seed         int64
	MaxWidenings int
}

// Option mutates Options.
type Option func(*Options)

// WithLogger sets the logger receiving bracket anomalies.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithOracle sets the distance used to rank units against waypoints.
func WithOracle(or oracle.Oracle) Option {
	return func(o *Options) { o.Oracle = or }
}

// WithSeed sets the tie-break seed; 0 selects the default seed.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithMaxWidenings bounds the doublings of the upper time bound.
func WithMaxWidenings(n int) Option {
	return func(o *Options) { o.MaxWidenings = n }
}

// DefaultOptions returns Euclidean distances, the default seed and a
// discarding logger.
func DefaultOptions() Options {
	return Options{
		Logger:       slog.New(slog.DiscardHandler),
		Oracle:       oracle.Euclidean{},
		MaxWidenings: 64,
	}
}

func resolve(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Oracle == nil {
		o.Oracle = oracle.Euclidean{}
	}
	if o.MaxWidenings <= 0 {
		o.MaxWidenings = 64
	}

	return o
}
