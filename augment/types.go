package augment

import (
	"errors"
	"log/slog"
)

// Sentinel errors returned by Search.
var (
	// ErrNilGraph indicates a nil graph.
	ErrNilGraph = errors.New("augment: graph is nil")
	// ErrNoOrigin indicates neither explicit origins nor a graph source.
	ErrNoOrigin = errors.New("augment: no origin node")
	// ErrNoTerminal indicates neither explicit terminals nor a graph terminal.
	ErrNoTerminal = errors.New("augment: no terminal node")
	// ErrExpansionLimit indicates the search exceeded Options.MaxExpansions.
	ErrExpansionLimit = errors.New("augment: expansion limit exceeded")
)

// Options configures Search.
//
//	Origins       – start set; empty means {graph source}.
//	Terminals     – goal set; empty means {graph terminal}.
//	MaxExpansions – bound on node expansions; 0 means 16·(V+E)+64.
//	Logger        – receives Debug records about reopening and truncation.
type Options struct {
	Origins       []int
	Terminals     []int
	MaxExpansions int
	Logger        *slog.Logger
}

// Option is a functional option for Search.
type Option func(*Options)

// WithOrigins sets the start set.
func WithOrigins(ids ...int) Option {
	return func(o *Options) { o.Origins = append([]int(nil), ids...) }
}

// WithTerminals sets the goal set.
func WithTerminals(ids ...int) Option {
	return func(o *Options) { o.Terminals = append([]int(nil), ids...) }
}

// WithMaxExpansions bounds node expansions. Non-positive restores the default.
func WithMaxExpansions(n int) Option {
	return func(o *Options) { o.MaxExpansions = n }
}

// WithLogger sets the logger. A nil logger discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// DefaultOptions returns graph endpoints, the automatic expansion bound
// and a discarding logger.
func DefaultOptions() Options {
	return Options{Logger: slog.New(slog.DiscardHandler)}
}

// Result is an augmenting path.
type Result struct {
	// Nodes runs from an origin to a terminal.
	Nodes []int
	// Cost is the summed residual cost of Nodes.
	Cost float64
	// Expanded counts node expansions, Reopened counts closed nodes reopened.
	Expanded, Reopened int
	// Truncated is set when reconstruction hit a predecessor cycle.
	Truncated bool
}
