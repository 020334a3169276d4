package decompose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/chokeflow/augment"
	"github.com/katalvlaran/chokeflow/flowgraph"
	"github.com/katalvlaran/chokeflow/paths"
)

// Result is the outcome of Decompose.
type Result struct {
	// Alternatives are the merged decompositions; each is usable on its own.
	// Empty when no path exists.
	Alternatives []*paths.ConcurrentSet
	Stats        Stats
}

// Decompose saturates g with flow from source to terminal and returns the
// concurrent path sets realising that flow. g is modified in place; s interns
// every path created.
//
// Steps:
//  1. Start with one empty building alternative.
//  2. Repeat until the search finds nothing, every alternative is frozen, ctx
//     ends, or MaxAugmentations rounds ran (logged, Stats.Bounded):
//     a. augment.Search for the shortest residual path;
//     b. Saturate it;
//     c. one run: add the path to every building alternative;
//     d. otherwise Mutate every building alternative; an alternative without
//     candidates is frozen as it stands.
//  3. Finish, Validate the graph, then Merge each alternative.
//
// Errors: ctx.Err(), augment errors, ErrCapacityExceeded, ErrMalformedRuns,
// flowgraph.EdgeError from the final validation, or Intern errors.
func Decompose(ctx context.Context, g *flowgraph.Graph, s *paths.Session, opts Options) (*Result, error) {
	opts.normalize()
	log := opts.Logger
	res := &Result{}
	mut := NewMutator(s, opts, &res.Stats)
	search := append([]augment.Option{augment.WithLogger(log)}, opts.Search...)

	// 1) Alternatives
	alts := NewAlternatives()

	// 2) Augmentation loop
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(alts.Building) == 0 {
			break
		}
		if res.Stats.Augmentations >= opts.MaxAugmentations {
			res.Stats.Bounded = true
			log.Warn("augmentation bound reached", slog.Int("rounds", res.Stats.Augmentations))
			break
		}

		// a) Search
		found, err := augment.Search(ctx, g, search...)
		if err != nil {
			return nil, err
		}
		if found == nil {
			break
		}

		// b) Saturate
		sat, err := Saturate(g, found.Nodes, opts.CapacitySlack)
		if err != nil {
			return nil, err
		}
		res.Stats.Augmentations++
		if sat.Clamped > 0 {
			res.Stats.Clamps++
			log.Warn("flow clamped to capacity", slog.Float64("overshoot", sat.Clamped))
		}
		log.Debug("augmented",
			slog.Int("round", res.Stats.Augmentations),
			slog.Float64("flow", sat.Flow),
			slog.Int("runs", len(sat.Runs)))

		// c) Pure forward path
		if len(sat.Runs) == 1 {
			p, err := s.Intern(found.Nodes, sat.Flow)
			if err != nil {
				return nil, err
			}
			alts.AddPath(p)
			continue
		}

		// d) Mutation
		res.Stats.Mutations++
		var next []*paths.ConcurrentSet
		for _, b := range alts.Building {
			outs, err := mut.Mutate(b, sat.Runs, sat.Flow)
			if errors.Is(err, ErrNoCandidates) {
				res.Stats.Frozen++
				log.Warn("alternative frozen", slog.String("reason", err.Error()))
				alts.Freeze(b)
				continue
			}
			if err != nil {
				return nil, err
			}
			next = append(next, outs...)
		}
		alts.Replace(next, opts.MaxAlternatives)
	}

	// 3) Finish and merge
	alts.Finish()
	if err := g.Validate(opts.CapacitySlack); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCapacityExceeded, err)
	}
	for _, a := range alts.Finished {
		if a.Len() == 0 {
			continue
		}
		merged, err := a.Merge(s, opts.CostTolerance)
		if err != nil {
			return nil, err
		}
		res.Alternatives = append(res.Alternatives, merged)
	}

	return res, nil
}
