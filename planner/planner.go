package planner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/chokeflow/assign"
	"github.com/katalvlaran/chokeflow/augment"
	"github.com/katalvlaran/chokeflow/decompose"
	"github.com/katalvlaran/chokeflow/flowgraph"
	"github.com/katalvlaran/chokeflow/oracle"
	"github.com/katalvlaran/chokeflow/paths"
	"github.com/katalvlaran/chokeflow/zones"
)

// tracerName is the instrumentation scope of the planner's spans.
const tracerName = "github.com/katalvlaran/chokeflow/planner"

// Planner plans routing episodes. It is safe for concurrent use as long as
// its Oracle is.
type Planner struct {
	cfg     Config
	log     *slog.Logger
	tracer  trace.Tracer
	metrics *Metrics
	oracle  oracle.Oracle
	board   *Board
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) { p.log = l }
}

// WithTracerProvider sets where spans go; the default discards them.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(p *Planner) { p.tracer = tp.Tracer(tracerName) }
}

// WithMetrics feeds m after every episode.
func WithMetrics(m *Metrics) Option {
	return func(p *Planner) { p.metrics = m }
}

// WithBoard publishes every successful plan, empty ones included, to b.
func WithBoard(b *Board) Option {
	return func(p *Planner) { p.board = b }
}

// WithOracle sets the distance oracle used to build graphs and rank units.
// The default is oracle.Euclidean.
func WithOracle(o oracle.Oracle) Option {
	return func(p *Planner) { p.oracle = o }
}

// New validates cfg and returns a Planner.
func New(cfg Config, opts ...Option) (*Planner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Planner{
		cfg:    cfg,
		log:    slog.Default(),
		tracer: noop.NewTracerProvider().Tracer(tracerName),
		oracle: oracle.Euclidean{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = slog.New(slog.DiscardHandler)
	}

	return p, nil
}

// Config returns the configuration in use.
func (p *Planner) Config() Config { return p.cfg }

// Build constructs the flow graph of d between start and goal.
func (p *Planner) Build(d zones.Decomposition, start, goal r2.Vec) (*flowgraph.Graph, error) {
	return flowgraph.Build(d, p.oracle, start, goal, flowgraph.BuildOptions{
		CapacityPerWidth:  p.cfg.CapacityPerWidth,
		UnlimitedCapacity: p.cfg.UnlimitedCapacity,
		Graph:             []flowgraph.Option{flowgraph.WithEpsilon(p.cfg.Epsilon)},
	})
}

// Plan splits units over the routes from g's source to its terminal.
// g is not modified.
func (p *Planner) Plan(ctx context.Context, g *flowgraph.Graph, units int) (*Plan, error) {
	return p.run(ctx, g, units, nil)
}

// PlanUnits plans one unit per position and assigns each position a route.
func (p *Planner) PlanUnits(ctx context.Context, g *flowgraph.Graph, positions []r2.Vec) (*Plan, error) {
	return p.run(ctx, g, len(positions), positions)
}

// run executes one episode.
//
// Steps:
//  1. Zero units: empty plan.
//  2. Clone g without flow, open a fresh paths.Session.
//  3. Decompose; no alternative means no route and an empty plan.
//  4. Counts over the alternatives.
//  5. Units when positions are given.
//  6. On success, publish to the board if one is set.
func (p *Planner) run(ctx context.Context, g *flowgraph.Graph, n int, positions []r2.Vec) (_ *Plan, err error) {
	began := time.Now()
	plan := &Plan{Episode: uuid.New(), Alternative: -1}
	log := p.log.With(slog.String("episode", plan.Episode.String()))

	ctx, span := p.tracer.Start(ctx, "chokeflow.plan", trace.WithAttributes(
		attribute.String("episode", plan.Episode.String()),
		attribute.Int("units", n),
	))
	defer func() {
		outcome := "ok"
		switch {
		case err != nil:
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.Error("episode failed", slog.Any("error", err))
		case len(plan.Assignments) == 0:
			outcome = "empty"
		}
		if err == nil && p.board != nil {
			p.board.Publish(plan)
		}
		p.metrics.observe(outcome, time.Since(began), plan.Stats)
		span.End()
	}()

	if g == nil {
		return nil, ErrNilGraph
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", assign.ErrNegativeUnits, n)
	}

	// 1) Nothing to move
	if n == 0 {
		log.Info("empty request")
		return plan, nil
	}

	// 2) Episode state
	work := g.Clone()
	work.ResetFlow()
	session := paths.NewSession(work)

	// 3) Decomposition
	res, err := p.decompose(ctx, work, session, log)
	if err != nil {
		return nil, err
	}
	plan.Stats.Augmentations = res.Stats.Augmentations
	plan.Stats.Mutations = res.Stats.Mutations
	plan.Stats.Alternatives = len(res.Alternatives)
	plan.Stats.Clamps = res.Stats.Clamps
	plan.Stats.CoverFallbacks = res.Stats.CoverFallbacks
	plan.Stats.Frozen = res.Stats.Frozen
	plan.Stats.Bounded = res.Stats.Bounded
	if len(res.Alternatives) == 0 {
		log.Warn("no route from source to terminal", slog.Int("units", n))
		return plan, nil
	}

	// 4) Counts
	opts := []assign.Option{
		assign.WithLogger(log),
		assign.WithOracle(p.oracle),
		assign.WithSeed(p.cfg.Seed),
		assign.WithMaxWidenings(p.cfg.MaxWidenings),
	}
	_, cspan := p.tracer.Start(ctx, "chokeflow.counts")
	counts, err := assign.Counts(res.Alternatives, n, opts...)
	if err != nil {
		cspan.End()
		return nil, err
	}
	cspan.SetAttributes(
		attribute.Int("alternative", counts.Alternative),
		attribute.Int("at", counts.At),
		attribute.Bool("exact", counts.Exact),
	)
	cspan.End()
	plan.Assignments = counts.Assignments
	plan.TransitTime = counts.Time
	plan.Alternative = counts.Alternative
	plan.Stats.Widenings = counts.Widened

	// 5) Units
	if positions != nil {
		_, uspan := p.tracer.Start(ctx, "chokeflow.units")
		plan.Units, err = assign.Units(positions, plan.Assignments, opts...)
		uspan.End()
		if err != nil {
			return nil, err
		}
	}

	log.Info("plan ready",
		slog.Int("units", n),
		slog.Int("routes", len(plan.Assignments)),
		slog.Float64("transit_time", plan.TransitTime),
		slog.Int("augmentations", plan.Stats.Augmentations),
		slog.Int("anomalies", plan.Stats.Anomalies()))

	return plan, nil
}

// decompose runs the augmenting loop inside its own span.
func (p *Planner) decompose(
	ctx context.Context,
	g *flowgraph.Graph,
	s *paths.Session,
	log *slog.Logger,
) (*decompose.Result, error) {
	ctx, span := p.tracer.Start(ctx, "chokeflow.decompose", trace.WithAttributes(
		attribute.Int("nodes", g.NodeCount()),
		attribute.Int("edges", g.EdgeCount()),
	))
	defer span.End()

	opts := decompose.Options{
		CapacitySlack:    p.cfg.CapacitySlack,
		CostTolerance:    p.cfg.CostTolerance,
		MaxAlternatives:  p.cfg.MaxAlternatives,
		MaxCandidates:    p.cfg.MaxCandidates,
		MaxAugmentations: p.cfg.MaxAugmentations,
		Logger:           log,
	}
	if p.cfg.MaxExpansions > 0 {
		opts.Search = append(opts.Search, augment.WithMaxExpansions(p.cfg.MaxExpansions))
	}

	res, err := decompose.Decompose(ctx, g, s, opts)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("augmentations", res.Stats.Augmentations),
		attribute.Int("mutations", res.Stats.Mutations),
		attribute.Int("alternatives", len(res.Alternatives)),
	)

	return res, nil
}
