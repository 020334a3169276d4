package planner_test

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/chokeflow/assign"
	"github.com/katalvlaran/chokeflow/flowgraph"
	"github.com/katalvlaran/chokeflow/planner"
)

const threeRooms = `
start: [2, 5]
goal: [28, 5]
units: 20
map:
  zones:
    - {id: 0, polygon: [[0, 0], [10, 0], [10, 10], [0, 10]]}
    - {id: 1, polygon: [[10, 0], [20, 0], [20, 10], [10, 10]]}
    - {id: 2, polygon: [[20, 0], [30, 0], [30, 10], [20, 10]]}
  gateways:
    - {id: 0, width: 2, zones: [0, 1], sides: [[9, 2], [11, 2]]}
    - {id: 1, width: 3, zones: [0, 1], sides: [[9, 8], [11, 8]]}
    - {id: 2, width: 4, zones: [1, 2], sides: [[19, 5], [21, 5]]}
`

type PlannerSuite struct {
	suite.Suite
	ctx context.Context
	log *slog.Logger
}

func (s *PlannerSuite) SetupTest() {
	s.ctx = context.Background()
	s.log = slog.New(slog.DiscardHandler)
}

func (s *PlannerSuite) planner(opts ...planner.Option) *planner.Planner {
	p, err := planner.New(planner.DefaultConfig(), append([]planner.Option{planner.WithLogger(s.log)}, opts...)...)
	s.Require().NoError(err)
	return p
}

// singleEdge is source 0 joined to terminal 1 by one edge of capacity 5 and length 2.
func (s *PlannerSuite) singleEdge() *flowgraph.Graph {
	g := flowgraph.NewGraph()
	g.AddNode(flowgraph.Node{Kind: flowgraph.KindSource})
	g.AddNode(flowgraph.Node{Kind: flowgraph.KindTerminal, Anchor: r2.Vec{X: 2}})
	_, err := g.AddEdge(0, 1, 5, 2)
	s.Require().NoError(err)
	s.Require().NoError(g.SetSource(0))
	s.Require().NoError(g.SetTerminal(1))
	return g
}

func (s *PlannerSuite) TestSingleEdge() {
	g := s.singleEdge()
	plan, err := s.planner().Plan(s.ctx, g, 5)
	s.Require().NoError(err)

	s.Require().Len(plan.Assignments, 1)
	a := plan.Assignments[0]
	s.Equal(5, a.Count)
	s.Equal(2.0, a.Path.Cost())
	s.Equal(r2.Vec{X: 2}, a.Target)
	s.Equal(3.0, plan.TransitTime)
	s.Equal(1, plan.Stats.Augmentations)
	s.Zero(plan.Stats.Mutations)
	s.Zero(g.DirectedFlow(0, 1), "the input graph is not modified")
}

func (s *PlannerSuite) TestZeroUnits() {
	plan, err := s.planner().Plan(s.ctx, s.singleEdge(), 0)
	s.Require().NoError(err)
	s.Empty(plan.Assignments)
	s.Equal(-1, plan.Alternative)
	s.Zero(plan.Total())
}

func (s *PlannerSuite) TestNoRoute() {
	g := flowgraph.NewGraph()
	g.AddNode(flowgraph.Node{})
	g.AddNode(flowgraph.Node{})
	s.Require().NoError(g.SetSource(0))
	s.Require().NoError(g.SetTerminal(1))

	plan, err := s.planner().Plan(s.ctx, g, 3)
	s.Require().NoError(err)
	s.Empty(plan.Assignments)
}

func (s *PlannerSuite) TestErrors() {
	p := s.planner()
	_, err := p.Plan(s.ctx, s.singleEdge(), -1)
	s.ErrorIs(err, assign.ErrNegativeUnits)

	_, err = p.Plan(s.ctx, nil, 1)
	s.ErrorIs(err, planner.ErrNilGraph)

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err = p.Plan(ctx, s.singleEdge(), 1)
	s.ErrorIs(err, context.Canceled)

	cfg := planner.DefaultConfig()
	cfg.MaxAlternatives = 0
	_, err = planner.New(cfg)
	s.ErrorIs(err, planner.ErrInvalidConfig)
}

func (s *PlannerSuite) TestPublishesToBoard() {
	var board planner.Board
	p := s.planner(planner.WithBoard(&board))

	first, err := p.Plan(s.ctx, s.singleEdge(), 5)
	s.Require().NoError(err)
	s.Same(first, board.Current())

	_, err = p.Plan(s.ctx, s.singleEdge(), -1)
	s.Require().Error(err)
	s.Same(first, board.Current(), "failed episodes are not published")

	empty, err := p.Plan(s.ctx, s.singleEdge(), 0)
	s.Require().NoError(err)
	s.Same(empty, board.Current())
}

func (s *PlannerSuite) TestScenario() {
	sc, err := planner.DecodeScenario(strings.NewReader(threeRooms))
	s.Require().NoError(err)

	plan, err := s.planner().PlanScenario(s.ctx, sc)
	s.Require().NoError(err)
	s.Equal(20, plan.Total())
	s.Len(plan.Assignments, 2, "both doors between the first two rooms are used")
	s.Nil(plan.Units)

	rep := plan.Report()
	s.Equal(20, rep.Total)
	s.Len(rep.Routes, 2)
	s.Equal([2]float64{28, 5}, rep.Routes[0].Target)
}

func (s *PlannerSuite) TestDeterministic() {
	sc, err := planner.DecodeScenario(strings.NewReader(threeRooms))
	s.Require().NoError(err)
	p := s.planner()

	first, err := p.PlanScenario(s.ctx, sc)
	s.Require().NoError(err)
	for i := 0; i < 3; i++ {
		again, err := p.PlanScenario(s.ctx, sc)
		s.Require().NoError(err)
		s.NotEqual(first.Episode, again.Episode)
		a, b := first.Report(), again.Report()
		s.Equal(a.Routes, b.Routes)
		s.Equal(a.Stats, b.Stats)
	}
}

func (s *PlannerSuite) TestPlanUnits() {
	sc, err := planner.DecodeScenario(strings.NewReader(threeRooms))
	s.Require().NoError(err)
	sc.Positions = []r2.Vec{{X: 2, Y: 1}, {X: 2, Y: 9}, {X: 3, Y: 2}, {X: 3, Y: 8}, {X: 1, Y: 5}}

	plan, err := s.planner().PlanScenario(s.ctx, sc)
	s.Require().NoError(err)
	s.Require().Len(plan.Units, 5)
	per := make([]int, len(plan.Assignments))
	for _, a := range plan.Units {
		s.Require().GreaterOrEqual(a, 0)
		s.Require().Less(a, len(plan.Assignments))
		per[a]++
	}
	for i, a := range plan.Assignments {
		s.Equal(a.Count, per[i])
	}
}

func (s *PlannerSuite) TestSpans() {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	p := s.planner(planner.WithTracerProvider(tp))

	_, err := p.Plan(s.ctx, s.singleEdge(), 5)
	s.Require().NoError(err)

	var names []string
	for _, span := range sr.Ended() {
		names = append(names, span.Name())
	}
	s.ElementsMatch([]string{"chokeflow.decompose", "chokeflow.counts", "chokeflow.plan"}, names)

	_, err = p.Plan(s.ctx, s.singleEdge(), -1)
	s.Require().Error(err)
	last := sr.Ended()[len(sr.Ended())-1]
	s.Equal("chokeflow.plan", last.Name())
	s.Equal("Error", last.Status().Code.String())
}

func (s *PlannerSuite) TestMetrics() {
	reg := prometheus.NewRegistry()
	m := planner.NewMetrics(reg)
	p := s.planner(planner.WithMetrics(m))

	for i := 0; i < 2; i++ {
		_, err := p.Plan(s.ctx, s.singleEdge(), 5)
		s.Require().NoError(err)
	}
	_, err := p.Plan(s.ctx, s.singleEdge(), 0)
	s.Require().NoError(err)

	s.Equal(2.0, testutil.ToFloat64(m.Episodes.WithLabelValues("ok")))
	s.Equal(1.0, testutil.ToFloat64(m.Episodes.WithLabelValues("empty")))
	s.Equal(2.0, testutil.ToFloat64(m.Augmentations))
	s.Zero(testutil.ToFloat64(m.Mutations))

	families, err := reg.Gather()
	s.Require().NoError(err)
	var observed uint64
	for _, mf := range families {
		if mf.GetName() == "chokeflow_episode_duration_seconds" {
			observed = mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	s.Equal(uint64(3), observed)
}

func TestPlannerSuite(t *testing.T) {
	suite.Run(t, new(PlannerSuite))
}

func TestBoard(t *testing.T) {
	var b planner.Board
	require.Nil(t, b.Current())

	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if p := b.Current(); p != nil {
					assert.Equal(t, p.Total(), len(p.Units))
				}
			}
		}()
	}
	for n := 1; n <= 50; n++ {
		p := &planner.Plan{Assignments: []assign.Assignment{{Count: n}}, Units: make([]int, n)}
		b.Publish(p)
	}
	wg.Wait()
	require.Equal(t, 50, b.Current().Total())
}
