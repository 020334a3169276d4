package planner

import (
	"context"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/chokeflow/oracle"
	"github.com/katalvlaran/chokeflow/zones"
)

// Scenario is a self-contained planning request.
type Scenario struct {
	Map         *zones.Static
	Oracle      oracle.Oracle // nil: the planner's oracle
	Start, Goal r2.Vec
	Units       int
	Positions   []r2.Vec
}

// scenarioFile is the YAML layout of a Scenario:
//
//	start: [2, 5]
//	goal: [28, 5]
//	units: 20               # or positions: [[x, y], ...]
//	grid:                   # optional occupancy grid, '#' blocked
//	  cell_size: 1
//	  origin: [0, 0]
//	  rows: ["....", ".##.", "...."]
//	map:                    # zones.Static layout
//	  zones: [...]
//	  gateways: [...]
type scenarioFile struct {
	Start     [2]float64   `yaml:"start"`
	Goal      [2]float64   `yaml:"goal"`
	Units     int          `yaml:"units"`
	Positions [][2]float64 `yaml:"positions"`
	Grid      *struct {
		CellSize float64    `yaml:"cell_size"`
		Origin   [2]float64 `yaml:"origin"`
		Rows     []string   `yaml:"rows"`
	} `yaml:"grid"`
	Map yaml.Node `yaml:"map"`
}

// LoadScenario reads a scenario file. Unknown top-level keys are rejected.
func LoadScenario(path string) (*Scenario, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("planner: open scenario: %w", err)
	}
	defer fh.Close()

	s, err := DecodeScenario(fh)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}

	return s, nil
}

// DecodeScenario parses a scenario from r.
func DecodeScenario(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f scenarioFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if f.Map.Kind == 0 {
		return nil, fmt.Errorf("%w: missing map", ErrInvalidScenario)
	}
	if len(f.Positions) > 0 && f.Units != 0 && f.Units != len(f.Positions) {
		return nil, fmt.Errorf("%w: units %d but %d positions", ErrInvalidScenario, f.Units, len(f.Positions))
	}

	m, err := zones.DecodeStatic(&f.Map)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	s := &Scenario{
		Map:   m,
		Start: r2.Vec{X: f.Start[0], Y: f.Start[1]},
		Goal:  r2.Vec{X: f.Goal[0], Y: f.Goal[1]},
		Units: f.Units,
	}
	for _, v := range f.Positions {
		s.Positions = append(s.Positions, r2.Vec{X: v[0], Y: v[1]})
	}
	if len(s.Positions) > 0 {
		s.Units = len(s.Positions)
	}

	if f.Grid != nil {
		rows := make([][]bool, len(f.Grid.Rows))
		for y, line := range f.Grid.Rows {
			rows[y] = make([]bool, len(line))
			for x, c := range line {
				rows[y][x] = c == '#'
			}
		}
		origin := r2.Vec{X: f.Grid.Origin[0], Y: f.Grid.Origin[1]}
		if s.Oracle, err = oracle.NewGrid(rows, f.Grid.CellSize, origin); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
		}
	}

	return s, nil
}

// PlanScenario builds the graph of s and plans it.
func (p *Planner) PlanScenario(ctx context.Context, s *Scenario) (*Plan, error) {
	q := p
	if s.Oracle != nil {
		c := *p
		c.oracle = s.Oracle
		q = &c
	}

	g, err := q.Build(s.Map, s.Start, s.Goal)
	if err != nil {
		return nil, err
	}
	if len(s.Positions) > 0 {
		return q.PlanUnits(ctx, g, s.Positions)
	}

	return q.Plan(ctx, g, s.Units)
}
