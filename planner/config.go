package planner

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/chokeflow/decompose"
	"github.com/katalvlaran/chokeflow/flowgraph"
	"github.com/katalvlaran/chokeflow/paths"
)

// Config holds every tunable of an episode.
type Config struct {
	// Graph construction
	CapacityPerWidth  float64 `yaml:"capacity_per_width"`
	UnlimitedCapacity float64 `yaml:"unlimited_capacity"`
	Epsilon           float64 `yaml:"epsilon"`

	// Decomposition; both tolerances must be positive
	CapacitySlack    float64 `yaml:"capacity_slack"`
	CostTolerance    float64 `yaml:"cost_tolerance"`
	MaxAlternatives  int     `yaml:"max_alternatives"`
	MaxCandidates    int     `yaml:"max_candidates"`
	MaxAugmentations int     `yaml:"max_augmentations"`
	MaxExpansions    int     `yaml:"max_expansions"`

	// Assignment
	MaxWidenings int   `yaml:"max_widenings"`
	Seed         int64 `yaml:"seed"`
}

// DefaultConfig returns the defaults of every package involved.
// MaxExpansions 0 lets the search derive its bound from the graph size.
func DefaultConfig() Config {
	d := decompose.DefaultOptions()

	return Config{
		CapacityPerWidth:  1,
		UnlimitedCapacity: flowgraph.DefaultUnlimitedCapacity,
		Epsilon:           flowgraph.DefaultEpsilon,
		CapacitySlack:     d.CapacitySlack,
		CostTolerance:     paths.DefaultCostTolerance,
		MaxAlternatives:   d.MaxAlternatives,
		MaxCandidates:     d.MaxCandidates,
		MaxAugmentations:  d.MaxAugmentations,
		MaxWidenings:      64,
		Seed:              1,
	}
}

// Validate reports the first out-of-range value.
func (c Config) Validate() error {
	switch {
	case c.CapacityPerWidth <= 0:
		return fmt.Errorf("%w: capacity_per_width %g", ErrInvalidConfig, c.CapacityPerWidth)
	case c.UnlimitedCapacity <= 0:
		return fmt.Errorf("%w: unlimited_capacity %g", ErrInvalidConfig, c.UnlimitedCapacity)
	case c.Epsilon <= 0:
		return fmt.Errorf("%w: epsilon %g", ErrInvalidConfig, c.Epsilon)
	case c.CapacitySlack <= 0:
		return fmt.Errorf("%w: capacity_slack %g", ErrInvalidConfig, c.CapacitySlack)
	case c.CostTolerance <= 0:
		return fmt.Errorf("%w: cost_tolerance %g", ErrInvalidConfig, c.CostTolerance)
	case c.MaxAlternatives < 1:
		return fmt.Errorf("%w: max_alternatives %d", ErrInvalidConfig, c.MaxAlternatives)
	case c.MaxCandidates < 1:
		return fmt.Errorf("%w: max_candidates %d", ErrInvalidConfig, c.MaxCandidates)
	case c.MaxAugmentations < 1:
		return fmt.Errorf("%w: max_augmentations %d", ErrInvalidConfig, c.MaxAugmentations)
	case c.MaxExpansions < 0:
		return fmt.Errorf("%w: max_expansions %d", ErrInvalidConfig, c.MaxExpansions)
	case c.MaxWidenings < 1:
		return fmt.Errorf("%w: max_widenings %d", ErrInvalidConfig, c.MaxWidenings)
	}

	return nil
}

// LoadConfig reads a YAML file over DefaultConfig. An empty path returns
// the defaults. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	// 1) Open
	fh, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("planner: open config: %w", err)
	}
	defer fh.Close()

	// 2) Strict decode
	dec := yaml.NewDecoder(fh)
	dec.KnownFields(true)
	if err = dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("planner: decode config %q: %w", path, err)
	}

	// 3) Validate
	return cfg, cfg.Validate()
}
