// Package ga implements the hybrid genetic search main loop (spec.md §4.8):
// population seeding, parent selection, crossover, local search, the
// probabilistic repair pass, penalty adaptation, and the stopping criteria,
// wired from the already-built population/crossover/localsearch/penalty
// packages.
package ga

import (
	"fmt"
	"time"

	"github.com/katalvlaran/hgs-vrptw/crossover"
	"github.com/katalvlaran/hgs-vrptw/hgserr"
	"github.com/katalvlaran/hgs-vrptw/localsearch"
	"github.com/katalvlaran/hgs-vrptw/penalty"
	"github.com/katalvlaran/hgs-vrptw/population"
)

// Config holds the GA driver's own knobs plus the sub-packages' Configs,
// together forming the "static" document's GA section (spec.md §6).
type Config struct {
	Population  population.Config
	Penalty     penalty.Config
	LocalSearch localsearch.Params
	Crossover   crossover.Config

	NbGranular     int   // granular neighbourhood size g (spec.md §4.3)
	WeightWaitTime int64 // w_wait, the neighbour proxy's forced-wait weight
	WeightTimeWarp int64 // w_tw, the neighbour proxy's time-warp-risk weight

	// SelectProbability is the probability a binary tournament returns the
	// fitter of its two draws rather than the other one (spec.md §4.7
	// allows a non-deterministic tournament; 1.0 recovers "always fitter").
	SelectProbability float64

	// Exactly one of MaxRuntime/MaxIterations must be set (spec.md §6, §7
	// "conflicting stop criteria" is an InvalidConfig).
	MaxRuntime    time.Duration
	MaxIterations int

	Seed int64
}

// DefaultConfig returns the reference parameterization (original_source/
// make_static_parameters.py, adapted to this port's integer-exact model).
func DefaultConfig() Config {
	return Config{
		Population:        population.DefaultConfig(),
		Penalty:           penalty.DefaultConfig(),
		LocalSearch:       localsearch.DefaultParams(),
		Crossover:         crossover.DefaultConfig(),
		NbGranular:        20,
		WeightWaitTime:    1,
		WeightTimeWarp:    1,
		SelectProbability: 0.9,
		MaxIterations:     20000,
	}
}

// Validate rejects configurations spec.md §7 forbids: invalid sub-configs,
// a non-positive granular neighbourhood size, a tournament probability
// outside [0,1], or zero/both stopping criteria set.
func (c Config) Validate() error {
	if err := c.Population.Validate(); err != nil {
		return err
	}
	if err := c.Penalty.Validate(); err != nil {
		return err
	}
	if c.NbGranular < 1 {
		return fmt.Errorf("ga: nbGranular must be >= 1: %w", hgserr.InvalidConfig)
	}
	if c.SelectProbability < 0 || c.SelectProbability > 1 {
		return fmt.Errorf("ga: selectProbability out of [0,1]: %w", hgserr.InvalidConfig)
	}
	hasRuntime := c.MaxRuntime > 0
	hasIter := c.MaxIterations > 0
	if hasRuntime == hasIter {
		return fmt.Errorf("ga: exactly one of maxRuntime/maxIterations must be set: %w", hgserr.InvalidConfig)
	}
	return nil
}
