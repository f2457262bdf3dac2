// Package rollout implements the dynamic-mode dispatcher (spec.md §4.9): the
// cycle-then-threshold rollout algorithm, the lookahead simulator (§4.10),
// the greedy/lazy/random baselines (SPEC_FULL.md §D), and the hindsight
// oracle solve entry point.
package rollout

import (
	"fmt"

	"github.com/katalvlaran/hgs-vrptw/hgserr"
)

// Config holds the "dynamic" config document section (spec.md §6); the
// "hindsight" section decodes into a ga.Config.
type Config struct {
	Strategy string // "greedy", "lazy", "random", or "rollout"

	SimulateTlimFactor float64   // fraction of the epoch time budget spent simulating
	NCycles            int       // rollout cycles per epoch
	NSimulations       int       // simulations per cycle
	NLookahead         int       // future epochs sampled per simulation
	NRequests          int       // candidate requests sampled per lookahead epoch
	PostponeThresholds []float64 // epoch-indexed; last value reused beyond its length

	EpochDuration    int64 // wall-time span of one epoch, for release-time derivation
	MaxSampleRetries int   // bound on lookahead-sample retries when nothing survives the feasibility filter (spec.md §4.10 step 5)

	MaxConcurrency int64 // cap on simulations run concurrently within a cycle
}

// DefaultConfig returns the reference parameterization.
func DefaultConfig() Config {
	return Config{
		Strategy:            "rollout",
		SimulateTlimFactor:  0.5,
		NCycles:             2,
		NSimulations:        10,
		NLookahead:          3,
		NRequests:           50,
		PostponeThresholds:  []float64{0.5},
		EpochDuration:       3600,
		MaxSampleRetries:    3,
		MaxConcurrency:      4,
	}
}

// Validate rejects configurations that would make the dispatcher ill-defined.
func (c Config) Validate() error {
	switch c.Strategy {
	case "greedy", "lazy", "random", "rollout":
	default:
		return fmt.Errorf("rollout: unknown strategy %q: %w", c.Strategy, hgserr.InvalidConfig)
	}
	if c.Strategy != "rollout" {
		return nil
	}
	if c.SimulateTlimFactor <= 0 || c.SimulateTlimFactor > 1 {
		return fmt.Errorf("rollout: simulateTlimFactor out of (0,1]: %w", hgserr.InvalidConfig)
	}
	if c.NCycles < 1 {
		return fmt.Errorf("rollout: nCycles must be >= 1: %w", hgserr.InvalidConfig)
	}
	if c.NSimulations < 1 {
		return fmt.Errorf("rollout: nSimulations must be >= 1: %w", hgserr.InvalidConfig)
	}
	if c.NLookahead < 0 {
		return fmt.Errorf("rollout: nLookahead must be >= 0: %w", hgserr.InvalidConfig)
	}
	if c.NRequests < 1 {
		return fmt.Errorf("rollout: nRequests must be >= 1: %w", hgserr.InvalidConfig)
	}
	if len(c.PostponeThresholds) == 0 {
		return fmt.Errorf("rollout: postponeThresholds must be non-empty: %w", hgserr.InvalidConfig)
	}
	if c.EpochDuration <= 0 {
		return fmt.Errorf("rollout: epochDuration must be > 0: %w", hgserr.InvalidConfig)
	}
	if c.MaxSampleRetries < 1 {
		return fmt.Errorf("rollout: maxSampleRetries must be >= 1: %w", hgserr.InvalidConfig)
	}
	return nil
}

// ThresholdFor returns the postpone threshold for epoch, reusing the last
// configured value once epoch runs past the end of PostponeThresholds
// (spec.md §4.9 "may be epoch-indexed ... last value reused beyond its
// length").
func (c Config) ThresholdFor(epoch int) float64 {
	if epoch < 0 {
		epoch = 0
	}
	if epoch >= len(c.PostponeThresholds) {
		return c.PostponeThresholds[len(c.PostponeThresholds)-1]
	}
	return c.PostponeThresholds[epoch]
}
