// Package penalty implements the penalty manager (spec.md §4.1): two
// integer weights lambda_cap, lambda_tw on capacity excess and time-warp,
// adapted every P iterations to target a feasibility ratio, plus a
// short-lived repair booster applied during infeasible-offspring repair.
package penalty

import (
	"fmt"

	"github.com/katalvlaran/hgs-vrptw/hgserr"
)

// Config holds the process-long knobs for the penalty manager (subset of
// the "static" config document, spec.md §6).
type Config struct {
	InitialCapacityPenalty int64   // initial lambda_cap (SPEC_FULL.md §D)
	InitialTimeWarpPenalty int64   // initial lambda_tw
	NbPenaltyManagement    int     // P: window length in GA iterations
	PenaltyIncrease        float64 // multiplier applied when f < target-delta
	PenaltyDecrease        float64 // multiplier applied when f > target+delta
	TargetFeasible         float64 // target feasibility fraction in [0,1]
	Delta                  float64 // tolerance band around TargetFeasible
	RepairProbability      float64 // probability of invoking the repair pass
	RepairBooster          float64 // multiplier applied to both weights during repair
}

// DefaultConfig returns the reference parameterization used by the original
// HGS-CVRP implementation (original_source/make_static_parameters.py).
func DefaultConfig() Config {
	return Config{
		InitialCapacityPenalty: 1,
		InitialTimeWarpPenalty: 1,
		NbPenaltyManagement:    100,
		PenaltyIncrease:        1.2,
		PenaltyDecrease:        0.85,
		TargetFeasible:         0.2,
		Delta:                  0.05,
		RepairProbability:      0.5,
		RepairBooster:          10,
	}
}

// Validate rejects configurations spec.md §4.1 forbids: TargetFeasible
// outside [0,1], or multipliers outside their documented ranges (increase
// must be >= 1, decrease must be in (0,1]).
func (c Config) Validate() error {
	if c.TargetFeasible < 0 || c.TargetFeasible > 1 {
		return fmt.Errorf("penalty: targetFeasible out of [0,1]: %w", hgserr.InvalidConfig)
	}
	if c.PenaltyIncrease < 1 {
		return fmt.Errorf("penalty: penaltyIncrease must be >= 1: %w", hgserr.InvalidConfig)
	}
	if c.PenaltyDecrease <= 0 || c.PenaltyDecrease > 1 {
		return fmt.Errorf("penalty: penaltyDecrease must be in (0,1]: %w", hgserr.InvalidConfig)
	}
	if c.RepairBooster < 1 {
		return fmt.Errorf("penalty: repairBooster must be >= 1: %w", hgserr.InvalidConfig)
	}
	if c.RepairProbability < 0 || c.RepairProbability > 1 {
		return fmt.Errorf("penalty: repairProbability out of [0,1]: %w", hgserr.InvalidConfig)
	}
	if c.NbPenaltyManagement <= 0 {
		return fmt.Errorf("penalty: nbPenaltyManagement must be > 0: %w", hgserr.InvalidConfig)
	}
	return nil
}

// Manager holds the two integer weights and the feasibility-tracking window
// state. It is process-long, owned by exactly one GA driver, and mutated
// only via OnNewOffspring (spec.md §3 "Lifecycle").
type Manager struct {
	cfg Config

	lambdaCap int64
	lambdaTW  int64

	iterInWindow  int
	capFeasCount  int
	twFeasCount   int
	windowOffspring int
}

// New constructs a Manager from cfg, validating it first.
func New(cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Manager{
		cfg:       cfg,
		lambdaCap: cfg.InitialCapacityPenalty,
		lambdaTW:  cfg.InitialTimeWarpPenalty,
	}, nil
}

// Weights returns the current (lambda_cap, lambda_tw).
func (m *Manager) Weights() (int64, int64) {
	return m.lambdaCap, m.lambdaTW
}

// OnNewOffspring records one offspring's feasibility-on-capacity and
// feasibility-on-time-warp, and triggers the every-P-iterations adaptation
// (spec.md §4.1, §4.8 "penalty_manager.on_new_offspring(child)").
func (m *Manager) OnNewOffspring(capacityExcess, timeWarp int64) {
	m.windowOffspring++
	if capacityExcess == 0 {
		m.capFeasCount++
	}
	if timeWarp == 0 {
		m.twFeasCount++
	}
	m.iterInWindow++
	if m.iterInWindow >= m.cfg.NbPenaltyManagement {
		m.adapt()
		m.iterInWindow = 0
		m.capFeasCount = 0
		m.twFeasCount = 0
		m.windowOffspring = 0
	}
}

// adapt applies the multiplicative update rule to each weight independently
// based on the observed feasibility fraction over the just-closed window.
func (m *Manager) adapt() {
	if m.windowOffspring == 0 {
		return
	}
	fCap := float64(m.capFeasCount) / float64(m.windowOffspring)
	fTW := float64(m.twFeasCount) / float64(m.windowOffspring)
	m.lambdaCap = adjust(m.lambdaCap, fCap, m.cfg)
	m.lambdaTW = adjust(m.lambdaTW, fTW, m.cfg)
}

func adjust(lambda int64, f float64, cfg Config) int64 {
	target := cfg.TargetFeasible
	switch {
	case f < target-cfg.Delta:
		// Too many infeasible offspring: penalize harder (round up).
		nv := int64(float64(lambda)*cfg.PenaltyIncrease + 0.999999999)
		if nv < 1 {
			nv = 1
		}
		return nv
	case f > target+cfg.Delta:
		nv := int64(float64(lambda) * cfg.PenaltyDecrease)
		if nv < 1 {
			nv = 1
		}
		return nv
	default:
		return lambda
	}
}

// Boosted returns (lambda_cap, lambda_tw) multiplied by RepairBooster,
// applied to the repair-phase local search re-invocation on an infeasible
// offspring (spec.md §4.1, §4.5).
func (m *Manager) Boosted() (int64, int64) {
	boost := func(v int64) int64 {
		nv := int64(float64(v) * m.cfg.RepairBooster)
		if nv < 1 {
			nv = 1
		}
		return nv
	}
	return boost(m.lambdaCap), boost(m.lambdaTW)
}

// RepairProbability exposes the configured repair-invocation probability for
// the GA driver's coin flip (spec.md §4.8).
func (m *Manager) RepairProbability() float64 { return m.cfg.RepairProbability }
