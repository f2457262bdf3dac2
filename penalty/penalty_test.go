package penalty_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hgs-vrptw/penalty"
)

func TestNewRejectsBadTarget(t *testing.T) {
	cfg := penalty.DefaultConfig()
	cfg.TargetFeasible = 1.5
	_, err := penalty.New(cfg)
	require.Error(t, err)
}

func TestNewRejectsBadMultipliers(t *testing.T) {
	cfg := penalty.DefaultConfig()
	cfg.PenaltyIncrease = 0.5
	_, err := penalty.New(cfg)
	require.Error(t, err)
}

func TestAdaptIncreasesWhenTooInfeasible(t *testing.T) {
	cfg := penalty.DefaultConfig()
	cfg.NbPenaltyManagement = 2
	cfg.TargetFeasible = 0.5
	cfg.Delta = 0.05
	m, err := penalty.New(cfg)
	require.NoError(t, err)

	capBefore, _ := m.Weights()
	// Both offspring infeasible on capacity -> f=0 < target-delta -> increase.
	m.OnNewOffspring(1, 0)
	m.OnNewOffspring(1, 0)
	capAfter, _ := m.Weights()
	require.Greater(t, capAfter, capBefore)
}

func TestAdaptDecreasesWhenTooFeasible(t *testing.T) {
	cfg := penalty.DefaultConfig()
	cfg.NbPenaltyManagement = 2
	cfg.InitialCapacityPenalty = 100
	cfg.TargetFeasible = 0.2
	cfg.Delta = 0.05
	m, err := penalty.New(cfg)
	require.NoError(t, err)

	capBefore, _ := m.Weights()
	m.OnNewOffspring(0, 0)
	m.OnNewOffspring(0, 0)
	capAfter, _ := m.Weights()
	require.Less(t, capAfter, capBefore)
}

func TestBoostedMultipliesBothWeights(t *testing.T) {
	cfg := penalty.DefaultConfig()
	cfg.InitialCapacityPenalty = 2
	cfg.InitialTimeWarpPenalty = 3
	cfg.RepairBooster = 10
	m, err := penalty.New(cfg)
	require.NoError(t, err)
	capW, tw := m.Boosted()
	require.Equal(t, int64(20), capW)
	require.Equal(t, int64(30), tw)
}
