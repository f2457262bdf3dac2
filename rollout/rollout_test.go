package rollout_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hgs-vrptw/envproto"
	"github.com/katalvlaran/hgs-vrptw/ga"
	"github.com/katalvlaran/hgs-vrptw/instance"
	"github.com/katalvlaran/hgs-vrptw/matrix"
	"github.com/katalvlaran/hgs-vrptw/rollout"
)

func lineInstance(t *testing.T, n int, capacity int64) *instance.Instance {
	t.Helper()
	d, err := matrix.NewDense(n + 1)
	require.NoError(t, err)
	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			if i != j {
				v := i - j
				if v < 0 {
					v = -v
				}
				require.NoError(t, d.Set(i, j, int64(v)))
			}
		}
	}
	demand := make([]int64, n+1)
	early := make([]int64, n+1)
	late := make([]int64, n+1)
	service := make([]int64, n+1)
	for i := 0; i <= n; i++ {
		late[i] = 1000
		if i > 0 {
			demand[i] = 1
		}
	}
	inst, err := instance.New(n, d, demand, early, late, service, nil, nil, capacity)
	require.NoError(t, err)
	return inst
}

func oneEpoch(n int, must []bool) envproto.EpochInstance {
	requestIdx := make([]int, n+1)
	customerIdx := make([]int, n+1)
	isDepot := make([]bool, n+1)
	mustDispatch := make([]bool, n+1)
	early := make([]int64, n+1)
	late := make([]int64, n+1)
	demand := make([]int64, n+1)
	service := make([]int64, n+1)
	isDepot[0] = true
	for i := 0; i <= n; i++ {
		requestIdx[i] = i
		customerIdx[i] = i
		late[i] = 1000
		if i > 0 {
			demand[i] = 1
			mustDispatch[i] = must[i-1]
		}
	}
	return envproto.EpochInstance{
		RequestIdx: requestIdx, CustomerIdx: customerIdx, IsDepot: isDepot,
		MustDispatch: mustDispatch, Early: early, Late: late, Demand: demand, Service: service,
	}
}

func baseGAConfig() ga.Config {
	cfg := ga.DefaultConfig()
	cfg.Population.Mu, cfg.Population.Lambda = 4, 4
	cfg.Population.NbClose = 2
	cfg.MaxIterations = 20
	return cfg
}

func TestDispatchGreedyServesEveryRequest(t *testing.T) {
	inst := lineInstance(t, 4, 100)
	cfg := rollout.DefaultConfig()
	cfg.Strategy = "greedy"
	d, err := rollout.NewDispatcher(inst, cfg, baseGAConfig(), 1, nil)
	require.NoError(t, err)

	ei := oneEpoch(4, []bool{false, false, false, false})
	sol, err := d.Dispatch(context.Background(), envproto.Observation{EpochInstance: ei}, 0, 50*time.Millisecond, false)
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, route := range sol {
		for _, id := range route {
			seen[id] = true
		}
	}
	for i := 1; i <= 4; i++ {
		require.True(t, seen[i], "request %d not dispatched", i)
	}
}

func TestDispatchLazyOnlyServesMustDispatch(t *testing.T) {
	inst := lineInstance(t, 4, 100)
	cfg := rollout.DefaultConfig()
	cfg.Strategy = "lazy"
	d, err := rollout.NewDispatcher(inst, cfg, baseGAConfig(), 1, nil)
	require.NoError(t, err)

	ei := oneEpoch(4, []bool{true, false, false, true})
	sol, err := d.Dispatch(context.Background(), envproto.Observation{EpochInstance: ei}, 0, 50*time.Millisecond, false)
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, route := range sol {
		for _, id := range route {
			seen[id] = true
		}
	}
	require.True(t, seen[1])
	require.True(t, seen[4])
	require.False(t, seen[2])
	require.False(t, seen[3])
}

func TestDispatchRolloutServesAllMustDispatch(t *testing.T) {
	inst := lineInstance(t, 5, 100)
	cfg := rollout.DefaultConfig()
	cfg.NCycles, cfg.NSimulations, cfg.NLookahead = 1, 2, 0
	cfg.PostponeThresholds = []float64{0.5}
	cfg.MaxConcurrency = 2
	d, err := rollout.NewDispatcher(inst, cfg, baseGAConfig(), 11, nil)
	require.NoError(t, err)

	ei := oneEpoch(5, []bool{true, false, false, false, true})
	obs := envproto.Observation{EpochInstance: ei, CurrentEpoch: 0, CurrentTime: 0}
	sol, err := d.Dispatch(context.Background(), obs, 3, 100*time.Millisecond, false)
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, route := range sol {
		for _, id := range route {
			seen[id] = true
		}
	}
	require.True(t, seen[1])
	require.True(t, seen[5])
}

func TestDispatchFinalEpochServesEveryRequest(t *testing.T) {
	inst := lineInstance(t, 3, 100)
	cfg := rollout.DefaultConfig()
	d, err := rollout.NewDispatcher(inst, cfg, baseGAConfig(), 1, nil)
	require.NoError(t, err)

	ei := oneEpoch(3, []bool{false, false, false})
	sol, err := d.Dispatch(context.Background(), envproto.Observation{EpochInstance: ei}, 0, 30*time.Millisecond, true)
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, route := range sol {
		for _, id := range route {
			seen[id] = true
		}
	}
	for i := 1; i <= 3; i++ {
		require.True(t, seen[i])
	}
}

func TestSampleLookaheadProducesValidInstance(t *testing.T) {
	static := lineInstance(t, 10, 100)
	ei := oneEpoch(3, []bool{true, false, false})
	rng := rand.New(rand.NewSource(5))

	sample, err := rollout.SampleLookahead(static, ei, []bool{false, false, false}, 0, 2, 2, 5, 100, 3, rng)
	require.NoError(t, err)
	require.NoError(t, sample.Inst.Validate())
	require.GreaterOrEqual(t, sample.Inst.N, 3)
	require.Equal(t, sample.Inst.N+1, len(sample.EpochLocalIndex))
}

func TestSolveHindsightReturnsFeasibleIndividual(t *testing.T) {
	inst := lineInstance(t, 4, 100)
	best, err := rollout.SolveHindsight(context.Background(), inst, baseGAConfig(), 9, nil)
	require.NoError(t, err)
	require.NotNil(t, best)
	require.True(t, best.Feasible())
}
