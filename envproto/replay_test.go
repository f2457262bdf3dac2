package envproto_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hgs-vrptw/envproto"
	"github.com/katalvlaran/hgs-vrptw/instance"
	"github.com/katalvlaran/hgs-vrptw/matrix"
)

func lineInstance(t *testing.T, n int) *instance.Instance {
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
	}
	inst, err := instance.New(n, d, demand, early, late, service, nil, nil, 100)
	require.NoError(t, err)
	return inst
}

func twoEpochInstances() []envproto.EpochInstance {
	return []envproto.EpochInstance{
		{
			RequestIdx:   []int{0, 1, 2},
			CustomerIdx:  []int{0, 1, 2},
			MustDispatch: []bool{false, true, false},
			IsDepot:      []bool{true, false, false},
			Early:        []int64{0, 0, 0},
			Late:         []int64{1000, 1000, 1000},
			Demand:       []int64{0, 0, 0},
			Service:      []int64{0, 0, 0},
		},
		{
			RequestIdx:   []int{0, 3},
			CustomerIdx:  []int{0, 3},
			MustDispatch: []bool{false, true},
			IsDepot:      []bool{true, false},
			Early:        []int64{0, 0},
			Late:         []int64{1000, 1000},
			Demand:       []int64{0, 0},
			Service:      []int64{0, 0},
		},
	}
}

func TestReplayEnvStepScoresAndAdvances(t *testing.T) {
	inst := lineInstance(t, 3)
	env := envproto.NewReplayEnv(inst, twoEpochInstances(), 1, 10)

	obs, info, err := env.Reset()
	require.NoError(t, err)
	require.Equal(t, 0, info.StartEpoch)
	require.Equal(t, 1, info.EndEpoch)
	require.Equal(t, 0, obs.CurrentEpoch)

	obs2, reward, done, envInfo, err := env.Step(envproto.EpochSolution{{1}})
	require.NoError(t, err)
	require.Nil(t, envInfo.Error)
	require.False(t, done)
	require.Equal(t, -float64(2), reward) // d[0][1]+d[1][0] = 1+1
	require.Equal(t, 1, obs2.CurrentEpoch)

	_, reward2, done2, _, err := env.Step(envproto.EpochSolution{{3}})
	require.NoError(t, err)
	require.True(t, done2)
	require.Equal(t, -float64(6), reward2) // d[0][3]+d[3][0] = 3+3
}

func TestReplayEnvStepRejectsMissingMustDispatch(t *testing.T) {
	inst := lineInstance(t, 3)
	env := envproto.NewReplayEnv(inst, twoEpochInstances(), 1, 10)
	_, _, err := env.Reset()
	require.NoError(t, err)

	_, _, _, info, err := env.Step(envproto.EpochSolution{})
	require.Error(t, err)
	require.Error(t, info.Error)
}

func TestReplayEnvHindsightRevealsRealizedProblem(t *testing.T) {
	inst := lineInstance(t, 3)
	env := envproto.NewReplayEnv(inst, twoEpochInstances(), 1, 10)
	_, _, err := env.Reset()
	require.NoError(t, err)
	_, _, _, _, err = env.Step(envproto.EpochSolution{{1}})
	require.NoError(t, err)
	_, _, _, _, err = env.Step(envproto.EpochSolution{{3}})
	require.NoError(t, err)

	hp, err := env.GetHindsightProblem()
	require.NoError(t, err)
	// requests 1 and 2 were revealed at epoch 0 (request 2 was never
	// dispatched but is still part of the realized problem); request 3 was
	// revealed at epoch 1, so its release time is 1*epochDuration=10.
	require.Equal(t, 3, hp.N)
	require.Equal(t, int64(10), hp.ReleaseOf(3))
	require.Equal(t, int64(0), hp.ReleaseOf(1))
}

func TestReplayEnvHindsightBeforeDoneFails(t *testing.T) {
	inst := lineInstance(t, 3)
	env := envproto.NewReplayEnv(inst, twoEpochInstances(), 1, 10)
	_, _, err := env.Reset()
	require.NoError(t, err)
	_, err = env.GetHindsightProblem()
	require.Error(t, err)
}
