package crossover_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hgs-vrptw/crossover"
	"github.com/katalvlaran/hgs-vrptw/indiv"
	"github.com/katalvlaran/hgs-vrptw/instance"
	"github.com/katalvlaran/hgs-vrptw/matrix"
)

func ringInstance(t *testing.T, n int, capacity int64) *instance.Instance {
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

func everyClientOnce(t *testing.T, inst *instance.Instance, ind *indiv.Individual) {
	t.Helper()
	seen := make([]bool, inst.N+1)
	for _, rt := range ind.Routes {
		for _, c := range rt.Clients {
			require.False(t, seen[c], "client %d appears twice", c)
			seen[c] = true
		}
	}
	for c := 1; c <= inst.N; c++ {
		require.True(t, seen[c], "client %d missing", c)
	}
}

func TestSREXProducesCompleteChild(t *testing.T) {
	inst := ringInstance(t, 9, 100)
	a, err := indiv.NewFromRoutes(inst, [][]int{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}, 3)
	require.NoError(t, err)
	b, err := indiv.NewFromRoutes(inst, [][]int{{9, 1, 4}, {2, 7, 5}, {3, 6, 8}}, 3)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	child := crossover.SREX(inst, a, b, rng, crossover.DefaultConfig(), 1, 1)
	everyClientOnce(t, inst, child)
	require.NoError(t, child.Validate(inst))
}

func TestBPXProducesCompleteChild(t *testing.T) {
	inst := ringInstance(t, 9, 100)
	a, err := indiv.NewFromRoutes(inst, [][]int{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}, 3)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	cfg := crossover.DefaultConfig()
	cfg.BPXFraction = 0.5
	child := crossover.BPX(inst, a, rng, cfg, 1, 1)
	everyClientOnce(t, inst, child)
	require.NoError(t, child.Validate(inst))
}
