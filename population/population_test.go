package population_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hgs-vrptw/indiv"
	"github.com/katalvlaran/hgs-vrptw/instance"
	"github.com/katalvlaran/hgs-vrptw/matrix"
	"github.com/katalvlaran/hgs-vrptw/population"
)

func smallInstance(t *testing.T, n int) *instance.Instance {
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

func indFromTour(t *testing.T, inst *instance.Instance, tour []int) *indiv.Individual {
	t.Helper()
	ind, err := indiv.NewFromRoutes(inst, [][]int{tour}, 1)
	require.NoError(t, err)
	return ind
}

func TestInsertRejectsDuplicateGiantTour(t *testing.T) {
	inst := smallInstance(t, 4)
	cfg := population.DefaultConfig()
	cfg.Mu, cfg.Lambda = 10, 10
	pop, err := population.New(inst, cfg, 1, 1)
	require.NoError(t, err)

	require.True(t, pop.Insert(indFromTour(t, inst, []int{1, 2, 3, 4})))
	require.False(t, pop.Insert(indFromTour(t, inst, []int{1, 2, 3, 4})))
	require.Equal(t, 1, pop.Feasible.Size())
}

func TestInsertTracksBestFeasible(t *testing.T) {
	inst := smallInstance(t, 4)
	cfg := population.DefaultConfig()
	cfg.Mu, cfg.Lambda = 10, 10
	pop, err := population.New(inst, cfg, 1, 1)
	require.NoError(t, err)

	require.Nil(t, pop.BestFeasible())
	pop.Insert(indFromTour(t, inst, []int{4, 3, 2, 1}))
	first := pop.BestFeasible()
	require.NotNil(t, first)
	pop.Insert(indFromTour(t, inst, []int{1, 2, 3, 4}))
	require.NotNil(t, pop.BestFeasible())
}

func TestShrinkKeepsSizeAtMu(t *testing.T) {
	inst := smallInstance(t, 4)
	cfg := population.DefaultConfig()
	cfg.Mu, cfg.Lambda, cfg.NbClose, cfg.NbElite = 2, 1, 1, 1
	pop, err := population.New(inst, cfg, 1, 1)
	require.NoError(t, err)

	tours := [][]int{
		{1, 2, 3, 4}, {2, 1, 3, 4}, {3, 1, 2, 4}, {4, 1, 2, 3},
	}
	for _, tour := range tours {
		pop.Insert(indFromTour(t, inst, tour))
	}
	require.Equal(t, cfg.Mu, pop.Feasible.Size())
}

func TestSelectParentsReturnsNonNil(t *testing.T) {
	inst := smallInstance(t, 4)
	cfg := population.DefaultConfig()
	cfg.Mu, cfg.Lambda = 10, 10
	pop, err := population.New(inst, cfg, 1, 1)
	require.NoError(t, err)
	pop.Insert(indFromTour(t, inst, []int{1, 2, 3, 4}))
	pop.Insert(indFromTour(t, inst, []int{2, 1, 3, 4}))

	rng := rand.New(rand.NewSource(1))
	p1, p2 := pop.SelectParents(rng)
	require.NotNil(t, p1)
	require.NotNil(t, p2)
}

func TestRestartKeepsElites(t *testing.T) {
	inst := smallInstance(t, 4)
	cfg := population.DefaultConfig()
	cfg.Mu, cfg.Lambda, cfg.NbKeepOnRestart = 10, 10, 1
	pop, err := population.New(inst, cfg, 1, 1)
	require.NoError(t, err)
	pop.Insert(indFromTour(t, inst, []int{1, 2, 3, 4}))
	pop.Insert(indFromTour(t, inst, []int{2, 1, 3, 4}))

	pop.Restart()
	require.Equal(t, 1, pop.Feasible.Size())
}
