package indiv_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hgs-vrptw/indiv"
	"github.com/katalvlaran/hgs-vrptw/instance"
	"github.com/katalvlaran/hgs-vrptw/matrix"
)

func lineInstance(t *testing.T, n int, cap int64) *instance.Instance {
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
	for i := 1; i <= n; i++ {
		demand[i] = 1
		early[i] = 0
		late[i] = 1000
		service[i] = 0
	}
	late[0] = 1000
	inst, err := instance.New(n, d, demand, early, late, service, nil, nil, cap)
	require.NoError(t, err)
	return inst
}

func TestNewFromRoutesAggregates(t *testing.T) {
	inst := lineInstance(t, 4, 10)
	ind, err := indiv.NewFromRoutes(inst, [][]int{{1, 2}, {3, 4}}, 3)
	require.NoError(t, err)
	// route1: 0->1->2->0 = 1+1+2 = 4 ; route2: 0->3->4->0 = 3+1+4 = 8
	require.Equal(t, int64(12), ind.Distance)
	require.True(t, ind.Feasible())
}

func TestNewFromRoutesRejectsDuplicateClient(t *testing.T) {
	inst := lineInstance(t, 3, 10)
	_, err := indiv.NewFromRoutes(inst, [][]int{{1, 2}, {2, 3}}, 2)
	require.Error(t, err)
}

func TestNewFromRoutesRejectsMissingClient(t *testing.T) {
	inst := lineInstance(t, 3, 10)
	_, err := indiv.NewFromRoutes(inst, [][]int{{1, 2}}, 2)
	require.Error(t, err)
}

func TestExportRoutesStableOrder(t *testing.T) {
	inst := lineInstance(t, 4, 10)
	ind, err := indiv.NewFromRoutes(inst, [][]int{{3, 4}, {1, 2}}, 2)
	require.NoError(t, err)
	exported := ind.ExportRoutes()
	require.Equal(t, [][]int{{1, 2}, {3, 4}}, exported)
}

func TestCapacityExcess(t *testing.T) {
	inst := lineInstance(t, 2, 1) // capacity 1, each client demands 1
	ind, err := indiv.NewFromRoutes(inst, [][]int{{1, 2}}, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), ind.CapacityExcess) // load 2, capacity 1
	require.False(t, ind.Feasible())
}

func TestValidateDetectsStaleCache(t *testing.T) {
	inst := lineInstance(t, 2, 10)
	ind, err := indiv.NewFromRoutes(inst, [][]int{{1, 2}}, 1)
	require.NoError(t, err)
	require.NoError(t, ind.Validate(inst))

	ind.Distance = 99999 // corrupt cache
	require.Error(t, ind.Validate(inst))
}

func TestBrokenPairsDistance(t *testing.T) {
	inst := lineInstance(t, 4, 10)
	a, err := indiv.NewFromRoutes(inst, [][]int{{1, 2, 3, 4}}, 1)
	require.NoError(t, err)
	b, err := indiv.NewFromRoutes(inst, [][]int{{1, 2}, {3, 4}}, 2)
	require.NoError(t, err)
	// a: 1->2->3->4->depot ; b: 1->2->depot, 3->4->depot
	// differs at successor(2) (3 vs depot) and successor(4) (depot vs depot - same)
	require.Equal(t, 1, a.BrokenPairsDistance(inst, b))
}

func TestGiantTourDistinctForDifferentSolutions(t *testing.T) {
	inst := lineInstance(t, 4, 10)
	a, _ := indiv.NewFromRoutes(inst, [][]int{{1, 2, 3, 4}}, 1)
	b, _ := indiv.NewFromRoutes(inst, [][]int{{4, 3, 2, 1}}, 1)
	require.NotEqual(t, a.GiantTour(), b.GiantTour())
}
