package localsearch_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hgs-vrptw/indiv"
	"github.com/katalvlaran/hgs-vrptw/instance"
	"github.com/katalvlaran/hgs-vrptw/localsearch"
	"github.com/katalvlaran/hgs-vrptw/matrix"
	"github.com/katalvlaran/hgs-vrptw/neighbour"
	"github.com/katalvlaran/hgs-vrptw/xrand"
)

// lineInstance builds a chain of n clients on a line with Euclidean-like
// integer distances |i-j| (symmetric), wide time windows, and ample
// capacity so the only signal local search can act on is distance.
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
	for i := 1; i <= n; i++ {
		demand[i] = 1
		late[i] = 1000
	}
	late[0] = 1000
	inst, err := instance.New(n, d, demand, early, late, service, nil, nil, capacity)
	require.NoError(t, err)
	return inst
}

func TestRelocateImprovesMisplacedClient(t *testing.T) {
	inst := lineInstance(t, 6, 100)
	// Route A visits 1,5,2 (a detour through 5); route B visits 3,4. Moving
	// client 5 into route B between 3 and 4 removes the detour.
	ind, err := indiv.NewFromRoutes(inst, [][]int{{1, 5, 2}, {3, 4}}, 2)
	require.NoError(t, err)
	before := ind.Cost(1, 1)

	lists := neighbour.Build(inst, 5, 1, 1)
	ctx := localsearch.New(inst, lists, 1, 1, localsearch.DefaultParams())
	rng := xrand.FromSeed(1)
	ctx.Run(ind, rng)

	require.NoError(t, ind.Validate(inst))
	require.LessOrEqual(t, ind.Cost(1, 1), before)
}

func TestRunConvergesAndStaysValid(t *testing.T) {
	inst := lineInstance(t, 10, 3)
	ind, err := indiv.NewFromRoutes(inst, [][]int{
		{10, 1, 9, 2}, {8, 3, 7}, {4, 6, 5},
	}, 4)
	require.NoError(t, err)
	before := ind.Cost(5, 5)

	lists := neighbour.Build(inst, 4, 1, 1)
	ctx := localsearch.New(inst, lists, 5, 5, localsearch.DefaultParams())
	rng := xrand.FromSeed(7)
	ctx.Run(ind, rng)

	require.NoError(t, ind.Validate(inst))
	require.LessOrEqual(t, ind.Cost(5, 5), before)
}

func TestRelocateStarAndSwapStarPreserveValidity(t *testing.T) {
	inst := lineInstance(t, 8, 2)
	ind, err := indiv.NewFromRoutes(inst, [][]int{{1, 2}, {3, 4}, {5, 6}, {7, 8}}, 4)
	require.NoError(t, err)

	lists := neighbour.Build(inst, 3, 1, 1)
	ctx := localsearch.New(inst, lists, 2, 2, localsearch.DefaultParams())

	ctx.RelocateStar(ind, 4)
	require.NoError(t, ind.Validate(inst))
	ctx.SwapStar(ind, 4)
	require.NoError(t, ind.Validate(inst))
}
