package localsearch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hgs-vrptw/indiv"
	"github.com/katalvlaran/hgs-vrptw/instance"
	"github.com/katalvlaran/hgs-vrptw/matrix"
)

// coordInstance places the depot at the origin and clients 1..n around it
// at the given angles (radians) and unit distance, with an exact Euclidean
// duration matrix, ample capacity, and wide time windows.
func coordInstance(t *testing.T, angles []float64) *instance.Instance {
	t.Helper()
	n := len(angles)
	coord := make([][2]int64, n+1)
	const scale = 1000
	for i, a := range angles {
		coord[i+1] = [2]int64{int64(math.Cos(a) * scale), int64(math.Sin(a) * scale)}
	}

	d, err := matrix.NewDense(n + 1)
	require.NoError(t, err)
	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			if i == j {
				continue
			}
			dx := float64(coord[i][0] - coord[j][0])
			dy := float64(coord[i][1] - coord[j][1])
			require.NoError(t, d.Set(i, j, int64(math.Sqrt(dx*dx+dy*dy))))
		}
	}

	demand := make([]int64, n+1)
	early := make([]int64, n+1)
	late := make([]int64, n+1)
	service := make([]int64, n+1)
	for i := 1; i <= n; i++ {
		demand[i] = 1
		late[i] = 100000
	}
	late[0] = 100000

	inst, err := instance.New(n, d, demand, early, late, service, nil, coord, 100)
	require.NoError(t, err)
	return inst
}

func TestWorthComparingRejectsDisjointSectors(t *testing.T) {
	// Route A's clients sit due east of the depot, route B's due west: their
	// angular spans are on opposite sides of the circle and don't overlap.
	inst := coordInstance(t, []float64{0, 0.05, math.Pi - 0.05, math.Pi})
	ind, err := indiv.NewFromRoutes(inst, [][]int{{1, 2}, {3, 4}}, 2)
	require.NoError(t, err)

	params := DefaultParams()
	params.MinRouteOverlapSize = 0 // force the filter to actually run
	ctx := New(inst, nil, 1, 1, params)

	require.False(t, ctx.worthComparing(ind.Routes[0], ind.Routes[1]))
}

func TestWorthComparingAcceptsOverlappingSectors(t *testing.T) {
	// Both routes' clients sit in the same eastward sector: their angular
	// spans overlap.
	inst := coordInstance(t, []float64{0, 0.05, 0.02, 0.07})
	ind, err := indiv.NewFromRoutes(inst, [][]int{{1, 2}, {3, 4}}, 2)
	require.NoError(t, err)

	params := DefaultParams()
	params.MinRouteOverlapSize = 0
	ctx := New(inst, nil, 1, 1, params)

	require.True(t, ctx.worthComparing(ind.Routes[0], ind.Routes[1]))
}

func TestWorthComparingSkipsFilterBelowMinOverlapSize(t *testing.T) {
	inst := coordInstance(t, []float64{0, 0.05, math.Pi - 0.05, math.Pi})
	ind, err := indiv.NewFromRoutes(inst, [][]int{{1, 2}, {3, 4}}, 2)
	require.NoError(t, err)

	params := DefaultParams()
	params.MinRouteOverlapSize = 4 // both routes have 2 clients, below threshold
	ctx := New(inst, nil, 1, 1, params)

	require.True(t, ctx.worthComparing(ind.Routes[0], ind.Routes[1]))
}

func TestWorthComparingToleranceClosesNearMiss(t *testing.T) {
	// The spans [0, 0.05] and [0.1, 0.15] fall just short of touching; widen
	// each by the configured tolerance and they meet.
	inst := coordInstance(t, []float64{0, 0.05, 0.1, 0.15})
	ind, err := indiv.NewFromRoutes(inst, [][]int{{1, 2}, {3, 4}}, 2)
	require.NoError(t, err)

	params := DefaultParams()
	params.MinRouteOverlapSize = 0
	params.CircleSectorOverlapTolerance = 0
	ctx := New(inst, nil, 1, 1, params)
	require.False(t, ctx.worthComparing(ind.Routes[0], ind.Routes[1]))

	ctx.Params.CircleSectorOverlapTolerance = 0.1
	require.True(t, ctx.worthComparing(ind.Routes[0], ind.Routes[1]))
}
