package indiv_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hgs-vrptw/indiv"
	"github.com/katalvlaran/hgs-vrptw/instance"
	"github.com/katalvlaran/hgs-vrptw/matrix"
)

func TestRouteTimeWarpInfeasibleWindow(t *testing.T) {
	// depot -> client 1, d=10; client 1's window closes at 5 -> warp = 5.
	d, err := matrix.NewDense(2)
	require.NoError(t, err)
	require.NoError(t, d.Set(0, 1, 10))
	require.NoError(t, d.Set(1, 0, 10))
	inst, err := instance.New(1, d,
		[]int64{0, 1},
		[]int64{0, 0},
		[]int64{1000, 5},
		[]int64{0, 0},
		nil, nil, 10)
	require.NoError(t, err)

	rt := indiv.NewRoute()
	rt.SetClients(inst, []int{1})
	require.Equal(t, int64(5), rt.TimeWarp)
	require.False(t, rt.Feasible)
	require.Equal(t, int64(20), rt.Distance)
}

func TestRouteFeasibleRoundTrip(t *testing.T) {
	d, err := matrix.NewDense(2)
	require.NoError(t, err)
	require.NoError(t, d.Set(0, 1, 3))
	require.NoError(t, d.Set(1, 0, 3))
	inst, err := instance.New(1, d,
		[]int64{0, 2},
		[]int64{0, 0},
		[]int64{1000, 1000},
		[]int64{0, 1},
		nil, nil, 5)
	require.NoError(t, err)

	rt := indiv.NewRoute()
	rt.SetClients(inst, []int{1})
	require.Equal(t, int64(0), rt.TimeWarp)
	require.True(t, rt.Feasible)
	require.Equal(t, int64(6), rt.Distance)
	require.Equal(t, int64(2), rt.Load)
}
