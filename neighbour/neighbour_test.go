package neighbour_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hgs-vrptw/instance"
	"github.com/katalvlaran/hgs-vrptw/matrix"
	"github.com/katalvlaran/hgs-vrptw/neighbour"
)

func chainInstance(t *testing.T, n int) *instance.Instance {
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

func TestBuildReturnsClosestFirst(t *testing.T) {
	inst := chainInstance(t, 5)
	lists := neighbour.Build(inst, 2, 1, 1)
	// client 3's two nearest (by pure distance, symmetric chain) are 2 and 4.
	got := lists.Of(3)
	require.Len(t, got, 2)
	require.ElementsMatch(t, []int{2, 4}, got)
}

func TestBuildCapsAtG(t *testing.T) {
	inst := chainInstance(t, 10)
	lists := neighbour.Build(inst, 3, 1, 1)
	require.Len(t, lists.Of(5), 3)
}
