package ga_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hgs-vrptw/ga"
	"github.com/katalvlaran/hgs-vrptw/hgserr"
	"github.com/katalvlaran/hgs-vrptw/instance"
	"github.com/katalvlaran/hgs-vrptw/matrix"
)

// ringInstance builds a small symmetric instance with generous time windows
// and capacity, so a feasible solution always exists.
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

func TestConfigValidateRejectsConflictingStopCriteria(t *testing.T) {
	cfg := ga.DefaultConfig()
	cfg.MaxRuntime = time.Second
	// MaxIterations is also set by DefaultConfig: both set is invalid.
	require.Error(t, cfg.Validate())

	cfg = ga.DefaultConfig()
	cfg.MaxIterations = 0
	// Neither set is also invalid.
	require.Error(t, cfg.Validate())
}

func TestDriverRunFindsFeasibleSolution(t *testing.T) {
	inst := ringInstance(t, 8, 100)
	cfg := ga.DefaultConfig()
	cfg.Population.Mu, cfg.Population.Lambda = 6, 6
	cfg.Population.NbClose = 2
	cfg.MaxIterations = 50
	cfg.Seed = 7

	drv, err := ga.New(inst, cfg, nil)
	require.NoError(t, err)

	best, err := drv.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, best)
	require.NoError(t, best.Validate(inst))
	require.True(t, best.Feasible())

	seen := make([]bool, inst.N+1)
	for _, rt := range best.Routes {
		for _, c := range rt.Clients {
			require.False(t, seen[c])
			seen[c] = true
		}
	}
	for c := 1; c <= inst.N; c++ {
		require.True(t, seen[c], "client %d missing from solution", c)
	}
}

func TestDriverRunRespectsContextCancellation(t *testing.T) {
	inst := ringInstance(t, 6, 100)
	cfg := ga.DefaultConfig()
	cfg.Population.Mu, cfg.Population.Lambda = 4, 4
	cfg.Population.NbClose = 2
	cfg.MaxIterations = 1_000_000
	cfg.Seed = 3

	drv, err := ga.New(inst, cfg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err = drv.Run(ctx)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
	if err != nil {
		require.ErrorIs(t, err, hgserr.Infeasible)
	}
}
