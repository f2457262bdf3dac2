package rollout

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/katalvlaran/hgs-vrptw/ga"
	"github.com/katalvlaran/hgs-vrptw/indiv"
	"github.com/katalvlaran/hgs-vrptw/instance"
)

// SolveHindsight solves the realized hindsight instance (envproto.Env.
// GetHindsightProblem's return value) statically through the GA driver,
// used by the oracle baseline and the §8 scenario 6 cost bound: the
// hindsight-optimal cost must be <= the sum of per-epoch costs any dynamic
// strategy achieves on the same realized problem.
func SolveHindsight(ctx context.Context, inst *instance.Instance, gaCfg ga.Config, seed int64, log hclog.Logger) (*indiv.Individual, error) {
	cfg := gaCfg
	cfg.Seed = seed
	drv, err := ga.New(inst, cfg, log)
	if err != nil {
		return nil, err
	}
	return drv.Run(ctx)
}
