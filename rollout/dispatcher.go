package rollout

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/hashicorp/go-hclog"
	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/katalvlaran/hgs-vrptw/envproto"
	"github.com/katalvlaran/hgs-vrptw/ga"
	"github.com/katalvlaran/hgs-vrptw/hgserr"
	"github.com/katalvlaran/hgs-vrptw/indiv"
	"github.com/katalvlaran/hgs-vrptw/instance"
	"github.com/katalvlaran/hgs-vrptw/matrix"
	"github.com/katalvlaran/hgs-vrptw/xrand"
)

// Dispatcher runs one of the dynamic-mode dispatch strategies (spec.md
// §4.9, SPEC_FULL.md §D) for a single epoch.
type Dispatcher struct {
	static *instance.Instance
	cfg    Config
	gaCfg  ga.Config
	rng    *rand.Rand
	log    hclog.Logger
}

// NewDispatcher validates cfg and constructs a Dispatcher over the static
// customer universe. gaCfg is the template GA configuration used for every
// simulation and every final solve; its MaxRuntime/MaxIterations are
// overridden per call with the time actually available.
func NewDispatcher(static *instance.Instance, cfg Config, gaCfg ga.Config, seed int64, log hclog.Logger) (*Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Dispatcher{
		static: static,
		cfg:    cfg,
		gaCfg:  gaCfg,
		rng:    xrand.FromSeed(seed),
		log:    log.Named("rollout"),
	}, nil
}

// Dispatch runs cfg.Strategy for one epoch and returns the epoch solution
// (request IDs to dispatch now, grouped into routes).
func (d *Dispatcher) Dispatch(ctx context.Context, obs envproto.Observation, epochsLeft int, epochBudget time.Duration, finalEpoch bool) (envproto.EpochSolution, error) {
	if finalEpoch {
		return d.solveAll(ctx, obs.EpochInstance, epochBudget)
	}
	switch d.cfg.Strategy {
	case "greedy":
		return d.DispatchGreedy(ctx, obs, epochBudget)
	case "lazy":
		return d.DispatchLazy(ctx, obs, epochBudget)
	case "random":
		return d.DispatchRandom(ctx, obs, epochBudget)
	default:
		return d.dispatchRollout(ctx, obs, epochsLeft, epochBudget)
	}
}

// dispatchRollout is the cycle-then-threshold rollout algorithm (spec.md
// §4.9 steps 2-5).
func (d *Dispatcher) dispatchRollout(ctx context.Context, obs envproto.Observation, epochsLeft int, epochBudget time.Duration) (envproto.EpochSolution, error) {
	ei := obs.EpochInstance
	nonDepot := make([]int, 0, len(ei.RequestIdx))
	for i, isDepot := range ei.IsDepot {
		if !isDepot {
			nonDepot = append(nonDepot, i)
		}
	}
	postpone := make([]bool, len(nonDepot))

	simTlim := time.Duration(float64(epochBudget) * d.cfg.SimulateTlimFactor)
	totalSims := d.cfg.NCycles * d.cfg.NSimulations
	perSimBudget := simTlim / time.Duration(maxInt(totalSims, 1))
	if perSimBudget <= 0 {
		perSimBudget = time.Millisecond
	}

	for cycle := 0; cycle < d.cfg.NCycles; cycle++ {
		sampleFn := func(rng *rand.Rand) (LookaheadSample, error) {
			return SampleLookahead(d.static, ei, postpone, obs.CurrentTime, epochsLeft, d.cfg.NLookahead, d.cfg.NRequests, d.cfg.EpochDuration, d.cfg.MaxSampleRetries, rng)
		}
		counts := d.runCycle(ctx, sampleFn, ei, perSimBudget)

		threshold := d.cfg.ThresholdFor(obs.CurrentEpoch)
		for pos, i := range nonDepot {
			if ei.MustDispatch[i] {
				continue
			}
			dispatched := counts[ei.RequestIdx[i]]
			postpone[pos] = float64(d.cfg.NSimulations-dispatched) >= threshold*float64(d.cfg.NSimulations)
		}
	}

	keep := make([]int, 0, len(nonDepot))
	for pos, i := range nonDepot {
		if ei.MustDispatch[i] || !postpone[pos] {
			keep = append(keep, i)
		}
	}
	return d.solveSubset(ctx, ei, keep, epochBudget)
}

// runCycle runs cfg.NSimulations simulations concurrently (bounded by
// cfg.MaxConcurrency via a weighted semaphore, coordinated by an errgroup),
// fanning their per-sim dispatch counts into one map with channerics.Merge
// (spec.md §4.9 step 4a; SPEC_FULL.md §B). A simulation that errors (e.g.
// hgserr.Infeasible, or the semaphore ctx expiring) simply contributes no
// counts rather than failing the whole cycle.
func (d *Dispatcher) runCycle(ctx context.Context, sampleFn func(rng *rand.Rand) (LookaheadSample, error), ei envproto.EpochInstance, perSimBudget time.Duration) map[int]int {
	cycleCtx, cancel := context.WithTimeout(ctx, perSimBudget*time.Duration(d.cfg.NSimulations)+time.Second)
	defer cancel()

	maxConcurrency := d.cfg.MaxConcurrency
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	sem := semaphore.NewWeighted(maxConcurrency)
	g, gctx := errgroup.WithContext(cycleCtx)

	chans := make([]<-chan map[int]int, d.cfg.NSimulations)
	for s := 0; s < d.cfg.NSimulations; s++ {
		s := s
		out := make(chan map[int]int, 1)
		chans[s] = out
		g.Go(func() error {
			defer close(out)
			if err := sem.Acquire(gctx, 1); err != nil {
				return nil
			}
			defer sem.Release(1)

			simRng := xrand.Derive(d.rng, uint64(s))
			lk, err := sampleFn(simRng)
			if err != nil {
				return nil
			}
			simCtx, simCancel := context.WithTimeout(gctx, perSimBudget)
			defer simCancel()

			simCfg := d.gaCfg
			simCfg.MaxIterations = 0
			simCfg.MaxRuntime = perSimBudget
			simCfg.Seed = simRng.Int63()
			drv, err := ga.New(lk.Inst, simCfg, nil)
			if err != nil {
				return nil
			}
			best, err := drv.Run(simCtx)
			if err != nil {
				return nil
			}
			out <- countMustDispatchRoutes(best, ei, lk.EpochLocalIndex)
			return nil
		})
	}
	_ = g.Wait()

	merged := channerics.Merge[map[int]int](chans)
	counts := make(map[int]int)
	for m := range channerics.OrDone[map[int]int](cycleCtx.Done(), merged) {
		for id, c := range m {
			counts[id] += c
		}
	}
	return counts
}

// countMustDispatchRoutes implements spec.md §4.9 step 4a's increment rule:
// for every non-empty route that contains at least one must-dispatch
// client of E, every E member of that route (must-dispatch or not) gets its
// dispatched count incremented.
func countMustDispatchRoutes(best *indiv.Individual, ei envproto.EpochInstance, epochLocal []int) map[int]int {
	counts := make(map[int]int)
	for _, rt := range best.Routes {
		if rt.Empty() {
			continue
		}
		hasMust := false
		var members []int
		for _, c := range rt.Clients {
			el := epochLocal[c]
			if el < 0 {
				continue
			}
			members = append(members, ei.RequestIdx[el])
			if ei.MustDispatch[el] {
				hasMust = true
			}
		}
		if hasMust {
			for _, id := range members {
				counts[id]++
			}
		}
	}
	return counts
}

// DispatchGreedy dispatches every pending request in the epoch (spec.md §8
// scenario 5; original_source/dynamic/strategies/baselines.py).
func (d *Dispatcher) DispatchGreedy(ctx context.Context, obs envproto.Observation, budget time.Duration) (envproto.EpochSolution, error) {
	return d.solveAll(ctx, obs.EpochInstance, budget)
}

// DispatchLazy dispatches only must-dispatch requests, postponing
// everything else (spec.md §8 scenario 5 "threshold=0.0 matches lazy";
// original_source/dynamic/strategies/baselines.py).
func (d *Dispatcher) DispatchLazy(ctx context.Context, obs envproto.Observation, budget time.Duration) (envproto.EpochSolution, error) {
	ei := obs.EpochInstance
	keep := make([]int, 0, len(ei.RequestIdx))
	for i, isDepot := range ei.IsDepot {
		if !isDepot && ei.MustDispatch[i] {
			keep = append(keep, i)
		}
	}
	return d.solveSubset(ctx, ei, keep, budget)
}

// DispatchRandom dispatches must-dispatch requests plus an independent
// coin-flip subset of the rest (original_source/dynamic/random/random_dispatch.py).
func (d *Dispatcher) DispatchRandom(ctx context.Context, obs envproto.Observation, budget time.Duration) (envproto.EpochSolution, error) {
	ei := obs.EpochInstance
	keep := make([]int, 0, len(ei.RequestIdx))
	for i, isDepot := range ei.IsDepot {
		if isDepot {
			continue
		}
		if ei.MustDispatch[i] || d.rng.Float64() < 0.5 {
			keep = append(keep, i)
		}
	}
	return d.solveSubset(ctx, ei, keep, budget)
}

func (d *Dispatcher) solveAll(ctx context.Context, ei envproto.EpochInstance, budget time.Duration) (envproto.EpochSolution, error) {
	keep := make([]int, 0, len(ei.RequestIdx))
	for i, isDepot := range ei.IsDepot {
		if !isDepot {
			keep = append(keep, i)
		}
	}
	return d.solveSubset(ctx, ei, keep, budget)
}

// solveSubset solves the restricted instance over keep (epoch-local
// indices) and maps the result back to request IDs. If no feasible
// solution is found within budget, it falls back to one single-client
// route per must-dispatch request (spec.md §7 "the epoch falls back to
// dispatching only must-dispatch requests").
func (d *Dispatcher) solveSubset(ctx context.Context, ei envproto.EpochInstance, keep []int, budget time.Duration) (envproto.EpochSolution, error) {
	if len(keep) == 0 {
		return envproto.EpochSolution{}, nil
	}
	inst, requestIDs, err := buildSubInstance(d.static, ei, keep)
	if err != nil {
		return nil, err
	}
	cfg := d.gaCfg
	cfg.MaxIterations = 0
	cfg.MaxRuntime = budget
	cfg.Seed = d.rng.Int63()
	drv, err := ga.New(inst, cfg, d.log)
	if err != nil {
		return nil, err
	}
	best, err := drv.Run(ctx)
	if err != nil {
		if errors.Is(err, hgserr.Infeasible) {
			return mustDispatchOnlySolution(ei, keep, requestIDs), nil
		}
		return nil, err
	}
	return toEpochSolution(best, requestIDs), nil
}

// buildSubInstance restricts static to the locations at ei.CustomerIdx[keep],
// carrying the epoch's local time windows/demand/service (not the static
// context's, since an epoch instance may narrow them).
func buildSubInstance(static *instance.Instance, ei envproto.EpochInstance, keep []int) (*instance.Instance, []int, error) {
	m := len(keep)
	dist, err := matrix.NewDense(m + 1)
	if err != nil {
		return nil, nil, err
	}
	locOf := make([]int, m+1)
	locOf[0] = instance.Depot
	for i, idx := range keep {
		locOf[i+1] = ei.CustomerIdx[idx]
	}
	for i := 0; i <= m; i++ {
		for j := 0; j <= m; j++ {
			if i == j {
				continue
			}
			if err := dist.Set(i, j, static.Dist.MustAt(locOf[i], locOf[j])); err != nil {
				return nil, nil, err
			}
		}
	}

	demand := make([]int64, m+1)
	early := make([]int64, m+1)
	late := make([]int64, m+1)
	service := make([]int64, m+1)
	requestIDs := make([]int, m+1)
	for i, idx := range keep {
		demand[i+1] = ei.Demand[idx]
		early[i+1] = ei.Early[idx]
		late[i+1] = ei.Late[idx]
		service[i+1] = ei.Service[idx]
		requestIDs[i+1] = ei.RequestIdx[idx]
	}

	inst, err := instance.New(m, dist, demand, early, late, service, nil, nil, static.Capacity)
	return inst, requestIDs, err
}

func toEpochSolution(best *indiv.Individual, requestIDs []int) envproto.EpochSolution {
	sol := make(envproto.EpochSolution, 0, len(best.Routes))
	for _, rt := range best.Routes {
		if rt.Empty() {
			continue
		}
		route := make([]int, len(rt.Clients))
		for i, c := range rt.Clients {
			route[i] = requestIDs[c]
		}
		sol = append(sol, route)
	}
	return sol
}

func mustDispatchOnlySolution(ei envproto.EpochInstance, keep []int, requestIDs []int) envproto.EpochSolution {
	var sol envproto.EpochSolution
	for i, idx := range keep {
		if ei.MustDispatch[idx] {
			sol = append(sol, []int{requestIDs[i+1]})
		}
	}
	return sol
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
