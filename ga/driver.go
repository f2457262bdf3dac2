package ga

import (
	"context"
	"math/rand"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-uuid"

	"github.com/katalvlaran/hgs-vrptw/crossover"
	"github.com/katalvlaran/hgs-vrptw/hgserr"
	"github.com/katalvlaran/hgs-vrptw/indiv"
	"github.com/katalvlaran/hgs-vrptw/instance"
	"github.com/katalvlaran/hgs-vrptw/localsearch"
	"github.com/katalvlaran/hgs-vrptw/neighbour"
	"github.com/katalvlaran/hgs-vrptw/penalty"
	"github.com/katalvlaran/hgs-vrptw/population"
	"github.com/katalvlaran/hgs-vrptw/xrand"
)

// Driver runs the hybrid genetic search main loop on one fixed Instance. It
// is not safe for concurrent use; a dynamic rollout cycle constructs one
// Driver per solve call (spec.md §4.9).
type Driver struct {
	inst  *instance.Instance
	cfg   Config
	k     int
	neigh *neighbour.Lists
	pen   *penalty.Manager
	pop   *population.Population
	rng   *rand.Rand
	log   hclog.Logger
}

// New validates cfg, builds the granular neighbourhood, and constructs an
// empty population and penalty manager. Call Seed then Run (or just Run,
// which seeds if the population is still empty).
func New(inst *instance.Instance, cfg Config, log hclog.Logger) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	pen, err := penalty.New(cfg.Penalty)
	if err != nil {
		return nil, err
	}
	lambdaCap, lambdaTW := pen.Weights()
	pop, err := population.New(inst, cfg.Population, lambdaCap, lambdaTW)
	if err != nil {
		return nil, err
	}
	runID, err := uuid.GenerateUUID()
	if err != nil {
		return nil, err
	}
	return &Driver{
		inst:  inst,
		cfg:   cfg,
		k:     inst.NbVehHeuristic(2),
		neigh: neighbour.Build(inst, cfg.NbGranular, cfg.WeightWaitTime, cfg.WeightTimeWarp),
		pen:   pen,
		pop:   pop,
		rng:   xrand.FromSeed(cfg.Seed),
		log:   log.Named("ga").With("run_id", runID),
	}, nil
}

// Population exposes the driver's population to callers that want to
// inspect it after a run.
func (d *Driver) Population() *population.Population { return d.pop }

// emptyIndividual allocates a K-route individual with every client
// unassigned, ready for GreedyInsert.
func (d *Driver) emptyIndividual() *indiv.Individual {
	ind := &indiv.Individual{
		Routes:      make([]*indiv.Route, d.k),
		ClientRoute: make([]int, d.inst.N+1),
	}
	for i := range ind.ClientRoute {
		ind.ClientRoute[i] = -1
	}
	for i := range ind.Routes {
		ind.Routes[i] = indiv.NewRoute()
	}
	return ind
}

// randomIndividual builds one individual by inserting every client, in a
// random order, at its cheapest slot under the current penalty weights
// (spec.md §4.8 "initialize population"). The random insertion order makes
// some seeds feasible and others not, populating both sub-populations.
func (d *Driver) randomIndividual() *indiv.Individual {
	ind := d.emptyIndividual()
	lambdaCap, lambdaTW := d.pen.Weights()
	order := xrand.PermRange(d.inst.N, d.rng)
	for _, idx := range order {
		crossover.GreedyInsert(d.inst, ind, idx+1, lambdaCap, lambdaTW)
	}
	return ind
}

// Seed populates the population with 4*Mu random-greedy individuals, unless
// it already holds members (idempotent across repeated Run calls within one
// rollout epoch).
func (d *Driver) Seed() {
	if d.pop.Feasible.Size()+d.pop.Infeasible.Size() > 0 {
		return
	}
	target := 4 * d.cfg.Population.Mu
	for i := 0; i < target; i++ {
		d.pop.Insert(d.randomIndividual())
	}
	d.log.Debug("seeded population", "feasible", d.pop.Feasible.Size(), "infeasible", d.pop.Infeasible.Size())
}

// localSearchCtx builds a fresh localsearch.Context reflecting the penalty
// manager's current weights (spec.md §4.5: weights change between calls, so
// the context is rebuilt rather than cached).
func (d *Driver) localSearchCtx(lambdaCap, lambdaTW int64) *localsearch.Context {
	return localsearch.New(d.inst, d.neigh, lambdaCap, lambdaTW, d.cfg.LocalSearch)
}

// iterate runs exactly one GA generation: select two parents, produce one
// child by a uniformly chosen crossover operator, run local search, and
// probabilistically repair and reinsert (spec.md §4.8).
func (d *Driver) iterate() {
	p1, p2 := d.pop.SelectParentsBiased(d.rng, d.cfg.SelectProbability)
	if p1 == nil || p2 == nil {
		d.pop.Insert(d.randomIndividual())
		return
	}

	lambdaCap, lambdaTW := d.pen.Weights()
	var child *indiv.Individual
	if d.rng.Intn(2) == 0 {
		child = crossover.SREX(d.inst, p1, p2, d.rng, d.cfg.Crossover, lambdaCap, lambdaTW)
	} else {
		child = crossover.BPX(d.inst, p1, d.rng, d.cfg.Crossover, lambdaCap, lambdaTW)
	}

	d.localSearchCtx(lambdaCap, lambdaTW).Run(child, d.rng)

	if !child.Feasible() && d.rng.Float64() < d.pen.RepairProbability() {
		boostCap, boostTW := d.pen.Boosted()
		d.localSearchCtx(boostCap, boostTW).Run(child, d.rng)
	}

	d.pop.Insert(child)
	d.pen.OnNewOffspring(child.CapacityExcess, child.TimeWarp)
	d.pop.RefreshWeights(d.pen.Weights())

	if d.pop.ShouldRestart() {
		d.log.Debug("restarting population", "bestCost", d.bestCostOrZero())
		d.pop.Restart()
		d.Seed()
	}
}

func (d *Driver) bestCostOrZero() int64 {
	if best := d.pop.BestFeasible(); best != nil {
		lambdaCap, lambdaTW := d.pen.Weights()
		return best.Cost(lambdaCap, lambdaTW)
	}
	return 0
}

// Run executes the main loop until the configured stopping criterion fires
// or ctx is done, returning the best feasible individual found (or
// hgserr.Infeasible if none ever was).
func (d *Driver) Run(ctx context.Context) (*indiv.Individual, error) {
	d.Seed()

	deadline := time.Time{}
	if d.cfg.MaxRuntime > 0 {
		deadline = time.Now().Add(d.cfg.MaxRuntime)
	}

	iterations := 0
	for {
		select {
		case <-ctx.Done():
			return d.finish()
		default:
		}
		if d.cfg.MaxIterations > 0 && iterations >= d.cfg.MaxIterations {
			return d.finish()
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return d.finish()
		}
		d.iterate()
		iterations++
	}
}

func (d *Driver) finish() (*indiv.Individual, error) {
	best := d.pop.BestFeasible()
	if best == nil {
		return nil, hgserr.Infeasible
	}
	return best, nil
}
