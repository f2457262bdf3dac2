package population

import (
	"math/rand"

	"github.com/katalvlaran/hgs-vrptw/indiv"
	"github.com/katalvlaran/hgs-vrptw/instance"
)

// Population owns the two sub-populations and the best-feasible-so-far
// tracking that drives restarts (spec.md §4.7).
type Population struct {
	Feasible   *SubPopulation
	Infeasible *SubPopulation

	cfg  Config
	inst *instance.Instance

	lambdaCap, lambdaTW int64

	best             *indiv.Individual
	bestCost         int64
	iterSinceImprove int
}

// New constructs an empty Population. lambdaCap/lambdaTW are the penalty
// weights current at construction time; callers must call RefreshWeights
// when the penalty manager adapts them, since cached member costs would
// otherwise go stale.
func New(inst *instance.Instance, cfg Config, lambdaCap, lambdaTW int64) (*Population, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Population{
		Feasible:   newSubPopulation(),
		Infeasible: newSubPopulation(),
		cfg:        cfg,
		inst:       inst,
		lambdaCap:  lambdaCap,
		lambdaTW:   lambdaTW,
	}, nil
}

// RefreshWeights updates the penalty weights used to cost newly inserted
// individuals (existing members keep their memoized cost until re-inserted,
// matching the teacher's "cache refreshed lazily" convention).
func (p *Population) RefreshWeights(lambdaCap, lambdaTW int64) {
	p.lambdaCap, p.lambdaTW = lambdaCap, lambdaTW
}

// Insert routes ind into the feasible or infeasible sub-population based on
// ind.Feasible(), rejecting exact giant-tour duplicates, shrinking the
// target sub-population back to Mu if it now exceeds Mu+Lambda, and
// updating the best-feasible tracker.
func (p *Population) Insert(ind *indiv.Individual) bool {
	cost := ind.Cost(p.lambdaCap, p.lambdaTW)
	sp := p.Infeasible
	if ind.Feasible() {
		sp = p.Feasible
	}
	if !sp.Insert(ind, cost) {
		return false
	}
	if sp.Size() > p.cfg.Mu+p.cfg.Lambda {
		p.shrink(sp)
	}
	if ind.Feasible() && (p.best == nil || cost < p.bestCost) {
		p.best = ind
		p.bestCost = cost
		p.iterSinceImprove = 0
	} else {
		p.iterSinceImprove++
	}
	return true
}

// shrink removes the worst-by-fitness member of sp, repeatedly, until its
// size returns to Mu.
func (p *Population) shrink(sp *SubPopulation) {
	for sp.Size() > p.cfg.Mu {
		fit := fitness(p.inst, sp.members, p.cfg.NbElite, p.cfg.NbClose)
		worst := 0
		for i := 1; i < len(fit); i++ {
			if fit[i] > fit[worst] {
				worst = i
			}
		}
		sp.removeAt(worst)
	}
}

// tournament runs one binary tournament by fitness within sp: with
// probability selectProbability it returns the fitter of the two draws,
// otherwise the other one (spec.md §4.7 allows a non-deterministic
// tournament; selectProbability=1 recovers "always fitter").
func (p *Population) tournament(sp *SubPopulation, rng *rand.Rand, selectProbability float64) *indiv.Individual {
	n := sp.Size()
	if n == 0 {
		return nil
	}
	if n == 1 {
		return sp.members[0].ind
	}
	fit := fitness(p.inst, sp.members, p.cfg.NbElite, p.cfg.NbClose)
	i, j := rng.Intn(n), rng.Intn(n)
	for j == i {
		j = rng.Intn(n)
	}
	fitter, other := i, j
	if fit[j] < fit[i] {
		fitter, other = j, i
	}
	if rng.Float64() < selectProbability {
		return sp.members[fitter].ind
	}
	return sp.members[other].ind
}

// SelectParents runs two independent, always-take-the-fitter binary
// tournaments over the union of both sub-populations (spec.md §4.7 "Parent
// selection"). Equivalent to SelectParentsBiased(rng, 1).
func (p *Population) SelectParents(rng *rand.Rand) (*indiv.Individual, *indiv.Individual) {
	return p.SelectParentsBiased(rng, 1)
}

// SelectParentsBiased is SelectParents with a configurable probability of
// the tournament returning the fitter draw (spec.md §6 "selectProbability").
func (p *Population) SelectParentsBiased(rng *rand.Rand, selectProbability float64) (*indiv.Individual, *indiv.Individual) {
	pool := p.pooledSubPopulation()
	return p.tournament(pool, rng, selectProbability), p.tournament(pool, rng, selectProbability)
}

// pooledSubPopulation builds a throwaway SubPopulation view over every
// member of both real sub-populations, used only to run a tournament
// across the combined pool without merging the real pools' dedup state.
func (p *Population) pooledSubPopulation() *SubPopulation {
	pool := &SubPopulation{}
	pool.members = append(pool.members, p.Feasible.members...)
	pool.members = append(pool.members, p.Infeasible.members...)
	return pool
}

// BestFeasible returns the best feasible individual found so far, or nil if
// none has been inserted yet.
func (p *Population) BestFeasible() *indiv.Individual { return p.best }

// ShouldRestart reports whether NbIterNoImprove iterations have passed
// since the last feasible improvement (spec.md §4.7 "Restart").
func (p *Population) ShouldRestart() bool {
	return p.iterSinceImprove >= p.cfg.NbIterNoImprove
}

// Restart clears both sub-populations, keeping each one's NbKeepOnRestart
// best-by-cost elites, and resets the no-improvement counter.
func (p *Population) Restart() {
	p.Feasible.clear(p.cfg.NbKeepOnRestart)
	p.Infeasible.clear(p.cfg.NbKeepOnRestart)
	p.iterSinceImprove = 0
}
