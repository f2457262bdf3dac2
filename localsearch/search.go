package localsearch

import (
	"math/rand"

	"github.com/katalvlaran/hgs-vrptw/indiv"
	"github.com/katalvlaran/hgs-vrptw/xrand"
)

// Run applies the full local search descent to ind in place: clients are
// visited in a random permutation order, and for each client u the operator
// menu is tried in a fixed order against every granular neighbour v of u,
// first-improvement, repeating the whole sweep until a complete pass finds
// no improving move anywhere (spec.md §4.5). Mirrors the teacher's
// tsp/two_opt.go scan-until-no-improvement structure.
//
// Complexity: O(passes * n * g) operator evaluations.
func (ctx *Context) Run(ind *indiv.Individual, rng *rand.Rand) {
	n := ctx.Inst.N
	for {
		improvedAny := false
		order := xrand.PermRange(n, rng)
		for _, u0 := range order {
			u := u0 + 1 // PermRange is 0-based; clients are 1..n
			if ctx.sweepClient(ind, u) {
				improvedAny = true
			}
		}
		if !improvedAny {
			break
		}
	}
	if ctx.Params.PostProcessPathLength >= 2 {
		ctx.PostProcess(ind)
	}
}

// sweepClient tries every operator against every granular neighbour of u,
// applying (and stopping at) the first improving move found.
func (ctx *Context) sweepClient(ind *indiv.Individual, u int) bool {
	if ind.ClientRoute[u] < 0 {
		return false
	}
	improved := false
	for _, v := range ctx.Neigh.Of(u) {
		if ind.ClientRoute[v] < 0 {
			continue
		}
		switch {
		case ctx.tryRelocateSegment(ind, u, 1, v, false): // Exchange(1,0)
		case ctx.trySwapSegments(ind, u, 1, v, 1): // Exchange(1,1)
		case ctx.tryRelocateSegment(ind, u, 2, v, false): // Exchange(2,0)
		case ctx.tryRelocateSegment(ind, u, 2, v, true): // Exchange(2,0)-rev
		case ctx.trySwapSegments(ind, u, 2, v, 1): // Exchange(2,1)
		case ctx.trySwapSegments(ind, u, 2, v, 2): // Exchange(2,2)
		case ctx.tryTwoOpt(ind, u, v):
		case ctx.tryTwoOptStar(ind, u, v):
		default:
			continue
		}
		improved = true
	}
	if ctx.Params.ShouldIntensify {
		if ctx.RelocateStar(ind, u) {
			improved = true
		}
		if ctx.SwapStar(ind, u) {
			improved = true
		}
	}
	return improved
}
