package localsearch

import (
	"github.com/katalvlaran/hgs-vrptw/indiv"
)

// RelocateStar moves client u out of its current route and reinserts it at
// the best position among every candidate edge adjacent to one of u's
// granular neighbours (spec.md §4.4's route operator table): unlike
// Exchange(1,0), which stops at the first improving neighbour, RelocateStar
// evaluates the whole neighbourhood and applies only the best move found.
//
// Complexity: O(g) candidate evaluations, each O(1); neighbours in u's own
// route are skipped.
func (ctx *Context) RelocateStar(ind *indiv.Individual, u int) bool {
	rA := ind.ClientRoute[u]
	a := ind.Routes[rA]
	posA := a.IndexOf(u)
	if posA < 0 {
		return false
	}
	seg := []int{u}

	bestDelta := int64(0)
	bestApply := func() {}
	found := false

	for _, v := range ctx.Neigh.Of(u) {
		rB := ind.ClientRoute[v]
		b := ind.Routes[rB]
		posV := b.IndexOf(v)
		if posV < 0 {
			continue
		}
		if rA == rB {
			continue // same-route reinsertion is Exchange(1,0)'s job; RelocateStar only searches cross-route.
		}
		if !ctx.worthComparing(a, b) {
			continue
		}
		for _, posB := range [2]int{posV, posV + 1} {
			delta := ctx.relocateDeltaPreview(ind, rA, posA, 1, rB, posB, seg)
			if delta < bestDelta {
				bestDelta = delta
				found = true
				rBCopy, posBCopy := rB, posB
				bestApply = func() {
					applyRelocateCross(ind, ctx.Inst, rA, posA, 1, rBCopy, posBCopy, seg)
				}
			}
		}
	}
	if !found {
		return false
	}
	bestApply()
	return true
}

// relocateDeltaPreview is tryRelocateCrossRoute's delta computation without
// the apply step, used by RelocateStar to compare several candidates before
// committing to the best one.
func (ctx *Context) relocateDeltaPreview(ind *indiv.Individual, rA, posA, length, rB, posB int, seg []int) int64 {
	inst := ctx.Inst
	a := ind.Routes[rA]
	b := ind.Routes[rB]

	distDelta := removalDistDelta(inst, a.Clients, posA, length) + insertionDistDelta(inst, b.Clients, posB, seg)
	warpDeltaA := a.EvalTimeWarp(inst, posA, posA+length) - a.TimeWarp
	segTW := indiv.SegmentTW(inst, seg)
	warpDeltaB := b.EvalConcat3(inst, posB, segTW, posB).Warp - b.TimeWarp

	segDemand := demandSum(inst, seg)
	capDeltaA := capExcessDelta(inst, a.Load, a.Load-segDemand)
	capDeltaB := capExcessDelta(inst, b.Load, b.Load+segDemand)

	return distDelta + ctx.LambdaCap*(capDeltaA+capDeltaB) + ctx.LambdaTW*(warpDeltaA+warpDeltaB)
}

// SwapStar exchanges client u with the first of u's granular neighbours v,
// in a different route that passes the circle-sector filter, for which an
// in-place swap (u takes v's old position and v takes u's) lowers the
// penalized cost, and applies that swap. Other reinsertion positions for
// u and v are not evaluated, and the scan stops at the first improving
// partner rather than the best one. Both clients must be in different
// routes; same-route swaps are Exchange(1,1)'s job.
func (ctx *Context) SwapStar(ind *indiv.Individual, u int) bool {
	rA := ind.ClientRoute[u]
	a := ind.Routes[rA]
	for _, v := range ctx.Neigh.Of(u) {
		rB := ind.ClientRoute[v]
		if rB == rA {
			continue
		}
		b := ind.Routes[rB]
		if !ctx.worthComparing(a, b) {
			continue
		}
		if ctx.trySwapSegments(ind, u, 1, v, 1) {
			return true
		}
	}
	return false
}
