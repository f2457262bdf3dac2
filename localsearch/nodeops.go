package localsearch

import (
	"github.com/katalvlaran/hgs-vrptw/indiv"
	"github.com/katalvlaran/hgs-vrptw/instance"
)

// tryRelocateSegment is the shared implementation of Exchange(1,0),
// Exchange(2,0) and Exchange(2,0)-rev (spec.md §4.4's node operator table):
// move the length-L run of clients starting at u to just before or just
// after v, optionally reversed. First improving placement wins.
//
// Cross-route candidates are screened in O(1) via the route's Prefix/Suffix
// TWData (spec.md §4.4's "Evaluation contract"); same-route candidates,
// where removing and reinserting inside one route makes the prefix/suffix
// indices shift under each other, fall back to an apply-then-compare trial
// (still exact, just O(k) instead of O(1)).
func (ctx *Context) tryRelocateSegment(ind *indiv.Individual, u, length, v int, rev bool) bool {
	rA := ind.ClientRoute[u]
	a := ind.Routes[rA]
	posA := a.IndexOf(u)
	if posA < 0 || posA+length > len(a.Clients) {
		return false
	}
	seg := append([]int(nil), a.Clients[posA:posA+length]...)
	if rev {
		seg = reversedCopy(seg)
	}

	rB := ind.ClientRoute[v]
	b := ind.Routes[rB]
	posV := b.IndexOf(v)
	if posV < 0 {
		return false
	}

	for _, posB := range [2]int{posV, posV + 1} {
		if rA == rB {
			if posB >= posA && posB <= posA+length {
				continue // no-op or inside the segment being moved
			}
			if ctx.tryRelocateSameRoute(ind, rA, posA, length, posB, seg) {
				return true
			}
		} else {
			if ctx.tryRelocateCrossRoute(ind, rA, posA, length, rB, posB, seg) {
				return true
			}
		}
	}
	return false
}

// tryRelocateCrossRoute evaluates and, if improving, applies relocating seg
// from rA into rB.
//
// Complexity: O(1).
func (ctx *Context) tryRelocateCrossRoute(ind *indiv.Individual, rA, posA, length, rB, posB int, seg []int) bool {
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

	delta := distDelta + ctx.LambdaCap*(capDeltaA+capDeltaB) + ctx.LambdaTW*(warpDeltaA+warpDeltaB)
	if delta >= 0 {
		return false
	}
	applyRelocateCross(ind, inst, rA, posA, length, rB, posB, seg)
	return true
}

// tryRelocateSameRoute evaluates and, if improving, applies relocating seg
// to posB within route r, via apply-then-compare.
//
// Complexity: O(k).
func (ctx *Context) tryRelocateSameRoute(ind *indiv.Individual, r, posA, length, posB int, seg []int) bool {
	rt := ind.Routes[r]
	orig := append([]int(nil), rt.Clients...)
	before := ctx.routeCost(rt)

	applyRelocateSame(ind, ctx.Inst, r, posA, length, posB, seg)
	if ctx.routeCost(rt) < before {
		return true
	}
	rt.Clients = orig
	ind.RecomputeRoute(ctx.Inst, r)
	return false
}

// trySwapSegments is the shared implementation of Exchange(1,1),
// Exchange(2,1) and Exchange(2,2): swap the lenU-client run at u with the
// lenV-client run at v.
func (ctx *Context) trySwapSegments(ind *indiv.Individual, u, lenU, v, lenV int) bool {
	rA := ind.ClientRoute[u]
	a := ind.Routes[rA]
	posA := a.IndexOf(u)
	if posA < 0 || posA+lenU > len(a.Clients) {
		return false
	}

	rB := ind.ClientRoute[v]
	b := ind.Routes[rB]
	posB := b.IndexOf(v)
	if posB < 0 || posB+lenV > len(b.Clients) {
		return false
	}

	if rA == rB {
		if rangesOverlap(posA, posA+lenU, posB, posB+lenV) {
			return false
		}
		return ctx.trySwapSameRoute(ind, rA, posA, lenU, posB, lenV)
	}
	return ctx.trySwapCrossRoute(ind, rA, posA, lenU, rB, posB, lenV)
}

func rangesOverlap(aLo, aHi, bLo, bHi int) bool { return aLo < bHi && bLo < aHi }

// trySwapCrossRoute evaluates and, if improving, applies exchanging the two
// segments between different routes.
//
// Complexity: O(k) (the distance delta is taken on copies of both routes
// with their segment removed); the time-warp screening is O(1).
func (ctx *Context) trySwapCrossRoute(ind *indiv.Individual, rA, posA, lenU, rB, posB, lenV int) bool {
	inst := ctx.Inst
	a := ind.Routes[rA]
	b := ind.Routes[rB]
	segU := append([]int(nil), a.Clients[posA:posA+lenU]...)
	segV := append([]int(nil), b.Clients[posB:posB+lenV]...)
	restA := removeAt(a.Clients, posA, lenU)
	restB := removeAt(b.Clients, posB, lenV)

	distDelta := removalDistDelta(inst, a.Clients, posA, lenU) + insertionDistDelta(inst, restA, posA, segV) +
		removalDistDelta(inst, b.Clients, posB, lenV) + insertionDistDelta(inst, restB, posB, segU)

	warpA := a.EvalConcat3(inst, posA, indiv.SegmentTW(inst, segV), posA+lenU).Warp - a.TimeWarp
	warpB := b.EvalConcat3(inst, posB, indiv.SegmentTW(inst, segU), posB+lenV).Warp - b.TimeWarp

	demU, demV := demandSum(inst, segU), demandSum(inst, segV)
	capA := capExcessDelta(inst, a.Load, a.Load-demU+demV)
	capB := capExcessDelta(inst, b.Load, b.Load-demV+demU)

	delta := distDelta + ctx.LambdaCap*(capA+capB) + ctx.LambdaTW*(warpA+warpB)
	if delta >= 0 {
		return false
	}
	a.Clients = insertAt(restA, posA, segV)
	b.Clients = insertAt(restB, posB, segU)
	for _, c := range segV {
		ind.ClientRoute[c] = rA
	}
	for _, c := range segU {
		ind.ClientRoute[c] = rB
	}
	ind.RecomputeRoute(inst, rA)
	ind.RecomputeRoute(inst, rB)
	return true
}

// trySwapSameRoute evaluates and, if improving, applies exchanging the two
// segments within a single route, via apply-then-compare.
//
// Complexity: O(k).
func (ctx *Context) trySwapSameRoute(ind *indiv.Individual, r, posA, lenU, posB, lenV int) bool {
	rt := ind.Routes[r]
	orig := append([]int(nil), rt.Clients...)
	before := ctx.routeCost(rt)

	lo, hi := posA, posB
	loLen, hiLen := lenU, lenV
	segAtLo := append([]int(nil), rt.Clients[posA:posA+lenU]...)
	segAtHi := append([]int(nil), rt.Clients[posB:posB+lenV]...)
	if posA > posB {
		lo, hi = posB, posA
		loLen, hiLen = lenV, lenU
		segAtLo, segAtHi = segAtHi, segAtLo
	}
	next := make([]int, 0, len(rt.Clients))
	next = append(next, rt.Clients[:lo]...)
	next = append(next, segAtHi...) // content swaps: far segment's content occupies the near slot
	next = append(next, rt.Clients[lo+loLen:hi]...)
	next = append(next, segAtLo...)
	next = append(next, rt.Clients[hi+hiLen:]...)
	rt.Clients = next
	ind.RecomputeRoute(ctx.Inst, r)
	if ctx.routeCost(rt) < before {
		return true
	}
	rt.Clients = orig
	ind.RecomputeRoute(ctx.Inst, r)
	return false
}

// tryTwoOpt reverses the run of clients from u through v (inclusive) within a
// single route (the classic 2-opt move): edges (prev(u),u) and (v,next(v))
// are replaced by (prev(u),v)...(u,next(v)) with the middle run reversed.
//
// Complexity: O(k) (same-route moves always apply-then-compare here).
func (ctx *Context) tryTwoOpt(ind *indiv.Individual, u, v int) bool {
	r := ind.ClientRoute[u]
	if ind.ClientRoute[v] != r {
		return false
	}
	rt := ind.Routes[r]
	pu := rt.IndexOf(u)
	pv := rt.IndexOf(v)
	if pu < 0 || pv < 0 || pu >= pv {
		return false
	}
	orig := append([]int(nil), rt.Clients...)
	before := ctx.routeCost(rt)

	mid := reversedCopy(rt.Clients[pu : pv+1])
	next := append([]int(nil), rt.Clients[:pu]...)
	next = append(next, mid...)
	next = append(next, rt.Clients[pv+1:]...)
	rt.Clients = next
	ind.RecomputeRoute(ctx.Inst, r)
	if ctx.routeCost(rt) < before {
		return true
	}
	rt.Clients = orig
	ind.RecomputeRoute(ctx.Inst, r)
	return false
}

// tryTwoOptStar is 2-opt across two different routes: it replaces the tail
// of route A (after u) and the tail of route B (after v) with each other,
// i.e. reconnects (u, tail(B)) and (v, tail(A)).
//
// Complexity: O(k) screening (each route's Prefix TWData merged with the
// other route's tail, rebuilt by SegmentTW), O(k) apply.
func (ctx *Context) tryTwoOptStar(ind *indiv.Individual, u, v int) bool {
	rA := ind.ClientRoute[u]
	rB := ind.ClientRoute[v]
	if rA == rB {
		return false
	}
	inst := ctx.Inst
	a := ind.Routes[rA]
	b := ind.Routes[rB]
	pu := a.IndexOf(u)
	pv := b.IndexOf(v)
	if pu < 0 || pv < 0 {
		return false
	}

	tailA := append([]int(nil), a.Clients[pu+1:]...)
	tailB := append([]int(nil), b.Clients[pv+1:]...)

	newA := indiv.MergeTW(inst, a.Prefix[pu+1], tailThenDepot(inst, tailB))
	newB := indiv.MergeTW(inst, b.Prefix[pv+1], tailThenDepot(inst, tailA))

	demA, demB := demandSum(inst, tailA), demandSum(inst, tailB)
	loadA := a.Load - demA + demB
	loadB := b.Load - demB + demA
	capA := capExcessDelta(inst, a.Load, loadA)
	capB := capExcessDelta(inst, b.Load, loadB)

	distDelta := inst.Dist.MustAt(u, firstOrDepot(tailB)) + inst.Dist.MustAt(v, firstOrDepot(tailA)) -
		inst.Dist.MustAt(u, firstOrDepot(tailA)) - inst.Dist.MustAt(v, firstOrDepot(tailB))
	warpDelta := (newA.Warp - a.TimeWarp) + (newB.Warp - b.TimeWarp)

	delta := distDelta + ctx.LambdaCap*(capA+capB) + ctx.LambdaTW*warpDelta
	if delta >= 0 {
		return false
	}
	a.Clients = append(append([]int(nil), a.Clients[:pu+1]...), tailB...)
	b.Clients = append(append([]int(nil), b.Clients[:pv+1]...), tailA...)
	for _, c := range tailB {
		ind.ClientRoute[c] = rA
	}
	for _, c := range tailA {
		ind.ClientRoute[c] = rB
	}
	ind.RecomputeRoute(inst, rA)
	ind.RecomputeRoute(inst, rB)
	return true
}

// tailThenDepot returns the TWData of tail concatenated with the depot
// return leg, or the bare depot segment if tail is empty.
func tailThenDepot(inst *instance.Instance, tail []int) indiv.TWData {
	depotSeg := indiv.NodeTW(inst, instance.Depot)
	if len(tail) == 0 {
		return depotSeg
	}
	return indiv.MergeTW(inst, indiv.SegmentTW(inst, tail), depotSeg)
}

func firstOrDepot(seg []int) int {
	if len(seg) == 0 {
		return 0
	}
	return seg[0]
}
