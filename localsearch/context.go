// Package localsearch implements the granular neighbourhood local search
// (spec.md §4.4, §4.5): a first-improvement descent over a fixed menu of
// node operators (Exchange(1,0)/(1,1)/(2,0)/(2,0)-rev/(2,1)/(2,2), 2-opt,
// 2-opt*) and route operators (RelocateStar, SwapStar), scanned in a
// random client permutation order until no operator improves any client,
// adapted from the teacher's tsp/two_opt.go first-improvement scan.
package localsearch

import (
	"math"

	"github.com/katalvlaran/hgs-vrptw/indiv"
	"github.com/katalvlaran/hgs-vrptw/instance"
	"github.com/katalvlaran/hgs-vrptw/neighbour"
)

// Params configures the LS loop (spec.md §4.5, §6 "shouldIntensify,
// circleSectorOverlapTolerance, minCircleSectorSize, postProcessPathLength").
type Params struct {
	// MinRouteOverlapSize is the smaller-route size at or below which the
	// circle-sector route-pair filter is skipped (both routes are cheap
	// enough to always compare); spec.md §6's minCircleSectorSize.
	MinRouteOverlapSize int

	// CircleSectorOverlapTolerance widens each route's angular span by this
	// many radians before testing overlap, trading a few unnecessary
	// cross-route comparisons for fewer missed improving moves near a
	// span's edge.
	CircleSectorOverlapTolerance float64

	// ShouldIntensify gates the two route operators (RelocateStar,
	// SwapStar): when false, sweepClient only tries the cheaper node
	// operators, trading solution quality for speed.
	ShouldIntensify bool

	// PostProcessPathLength is the longest contiguous sub-segment
	// PostProcess will try reversing in a final compaction pass once the
	// main descent has converged. 0 disables the pass.
	PostProcessPathLength int
}

// DefaultParams returns the reference parameterization.
func DefaultParams() Params {
	return Params{
		MinRouteOverlapSize:          4,
		CircleSectorOverlapTolerance: 0,
		ShouldIntensify:              true,
		PostProcessPathLength:        0,
	}
}

// Context bundles the read-only data every operator needs: the instance,
// the granular neighbour lists, and the current penalty weights (which
// change between GA iterations, so Context is rebuilt/refreshed per call
// rather than cached on the Individual).
type Context struct {
	Inst      *instance.Instance
	Neigh     *neighbour.Lists
	LambdaCap int64
	LambdaTW  int64
	Params    Params
}

// New constructs a Context.
func New(inst *instance.Instance, neigh *neighbour.Lists, lambdaCap, lambdaTW int64, params Params) *Context {
	return &Context{Inst: inst, Neigh: neigh, LambdaCap: lambdaCap, LambdaTW: lambdaTW, Params: params}
}

// routeCost returns a route's own contribution to the penalized individual
// cost (its distance plus its own capacity excess and time-warp charges).
// Valid for comparing two versions of the SAME single route in isolation
// (same-route moves never change any other route's cost).
func (ctx *Context) routeCost(rt *indiv.Route) int64 {
	var capExcess int64
	if rt.Load > ctx.Inst.Capacity {
		capExcess = rt.Load - ctx.Inst.Capacity
	}
	return rt.Distance + ctx.LambdaCap*capExcess + ctx.LambdaTW*rt.TimeWarp
}

// worthComparing is the circle-sector route-pair filter (spec.md §4.5):
// skip a cross-route move between two routes whose angular spans around
// the depot (as seen from Coord, when the instance carries coordinates)
// don't overlap, unless either route is small enough that the filter
// isn't worth the arctangent calls.
func (ctx *Context) worthComparing(a, b *indiv.Route) bool {
	if ctx.Inst.Coord == nil {
		return true
	}
	if len(a.Clients) <= ctx.Params.MinRouteOverlapSize || len(b.Clients) <= ctx.Params.MinRouteOverlapSize {
		return true
	}
	aLo, aHi := angularSpan(ctx.Inst, a.Clients)
	bLo, bHi := angularSpan(ctx.Inst, b.Clients)
	tol := ctx.Params.CircleSectorOverlapTolerance
	return spansOverlap(aLo-tol, aHi+tol, bLo-tol, bHi+tol)
}

// angularSpan returns the [min,max] polar angle (radians, depot-centred) of
// a route's clients.
func angularSpan(inst *instance.Instance, clients []int) (float64, float64) {
	lo, hi := math.Pi, -math.Pi
	dx0, dy0 := float64(inst.Coord[instance.Depot][0]), float64(inst.Coord[instance.Depot][1])
	for _, c := range clients {
		x, y := float64(inst.Coord[c][0])-dx0, float64(inst.Coord[c][1])-dy0
		theta := math.Atan2(y, x)
		if theta < lo {
			lo = theta
		}
		if theta > hi {
			hi = theta
		}
	}
	return lo, hi
}

// spansOverlap reports whether two angular ranges (in radians, each within
// [-pi,pi]) intersect, accounting for the wraparound at +/-pi by also
// testing b shifted a full turn in either direction.
func spansOverlap(aLo, aHi, bLo, bHi float64) bool {
	const twoPi = 2 * math.Pi
	overlaps := func(lo, hi float64) bool { return aLo <= hi && lo <= aHi }
	return overlaps(bLo, bHi) || overlaps(bLo+twoPi, bHi+twoPi) || overlaps(bLo-twoPi, bHi-twoPi)
}
