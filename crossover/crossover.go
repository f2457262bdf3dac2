// Package crossover implements the two offspring constructors (spec.md
// §4.6): Selective Route Exchange (SREX) and Broken Pairs Exchange (BPX).
// Both combine two parent Individuals into one child, and are fail-safe:
// if greedy repair cannot restore feasibility they still emit a valid (if
// infeasible) child — every client appears exactly once, never zero or
// twice.
package crossover

import (
	"math/rand"

	"github.com/katalvlaran/hgs-vrptw/indiv"
	"github.com/katalvlaran/hgs-vrptw/instance"
)

// Config holds the crossover knobs (spec.md §4.6, SPEC_FULL.md §D).
type Config struct {
	SREXMinBlock int // minimum contiguous route-block size SREX may draw
	SREXMaxBlock int // maximum contiguous route-block size SREX may draw
	BPXFraction  float64 // fraction of clients BPX removes from parent A and reinserts
}

// DefaultConfig returns the reference parameterization.
func DefaultConfig() Config {
	return Config{SREXMinBlock: 1, SREXMaxBlock: 3, BPXFraction: 0.1}
}

// GreedyInsert inserts client c into ind at the position (any route, any
// slot, optionally a fresh empty route) minimizing the penalized insertion
// cost, as both SREX's and BPX's repair step require (spec.md §4.6). Also
// used by the GA driver to build randomized-greedy initial individuals
// (spec.md §4.8 "initialize population").
//
// Complexity: O(K * k) where k is the longest route's length.
func GreedyInsert(inst *instance.Instance, ind *indiv.Individual, c int, lambdaCap, lambdaTW int64) {
	bestRoute, bestPos := -1, -1
	bestDelta := int64(0)
	first := true

	for r, rt := range ind.Routes {
		for pos := 0; pos <= len(rt.Clients); pos++ {
			delta := insertionDelta(inst, rt, pos, c, lambdaCap, lambdaTW)
			if first || delta < bestDelta {
				bestDelta = delta
				bestRoute, bestPos = r, pos
				first = false
			}
		}
	}

	rt := ind.Routes[bestRoute]
	next := make([]int, 0, len(rt.Clients)+1)
	next = append(next, rt.Clients[:bestPos]...)
	next = append(next, c)
	next = append(next, rt.Clients[bestPos:]...)
	rt.Clients = next
	ind.ClientRoute[c] = bestRoute
	ind.RecomputeRoute(inst, bestRoute)
}

// insertionDelta previews the penalized-cost change of inserting c at pos
// in rt, using the route's cached Prefix/Suffix TWData so the scan over
// every candidate slot stays O(1) per slot.
func insertionDelta(inst *instance.Instance, rt *indiv.Route, pos int, c int, lambdaCap, lambdaTW int64) int64 {
	prev := instance.Depot
	if pos > 0 {
		prev = rt.Clients[pos-1]
	}
	next := instance.Depot
	if pos < len(rt.Clients) {
		next = rt.Clients[pos]
	}
	distDelta := inst.Dist.MustAt(prev, c) + inst.Dist.MustAt(c, next) - inst.Dist.MustAt(prev, next)

	newWarp := rt.EvalConcat3(inst, pos, indiv.NodeTW(inst, c), pos).Warp
	warpDelta := newWarp - rt.TimeWarp

	newLoad := rt.Load + inst.Demand[c]
	var oldExcess, newExcess int64
	if rt.Load > inst.Capacity {
		oldExcess = rt.Load - inst.Capacity
	}
	if newLoad > inst.Capacity {
		newExcess = newLoad - inst.Capacity
	}
	capDelta := newExcess - oldExcess

	return distDelta + lambdaCap*capDelta + lambdaTW*warpDelta
}

// shuffledIndices returns a random permutation of 0..n-1.
func shuffledIndices(n int, rng *rand.Rand) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	return idx
}
