package localsearch

import "github.com/katalvlaran/hgs-vrptw/indiv"

// PostProcess runs a final compaction pass over every route once the main
// descent has converged: for each contiguous sub-segment of length 2..
// Params.PostProcessPathLength, it tries reversing the segment in place and
// keeps the reversal only if it lowers the route's own cost. Unlike the
// main descent's 2-opt (which considers segments bounded by a granular
// neighbour pair), this sweep is neighbour-agnostic and exhaustive over
// short segments, catching the rare improving reversal the neighbour lists
// never proposed.
//
// Complexity: O(routes * route_length * PostProcessPathLength).
func (ctx *Context) PostProcess(ind *indiv.Individual) {
	maxLen := ctx.Params.PostProcessPathLength
	for r, rt := range ind.Routes {
		n := len(rt.Clients)
		if n < 2 {
			continue
		}
		for length := 2; length <= maxLen && length <= n; length++ {
			for pos := 0; pos+length <= n; pos++ {
				ctx.tryReverseSegment(ind, r, pos, length)
			}
		}
	}
}

// tryReverseSegment reverses rt.Clients[pos:pos+length] in place, keeping
// the change only if it lowers the route's own cost.
func (ctx *Context) tryReverseSegment(ind *indiv.Individual, r, pos, length int) bool {
	rt := ind.Routes[r]
	before := ctx.routeCost(rt)
	orig := append([]int(nil), rt.Clients...)

	seg := reversedCopy(rt.Clients[pos : pos+length])
	next := append([]int(nil), rt.Clients[:pos]...)
	next = append(next, seg...)
	next = append(next, rt.Clients[pos+length:]...)
	rt.Clients = next
	ind.RecomputeRoute(ctx.Inst, r)

	if ctx.routeCost(rt) < before {
		return true
	}
	rt.Clients = orig
	ind.RecomputeRoute(ctx.Inst, r)
	return false
}
