package localsearch

import (
	"github.com/katalvlaran/hgs-vrptw/indiv"
	"github.com/katalvlaran/hgs-vrptw/instance"
)

// removeAt returns a copy of clients with the length-L run starting at pos
// removed.
func removeAt(clients []int, pos, length int) []int {
	out := make([]int, 0, len(clients)-length)
	out = append(out, clients[:pos]...)
	out = append(out, clients[pos+length:]...)
	return out
}

// insertAt returns a copy of clients with seg spliced in before index pos.
func insertAt(clients []int, pos int, seg []int) []int {
	out := make([]int, 0, len(clients)+len(seg))
	out = append(out, clients[:pos]...)
	out = append(out, seg...)
	out = append(out, clients[pos:]...)
	return out
}

// reversedCopy returns seg's elements in reverse order.
func reversedCopy(seg []int) []int {
	out := make([]int, len(seg))
	for i, c := range seg {
		out[len(seg)-1-i] = c
	}
	return out
}

// demandSum sums Demand over clients.
func demandSum(inst *instance.Instance, clients []int) int64 {
	var s int64
	for _, c := range clients {
		s += inst.Demand[c]
	}
	return s
}

// capExcessDelta returns the change in capacity-excess penalty when a
// route's load changes from oldLoad to newLoad.
func capExcessDelta(inst *instance.Instance, oldLoad, newLoad int64) int64 {
	var oldExcess, newExcess int64
	if oldLoad > inst.Capacity {
		oldExcess = oldLoad - inst.Capacity
	}
	if newLoad > inst.Capacity {
		newExcess = newLoad - inst.Capacity
	}
	return newExcess - oldExcess
}

// removalDistDelta returns the distance change from removing the length-L
// run starting at pos from clients (the two edges touching the run
// collapse into one edge joining its former neighbours).
//
// Complexity: O(length).
func removalDistDelta(inst *instance.Instance, clients []int, pos, length int) int64 {
	prev := instance.Depot
	if pos > 0 {
		prev = clients[pos-1]
	}
	next := instance.Depot
	if pos+length < len(clients) {
		next = clients[pos+length]
	}
	var removed int64
	last := prev
	for i := pos; i < pos+length; i++ {
		removed += inst.Dist.MustAt(last, clients[i])
		last = clients[i]
	}
	removed += inst.Dist.MustAt(last, next)
	added := inst.Dist.MustAt(prev, next)
	return added - removed
}

// insertionDistDelta returns the distance change from splicing seg into
// clients before index pos.
//
// Complexity: O(len(seg)).
func insertionDistDelta(inst *instance.Instance, clients []int, pos int, seg []int) int64 {
	prev := instance.Depot
	if pos > 0 {
		prev = clients[pos-1]
	}
	next := instance.Depot
	if pos < len(clients) {
		next = clients[pos]
	}
	removed := inst.Dist.MustAt(prev, next)
	var added int64
	last := prev
	for _, c := range seg {
		added += inst.Dist.MustAt(last, c)
		last = c
	}
	added += inst.Dist.MustAt(last, next)
	return added - removed
}

// applyRelocateCross moves the length-L segment at posA in route rA to just
// before posB in the DIFFERENT route rB, oriented as seg (already reversed
// by the caller if required), and refreshes both routes' caches.
func applyRelocateCross(ind *indiv.Individual, inst *instance.Instance, rA, posA, length, rB, posB int, seg []int) {
	a := ind.Routes[rA]
	b := ind.Routes[rB]
	a.Clients = removeAt(a.Clients, posA, length)
	b.Clients = insertAt(b.Clients, posB, seg)
	for _, c := range seg {
		ind.ClientRoute[c] = rB
	}
	ind.RecomputeRoute(inst, rA)
	ind.RecomputeRoute(inst, rB)
}

// applyRelocateSame moves the length-L segment at posA to just before posB
// within the SAME route r, oriented as seg.
func applyRelocateSame(ind *indiv.Individual, inst *instance.Instance, r, posA, length, posB int, seg []int) {
	rt := ind.Routes[r]
	rest := removeAt(rt.Clients, posA, length)
	insertPos := posB
	if posB > posA {
		insertPos -= length
	}
	rt.Clients = insertAt(rest, insertPos, seg)
	ind.RecomputeRoute(inst, r)
}
