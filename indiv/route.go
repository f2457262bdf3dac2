// Package indiv implements the Individual (spec.md §3, §4.2): a candidate
// VRPTW solution as a fixed-size arena of routes plus a client->route index,
// with cached cost components maintained incrementally.
package indiv

import "github.com/katalvlaran/hgs-vrptw/instance"

// Route is one vehicle's ordered sequence of client indices (depot implicit
// at both ends). Clients is the only independently-owned state; every other
// field is a cache recomputed by Recompute.
type Route struct {
	Clients []int // client location indices, depot implicit at both ends

	Load     int64 // sum of demand over Clients
	Distance int64 // sum of d[prev,next] including both depot arcs
	TimeWarp int64 // total time-warp relaxation amount (spec.md §3)
	Release  int64 // max release time over Clients
	Feasible bool  // Load <= Capacity && TimeWarp == 0

	// Prefix[i] is the TWData of Clients[0:i] concatenated with the depot
	// departure (i.e. the route up to and including stop i-1); Suffix[i] is
	// the TWData of Clients[i:] concatenated with the depot return. Both are
	// rebuilt by Recompute and used by local search to evaluate candidate
	// moves in O(1) without mutating the route (spec.md §4.4).
	Prefix []TWData // length len(Clients)+1; Prefix[0] is the depot-only segment
	Suffix []TWData // length len(Clients)+1; Suffix[len(Clients)] is the depot-only segment
}

// NewRoute constructs an empty route. Use Recompute after populating
// Clients directly, or use SetClients.
func NewRoute() *Route {
	return &Route{Prefix: []TWData{{}}, Suffix: []TWData{{}}}
}

// SetClients replaces the route's client sequence and recomputes all caches.
//
// Complexity: O(k).
func (rt *Route) SetClients(inst *instance.Instance, clients []int) {
	rt.Clients = clients
	rt.Recompute(inst)
}

// Empty reports whether the route visits no clients.
func (rt *Route) Empty() bool { return len(rt.Clients) == 0 }

// Recompute is the ground truth: it greedily advances time stop by stop from
// the depot, accumulating time warp at each stop (spec.md §8's brute-force
// reference computation), and rebuilds the Prefix/Suffix TWData arrays used
// by local search's O(1) delta evaluation.
//
// Complexity: O(k), k = len(Clients).
func (rt *Route) Recompute(inst *instance.Instance) {
	k := len(rt.Clients)

	// Load and distance (spec.md §3: "load = sum demand", "distance = sum d[prev,next]").
	var load, dist, release int64
	prev := instance.Depot
	for _, c := range rt.Clients {
		load += inst.Demand[c]
		dist += inst.Dist.MustAt(prev, c)
		if r := inst.ReleaseOf(c); r > release {
			release = r
		}
		prev = c
	}
	dist += inst.Dist.MustAt(prev, instance.Depot)

	rt.Load = load
	rt.Distance = dist
	rt.Release = release

	// Greedy forward time simulation with time-warp accumulation.
	var (
		t    int64 // current clock (start-of-service time at the previous stop + its service)
		warp int64
	)
	t = max64(release, inst.Early[instance.Depot])
	prev = instance.Depot
	for _, c := range rt.Clients {
		arrival := t + inst.Dist.MustAt(prev, c)
		start := max64(arrival, inst.Early[c])
		if start > inst.Late[c] {
			warp += start - inst.Late[c]
			start = inst.Late[c]
		}
		t = start + inst.Service[c]
		prev = c
	}
	arrival := t + inst.Dist.MustAt(prev, instance.Depot)
	if arrival > inst.Late[instance.Depot] {
		warp += arrival - inst.Late[instance.Depot]
	}
	rt.TimeWarp = warp
	rt.Feasible = rt.Load <= inst.Capacity && rt.TimeWarp == 0

	rt.rebuildSegments(inst)
}

// rebuildSegments recomputes the Prefix/Suffix TWData arrays from scratch.
//
// Complexity: O(k).
func (rt *Route) rebuildSegments(inst *instance.Instance) {
	k := len(rt.Clients)
	if cap(rt.Prefix) < k+1 {
		rt.Prefix = make([]TWData, k+1)
		rt.Suffix = make([]TWData, k+1)
	} else {
		rt.Prefix = rt.Prefix[:k+1]
		rt.Suffix = rt.Suffix[:k+1]
	}

	depotSeg := nodeTW(inst, instance.Depot)
	rt.Prefix[0] = depotSeg
	for i := 0; i < k; i++ {
		rt.Prefix[i+1] = mergeTW(inst, rt.Prefix[i], nodeTW(inst, rt.Clients[i]))
	}
	rt.Suffix[k] = depotSeg
	for i := k - 1; i >= 0; i-- {
		rt.Suffix[i] = mergeTW(inst, nodeTW(inst, rt.Clients[i]), rt.Suffix[i+1])
	}
}

// EvalTimeWarp returns the time-warp of the whole route if Prefix[i] (the
// stops before position i) were concatenated directly with Suffix[j] (the
// stops from position j onward), skipping whatever lies in between — the
// primitive used to preview relocate/exchange moves in O(1).
//
// Complexity: O(1).
func (rt *Route) EvalTimeWarp(inst *instance.Instance, i, j int) int64 {
	return mergeTW(inst, rt.Prefix[i], rt.Suffix[j]).Warp
}

// EvalConcat3 previews concatenating Prefix[i], an arbitrary inserted
// segment, and Suffix[j], returning the combined TWData — used by node
// operators to evaluate inserting one or two clients between position i and
// position j of (possibly) another route.
//
// Complexity: O(1).
func (rt *Route) EvalConcat3(inst *instance.Instance, i int, mid TWData, j int) TWData {
	return mergeTW(inst, mergeTW(inst, rt.Prefix[i], mid), rt.Suffix[j])
}

// IndexOf returns the position of client in Clients, or -1 if absent.
//
// Complexity: O(k).
func (rt *Route) IndexOf(client int) int {
	for i, c := range rt.Clients {
		if c == client {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the route (used by crossover, which must not
// mutate parent routes).
func (rt *Route) Clone() *Route {
	cp := &Route{
		Clients:  append([]int(nil), rt.Clients...),
		Load:     rt.Load,
		Distance: rt.Distance,
		TimeWarp: rt.TimeWarp,
		Release:  rt.Release,
		Feasible: rt.Feasible,
		Prefix:   append([]TWData(nil), rt.Prefix...),
		Suffix:   append([]TWData(nil), rt.Suffix...),
	}
	return cp
}
