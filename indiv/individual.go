package indiv

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/hgs-vrptw/hgserr"
	"github.com/katalvlaran/hgs-vrptw/instance"
)

// Individual is one candidate VRPTW solution: up to K routes (some empty), a
// client->route map, and cached cost components (spec.md §3). Individuals
// are created by NewFromRoutes, by crossover, or by random initialization;
// mutated only by local search; discarded when evicted from the population.
type Individual struct {
	Routes []*Route // length K; Routes[r]==nil never happens, Empty() routes do

	// ClientRoute[c] is the index into Routes holding client c, for
	// c in 1..inst.N. ClientRoute[instance.Depot] is unused.
	ClientRoute []int

	Distance       int64
	CapacityExcess int64
	TimeWarp       int64
}

// NewFromRoutes constructs an Individual from an explicit route list,
// normalizing per spec.md §4.2: drops empty routes, pads to k routes total,
// builds the client->route map, computes caches.
//
// routes elements are client-index slices (0-based location indices,
// depot implicit). Every client in 1..inst.N must appear in exactly one
// route exactly once.
func NewFromRoutes(inst *instance.Instance, routes [][]int, k int) (*Individual, error) {
	nonEmpty := make([][]int, 0, len(routes))
	for _, r := range routes {
		if len(r) > 0 {
			nonEmpty = append(nonEmpty, r)
		}
	}
	if len(nonEmpty) > k {
		return nil, fmt.Errorf("indiv: %d non-empty routes exceed K=%d: %w", len(nonEmpty), k, hgserr.InvalidInstance)
	}

	ind := &Individual{
		Routes:      make([]*Route, k),
		ClientRoute: make([]int, inst.N+1),
	}
	for i := range ind.ClientRoute {
		ind.ClientRoute[i] = -1
	}

	seen := make([]bool, inst.N+1)
	for i := 0; i < k; i++ {
		rt := NewRoute()
		if i < len(nonEmpty) {
			rt.SetClients(inst, append([]int(nil), nonEmpty[i]...))
			for _, c := range nonEmpty[i] {
				if c <= instance.Depot || c > inst.N {
					return nil, fmt.Errorf("indiv: client index %d out of range: %w", c, hgserr.InvalidInstance)
				}
				if seen[c] {
					return nil, fmt.Errorf("indiv: client %d appears twice: %w", c, hgserr.InvalidInstance)
				}
				seen[c] = true
				ind.ClientRoute[c] = i
			}
		} else {
			rt.Recompute(inst)
		}
		ind.Routes[i] = rt
	}
	for c := 1; c <= inst.N; c++ {
		if !seen[c] {
			return nil, fmt.Errorf("indiv: client %d missing: %w", c, hgserr.InvalidInstance)
		}
	}

	ind.aggregate(inst)
	return ind, nil
}

// aggregate recomputes Distance/CapacityExcess/TimeWarp from the routes'
// already-computed caches (does not re-simulate the routes themselves; call
// Recompute first if route contents changed).
//
// Complexity: O(K).
func (ind *Individual) aggregate(inst *instance.Instance) {
	var dist, capExcess, warp int64
	for _, rt := range ind.Routes {
		dist += rt.Distance
		if rt.Load > inst.Capacity {
			capExcess += rt.Load - inst.Capacity
		}
		warp += rt.TimeWarp
	}
	ind.Distance = dist
	ind.CapacityExcess = capExcess
	ind.TimeWarp = warp
}

// RecomputeRoute recomputes a single route's caches (after a local-search
// move touched it) and refreshes the individual's aggregates.
//
// Complexity: O(k_r + K).
func (ind *Individual) RecomputeRoute(inst *instance.Instance, r int) {
	ind.Routes[r].Recompute(inst)
	ind.aggregate(inst)
}

// RecomputeAll recomputes every route and the individual's aggregates, the
// ground truth used by Validate (spec.md §8).
//
// Complexity: O(n + K).
func (ind *Individual) RecomputeAll(inst *instance.Instance) {
	for _, rt := range ind.Routes {
		rt.Recompute(inst)
	}
	ind.aggregate(inst)
}

// Cost returns the penalized cost distance + lambdaCap*capacityExcess +
// lambdaTW*timeWarp (spec.md §3).
func (ind *Individual) Cost(lambdaCap, lambdaTW int64) int64 {
	return ind.Distance + lambdaCap*ind.CapacityExcess + lambdaTW*ind.TimeWarp
}

// Feasible reports whether the individual has zero capacity excess and zero
// time warp.
func (ind *Individual) Feasible() bool {
	return ind.CapacityExcess == 0 && ind.TimeWarp == 0
}

// Less compares two individuals by penalized cost, ties broken by raw
// distance (spec.md §3).
func Less(a, b *Individual, lambdaCap, lambdaTW int64) bool {
	ca, cb := a.Cost(lambdaCap, lambdaTW), b.Cost(lambdaCap, lambdaTW)
	if ca != cb {
		return ca < cb
	}
	return a.Distance < b.Distance
}

// ExportRoutes returns the non-empty routes' client sequences (in-memory
// client location indices 1..N, depot omitted), ordered stably by
// each route's first client index (spec.md §4.2).
func (ind *Individual) ExportRoutes() [][]int {
	nonEmpty := make([]*Route, 0, len(ind.Routes))
	for _, rt := range ind.Routes {
		if !rt.Empty() {
			nonEmpty = append(nonEmpty, rt)
		}
	}
	sort.Slice(nonEmpty, func(i, j int) bool {
		return nonEmpty[i].Clients[0] < nonEmpty[j].Clients[0]
	})
	out := make([][]int, len(nonEmpty))
	for i, rt := range nonEmpty {
		out[i] = append([]int(nil), rt.Clients...)
	}
	return out
}

// GiantTour returns the concatenation of non-empty routes in ExportRoutes
// order (spec.md §3: "derivable on demand", used by some crossovers and by
// the population's duplicate-giant-tour rule).
func (ind *Individual) GiantTour() []int {
	var tour []int
	for _, r := range ind.ExportRoutes() {
		tour = append(tour, r...)
	}
	return tour
}

// Successors returns, for each client 1..inst.N, the location that follows
// it in its route, or instance.Depot if it is the last stop of its route.
// Used by BrokenPairsDistance.
//
// Complexity: O(n).
func (ind *Individual) Successors(inst *instance.Instance) []int {
	succ := make([]int, inst.N+1)
	for _, rt := range ind.Routes {
		prev := instance.Depot
		for _, c := range rt.Clients {
			if prev != instance.Depot {
				succ[prev] = c
			}
			prev = c
		}
		if len(rt.Clients) > 0 {
			succ[rt.Clients[len(rt.Clients)-1]] = instance.Depot
		}
	}
	return succ
}

// BrokenPairsDistance counts, for each client, 1 if its successor in ind
// differs from its successor in other, else 0 (spec.md §4.2). Used as the
// diversity metric by population.
//
// Complexity: O(n).
func (ind *Individual) BrokenPairsDistance(inst *instance.Instance, other *Individual) int {
	a := ind.Successors(inst)
	b := other.Successors(inst)
	count := 0
	for c := 1; c <= inst.N; c++ {
		if a[c] != b[c] {
			count++
		}
	}
	return count
}

// Validate recomputes every route and aggregate from scratch and compares
// against the cached values, raising hgserr.ValidationError on mismatch
// (spec.md §7, §8).
func (ind *Individual) Validate(inst *instance.Instance) error {
	wantDist, wantCap, wantWarp := ind.Distance, ind.CapacityExcess, ind.TimeWarp
	for ci := 1; ci <= inst.N; ci++ {
		if ind.ClientRoute[ci] < 0 {
			return fmt.Errorf("indiv: client %d unassigned: %w", ci, hgserr.ValidationError)
		}
	}
	ind.RecomputeAll(inst)
	if ind.Distance != wantDist || ind.CapacityExcess != wantCap || ind.TimeWarp != wantWarp {
		return fmt.Errorf("indiv: cached cost (dist=%d cap=%d warp=%d) != recomputed (dist=%d cap=%d warp=%d): %w",
			wantDist, wantCap, wantWarp, ind.Distance, ind.CapacityExcess, ind.TimeWarp, hgserr.ValidationError)
	}
	return nil
}

// Clone returns a deep copy; BPX uses this to build its child without
// mutating the parent.
func (ind *Individual) Clone() *Individual {
	cp := &Individual{
		Routes:         make([]*Route, len(ind.Routes)),
		ClientRoute:    append([]int(nil), ind.ClientRoute...),
		Distance:       ind.Distance,
		CapacityExcess: ind.CapacityExcess,
		TimeWarp:       ind.TimeWarp,
	}
	for i, rt := range ind.Routes {
		cp.Routes[i] = rt.Clone()
	}
	return cp
}
