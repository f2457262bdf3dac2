package indiv

import "github.com/katalvlaran/hgs-vrptw/instance"

// TWData is an associative "time window segment" summary (Vidal et al.'s
// concatenation scheme, adapted): it lets local search evaluate the cost of
// joining two arbitrary sub-sequences of stops (e.g. the prefix before a
// candidate move and the suffix after it) in O(1), without re-simulating the
// whole route. Route.Recompute is the O(k) ground truth that every accepted
// move and every validation check falls back to (spec.md §8 "brute-force"
// time-warp law); TWData is the O(1)-amortized fast path operators use to
// rank candidate moves (spec.md §4.4 "Evaluation contract").
type TWData struct {
	Duration int64 // elapsed time (travel+service+wait) across the segment, started at Early
	Warp     int64 // time warp incurred inside the segment
	Early    int64 // earliest feasible start-of-service at the segment's first stop
	Late     int64 // latest start-of-service at the first stop before warp would increase
	Release  int64 // max release time over clients in the segment
	First    int   // location index of the segment's first stop
	Last     int   // location index of the segment's last stop
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// nodeTW returns the base TWData for a single location.
func nodeTW(inst *instance.Instance, loc int) TWData {
	return TWData{
		Duration: inst.Service[loc],
		Warp:     0,
		Early:    inst.Early[loc],
		Late:     inst.Late[loc],
		Release:  inst.ReleaseOf(loc),
		First:    loc,
		Last:     loc,
	}
}

// NodeTW is the exported form of nodeTW, used outside the package by local
// search operators to build ad-hoc segments (e.g. the 1-2 client chain being
// relocated) without re-simulating a whole route.
func NodeTW(inst *instance.Instance, loc int) TWData { return nodeTW(inst, loc) }

// MergeTW is the exported form of mergeTW.
func MergeTW(inst *instance.Instance, a, b TWData) TWData { return mergeTW(inst, a, b) }

// SegmentTW builds the TWData of an ordered chain of locations by repeated
// mergeTW. Used to evaluate inserting a 1-2 client segment (spec.md §4.4's
// node operator table never moves more than two contiguous clients at once,
// so this stays O(1) in practice).
//
// Complexity: O(len(locs)).
func SegmentTW(inst *instance.Instance, locs []int) TWData {
	seg := nodeTW(inst, locs[0])
	for _, loc := range locs[1:] {
		seg = mergeTW(inst, seg, nodeTW(inst, loc))
	}
	return seg
}

// mergeTW concatenates a then b (a travel arc a.Last -> b.First in between).
//
// Complexity: O(1).
func mergeTW(inst *instance.Instance, a, b TWData) TWData {
	dist := inst.Dist.MustAt(a.Last, b.First)
	delta := a.Duration - a.Warp + dist
	wait := max64(b.Early-delta-a.Late, 0)
	warp := max64(a.Early+delta-b.Late, 0)

	return TWData{
		Duration: a.Duration + b.Duration + dist + wait,
		Warp:     a.Warp + b.Warp + warp,
		Early:    max64(a.Early, b.Early-delta) - wait,
		Late:     min64(a.Late, b.Late-delta) + warp,
		Release:  max64(a.Release, b.Release),
		First:    a.First,
		Last:     b.Last,
	}
}
