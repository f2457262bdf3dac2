// Package neighbour computes the granular neighbourhood (spec.md §4.3):
// for each client, a static, immutable-after-construction list of the g
// most promising other clients to consider as move partners in local
// search, pruned from the proxy
//
//	rho(c,j) = d[c][j] + w_wait*max(0, e_j - s_c - d[c][j])
//	                   + w_tw*max(0, e_c + s_c + d[c][j] - l_j)
//
// Lists are bidirectional (union of out-nearest and in-nearest when the
// underlying matrix is asymmetric). Ties are broken by index.
package neighbour

import (
	"sort"

	"github.com/katalvlaran/hgs-vrptw/instance"
)

// Lists holds the granular neighbour lists for one instance. Computed once
// by Build and never mutated afterwards (spec.md §3 "Lifecycle").
type Lists struct {
	g    int
	list [][]int // list[c] is client c's neighbours, sorted by ascending proxy cost
}

// Of returns client c's granular neighbour list (read-only; callers must not
// mutate the returned slice).
func (l *Lists) Of(c int) []int { return l.list[c] }

// G returns the configured neighbourhood size.
func (l *Lists) G() int { return l.g }

type candidate struct {
	j     int
	proxy int64
}

// Build computes the granular neighbourhood for inst with list size g and
// proxy weights wWait, wTW.
//
// Complexity: O(n^2 log n) (a sort per client); n = inst.N.
func Build(inst *instance.Instance, g int, wWait, wTW int64) *Lists {
	n := inst.N
	out := make([][]candidate, n+1)
	in := make([][]candidate, n+1)

	for c := 1; c <= n; c++ {
		for j := 1; j <= n; j++ {
			if j == c {
				continue
			}
			pc := proxy(inst, c, j, wWait, wTW)
			out[c] = append(out[c], candidate{j: j, proxy: pc})
			pj := proxy(inst, j, c, wWait, wTW)
			in[c] = append(in[c], candidate{j: j, proxy: pj})
		}
	}

	lists := make([][]int, n+1)
	for c := 1; c <= n; c++ {
		merged := mergeTopG(out[c], in[c], g)
		lists[c] = merged
	}

	return &Lists{g: g, list: lists}
}

// proxy computes rho(c,j): travel time plus a penalty for forced waiting at
// j and a penalty for risking a time-warp arrival at j.
func proxy(inst *instance.Instance, c, j int, wWait, wTW int64) int64 {
	d := inst.Dist.MustAt(c, j)
	wait := inst.Early[j] - inst.Service[c] - d
	if wait < 0 {
		wait = 0
	}
	tw := inst.Early[c] + inst.Service[c] + d - inst.Late[j]
	if tw < 0 {
		tw = 0
	}
	return d + wWait*wait + wTW*tw
}

// mergeTopG sorts each candidate slice by (proxy, index), interleaves the
// out- and in- nearest sets (bidirectional union per spec.md §4.3), and
// keeps the first g distinct clients.
func mergeTopG(out, in []candidate, g int) []int {
	sortCandidates(out)
	sortCandidates(in)

	seen := make(map[int]bool, g)
	result := make([]int, 0, g)
	oi, ii := 0, 0
	for len(result) < g && (oi < len(out) || ii < len(in)) {
		var pick candidate
		switch {
		case oi >= len(out):
			pick = in[ii]
			ii++
		case ii >= len(in):
			pick = out[oi]
			oi++
		case out[oi].proxy < in[ii].proxy || (out[oi].proxy == in[ii].proxy && out[oi].j <= in[ii].j):
			pick = out[oi]
			oi++
		default:
			pick = in[ii]
			ii++
		}
		if !seen[pick.j] {
			seen[pick.j] = true
			result = append(result, pick.j)
		}
	}
	return result
}

func sortCandidates(c []candidate) {
	sort.Slice(c, func(i, j int) bool {
		if c[i].proxy != c[j].proxy {
			return c[i].proxy < c[j].proxy
		}
		return c[i].j < c[j].j
	})
}
