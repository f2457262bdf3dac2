package population

import (
	"sort"

	"github.com/katalvlaran/hgs-vrptw/instance"
)

// costRanks returns each member's cost rank normalized to [0,1] (0 = best,
// cheapest).
func costRanks(members []member) []float64 {
	n := len(members)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return members[idx[i]].cost < members[idx[j]].cost })
	ranks := make([]float64, n)
	for pos, i := range idx {
		if n > 1 {
			ranks[i] = float64(pos) / float64(n-1)
		}
	}
	return ranks
}

// diversityRanks returns each member's diversity rank normalized to [0,1]
// (0 = most diverse): diversity is the average broken-pairs distance to the
// nbClose nearest other members in the same sub-population (spec.md §4.7).
//
// Complexity: O(n^2).
func diversityRanks(inst *instance.Instance, members []member, nbClose int) []float64 {
	n := len(members)
	diversity := make([]float64, n)
	for i := range members {
		dists := make([]int, 0, n-1)
		for j := range members {
			if i == j {
				continue
			}
			dists = append(dists, members[i].ind.BrokenPairsDistance(inst, members[j].ind))
		}
		sort.Ints(dists)
		k := nbClose
		if k > len(dists) {
			k = len(dists)
		}
		var sum int
		for _, d := range dists[:k] {
			sum += d
		}
		if k > 0 {
			diversity[i] = float64(sum) / float64(k)
		}
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	// Most diverse (largest average distance) first -> rank 0.
	sort.Slice(idx, func(i, j int) bool { return diversity[idx[i]] > diversity[idx[j]] })
	ranks := make([]float64, n)
	for pos, i := range idx {
		if n > 1 {
			ranks[i] = float64(pos) / float64(n-1)
		}
	}
	return ranks
}

// fitness computes the biased fitness of every member: alpha*costRank +
// (1-alpha)*diversityRank, alpha = 1 - nbElite/size (spec.md §4.7). Lower
// fitness is better.
func fitness(inst *instance.Instance, members []member, nbElite, nbClose int) []float64 {
	n := len(members)
	if n == 0 {
		return nil
	}
	alpha := 1 - float64(nbElite)/float64(n)
	if alpha < 0 {
		alpha = 0
	}
	cr := costRanks(members)
	dr := diversityRanks(inst, members, nbClose)
	out := make([]float64, n)
	for i := range members {
		out[i] = alpha*cr[i] + (1-alpha)*dr[i]
	}
	return out
}
