package crossover

import (
	"math/rand"

	"github.com/katalvlaran/hgs-vrptw/indiv"
	"github.com/katalvlaran/hgs-vrptw/instance"
)

// BPX (Broken Pairs Exchange, spec.md §4.6): clones a, extracts a random
// fraction of its clients (breaking the successor/predecessor pair at each
// one), and greedily reinserts them in a random order, minimizing
// penalized insertion cost at each step.
//
// Complexity: O(m*K*k), m = number of destroyed clients, k = longest route.
func BPX(inst *instance.Instance, a *indiv.Individual, rng *rand.Rand, cfg Config, lambdaCap, lambdaTW int64) *indiv.Individual {
	child := a.Clone()
	n := inst.N

	numDestroy := int(cfg.BPXFraction * float64(n))
	if numDestroy < 1 {
		numDestroy = 1
	}
	if numDestroy > n {
		numDestroy = n
	}

	perm := shuffledIndices(n, rng)
	destroyed := make([]int, 0, numDestroy)
	for _, idx := range perm {
		if len(destroyed) >= numDestroy {
			break
		}
		destroyed = append(destroyed, idx+1)
	}

	for _, c := range destroyed {
		r := child.ClientRoute[c]
		rt := child.Routes[r]
		pos := rt.IndexOf(c)
		if pos < 0 {
			continue
		}
		rt.Clients = append(rt.Clients[:pos], rt.Clients[pos+1:]...)
		child.ClientRoute[c] = -1
	}
	for r := range child.Routes {
		child.RecomputeRoute(inst, r)
	}

	for _, idx := range shuffledIndices(len(destroyed), rng) {
		GreedyInsert(inst, child, destroyed[idx], lambdaCap, lambdaTW)
	}
	return child
}
