package crossover

import (
	"math/rand"

	"github.com/katalvlaran/hgs-vrptw/indiv"
	"github.com/katalvlaran/hgs-vrptw/instance"
)

// SREX (Selective Route Exchange, spec.md §4.6): draws a contiguous block
// of route slots from a, copies that block verbatim into the child, fills
// the remaining slots from b's ordering (skipping any client the block
// already placed), and greedily reinserts whatever client that leaves
// without a home. a and b must share the same route-arena size K.
//
// Complexity: O(K*b + m*K*k) where m is the number of clients needing
// repair and k the longest route length.
func SREX(inst *instance.Instance, a, b *indiv.Individual, rng *rand.Rand, cfg Config, lambdaCap, lambdaTW int64) *indiv.Individual {
	k := len(a.Routes)
	span := cfg.SREXMaxBlock - cfg.SREXMinBlock + 1
	if span < 1 {
		span = 1
	}
	blockSize := cfg.SREXMinBlock + rng.Intn(span)
	if blockSize > k {
		blockSize = k
	}
	if blockSize < 1 {
		blockSize = 1
	}
	start := rng.Intn(k)

	inBlock := make([]bool, k)
	for i := 0; i < blockSize; i++ {
		inBlock[(start+i)%k] = true
	}

	fromA := make([]bool, inst.N+1)
	newRoutes := make([][]int, k)
	for r := 0; r < k; r++ {
		if !inBlock[r] {
			continue
		}
		newRoutes[r] = append([]int(nil), a.Routes[r].Clients...)
		for _, c := range newRoutes[r] {
			fromA[c] = true
		}
	}
	for r := 0; r < k; r++ {
		if inBlock[r] {
			continue
		}
		for _, c := range b.Routes[r].Clients {
			if !fromA[c] {
				newRoutes[r] = append(newRoutes[r], c)
			}
		}
	}

	child := &indiv.Individual{
		Routes:      make([]*indiv.Route, k),
		ClientRoute: make([]int, inst.N+1),
	}
	for i := range child.ClientRoute {
		child.ClientRoute[i] = -1
	}
	for r := 0; r < k; r++ {
		rt := indiv.NewRoute()
		rt.SetClients(inst, newRoutes[r])
		child.Routes[r] = rt
		for _, c := range newRoutes[r] {
			child.ClientRoute[c] = r
		}
	}
	child.RecomputeAll(inst)

	var missing []int
	for c := 1; c <= inst.N; c++ {
		if child.ClientRoute[c] < 0 {
			missing = append(missing, c)
		}
	}
	for _, idx := range shuffledIndices(len(missing), rng) {
		GreedyInsert(inst, child, missing[idx], lambdaCap, lambdaTW)
	}
	return child
}
