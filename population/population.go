// Package population implements the two sub-populations (feasible,
// infeasible), diversity-weighted fitness, survivor selection, binary
// tournament parent selection, and restart logic of spec.md §4.7.
package population

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	hashset "github.com/hashicorp/go-set/v3"

	"github.com/katalvlaran/hgs-vrptw/hgserr"
	"github.com/katalvlaran/hgs-vrptw/indiv"
)

// Config holds the population knobs (spec.md §4.7, §6 "static" section).
type Config struct {
	Mu              int // minimum sub-population size
	Lambda          int // growth slack before survivor selection triggers
	NbClose         int // neighbours considered for the diversity metric
	NbElite         int // best-by-cost individuals guaranteed best fitness
	NbIterNoImprove int // restart trigger: iterations without a new best feasible
	NbKeepOnRestart int // elites preserved across a restart
}

// DefaultConfig returns the reference parameterization.
func DefaultConfig() Config {
	return Config{
		Mu:              25,
		Lambda:          40,
		NbClose:         5,
		NbElite:         4,
		NbIterNoImprove: 2000,
		NbKeepOnRestart: 2,
	}
}

// Validate rejects configurations that would make fitness or survivor
// selection ill-defined.
func (c Config) Validate() error {
	if c.Mu < 1 {
		return fmt.Errorf("population: mu must be >= 1: %w", hgserr.InvalidConfig)
	}
	if c.Lambda < 1 {
		return fmt.Errorf("population: lambda must be >= 1: %w", hgserr.InvalidConfig)
	}
	if c.NbClose < 1 {
		return fmt.Errorf("population: nbClose must be >= 1: %w", hgserr.InvalidConfig)
	}
	if c.NbElite < 0 || c.NbElite > c.Mu {
		return fmt.Errorf("population: nbElite out of [0,mu]: %w", hgserr.InvalidConfig)
	}
	return nil
}

// member pairs an Individual with its memoized cost, to avoid recomputing
// Cost(lambdaCap,lambdaTW) on every comparison during a sort.
type member struct {
	ind  *indiv.Individual
	cost int64
}

// SubPopulation is one of the two pools (feasible or infeasible). It owns
// its members and a set of giant-tour keys used to reject duplicates
// (spec.md §3 invariant: "never contains two individuals with identical
// giant tours").
type SubPopulation struct {
	members []member
	tours   *hashset.Set[string]
}

func newSubPopulation() *SubPopulation {
	return &SubPopulation{tours: hashset.New[string](0)}
}

// Size returns the current member count.
func (sp *SubPopulation) Size() int { return len(sp.members) }

// Members returns the current individuals (read-only; callers must not
// mutate the returned slice).
func (sp *SubPopulation) Members() []*indiv.Individual {
	out := make([]*indiv.Individual, len(sp.members))
	for i, m := range sp.members {
		out[i] = m.ind
	}
	return out
}

// tourKey renders a giant tour as a comparable string key.
func tourKey(tour []int) string {
	parts := make([]string, len(tour))
	for i, c := range tour {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ",")
}

// Insert adds ind if its giant tour isn't already present, returning false
// (and discarding ind) when it is a duplicate.
func (sp *SubPopulation) Insert(ind *indiv.Individual, cost int64) bool {
	key := tourKey(ind.GiantTour())
	if sp.tours.Contains(key) {
		return false
	}
	sp.tours.Insert(key)
	sp.members = append(sp.members, member{ind: ind, cost: cost})
	return true
}

// removeAt evicts the member at index i, releasing its giant-tour key.
func (sp *SubPopulation) removeAt(i int) {
	sp.tours.Remove(tourKey(sp.members[i].ind.GiantTour()))
	sp.members = append(sp.members[:i], sp.members[i+1:]...)
}

// clear empties the sub-population, optionally keeping the nbKeep best (by
// cost) members (spec.md §4.7 "Restart").
func (sp *SubPopulation) clear(nbKeep int) {
	if nbKeep <= 0 || nbKeep >= len(sp.members) {
		if nbKeep >= len(sp.members) {
			return
		}
		sp.members = nil
		sp.tours = hashset.New[string](0)
		return
	}
	sort.Slice(sp.members, func(i, j int) bool { return sp.members[i].cost < sp.members[j].cost })
	keep := sp.members[:nbKeep]
	sp.members = nil
	sp.tours = hashset.New[string](0)
	for _, m := range keep {
		sp.tours.Insert(tourKey(m.ind.GiantTour()))
		sp.members = append(sp.members, m)
	}
}
