// Package instance defines the VRPTW instance model (spec.md §3): an
// immutable-after-construction value type carrying clients, depot, the
// asymmetric duration matrix, time windows, demands, capacity, service and
// release times.
package instance

import (
	"fmt"

	"github.com/katalvlaran/hgs-vrptw/hgserr"
	"github.com/katalvlaran/hgs-vrptw/matrix"
)

// Depot is the fixed index of the depot location within an Instance. All
// other locations are numbered 1..N.
const Depot = 0

// Instance is the immutable static description of one VRPTW problem. It is
// built once (by New or by Parse) and never mutated afterwards: the GA,
// local search, and rollout dispatcher all hold *Instance by reference and
// share it lock-free across goroutines (spec.md §5).
type Instance struct {
	// N is the number of non-depot clients. Locations are indexed 0..N,
	// with 0 reserved for the depot.
	N int

	// Dist is the n×n (n=N+1) asymmetric duration matrix; Dist.At(i,j) is
	// the travel duration from location i to location j. Dist.At(i,i) == 0
	// for all i.
	Dist *matrix.Dense

	// Demand[i] is the non-negative integer demand of location i.
	// Demand[Depot] == 0.
	Demand []int64

	// Early[i], Late[i] are the integer time-window bounds of location i.
	Early []int64
	Late  []int64

	// Service[i] is the integer service duration at location i.
	// Service[Depot] == 0.
	Service []int64

	// Release[i] is the integer release time of location i (0 if absent).
	Release []int64

	// Coord[i] are optional integer coordinates, used by the route
	// operators' circle-sector overlap test (spec.md §4.5). Nil if the instance carries no
	// coordinates (e.g. a pure EXPLICIT/FULL_MATRIX instance).
	Coord [][2]int64

	// Capacity is the integer vehicle capacity Q, shared by all vehicles.
	Capacity int64
}

// New constructs and validates an Instance from explicit slices. All slices
// except Coord must have length N+1; Coord, if non-nil, must also have
// length N+1. Dist must be (N+1)x(N+1).
func New(
	n int,
	dist *matrix.Dense,
	demand, early, late, service, release []int64,
	coord [][2]int64,
	capacity int64,
) (*Instance, error) {
	inst := &Instance{
		N:        n,
		Dist:     dist,
		Demand:   demand,
		Early:    early,
		Late:     late,
		Service:  service,
		Release:  release,
		Coord:    coord,
		Capacity: capacity,
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// Size returns the number of locations including the depot (N+1).
func (inst *Instance) Size() int { return inst.N + 1 }

// DepotLate returns the depot's closing time, the bound used by the
// lookahead simulator's feasibility filter (spec.md §4.10).
func (inst *Instance) DepotLate() int64 { return inst.Late[Depot] }

// Validate checks every structural invariant spec.md §3 and §6 require of an
// instance: square matrix of the right size, zero self-distances,
// non-negative distances/demands/times, depot demand/service zero, and
// Early[i] <= Late[i] for every location.
func (inst *Instance) Validate() error {
	n := inst.N + 1
	if inst.Dist == nil || inst.Dist.Rows() != n || inst.Dist.Cols() != n {
		return fmt.Errorf("instance: distance matrix shape: %w", hgserr.InvalidInstance)
	}
	if len(inst.Demand) != n || len(inst.Early) != n || len(inst.Late) != n || len(inst.Service) != n {
		return fmt.Errorf("instance: attribute slice length mismatch: %w", hgserr.InvalidInstance)
	}
	if inst.Release != nil && len(inst.Release) != n {
		return fmt.Errorf("instance: release slice length mismatch: %w", hgserr.InvalidInstance)
	}
	if inst.Coord != nil && len(inst.Coord) != n {
		return fmt.Errorf("instance: coord slice length mismatch: %w", hgserr.InvalidInstance)
	}
	if inst.Capacity <= 0 {
		return fmt.Errorf("instance: non-positive capacity: %w", hgserr.InvalidInstance)
	}
	if inst.Demand[Depot] != 0 {
		return fmt.Errorf("instance: depot demand must be zero: %w", hgserr.InvalidInstance)
	}
	if inst.Service[Depot] != 0 {
		return fmt.Errorf("instance: depot service must be zero: %w", hgserr.InvalidInstance)
	}
	for i := 0; i < n; i++ {
		v, err := inst.Dist.At(i, i)
		if err != nil {
			return fmt.Errorf("instance: %w: %v", hgserr.InvalidInstance, err)
		}
		if v != 0 {
			return fmt.Errorf("instance: d[%d][%d] != 0: %w", i, i, hgserr.InvalidInstance)
		}
		for j := 0; j < n; j++ {
			w, _ := inst.Dist.At(i, j)
			if w < 0 {
				return fmt.Errorf("instance: negative distance d[%d][%d]: %w", i, j, hgserr.InvalidInstance)
			}
		}
		if inst.Demand[i] < 0 {
			return fmt.Errorf("instance: negative demand at %d: %w", i, hgserr.InvalidInstance)
		}
		if inst.Service[i] < 0 {
			return fmt.Errorf("instance: negative service at %d: %w", i, hgserr.InvalidInstance)
		}
		if inst.Early[i] < 0 || inst.Late[i] < 0 {
			return fmt.Errorf("instance: negative time window at %d: %w", i, hgserr.InvalidInstance)
		}
		if inst.Early[i] > inst.Late[i] {
			return fmt.Errorf("instance: early > late at %d: %w", i, hgserr.InvalidInstance)
		}
		if inst.Demand[i] > inst.Capacity {
			return fmt.Errorf("instance: demand at %d exceeds capacity: %w", i, hgserr.InvalidInstance)
		}
	}

	return nil
}

// ReleaseOf returns the release time of location i, or 0 if the instance
// carries no RELEASE_TIME_SECTION.
func (inst *Instance) ReleaseOf(i int) int64 {
	if inst.Release == nil {
		return 0
	}
	return inst.Release[i]
}

// NbVehHeuristic derives the upper-bound vehicle-count hint nbVeh used to
// size an Individual's route arena K. spec.md §9 leaves the derivation
// open; SPEC_FULL.md §D fixes it to ceil(total demand / Q) + slack.
//
// This is an upper bound only: an Individual may use fewer non-empty
// routes than K, never more.
func (inst *Instance) NbVehHeuristic(slack int) int {
	var total int64
	for i := 1; i <= inst.N; i++ {
		total += inst.Demand[i]
	}
	k := int((total + inst.Capacity - 1) / inst.Capacity)
	if k < 1 {
		k = 1
	}
	k += slack
	if k > inst.N {
		k = inst.N
	}
	if k < 1 {
		k = 1
	}
	return k
}
