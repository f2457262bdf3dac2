// Package envproto defines the dynamic-mode environment protocol (spec.md
// §6): a state machine the rollout dispatcher drives one epoch at a time,
// and the observation/action types that cross its boundary.
package envproto

import (
	"github.com/katalvlaran/hgs-vrptw/instance"
)

// EpochInstance is one dynamic-mode decision point's pending-request view.
// Index 0 is always the depot; indices 1..len(RequestIdx)-1 are requests.
type EpochInstance struct {
	RequestIdx   []int   // stable request IDs across epochs (index 0 is the depot's own ID, conventionally 0)
	CustomerIdx  []int   // maps each local index into the static context's customer list
	MustDispatch []bool  // true if the request at this local index must be served this epoch
	IsDepot      []bool  // true only at index 0
	Early        []int64 // local time window lower bound
	Late         []int64 // local time window upper bound
	Demand       []int64
	Service      []int64
}

// Size returns the number of locations in the epoch instance including the
// depot.
func (e EpochInstance) Size() int { return len(e.RequestIdx) }

// StaticContext is the full customer universe revealed at Reset, used by the
// lookahead simulator to draw plausible future requests (spec.md §4.10).
type StaticContext struct {
	Inst *instance.Instance
}

// StaticInfo is returned once, by Reset.
type StaticInfo struct {
	StartEpoch int
	EndEpoch   int
	EpochTlim  float64 // wall-clock seconds budgeted to solve one epoch
	Static     StaticContext
}

// Observation is returned by both Reset and Step.
type Observation struct {
	CurrentEpoch      int
	CurrentTime       int64
	PlanningStartTime int64
	EpochInstance     EpochInstance
}

// Info carries out-of-band signaling from Step; a non-nil Error is fatal
// (spec.md §7 EnvironmentError).
type Info struct {
	Error error
}

// EpochSolution is the dispatcher's answer for one epoch: each inner slice
// is one vehicle's route, given as EpochInstance.RequestIdx values (stable
// IDs), not local indices, and must not include the depot.
type EpochSolution [][]int

// Env is the dynamic-mode environment protocol (spec.md §6): a state
// machine the rollout dispatcher drives one epoch at a time.
//
//   - Reset begins an episode, revealing the static context and the first
//     epoch's pending requests.
//   - Step submits the dispatcher's decision for the current epoch and
//     advances to the next one; reward is the negative routing cost of
//     that epoch (spec.md §6); done is true after the final epoch.
//   - GetHindsightProblem reveals the realized full problem after all
//     epochs, for the oracle baseline only (spec.md §6, §8 scenario 6).
type Env interface {
	Reset() (Observation, StaticInfo, error)
	Step(sol EpochSolution) (Observation, float64, bool, Info, error)
	GetHindsightProblem() (*instance.Instance, error)
}
