package envproto

import (
	"fmt"

	"github.com/katalvlaran/hgs-vrptw/hgserr"
	"github.com/katalvlaran/hgs-vrptw/instance"
	"github.com/katalvlaran/hgs-vrptw/matrix"
)

// revealed tracks, for one stable request ID, where in the static context it
// lives and which epoch first revealed it — exactly what GetHindsightProblem
// needs to reconstruct the realized problem.
type revealed struct {
	customerIdx int
	epoch       int
}

// ReplayEnv implements Env by replaying a pre-built sequence of epoch
// instances against one underlying static Instance, scoring each epoch's
// submitted routes against the real duration matrix. It is the reference
// Env used by envproto's own tests and by cmd/hgs's `dynamic` subcommand when no
// live environment is wired in — a scripted double in the spirit of the
// pack's driver test harnesses, here driving the dynamic-mode protocol
// instead of a task driver.
type ReplayEnv struct {
	staticInst   *instance.Instance
	epochs       []EpochInstance
	epochTlim    float64
	epochDuration int64

	cur      int
	revealed map[int]revealed
}

// NewReplayEnv constructs a ReplayEnv. epochDuration is the wall-time span
// of one epoch, used to derive each realized request's release time for
// GetHindsightProblem (spec.md §4.10 "release time ... e * EPOCH_DURATION").
func NewReplayEnv(staticInst *instance.Instance, epochs []EpochInstance, epochTlim float64, epochDuration int64) *ReplayEnv {
	return &ReplayEnv{staticInst: staticInst, epochs: epochs, epochTlim: epochTlim, epochDuration: epochDuration}
}

// Reset rewinds to the first epoch, per Env's contract.
func (e *ReplayEnv) Reset() (Observation, StaticInfo, error) {
	e.cur = 0
	e.revealed = make(map[int]revealed)
	info := StaticInfo{
		StartEpoch: 0,
		EndEpoch:   len(e.epochs) - 1,
		EpochTlim:  e.epochTlim,
		Static:     StaticContext{Inst: e.staticInst},
	}
	return e.observationFor(0), info, nil
}

// observationFor returns the observation for epoch and records every
// newly-seen request into e.revealed.
func (e *ReplayEnv) observationFor(epoch int) Observation {
	var ei EpochInstance
	if epoch < len(e.epochs) {
		ei = e.epochs[epoch]
		for i, id := range ei.RequestIdx {
			if ei.IsDepot[i] {
				continue
			}
			if _, ok := e.revealed[id]; !ok {
				e.revealed[id] = revealed{customerIdx: ei.CustomerIdx[i], epoch: epoch}
			}
		}
	}
	return Observation{CurrentEpoch: epoch, EpochInstance: ei}
}

func indexOfRequest(ei EpochInstance, id int) int {
	for i, r := range ei.RequestIdx {
		if r == id {
			return i
		}
	}
	return -1
}

// Step scores sol against the current epoch's real travel times, checks
// every must-dispatch request was served, and advances to the next epoch.
func (e *ReplayEnv) Step(sol EpochSolution) (Observation, float64, bool, Info, error) {
	if e.cur >= len(e.epochs) {
		return Observation{}, 0, true, Info{}, fmt.Errorf("envproto: step after done: %w", hgserr.EnvironmentError)
	}
	ei := e.epochs[e.cur]
	mustByID := make(map[int]bool, len(ei.RequestIdx))
	for i, id := range ei.RequestIdx {
		if !ei.IsDepot[i] && ei.MustDispatch[i] {
			mustByID[id] = true
		}
	}

	var cost int64
	for _, route := range sol {
		prev := instance.Depot
		for _, id := range route {
			idx := indexOfRequest(ei, id)
			if idx < 0 {
				info := Info{Error: fmt.Errorf("envproto: unknown request id %d", id)}
				return Observation{}, 0, false, info, fmt.Errorf("envproto: unknown request id %d: %w", id, hgserr.EnvironmentError)
			}
			delete(mustByID, id)
			next := ei.CustomerIdx[idx]
			cost += e.staticInst.Dist.MustAt(prev, next)
			prev = next
		}
		cost += e.staticInst.Dist.MustAt(prev, instance.Depot)
	}
	if len(mustByID) > 0 {
		info := Info{Error: fmt.Errorf("envproto: %d must-dispatch requests not served", len(mustByID))}
		return Observation{}, 0, false, info, fmt.Errorf("envproto: %d must-dispatch requests not served: %w", len(mustByID), hgserr.EnvironmentError)
	}

	e.cur++
	done := e.cur >= len(e.epochs)
	return e.observationFor(e.cur), -float64(cost), done, Info{}, nil
}

// GetHindsightProblem builds a new static Instance over every request
// revealed across the whole episode, with each request's release time set
// to the epoch at which it was revealed (spec.md §6 "reveals the realized
// full problem after all epochs").
//
// Complexity: O(m^2), m = number of realized requests.
func (e *ReplayEnv) GetHindsightProblem() (*instance.Instance, error) {
	if e.cur < len(e.epochs) {
		return nil, fmt.Errorf("envproto: hindsight requested before episode done: %w", hgserr.EnvironmentError)
	}

	ids := make([]int, 0, len(e.revealed))
	for id := range e.revealed {
		ids = append(ids, id)
	}
	// Deterministic ordering: ascending request ID.
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}

	m := len(ids)
	dist, err := matrix.NewDense(m + 1)
	if err != nil {
		return nil, err
	}
	customerIdx := make([]int, m+1)
	customerIdx[0] = instance.Depot
	for i, id := range ids {
		customerIdx[i+1] = e.revealed[id].customerIdx
	}
	for i := 0; i <= m; i++ {
		for j := 0; j <= m; j++ {
			if i == j {
				continue
			}
			v := e.staticInst.Dist.MustAt(customerIdx[i], customerIdx[j])
			if err := dist.Set(i, j, v); err != nil {
				return nil, err
			}
		}
	}

	demand := make([]int64, m+1)
	early := make([]int64, m+1)
	late := make([]int64, m+1)
	service := make([]int64, m+1)
	release := make([]int64, m+1)
	for i, id := range ids {
		src := customerIdx[i+1]
		demand[i+1] = e.staticInst.Demand[src]
		early[i+1] = e.staticInst.Early[src]
		late[i+1] = e.staticInst.Late[src]
		service[i+1] = e.staticInst.Service[src]
		release[i+1] = int64(e.revealed[id].epoch) * e.epochDuration
	}

	var coord [][2]int64
	if e.staticInst.Coord != nil {
		coord = make([][2]int64, m+1)
		for i := 0; i <= m; i++ {
			coord[i] = e.staticInst.Coord[customerIdx[i]]
		}
	}

	return instance.New(m, dist, demand, early, late, service, release, coord, e.staticInst.Capacity)
}
