package rollout

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/hgs-vrptw/envproto"
	"github.com/katalvlaran/hgs-vrptw/instance"
	"github.com/katalvlaran/hgs-vrptw/matrix"
)

// LookaheadSample is one concatenated "current epoch + simulated future
// requests" instance, ready to drive through ga.Driver (spec.md §4.10 step 4).
type LookaheadSample struct {
	Inst *instance.Instance

	// EpochLocalIndex[i] is Inst client i's position in the current epoch's
	// EpochInstance arrays (RequestIdx/MustDispatch/...), or -1 if client i
	// was synthesized by the lookahead simulator rather than drawn from the
	// current epoch (spec.md §4.10 step 4 "indexed distinctly").
	EpochLocalIndex []int
}

// candidate is one sampled future request (spec.md §4.10 step 1).
type candidate struct {
	locIdx                       int
	early, late, demand, service int64
}

// sampleCandidate draws one candidate via 4 independent uniform draws over
// the static customer set (identity, time-window template, demand
// template, service template) and applies the feasibility filter (spec.md
// §4.10 steps 1, 3).
func sampleCandidate(static *instance.Instance, release int64, rng *rand.Rand) (candidate, bool) {
	locIdx := 1 + rng.Intn(static.N)
	twIdx := 1 + rng.Intn(static.N)
	demIdx := 1 + rng.Intn(static.N)
	svcIdx := 1 + rng.Intn(static.N)

	early := static.Early[twIdx]
	late := static.Late[twIdx]
	demand := static.Demand[demIdx]
	service := static.Service[svcIdx]

	toDepot := static.Dist.MustAt(instance.Depot, locIdx)
	fromDepot := static.Dist.MustAt(locIdx, instance.Depot)
	arrival := release + toDepot
	if arrival < early {
		arrival = early
	}
	if arrival > late {
		return candidate{}, false
	}
	if arrival+service+fromDepot > static.DepotLate() {
		return candidate{}, false
	}
	return candidate{locIdx: locIdx, early: early, late: late, demand: demand, service: service}, true
}

// row is one location destined for the combined lookahead instance, either
// copied from the current epoch or synthesized by the simulator.
type row struct {
	locIdx                       int
	early, late, demand, service int64
	release                      int64
	epochLocal                   int
}

// SampleLookahead builds the combined lookahead instance: the current
// epoch's pending requests (release time postpone[i]*epochDuration) plus up
// to min(nLookahead, epochsLeft) future epochs' worth of sampled candidates,
// each epoch retried up to maxRetries times if nothing survives the
// feasibility filter (spec.md §4.10). postpone is indexed in the same order
// as the current epoch's non-depot requests.
func SampleLookahead(
	static *instance.Instance,
	current envproto.EpochInstance,
	postpone []bool,
	t0 int64,
	epochsLeft, nLookahead, nRequests int,
	epochDuration int64,
	maxRetries int,
	rng *rand.Rand,
) (LookaheadSample, error) {
	rows := make([]row, 0, len(current.RequestIdx)+nRequests*nLookahead)

	nonDepotSeen := 0
	for i := range current.RequestIdx {
		if current.IsDepot[i] {
			continue
		}
		rel := int64(0)
		if nonDepotSeen < len(postpone) && postpone[nonDepotSeen] {
			rel = epochDuration
		}
		nonDepotSeen++
		rows = append(rows, row{
			locIdx:     current.CustomerIdx[i],
			early:      current.Early[i],
			late:       current.Late[i],
			demand:     current.Demand[i],
			service:    current.Service[i],
			release:    rel,
			epochLocal: i,
		})
	}

	horizon := nLookahead
	if epochsLeft < horizon {
		horizon = epochsLeft
	}
	for e := 1; e <= horizon; e++ {
		release := t0 + int64(e)*epochDuration
		var kept []candidate
		for attempt := 0; attempt < maxRetries && len(kept) == 0; attempt++ {
			kept = kept[:0]
			for i := 0; i < nRequests; i++ {
				if c, ok := sampleCandidate(static, release, rng); ok {
					kept = append(kept, c)
				}
			}
		}
		for _, c := range kept {
			rows = append(rows, row{
				locIdx: c.locIdx, early: c.early, late: c.late,
				demand: c.demand, service: c.service,
				release: release, epochLocal: -1,
			})
		}
	}

	return buildInstanceFromRows(static, rows)
}

// buildInstanceFromRows assembles the depot plus rows into a fresh
// *instance.Instance, gathering distances from static's matrix.
func buildInstanceFromRows(static *instance.Instance, rows []row) (LookaheadSample, error) {
	m := len(rows)
	dist, err := matrix.NewDense(m + 1)
	if err != nil {
		return LookaheadSample{}, err
	}
	locOf := make([]int, m+1)
	locOf[0] = instance.Depot
	for i, r := range rows {
		locOf[i+1] = r.locIdx
	}
	for i := 0; i <= m; i++ {
		for j := 0; j <= m; j++ {
			if i == j {
				continue
			}
			if err := dist.Set(i, j, static.Dist.MustAt(locOf[i], locOf[j])); err != nil {
				return LookaheadSample{}, err
			}
		}
	}

	demand := make([]int64, m+1)
	early := make([]int64, m+1)
	late := make([]int64, m+1)
	service := make([]int64, m+1)
	release := make([]int64, m+1)
	epochLocal := make([]int, m+1)
	epochLocal[0] = -1
	for i, r := range rows {
		demand[i+1] = r.demand
		early[i+1] = r.early
		late[i+1] = r.late
		service[i+1] = r.service
		release[i+1] = r.release
		epochLocal[i+1] = r.epochLocal
	}

	inst, err := instance.New(m, dist, demand, early, late, service, release, nil, static.Capacity)
	if err != nil {
		return LookaheadSample{}, fmt.Errorf("rollout: lookahead sample: %w", err)
	}
	return LookaheadSample{Inst: inst, EpochLocalIndex: epochLocal}, nil
}
