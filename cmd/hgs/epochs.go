package main

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/katalvlaran/hgs-vrptw/envproto"
	"github.com/katalvlaran/hgs-vrptw/hgserr"
	"github.com/katalvlaran/hgs-vrptw/instance"
)

// epochsDoc is the TOML shape of a dynamic-mode episode script: which
// static customers are revealed in each epoch, and which of them must be
// dispatched that epoch. Each revealed customer's time window, demand, and
// service time are pulled from the static instance itself (spec.md's
// epoch instance is a pending-request VIEW over the static customer set,
// not a second copy of their attributes).
type epochsDoc struct {
	EpochTlim     float64       `toml:"epochTlim"`
	EpochDuration int64         `toml:"epochDuration"`
	Epoch         []epochToml   `toml:"epoch"`
}

type epochToml struct {
	Request []requestToml `toml:"request"`
}

type requestToml struct {
	CustomerID   int  `toml:"customerId"`
	MustDispatch bool `toml:"mustDispatch"`
}

// loadEpochs decodes path into a static instance's sequence of
// envproto.EpochInstance values, ready for envproto.NewReplayEnv.
func loadEpochs(path string, static *instance.Instance) ([]envproto.EpochInstance, float64, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("epochs: %w", err)
	}
	defer f.Close()
	buf, err := io.ReadAll(f)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("epochs: %w", err)
	}

	var d epochsDoc
	if _, err := toml.Decode(string(buf), &d); err != nil {
		return nil, 0, 0, fmt.Errorf("epochs: decode: %w: %w", err, hgserr.InvalidConfig)
	}
	if len(d.Epoch) == 0 {
		return nil, 0, 0, fmt.Errorf("epochs: at least one [[epoch]] required: %w", hgserr.InvalidConfig)
	}

	epochs := make([]envproto.EpochInstance, len(d.Epoch))
	for e, et := range d.Epoch {
		n := len(et.Request)
		ei := envproto.EpochInstance{
			RequestIdx:   make([]int, n+1),
			CustomerIdx:  make([]int, n+1),
			MustDispatch: make([]bool, n+1),
			IsDepot:      make([]bool, n+1),
			Early:        make([]int64, n+1),
			Late:         make([]int64, n+1),
			Demand:       make([]int64, n+1),
			Service:      make([]int64, n+1),
		}
		ei.IsDepot[0] = true
		for i, req := range et.Request {
			if req.CustomerID < 1 || req.CustomerID > static.N {
				return nil, 0, 0, fmt.Errorf("epochs: epoch %d request %d: customer id %d out of range: %w", e, i, req.CustomerID, hgserr.InvalidConfig)
			}
			ei.RequestIdx[i+1] = req.CustomerID
			ei.CustomerIdx[i+1] = req.CustomerID
			ei.MustDispatch[i+1] = req.MustDispatch
			ei.Early[i+1] = static.Early[req.CustomerID]
			ei.Late[i+1] = static.Late[req.CustomerID]
			ei.Demand[i+1] = static.Demand[req.CustomerID]
			ei.Service[i+1] = static.Service[req.CustomerID]
		}
		epochs[e] = ei
	}
	return epochs, d.EpochTlim, d.EpochDuration, nil
}
