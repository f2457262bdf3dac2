// Package config decodes the TOML configuration document (spec.md §6) into
// the ga/rollout driver Configs, rejecting unknown keys and conflicting
// stop criteria as InvalidConfig (spec.md §7), the way the teacher's own
// CLI layer decodes its run documents before handing them to the solver.
package config

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/katalvlaran/hgs-vrptw/crossover"
	"github.com/katalvlaran/hgs-vrptw/ga"
	"github.com/katalvlaran/hgs-vrptw/hgserr"
	"github.com/katalvlaran/hgs-vrptw/localsearch"
	"github.com/katalvlaran/hgs-vrptw/penalty"
	"github.com/katalvlaran/hgs-vrptw/population"
	"github.com/katalvlaran/hgs-vrptw/rollout"
)

// Document is the full decoded config document: a "static" section (always
// present, feeds ga.Config) and optional "dynamic"/"hindsight" sections
// (rollout.Config and a hindsight-only GA override, respectively).
type Document struct {
	GA       ga.Config
	Rollout  rollout.Config
	Hindsight ga.Config
}

// staticDoc mirrors the "static" TOML section's keys 1:1 (spec.md §6).
type staticDoc struct {
	MinPopSize     int `toml:"minPopSize"`
	GenerationSize int `toml:"generationSize"`
	NbElite        int `toml:"nbElite"`
	NbClose        int `toml:"nbClose"`
	NbGranular     int `toml:"nbGranular"`

	InitialCapacityPenalty int64   `toml:"initialCapacityPenalty"`
	InitialTimeWarpPenalty int64   `toml:"initialTimeWarpPenalty"`
	NbPenaltyManagement    int     `toml:"nbPenaltyManagement"`
	PenaltyIncrease        float64 `toml:"penaltyIncrease"`
	PenaltyDecrease        float64 `toml:"penaltyDecrease"`
	TargetFeasible         float64 `toml:"targetFeasible"`
	Delta                  float64 `toml:"delta"`
	RepairProbability      float64 `toml:"repairProbability"`
	RepairBooster          float64 `toml:"repairBooster"`

	NbIter          int `toml:"nbIter"`
	NbKeepOnRestart int `toml:"nbKeepOnRestart"`

	SelectProbability float64 `toml:"selectProbability"`

	ShouldIntensify              bool    `toml:"shouldIntensify"`
	CircleSectorOverlapTolerance float64 `toml:"circleSectorOverlapTolerance"`
	MinCircleSectorSize          int     `toml:"minCircleSectorSize"`
	PostProcessPathLength        int     `toml:"postProcessPathLength"`

	WeightWaitTime int64 `toml:"weightWaitTime"`
	WeightTimeWarp int64 `toml:"weightTimeWarp"`

	SREXMinBlock int     `toml:"srexMinBlock"`
	SREXMaxBlock int     `toml:"srexMaxBlock"`
	BPXFraction  float64 `toml:"bpxFraction"`

	MaxRuntimeSeconds float64 `toml:"maxRuntime"`
	MaxIterations     int     `toml:"maxIterations"`

	Seed int64 `toml:"seed"`
}

// dynamicDoc mirrors the "dynamic" TOML section's keys 1:1 (spec.md §6).
type dynamicDoc struct {
	Strategy           string    `toml:"strategy"`
	SimulateTlimFactor float64   `toml:"simulate_tlim_factor"`
	NCycles            int       `toml:"n_cycles"`
	NSimulations       int       `toml:"n_simulations"`
	NLookahead         int       `toml:"n_lookahead"`
	NRequests          int       `toml:"n_requests"`
	PostponeThresholds []float64 `toml:"postpone_thresholds"`
	EpochDuration      int64     `toml:"epochDuration"`
	MaxSampleRetries   int       `toml:"maxSampleRetries"`
	MaxConcurrency     int64     `toml:"maxConcurrency"`
}

// doc is the top-level document shape. md.Undecoded() after a MetaDecode
// catches keys present in the TOML but absent from every nested struct
// (spec.md §7's unknown-key rejection); any key actually used by a section
// below, even in a document that omits that section, is still "known".
type doc struct {
	Static    staticDoc  `toml:"static"`
	Dynamic   dynamicDoc `toml:"dynamic"`
	Hindsight staticDoc  `toml:"hindsight"`
}

// Parse decodes a TOML config document from r into a Document, applying
// spec.md §6's defaults for every field the document omits and rejecting
// unknown keys and conflicting stop criteria as hgserr.InvalidConfig
// (spec.md §7).
func Parse(r io.Reader) (Document, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return Document{}, fmt.Errorf("config: read: %w", err)
	}

	d := doc{
		Static:    defaultStaticDoc(ga.DefaultConfig()),
		Dynamic:   defaultDynamicDoc(rollout.DefaultConfig()),
		Hindsight: defaultStaticDoc(ga.DefaultConfig()),
	}
	md, err := toml.Decode(buf.String(), &d)
	if err != nil {
		return Document{}, fmt.Errorf("config: decode: %w: %w", err, hgserr.InvalidConfig)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Document{}, fmt.Errorf("config: unknown key %q: %w", undecoded[0].String(), hgserr.InvalidConfig)
	}

	gaCfg := staticDocToGAConfig(d.Static)
	if err := gaCfg.Validate(); err != nil {
		return Document{}, err
	}

	rolloutCfg := dynamicDocToRolloutConfig(d.Dynamic)
	if err := rolloutCfg.Validate(); err != nil {
		return Document{}, err
	}

	hindsightCfg := staticDocToGAConfig(d.Hindsight)
	if err := hindsightCfg.Validate(); err != nil {
		return Document{}, err
	}

	return Document{GA: gaCfg, Rollout: rolloutCfg, Hindsight: hindsightCfg}, nil
}

// defaultStaticDoc mirrors cfg's values into a staticDoc, so that a document
// omitting the "static" (or "hindsight") section entirely still decodes to
// spec.md §6's reference parameterization rather than Go's zero values.
func defaultStaticDoc(cfg ga.Config) staticDoc {
	return staticDoc{
		MinPopSize:     cfg.Population.Mu,
		GenerationSize: cfg.Population.Lambda,
		NbElite:        cfg.Population.NbElite,
		NbClose:        cfg.Population.NbClose,
		NbGranular:     cfg.NbGranular,

		InitialCapacityPenalty: cfg.Penalty.InitialCapacityPenalty,
		InitialTimeWarpPenalty: cfg.Penalty.InitialTimeWarpPenalty,
		NbPenaltyManagement:    cfg.Penalty.NbPenaltyManagement,
		PenaltyIncrease:        cfg.Penalty.PenaltyIncrease,
		PenaltyDecrease:        cfg.Penalty.PenaltyDecrease,
		TargetFeasible:         cfg.Penalty.TargetFeasible,
		Delta:                  cfg.Penalty.Delta,
		RepairProbability:      cfg.Penalty.RepairProbability,
		RepairBooster:          cfg.Penalty.RepairBooster,

		NbIter:          cfg.Population.NbIterNoImprove,
		NbKeepOnRestart: cfg.Population.NbKeepOnRestart,

		SelectProbability: cfg.SelectProbability,

		ShouldIntensify:              cfg.LocalSearch.ShouldIntensify,
		CircleSectorOverlapTolerance: cfg.LocalSearch.CircleSectorOverlapTolerance,
		MinCircleSectorSize:          cfg.LocalSearch.MinRouteOverlapSize,
		PostProcessPathLength:        cfg.LocalSearch.PostProcessPathLength,

		WeightWaitTime: cfg.WeightWaitTime,
		WeightTimeWarp: cfg.WeightTimeWarp,

		SREXMinBlock: cfg.Crossover.SREXMinBlock,
		SREXMaxBlock: cfg.Crossover.SREXMaxBlock,
		BPXFraction:  cfg.Crossover.BPXFraction,

		MaxRuntimeSeconds: cfg.MaxRuntime.Seconds(),
		MaxIterations:     cfg.MaxIterations,

		Seed: cfg.Seed,
	}
}

// staticDocToGAConfig is defaultStaticDoc's inverse.
func staticDocToGAConfig(s staticDoc) ga.Config {
	return ga.Config{
		Population: population.Config{
			Mu: s.MinPopSize, Lambda: s.GenerationSize,
			NbClose: s.NbClose, NbElite: s.NbElite,
			NbIterNoImprove: s.NbIter, NbKeepOnRestart: s.NbKeepOnRestart,
		},
		Penalty: penalty.Config{
			InitialCapacityPenalty: s.InitialCapacityPenalty,
			InitialTimeWarpPenalty: s.InitialTimeWarpPenalty,
			NbPenaltyManagement:    s.NbPenaltyManagement,
			PenaltyIncrease:        s.PenaltyIncrease,
			PenaltyDecrease:        s.PenaltyDecrease,
			TargetFeasible:         s.TargetFeasible,
			Delta:                  s.Delta,
			RepairProbability:      s.RepairProbability,
			RepairBooster:          s.RepairBooster,
		},
		LocalSearch: localsearch.Params{
			MinRouteOverlapSize:          s.MinCircleSectorSize,
			CircleSectorOverlapTolerance: s.CircleSectorOverlapTolerance,
			ShouldIntensify:              s.ShouldIntensify,
			PostProcessPathLength:        s.PostProcessPathLength,
		},
		Crossover: crossover.Config{
			SREXMinBlock: s.SREXMinBlock, SREXMaxBlock: s.SREXMaxBlock, BPXFraction: s.BPXFraction,
		},
		NbGranular:        s.NbGranular,
		WeightWaitTime:    s.WeightWaitTime,
		WeightTimeWarp:    s.WeightTimeWarp,
		SelectProbability: s.SelectProbability,
		MaxRuntime:        time.Duration(s.MaxRuntimeSeconds * float64(time.Second)),
		MaxIterations:     s.MaxIterations,
		Seed:              s.Seed,
	}
}

func defaultDynamicDoc(cfg rollout.Config) dynamicDoc {
	return dynamicDoc{
		Strategy:           cfg.Strategy,
		SimulateTlimFactor: cfg.SimulateTlimFactor,
		NCycles:            cfg.NCycles,
		NSimulations:       cfg.NSimulations,
		NLookahead:         cfg.NLookahead,
		NRequests:          cfg.NRequests,
		PostponeThresholds: cfg.PostponeThresholds,
		EpochDuration:      cfg.EpochDuration,
		MaxSampleRetries:   cfg.MaxSampleRetries,
		MaxConcurrency:     cfg.MaxConcurrency,
	}
}

func dynamicDocToRolloutConfig(d dynamicDoc) rollout.Config {
	return rollout.Config{
		Strategy:           d.Strategy,
		SimulateTlimFactor: d.SimulateTlimFactor,
		NCycles:            d.NCycles,
		NSimulations:       d.NSimulations,
		NLookahead:         d.NLookahead,
		NRequests:          d.NRequests,
		PostponeThresholds: d.PostponeThresholds,
		EpochDuration:      d.EpochDuration,
		MaxSampleRetries:   d.MaxSampleRetries,
		MaxConcurrency:     d.MaxConcurrency,
	}
}
