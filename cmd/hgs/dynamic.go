package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/katalvlaran/hgs-vrptw/envproto"
	"github.com/katalvlaran/hgs-vrptw/rollout"
)

// DynamicCommand replays a scripted episode against the dynamic-mode
// dispatcher (spec.md §6 "dynamic"): one of the rollout/greedy/lazy/random
// strategies, driven epoch by epoch through envproto.ReplayEnv.
type DynamicCommand struct {
	*Meta
}

func (c *DynamicCommand) Synopsis() string {
	return "Replay a dynamic-mode VRPTW episode"
}

func (c *DynamicCommand) Help() string {
	return strings.TrimSpace(`
Usage: hgs dynamic [options] <instance-file> <epochs-file>

  Replays a scripted dynamic-mode episode: each epoch's pending requests are
  dispatched by the configured strategy (rollout/greedy/lazy/random), scored
  against the real travel times, and the episode's total cost is reported.

Options:

  -config=<path>   TOML config document (spec.md §6). Defaults used if omitted.
  -seed=<n>         RNG seed for the dispatcher.
  -v                Verbose (debug-level) logging to stderr.
`)
}

func (c *DynamicCommand) Run(args []string) int {
	fs := flag.NewFlagSet("dynamic", flag.ContinueOnError)
	configPath := fs.String("config", "", "TOML config document")
	seed := fs.Int64("seed", 1, "RNG seed")
	verbose := fs.Bool("v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 2 {
		c.Ui.Error("dynamic requires an instance file and an epochs file")
		return 1
	}

	doc, err := loadDocument(*configPath)
	if err != nil {
		c.Ui.Error(fmt.Sprintf("dynamic: %v", err))
		return exitCode(err)
	}

	static, err := loadInstance(fs.Arg(0))
	if err != nil {
		c.Ui.Error(fmt.Sprintf("dynamic: %v", err))
		return exitCode(err)
	}

	epochs, epochTlim, epochDuration, err := loadEpochs(fs.Arg(1), static)
	if err != nil {
		c.Ui.Error(fmt.Sprintf("dynamic: %v", err))
		return exitCode(err)
	}
	doc.Rollout.EpochDuration = epochDuration

	log := c.newLogger("dynamic", *verbose)
	dispatcher, err := rollout.NewDispatcher(static, doc.Rollout, doc.GA, *seed, log)
	if err != nil {
		c.Ui.Error(fmt.Sprintf("dynamic: %v", err))
		return exitCode(err)
	}

	env := envproto.NewReplayEnv(static, epochs, epochTlim, epochDuration)
	ctx := context.Background()
	obs, info, err := env.Reset()
	if err != nil {
		c.Ui.Error(fmt.Sprintf("dynamic: %v", err))
		return exitCode(err)
	}

	var totalCost float64
	for {
		finalEpoch := obs.CurrentEpoch >= info.EndEpoch
		epochsLeft := info.EndEpoch - obs.CurrentEpoch
		budget := time.Duration(info.EpochTlim * float64(time.Second))

		sol, err := dispatcher.Dispatch(ctx, obs, epochsLeft, budget, finalEpoch)
		if err != nil {
			c.Ui.Error(fmt.Sprintf("dynamic: epoch %d: %v", obs.CurrentEpoch, err))
			return exitCode(err)
		}

		var done bool
		var reward float64
		var stepInfo envproto.Info
		obs, reward, done, stepInfo, err = env.Step(sol)
		if stepInfo.Error != nil {
			c.Ui.Error(fmt.Sprintf("dynamic: epoch: %v", stepInfo.Error))
			return exitCode(stepInfo.Error)
		}
		if err != nil {
			c.Ui.Error(fmt.Sprintf("dynamic: %v", err))
			return exitCode(err)
		}
		totalCost += -reward
		if done {
			break
		}
	}

	c.Ui.Output(fmt.Sprintf("total cost: %d", int64(totalCost)))
	return 0
}

