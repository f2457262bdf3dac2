package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/katalvlaran/hgs-vrptw/hgserr"
	"github.com/katalvlaran/hgs-vrptw/indiv"
	"github.com/katalvlaran/hgs-vrptw/instance"
)

// ValidateCommand checks an instance file for internal consistency and,
// optionally, a solution file's routes against it (spec.md §6 "validate",
// §8's round-trip law).
type ValidateCommand struct {
	*Meta
}

func (c *ValidateCommand) Synopsis() string {
	return "Validate a VRPTW instance and/or solution file"
}

func (c *ValidateCommand) Help() string {
	return strings.TrimSpace(`
Usage: hgs validate [options] <instance-file> [solution-file]

  Validates the instance file's internal consistency (spec.md §3's
  invariants). With a solution file argument, also checks every client
  appears in exactly one route, re-derives the routes' cost from scratch,
  and reports a mismatch against the file's declared cost as
  hgserr.ValidationError.
`)
}

func (c *ValidateCommand) Run(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 && fs.NArg() != 2 {
		c.Ui.Error("validate requires an instance file and an optional solution file")
		return 1
	}

	inst, err := loadInstance(fs.Arg(0))
	if err != nil {
		c.Ui.Error(fmt.Sprintf("validate: %v", err))
		return exitCode(err)
	}
	if err := inst.Validate(); err != nil {
		c.Ui.Error(fmt.Sprintf("validate: %v", err))
		return exitCode(err)
	}
	c.Ui.Output("instance OK")

	if fs.NArg() == 1 {
		return 0
	}

	sol, err := loadSolution(fs.Arg(1))
	if err != nil {
		c.Ui.Error(fmt.Sprintf("validate: %v", err))
		return exitCode(err)
	}

	ind, err := indiv.NewFromRoutes(inst, sol.Routes, len(sol.Routes))
	if err != nil {
		c.Ui.Error(fmt.Sprintf("validate: %v", err))
		return exitCode(err)
	}
	recomputed := ind.Cost(0, 0)
	if recomputed != sol.Cost {
		err := fmt.Errorf("validate: declared cost %d does not match recomputed cost %d: %w", sol.Cost, recomputed, hgserr.ValidationError)
		c.Ui.Error(err.Error())
		return exitCode(err)
	}
	c.Ui.Output("solution OK")
	return 0
}

func loadSolution(path string) (instance.Solution, error) {
	f, err := openReadFile(path)
	if err != nil {
		return instance.Solution{}, err
	}
	defer f.Close()
	return instance.ParseSolution(f)
}
