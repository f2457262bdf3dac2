package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/katalvlaran/hgs-vrptw/instance"
)

// SolveCommand solves one static VRPTW instance through the GA driver and
// writes the resulting solution (spec.md §6 "solve").
type SolveCommand struct {
	*Meta
}

func (c *SolveCommand) Synopsis() string {
	return "Solve a static VRPTW instance"
}

func (c *SolveCommand) Help() string {
	return strings.TrimSpace(`
Usage: hgs solve [options] <instance-file>

  Solves a static VRPTW instance with the hybrid genetic search and writes
  the resulting routes and cost to stdout (or -out).

Options:

  -config=<path>   TOML config document (spec.md §6). Defaults used if omitted.
  -out=<path>       Write the solution here instead of stdout.
  -seed=<n>         RNG seed override (defaults to the config document's).
  -v                Verbose (debug-level) logging to stderr.
`)
}

func (c *SolveCommand) Run(args []string) int {
	fs := flag.NewFlagSet("solve", flag.ContinueOnError)
	configPath := fs.String("config", "", "TOML config document")
	outPath := fs.String("out", "", "solution output path")
	seed := fs.Int64("seed", 0, "RNG seed override")
	seedSet := false
	verbose := fs.Bool("v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})
	if fs.NArg() != 1 {
		c.Ui.Error("solve requires exactly one instance file argument")
		return 1
	}

	doc, err := loadDocument(*configPath)
	if err != nil {
		c.Ui.Error(fmt.Sprintf("solve: %v", err))
		return exitCode(err)
	}
	if seedSet {
		doc.GA.Seed = *seed
	}

	inst, err := loadInstance(fs.Arg(0))
	if err != nil {
		c.Ui.Error(fmt.Sprintf("solve: %v", err))
		return exitCode(err)
	}

	best, err := runStaticSolve(context.Background(), inst, doc.GA, c.newLogger("solve", *verbose))
	if err != nil {
		c.Ui.Error(fmt.Sprintf("solve: %v", err))
		return exitCode(err)
	}

	sol := instance.Solution{Routes: routesOf(best), Cost: best.Cost(0, 0)}
	if *outPath == "" {
		if err := instance.WriteSolution(os.Stdout, sol); err != nil {
			c.Ui.Error(fmt.Sprintf("solve: %v", err))
			return 1
		}
		return 0
	}
	f, err := os.Create(*outPath)
	if err != nil {
		c.Ui.Error(fmt.Sprintf("solve: %v", err))
		return 1
	}
	defer f.Close()
	if err := instance.WriteSolution(f, sol); err != nil {
		c.Ui.Error(fmt.Sprintf("solve: %v", err))
		return 1
	}
	return 0
}
