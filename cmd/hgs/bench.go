package main

import (
	"context"
	"flag"
	"fmt"
	"runtime"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/go-uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/katalvlaran/hgs-vrptw/ga"
)

// BenchCommand solves a batch of static instance files concurrently, one
// ga.Driver run per instance, bounded to a worker pool sized to the machine
// (spec.md §5: "sized to the machine"): a failing instance taints only its
// own result, the rest of the campaign keeps running (spec.md §7's worker
// failure propagation rule), with results aggregated via go-multierror and
// each run tagged with its own correlation ID for cross-referencing logs.
type BenchCommand struct {
	*Meta
}

func (c *BenchCommand) Synopsis() string {
	return "Solve a batch of static VRPTW instances concurrently"
}

func (c *BenchCommand) Help() string {
	return strings.TrimSpace(`
Usage: hgs bench [options] <instance-file> [instance-file...]

  Solves every listed instance file independently and concurrently,
  reporting each one's cost. A failing instance does not stop the others;
  the command exits non-zero if any instance failed.

Options:

  -config=<path>   TOML config document (spec.md §6) shared by every run.
  -workers=<n>      Concurrent solves (default: runtime.NumCPU()).
  -v                Verbose (debug-level) logging to stderr.
`)
}

// benchResult is one instance's outcome.
type benchResult struct {
	path  string
	runID string
	cost  int64
	err   error
}

func (c *BenchCommand) Run(args []string) int {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	configPath := fs.String("config", "", "TOML config document")
	workers := fs.Int("workers", runtime.NumCPU(), "concurrent solves")
	verbose := fs.Bool("v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() == 0 {
		c.Ui.Error("bench requires at least one instance file argument")
		return 1
	}

	doc, err := loadDocument(*configPath)
	if err != nil {
		c.Ui.Error(fmt.Sprintf("bench: %v", err))
		return exitCode(err)
	}

	paths := fs.Args()
	results := make([]benchResult, len(paths))

	n := *workers
	if n < 1 {
		n = 1
	}
	sem := semaphore.NewWeighted(int64(n))
	g, gctx := errgroup.WithContext(context.Background())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				results[i] = benchResult{path: path, err: err}
				return nil
			}
			defer sem.Release(1)
			results[i] = c.solveOne(path, doc.GA, *verbose)
			return nil
		})
	}
	_ = g.Wait()

	var errs *multierror.Error
	for _, r := range results {
		if r.err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s (run %s): %w", r.path, r.runID, r.err))
			continue
		}
		c.Ui.Output(fmt.Sprintf("%s (run %s): cost=%d", r.path, r.runID, r.cost))
	}
	if errs != nil {
		c.Ui.Error(errs.Error())
		return exitCode(errs.Errors[0])
	}
	return 0
}

func (c *BenchCommand) solveOne(path string, gaCfg ga.Config, verbose bool) benchResult {
	runID, _ := uuid.GenerateUUID()

	inst, err := loadInstance(path)
	if err != nil {
		return benchResult{path: path, runID: runID, err: err}
	}

	log := c.newLogger("bench", verbose).With("instance", path, "run_id", runID)
	best, err := runStaticSolve(context.Background(), inst, gaCfg, log)
	if err != nil {
		return benchResult{path: path, runID: runID, err: err}
	}
	return benchResult{path: path, runID: runID, cost: best.Cost(0, 0)}
}
