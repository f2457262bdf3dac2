package main

import (
	"errors"
	"os"

	"github.com/hashicorp/cli"
	"github.com/hashicorp/go-hclog"

	"github.com/katalvlaran/hgs-vrptw/hgserr"
)

// Meta holds the state shared by every subcommand.
type Meta struct {
	Ui cli.Ui
}

// newLogger builds the structured logger every subcommand threads into
// ga.Driver/rollout.Dispatcher, named after the invoking subcommand.
func (m *Meta) newLogger(name string, verbose bool) hclog.Logger {
	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "hgs." + name,
		Level:  level,
		Output: os.Stderr,
	})
}

// exitCode maps an error returned by the solve/dynamic/validate pipelines
// to the process exit code spec.md §6 documents: 0 on success, non-zero on
// invalid config, I/O error, infeasible hindsight, or environment protocol
// violation.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, hgserr.Infeasible):
		return 2
	case errors.Is(err, hgserr.EnvironmentError):
		return 3
	case errors.Is(err, hgserr.InvalidConfig), errors.Is(err, hgserr.InvalidInstance), errors.Is(err, hgserr.ValidationError):
		return 4
	default:
		return 1
	}
}
