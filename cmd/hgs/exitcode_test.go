package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hgs-vrptw/hgserr"
)

func TestExitCodeMapsSentinelsDistinctly(t *testing.T) {
	require.Equal(t, 0, exitCode(nil))
	require.Equal(t, 2, exitCode(fmt.Errorf("wrap: %w", hgserr.Infeasible)))
	require.Equal(t, 3, exitCode(fmt.Errorf("wrap: %w", hgserr.EnvironmentError)))
	require.Equal(t, 4, exitCode(fmt.Errorf("wrap: %w", hgserr.InvalidConfig)))
	require.Equal(t, 4, exitCode(fmt.Errorf("wrap: %w", hgserr.InvalidInstance)))
	require.Equal(t, 4, exitCode(fmt.Errorf("wrap: %w", hgserr.ValidationError)))
	require.Equal(t, 1, exitCode(fmt.Errorf("plain io error")))
}

func TestSolveCommandImplementsCLICommand(t *testing.T) {
	var _ interface {
		Help() string
		Run(args []string) int
		Synopsis() string
	} = &SolveCommand{Meta: &Meta{}}
}
