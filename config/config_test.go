package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hgs-vrptw/config"
	"github.com/katalvlaran/hgs-vrptw/hgserr"
)

func TestParseEmptyDocumentYieldsDefaults(t *testing.T) {
	doc, err := config.Parse(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, 20000, doc.GA.MaxIterations)
	require.Equal(t, "rollout", doc.Rollout.Strategy)
}

func TestParseOverridesSelectedKeys(t *testing.T) {
	src := `
[static]
minPopSize = 10
nbGranular = 8
maxIterations = 500

[dynamic]
strategy = "greedy"
`
	doc, err := config.Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 10, doc.GA.Population.Mu)
	require.Equal(t, 8, doc.GA.NbGranular)
	require.Equal(t, 500, doc.GA.MaxIterations)
	require.Equal(t, "greedy", doc.Rollout.Strategy)
}

func TestParseRejectsUnknownKey(t *testing.T) {
	src := `
[static]
nbGranularr = 8
`
	_, err := config.Parse(strings.NewReader(src))
	require.ErrorIs(t, err, hgserr.InvalidConfig)
}

func TestParseRejectsConflictingStopCriteria(t *testing.T) {
	src := `
[static]
maxIterations = 500
maxRuntime = 5.0
`
	_, err := config.Parse(strings.NewReader(src))
	require.ErrorIs(t, err, hgserr.InvalidConfig)
}

func TestParseRejectsUnknownStrategy(t *testing.T) {
	src := `
[dynamic]
strategy = "bogus"
`
	_, err := config.Parse(strings.NewReader(src))
	require.ErrorIs(t, err, hgserr.InvalidConfig)
}
