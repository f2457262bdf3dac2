package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/katalvlaran/hgs-vrptw/config"
	"github.com/katalvlaran/hgs-vrptw/ga"
	"github.com/katalvlaran/hgs-vrptw/indiv"
	"github.com/katalvlaran/hgs-vrptw/instance"
)

// loadDocument decodes the TOML config document at path, or the reference
// defaults (ga.DefaultConfig/rollout.DefaultConfig) if path is empty.
func loadDocument(path string) (config.Document, error) {
	if path == "" {
		return config.Parse(strings.NewReader(""))
	}
	f, err := os.Open(path)
	if err != nil {
		return config.Document{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return config.Parse(f)
}

// loadInstance parses a VRPLIB-like instance file from path.
func loadInstance(path string) (*instance.Instance, error) {
	f, err := openReadFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return instance.Parse(f)
}

// openReadFile opens path for reading, wrapping the error with the
// "instance:" prefix every caller here expects.
func openReadFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("instance: %w", err)
	}
	return f, nil
}

// runStaticSolve drives ga.Driver to completion over inst.
func runStaticSolve(ctx context.Context, inst *instance.Instance, cfg ga.Config, log hclog.Logger) (*indiv.Individual, error) {
	drv, err := ga.New(inst, cfg, log)
	if err != nil {
		return nil, err
	}
	return drv.Run(ctx)
}

// routesOf converts an Individual's routes into a Solution's 1-based
// client-index route list (both already use the 1..N client convention, so
// this is a straight field copy, non-empty routes only).
func routesOf(ind *indiv.Individual) [][]int {
	routes := make([][]int, 0, len(ind.Routes))
	for _, rt := range ind.Routes {
		if len(rt.Clients) == 0 {
			continue
		}
		routes = append(routes, rt.Clients)
	}
	return routes
}
