// Command hgs is the VRPTW hybrid genetic search CLI (spec.md §6): solve
// (static), bench (parallel static solves over many instances), dynamic
// (rollout/greedy/lazy/random dynamic-mode replay), and validate
// (instance/solution round-trip checks) subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/cli"
)

var version = "0.1.0"

func main() {
	os.Exit(realMain())
}

func realMain() int {
	ui := &cli.ColoredUi{
		OutputColor: cli.UiColorNone,
		ErrorColor:  cli.UiColorRed,
		WarnColor:   cli.UiColorYellow,
		Ui: &cli.BasicUi{
			Writer:      os.Stdout,
			ErrorWriter: os.Stderr,
			Reader:      os.Stdin,
		},
	}
	meta := &Meta{Ui: ui}

	c := cli.NewCLI("hgs", version)
	c.Args = os.Args[1:]
	c.Commands = map[string]cli.CommandFactory{
		"solve": func() (cli.Command, error) {
			return &SolveCommand{Meta: meta}, nil
		},
		"dynamic": func() (cli.Command, error) {
			return &DynamicCommand{Meta: meta}, nil
		},
		"validate": func() (cli.Command, error) {
			return &ValidateCommand{Meta: meta}, nil
		},
		"bench": func() (cli.Command, error) {
			return &BenchCommand{Meta: meta}, nil
		},
	}

	exitCode, err := c.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}
