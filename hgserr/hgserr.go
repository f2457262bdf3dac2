// Package hgserr defines the sentinel error taxonomy shared by every package
// in this module: InvalidConfig, InvalidInstance, Infeasible, EnvironmentError,
// and ValidationError (see spec.md §7).
//
// Packages wrap these sentinels with fmt.Errorf("...: %w", hgserr.X) rather
// than minting new error variables, so callers can use errors.Is against a
// single stable taxonomy regardless of which package raised it.
package hgserr

import "errors"

var (
	// InvalidConfig covers unknown config keys, out-of-range values, and
	// conflicting stop criteria. Fatal.
	InvalidConfig = errors.New("hgs: invalid config")

	// InvalidInstance covers malformed VRPLIB input, inconsistent sizes,
	// negative distances, and a non-zero self-distance. Fatal.
	InvalidInstance = errors.New("hgs: invalid instance")

	// Infeasible indicates no feasible individual was produced within the
	// stop criterion. Reported, not necessarily fatal: the dynamic
	// dispatcher falls back to dispatching only must-dispatch requests.
	Infeasible = errors.New("hgs: no feasible solution found")

	// EnvironmentError indicates info.error != nil from the environment
	// protocol (envproto.Info.Error). Fatal.
	EnvironmentError = errors.New("hgs: environment protocol error")

	// ValidationError indicates a returned individual's cached cost does not
	// match a from-scratch recomputation — an incremental-update bug. Fatal.
	ValidationError = errors.New("hgs: cached cost validation failed")
)
