package instance

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/hgs-vrptw/hgserr"
)

// Solution is the file-level representation of a VRPTW solution: one route
// per non-empty vehicle route, plus the total cost (spec.md §6 solution
// output format). Client indices here are the in-memory location indices
// 1..N used by indiv.Route.Clients (the depot, location 0, is implicit);
// they are written and read as-is, with no conversion to or from the
// instance file's own numbering.
type Solution struct {
	Routes [][]int // client location indices 1..N, depot implicit
	Cost   int64
}

// WriteSolution serializes sol as "Route #<k>: c1 c2 ..." lines followed by
// "Cost <value>" (spec.md §6).
func WriteSolution(w io.Writer, sol Solution) error {
	bw := bufio.NewWriter(w)
	k := 0
	for _, route := range sol.Routes {
		if len(route) == 0 {
			continue
		}
		k++
		fmt.Fprintf(bw, "Route #%d:", k)
		for _, c := range route {
			fmt.Fprintf(bw, " %d", c)
		}
		fmt.Fprintln(bw)
	}
	fmt.Fprintf(bw, "Cost %d\n", sol.Cost)
	return bw.Flush()
}

// ParseSolution re-parses the output of WriteSolution, used by the §8
// round-trip law "export -> re-parse -> validate yields the same cost".
func ParseSolution(r io.Reader) (Solution, error) {
	sc := bufio.NewScanner(r)
	var sol Solution
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "Route #") {
			rest := line[strings.Index(line, ":")+1:]
			fields := strings.Fields(rest)
			route := make([]int, 0, len(fields))
			for _, f := range fields {
				v, err := strconv.Atoi(f)
				if err != nil {
					return Solution{}, fmt.Errorf("instance: bad route client %q: %w", f, hgserr.InvalidInstance)
				}
				route = append(route, v)
			}
			sol.Routes = append(sol.Routes, route)
			continue
		}
		if strings.HasPrefix(line, "Cost") {
			fields := strings.Fields(line)
			if len(fields) != 2 {
				return Solution{}, fmt.Errorf("instance: malformed Cost line: %w", hgserr.InvalidInstance)
			}
			v, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return Solution{}, fmt.Errorf("instance: bad cost value %q: %w", fields[1], hgserr.InvalidInstance)
			}
			sol.Cost = v
		}
	}
	if err := sc.Err(); err != nil {
		return Solution{}, fmt.Errorf("instance: scan: %w", err)
	}
	return sol, nil
}
