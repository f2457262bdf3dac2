// VRPLIB-like instance file parsing and writing (spec.md §6).
//
// Sections: CAPACITY, EDGE_WEIGHT_TYPE (EXPLICIT), EDGE_WEIGHT_FORMAT
// (FULL_MATRIX), EDGE_WEIGHT_SECTION, NODE_COORD_SECTION, DEMAND_SECTION,
// DEPOT_SECTION (terminated by -1), TIME_WINDOW_SECTION, SERVICE_TIME_SECTION,
// optional RELEASE_TIME_SECTION, EOF. File indices are 1-based; the depot is
// index 1 on disk and index instance.Depot (0) in memory.
//
// No third-party parser fits this bespoke, whitespace-delimited section
// grammar (it is not INI/TOML/JSON/CSV); hand-written scanning is the
// documented exception to "prefer a library" (see DESIGN.md).
package instance

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/hgs-vrptw/hgserr"
	"github.com/katalvlaran/hgs-vrptw/matrix"
)

// Parse reads a VRPLIB-like instance from r.
//
// Complexity: O(n^2) dominated by EDGE_WEIGHT_SECTION.
func Parse(r io.Reader) (*Instance, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		n          int // number of locations including depot, once known
		capacity   int64
		dist       *matrix.Dense
		filledRows int
		demand     []int64
		early      []int64
		late       []int64
		service    []int64
		release    []int64
		coord      [][2]int64
	)

	section := ""
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line == "EOF" {
			break
		}

		if !strings.Contains(line, ":") && isKnownSectionHeader(line) {
			section = line
			continue
		}
		if strings.HasPrefix(line, "CAPACITY") {
			capacity = mustFieldInt64(line)
			continue
		}
		if strings.HasPrefix(line, "EDGE_WEIGHT_TYPE") || strings.HasPrefix(line, "EDGE_WEIGHT_FORMAT") ||
			strings.HasPrefix(line, "NAME") || strings.HasPrefix(line, "TYPE") || strings.HasPrefix(line, "DIMENSION") {
			continue // informational/fixed-value keys; EXPLICIT+FULL_MATRIX is the only supported combination
		}

		switch section {
		case "EDGE_WEIGHT_SECTION":
			row, err := parseInt64Row(line)
			if err != nil {
				return nil, err
			}
			dist, n, filledRows, err = appendMatrixRow(dist, row, n, filledRows)
			if err != nil {
				return nil, err
			}
		case "NODE_COORD_SECTION":
			fields := strings.Fields(line)
			if len(fields) < 3 {
				continue
			}
			idx, x, y := mustInt(fields[0])-1, mustInt64(fields[1]), mustInt64(fields[2])
			coord = growCoord(coord, idx)
			coord[idx] = [2]int64{x, y}
		case "DEMAND_SECTION":
			fields := strings.Fields(line)
			if len(fields) < 2 {
				continue
			}
			idx := mustInt(fields[0]) - 1
			demand = growInt64(demand, idx)
			demand[idx] = mustInt64(fields[1])
		case "DEPOT_SECTION":
			if strings.TrimSpace(line) == "-1" {
				section = ""
				continue
			}
			// Depot index is always 1 on disk; nothing further to record.
		case "TIME_WINDOW_SECTION":
			fields := strings.Fields(line)
			if len(fields) < 3 {
				continue
			}
			idx := mustInt(fields[0]) - 1
			early = growInt64(early, idx)
			late = growInt64(late, idx)
			early[idx] = mustInt64(fields[1])
			late[idx] = mustInt64(fields[2])
		case "SERVICE_TIME_SECTION":
			fields := strings.Fields(line)
			if len(fields) < 2 {
				continue
			}
			idx := mustInt(fields[0]) - 1
			service = growInt64(service, idx)
			service[idx] = mustInt64(fields[1])
		case "RELEASE_TIME_SECTION":
			fields := strings.Fields(line)
			if len(fields) < 2 {
				continue
			}
			idx := mustInt(fields[0]) - 1
			release = growInt64(release, idx)
			release[idx] = mustInt64(fields[1])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("instance: scan: %w", err)
	}
	if dist == nil {
		return nil, fmt.Errorf("instance: missing EDGE_WEIGHT_SECTION: %w", hgserr.InvalidInstance)
	}

	return New(n-1, dist, demand, early, late, service, release, coord, capacity)
}

func isKnownSectionHeader(line string) bool {
	switch line {
	case "EDGE_WEIGHT_SECTION", "NODE_COORD_SECTION", "DEMAND_SECTION",
		"DEPOT_SECTION", "TIME_WINDOW_SECTION", "SERVICE_TIME_SECTION",
		"RELEASE_TIME_SECTION":
		return true
	default:
		return false
	}
}

func parseInt64Row(line string) ([]int64, error) {
	fields := strings.Fields(line)
	row := make([]int64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("instance: bad distance value %q: %w", f, hgserr.InvalidInstance)
		}
		row[i] = v
	}
	return row, nil
}

// appendMatrixRow appends one FULL_MATRIX row, inferring n from the row
// width on the first call (dist == nil).
func appendMatrixRow(dist *matrix.Dense, row []int64, n, filledRows int) (*matrix.Dense, int, int, error) {
	if dist == nil {
		n = len(row)
		var err error
		dist, err = matrix.NewDense(n)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("instance: %w: %v", hgserr.InvalidInstance, err)
		}
		filledRows = 0
	}
	if len(row) != n {
		return nil, 0, 0, fmt.Errorf("instance: ragged EDGE_WEIGHT_SECTION row: %w", hgserr.InvalidInstance)
	}
	r := filledRows
	for c, v := range row {
		_ = dist.Set(r, c, v)
	}
	filledRows++
	return dist, n, filledRows, nil
}

func growInt64(s []int64, idx int) []int64 {
	for len(s) <= idx {
		s = append(s, 0)
	}
	return s
}

func growCoord(s [][2]int64, idx int) [][2]int64 {
	for len(s) <= idx {
		s = append(s, [2]int64{})
	}
	return s
}

func mustInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func mustInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func mustFieldInt64(line string) int64 {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0
	}
	return mustInt64(fields[len(fields)-1])
}

// Write serializes inst back into VRPLIB-like form. Parse(Write(inst)) round
// -trips to an equal Instance (spec.md §8 round-trip law) for canonical
// instances (no duplicate-index sections, contiguous 1..N+1 indices).
//
// Complexity: O(n^2).
func Write(w io.Writer, inst *Instance) error {
	bw := bufio.NewWriter(w)
	n := inst.Size()

	fmt.Fprintf(bw, "CAPACITY : %d\n", inst.Capacity)
	fmt.Fprintln(bw, "EDGE_WEIGHT_TYPE : EXPLICIT")
	fmt.Fprintln(bw, "EDGE_WEIGHT_FORMAT : FULL_MATRIX")
	fmt.Fprintln(bw, "EDGE_WEIGHT_SECTION")
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v, _ := inst.Dist.At(i, j)
			if j > 0 {
				fmt.Fprint(bw, " ")
			}
			fmt.Fprintf(bw, "%d", v)
		}
		fmt.Fprintln(bw)
	}

	if inst.Coord != nil {
		fmt.Fprintln(bw, "NODE_COORD_SECTION")
		for i := 0; i < n; i++ {
			fmt.Fprintf(bw, "%d %d %d\n", i+1, inst.Coord[i][0], inst.Coord[i][1])
		}
	}

	fmt.Fprintln(bw, "DEMAND_SECTION")
	for i := 0; i < n; i++ {
		fmt.Fprintf(bw, "%d %d\n", i+1, inst.Demand[i])
	}

	fmt.Fprintln(bw, "DEPOT_SECTION")
	fmt.Fprintln(bw, "1")
	fmt.Fprintln(bw, "-1")

	fmt.Fprintln(bw, "TIME_WINDOW_SECTION")
	for i := 0; i < n; i++ {
		fmt.Fprintf(bw, "%d %d %d\n", i+1, inst.Early[i], inst.Late[i])
	}

	fmt.Fprintln(bw, "SERVICE_TIME_SECTION")
	for i := 0; i < n; i++ {
		fmt.Fprintf(bw, "%d %d\n", i+1, inst.Service[i])
	}

	if inst.Release != nil {
		fmt.Fprintln(bw, "RELEASE_TIME_SECTION")
		for i := 0; i < n; i++ {
			fmt.Fprintf(bw, "%d %d\n", i+1, inst.Release[i])
		}
	}

	fmt.Fprintln(bw, "EOF")

	return bw.Flush()
}
