package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/opsrun/internal/loadpath"
)

// policyFlags selects the load path subdivision policy.
type policyFlags struct {
	rate  float64
	steps float64
}

func (p *policyFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&p.rate, "rate", 0, "Subdivide by a fixed step size along the path")
	cmd.Flags().Float64Var(&p.steps, "steps", 0, "Subdivide the whole path into about this many steps")
	cmd.MarkFlagsMutuallyExclusive("rate", "steps")
}

// policy returns the policy named on the command line; without --rate or
// --steps only the peaks are used.
func (p *policyFlags) policy(cmd *cobra.Command) (loadpath.Policy, error) {
	switch {
	case cmd.Flags().Changed("rate"):
		return loadpath.ParsePolicy("rate", &p.rate)
	case cmd.Flags().Changed("steps"):
		return loadpath.ParsePolicy("steps", &p.steps)
	}
	return loadpath.NoSubdivision(), nil
}

// parsePeaks reads one comma-separated list of peaks per channel and
// returns them as points, one row per peak.
func parsePeaks(channels []string) ([][]float64, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("%w: no peaks given", loadpath.ErrPeaks)
	}
	var cols [][]float64
	for i, ch := range channels {
		var col []float64
		for _, field := range strings.Split(ch, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("peaks %d: %q is not a number", i+1, field)
			}
			col = append(col, v)
		}
		if i > 0 && len(col) != len(cols[0]) {
			return nil, fmt.Errorf("%w: channel %d has %d peaks, channel 1 has %d",
				loadpath.ErrPeaks, i+1, len(col), len(cols[0]))
		}
		cols = append(cols, col)
	}

	points := make([][]float64, len(cols[0]))
	for j := range points {
		points[j] = make([]float64, len(cols))
		for i := range cols {
			points[j][i] = cols[i][j]
		}
	}
	return points, nil
}

// column extracts channel i of a path.
func column(path [][]float64, i int) []float64 {
	out := make([]float64, len(path))
	for j, row := range path {
		out[j] = row[i]
	}
	return out
}
