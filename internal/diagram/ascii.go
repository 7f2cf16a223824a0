package diagram

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// ASCIIPath plots values against their index, as a load path reads step by
// step.
func ASCIIPath(values []float64, height int, caption string) string {
	if len(values) == 0 {
		return ""
	}
	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Precision(3),
	}
	if caption != "" {
		opts = append(opts, asciigraph.Caption(caption))
	}
	return asciigraph.Plot(values, opts...)
}

// ASCIIChannels plots several equally long series against their index on
// shared axes.
func ASCIIChannels(series [][]float64, height int, caption string) string {
	if len(series) == 0 || len(series[0]) == 0 {
		return ""
	}
	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Precision(3),
	}
	if caption != "" {
		opts = append(opts, asciigraph.Caption(caption))
	}
	return asciigraph.PlotMany(series, opts...)
}

// ASCIIHysteresis draws y against x on a width by height character grid.
// Consecutive points are joined, and the zero axes are drawn when they fall
// inside the data range.
func ASCIIHysteresis(x, y []float64, width, height int) (string, error) {
	if len(x) != len(y) {
		return "", fmt.Errorf("hysteresis: %d x values, %d y values", len(x), len(y))
	}
	if len(x) == 0 {
		return "", nil
	}
	width = max(width, 10)
	height = max(height, 5)

	minX, maxX := bounds(x)
	minY, maxY := bounds(y)
	col := func(v float64) int { return scale(v, minX, maxX, width) }
	row := func(v float64) int { return height - 1 - scale(v, minY, maxY, height) }

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := range grid[r] {
			grid[r][c] = '─'
		}
	}
	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := range grid {
			if grid[r][c] == '─' {
				grid[r][c] = '┼'
			} else {
				grid[r][c] = '│'
			}
		}
	}

	for i := range x {
		c, r := col(x[i]), row(y[i])
		grid[r][c] = '•'
		if i == 0 {
			continue
		}
		pc, pr := col(x[i-1]), row(y[i-1])
		steps := max(abs(c-pc), abs(r-pr))
		for s := 1; s < steps; s++ {
			t := float64(s) / float64(steps)
			ic := pc + int(math.Round(t*float64(c-pc)))
			ir := pr + int(math.Round(t*float64(r-pr)))
			if grid[ir][ic] != '•' {
				grid[ir][ic] = '·'
			}
		}
	}

	top, bottom := fmt.Sprintf("%.3g", maxY), fmt.Sprintf("%.3g", minY)
	labelWidth := max(len(top), len(bottom))

	var sb strings.Builder
	for r, line := range grid {
		label := ""
		switch r {
		case 0:
			label = top
		case height - 1:
			label = bottom
		}
		sb.WriteString(fmt.Sprintf("  %*s ┤%s\n", labelWidth, label, string(line)))
	}
	left, right := fmt.Sprintf("%.3g", minX), fmt.Sprintf("%.3g", maxX)
	gap := max(width-len(left)-len(right), 1)
	sb.WriteString(fmt.Sprintf("  %*s  %s%s%s\n", labelWidth, "", left, strings.Repeat(" ", gap), right))
	return sb.String(), nil
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len(title)
	for _, line := range lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-2, title))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-2, line))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// scale maps v in [lo, hi] onto 0..n-1. A flat range maps to the middle.
func scale(v, lo, hi float64, n int) int {
	if hi == lo {
		return n / 2
	}
	i := int(math.Round((v - lo) / (hi - lo) * float64(n-1)))
	return min(max(i, 0), n-1)
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
