// Package loadpath turns a sparse list of peak values into the dense,
// piecewise-linear path imposed on a model one step at a time.
package loadpath

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Fill interpolates linearly between consecutive peaks. Each segment gets
// max(2, 1+ceil(max|Δ/step|)) points sharing one count across channels; the
// first point of every segment after the first is dropped since it repeats
// the previous peak. A zero-length segment, or a non-positive step, yields
// just the two end points.
//
// Every peak must have the same number of channels; Generate validates
// that.
//
//	Fill([][]float64{{0}, {1}, {-1}}, 0.25) // 13 rows: 0 .25 .5 .75 1 .75 ... -1
func Fill(peaks [][]float64, step float64) [][]float64 {
	if len(peaks) == 0 {
		return nil
	}
	out := [][]float64{clone(peaks[0])}
	for i := 1; i < len(peaks); i++ {
		a, b := peaks[i-1], peaks[i]
		n := Count(a, b, step)
		for k := 1; k < n; k++ {
			out = append(out, lerp(a, b, k, n))
		}
	}
	return out
}

// Count returns the number of points, both ends included, in the segment
// from a to b.
func Count(a, b []float64, step float64) int {
	if !(step > 0) {
		return 2
	}
	worst := 0.0
	for c := range a {
		worst = math.Max(worst, math.Abs((b[c]-a[c])/step))
	}
	n := 1 + math.Ceil(worst)
	if math.IsInf(n, 0) || n < 2 {
		return 2
	}
	return int(n)
}

// lerp returns point k of n evenly spaced from a to b; the last point is b
// exactly.
func lerp(a, b []float64, k, n int) []float64 {
	if k == n-1 {
		return clone(b)
	}
	p := make([]float64, len(a))
	for c := range a {
		p[c] = a[c] + float64(k)*((b[c]-a[c])/float64(n-1))
	}
	return p
}

// Generate returns the dense path for peaks under policy p, bracketed by a
// hold point at each end: the first and last rows are repeated once.
func Generate(peaks [][]float64, p Policy) ([][]float64, error) {
	if err := validate(peaks); err != nil {
		return nil, err
	}
	dense := Fill(peaks, p.StepSize(peaks))

	out := make([][]float64, 0, len(dense)+2)
	out = append(out, clone(dense[0]))
	out = append(out, dense...)
	out = append(out, clone(dense[len(dense)-1]))
	return out, nil
}

// Generate1D is Generate for single-channel peaks.
func Generate1D(peaks []float64, p Policy) ([]float64, error) {
	rows, err := Generate(Column(peaks), p)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r[0]
	}
	return out, nil
}

// Column wraps each value in a single-channel row.
func Column(values []float64) [][]float64 {
	rows := make([][]float64, len(values))
	for i, v := range values {
		rows[i] = []float64{v}
	}
	return rows
}

func validate(peaks [][]float64) error {
	if len(peaks) == 0 {
		return fmt.Errorf("%w: no peaks", ErrPeaks)
	}
	width := len(peaks[0])
	if width == 0 {
		return fmt.Errorf("%w: peak 1 has no channels", ErrPeaks)
	}
	for i, p := range peaks {
		if len(p) != width {
			return fmt.Errorf("%w: peak %d has %d channels, want %d", ErrPeaks, i+1, len(p), width)
		}
		for _, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: peak %d is not finite", ErrPeaks, i+1)
			}
		}
	}
	return nil
}

// WriteTable writes rows as a whitespace-separated numeric table, one row
// per line, in the shortest form that reads back to the same float64.
func WriteTable(w io.Writer, rows [][]float64) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)
	for _, row := range rows {
		for c, v := range row {
			if c > 0 {
				bw.WriteByte(' ')
			}
			buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
			bw.Write(buf)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func clone(p []float64) []float64 {
	return append([]float64(nil), p...)
}
