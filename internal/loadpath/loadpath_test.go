package loadpath

import (
	"bytes"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var approx = cmpopts.EquateApprox(0, 1e-12)

func mustRate(t *testing.T, step float64) Policy {
	t.Helper()
	p, err := Rate(step)
	require.NoError(t, err)
	return p
}

func TestFillExample(t *testing.T) {
	got := Fill(Column([]float64{0, 1, -1}), 0.25)
	want := Column([]float64{0, 0.25, 0.5, 0.75, 1, 0.75, 0.5, 0.25, 0, -0.25, -0.5, -0.75, -1})
	require.Len(t, got, 13)
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Fill() mismatch (-want +got):\n%s", diff)
	}
}

func TestFillMultiChannel(t *testing.T) {
	got := Fill([][]float64{{0, 1, -1}, {1, 2, -2}}, 0.25)
	want := [][]float64{
		{0, 1, -1},
		{0.25, 1.25, -1.25},
		{0.5, 1.5, -1.5},
		{0.75, 1.75, -1.75},
		{1, 2, -2},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Fill() mismatch (-want +got):\n%s", diff)
	}
}

func TestFillGoverningChannel(t *testing.T) {
	// Channel 2 moves four times as far and sets the count for both.
	got := Fill([][]float64{{0, 0}, {1, 4}}, 1)
	want := [][]float64{{0, 0}, {0.25, 1}, {0.5, 2}, {0.75, 3}, {1, 4}}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Fill() mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateExample(t *testing.T) {
	got, err := Generate1D([]float64{0, 1, -1}, mustRate(t, 0.25))
	require.NoError(t, err)

	want := []float64{0, 0, 0.25, 0.5, 0.75, 1, 0.75, 0.5, 0.25, 0, -0.25, -0.5, -0.75, -1, -1}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Generate1D() mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateProperties(t *testing.T) {
	cases := []struct {
		name  string
		peaks []float64
		rate  float64
	}{
		{"symmetric cycles", []float64{0, 1, -1, 2, -2, 0}, 0.1},
		{"uneven", []float64{0.3, 0.31, -7, 12.5}, 0.7},
		{"repeated peaks", []float64{1, 1, 1, 3}, 0.5},
		{"single peak", []float64{4}, 1},
		{"rate larger than path", []float64{0, 0.01, -0.01}, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Generate1D(tc.peaks, mustRate(t, tc.rate))
			require.NoError(t, err)
			n := len(got)
			require.GreaterOrEqual(t, n, 3)

			// Hold points.
			assert.Equal(t, got[0], got[1])
			assert.Equal(t, got[n-1], got[n-2])
			assert.Equal(t, tc.peaks[0], got[0])
			assert.Equal(t, tc.peaks[len(tc.peaks)-1], got[n-1])

			// Every peak in order.
			j := 0
			for _, v := range got {
				if j < len(tc.peaks) && v == tc.peaks[j] {
					j++
				}
			}
			assert.Equal(t, len(tc.peaks), j, "peaks are not a subsequence of %v", got)

			// No step exceeds the rate.
			for i := 1; i < n; i++ {
				assert.LessOrEqual(t, math.Abs(got[i]-got[i-1]), tc.rate+1e-12)
			}
		})
	}
}

func TestZeroLengthSegment(t *testing.T) {
	got := Fill(Column([]float64{2, 2}), 0.1)
	assert.Equal(t, Column([]float64{2, 2}), got)
	assert.Equal(t, 2, Count([]float64{2}, []float64{2}, 0.1))
	assert.Equal(t, 2, Count([]float64{0}, []float64{1}, 0))

	// All peaks equal: NoSubdivision derives a zero step.
	flat, err := Generate1D([]float64{3, 3, 3}, NoSubdivision())
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 3, 3, 3, 3}, flat)
}

func TestNoSubdivision(t *testing.T) {
	got, err := Generate1D([]float64{0, 1, -1, 0.5}, NoSubdivision())
	require.NoError(t, err)
	// The longest segment (1 -> -1) sets the step to 2; every segment is
	// shorter or equal, so only the peaks remain.
	assert.Equal(t, []float64{0, 0, 1, -1, 0.5, 0.5}, got)
}

func TestStepsUsesTotalPathLength(t *testing.T) {
	p, err := Steps(6)
	require.NoError(t, err)

	peaks := Column([]float64{0, 1, -1})
	// Total length 3 over 6 steps: step 0.5 for every segment.
	assert.InDelta(t, 0.5, p.StepSize(peaks), 1e-15)

	got, err := Generate(peaks, p)
	require.NoError(t, err)
	want := Column([]float64{0, 0, 0.5, 1, 0.5, 0, -0.5, -1, -1})
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Generate() mismatch (-want +got):\n%s", diff)
	}
}

func TestStepsMultiChannel(t *testing.T) {
	p, err := Steps(4)
	require.NoError(t, err)
	// Segment lengths are the largest channel change: 2 then 2.
	peaks := [][]float64{{0, 0}, {1, 2}, {0, 0}}
	assert.InDelta(t, 1.0, p.StepSize(peaks), 1e-15)
}

func TestPolicyErrors(t *testing.T) {
	_, err := Rate(0)
	assert.ErrorIs(t, err, ErrPolicy)
	_, err = Rate(math.NaN())
	assert.ErrorIs(t, err, ErrPolicy)
	_, err = Steps(-1)
	assert.ErrorIs(t, err, ErrPolicy)
	_, err = Steps(math.Inf(1))
	assert.ErrorIs(t, err, ErrPolicy)
}

func TestParsePolicy(t *testing.T) {
	v := 0.25

	p, err := ParsePolicy("rate", &v)
	require.NoError(t, err)
	assert.Equal(t, "rate(0.25)", p.String())

	p, err = ParsePolicy("StrainRate", &v)
	require.NoError(t, err)
	assert.Equal(t, "rate(0.25)", p.String())

	p, err = ParsePolicy("Steps", &v)
	require.NoError(t, err)
	assert.Equal(t, "steps(0.25)", p.String())

	p, err = ParsePolicy("", nil)
	require.NoError(t, err)
	assert.Equal(t, "none", p.String())

	_, err = ParsePolicy("rate", nil)
	assert.ErrorIs(t, err, ErrPolicy)
	_, err = ParsePolicy("steps", nil)
	assert.ErrorIs(t, err, ErrPolicy)
	_, err = ParsePolicy("log", &v)
	assert.ErrorIs(t, err, ErrPolicy)
}

func TestGenerateRejectsBadPeaks(t *testing.T) {
	tests := map[string][][]float64{
		"empty":       nil,
		"no channels": {{}},
		"ragged":      {{0, 1}, {1}},
		"nan":         {{0}, {math.NaN()}},
	}
	for name, peaks := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Generate(peaks, NoSubdivision())
			assert.ErrorIs(t, err, ErrPeaks)
		})
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, [][]float64{{0}, {0.1}, {-1e-9, 2.5}}))
	assert.Equal(t, "0\n0.1\n-1e-09 2.5\n", buf.String())
}
