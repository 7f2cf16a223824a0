package loadpath

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrPolicy is returned for a policy missing its numeric parameter or
	// given an unusable one.
	ErrPolicy = errors.New("invalid load-path policy")
	// ErrPeaks is returned for empty, ragged or non-finite peak input.
	ErrPeaks = errors.New("invalid peaks")
)

type mode int

const (
	modeNone mode = iota
	modeRate
	modeSteps
)

// Policy decides the step size used to subdivide every segment of a path.
// The zero Policy is NoSubdivision.
type Policy struct {
	mode  mode
	value float64
}

// Rate subdivides each segment in increments of at most step.
func Rate(step float64) (Policy, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return Policy{}, fmt.Errorf("%w: rate must be a positive number, got %v", ErrPolicy, step)
	}
	return Policy{mode: modeRate, value: step}, nil
}

// Steps derives one step size for the whole path: the total path length
// divided by count. Segments shorter than the average get fewer steps.
func Steps(count float64) (Policy, error) {
	if !(count > 0) || math.IsInf(count, 0) {
		return Policy{}, fmt.Errorf("%w: step count must be a positive number, got %v", ErrPolicy, count)
	}
	return Policy{mode: modeSteps, value: count}, nil
}

// NoSubdivision uses the largest peak-to-peak distance as the step, so each
// segment keeps only its two end points.
func NoSubdivision() Policy {
	return Policy{}
}

// ParsePolicy builds a policy from its textual name: "rate" (or
// "strainrate"), "steps", or "" / "none". A named policy without a value is
// an error.
func ParsePolicy(name string, value *float64) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return NoSubdivision(), nil
	case "rate", "strainrate":
		if value == nil {
			return Policy{}, fmt.Errorf("%w: rate policy requires a value", ErrPolicy)
		}
		return Rate(*value)
	case "steps":
		if value == nil {
			return Policy{}, fmt.Errorf("%w: steps policy requires a value", ErrPolicy)
		}
		return Steps(*value)
	}
	return Policy{}, fmt.Errorf("%w: unknown policy %q", ErrPolicy, name)
}

func (p Policy) String() string {
	switch p.mode {
	case modeRate:
		return fmt.Sprintf("rate(%g)", p.value)
	case modeSteps:
		return fmt.Sprintf("steps(%g)", p.value)
	}
	return "none"
}

// StepSize returns the step the policy applies to peaks. Segment length is
// the largest per-channel change between consecutive peaks.
func (p Policy) StepSize(peaks [][]float64) float64 {
	switch p.mode {
	case modeRate:
		return p.value
	case modeSteps:
		total := 0.0
		for i := 1; i < len(peaks); i++ {
			total += span(peaks[i-1], peaks[i])
		}
		return total / p.value
	}
	largest := 0.0
	for i := 1; i < len(peaks); i++ {
		largest = math.Max(largest, span(peaks[i-1], peaks[i]))
	}
	return largest
}

func span(a, b []float64) float64 {
	m := 0.0
	for c := range a {
		m = math.Max(m, math.Abs(b[c]-a[c]))
	}
	return m
}
