package analysis

import (
	"time"
)

// Result is the parsed outcome of a Succeeded or Failed run. It is not
// modified after Execute returns.
type Result struct {
	name     string
	status   Status
	exitCode int
	output   string
	script   string
	dir      string
	duration time.Duration
	warnings []string
	names    []string
	channels map[string][]float64
}

// Name returns the job name.
func (r *Result) Name() string { return r.name }

// Status returns Succeeded or Failed.
func (r *Result) Status() Status { return r.status }

// ExitCode returns the solver exit code.
func (r *Result) ExitCode() int { return r.exitCode }

// Output returns the solver's combined stdout and stderr.
func (r *Result) Output() string { return r.output }

// Script returns the script text the solver ran.
func (r *Result) Script() string { return r.script }

// Dir returns the workspace directory, or "" when it was deleted.
func (r *Result) Dir() string { return r.dir }

// Duration returns the solver's wall time.
func (r *Result) Duration() time.Duration { return r.duration }

// Warnings returns the non-fatal problems of the run.
func (r *Result) Warnings() []string {
	return append([]string(nil), r.warnings...)
}

// Names lists the channels present, in declaration order. Optional
// channels without output are absent.
func (r *Result) Names() []string {
	return append([]string(nil), r.names...)
}

// Channel returns a copy of a named channel.
func (r *Result) Channel(name string) ([]float64, bool) {
	v, ok := r.channels[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), v...), true
}

// Len returns the length of the longest channel.
func (r *Result) Len() int {
	n := 0
	for _, v := range r.channels {
		n = max(n, len(v))
	}
	return n
}
