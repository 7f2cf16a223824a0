package analysis

// Exit codes the generated scripts end with.
const (
	ExitConverged = 1
	ExitDiverged  = 2
)

// Status classifies how a solver run ended.
type Status int

const (
	Succeeded Status = iota + 1 // every step converged
	Failed                      // a step failed to converge; results are partial
	Errored                     // anything else; no results
)

func (s Status) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Errored:
		return "errored"
	}
	return "unknown"
}

// Classify maps a solver exit code to a Status.
func Classify(exitCode int) Status {
	switch exitCode {
	case ExitConverged:
		return Succeeded
	case ExitDiverged:
		return Failed
	}
	return Errored
}

// State is a step of the driver's run.
type State int

const (
	StateIdle State = iota
	StateScriptAssembled
	StateProcessRunning
	StateSucceeded
	StateFailed
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScriptAssembled:
		return "script-assembled"
	case StateProcessRunning:
		return "process-running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateErrored:
		return "errored"
	}
	return "unknown"
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	return s >= StateSucceeded
}

func terminal(s Status) State {
	switch s {
	case Succeeded:
		return StateSucceeded
	case Failed:
		return StateFailed
	}
	return StateErrored
}
